package handlers

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListNotifications(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 20, 1, 100)
	if err != nil {
		return err
	}
	unreadOnly := c.QueryBool("unreadOnly", false)

	ctx := c.UserContext()
	userID := currentUser(c)
	notes, err := h.store.Notifications.List(ctx, userID, limit, unreadOnly)
	if err != nil {
		return err
	}
	unread, err := h.store.Notifications.UnreadCount(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":      statusSuccess,
		"results":     len(notes),
		"unreadCount": unread,
		"data":        fiber.Map{"notifications": notes},
	})
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	note, err := h.store.Notifications.MarkRead(c.UserContext(), id, currentUser(c))
	if err != nil {
		return recordError(err, "notification", "update")
	}
	return success(c, fiber.StatusOK, fiber.Map{"notification": note})
}

func (h *Handler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	n, err := h.store.Notifications.MarkAllRead(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "All notifications marked as read",
		"data":    fiber.Map{"updated": n},
	})
}

func (h *Handler) DeleteNotification(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.store.Notifications.Delete(c.UserContext(), id, currentUser(c)); err != nil {
		return recordError(err, "notification", "delete")
	}
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "Notification deleted successfully",
	})
}
