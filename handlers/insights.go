package handlers

import (
	"github.com/gofiber/fiber/v2"

	"money-tracker-go-be/database"
	"money-tracker-go-be/finance"
)

// SpendingInsights analyses the caller's whole spending history. The months
// parameter, six by default, only limits how many calendar months of
// monthlyTotals are returned, counting the current one.
func (h *Handler) SpendingInsights(c *fiber.Ctx) error {
	months, err := queryInt(c, "months", 6, 2, 24)
	if err != nil {
		return err
	}

	txns, err := h.store.Transactions.FindByUser(c.UserContext(), currentUser(c), database.OrderBy("date"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": statusSuccess,
		"data":   finance.Insights(txns, h.now(), months),
	})
}
