package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"money-tracker-go-be/database"
	"money-tracker-go-be/finance"
	"money-tracker-go-be/models"
)

type transactionRequest struct {
	Amount      float64            `json:"amount"`
	Category    models.Category    `json:"category"`
	PaymentMode models.PaymentMode `json:"paymentMode"`
	UpiID       string             `json:"upiId"`
	Description string             `json:"description"`
	Date        *Date              `json:"date"`
}

// transaction validates the request and derives the stored record. The GST
// rate always comes from the category.
func (r transactionRequest) transaction(userID uuid.UUID, now time.Time) (models.Transaction, error) {
	if finance.ValidateAmount(r.Amount) != nil {
		return models.Transaction{}, badRequest("A positive amount is required")
	}
	if r.Category == "" {
		return models.Transaction{}, badRequest("Category is required")
	}
	if !r.Category.Valid() {
		return models.Transaction{}, badRequest("Invalid category '%s'", r.Category)
	}
	if r.PaymentMode == "" {
		return models.Transaction{}, badRequest("Payment mode is required")
	}
	if !r.PaymentMode.Valid() {
		return models.Transaction{}, badRequest("Invalid payment mode '%s'", r.PaymentMode)
	}

	t := models.Transaction{
		UserID:      userID,
		Amount:      r.Amount,
		Category:    r.Category,
		PaymentMode: r.PaymentMode,
		GSTRate:     r.Category.GSTRate(),
		Description: strings.TrimSpace(r.Description),
		Date:        now.UTC(),
	}
	if r.PaymentMode == models.PaymentUPI {
		t.UpiID = strings.TrimSpace(r.UpiID)
	}
	if r.Date != nil && !r.Date.IsZero() {
		t.Date = r.Date.UTC()
	}
	return t, nil
}

func (h *Handler) CreateTransaction(c *fiber.Ctx) error {
	userID := currentUser(c)
	var req transactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	t, err := req.transaction(userID, h.now())
	if err != nil {
		return err
	}

	if err := h.store.Transactions.Create(c.UserContext(), &t); err != nil {
		return err
	}
	log.Info().Str("user_id", userID.String()).Str("transaction_id", t.ID.String()).Float64("amount", t.Amount).Msg("Transaction created")

	h.forgetAdvice(userID)
	h.checkBudgets(c.UserContext(), userID, []models.Transaction{t})

	return success(c, fiber.StatusCreated, fiber.Map{
		"transaction": t,
		"message":     fmt.Sprintf("₹%s expense recorded successfully", formatAmount(t.Amount)),
	})
}

func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	from, to, err := queryRange(c)
	if err != nil {
		return err
	}

	scopes := []database.Scope{
		database.DateRange("date", from, to),
		database.Equal("category", c.Query("category")),
		database.OrderBy("date DESC"),
	}
	txns, err := h.store.Transactions.FindByUser(c.UserContext(), currentUser(c), scopes...)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"results": len(txns),
		"data":    fiber.Map{"transactions": txns},
	})
}

func (h *Handler) GetTransaction(c *fiber.Ctx) error {
	t, err := h.ownedTransaction(c, "access")
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, fiber.Map{"transaction": t})
}

// TransactionGST splits the transaction amount into its pre-tax base and GST.
func (h *Handler) TransactionGST(c *fiber.Ctx) error {
	t, err := h.ownedTransaction(c, "access")
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, fiber.Map{
		"transactionId": t.ID,
		"category":      t.Category,
		"gst":           finance.TransactionGST(*t),
	})
}

func (h *Handler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	userID := currentUser(c)
	if err := h.store.Transactions.Delete(c.UserContext(), id, userID); err != nil {
		return recordError(err, "transaction", "delete")
	}
	h.forgetAdvice(userID)
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "Transaction deleted successfully",
	})
}

func (h *Handler) ownedTransaction(c *fiber.Ctx, action string) (*models.Transaction, error) {
	id, err := paramID(c)
	if err != nil {
		return nil, err
	}
	t, err := h.store.Transactions.FindOwned(c.UserContext(), id, currentUser(c))
	if err != nil {
		return nil, recordError(err, "transaction", action)
	}
	return t, nil
}

// checkBudgets raises a budget_alert for every category that the new
// transactions push into warning or exceeded for the current month. Only
// transactions dated in the current month count.
func (h *Handler) checkBudgets(ctx context.Context, userID uuid.UUID, added []models.Transaction) {
	from, to := finance.MonthBounds(h.now())

	addedByCategory := make(map[models.Category]float64)
	var order []models.Category
	for _, t := range added {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		if _, ok := addedByCategory[t.Category]; !ok {
			order = append(order, t.Category)
		}
		addedByCategory[t.Category] += t.Amount
	}

	for _, category := range order {
		limit, err := h.store.Budgets.ForCategory(ctx, userID, category)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load budget limit")
			continue
		}

		after, err := h.store.Transactions.SpentInCategory(ctx, userID, category, from, to)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to total category spend")
			continue
		}
		status, crossed := finance.BudgetAlert(limit.Amount, after-addedByCategory[category], after)
		if !crossed {
			continue
		}

		log.Info().Str("user_id", userID.String()).Str("category", string(category)).Str("status", string(status)).Msg("Budget threshold crossed")
		h.notify(ctx, finance.BudgetAlertNotification(*limit, status, after))
	}
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	return strings.TrimSuffix(s, ".00")
}
