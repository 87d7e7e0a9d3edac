package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"money-tracker-go-be/database"
	"money-tracker-go-be/finance"
	"money-tracker-go-be/models"
)

type budgetRequest struct {
	Category models.Category `json:"category"`
	Amount   float64         `json:"amount"`
}

func (h *Handler) CreateBudget(c *fiber.Ctx) error {
	var req budgetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Category == "" {
		return badRequest("Category is required")
	}
	if !req.Category.Valid() {
		return badRequest("Invalid category '%s'", req.Category)
	}
	if finance.ValidateAmount(req.Amount) != nil {
		return badRequest("A valid positive amount is required")
	}

	userID := currentUser(c)
	limit := models.BudgetLimit{UserID: userID, Category: req.Category, Amount: req.Amount}
	if err := h.store.Budgets.Create(c.UserContext(), &limit); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return badRequest("A budget for %s already exists.", req.Category)
		}
		return err
	}
	h.forgetAdvice(userID)

	return success(c, fiber.StatusCreated, fiber.Map{"limit": limit})
}

func (h *Handler) ListBudgets(c *fiber.Ctx) error {
	limits, err := h.store.Budgets.FindByUser(c.UserContext(), currentUser(c), database.OrderBy("category"))
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, fiber.Map{"limits": limits})
}

// UpdateBudget changes the amount of a limit; its category is fixed.
func (h *Handler) UpdateBudget(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req budgetRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if finance.ValidateAmount(req.Amount) != nil {
		return badRequest("A valid positive amount is required")
	}

	userID := currentUser(c)
	limit, err := h.store.Budgets.FindOwned(c.UserContext(), id, userID)
	if err != nil {
		return recordError(err, "budget limit", "update")
	}
	limit.Amount = req.Amount
	if err := h.store.Budgets.Save(c.UserContext(), limit); err != nil {
		return err
	}
	h.forgetAdvice(userID)

	return success(c, fiber.StatusOK, fiber.Map{"limit": limit})
}

func (h *Handler) DeleteBudget(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	userID := currentUser(c)
	if err := h.store.Budgets.Delete(c.UserContext(), id, userID); err != nil {
		return recordError(err, "budget limit", "delete")
	}
	h.forgetAdvice(userID)
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "Budget limit deleted successfully",
	})
}

// BudgetStatus reports spend against every limit for the current month.
func (h *Handler) BudgetStatus(c *fiber.Ctx) error {
	report, err := h.budgetReport(c)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, fiber.Map{
		"budgetStatus": report.BudgetStatus,
		"month":        report.Month,
	})
}

func (h *Handler) BudgetTips(c *fiber.Ctx) error {
	report, err := h.budgetReport(c)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, fiber.Map{"tips": finance.BudgetTips(report)})
}

func (h *Handler) budgetReport(c *fiber.Ctx) (finance.BudgetReport, error) {
	ctx := c.UserContext()
	userID := currentUser(c)
	now := h.now()

	limits, err := h.store.Budgets.FindByUser(ctx, userID, database.OrderBy("created_at"))
	if err != nil {
		return finance.BudgetReport{}, err
	}
	from, to := finance.MonthBounds(now)
	txns, err := h.store.Transactions.InRange(ctx, userID, from, to)
	if err != nil {
		return finance.BudgetReport{}, err
	}
	return finance.BudgetStatus(limits, txns, now), nil
}
