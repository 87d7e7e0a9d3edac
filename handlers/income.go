package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"money-tracker-go-be/database"
	"money-tracker-go-be/finance"
	"money-tracker-go-be/models"
)

// incomeRequest serves both create and partial update, hence the pointers.
type incomeRequest struct {
	Amount             *float64             `json:"amount"`
	Source             *models.IncomeSource `json:"source"`
	Description        *string              `json:"description"`
	Date               *Date                `json:"date"`
	IsRecurring        *bool                `json:"isRecurring"`
	RecurringFrequency *models.Frequency    `json:"recurringFrequency"`
	Taxable            *bool                `json:"taxable"`
}

// apply copies the fields present in the request onto inc.
func (r incomeRequest) apply(inc *models.Income) error {
	if r.Amount != nil {
		if finance.ValidateAmount(*r.Amount) != nil {
			return badRequest("Amount must be a positive number")
		}
		inc.Amount = *r.Amount
	}
	if r.Source != nil {
		if !r.Source.Valid() {
			return badRequest("Invalid income source '%s'", *r.Source)
		}
		inc.Source = *r.Source
	}
	if r.Description != nil {
		inc.Description = strings.TrimSpace(*r.Description)
	}
	if r.Date != nil && !r.Date.IsZero() {
		inc.Date = r.Date.UTC()
	}
	if r.IsRecurring != nil {
		inc.IsRecurring = *r.IsRecurring
	}
	if r.RecurringFrequency != nil {
		if !r.RecurringFrequency.Valid() {
			return badRequest("Invalid recurring frequency '%s'", *r.RecurringFrequency)
		}
		inc.RecurringFrequency = *r.RecurringFrequency
	}
	if r.Taxable != nil {
		inc.Taxable = *r.Taxable
	}
	return nil
}

func (h *Handler) CreateIncome(c *fiber.Ctx) error {
	var req incomeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Amount == nil || finance.ValidateAmount(*req.Amount) != nil {
		return badRequest("Please provide a valid positive amount")
	}
	if req.Source == nil || *req.Source == "" {
		return badRequest("Please provide an income source")
	}

	userID := currentUser(c)
	inc := models.Income{
		UserID:             userID,
		Date:               h.now().UTC(),
		RecurringFrequency: models.FrequencyMonthly,
		Taxable:            true,
	}
	if err := req.apply(&inc); err != nil {
		return err
	}
	if err := h.store.Incomes.Create(c.UserContext(), &inc); err != nil {
		return err
	}
	h.forgetAdvice(userID)

	return success(c, fiber.StatusCreated, fiber.Map{"income": inc})
}

// ListIncome supports the startDate, endDate and source filters.
func (h *Handler) ListIncome(c *fiber.Ctx) error {
	from, to, err := queryRange(c)
	if err != nil {
		return err
	}
	source := c.Query("source")
	if source != "" && !models.IncomeSource(source).Valid() {
		return badRequest("Invalid income source '%s'", source)
	}

	incomes, err := h.store.Incomes.FindByUser(c.UserContext(), currentUser(c),
		database.DateRange("date", from, to),
		database.Equal("source", source),
		database.OrderBy("date DESC"),
	)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"results": len(incomes),
		"data":    fiber.Map{"incomes": incomes},
	})
}

func (h *Handler) UpdateIncome(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req incomeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	userID := currentUser(c)
	inc, err := h.store.Incomes.FindOwned(c.UserContext(), id, userID)
	if err != nil {
		return recordError(err, "income entry", "update")
	}
	if err := req.apply(inc); err != nil {
		return err
	}
	if err := h.store.Incomes.Save(c.UserContext(), inc); err != nil {
		return err
	}
	h.forgetAdvice(userID)

	return success(c, fiber.StatusOK, fiber.Map{"income": inc})
}

func (h *Handler) DeleteIncome(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	userID := currentUser(c)
	if err := h.store.Incomes.Delete(c.UserContext(), id, userID); err != nil {
		return recordError(err, "income entry", "delete")
	}
	h.forgetAdvice(userID)
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "Income entry deleted successfully",
	})
}

func (h *Handler) IncomeStats(c *fiber.Ctx) error {
	now := h.now()
	from, _ := finance.MonthBounds(now.AddDate(-1, 0, 0))
	_, to := finance.PeriodBounds(now.Year(), 0, now.Location())
	incomes, err := h.store.Incomes.FindByUser(c.UserContext(), currentUser(c),
		database.DateRange("date", from, to),
	)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": statusSuccess,
		"data":   finance.IncomeStats(incomes, now),
	})
}
