package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"money-tracker-go-be/database"
	"money-tracker-go-be/finance"
	"money-tracker-go-be/reports"
)

// reportPeriod reads year and month; month 0 selects the whole year.
func (h *Handler) reportPeriod(c *fiber.Ctx) (label string, year, month int, err error) {
	now := h.now()
	if year, err = queryInt(c, "year", now.Year(), 2000, 2100); err != nil {
		return "", 0, 0, err
	}
	defMonth := int(now.Month())
	if c.Query("year") != "" {
		defMonth = 0
	}
	if month, err = queryInt(c, "month", defMonth, 0, 12); err != nil {
		return "", 0, 0, err
	}
	if month == 0 {
		return fmt.Sprintf("%d", year), year, 0, nil
	}
	return fmt.Sprintf("%d-%02d", year, month), year, month, nil
}

func (h *Handler) summary(c *fiber.Ctx) (finance.Summary, error) {
	label, year, month, err := h.reportPeriod(c)
	if err != nil {
		return finance.Summary{}, err
	}
	ctx := c.UserContext()
	userID := currentUser(c)
	from, to := finance.PeriodBounds(year, month, h.now().Location())

	txns, err := h.store.Transactions.InRange(ctx, userID, from, to)
	if err != nil {
		return finance.Summary{}, err
	}
	incomes, err := h.store.Incomes.FindByUser(ctx, userID, database.DateRange("date", from, to))
	if err != nil {
		return finance.Summary{}, err
	}
	return finance.Summarize(label, txns, incomes), nil
}

// ReportSummary totals spending, income and GST for a month, or for a whole
// year when only year is given.
func (h *Handler) ReportSummary(c *fiber.Ctx) error {
	s, err := h.summary(c)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, fiber.Map{"summary": s})
}

// ReportChart renders a PNG: kind=category for the category split of the
// period, kind=monthly for spending per month of the year.
func (h *Handler) ReportChart(c *fiber.Ctx) error {
	var (
		img []byte
		err error
	)
	switch kind := c.Query("kind", "category"); kind {
	case "category":
		var s finance.Summary
		if s, err = h.summary(c); err != nil {
			return err
		}
		img, err = reports.CategoryPie(s)
	case "monthly":
		var year int
		if year, err = queryInt(c, "year", h.now().Year(), 2000, 2100); err != nil {
			return err
		}
		loc := h.now().Location()
		from, to := finance.PeriodBounds(year, 0, loc)
		txns, qerr := h.store.Transactions.InRange(c.UserContext(), currentUser(c), from, to)
		if qerr != nil {
			return qerr
		}
		img, err = reports.MonthlyBars(fmt.Sprintf("Monthly spending, %d", year), finance.MonthlyTotals(txns, loc))
	default:
		return badRequest("Invalid chart kind '%s': must be one of [category monthly]", kind)
	}

	if errors.Is(err, reports.ErrNoData) {
		return fiber.NewError(fiber.StatusNotFound, "No spending to chart for this period")
	}
	if err != nil {
		return err
	}
	c.Type("png")
	return c.Send(img)
}
