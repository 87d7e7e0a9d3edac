package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"money-tracker-go-be/advisor"
	"money-tracker-go-be/database"
	"money-tracker-go-be/finance"
)

const maxQuestionLength = 1000

var errAdviceUnavailable = &Error{
	Status:  fiber.StatusServiceUnavailable,
	Code:    "advice_unavailable",
	Message: "AI advice is not available right now",
}

// Advice asks the model for advice on the caller's current month. Answers are
// cached per user until their data changes or the cache entry expires.
func (h *Handler) Advice(c *fiber.Ctx) error {
	if h.advisor == nil {
		return errAdviceUnavailable
	}
	userID := currentUser(c)
	key := userID.String()

	if advice, ok := h.advice.Get(key); ok {
		return success(c, fiber.StatusOK, fiber.Map{"advice": advice, "cached": true})
	}

	ctx := c.UserContext()
	from, to := finance.MonthBounds(h.now())
	var snap advisor.Snapshot
	var err error
	if snap.Transactions, err = h.store.Transactions.InRange(ctx, userID, from, to); err != nil {
		return err
	}
	if snap.Budgets, err = h.store.Budgets.FindByUser(ctx, userID); err != nil {
		return err
	}
	if snap.Goals, err = h.store.Goals.FindByUser(ctx, userID, database.OrderBy("target_date")); err != nil {
		return err
	}
	if snap.Incomes, err = h.store.Incomes.FindByUser(ctx, userID, database.DateRange("date", from, to)); err != nil {
		return err
	}

	log.Info().Str("user_id", key).Int("transactions", len(snap.Transactions)).Msg("Generating financial advice")
	advice, err := h.advisor.Generate(ctx, advisor.BuildAdvicePrompt(snap))
	if err != nil {
		log.Error().Err(err).Str("user_id", key).Msg("AI generation failed")
		return errAdviceUnavailable
	}
	h.advice.Set(key, advice)

	return success(c, fiber.StatusOK, fiber.Map{
		"advice":      advice,
		"generatedAt": h.now().UTC().Format(time.RFC3339),
		"cached":      false,
	})
}

type questionRequest struct {
	Question string `json:"question"`
}

func (h *Handler) AskAdvisor(c *fiber.Ctx) error {
	var req questionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return badRequest("Question is required")
	}
	if len(question) > maxQuestionLength {
		return badRequest("Question must be at most %d characters", maxQuestionLength)
	}
	if h.advisor == nil {
		return errAdviceUnavailable
	}

	answer, err := h.advisor.Generate(c.UserContext(), advisor.QuestionPrompt(question))
	if err != nil {
		log.Error().Err(err).Str("user_id", currentUser(c).String()).Msg("AI generation failed")
		return errAdviceUnavailable
	}
	return success(c, fiber.StatusOK, fiber.Map{"answer": answer})
}
