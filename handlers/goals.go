package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"money-tracker-go-be/database"
	"money-tracker-go-be/finance"
	"money-tracker-go-be/models"
)

// goalView is a goal plus its derived progress figures.
type goalView struct {
	models.SavingsGoal
	finance.GoalProgress
}

func (h *Handler) view(g models.SavingsGoal) goalView {
	return goalView{SavingsGoal: g, GoalProgress: finance.Progress(g, h.now())}
}

type goalRequest struct {
	Name         *string              `json:"name"`
	TargetAmount *float64             `json:"targetAmount"`
	TargetDate   *Date                `json:"targetDate"`
	Description  *string              `json:"description"`
	Category     *models.GoalCategory `json:"category"`
}

func (r goalRequest) apply(g *models.SavingsGoal) error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return badRequest("Goal name cannot be empty")
		}
		g.Name = name
	}
	if r.TargetAmount != nil {
		if finance.ValidateAmount(*r.TargetAmount) != nil {
			return badRequest("Target amount must be a positive number")
		}
		g.TargetAmount = *r.TargetAmount
	}
	if r.TargetDate != nil {
		if r.TargetDate.IsZero() {
			return badRequest("Please provide a valid target date")
		}
		g.TargetDate = r.TargetDate.UTC()
	}
	if r.Description != nil {
		g.Description = strings.TrimSpace(*r.Description)
	}
	if r.Category != nil {
		if !r.Category.Valid() {
			return badRequest("Invalid goal category '%s'", *r.Category)
		}
		g.Category = *r.Category
	}
	return nil
}

func (h *Handler) CreateGoal(c *fiber.Ctx) error {
	var req goalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Name == nil || req.TargetAmount == nil || req.TargetDate == nil {
		return badRequest("Please provide name, target amount, and target date")
	}

	userID := currentUser(c)
	goal := models.SavingsGoal{UserID: userID, Category: models.GoalOther}
	if err := req.apply(&goal); err != nil {
		return err
	}
	if err := h.store.Goals.Create(c.UserContext(), &goal); err != nil {
		return err
	}
	h.forgetAdvice(userID)

	return success(c, fiber.StatusCreated, fiber.Map{"savingsGoal": h.view(goal)})
}

func (h *Handler) ListGoals(c *fiber.Ctx) error {
	goals, err := h.store.Goals.FindByUser(c.UserContext(), currentUser(c), database.OrderBy("target_date"))
	if err != nil {
		return err
	}
	views := make([]goalView, len(goals))
	for i, g := range goals {
		views[i] = h.view(g)
	}
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"results": len(views),
		"data":    fiber.Map{"savingsGoals": views},
	})
}

func (h *Handler) GetGoal(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	goal, err := h.store.Goals.FindOwned(c.UserContext(), id, currentUser(c))
	if err != nil {
		return recordError(err, "savings goal", "access")
	}
	return success(c, fiber.StatusOK, fiber.Map{"savingsGoal": h.view(*goal)})
}

// UpdateGoal edits a goal. Lowering the target to or below the saved amount
// completes the goal.
func (h *Handler) UpdateGoal(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req goalRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	userID := currentUser(c)
	goal, err := h.store.Goals.FindOwned(ctx, id, userID)
	if err != nil {
		return recordError(err, "savings goal", "update")
	}
	if err := req.apply(goal); err != nil {
		return err
	}
	note, err := h.store.Goals.Update(ctx, goal)
	if err != nil {
		return recordError(err, "savings goal", "update")
	}
	if note != nil {
		h.publish(ctx, *note)
	}
	h.forgetAdvice(userID)

	return success(c, fiber.StatusOK, fiber.Map{"savingsGoal": h.view(*goal)})
}

func (h *Handler) DeleteGoal(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	userID := currentUser(c)
	if err := h.store.Goals.Delete(c.UserContext(), id, userID); err != nil {
		return recordError(err, "savings goal", "delete")
	}
	h.forgetAdvice(userID)
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "Savings goal deleted successfully",
	})
}

type contributionRequest struct {
	Amount float64 `json:"amount"`
}

func (h *Handler) ContributeGoal(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req contributionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	userID := currentUser(c)
	goal, note, err := h.store.Goals.Contribute(ctx, id, userID, req.Amount)
	if err != nil {
		return recordError(err, "savings goal", "contribute to")
	}
	if note != nil {
		log.Info().Str("user_id", userID.String()).Str("goal_id", goal.ID.String()).Msg("Savings goal completed")
		h.publish(ctx, *note)
	}
	h.forgetAdvice(userID)

	return success(c, fiber.StatusOK, fiber.Map{"savingsGoal": h.view(*goal)})
}
