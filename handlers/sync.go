package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"money-tracker-go-be/database"
	"money-tracker-go-be/models"
)

// QueuedTransaction is one entry of a client's offline queue. TempID is the
// id the client assigned while offline and makes replays idempotent.
type QueuedTransaction struct {
	TempID string `json:"tempId"`
	transactionRequest
}

type SyncFailure struct {
	TempID  string `json:"tempId"`
	Message string `json:"message"`
}

type SyncResponse struct {
	Synced       int                  `json:"synced"`
	Duplicates   int                  `json:"duplicates"`
	Failed       []SyncFailure        `json:"failed"`
	Transactions []models.Transaction `json:"transactions"`
}

// BatchSync replays an offline queue in order. Entries already synced are
// skipped, invalid entries are reported back, and the rest are stored. A
// missing category is resolved through the user's payee rules.
func (h *Handler) BatchSync(c *fiber.Ctx) error {
	userID := currentUser(c)
	ctx := c.UserContext()

	var queue []QueuedTransaction
	if err := parseBody(c, &queue); err != nil {
		return err
	}

	resp := SyncResponse{Failed: []SyncFailure{}, Transactions: []models.Transaction{}}
	if len(queue) == 0 {
		return success(c, fiber.StatusOK, fiber.Map{"sync": resp})
	}

	tempIDs := make([]string, 0, len(queue))
	for _, q := range queue {
		if q.TempID != "" {
			tempIDs = append(tempIDs, q.TempID)
		}
	}
	existing, err := h.store.Transactions.ExistingClientIDs(ctx, userID, tempIDs)
	if err != nil {
		return err
	}

	rules, err := h.store.Rules.FindByUser(ctx, userID, database.OrderBy("created_at"))
	if err != nil {
		return err
	}

	now := h.now()
	var fresh []models.Transaction
	for _, q := range queue {
		if q.TempID == "" {
			resp.Failed = append(resp.Failed, SyncFailure{Message: "tempId is required"})
			continue
		}
		if existing[q.TempID] {
			resp.Duplicates++
			continue
		}

		if q.Category == "" {
			q.Category = models.CategoryOther
			if rule := matchRule(rules, q.UpiID, q.Description); rule != nil {
				q.Category = rule.TargetCategory
			}
		}

		t, err := q.transaction(userID, now)
		if err != nil {
			resp.Failed = append(resp.Failed, SyncFailure{TempID: q.TempID, Message: err.Error()})
			continue
		}
		tempID := q.TempID
		t.ClientID = &tempID
		existing[q.TempID] = true

		fresh = append(fresh, t)
	}

	stored, dupes, err := h.storeQueued(ctx, fresh)
	if err != nil {
		return err
	}
	resp.Synced = len(stored)
	resp.Duplicates += dupes
	resp.Transactions = append(resp.Transactions, stored...)

	if len(stored) > 0 {
		h.forgetAdvice(userID)
		h.checkBudgets(ctx, userID, stored)
	}

	log.Info().
		Str("user_id", userID.String()).
		Int("synced", resp.Synced).
		Int("duplicates", resp.Duplicates).
		Int("failed", len(resp.Failed)).
		Msg("Offline queue synced")

	return success(c, fiber.StatusOK, fiber.Map{"sync": resp})
}

// storeQueued inserts txns in one batch. When a concurrent replay got there
// first the batch is retried row by row so only the clashing rows are skipped.
func (h *Handler) storeQueued(ctx context.Context, txns []models.Transaction) ([]models.Transaction, int, error) {
	err := h.store.Transactions.CreateBatch(ctx, txns)
	if err == nil {
		return txns, 0, nil
	}
	if !errors.Is(err, database.ErrDuplicate) {
		return nil, 0, err
	}

	stored := make([]models.Transaction, 0, len(txns))
	dupes := 0
	for _, t := range txns {
		t.ID = uuid.Nil
		err := h.store.Transactions.Create(ctx, &t)
		switch {
		case errors.Is(err, database.ErrDuplicate):
			dupes++
		case err != nil:
			return nil, 0, err
		default:
			stored = append(stored, t)
		}
	}
	return stored, dupes, nil
}

// matchRule returns the first rule whose pattern occurs in any of the texts,
// compared case-insensitively.
func matchRule(rules []models.PayeeRule, texts ...string) *models.PayeeRule {
	for i := range rules {
		pattern := strings.ToLower(rules[i].Pattern)
		for _, text := range texts {
			if text != "" && strings.Contains(strings.ToLower(text), pattern) {
				return &rules[i]
			}
		}
	}
	return nil
}
