// Package handlers exposes the finance API over fiber.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"money-tracker-go-be/advisor"
	"money-tracker-go-be/auth"
	"money-tracker-go-be/database"
	"money-tracker-go-be/events"
	"money-tracker-go-be/finance"
	"money-tracker-go-be/models"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"

	userIDKey = "userID"
)

type Options struct {
	Store  *database.Store
	Tokens *auth.Issuer
	// Advisor may be nil, in which case the advice endpoints answer 503.
	Advisor        advisor.Generator
	AdviceCacheTTL time.Duration
	Events         events.Publisher
	// AuthRateLimit caps signup and login requests per IP per minute; 0 disables it.
	AuthRateLimit int
	Now           func() time.Time
}

type Handler struct {
	store         *database.Store
	tokens        *auth.Issuer
	advisor       advisor.Generator
	advice        *advisor.Cache[string]
	events        events.Publisher
	authRateLimit int
	now           func() time.Time
}

func New(o Options) *Handler {
	h := &Handler{
		store:         o.Store,
		tokens:        o.Tokens,
		advisor:       o.Advisor,
		advice:        advisor.NewCache[string](1000, o.AdviceCacheTTL),
		events:        o.Events,
		authRateLimit: o.AuthRateLimit,
		now:           o.Now,
	}
	if h.events == nil {
		h.events = events.Nop{}
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// Register mounts every route under /api.
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.Health)

	authRoutes := api.Group("/auth")
	if h.authRateLimit > 0 {
		authRoutes.Use(limiter.New(limiter.Config{
			Max:        h.authRateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return &Error{Status: fiber.StatusTooManyRequests, Code: "rate_limited", Message: "Too many attempts. Please try again later."}
			},
		}))
	}
	authRoutes.Post("/signup", h.Signup)
	authRoutes.Post("/login", h.Login)
	authRoutes.Get("/me", h.Protect, h.Me)

	tx := api.Group("/transactions", h.Protect)
	tx.Post("/sync", h.BatchSync)
	tx.Post("/", h.CreateTransaction)
	tx.Get("/", h.ListTransactions)
	tx.Get("/:id", h.GetTransaction)
	tx.Get("/:id/gst", h.TransactionGST)
	tx.Delete("/:id", h.DeleteTransaction)

	budget := api.Group("/budget", h.Protect)
	budget.Post("/", h.CreateBudget)
	budget.Get("/", h.ListBudgets)
	budget.Get("/status", h.BudgetStatus)
	budget.Get("/tips", h.BudgetTips)
	budget.Put("/:id", h.UpdateBudget)
	budget.Delete("/:id", h.DeleteBudget)

	income := api.Group("/income", h.Protect)
	income.Post("/", h.CreateIncome)
	income.Get("/", h.ListIncome)
	income.Get("/stats", h.IncomeStats)
	income.Put("/:id", h.UpdateIncome)
	income.Delete("/:id", h.DeleteIncome)

	goals := api.Group("/savings-goals", h.Protect)
	goals.Post("/", h.CreateGoal)
	goals.Get("/", h.ListGoals)
	goals.Get("/:id", h.GetGoal)
	goals.Put("/:id", h.UpdateGoal)
	goals.Delete("/:id", h.DeleteGoal)
	goals.Post("/:id/contribute", h.ContributeGoal)

	notes := api.Group("/notifications", h.Protect)
	notes.Get("/", h.ListNotifications)
	notes.Put("/read-all", h.MarkAllNotificationsRead)
	notes.Put("/:id/read", h.MarkNotificationRead)
	notes.Delete("/:id", h.DeleteNotification)

	api.Get("/insights/spending", h.Protect, h.SpendingInsights)

	upi := api.Group("/upi", h.Protect)
	upi.Post("/verify", h.VerifyUPI)
	upi.Get("/rules", h.ListPayeeRules)
	upi.Post("/rules", h.CreatePayeeRule)
	upi.Delete("/rules/:id", h.DeletePayeeRule)

	advice := api.Group("/advice", h.Protect)
	advice.Get("/", h.Advice)
	advice.Post("/ask", h.AskAdvisor)

	reports := api.Group("/reports", h.Protect)
	reports.Get("/summary", h.ReportSummary)
	reports.Get("/chart", h.ReportChart)
}

// Error is a client-facing failure with a stable machine-readable code.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func badRequest(format string, args ...any) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(format, args...))
}

// ErrorHandler renders every error returned by a handler as the JSON envelope.
// Anything that is not a client error is logged and reported generically.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Status).JSON(fiber.Map{
			"status":  statusFail,
			"code":    apiErr.Code,
			"message": apiErr.Message,
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{
			"status":  statusFail,
			"message": fe.Message,
		})
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("Request failed")
	code := fiber.StatusInternalServerError
	if fe != nil {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  statusError,
		"message": "Something went wrong. Please try again later.",
	})
}

// recordError translates repository errors for a record kind, e.g.
// recordError(err, "budget limit", "update").
func recordError(err error, kind, action string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, capitalize(kind)+" not found")
	case errors.Is(err, database.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, fmt.Sprintf("You are not authorized to %s this %s", action, kind))
	case errors.Is(err, finance.ErrInvalidAmount):
		return fiber.NewError(fiber.StatusBadRequest, "Please provide a valid positive amount")
	}
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func success(c *fiber.Ctx, status int, data fiber.Map) error {
	return c.Status(status).JSON(fiber.Map{
		"status": statusSuccess,
		"data":   data,
	})
}

func currentUser(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(userIDKey).(uuid.UUID)
	return id
}

// paramID parses the :id route parameter. Malformed ids are a 400, not a 404.
func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, badRequest("Invalid id '%s'", c.Params("id"))
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return badRequest("Invalid request body")
	}
	return nil
}

// notify stores a notification and hands it to the publisher. Failures are
// logged and never fail the request that caused the notification.
func (h *Handler) notify(ctx context.Context, n models.Notification) {
	if err := h.store.Notifications.Create(ctx, &n); err != nil {
		log.Error().Err(err).Str("user_id", n.UserID.String()).Str("type", string(n.Type)).Msg("Failed to store notification")
		return
	}
	h.publish(ctx, n)
}

func (h *Handler) publish(ctx context.Context, n models.Notification) {
	if err := h.events.Publish(ctx, n); err != nil {
		log.Warn().Err(err).Str("notification_id", n.ID.String()).Msg("Failed to publish notification")
	}
}

// forgetAdvice drops cached advice once the data it was built from changes.
func (h *Handler) forgetAdvice(userID uuid.UUID) {
	h.advice.Delete(userID.String())
}
