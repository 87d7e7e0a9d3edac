package handlers

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"money-tracker-go-be/auth"
	"money-tracker-go-be/database"
	"money-tracker-go-be/models"
)

// Protect requires a valid bearer token and stores the caller's id in the
// request locals. Each failure carries its own code so clients can tell an
// expired session from a bad token.
func (h *Handler) Protect(c *fiber.Ctx) error {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok {
		token = ""
	}

	userID, err := h.tokens.Parse(strings.TrimSpace(token))
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return &Error{Status: fiber.StatusUnauthorized, Code: "token_missing", Message: "Authentication required. Please log in."}
	case errors.Is(err, auth.ErrTokenExpired):
		return &Error{Status: fiber.StatusUnauthorized, Code: "token_expired", Message: "Your session has expired. Please log in again."}
	case err != nil:
		log.Debug().Err(err).Msg("Rejected bearer token")
		return &Error{Status: fiber.StatusUnauthorized, Code: "token_invalid", Message: "Invalid authentication token. Please log in again."}
	}

	c.Locals(userIDKey, userID)
	return c.Next()
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signup(c *fiber.Ctx) error {
	var req credentials
	if err := parseBody(c, &req); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(req.Email)
	if err != nil {
		return badRequest("Please provide a valid email address")
	}
	if len(req.Password) < auth.MinPasswordLength {
		return badRequest("Password must be at least %d characters", auth.MinPasswordLength)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	user := models.User{Email: addr.Address, PasswordHash: hash}
	if err := h.store.Users.Create(c.UserContext(), &user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return badRequest("Email already in use")
		}
		return err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User signed up")
	return h.sendToken(c, fiber.StatusCreated, user)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentials
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return badRequest("Please provide email and password")
	}

	invalid := &Error{Status: fiber.StatusUnauthorized, Code: "invalid_credentials", Message: "Invalid email or password"}
	user, err := h.store.Users.ByEmail(c.UserContext(), req.Email)
	if errors.Is(err, database.ErrNotFound) {
		return invalid
	}
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return invalid
	}

	return h.sendToken(c, fiber.StatusOK, *user)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.store.Users.ByID(c.UserContext(), currentUser(c))
	if err != nil {
		return recordError(err, "user", "access")
	}
	return success(c, fiber.StatusOK, fiber.Map{"user": publicUser(*user)})
}

func (h *Handler) sendToken(c *fiber.Ctx, status int, user models.User) error {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return err
	}
	return c.Status(status).JSON(fiber.Map{
		"status": statusSuccess,
		"token":  token,
		"data":   fiber.Map{"user": publicUser(user)},
	})
}

func publicUser(u models.User) fiber.Map {
	return fiber.Map{"id": u.ID, "email": u.Email}
}
