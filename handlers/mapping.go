package handlers

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"money-tracker-go-be/database"
	"money-tracker-go-be/models"
)

var upiPattern = regexp.MustCompile(`^[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z][a-zA-Z0-9]{1,63}$`)

type MerchantInfo struct {
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
}

// knownHandles maps common UPI handles to the institution behind them.
var knownHandles = map[string]MerchantInfo{
	"oksbi":      {Name: "SBI Bank", Category: models.CategoryBills},
	"ybl":        {Name: "PhonePe", Category: models.CategoryOther},
	"paytm":      {Name: "Paytm", Category: models.CategoryShopping},
	"ibl":        {Name: "ICICI Bank", Category: models.CategoryBills},
	"upi":        {Name: "UPI Payment", Category: models.CategoryOther},
	"apl":        {Name: "Amazon Pay", Category: models.CategoryShopping},
	"okhdfcbank": {Name: "HDFC Bank", Category: models.CategoryBills},
	"axl":        {Name: "Axis Bank", Category: models.CategoryBills},
}

type verifyRequest struct {
	UpiID string `json:"upiId"`
}

// VerifyUPI checks the handle@bank format and looks up the payee, first in
// the caller's payee rules and then in the table of well-known handles.
func (h *Handler) VerifyUPI(c *fiber.Ctx) error {
	var req verifyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	upiID := strings.TrimSpace(req.UpiID)
	if upiID == "" {
		return badRequest("UPI ID is required")
	}

	if !upiPattern.MatchString(upiID) {
		return success(c, fiber.StatusOK, fiber.Map{
			"upiId":        upiID,
			"isValid":      false,
			"message":      "Invalid UPI ID format",
			"merchantInfo": nil,
		})
	}

	rules, err := h.store.Rules.FindByUser(c.UserContext(), currentUser(c), database.OrderBy("created_at"))
	if err != nil {
		return err
	}

	var (
		merchant *MerchantInfo
		source   = "unknown"
	)
	if rule := matchRule(rules, upiID); rule != nil {
		merchant = &MerchantInfo{Name: rule.TargetMerchant, Category: rule.TargetCategory}
		source = "rule"
	} else if info, ok := knownHandles[strings.ToLower(upiID[strings.LastIndexByte(upiID, '@')+1:])]; ok {
		merchant = &info
		source = "handle"
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"upiId":        upiID,
		"isValid":      true,
		"message":      "UPI ID is valid",
		"merchantInfo": merchant,
		"source":       source,
	})
}

type payeeRuleRequest struct {
	Pattern        string          `json:"pattern"`
	TargetCategory models.Category `json:"targetCategory"`
	TargetMerchant string          `json:"targetMerchant"`
}

func (h *Handler) CreatePayeeRule(c *fiber.Ctx) error {
	var req payeeRuleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	req.Pattern = strings.TrimSpace(req.Pattern)
	if len(req.Pattern) < 2 {
		return badRequest("Pattern must be at least 2 characters")
	}
	if !req.TargetCategory.Valid() {
		return badRequest("Invalid category '%s'", req.TargetCategory)
	}
	merchant := strings.TrimSpace(req.TargetMerchant)
	if merchant == "" {
		merchant = req.Pattern
	}

	rule := models.PayeeRule{
		UserID:         currentUser(c),
		Pattern:        req.Pattern,
		TargetCategory: req.TargetCategory,
		TargetMerchant: merchant,
	}
	if err := h.store.Rules.Create(c.UserContext(), &rule); err != nil {
		return err
	}
	log.Info().Str("user_id", rule.UserID.String()).Str("pattern", rule.Pattern).Msg("Payee rule created")

	return success(c, fiber.StatusCreated, fiber.Map{"rule": rule})
}

func (h *Handler) ListPayeeRules(c *fiber.Ctx) error {
	rules, err := h.store.Rules.FindByUser(c.UserContext(), currentUser(c), database.OrderBy("created_at"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"results": len(rules),
		"data":    fiber.Map{"rules": rules},
	})
}

func (h *Handler) DeletePayeeRule(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.store.Rules.Delete(c.UserContext(), id, currentUser(c)); err != nil {
		return recordError(err, "payee rule", "delete")
	}
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "Payee rule deleted successfully",
	})
}
