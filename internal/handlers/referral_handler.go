package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mathscrusader/paygo-sub001/internal/services/referral"
	"github.com/mathscrusader/paygo-sub001/internal/services/settlement"
)

// ReferralHandler is called by the signup flow's service account to link a
// new user to a referrer.
type ReferralHandler struct {
	Service  *referral.Service
	Validate *validator.Validate
}

func NewReferralHandler(svc *referral.Service) *ReferralHandler {
	return &ReferralHandler{Service: svc, Validate: validator.New()}
}

type RegisterReferralReq struct {
	UserID        string  `json:"user_id" validate:"required,uuid4"`
	ReferralCode  string  `json:"referral_code" validate:"required"`
	TransactionID *string `json:"transaction_id,omitempty" validate:"omitempty,uuid4"`
}

func (h *ReferralHandler) Register(c *fiber.Ctx) error {
	var req RegisterReferralReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}
	if err := h.Validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid user id"})
	}

	var transactionID *uuid.UUID
	if req.TransactionID != nil {
		id, err := uuid.Parse(*req.TransactionID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid transaction id"})
		}
		transactionID = &id
	}

	result, err := h.Service.Register(c.Context(), userID, req.ReferralCode, transactionID)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
		case errors.Is(err, referral.ErrSelfReferral),
			errors.Is(err, referral.ErrCodeConflict),
			errors.Is(err, settlement.ErrInvalidOutcome):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Write failed, nothing was applied"})
		}
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"new_balance": result.NewBalance,
	})
}
