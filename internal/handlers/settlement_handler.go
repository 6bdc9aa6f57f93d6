package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mathscrusader/paygo-sub001/internal/logger"
	"github.com/mathscrusader/paygo-sub001/internal/models"
	"github.com/mathscrusader/paygo-sub001/internal/services/settlement"
)

// SettlementHandler exposes the admin settlement operations. Every route is
// mounted behind the admin role gate.
type SettlementHandler struct {
	DB          *gorm.DB
	Approvals   *settlement.ApprovalService
	Payouts     *settlement.PayoutService
	Withdrawals *settlement.WithdrawalService
	Validate    *validator.Validate
}

func NewSettlementHandler(db *gorm.DB, approvals *settlement.ApprovalService, payouts *settlement.PayoutService, withdrawals *settlement.WithdrawalService) *SettlementHandler {
	return &SettlementHandler{
		DB:          db,
		Approvals:   approvals,
		Payouts:     payouts,
		Withdrawals: withdrawals,
		Validate:    validator.New(),
	}
}

func adminID(c *fiber.Ctx) (uuid.UUID, bool) {
	raw, _ := c.Locals("userId").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func settlementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, settlement.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Record not found",
		})
	case errors.Is(err, settlement.ErrInvalidOutcome):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	default:
		logger.Log.Error("settlement write failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Write failed, nothing was applied",
		})
	}
}

type DecideTransactionReq struct {
	Approve *bool `json:"approve" validate:"required"`
}

func (h *SettlementHandler) DecideTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid transaction id"})
	}

	var req DecideTransactionReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}
	if err := h.Validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "approve is required"})
	}

	admin, ok := adminID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	decision, err := h.Approvals.Decide(c.Context(), id, *req.Approve, admin)
	if err != nil {
		return settlementError(c, err)
	}

	return c.JSON(fiber.Map{
		"ok": true,
		"data": fiber.Map{
			"status":     decision.Status,
			"idempotent": decision.Idempotent,
		},
	})
}

type DecideWithdrawalReq struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

func (h *SettlementHandler) DecideWithdrawal(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid withdrawal id"})
	}

	var req DecideWithdrawalReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}
	if err := h.Validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "status must be approved or rejected"})
	}

	admin, ok := adminID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	decision, err := h.Withdrawals.Decide(c.Context(), id, req.Status, admin)
	if err != nil {
		return settlementError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"status":     decision.Status,
			"idempotent": decision.Idempotent,
		},
	})
}

func (h *SettlementHandler) MarkRewardPaid(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid reward id"})
	}

	admin, ok := adminID(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	decision, err := h.Payouts.MarkPaid(c.Context(), id, admin)
	if err != nil {
		return settlementError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"status":     decision.Status,
			"idempotent": decision.Idempotent,
		},
	})
}

func (h *SettlementHandler) ListPendingTransactions(c *fiber.Ctx) error {
	var txns []models.Transaction
	if err := h.DB.
		Where("status = ?", models.TransactionStatusPending).
		Order("created_at ASC").
		Find(&txns).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch transactions"})
	}
	return c.JSON(fiber.Map{"success": true, "data": txns})
}

func (h *SettlementHandler) ListPendingWithdrawals(c *fiber.Ctx) error {
	var ws []models.Withdrawal
	if err := h.DB.
		Where("status = ?", models.WithdrawalStatusPending).
		Order("created_at ASC").
		Find(&ws).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch withdrawals"})
	}
	return c.JSON(fiber.Map{"success": true, "data": ws})
}

// ListPendingRewards backs the payout-reporting view admins settle from.
func (h *SettlementHandler) ListPendingRewards(c *fiber.Ctx) error {
	var rewards []models.ReferralReward
	if err := h.DB.
		Where("status = ?", models.RewardStatusPending).
		Order("created_at ASC").
		Find(&rewards).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch rewards"})
	}
	return c.JSON(fiber.Map{"success": true, "data": rewards})
}
