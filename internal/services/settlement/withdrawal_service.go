package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mathscrusader/paygo-sub001/internal/events"
	"github.com/mathscrusader/paygo-sub001/internal/models"
	"github.com/mathscrusader/paygo-sub001/internal/services/wallet"
)

const (
	WithdrawalOutcomeApproved = "approved"
	WithdrawalOutcomeRejected = "rejected"
)

// WithdrawalService settles pending withdrawal requests. The wallet was
// already debited when the request was created, so approval moves no money;
// rejection returns the amount, atomically with the status flip.
type WithdrawalService struct {
	DB     *gorm.DB
	Wallet *wallet.WalletService
	Events *events.Publisher
}

func NewWithdrawalService(db *gorm.DB, w *wallet.WalletService, pub *events.Publisher) *WithdrawalService {
	return &WithdrawalService{DB: db, Wallet: w, Events: pub}
}

func (s *WithdrawalService) Decide(ctx context.Context, withdrawalID uuid.UUID, outcome string, decidedBy uuid.UUID) (Decision, error) {
	var target models.WithdrawalStatus
	switch outcome {
	case WithdrawalOutcomeApproved:
		target = models.WithdrawalStatusApproved
	case WithdrawalOutcomeRejected:
		target = models.WithdrawalStatusRejected
	default:
		return Decision{}, fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}

	var decision Decision

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawalID, models.WithdrawalStatusPending).
			Updates(map[string]interface{}{
				"status":     target,
				"decided_at": now,
				"decided_by": decidedBy,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var existing models.Withdrawal
			if err := tx.First(&existing, "id = ?", withdrawalID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			decision = Decision{Status: string(existing.Status), Idempotent: true}
			return nil
		}

		if target == models.WithdrawalStatusRejected {
			var w models.Withdrawal
			if err := tx.First(&w, "id = ?", withdrawalID).Error; err != nil {
				return err
			}
			// A failed credit aborts the whole decision and leaves the
			// withdrawal PENDING.
			if err := s.Wallet.CreditWallet(tx, w.ProfileID, w.Amount, w.ID, "withdrawal rejected, funds returned"); err != nil {
				return err
			}
		}

		decision = Decision{Status: string(target)}
		return nil
	})
	if err != nil {
		return Decision{}, err
	}

	if !decision.Idempotent {
		s.Events.Publish(ctx, events.WithdrawalDecided, map[string]interface{}{
			"withdrawal_id": withdrawalID,
			"status":        decision.Status,
			"decided_by":    decidedBy,
		})
	}

	return decision, nil
}
