package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mathscrusader/paygo-sub001/internal/events"
	"github.com/mathscrusader/paygo-sub001/internal/models"
)

// ApprovalService settles pending transactions. Each transaction leaves
// PENDING exactly once; repeated decisions come back idempotent.
type ApprovalService struct {
	DB     *gorm.DB
	Engine *RewardEngine
	Events *events.Publisher
}

func NewApprovalService(db *gorm.DB, engine *RewardEngine, pub *events.Publisher) *ApprovalService {
	return &ApprovalService{DB: db, Engine: engine, Events: pub}
}

func (s *ApprovalService) Decide(ctx context.Context, transactionID uuid.UUID, approve bool, decidedBy uuid.UUID) (Decision, error) {
	target := models.TransactionStatusRejected
	if approve {
		target = models.TransactionStatusApproved
	}

	var decision Decision
	var awarded *models.ReferralReward

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", transactionID, models.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":     target,
				"decided_at": now,
				"decided_by": decidedBy,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// Already decided, or missing. Never re-decide.
			var existing models.Transaction
			if err := tx.First(&existing, "id = ?", transactionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			decision = Decision{Status: string(existing.Status), Idempotent: true}
			return nil
		}

		decision = Decision{Status: string(target)}

		if approve {
			var txn models.Transaction
			if err := tx.First(&txn, "id = ?", transactionID).Error; err != nil {
				return err
			}
			if txn.Type.RewardEligible() {
				reward, err := s.Engine.MaybeAward(tx, &txn)
				if err != nil {
					return err
				}
				awarded = reward
			}
		}

		return nil
	})
	if err != nil {
		return Decision{}, err
	}

	if !decision.Idempotent {
		s.Events.Publish(ctx, events.TransactionDecided, map[string]interface{}{
			"transaction_id": transactionID,
			"status":         decision.Status,
			"decided_by":     decidedBy,
		})
		if awarded != nil {
			s.Events.Publish(ctx, events.RewardCreated, map[string]interface{}{
				"reward_id":      awarded.ID,
				"referrer_id":    awarded.ReferrerID,
				"transaction_id": awarded.TransactionID,
				"amount":         awarded.Amount,
			})
		}
	}

	return decision, nil
}
