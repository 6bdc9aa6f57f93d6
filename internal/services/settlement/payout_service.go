package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mathscrusader/paygo-sub001/internal/events"
	"github.com/mathscrusader/paygo-sub001/internal/models"
	"github.com/mathscrusader/paygo-sub001/internal/services/wallet"
)

// PayoutService marks pending referral rewards as paid. The status flip and
// the balance credit commit together or not at all.
type PayoutService struct {
	DB     *gorm.DB
	Wallet *wallet.WalletService
	Events *events.Publisher
}

func NewPayoutService(db *gorm.DB, w *wallet.WalletService, pub *events.Publisher) *PayoutService {
	return &PayoutService{DB: db, Wallet: w, Events: pub}
}

func (s *PayoutService) MarkPaid(ctx context.Context, rewardID uuid.UUID, decidedBy uuid.UUID) (Decision, error) {
	var decision Decision
	var reward models.ReferralReward

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.ReferralReward{}).
			Where("id = ? AND status = ?", rewardID, models.RewardStatusPending).
			Updates(map[string]interface{}{
				"status":  models.RewardStatusPaid,
				"paid_at": now,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var existing models.ReferralReward
			if err := tx.First(&existing, "id = ?", rewardID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			decision = Decision{Status: string(existing.Status), Idempotent: true}
			return nil
		}

		if err := tx.First(&reward, "id = ?", rewardID).Error; err != nil {
			return err
		}

		// Same unit of work as the flip: a failed credit rolls the
		// status back to PENDING.
		if err := s.Wallet.CreditReward(tx, reward.ReferrerID, reward.Amount, reward.ID, "referral reward payout"); err != nil {
			return err
		}

		decision = Decision{Status: string(models.RewardStatusPaid)}
		return nil
	})
	if err != nil {
		return Decision{}, err
	}

	if !decision.Idempotent {
		s.Events.Publish(ctx, events.RewardPaid, map[string]interface{}{
			"reward_id":   rewardID,
			"referrer_id": reward.ReferrerID,
			"amount":      reward.Amount,
			"decided_by":  decidedBy,
		})
	}

	return decision, nil
}
