package settlement

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mathscrusader/paygo-sub001/internal/logger"
	"github.com/mathscrusader/paygo-sub001/internal/models"
)

// RewardEngine issues at most one referral reward per transaction. It never
// touches balances; payout happens separately when an admin marks the reward
// paid.
type RewardEngine struct {
	Amount int64 // fixed reward per qualifying transaction
}

func NewRewardEngine(amount int64) *RewardEngine {
	return &RewardEngine{Amount: amount}
}

// MaybeAward creates the referral reward tied to txn if its owner was
// referred. Runs inside the caller's storage transaction. Returns the created
// reward, or nil when nothing was (or could be) awarded; data
// inconsistencies are logged, never surfaced, so an approval cannot fail on
// them.
func (e *RewardEngine) MaybeAward(tx *gorm.DB, txn *models.Transaction) (*models.ReferralReward, error) {
	var owner models.Profile
	if err := tx.First(&owner, "id = ?", txn.ProfileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Warn("transaction owner has no profile",
				zap.String("transactionId", txn.ID.String()),
				zap.String("profileId", txn.ProfileID.String()))
			return nil, nil
		}
		return nil, err
	}

	if owner.ReferredBy == nil || *owner.ReferredBy == "" {
		return nil, nil // not a referred user
	}

	var referrer models.Profile
	if err := tx.First(&referrer, "referral_code = ?", *owner.ReferredBy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Warn("referred_by code matches no profile",
				zap.String("code", *owner.ReferredBy),
				zap.String("profileId", owner.ID.String()))
			return nil, nil
		}
		return nil, err
	}

	var count int64
	if err := tx.Model(&models.ReferralReward{}).
		Where("transaction_id = ?", txn.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil // already awarded
	}

	reward := models.ReferralReward{
		ID:            uuid.New(),
		ReferrerID:    referrer.ID,
		ReferredID:    owner.ID,
		TransactionID: txn.ID,
		Amount:        e.Amount,
		Status:        models.RewardStatusPending,
	}

	// Insert under a savepoint: a concurrent caller can win the unique
	// index on transaction_id between the count above and this write, and
	// the enclosing transaction must survive that.
	err := tx.Transaction(func(tx2 *gorm.DB) error {
		return tx2.Create(&reward).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil // someone else awarded it first
		}
		return nil, err
	}

	return &reward, nil
}
