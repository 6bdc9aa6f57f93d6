package referral

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mathscrusader/paygo-sub001/internal/models"
	"github.com/mathscrusader/paygo-sub001/internal/services/settlement"
)

var (
	ErrSelfReferral = errors.New("cannot refer yourself")
	// ErrCodeConflict means the profile was already referred with a
	// different code; referred_by is write-once.
	ErrCodeConflict = errors.New("profile already referred by another code")
)

// Service links a new signup to its referrer. Rewards created here follow
// the payout-deferred rule: they start PENDING and credit nothing until an
// admin marks them paid.
type Service struct {
	DB     *gorm.DB
	Engine *settlement.RewardEngine
}

func NewService(db *gorm.DB, engine *settlement.RewardEngine) *Service {
	return &Service{DB: db, Engine: engine}
}

type Result struct {
	NewBalance int64 `json:"new_balance"`
}

// Register stamps referred_by on the new user's profile and, when a
// qualifying transaction id is supplied, creates the pending reward under
// the same one-per-transaction guard the approval path uses. Retries are
// safe: the stamp is write-once and the reward insert is duplicate-proof.
func (s *Service) Register(ctx context.Context, newUserID uuid.UUID, referralCode string, transactionID *uuid.UUID) (Result, error) {
	var result Result

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referrer models.Profile
		if err := tx.First(&referrer, "referral_code = ?", referralCode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("referral code %q: %w", referralCode, settlement.ErrNotFound)
			}
			return err
		}

		var referred models.Profile
		if err := tx.First(&referred, "id = ?", newUserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("profile %s: %w", newUserID, settlement.ErrNotFound)
			}
			return err
		}

		if referrer.ID == referred.ID {
			return ErrSelfReferral
		}

		// Write-once stamp: only a NULL referred_by accepts a value.
		res := tx.Model(&models.Profile{}).
			Where("id = ? AND referred_by IS NULL", referred.ID).
			Update("referred_by", referrer.ReferralCode)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if referred.ReferredBy == nil || *referred.ReferredBy != referrer.ReferralCode {
				return ErrCodeConflict
			}
			// same code again: retried request, nothing to do
		}

		if transactionID != nil {
			var txn models.Transaction
			if err := tx.First(&txn, "id = ?", *transactionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("transaction %s: %w", *transactionID, settlement.ErrNotFound)
				}
				return err
			}
			if txn.ProfileID != referred.ID {
				return fmt.Errorf("%w: transaction belongs to another profile", settlement.ErrInvalidOutcome)
			}
			if _, err := s.Engine.MaybeAward(tx, &txn); err != nil {
				return err
			}
		}

		// Payout-deferred: registration never credits, so this echoes the
		// referrer's balance as it stands.
		result.NewBalance = referrer.RewardBalance
		return nil
	})

	return result, err
}
