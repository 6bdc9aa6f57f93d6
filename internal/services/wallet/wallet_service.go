package wallet

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mathscrusader/paygo-sub001/internal/models"
)

type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

// CreditReward adds a paid referral reward to the profile's reward balance
// and creates a ledger entry. This should be called within a DB transaction.
func (s *WalletService) CreditReward(tx *gorm.DB, profileID uuid.UUID, amount int64, referenceID uuid.UUID, description string) error {
	if amount <= 0 {
		return errors.New("amount to credit must be greater than zero")
	}

	// 1. Update Profile reward balance atomically
	result := tx.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("reward_balance", gorm.Expr("reward_balance + ?", amount))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("profile not found for id %s", profileID)
	}

	// 2. Create WalletTransaction (Ledger)
	ledger := models.WalletTransaction{
		ID:          uuid.New(),
		ProfileID:   profileID,
		Amount:      amount,
		Balance:     models.BalanceReward,
		Type:        models.WalletTrxCredit,
		Description: description,
		ReferenceID: &referenceID,
	}

	if err := tx.Create(&ledger).Error; err != nil {
		return err
	}

	return nil
}

// CreditWallet returns funds to the profile's wallet balance (e.g. when a
// withdrawal is rejected) and creates a ledger entry. This should be called
// within a DB transaction.
func (s *WalletService) CreditWallet(tx *gorm.DB, profileID uuid.UUID, amount int64, referenceID uuid.UUID, description string) error {
	if amount <= 0 {
		return errors.New("amount to credit must be greater than zero")
	}

	// 1. Update Profile wallet balance atomically
	result := tx.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("profile not found for id %s", profileID)
	}

	// 2. Create WalletTransaction (Ledger)
	ledger := models.WalletTransaction{
		ID:          uuid.New(),
		ProfileID:   profileID,
		Amount:      amount,
		Balance:     models.BalanceWallet,
		Type:        models.WalletTrxRefund,
		Description: description,
		ReferenceID: &referenceID,
	}

	if err := tx.Create(&ledger).Error; err != nil {
		return err
	}

	return nil
}

// Balances reads both balances fresh from the store. Decisions never trust
// an in-process copy.
func (s *WalletService) Balances(profileID uuid.UUID) (reward int64, wallet int64, err error) {
	var p models.Profile
	if err := s.DB.Select("reward_balance", "wallet_balance").First(&p, "id = ?", profileID).Error; err != nil {
		return 0, 0, err
	}
	return p.RewardBalance, p.WalletBalance, nil
}
