package settlement

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mathscrusader/paygo-sub001/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// sqlite allows one writer at a time
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&models.Profile{},
		&models.Transaction{},
		&models.ReferralReward{},
		&models.Withdrawal{},
		&models.WalletTransaction{},
	))
	return gdb
}

func seedProfile(t *testing.T, db *gorm.DB, code string, referredBy *string) models.Profile {
	t.Helper()
	p := models.Profile{
		Name:         "user " + code,
		Email:        code + "@example.com",
		Password:     "irrelevant",
		Role:         models.RoleClient,
		IsActive:     true,
		ReferralCode: code,
		ReferredBy:   referredBy,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedTransaction(t *testing.T, db *gorm.DB, profileID uuid.UUID, typ models.TransactionType, amount int64) models.Transaction {
	t.Helper()
	txn := models.Transaction{
		ProfileID: profileID,
		Type:      typ,
		Amount:    amount,
		Status:    models.TransactionStatusPending,
	}
	require.NoError(t, db.Create(&txn).Error)
	return txn
}

func seedWithdrawal(t *testing.T, db *gorm.DB, profileID uuid.UUID, amount int64) models.Withdrawal {
	t.Helper()
	w := models.Withdrawal{
		ProfileID: profileID,
		Amount:    amount,
		Method:    "bank_transfer",
		Status:    models.WithdrawalStatusPending,
	}
	require.NoError(t, db.Create(&w).Error)
	return w
}

func seedReward(t *testing.T, db *gorm.DB, referrerID, referredID, transactionID uuid.UUID, amount int64) models.ReferralReward {
	t.Helper()
	r := models.ReferralReward{
		ReferrerID:    referrerID,
		ReferredID:    referredID,
		TransactionID: transactionID,
		Amount:        amount,
		Status:        models.RewardStatusPending,
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func rewardCount(t *testing.T, db *gorm.DB, transactionID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.ReferralReward{}).
		Where("transaction_id = ?", transactionID).
		Count(&n).Error)
	return n
}

func reloadProfile(t *testing.T, db *gorm.DB, id uuid.UUID) models.Profile {
	t.Helper()
	var p models.Profile
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p
}

func strPtr(s string) *string { return &s }
