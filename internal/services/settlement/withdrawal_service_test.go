package settlement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mathscrusader/paygo-sub001/internal/models"
	"github.com/mathscrusader/paygo-sub001/internal/services/wallet"
)

func TestWithdrawalRejectReturnsFunds(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, wallet.NewWalletService(db), nil)

	owner := seedProfile(t, db, "OWNER1", nil)
	require.NoError(t, db.Model(&models.Profile{}).
		Where("id = ?", owner.ID).
		Update("wallet_balance", int64(500)).Error)
	w := seedWithdrawal(t, db, owner.ID, 2000)

	decision, err := svc.Decide(context.Background(), w.ID, WithdrawalOutcomeRejected, uuid.New())
	require.NoError(t, err)
	require.Equal(t, string(models.WithdrawalStatusRejected), decision.Status)
	require.False(t, decision.Idempotent)

	require.Equal(t, int64(2500), reloadProfile(t, db, owner.ID).WalletBalance)

	var ledger models.WalletTransaction
	require.NoError(t, db.First(&ledger, "reference_id = ?", w.ID).Error)
	require.Equal(t, models.BalanceWallet, ledger.Balance)
	require.Equal(t, models.WalletTrxRefund, ledger.Type)
	require.Equal(t, int64(2000), ledger.Amount)

	// retry is a no-op, no second refund
	again, err := svc.Decide(context.Background(), w.ID, WithdrawalOutcomeRejected, uuid.New())
	require.NoError(t, err)
	require.True(t, again.Idempotent)
	require.Equal(t, int64(2500), reloadProfile(t, db, owner.ID).WalletBalance)
}

func TestWithdrawalApproveMovesNoMoney(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, wallet.NewWalletService(db), nil)

	owner := seedProfile(t, db, "OWNER1", nil)
	require.NoError(t, db.Model(&models.Profile{}).
		Where("id = ?", owner.ID).
		Update("wallet_balance", int64(500)).Error)
	w := seedWithdrawal(t, db, owner.ID, 2000)

	decision, err := svc.Decide(context.Background(), w.ID, WithdrawalOutcomeApproved, uuid.New())
	require.NoError(t, err)
	require.Equal(t, string(models.WithdrawalStatusApproved), decision.Status)

	require.Equal(t, int64(500), reloadProfile(t, db, owner.ID).WalletBalance)

	var got models.Withdrawal
	require.NoError(t, db.First(&got, "id = ?", w.ID).Error)
	require.Equal(t, models.WithdrawalStatusApproved, got.Status)
	require.NotNil(t, got.DecidedAt)
	require.NotNil(t, got.DecidedBy)
}

func TestWithdrawalDecisionIsSticky(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, wallet.NewWalletService(db), nil)

	owner := seedProfile(t, db, "OWNER1", nil)
	w := seedWithdrawal(t, db, owner.ID, 2000)

	_, err := svc.Decide(context.Background(), w.ID, WithdrawalOutcomeApproved, uuid.New())
	require.NoError(t, err)

	// Rejecting after approval neither flips the record nor refunds.
	decision, err := svc.Decide(context.Background(), w.ID, WithdrawalOutcomeRejected, uuid.New())
	require.NoError(t, err)
	require.True(t, decision.Idempotent)
	require.Equal(t, string(models.WithdrawalStatusApproved), decision.Status)
	require.Equal(t, int64(0), reloadProfile(t, db, owner.ID).WalletBalance)
}

func TestWithdrawalInvalidOutcome(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, wallet.NewWalletService(db), nil)

	owner := seedProfile(t, db, "OWNER1", nil)
	w := seedWithdrawal(t, db, owner.ID, 2000)

	_, err := svc.Decide(context.Background(), w.ID, "maybe", uuid.New())
	require.ErrorIs(t, err, ErrInvalidOutcome)

	var got models.Withdrawal
	require.NoError(t, db.First(&got, "id = ?", w.ID).Error)
	require.Equal(t, models.WithdrawalStatusPending, got.Status)
}

func TestWithdrawalUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := NewWithdrawalService(db, wallet.NewWalletService(db), nil)

	_, err := svc.Decide(context.Background(), uuid.New(), WithdrawalOutcomeApproved, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}
