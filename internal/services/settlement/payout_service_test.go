package settlement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mathscrusader/paygo-sub001/internal/models"
	"github.com/mathscrusader/paygo-sub001/internal/services/wallet"
)

func TestMarkPaidCreditsReferrerOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewPayoutService(db, wallet.NewWalletService(db), nil)

	referrer := seedProfile(t, db, "REF123", nil)
	referred := seedProfile(t, db, "NEWBIE", strPtr("REF123"))
	txn := seedTransaction(t, db, referred.ID, models.TransactionTypeUpgrade, 20000)
	reward := seedReward(t, db, referrer.ID, referred.ID, txn.ID, 5000)

	decision, err := svc.MarkPaid(context.Background(), reward.ID, uuid.New())
	require.NoError(t, err)
	require.Equal(t, string(models.RewardStatusPaid), decision.Status)
	require.False(t, decision.Idempotent)

	var got models.ReferralReward
	require.NoError(t, db.First(&got, "id = ?", reward.ID).Error)
	require.Equal(t, models.RewardStatusPaid, got.Status)
	require.NotNil(t, got.PaidAt)

	require.Equal(t, int64(5000), reloadProfile(t, db, referrer.ID).RewardBalance)

	var ledger int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).
		Where("reference_id = ?", reward.ID).
		Count(&ledger).Error)
	require.Equal(t, int64(1), ledger)

	// second call flips nothing and credits nothing
	again, err := svc.MarkPaid(context.Background(), reward.ID, uuid.New())
	require.NoError(t, err)
	require.True(t, again.Idempotent)
	require.Equal(t, string(models.RewardStatusPaid), again.Status)
	require.Equal(t, int64(5000), reloadProfile(t, db, referrer.ID).RewardBalance)
}

func TestMarkPaidUnknownReward(t *testing.T) {
	db := newTestDB(t)
	svc := NewPayoutService(db, wallet.NewWalletService(db), nil)

	_, err := svc.MarkPaid(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkPaidRollsBackWhenCreditFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewPayoutService(db, wallet.NewWalletService(db), nil)

	referrer := seedProfile(t, db, "REF123", nil)
	referred := seedProfile(t, db, "NEWBIE", strPtr("REF123"))
	txn := seedTransaction(t, db, referred.ID, models.TransactionTypeUpgrade, 20000)
	reward := seedReward(t, db, referrer.ID, referred.ID, txn.ID, 5000)

	// Referrer disappears between reward creation and payout. The credit
	// fails and the status flip must roll back with it.
	require.NoError(t, db.Delete(&models.Profile{}, "id = ?", referrer.ID).Error)

	_, err := svc.MarkPaid(context.Background(), reward.ID, uuid.New())
	require.Error(t, err)

	var got models.ReferralReward
	require.NoError(t, db.First(&got, "id = ?", reward.ID).Error)
	require.Equal(t, models.RewardStatusPending, got.Status)
	require.Nil(t, got.PaidAt)
}
