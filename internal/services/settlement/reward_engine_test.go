package settlement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mathscrusader/paygo-sub001/internal/models"
)

func TestMaybeAwardSkipsOrganicSignup(t *testing.T) {
	db := newTestDB(t)
	engine := NewRewardEngine(5000)

	owner := seedProfile(t, db, "NOREF1", nil)
	txn := seedTransaction(t, db, owner.ID, models.TransactionTypeUpgrade, 20000)

	reward, err := engine.MaybeAward(db, &txn)
	require.NoError(t, err)
	require.Nil(t, reward)
	require.Equal(t, int64(0), rewardCount(t, db, txn.ID))
}

func TestMaybeAwardSkipsDanglingCode(t *testing.T) {
	db := newTestDB(t)
	engine := NewRewardEngine(5000)

	// referred_by points at a code no profile owns
	owner := seedProfile(t, db, "ORPHAN", strPtr("GHOST99"))
	txn := seedTransaction(t, db, owner.ID, models.TransactionTypeUpgrade, 20000)

	reward, err := engine.MaybeAward(db, &txn)
	require.NoError(t, err)
	require.Nil(t, reward)
	require.Equal(t, int64(0), rewardCount(t, db, txn.ID))
}

func TestMaybeAwardIsDuplicateProof(t *testing.T) {
	db := newTestDB(t)
	engine := NewRewardEngine(5000)

	referrer := seedProfile(t, db, "REF123", nil)
	referred := seedProfile(t, db, "NEWBIE", strPtr("REF123"))
	txn := seedTransaction(t, db, referred.ID, models.TransactionTypeUpgrade, 20000)

	first, err := engine.MaybeAward(db, &txn)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.Equal(t, referrer.ID, first.ReferrerID)

	second, err := engine.MaybeAward(db, &txn)
	require.NoError(t, err)
	require.Nil(t, second)

	require.Equal(t, int64(1), rewardCount(t, db, txn.ID))
}

func TestRewardUniqueIndexBacksTheInvariant(t *testing.T) {
	db := newTestDB(t)

	referrer := seedProfile(t, db, "REF123", nil)
	referred := seedProfile(t, db, "NEWBIE", strPtr("REF123"))
	txn := seedTransaction(t, db, referred.ID, models.TransactionTypeUpgrade, 20000)

	seedReward(t, db, referrer.ID, referred.ID, txn.ID, 5000)

	dup := models.ReferralReward{
		ReferrerID:    referrer.ID,
		ReferredID:    referred.ID,
		TransactionID: txn.ID,
		Amount:        5000,
		Status:        models.RewardStatusPending,
	}
	err := db.Create(&dup).Error
	require.Error(t, err)
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}
