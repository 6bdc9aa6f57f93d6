package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardStatus string

const (
	RewardStatusPending RewardStatus = "PENDING"
	RewardStatusPaid    RewardStatus = "PAID"
)

type ReferralReward struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReferrerID uuid.UUID `gorm:"type:uuid;index;not null" json:"referrer_id"`
	ReferredID uuid.UUID `gorm:"type:uuid;index;not null" json:"referred_id"`
	// One reward per transaction, the unique index is what makes a racing
	// duplicate insert fail instead of succeed.
	TransactionID uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null" json:"transaction_id"`
	Amount        int64        `gorm:"not null" json:"amount"`
	Status        RewardStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PaidAt        *time.Time   `json:"paid_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (r *ReferralReward) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
