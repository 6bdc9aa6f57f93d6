package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusApproved TransactionStatus = "APPROVED"
	TransactionStatusRejected TransactionStatus = "REJECTED"
)

type TransactionType string

const (
	TransactionTypeUpgrade  TransactionType = "upgrade"
	TransactionTypePurchase TransactionType = "purchase"
)

// RewardEligible reports whether approving a transaction of this type
// produces a referral reward.
func (t TransactionType) RewardEligible() bool {
	return t == TransactionTypeUpgrade
}

type Transaction struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID uuid.UUID         `gorm:"type:uuid;index;not null" json:"profile_id"`
	Profile   *Profile          `gorm:"foreignKey:ProfileID" json:"-"`
	Type      TransactionType   `gorm:"type:varchar(20);not null" json:"type"`
	Amount    int64             `gorm:"not null" json:"amount"`
	Status    TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	DecidedAt *time.Time        `json:"decided_at,omitempty"`
	DecidedBy *uuid.UUID        `gorm:"type:uuid" json:"decided_by,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
