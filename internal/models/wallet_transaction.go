package models

import (
	"time"

	"github.com/google/uuid"
)

type BalanceKind string

const (
	BalanceReward BalanceKind = "reward" // referral reward balance
	BalanceWallet BalanceKind = "wallet" // spendable wallet balance
)

type WalletTrxType string

const (
	WalletTrxCredit WalletTrxType = "credit" // reward payout
	WalletTrxRefund WalletTrxType = "refund" // returned withdrawal funds
)

type WalletTransaction struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID   uuid.UUID     `gorm:"type:uuid;index;not null" json:"profile_id"`
	Amount      int64         `gorm:"not null" json:"amount"`
	Balance     BalanceKind   `gorm:"type:varchar(20);not null" json:"balance"`
	Type        WalletTrxType `gorm:"type:varchar(20);not null" json:"type"`
	Description string        `gorm:"type:text" json:"description"`
	ReferenceID *uuid.UUID    `gorm:"type:uuid;index" json:"reference_id,omitempty"` // reward or withdrawal id
	CreatedAt   time.Time     `json:"created_at"`

	// Relation
	Profile *Profile `gorm:"foreignKey:ProfileID" json:"-"`
}
