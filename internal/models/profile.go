package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

type Profile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	// Assigned once at signup. ReferredBy stays NULL for organic signups
	// and is write-once afterwards.
	ReferralCode string  `gorm:"type:varchar(20);uniqueIndex;not null" json:"referral_code"`
	ReferredBy   *string `gorm:"type:varchar(20);index" json:"referred_by,omitempty"`

	// Balances only move through the wallet service increments.
	RewardBalance int64 `gorm:"not null;default:0" json:"reward_balance"`
	WalletBalance int64 `gorm:"not null;default:0" json:"wallet_balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
