package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected WithdrawalStatus = "REJECTED"
)

type Withdrawal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID uuid.UUID `gorm:"type:uuid;index;not null" json:"profile_id"`
	Profile   *Profile  `gorm:"foreignKey:ProfileID" json:"-"`
	// Amount was debited from the wallet when the request was created.
	Amount        int64            `gorm:"not null" json:"amount"`
	Method        string           `gorm:"type:varchar(50);not null" json:"method"`
	MethodDetails datatypes.JSON   `json:"method_details,omitempty"` // bank account / e-wallet payload
	Status        WithdrawalStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Note          string           `gorm:"type:text" json:"note"`
	DecidedAt     *time.Time       `json:"decided_at,omitempty"`
	DecidedBy     *uuid.UUID       `gorm:"type:uuid" json:"decided_by,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (w *Withdrawal) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}
