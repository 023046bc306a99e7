package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment records a verified subscription payment reported by the gateway.
// A row is only created after the callback signature checks out.
type Payment struct {
	ID             uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	PaymentID      string          `json:"razorpay_payment_id" gorm:"size:255;not null;uniqueIndex"`
	SubscriptionID string          `json:"razorpay_subscription_id" gorm:"size:255;not null;index"`
	Signature      string          `json:"razorpay_signature" gorm:"size:255;not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(20,2)"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
