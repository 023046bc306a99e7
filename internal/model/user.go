package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Attachment references an object held in external storage.
type Attachment struct {
	PublicID  string `json:"public_id" gorm:"size:255"`
	SecureURL string `json:"secure_url" gorm:"size:512"`
}

// Subscription is the point-in-time billing snapshot embedded on the user.
// It is copied into issued tokens; authorization decisions read the snapshot
// rather than performing a fresh lookup.
type Subscription struct {
	ID     string `json:"id" gorm:"size:255"`
	Status string `json:"status" gorm:"size:50"`
}

// SubscriptionActive is the gateway status that unlocks lecture access.
const SubscriptionActive = "active"

// User represents a registered account.
type User struct {
	ID           uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	FullName     string       `json:"fullName" gorm:"size:255;not null"`
	Email        string       `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string       `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role         `json:"role" gorm:"size:50;default:'User'"`
	Avatar       Attachment   `json:"avatar" gorm:"embedded;embeddedPrefix:avatar_"`
	Subscription Subscription `json:"subscription" gorm:"embedded;embeddedPrefix:subscription_"`

	// Reset-credential fields. Empty in steady state; populated only while a
	// password-reset window is open. Only the SHA-256 of the issued token is
	// stored, never the token itself.
	ForgotPasswordToken  string     `json:"-" gorm:"size:64;index"`
	ForgotPasswordExpiry *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
