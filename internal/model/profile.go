package model

import "time"

const (
	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
)

// Profile holds the subscription entitlement of an account. Expiry is only
// ever extended by a transaction transitioning pending -> success.
type Profile struct {
	UserID                string     `gorm:"column:user_id;primaryKey;type:varchar(64)"`
	SubscriptionStatus    string     `gorm:"column:subscription_status;type:varchar(16);default:'inactive'"`
	SubscriptionExpiresAt *time.Time `gorm:"column:subscription_expires_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
	CreatedAt             time.Time  `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

func (Profile) TableName() string {
	return "profiles"
}
