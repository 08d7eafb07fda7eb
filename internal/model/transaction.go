package model

import "time"

type TxStatus string

const (
	TxStatusPending TxStatus = "pending"
	TxStatusSuccess TxStatus = "success"
	TxStatusFailed  TxStatus = "failed"
)

// Transaction is a single payment attempt against a gateway. A row is
// created as pending and transitions exactly once to success or failed.
// Success is terminal.
type Transaction struct {
	ID         string     `gorm:"column:id;primaryKey;type:char(36)"`
	OrderID    string     `gorm:"column:order_id;type:varchar(64);uniqueIndex;not null"`
	UserID     string     `gorm:"column:user_id;type:varchar(64);not null;index"`
	PlanID     string     `gorm:"column:plan_id;type:varchar(32);not null"`
	Provider   string     `gorm:"column:provider;type:varchar(32);not null"`
	Amount     int64      `gorm:"column:amount;not null"`
	RefNum     *string    `gorm:"column:ref_num;type:varchar(128);index"`
	Status     TxStatus   `gorm:"column:status;type:varchar(16);default:'pending'"`
	VerifiedAt *time.Time `gorm:"column:verified_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

func (Transaction) TableName() string {
	return "transactions"
}
