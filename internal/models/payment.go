package models

import (
	"time"
)

// Payment is a manual ledger entry recorded by administrative action.
// The lookup flow never writes payments.
type Payment struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	AccountID *uint   `gorm:"index" json:"account_id"`
	Amount    float64 `gorm:"default:0" json:"amount"`
	Method    string  `gorm:"type:varchar(128)" json:"method"`
	Note      string  `gorm:"type:text" json:"note"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}
