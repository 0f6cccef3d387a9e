package models

import (
	"time"
)

type Account struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	TelegramID int64  `gorm:"uniqueIndex;not null" json:"telegram_id"`
	Username   string `gorm:"type:varchar(128)" json:"username"`
	Registered bool   `json:"registered"`
	FreeCalls  int    `json:"free_calls"`
	PaidCalls  int    `json:"paid_calls"`

	Devices  []DeviceRecord `gorm:"foreignKey:AccountID" json:"-"`
	Usages   []UsageRecord  `gorm:"foreignKey:AccountID" json:"-"`
	Payments []Payment      `gorm:"foreignKey:AccountID" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// HasQuota reports whether the account can still be billed a free call.
func (a *Account) HasQuota() bool {
	return a.FreeCalls > 0
}
