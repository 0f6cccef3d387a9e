package models

import (
	"time"
)

// UsageRecord is the immutable audit row written once per lookup attempt,
// successful or not. It is never updated or deleted.
type UsageRecord struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	AccountID uint    `gorm:"index;not null" json:"account_id"`
	ServiceID uint    `gorm:"index;not null" json:"service_id"`
	IMEI      string  `gorm:"type:varchar(128)" json:"imei"`
	Success   bool    `gorm:"default:false" json:"success"`
	Cost      float64 `gorm:"default:0" json:"cost"`

	Account Account `gorm:"foreignKey:AccountID" json:"-"`
	Service Service `gorm:"foreignKey:ServiceID" json:"-"`

	CreatedAt time.Time `gorm:"index;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (UsageRecord) TableName() string {
	return "usage_records"
}
