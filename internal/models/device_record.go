package models

import (
	"time"
)

// DeviceRecord caches the first sighting of an identifier per account.
// Repeat lookups of the same (account, imei) pair leave the row untouched.
type DeviceRecord struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	AccountID uint   `gorm:"index;not null" json:"account_id"`
	IMEI      string `gorm:"type:varchar(128);index" json:"imei"`
	Serial    string `gorm:"type:varchar(128);index" json:"serial"`
	Note      string `gorm:"type:text" json:"note"`

	Account Account `gorm:"foreignKey:AccountID" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (DeviceRecord) TableName() string {
	return "devices"
}
