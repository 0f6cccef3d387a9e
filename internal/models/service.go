package models

import (
	"strings"

	"gorm.io/gorm"
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

type Service struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Code        string `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	Name        string `gorm:"type:varchar(255)" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Group       string `gorm:"type:varchar(128);default:General" json:"group"`
	APIURL      string `gorm:"type:varchar(1024)" json:"api_url"`
	APIKey      string `gorm:"type:varchar(255)" json:"api_key,omitempty"`
	IsPublic    bool   `gorm:"default:true" json:"is_public"`

	// PreferredMethod is the first HTTP verb tried against the provider.
	// Defaulted from the URL at creation time; the client still falls back
	// to the other verb on a 405.
	PreferredMethod string `gorm:"type:varchar(8)" json:"preferred_method"`
}

func (Service) TableName() string {
	return "services"
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.Group == "" {
		s.Group = "General"
	}
	if s.PreferredMethod == "" {
		s.PreferredMethod = PreferredMethodFor(s.APIURL)
	}
	return nil
}

// PreferredMethodFor picks the initial verb for a provider URL. The
// imei.info and imeicheck.net families reject query-style GETs and want a
// JSON POST; everything else speaks GET with query parameters.
func PreferredMethodFor(apiURL string) string {
	if strings.Contains(apiURL, "imei.info") || strings.Contains(apiURL, "imeicheck.net") {
		return MethodPost
	}
	return MethodGet
}
