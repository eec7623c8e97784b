package models

import (
	"time"
)

// Profile is the caller's account row in the quota store. Credits and the
// daily usage counter are owned by the store; the pipeline reads one snapshot
// per request and issues one paired update after a successful analysis.
type Profile struct {
	ID               string    `gorm:"type:uuid;primary_key" json:"id"`
	CompanyName      string    `gorm:"type:text" json:"company_name"`
	FullName         string    `gorm:"type:text" json:"full_name"`
	CreditsRemaining int       `gorm:"not null;default:0" json:"credits_remaining"`
	DailyUsageCount  int       `gorm:"not null;default:0" json:"daily_usage_count"`
	LastUsageDate    string    `gorm:"type:date" json:"last_usage_date"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (p *Profile) TableName() string {
	return "profiles"
}
