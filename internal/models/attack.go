package models

import "time"

const (
	CausePersonal  = "personal"
	CauseFinancial = "financial"
	CauseExternal  = "external"
)

const (
	MinAttackIntensity     = 1
	MaxAttackIntensity     = 10
	DefaultAttackIntensity = 5
)

// Attack is one completed "How do you feel?" check-up.
type Attack struct {
	ID         uint      `gorm:"primaryKey"`
	PublicID   string    `gorm:"not null;uniqueIndex"`
	UserID     uint      `gorm:"not null;index:idx_attacks_user_occurred"`
	OccurredAt time.Time `gorm:"not null;index:idx_attacks_user_occurred"`
	Answers    []string  `gorm:"serializer:json"`
	Cause      string    `gorm:"not null"`
	Reason     string    `gorm:"not null;default:''"`
	Intensity  int       `gorm:"not null;default:5"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
