package models

import "time"

type User struct {
	ID                 uint      `gorm:"primaryKey"`
	Email              string    `gorm:"uniqueIndex;not null"`
	PasswordHash       string    `gorm:"not null"`
	RecoveryCodeHash   string    `gorm:"not null;default:''"`
	DisplayName        string    `gorm:"not null;default:''"`
	Language           string    `gorm:"not null;default:''"`
	RemindersEnabled   bool      `gorm:"not null;default:false"`
	MustChangePassword bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"not null"`
}
