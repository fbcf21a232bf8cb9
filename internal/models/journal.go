package models

import "time"

const (
	MinJournalMood = 1
	MaxJournalMood = 5
)

type JournalEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index:idx_journal_user_date"`
	Date      time.Time `gorm:"type:date;not null;index:idx_journal_user_date"`
	Title     string    `gorm:"not null;default:''"`
	Body      string    `gorm:"not null"`
	Mood      int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
