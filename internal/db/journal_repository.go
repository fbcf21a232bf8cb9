package db

import (
	"time"

	"github.com/terraincognita07/anxiolytic/internal/models"
	"gorm.io/gorm"
)

type JournalRepository struct {
	database *gorm.DB
}

func NewJournalRepository(database *gorm.DB) *JournalRepository {
	return &JournalRepository{database: database}
}

func (repo *JournalRepository) Create(entry *models.JournalEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *JournalRepository) ListByUserRange(userID uint, from *time.Time, to *time.Time) ([]models.JournalEntry, error) {
	query := repo.database.Model(&models.JournalEntry{}).Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		query = query.Where("date < ?", *to)
	}

	entries := make([]models.JournalEntry, 0)
	if err := query.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *JournalRepository) ExistsForUserOnDate(userID uint, day time.Time) (bool, error) {
	var count int64
	if err := repo.database.Model(&models.JournalEntry{}).
		Where("user_id = ? AND date >= ? AND date < ?", userID, day, day.AddDate(0, 0, 1)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *JournalRepository) FindByIDForUser(entryID uint, userID uint) (models.JournalEntry, error) {
	entry := models.JournalEntry{}
	if err := repo.database.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		return models.JournalEntry{}, err
	}
	return entry, nil
}

func (repo *JournalRepository) Delete(entry *models.JournalEntry) error {
	return repo.database.Delete(entry).Error
}
