package db

import (
	"time"

	"github.com/terraincognita07/anxiolytic/internal/models"
	"gorm.io/gorm"
)

type AttackRepository struct {
	database *gorm.DB
}

func NewAttackRepository(database *gorm.DB) *AttackRepository {
	return &AttackRepository{database: database}
}

func (repo *AttackRepository) Create(attack *models.Attack) error {
	return repo.database.Create(attack).Error
}

func (repo *AttackRepository) ListByUser(userID uint) ([]models.Attack, error) {
	attacks := make([]models.Attack, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("occurred_at ASC, id ASC").Find(&attacks).Error; err != nil {
		return nil, err
	}
	return attacks, nil
}

// ListByUserRange returns attacks with from <= occurred_at < to; nil bounds are open.
func (repo *AttackRepository) ListByUserRange(userID uint, from *time.Time, to *time.Time) ([]models.Attack, error) {
	query := repo.database.Model(&models.Attack{}).Where("user_id = ?", userID)
	if from != nil {
		query = query.Where("occurred_at >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where("occurred_at < ?", to.UTC())
	}

	attacks := make([]models.Attack, 0)
	if err := query.Order("occurred_at ASC, id ASC").Find(&attacks).Error; err != nil {
		return nil, err
	}
	return attacks, nil
}

func (repo *AttackRepository) CountByUserRange(userID uint, from time.Time, to time.Time) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Attack{}).
		Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, from.UTC(), to.UTC()).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *AttackRepository) FindLatestBefore(userID uint, before time.Time) (models.Attack, bool, error) {
	attack := models.Attack{}
	result := repo.database.
		Where("user_id = ? AND occurred_at < ?", userID, before.UTC()).
		Order("occurred_at DESC, id DESC").
		Limit(1).
		Find(&attack)
	if result.Error != nil {
		return models.Attack{}, false, result.Error
	}
	return attack, result.RowsAffected > 0, nil
}

func (repo *AttackRepository) FindByPublicIDForUser(publicID string, userID uint) (models.Attack, error) {
	attack := models.Attack{}
	if err := repo.database.Where("public_id = ? AND user_id = ?", publicID, userID).First(&attack).Error; err != nil {
		return models.Attack{}, err
	}
	return attack, nil
}

func (repo *AttackRepository) Delete(attack *models.Attack) error {
	return repo.database.Delete(attack).Error
}
