package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/terraincognita07/anxiolytic/internal/models"
	"gorm.io/gorm"
)

const (
	MaxAttackReasonLength = 1000
	// Client clocks drift; an attack stamped slightly ahead of the server is accepted.
	attackClockSkew = time.Minute
)

var (
	ErrAttackNotFound          = errors.New("attack not found")
	ErrAttackOccurredAtInvalid = errors.New("attack occurred_at invalid")
	ErrAttackInFuture          = errors.New("attack occurred_at in future")
	ErrAttackReasonTooLong     = errors.New("attack reason too long")
	ErrAttackIntensityInvalid  = errors.New("attack intensity invalid")
)

type AttackRepository interface {
	Create(attack *models.Attack) error
	ListByUserRange(userID uint, from *time.Time, to *time.Time) ([]models.Attack, error)
	FindByPublicIDForUser(publicID string, userID uint) (models.Attack, error)
	Delete(attack *models.Attack) error
}

type AttackInput struct {
	OccurredAt string
	Answers    []string
	Cause      string
	Reason     string
	Intensity  int
}

type AttackService struct {
	attacks AttackRepository
}

func NewAttackService(attacks AttackRepository) *AttackService {
	return &AttackService{attacks: attacks}
}

func (service *AttackService) Create(userID uint, input AttackInput, now time.Time, location *time.Location) (models.Attack, error) {
	occurredAt, err := ParseOccurredAt(input.OccurredAt, now, location)
	if err != nil {
		return models.Attack{}, err
	}
	answers, err := NormalizeSurveyAnswers(input.Answers)
	if err != nil {
		return models.Attack{}, err
	}
	cause, err := NormalizeAttackCause(input.Cause)
	if err != nil {
		return models.Attack{}, err
	}
	intensity, err := NormalizeAttackIntensity(input.Intensity)
	if err != nil {
		return models.Attack{}, err
	}
	reason := strings.TrimSpace(input.Reason)
	if utf8.RuneCountInString(reason) > MaxAttackReasonLength {
		return models.Attack{}, ErrAttackReasonTooLong
	}

	attack := models.Attack{
		PublicID:   uuid.NewString(),
		UserID:     userID,
		OccurredAt: occurredAt,
		Answers:    answers,
		Cause:      cause,
		Reason:     reason,
		Intensity:  intensity,
	}
	if err := service.attacks.Create(&attack); err != nil {
		return models.Attack{}, fmt.Errorf("create attack: %w", err)
	}
	return attack, nil
}

func (service *AttackService) List(userID uint, from *time.Time, to *time.Time) ([]models.Attack, error) {
	return service.attacks.ListByUserRange(userID, from, to)
}

func (service *AttackService) ListForDay(userID uint, day time.Time, location *time.Location) ([]models.Attack, error) {
	start, end := DayRange(day, location)
	return service.attacks.ListByUserRange(userID, &start, &end)
}

func (service *AttackService) Get(userID uint, publicID string) (models.Attack, error) {
	if _, err := uuid.Parse(strings.TrimSpace(publicID)); err != nil {
		return models.Attack{}, ErrAttackNotFound
	}
	attack, err := service.attacks.FindByPublicIDForUser(strings.TrimSpace(publicID), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Attack{}, ErrAttackNotFound
	}
	if err != nil {
		return models.Attack{}, err
	}
	return attack, nil
}

func (service *AttackService) Delete(userID uint, publicID string) error {
	attack, err := service.Get(userID, publicID)
	if err != nil {
		return err
	}
	return service.attacks.Delete(&attack)
}

// ParseOccurredAt accepts RFC 3339 timestamps and YYYY-MM-DD days (midnight in
// location). Empty input means now. The result is UTC with second precision.
func ParseOccurredAt(raw string, now time.Time, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	trimmed := strings.TrimSpace(raw)

	var occurredAt time.Time
	switch {
	case trimmed == "":
		occurredAt = now
	case len(trimmed) == len(DayLayout):
		parsed, err := ParseDayDate(trimmed, location)
		if err != nil {
			return time.Time{}, ErrAttackOccurredAtInvalid
		}
		occurredAt = parsed
	default:
		parsed, err := time.Parse(time.RFC3339, trimmed)
		if err != nil {
			return time.Time{}, ErrAttackOccurredAtInvalid
		}
		occurredAt = parsed
	}

	if occurredAt.After(now.Add(attackClockSkew)) {
		return time.Time{}, ErrAttackInFuture
	}
	return occurredAt.UTC().Truncate(time.Second), nil
}

// NormalizeAttackIntensity maps an omitted intensity (0) to the default.
func NormalizeAttackIntensity(value int) (int, error) {
	if value == 0 {
		return models.DefaultAttackIntensity, nil
	}
	if value < models.MinAttackIntensity || value > models.MaxAttackIntensity {
		return 0, ErrAttackIntensityInvalid
	}
	return value, nil
}
