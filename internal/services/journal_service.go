package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/anxiolytic/internal/models"
	"gorm.io/gorm"
)

const (
	MaxJournalBodyLength  = 5000
	MaxJournalTitleLength = 120
)

var (
	ErrJournalEntryNotFound = errors.New("journal entry not found")
	ErrJournalBodyMissing   = errors.New("journal body missing")
	ErrJournalBodyTooLong   = errors.New("journal body too long")
	ErrJournalTitleTooLong  = errors.New("journal title too long")
	ErrJournalMoodInvalid   = errors.New("journal mood invalid")
	ErrJournalDateInFuture  = errors.New("journal date in future")
)

type JournalRepository interface {
	Create(entry *models.JournalEntry) error
	ListByUserRange(userID uint, from *time.Time, to *time.Time) ([]models.JournalEntry, error)
	FindByIDForUser(entryID uint, userID uint) (models.JournalEntry, error)
	Delete(entry *models.JournalEntry) error
}

type JournalInput struct {
	Date  string
	Title string
	Body  string
	Mood  int
}

type JournalService struct {
	entries JournalRepository
}

func NewJournalService(entries JournalRepository) *JournalService {
	return &JournalService{entries: entries}
}

// Create stores an entry for a local calendar day; an empty date means today.
// Mood 0 means "not rated".
func (service *JournalService) Create(userID uint, input JournalInput, now time.Time, location *time.Location) (models.JournalEntry, error) {
	today := DateAtLocation(now, location)
	day := today
	if strings.TrimSpace(input.Date) != "" {
		parsed, err := ParseDayDate(input.Date, location)
		if err != nil {
			return models.JournalEntry{}, err
		}
		day = parsed
	}
	if day.After(today) {
		return models.JournalEntry{}, ErrJournalDateInFuture
	}

	title := strings.TrimSpace(input.Title)
	if utf8.RuneCountInString(title) > MaxJournalTitleLength {
		return models.JournalEntry{}, ErrJournalTitleTooLong
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return models.JournalEntry{}, ErrJournalBodyMissing
	}
	if utf8.RuneCountInString(body) > MaxJournalBodyLength {
		return models.JournalEntry{}, ErrJournalBodyTooLong
	}
	if input.Mood != 0 && (input.Mood < models.MinJournalMood || input.Mood > models.MaxJournalMood) {
		return models.JournalEntry{}, ErrJournalMoodInvalid
	}

	entry := models.JournalEntry{
		UserID: userID,
		Date:   StorageDate(day),
		Title:  title,
		Body:   body,
		Mood:   input.Mood,
	}
	if err := service.entries.Create(&entry); err != nil {
		return models.JournalEntry{}, fmt.Errorf("create journal entry: %w", err)
	}
	return entry, nil
}

// List returns entries newest first. from and to are local days already
// converted to a half-open range.
func (service *JournalService) List(userID uint, from *time.Time, to *time.Time) ([]models.JournalEntry, error) {
	var storageFrom *time.Time
	var storageTo *time.Time
	if from != nil {
		value := StorageDate(*from)
		storageFrom = &value
	}
	if to != nil {
		value := StorageDate(*to)
		storageTo = &value
	}
	return service.entries.ListByUserRange(userID, storageFrom, storageTo)
}

func (service *JournalService) Delete(userID uint, entryID uint) error {
	entry, err := service.entries.FindByIDForUser(entryID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrJournalEntryNotFound
	}
	if err != nil {
		return err
	}
	return service.entries.Delete(&entry)
}
