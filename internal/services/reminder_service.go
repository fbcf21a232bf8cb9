package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/terraincognita07/anxiolytic/internal/models"
	"go.uber.org/zap"
)

const (
	defaultReminderInterval = time.Hour
	telegramAPIBaseURL      = "https://api.telegram.org"
)

var ErrReminderSenderMissing = errors.New("reminder sender missing")

type ReminderUserReader interface {
	ListWithRemindersEnabled() ([]models.User, error)
}

type ReminderAttackCounter interface {
	CountByUserRange(userID uint, from time.Time, to time.Time) (int64, error)
}

type ReminderJournalChecker interface {
	ExistsForUserOnDate(userID uint, day time.Time) (bool, error)
}

type ReminderSender interface {
	Send(ctx context.Context, text string) error
}

type ReminderOptions struct {
	Hour     int
	Interval time.Duration
	Location *time.Location
}

// ReminderService sends one daily check-in message to users with reminders
// enabled who have logged neither an attack nor a journal entry today.
type ReminderService struct {
	users      ReminderUserReader
	attacks    ReminderAttackCounter
	journal    ReminderJournalChecker
	translator Translator
	sender     ReminderSender
	logger     *zap.Logger

	hour     int
	interval time.Duration
	location *time.Location
	now      func() time.Time

	mu           sync.Mutex
	lastReminded map[uint]time.Time
}

func NewReminderService(users ReminderUserReader, attacks ReminderAttackCounter, journal ReminderJournalChecker, translator Translator, sender ReminderSender, logger *zap.Logger, options ReminderOptions) *ReminderService {
	if options.Interval <= 0 {
		options.Interval = defaultReminderInterval
	}
	if options.Location == nil {
		options.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ReminderService{
		users:        users,
		attacks:      attacks,
		journal:      journal,
		translator:   translator,
		sender:       sender,
		logger:       logger.Named("reminders"),
		hour:         options.Hour,
		interval:     options.Interval,
		location:     options.Location,
		now:          time.Now,
		lastReminded: make(map[uint]time.Time),
	}
}

// Run checks immediately and then on every interval until ctx is done.
func (service *ReminderService) Run(ctx context.Context) error {
	if service.sender == nil {
		return ErrReminderSenderMissing
	}

	ticker := time.NewTicker(service.interval)
	defer ticker.Stop()

	service.logger.Info("reminder worker started", zap.Duration("interval", service.interval), zap.Int("hour", service.hour))
	for {
		if _, err := service.RunOnce(ctx); err != nil {
			service.logger.Warn("reminder pass failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			service.logger.Info("reminder worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce performs a single pass and reports how many reminders were sent.
func (service *ReminderService) RunOnce(ctx context.Context) (int, error) {
	now := service.now().In(service.location)
	if now.Hour() < service.hour {
		return 0, nil
	}

	users, err := service.users.ListWithRemindersEnabled()
	if err != nil {
		return 0, fmt.Errorf("list reminder users: %w", err)
	}

	today := DateAtLocation(now, service.location)
	service.pruneBefore(today)
	sent := 0
	for _, user := range users {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		active, err := service.loggedToday(user.ID, today)
		if err != nil {
			service.logger.Warn("check activity failed", zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		if active {
			continue
		}

		if !service.shouldSend(user.ID, today) {
			continue
		}
		message := service.translator.Translate(user.Language, "reminder.message")
		if err := service.sender.Send(ctx, message); err != nil {
			service.forget(user.ID)
			service.logger.Warn("send reminder failed", zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (service *ReminderService) loggedToday(userID uint, today time.Time) (bool, error) {
	start, end := DayRange(today, service.location)
	count, err := service.attacks.CountByUserRange(userID, start, end)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	return service.journal.ExistsForUserOnDate(userID, StorageDate(today))
}

// shouldSend records today for userID and reports whether that is new.
func (service *ReminderService) shouldSend(userID uint, today time.Time) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sentOn, ok := service.lastReminded[userID]; ok && sentOn.Equal(today) {
		return false
	}
	service.lastReminded[userID] = today
	return true
}

func (service *ReminderService) forget(userID uint) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.lastReminded, userID)
}

// pruneBefore drops entries from earlier days so the map holds at most one
// entry per user reminded today.
func (service *ReminderService) pruneBefore(today time.Time) {
	service.mu.Lock()
	defer service.mu.Unlock()
	for userID, sentOn := range service.lastReminded {
		if sentOn.Before(today) {
			delete(service.lastReminded, userID)
		}
	}
}

type TelegramSender struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

func NewTelegramSender(botToken string, chatID string) *TelegramSender {
	return &TelegramSender{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramAPIBaseURL,
		client:   &http.Client{Timeout: 8 * time.Second},
	}
}

// WithEndpoint points the sender at another Bot API host and HTTP client.
func (sender *TelegramSender) WithEndpoint(baseURL string, client *http.Client) *TelegramSender {
	sender.baseURL = strings.TrimRight(baseURL, "/")
	if client != nil {
		sender.client = client
	}
	return sender
}

func (sender *TelegramSender) Send(ctx context.Context, text string) error {
	values := url.Values{}
	values.Set("chat_id", sender.chatID)
	values.Set("text", text)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", sender.baseURL, sender.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := sender.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
