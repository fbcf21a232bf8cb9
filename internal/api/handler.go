package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/anxiolytic/internal/db"
	"github.com/terraincognita07/anxiolytic/internal/i18n"
	"github.com/terraincognita07/anxiolytic/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	i18n         *i18n.Manager
	logger       *zap.Logger
	now          func() time.Time

	authLimiter *attemptLimiter

	repositories     *db.Repositories
	authService      *services.AuthService
	attackService    *services.AttackService
	dashboardService *services.DashboardService
	statsService     *services.StatsService
	journalService   *services.JournalService
	settingsService  *services.SettingsService
	exportService    *services.ExportService
}

type Options struct {
	Location     *time.Location
	CookieSecure bool
	Logger       *zap.Logger
}

func NewHandler(database *gorm.DB, secret string, i18nManager *i18n.Manager, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("secret key is required")
	}
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	repositories := db.NewRepositories(database)
	attackService := services.NewAttackService(repositories.Attacks)
	journalService := services.NewJournalService(repositories.Journal)

	return &Handler{
		secretKey:        []byte(secret),
		location:         options.Location,
		cookieSecure:     options.CookieSecure,
		i18n:             i18nManager,
		logger:           options.Logger.Named("api"),
		now:              time.Now,
		authLimiter:      newAttemptLimiter(authAttemptsLimit, authAttemptsWindow),
		repositories:     repositories,
		authService:      services.NewAuthService(repositories.Users),
		attackService:    attackService,
		dashboardService: services.NewDashboardService(repositories.Attacks, i18nManager),
		statsService:     services.NewStatsService(repositories.Attacks, i18nManager),
		journalService:   journalService,
		settingsService:  services.NewSettingsService(repositories.Users, i18nManager),
		exportService:    services.NewExportService(attackService, journalService, i18nManager),
	}, nil
}

// Repositories exposes the storage layer so background workers share it.
func (handler *Handler) Repositories() *db.Repositories {
	return handler.repositories
}
