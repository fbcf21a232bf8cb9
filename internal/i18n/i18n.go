package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

const (
	LangRU = "ru"
	LangEN = "en"
)

//go:embed locales/active.*.json
var localeFS embed.FS

// Manager resolves request languages and renders messages from the embedded
// locale bundle. It is immutable after construction.
type Manager struct {
	defaultLanguage string
	supported       []string
	bundle          *goi18n.Bundle
	matcher         language.Matcher
	localizers      map[string]*goi18n.Localizer
}

func NewManager(defaultLanguage string) (*Manager, error) {
	return newManagerFromFS(defaultLanguage, localeFS, "locales")
}

func newManagerFromFS(defaultLanguage string, files fs.FS, dir string) (*Manager, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	manager := &Manager{
		bundle:     bundle,
		localizers: map[string]*goi18n.Localizer{},
	}
	tags := make([]language.Tag, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			continue
		}

		messageFile, err := bundle.LoadMessageFileFS(files, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("load locale %s: %w", name, err)
		}
		if len(messageFile.Messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", name)
		}

		base, _ := messageFile.Tag.Base()
		code := base.String()
		manager.supported = append(manager.supported, code)
		manager.localizers[code] = goi18n.NewLocalizer(bundle, code)
		tags = append(tags, messageFile.Tag)
	}

	if len(manager.supported) == 0 {
		return nil, fmt.Errorf("no locales found in %s", dir)
	}
	for _, required := range []string{LangEN, LangRU} {
		if _, ok := manager.localizers[required]; !ok {
			return nil, fmt.Errorf("required locale %q missing", required)
		}
	}

	sort.Strings(manager.supported)
	manager.matcher = language.NewMatcher(tags)
	manager.defaultLanguage = LangEN
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)
	return manager, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	result := make([]string, len(manager.supported))
	copy(result, manager.supported)
	return result
}

func (manager *Manager) NormalizeLanguage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return manager.defaultLanguage
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return manager.defaultLanguage
	}
	base, _ := tag.Base()
	if _, ok := manager.localizers[base.String()]; ok {
		return base.String()
	}
	return manager.defaultLanguage
}

func (manager *Manager) DetectFromAcceptLanguage(raw string) string {
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return manager.defaultLanguage
	}
	matched, _, confidence := manager.matcher.Match(tags...)
	if confidence == language.No {
		return manager.defaultLanguage
	}
	return manager.NormalizeLanguage(matched.String())
}

// Translate returns key itself when no locale defines it.
func (manager *Manager) Translate(language string, key string) string {
	return manager.TranslateWith(language, key, nil)
}

func (manager *Manager) TranslateWith(language string, key string, data map[string]any) string {
	localizer := manager.localizers[manager.NormalizeLanguage(language)]
	message, err := localizer.Localize(&goi18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil || strings.TrimSpace(message) == "" {
		return key
	}
	return message
}

func (manager *Manager) HasMessage(language string, key string) bool {
	localizer := manager.localizers[manager.NormalizeLanguage(language)]
	_, tag, err := localizer.LocalizeWithTag(&goi18n.LocalizeConfig{MessageID: key})
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	return base.String() == manager.NormalizeLanguage(language)
}

func (manager *Manager) MonthName(language string, month time.Month) string {
	return manager.Translate(language, "month."+strconv.Itoa(int(month)))
}

func (manager *Manager) ShortMonthName(language string, month time.Month) string {
	return manager.Translate(language, "month_short."+strconv.Itoa(int(month)))
}

// MonthLabel renders the calendar title for value, e.g. "February 2024".
func (manager *Manager) MonthLabel(language string, value time.Time) string {
	return manager.TranslateWith(language, "calendar.month_label", map[string]any{
		"Month": manager.MonthName(language, value.Month()),
		"Year":  value.Year(),
	})
}
