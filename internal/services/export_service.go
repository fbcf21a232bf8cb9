package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/terraincognita07/anxiolytic/internal/models"
)

const (
	exportProductID = "-//Anxiolytic//Attack Export//EN"
	exportUIDDomain = "anxiolytic"
)

// emptyExportCalendar is served when there are no attacks; the encoder
// refuses a VCALENDAR without components.
const emptyExportCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + exportProductID + "\r\nEND:VCALENDAR\r\n"

type ExportAttackReader interface {
	List(userID uint, from *time.Time, to *time.Time) ([]models.Attack, error)
}

type ExportJournalReader interface {
	List(userID uint, from *time.Time, to *time.Time) ([]models.JournalEntry, error)
}

type ExportTranslator interface {
	Translate(language string, key string) string
	TranslateWith(language string, key string, data map[string]any) string
}

type ExportService struct {
	attacks    ExportAttackReader
	journal    ExportJournalReader
	translator ExportTranslator
}

type ExportSummary struct {
	TotalAttacks        int    `json:"total_attacks"`
	TotalJournalEntries int    `json:"total_journal_entries"`
	HasData             bool   `json:"has_data"`
	DateFrom            string `json:"date_from,omitempty"`
	DateTo              string `json:"date_to,omitempty"`
}

type ExportAttackEntry struct {
	ID         string   `json:"id"`
	Date       string   `json:"date"`
	OccurredAt string   `json:"occurred_at"`
	Cause      string   `json:"cause"`
	Reason     string   `json:"reason"`
	Intensity  int      `json:"intensity"`
	Answers    []string `json:"answers"`
}

type ExportJournalEntry struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Mood  int    `json:"mood,omitempty"`
}

type ExportDocument struct {
	ExportedAt string               `json:"exported_at"`
	Summary    ExportSummary        `json:"summary"`
	Attacks    []ExportAttackEntry  `json:"attacks"`
	Journal    []ExportJournalEntry `json:"journal"`
}

func NewExportService(attacks ExportAttackReader, journal ExportJournalReader, translator ExportTranslator) *ExportService {
	return &ExportService{
		attacks:    attacks,
		journal:    journal,
		translator: translator,
	}
}

// BuildJSON collects attacks (oldest first) and journal entries (newest first)
// inside the optional half-open range.
func (service *ExportService) BuildJSON(userID uint, from *time.Time, to *time.Time, now time.Time, location *time.Location) (ExportDocument, error) {
	attacks, err := service.attacks.List(userID, from, to)
	if err != nil {
		return ExportDocument{}, fmt.Errorf("load attacks: %w", err)
	}
	entries, err := service.journal.List(userID, from, to)
	if err != nil {
		return ExportDocument{}, fmt.Errorf("load journal: %w", err)
	}

	document := ExportDocument{
		ExportedAt: now.In(location).Format(time.RFC3339),
		Attacks:    make([]ExportAttackEntry, 0, len(attacks)),
		Journal:    make([]ExportJournalEntry, 0, len(entries)),
	}

	days := make([]string, 0, len(attacks)+len(entries))
	for _, attack := range attacks {
		day := DateAtLocation(attack.OccurredAt, location).Format(DayLayout)
		days = append(days, day)
		answers := make([]string, len(attack.Answers))
		copy(answers, attack.Answers)
		document.Attacks = append(document.Attacks, ExportAttackEntry{
			ID:         attack.PublicID,
			Date:       day,
			OccurredAt: attack.OccurredAt.In(location).Format(time.RFC3339),
			Cause:      attack.Cause,
			Reason:     attack.Reason,
			Intensity:  attack.Intensity,
			Answers:    answers,
		})
	}
	for _, entry := range entries {
		day := entry.Date.UTC().Format(DayLayout)
		days = append(days, day)
		document.Journal = append(document.Journal, ExportJournalEntry{
			Date:  day,
			Title: entry.Title,
			Body:  entry.Body,
			Mood:  entry.Mood,
		})
	}

	document.Summary = ExportSummary{
		TotalAttacks:        len(document.Attacks),
		TotalJournalEntries: len(document.Journal),
		HasData:             len(days) > 0,
	}
	if len(days) > 0 {
		// DayLayout sorts lexically.
		first, last := days[0], days[0]
		for _, day := range days[1:] {
			first = min(first, day)
			last = max(last, day)
		}
		document.Summary.DateFrom = first
		document.Summary.DateTo = last
	}
	return document, nil
}

// BuildICS renders every attack as an all-day event on its local day.
func (service *ExportService) BuildICS(userID uint, language string, now time.Time, location *time.Location) ([]byte, error) {
	attacks, err := service.attacks.List(userID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("load attacks: %w", err)
	}
	if len(attacks) == 0 {
		return []byte(emptyExportCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, exportProductID)
	cal.Props.SetText("X-WR-CALNAME", service.translator.Translate(language, "export.calendar_name"))
	cal.Props.SetText("CALSCALE", "GREGORIAN")

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(now.UTC())

	for _, attack := range attacks {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, attack.PublicID+"@"+exportUIDDomain)
		event.Props.Set(stamp)

		cause := service.translator.Translate(language, CauseMessageKey(attack.Cause))
		event.Props.SetText(ical.PropSummary, service.translator.TranslateWith(language, "export.attack_summary", map[string]any{"Cause": cause}))

		start := ical.NewProp(ical.PropDateTimeStart)
		start.SetDate(DateAtLocation(attack.OccurredAt, location))
		event.Props.Set(start)

		if description := attackEventDescription(attack); description != "" {
			event.Props.SetText(ical.PropDescription, description)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func attackEventDescription(attack models.Attack) string {
	parts := make([]string, 0, 2)
	if attack.Intensity > 0 {
		parts = append(parts, "intensity "+strconv.Itoa(attack.Intensity)+"/"+strconv.Itoa(models.MaxAttackIntensity))
	}
	if reason := strings.TrimSpace(attack.Reason); reason != "" {
		parts = append(parts, reason)
	}
	return strings.Join(parts, "\n")
}
