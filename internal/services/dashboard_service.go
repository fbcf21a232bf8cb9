package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/anxiolytic/internal/calendar"
	"github.com/terraincognita07/anxiolytic/internal/models"
)

type DashboardAttackReader interface {
	ListByUserRange(userID uint, from *time.Time, to *time.Time) ([]models.Attack, error)
	CountByUserRange(userID uint, from time.Time, to time.Time) (int64, error)
	FindLatestBefore(userID uint, before time.Time) (models.Attack, bool, error)
}

type MonthLabeler interface {
	MonthLabel(language string, value time.Time) string
}

type CalendarDay struct {
	Date               string `json:"date"`
	Label              string `json:"label"`
	IsSelected         bool   `json:"is_selected"`
	IsInDisplayedMonth bool   `json:"is_in_displayed_month"`
	IsToday            bool   `json:"is_today"`
	AttackCount        int    `json:"attack_count"`
}

type CalendarView struct {
	Month      string        `json:"month"`
	MonthLabel string        `json:"month_label"`
	PrevMonth  string        `json:"prev_month"`
	NextMonth  string        `json:"next_month"`
	Selected   string        `json:"selected"`
	Weekdays   []string      `json:"weekdays"`
	Weeks      int           `json:"weeks"`
	Days       []CalendarDay `json:"days"`
}

type TrackerSummary struct {
	Today             int64  `json:"today"`
	ThisWeek          int64  `json:"this_week"`
	ThisMonth         int64  `json:"this_month"`
	AttackFreeStreak  int    `json:"attack_free_streak_days"`
	LastAttackOn      string `json:"last_attack_on,omitempty"`
	HasRecordedAttack bool   `json:"has_recorded_attack"`
}

type DashboardService struct {
	attacks DashboardAttackReader
	labels  MonthLabeler
}

func NewDashboardService(attacks DashboardAttackReader, labels MonthLabeler) *DashboardService {
	return &DashboardService{attacks: attacks, labels: labels}
}

// BuildCalendar renders the month containing month, marking selected and
// today and counting the user's attacks on every visible day, padding included.
func (service *DashboardService) BuildCalendar(userID uint, month time.Time, selected time.Time, now time.Time, location *time.Location, language string) (CalendarView, error) {
	if location == nil {
		location = time.UTC
	}
	reference := calendar.MonthStart(DateAtLocation(month, location))
	if _, err := calendar.ComputeMetadata(reference); err != nil {
		return CalendarView{}, fmt.Errorf("%w: %v", ErrInvalidMonth, err)
	}
	selectedDay := DateAtLocation(selected, location)

	grid := calendar.GenerateDaysInMonth(reference, selectedDay)
	gridStart := grid[0].Date
	gridEnd := calendar.AddDays(grid[len(grid)-1].Date, 1)

	attacks, err := service.attacks.ListByUserRange(userID, &gridStart, &gridEnd)
	if err != nil {
		return CalendarView{}, fmt.Errorf("load attacks: %w", err)
	}
	countsByDay := make(map[string]int, len(attacks))
	for _, attack := range attacks {
		countsByDay[attack.OccurredAt.In(location).Format(DayLayout)]++
	}

	today := DateAtLocation(now, location)
	days := make([]CalendarDay, 0, len(grid))
	for _, day := range grid {
		key := day.Date.Format(DayLayout)
		days = append(days, CalendarDay{
			Date:               key,
			Label:              day.Label,
			IsSelected:         day.IsSelected,
			IsInDisplayedMonth: day.IsInDisplayedMonth,
			IsToday:            calendar.SameDay(day.Date, today),
			AttackCount:        countsByDay[key],
		})
	}

	return CalendarView{
		Month:      reference.Format(MonthLayout),
		MonthLabel: service.labels.MonthLabel(language, reference),
		PrevMonth:  reference.AddDate(0, -1, 0).Format(MonthLayout),
		NextMonth:  reference.AddDate(0, 1, 0).Format(MonthLayout),
		Selected:   selectedDay.Format(DayLayout),
		Weekdays:   calendar.WeekdayHeader(),
		Weeks:      len(grid) / calendar.DaysPerWeek,
		Days:       days,
	}, nil
}

// Tracker counts attacks for today, the current Sunday-first week and month,
// and the number of whole days since the last attack (or since signup).
func (service *DashboardService) Tracker(user models.User, now time.Time, location *time.Location) (TrackerSummary, error) {
	if location == nil {
		location = time.UTC
	}
	todayStart, tomorrowStart := DayRange(now, location)
	weekStart := calendar.AddDays(todayStart, -int(todayStart.Weekday()))
	monthStart, _ := MonthRange(now, location)

	summary := TrackerSummary{}
	var err error
	if summary.Today, err = service.attacks.CountByUserRange(user.ID, todayStart, tomorrowStart); err != nil {
		return TrackerSummary{}, fmt.Errorf("count today: %w", err)
	}
	if summary.ThisWeek, err = service.attacks.CountByUserRange(user.ID, weekStart, tomorrowStart); err != nil {
		return TrackerSummary{}, fmt.Errorf("count week: %w", err)
	}
	if summary.ThisMonth, err = service.attacks.CountByUserRange(user.ID, monthStart, tomorrowStart); err != nil {
		return TrackerSummary{}, fmt.Errorf("count month: %w", err)
	}

	latest, found, err := service.attacks.FindLatestBefore(user.ID, tomorrowStart)
	if err != nil {
		return TrackerSummary{}, fmt.Errorf("load latest attack: %w", err)
	}

	streakStart := DateAtLocation(user.CreatedAt, location)
	if found {
		lastDay := DateAtLocation(latest.OccurredAt, location)
		summary.HasRecordedAttack = true
		summary.LastAttackOn = lastDay.Format(DayLayout)
		streakStart = lastDay
	}
	summary.AttackFreeStreak = daysBetween(streakStart, todayStart)
	return summary, nil
}

// daysBetween counts calendar days from a to b, ignoring DST offsets.
func daysBetween(a time.Time, b time.Time) int {
	if !a.Before(b) {
		return 0
	}
	aYear, aMonth, aDay := a.Date()
	bYear, bMonth, bDay := b.Date()
	start := time.Date(aYear, aMonth, aDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(bYear, bMonth, bDay, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
