package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/anxiolytic/internal/calendar"
)

const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidRange = errors.New("invalid range")
)

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.In(location).Date()
	return calendar.StartOfDay(year, month, day, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, calendar.AddDays(start, 1)
}

func MonthRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := calendar.MonthStart(DateAtLocation(value, location))
	year, month, _ := start.Date()
	return start, calendar.StartOfDay(year, month+1, 1, location)
}

// StorageDate maps a calendar day to UTC midnight of the same date, which is
// how date-only columns are persisted.
func StorageDate(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ParseDayDate(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.Parse(DayLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	year, month, day := parsed.Date()
	return calendar.StartOfDay(year, month, day, location), nil
}

func ParseMonth(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.Parse(MonthLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	year, month, _ := parsed.Date()
	return calendar.StartOfDay(year, month, 1, location), nil
}

// ParseOptionalDayRange parses inclusive from/to days into a half-open
// [from, to+1day) interval. Empty bounds stay nil.
func ParseOptionalDayRange(fromRaw string, toRaw string, location *time.Location) (*time.Time, *time.Time, error) {
	var from *time.Time
	var to *time.Time

	if strings.TrimSpace(fromRaw) != "" {
		parsed, err := ParseDayDate(fromRaw, location)
		if err != nil {
			return nil, nil, err
		}
		from = &parsed
	}
	if strings.TrimSpace(toRaw) != "" {
		parsed, err := ParseDayDate(toRaw, location)
		if err != nil {
			return nil, nil, err
		}
		end := calendar.AddDays(parsed, 1)
		to = &end
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, ErrInvalidRange
	}
	return from, to, nil
}
