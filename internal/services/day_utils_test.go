package services

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"
)

func TestDayRangeNormalizesToLocationMidnight(t *testing.T) {
	location, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	raw := time.Date(2026, 2, 1, 22, 35, 10, 0, time.UTC)
	start, end := DayRange(raw, location)

	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Fatalf("expected midnight start, got %s", start.Format(time.RFC3339))
	}
	if start.Day() != 2 {
		t.Fatalf("expected Moscow date Feb 2, got %s", start.Format(time.RFC3339))
	}
	if !end.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("expected next day end, got %s", end.Format(time.RFC3339))
	}
}

func TestMonthRangeCoversWholeMonth(t *testing.T) {
	start, end := MonthRange(time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC), time.UTC)
	if start.Format(DayLayout) != "2024-02-01" || end.Format(DayLayout) != "2024-03-01" {
		t.Fatalf("unexpected month range %s..%s", start.Format(DayLayout), end.Format(DayLayout))
	}
}

func TestStorageDateKeepsCalendarDay(t *testing.T) {
	location, err := time.LoadLocation("Pacific/Auckland")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	stored := StorageDate(time.Date(2026, time.January, 5, 0, 0, 0, 0, location))
	if stored.Format(time.RFC3339) != "2026-01-05T00:00:00Z" {
		t.Fatalf("expected UTC midnight of the same day, got %s", stored.Format(time.RFC3339))
	}
}

func TestParseMonthAndDay(t *testing.T) {
	month, err := ParseMonth("2024-02", time.UTC)
	if err != nil || month.Month() != time.February || month.Year() != 2024 {
		t.Fatalf("unexpected month %s err=%v", month, err)
	}
	if _, err := ParseMonth("2024-13", time.UTC); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
	if _, err := ParseDayDate("2024-02-30", time.UTC); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseOptionalDayRange(t *testing.T) {
	from, to, err := ParseOptionalDayRange("2024-01-01", "2024-01-31", time.UTC)
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}
	if from.Format(DayLayout) != "2024-01-01" || to.Format(DayLayout) != "2024-02-01" {
		t.Fatalf("unexpected range %s..%s", from.Format(DayLayout), to.Format(DayLayout))
	}

	from, to, err = ParseOptionalDayRange("", "", time.UTC)
	if err != nil || from != nil || to != nil {
		t.Fatalf("expected open range, got %v %v err=%v", from, to, err)
	}

	if _, _, err := ParseOptionalDayRange("2024-02-01", "2024-01-01", time.UTC); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestDayHelpersWhenDSTSkipsMidnight(t *testing.T) {
	// Asuncion jumps from 00:00 to 01:00 on 2024-10-06.
	location, err := time.LoadLocation("America/Asuncion")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	day, err := ParseDayDate("2024-10-06", location)
	if err != nil {
		t.Fatalf("ParseDayDate returned error: %v", err)
	}
	if day.Format(DayLayout) != "2024-10-06" || day.Hour() != 1 {
		t.Fatalf("expected the day to start at 01:00 on Oct 6, got %s", day.Format(time.RFC3339))
	}

	start, end := DayRange(time.Date(2024, time.October, 6, 15, 0, 0, 0, time.UTC), location)
	if start.Format(DayLayout) != "2024-10-06" || end.Format(DayLayout) != "2024-10-07" {
		t.Fatalf("unexpected day range %s..%s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	if got := end.Sub(start); got != 23*time.Hour {
		t.Fatalf("expected a 23h day, got %s", got)
	}

	_, to, err := ParseOptionalDayRange("2024-10-05", "2024-10-05", location)
	if err != nil {
		t.Fatalf("ParseOptionalDayRange returned error: %v", err)
	}
	if !to.Equal(day) {
		t.Fatalf("expected exclusive end at the start of Oct 6, got %s", to.Format(time.RFC3339))
	}
}
