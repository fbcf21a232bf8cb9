package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// DaysPerWeek is the width of every rendered grid row.
const DaysPerWeek = 7

const (
	minSupportedYear = 1
	maxSupportedYear = 9999
)

// ErrMetadataGeneration reports a reference date whose month cannot be resolved.
var ErrMetadataGeneration = errors.New("calendar metadata generation failed")

var weekdayHeader = [DaysPerWeek]string{"S", "M", "T", "W", "T", "F", "S"}

// Day is one cell of a month grid.
type Day struct {
	Date               time.Time
	Label              string
	IsSelected         bool
	IsInDisplayedMonth bool
}

// MonthMetadata describes the month a reference date falls in.
// FirstWeekdayIndex is 1-based with Sunday = 1 and Saturday = 7.
type MonthMetadata struct {
	DayCount          int
	FirstDayOfMonth   time.Time
	FirstWeekdayIndex int
}

// WeekdayIndex returns the 1-based weekday of value, Sunday = 1.
func WeekdayIndex(value time.Time) int {
	return int(value.Weekday()) + 1
}

// MonthStart returns the first instant of value's month in value's location.
func MonthStart(value time.Time) time.Time {
	year, month, _ := value.Date()
	return StartOfDay(year, month, 1, value.Location())
}

// StartOfDay returns the first instant of the civil day year-month-day in
// location. Out-of-range days normalize the way time.Date does. Where a DST
// change skips midnight the day starts at the end of the gap, not at 23:00 of
// the previous day.
func StartOfDay(year int, month time.Month, day int, location *time.Location) time.Time {
	year, month, day = time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()

	start := time.Date(year, month, day, 0, 0, 0, 0, location)
	if startYear, startMonth, startDay := start.Date(); startYear == year && startMonth == month && startDay == day {
		return start
	}
	_, zoneEnd := start.ZoneBounds()
	return zoneEnd
}

// AddDays moves value by days civil days and returns the start of that day.
func AddDays(value time.Time, days int) time.Time {
	year, month, day := value.Date()
	return StartOfDay(year, month, day+days, value.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a time.Time, b time.Time) bool {
	aYear, aMonth, aDay := a.Date()
	bYear, bMonth, bDay := b.In(a.Location()).Date()
	return aYear == bYear && aMonth == bMonth && aDay == bDay
}

// WeekdayHeader returns the single-letter column titles, starting on Sunday.
func WeekdayHeader() []string {
	header := make([]string, DaysPerWeek)
	copy(header, weekdayHeader[:])
	return header
}

// ComputeMetadata resolves the day count, first day and first weekday of reference's month.
func ComputeMetadata(reference time.Time) (MonthMetadata, error) {
	year := reference.Year()
	if year < minSupportedYear || year > maxSupportedYear {
		return MonthMetadata{}, fmt.Errorf("%w: year %d is outside %d..%d", ErrMetadataGeneration, year, minSupportedYear, maxSupportedYear)
	}

	firstDay := MonthStart(reference)
	_, month, _ := reference.Date()
	dayCount := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	return MonthMetadata{
		DayCount:          dayCount,
		FirstDayOfMonth:   firstDay,
		FirstWeekdayIndex: WeekdayIndex(firstDay),
	}, nil
}

// GenerateDaysInMonth builds the Sunday-first grid for reference's month,
// padded with days of the neighbouring months so every row has seven cells.
// It panics with ErrMetadataGeneration for a reference outside years 1..9999;
// callers accepting external input validate the year first.
func GenerateDaysInMonth(reference time.Time, selected time.Time) []Day {
	metadata, err := ComputeMetadata(reference)
	if err != nil {
		panic(err)
	}

	offsetInInitialRow := metadata.FirstWeekdayIndex
	days := make([]Day, 0, 6*DaysPerWeek)
	for day := 1; day < metadata.DayCount+offsetInInitialRow; day++ {
		isWithinDisplayedMonth := day >= offsetInInitialRow
		// Negative for the leading days borrowed from the previous month.
		dayOffset := day - offsetInInitialRow
		days = append(days, generateDay(metadata.FirstDayOfMonth, dayOffset, selected, isWithinDisplayedMonth))
	}

	return append(days, generateStartOfNextMonth(metadata, selected)...)
}

// WeeksInMonth returns the number of grid rows needed for reference's month.
func WeeksInMonth(reference time.Time) int {
	metadata, err := ComputeMetadata(reference)
	if err != nil {
		return 0
	}
	cells := metadata.FirstWeekdayIndex - 1 + metadata.DayCount
	return (cells + DaysPerWeek - 1) / DaysPerWeek
}

// Weeks splits a generated grid into rows of seven days.
func Weeks(days []Day) [][]Day {
	rows := make([][]Day, 0, len(days)/DaysPerWeek+1)
	for start := 0; start < len(days); start += DaysPerWeek {
		end := start + DaysPerWeek
		if end > len(days) {
			end = len(days)
		}
		rows = append(rows, days[start:end])
	}
	return rows
}

func generateDay(firstDayOfMonth time.Time, dayOffset int, selected time.Time, isWithinDisplayedMonth bool) Day {
	date := AddDays(firstDayOfMonth, dayOffset)
	_, _, dayOfMonth := date.Date()
	return Day{
		Date:               date,
		Label:              strconv.Itoa(dayOfMonth),
		IsSelected:         SameDay(date, selected),
		IsInDisplayedMonth: isWithinDisplayedMonth,
	}
}

func generateStartOfNextMonth(metadata MonthMetadata, selected time.Time) []Day {
	lastDayInMonth := AddDays(metadata.FirstDayOfMonth, metadata.DayCount-1)
	additionalDays := DaysPerWeek - WeekdayIndex(lastDayInMonth)
	if additionalDays <= 0 {
		return nil
	}

	days := make([]Day, 0, additionalDays)
	for offset := 1; offset <= additionalDays; offset++ {
		days = append(days, generateDay(metadata.FirstDayOfMonth, metadata.DayCount-1+offset, selected, false))
	}
	return days
}
