package calendar

import (
	"errors"
	"strconv"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestComputeMetadataLeapFebruary(t *testing.T) {
	metadata, err := ComputeMetadata(time.Date(2024, time.February, 15, 13, 45, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Equal(t, 29, metadata.DayCount)
	require.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), metadata.FirstDayOfMonth)
	require.Equal(t, 5, metadata.FirstWeekdayIndex, "Feb 1 2024 is a Thursday")
}

func TestComputeMetadataRejectsUnsupportedYear(t *testing.T) {
	_, err := ComputeMetadata(time.Date(0, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, errors.Is(err, ErrMetadataGeneration))

	_, err = ComputeMetadata(time.Date(10000, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, errors.Is(err, ErrMetadataGeneration))
}

func TestGenerateDaysInMonthLeapFebruary(t *testing.T) {
	reference := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)
	days := GenerateDaysInMonth(reference, reference)

	require.Len(t, days, 35)

	leading := []string{"2024-01-28", "2024-01-29", "2024-01-30", "2024-01-31"}
	for index, want := range leading {
		require.Equal(t, want, days[index].Date.Format("2006-01-02"))
		require.False(t, days[index].IsInDisplayedMonth)
	}

	require.Equal(t, "2024-02-01", days[4].Date.Format("2006-01-02"))
	require.Equal(t, "1", days[4].Label)
	require.Equal(t, "2024-02-29", days[32].Date.Format("2006-01-02"))
	require.Equal(t, "29", days[32].Label)
	require.True(t, days[32].IsInDisplayedMonth)

	require.Equal(t, "2024-03-01", days[33].Date.Format("2006-01-02"))
	require.Equal(t, "2024-03-02", days[34].Date.Format("2006-01-02"))
	require.False(t, days[33].IsInDisplayedMonth)
	require.False(t, days[34].IsInDisplayedMonth)

	require.True(t, days[18].IsSelected)
	require.Equal(t, "15", days[18].Label)
}

func TestGenerateDaysInMonthRollsBackAcrossLeapDay(t *testing.T) {
	reference := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	days := GenerateDaysInMonth(reference, reference)

	want := []string{"2024-02-25", "2024-02-26", "2024-02-27", "2024-02-28", "2024-02-29"}
	for index, date := range want {
		require.Equal(t, date, days[index].Date.Format("2006-01-02"))
		require.False(t, days[index].IsInDisplayedMonth)
	}
	require.Equal(t, "2024-03-01", days[5].Date.Format("2006-01-02"))
	require.True(t, days[5].IsInDisplayedMonth)
	require.True(t, days[5].IsSelected)
}

func TestGenerateDaysInMonthSkipsTrailingPaddingWhenMonthEndsOnSaturday(t *testing.T) {
	// August 31 2024 is a Saturday.
	days := GenerateDaysInMonth(time.Date(2024, time.August, 10, 0, 0, 0, 0, time.UTC), time.Time{})

	last := days[len(days)-1]
	require.Equal(t, "2024-08-31", last.Date.Format("2006-01-02"))
	require.True(t, last.IsInDisplayedMonth)
}

func TestGenerateDaysInMonthWithoutLeadingPaddingWhenMonthStartsOnSunday(t *testing.T) {
	// September 1 2024 is a Sunday.
	days := GenerateDaysInMonth(time.Date(2024, time.September, 20, 0, 0, 0, 0, time.UTC), time.Time{})

	require.Equal(t, "2024-09-01", days[0].Date.Format("2006-01-02"))
	require.True(t, days[0].IsInDisplayedMonth)
	require.Len(t, days, 35)
}

func TestGenerateDaysInMonthComparesAgainstSelectedDate(t *testing.T) {
	reference := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	selected := time.Date(2024, time.May, 20, 18, 30, 0, 0, time.UTC)

	days := GenerateDaysInMonth(reference, selected)

	for _, day := range days {
		want := day.Date.Format("2006-01-02") == "2024-05-20"
		require.Equal(t, want, day.IsSelected, "day %s", day.Date.Format("2006-01-02"))
	}
}

func TestGenerateDaysInMonthSelectsPaddingDay(t *testing.T) {
	reference := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	selected := time.Date(2024, time.January, 29, 0, 0, 0, 0, time.UTC)

	days := GenerateDaysInMonth(reference, selected)

	require.Equal(t, 1, countSelected(days))
	require.True(t, days[1].IsSelected)
	require.False(t, days[1].IsInDisplayedMonth)
}

func TestGenerateDaysInMonthSelectedOutsideGrid(t *testing.T) {
	reference := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	selected := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	require.Zero(t, countSelected(GenerateDaysInMonth(reference, selected)))
}

func TestGenerateDaysInMonthSelectedInOtherLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	reference := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	// 2024-07-10 23:00 in Tokyo is 2024-07-10 14:00 UTC.
	selected := time.Date(2024, time.July, 10, 23, 0, 0, 0, tokyo)

	days := GenerateDaysInMonth(reference, selected)
	require.Equal(t, 1, countSelected(days))
	for _, day := range days {
		if day.IsSelected {
			require.Equal(t, "2024-07-10", day.Date.Format("2006-01-02"))
		}
	}
}

func TestGenerateDaysInMonthIsIdempotent(t *testing.T) {
	reference := time.Date(2025, time.November, 11, 9, 0, 0, 0, time.UTC)
	selected := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)

	first := GenerateDaysInMonth(reference, selected)
	second := GenerateDaysInMonth(reference, selected)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("grid changed between identical calls (-first +second):\n%s", diff)
	}
}

func TestGenerateDaysInMonthPanicsOnUnsupportedYear(t *testing.T) {
	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)
		err, ok := recovered.(error)
		require.True(t, ok)
		require.True(t, errors.Is(err, ErrMetadataGeneration))
	}()

	GenerateDaysInMonth(time.Date(10000, time.January, 1, 0, 0, 0, 0, time.UTC), time.Time{})
}

func TestGenerateDaysInMonthGridProperties(t *testing.T) {
	locations := []string{
		"UTC", "America/New_York", "Europe/Kyiv", "America/Sao_Paulo", "Australia/Lord_Howe",
		"America/Santiago", "America/Asuncion", "America/Havana", "Asia/Beirut", "Asia/Gaza",
	}

	for _, name := range locations {
		location, err := time.LoadLocation(name)
		require.NoError(t, err)

		for year := 1999; year <= 2031; year++ {
			for month := time.January; month <= time.December; month++ {
				reference := time.Date(year, month, 12, 15, 0, 0, 0, location)
				days := GenerateDaysInMonth(reference, reference)
				assertGridProperties(t, reference, days)
			}
		}
	}
}

func TestGenerateDaysInMonthWhenDSTSkipsMidnight(t *testing.T) {
	cases := []struct {
		zone    string
		month   time.Month
		skipped string
		label   string
	}{
		// Santiago moves from 00:00 to 01:00 on 2024-09-08.
		{zone: "America/Santiago", month: time.September, skipped: "2024-09-08", label: "8"},
		// Asuncion does the same on 2024-10-06.
		{zone: "America/Asuncion", month: time.October, skipped: "2024-10-06", label: "6"},
	}

	for _, tc := range cases {
		location, err := time.LoadLocation(tc.zone)
		require.NoError(t, err)

		reference := time.Date(2024, tc.month, 15, 12, 0, 0, 0, location)
		days := GenerateDaysInMonth(reference, reference)
		assertGridProperties(t, reference, days)

		labels := make(map[string]int)
		var gapDay *Day
		for index := range days {
			if days[index].IsInDisplayedMonth {
				labels[days[index].Label]++
			}
			if days[index].Date.Format("2006-01-02") == tc.skipped {
				gapDay = &days[index]
			}
		}
		for label, count := range labels {
			require.Equal(t, 1, count, "%s: label %s repeated", tc.zone, label)
		}

		require.NotNil(t, gapDay, "%s: %s missing from grid", tc.zone, tc.skipped)
		require.Equal(t, 1, gapDay.Date.Hour(), "%s: day should start when the clocks jump", tc.zone)
		require.Equal(t, tc.label, gapDay.Label)
	}
}

func TestStartOfDayAcrossDSTGap(t *testing.T) {
	location, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)

	start := StartOfDay(2024, time.September, 8, location)
	require.Equal(t, "2024-09-08T01:00:00-03:00", start.Format(time.RFC3339))

	before := StartOfDay(2024, time.September, 7, location)
	require.Equal(t, "2024-09-07T00:00:00-04:00", before.Format(time.RFC3339))
	require.True(t, start.Equal(AddDays(before, 1)))
	require.True(t, before.Equal(AddDays(start, -1)))

	require.Equal(t, "2024-10-01", StartOfDay(2024, time.September, 31, location).Format("2006-01-02"))
}

func TestWeeksInMonth(t *testing.T) {
	cases := []struct {
		reference time.Time
		want      int
	}{
		{reference: time.Date(2015, time.February, 10, 0, 0, 0, 0, time.UTC), want: 4},
		{reference: time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), want: 5},
		{reference: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), want: 6},
		{reference: time.Date(10000, time.March, 10, 0, 0, 0, 0, time.UTC), want: 0},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, WeeksInMonth(tc.reference), tc.reference.Format("2006-01"))
	}
}

func TestWeeksSplitsGridIntoRows(t *testing.T) {
	days := GenerateDaysInMonth(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	rows := Weeks(days)

	require.Len(t, rows, 6)
	for _, row := range rows {
		require.Len(t, row, DaysPerWeek)
		require.Equal(t, time.Sunday, row[0].Date.Weekday())
	}
}

func TestWeekdayHeaderStartsOnSunday(t *testing.T) {
	header := WeekdayHeader()
	require.Equal(t, []string{"S", "M", "T", "W", "T", "F", "S"}, header)

	header[0] = "X"
	require.Equal(t, "S", WeekdayHeader()[0], "header must be returned as a copy")
}

func assertGridProperties(t *testing.T, reference time.Time, days []Day) {
	t.Helper()

	label := reference.Format("2006-01 MST")
	require.NotEmpty(t, days, label)
	require.Zero(t, len(days)%DaysPerWeek, "%s: grid length %d", label, len(days))
	require.Equal(t, time.Sunday, days[0].Date.Weekday(), label)
	require.Equal(t, time.Saturday, days[len(days)-1].Date.Weekday(), label)

	firstYear, firstMonth, firstDay := days[0].Date.Date()
	firstCivil := time.Date(firstYear, firstMonth, firstDay, 0, 0, 0, 0, time.UTC)

	inMonth := 0
	for index, day := range days {
		if day.IsInDisplayedMonth {
			inMonth++
			require.Equal(t, reference.Month(), day.Date.Month(), label)
		} else {
			require.NotEqual(t, reference.Month(), day.Date.Month(), label)
		}

		want := firstCivil.AddDate(0, 0, index)
		require.Equal(t, want.Format("2006-01-02"), day.Date.Format("2006-01-02"), "%s: cell %d", label, index)
		require.Equal(t, strconv.Itoa(want.Day()), day.Label, "%s: cell %d", label, index)
		require.Equal(t, reference.Location(), day.Date.Location(), label)
		if index > 0 {
			require.True(t, days[index-1].Date.Before(day.Date), "%s: cell %d", label, index)
		}
	}

	metadata, err := ComputeMetadata(reference)
	require.NoError(t, err)
	require.Equal(t, metadata.DayCount, inMonth, label)
	require.GreaterOrEqual(t, inMonth, 28, label)
	require.LessOrEqual(t, inMonth, 31, label)
	require.Equal(t, 1, countSelected(days), label)
	require.Equal(t, WeeksInMonth(reference)*DaysPerWeek, len(days), label)
}

func countSelected(days []Day) int {
	count := 0
	for _, day := range days {
		if day.IsSelected {
			count++
		}
	}
	return count
}
