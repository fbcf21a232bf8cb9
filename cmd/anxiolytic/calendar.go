package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/anxiolytic/internal/calendar"
	"github.com/terraincognita07/anxiolytic/internal/config"
	"github.com/terraincognita07/anxiolytic/internal/i18n"
)

func newCalendarCommand(configPath *string) *cobra.Command {
	var (
		month    string
		selected string
		language string
	)

	command := &cobra.Command{
		Use:   "calendar",
		Short: "Print the month grid used by the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			location, _ := config.ResolveLocation(cfg.Timezone)
			now := time.Now().In(location)

			reference, selectedDay, err := parseCalendarFlags(month, selected, now)
			if err != nil {
				return err
			}

			i18nManager, err := i18n.NewManager(cfg.DefaultLanguage)
			if err != nil {
				return fmt.Errorf("i18n init failed: %w", err)
			}
			if strings.TrimSpace(language) == "" {
				language = i18nManager.DefaultLanguage()
			}
			title := i18nManager.MonthLabel(i18nManager.NormalizeLanguage(language), reference)

			return printMonthGrid(cmd.OutOrStdout(), title, reference, selectedDay)
		},
	}
	command.Flags().StringVar(&month, "month", "", "month to print as YYYY-MM (default: current month)")
	command.Flags().StringVar(&selected, "selected", "", "day to highlight as YYYY-MM-DD (default: today)")
	command.Flags().StringVar(&language, "lang", "", "language for the month title")
	return command
}

func parseCalendarFlags(month string, selected string, now time.Time) (time.Time, time.Time, error) {
	location := now.Location()
	reference := calendar.MonthStart(now)
	if raw := strings.TrimSpace(month); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --month %q: expected YYYY-MM", raw)
		}
		reference = calendar.StartOfDay(parsed.Year(), parsed.Month(), 1, location)
	}
	if _, err := calendar.ComputeMetadata(reference); err != nil {
		return time.Time{}, time.Time{}, err
	}

	selectedDay := now
	if raw := strings.TrimSpace(selected); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --selected %q: expected YYYY-MM-DD", raw)
		}
		selectedDay = calendar.StartOfDay(parsed.Year(), parsed.Month(), parsed.Day(), location)
	}
	return reference, selectedDay, nil
}

// printMonthGrid writes one row per week. Padding days are shown as dots and
// the selected day is wrapped in brackets.
func printMonthGrid(out io.Writer, title string, reference time.Time, selected time.Time) error {
	var builder strings.Builder
	builder.WriteString(title)
	builder.WriteByte('\n')

	for _, label := range calendar.WeekdayHeader() {
		fmt.Fprintf(&builder, "%5s", label)
	}
	builder.WriteByte('\n')

	for _, week := range calendar.Weeks(calendar.GenerateDaysInMonth(reference, selected)) {
		for _, day := range week {
			builder.WriteString(formatGridCell(day))
		}
		builder.WriteByte('\n')
	}

	_, err := io.WriteString(out, builder.String())
	return err
}

func formatGridCell(day calendar.Day) string {
	switch {
	case !day.IsInDisplayedMonth:
		return fmt.Sprintf("%5s", ".")
	case day.IsSelected:
		return fmt.Sprintf("%5s", "["+day.Label+"]")
	default:
		return fmt.Sprintf("%5s", day.Label)
	}
}
