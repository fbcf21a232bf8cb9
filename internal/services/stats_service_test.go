package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/anxiolytic/internal/models"
)

func TestStatsBuildAttackChartBucketsByMonthAndCause(t *testing.T) {
	repositories, user := openRepositoriesForServiceTest(t)
	attacks := NewAttackService(repositories.Attacks)
	stats := NewStatsService(repositories.Attacks, newTestI18nManager(t))

	mustCreateAttack(t, attacks, user.ID, time.Date(2025, time.January, 3, 10, 0, 0, 0, time.UTC), models.CausePersonal)
	mustCreateAttack(t, attacks, user.ID, time.Date(2025, time.January, 20, 10, 0, 0, 0, time.UTC), models.CauseFinancial)
	mustCreateAttack(t, attacks, user.ID, time.Date(2025, time.September, 9, 10, 0, 0, 0, time.UTC), models.CauseExternal)
	mustCreateAttack(t, attacks, user.ID, time.Date(2024, time.December, 31, 10, 0, 0, 0, time.UTC), models.CausePersonal)

	chart, err := stats.BuildAttackChart(user.ID, 2025, time.UTC, "en")
	if err != nil {
		t.Fatalf("build chart: %v", err)
	}

	if chart.Title != "Anxiety attacks and causes" || chart.Unit != "Frequency" {
		t.Fatalf("unexpected chart header %q / %q", chart.Title, chart.Unit)
	}
	if len(chart.Months) != 12 || chart.Months[8].Key != "sep" || chart.Months[8].Label != "Sep" {
		t.Fatalf("unexpected months %#v", chart.Months)
	}
	if len(chart.Legend) != 3 || chart.Legend[0].Key != models.CausePersonal || chart.Legend[2].Label != "External" {
		t.Fatalf("unexpected legend %#v", chart.Legend)
	}

	january := chart.Months[0]
	if january.Total != 2 || january.Counts[models.CausePersonal] != 1 || january.Counts[models.CauseFinancial] != 1 || january.Counts[models.CauseExternal] != 0 {
		t.Fatalf("unexpected january bucket %#v", january)
	}
	if chart.Months[8].Counts[models.CauseExternal] != 1 {
		t.Fatalf("unexpected september bucket %#v", chart.Months[8])
	}
	if chart.Months[11].Total != 0 {
		t.Fatalf("expected previous year's December to be excluded, got %#v", chart.Months[11])
	}
}

func TestStatsBuildAttackChartRejectsInvalidYear(t *testing.T) {
	repositories, user := openRepositoriesForServiceTest(t)
	stats := NewStatsService(repositories.Attacks, newTestI18nManager(t))

	if _, err := stats.BuildAttackChart(user.ID, 0, time.UTC, "en"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestStatsBuildSymptomFrequenciesSortsByCountThenCatalog(t *testing.T) {
	repositories, user := openRepositoriesForServiceTest(t)
	attacks := NewAttackService(repositories.Attacks)
	stats := NewStatsService(repositories.Attacks, newTestI18nManager(t))

	base := time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC)
	mustCreateAttack(t, attacks, user.ID, base, models.CausePersonal, "dread", "afraid")
	mustCreateAttack(t, attacks, user.ID, base.AddDate(0, 0, 1), models.CausePersonal, "dread", "sweating")
	mustCreateAttack(t, attacks, user.ID, base.AddDate(0, 0, 2), models.CausePersonal, "sweating", "dread")

	frequencies, err := stats.BuildSymptomFrequencies(user.ID, "en")
	if err != nil {
		t.Fatalf("build frequencies: %v", err)
	}

	keys := make([]string, 0, len(frequencies))
	for _, frequency := range frequencies {
		keys = append(keys, frequency.Key)
	}
	want := []string{"dread", "sweating", "afraid"}
	if len(keys) != len(want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	for index := range want {
		if keys[index] != want[index] {
			t.Fatalf("expected %v, got %v", want, keys)
		}
	}
	if frequencies[0].Count != 3 || frequencies[0].TotalAttacks != 3 {
		t.Fatalf("unexpected top frequency %#v", frequencies[0])
	}
	if frequencies[2].Text != "I feel afraid" {
		t.Fatalf("expected localized text, got %q", frequencies[2].Text)
	}
}
