package services

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/terraincognita07/anxiolytic/internal/models"
)

// ChartMonthKeys are the stable bucket keys of the yearly chart.
var ChartMonthKeys = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

type StatsAttackReader interface {
	ListByUserRange(userID uint, from *time.Time, to *time.Time) ([]models.Attack, error)
	ListByUser(userID uint) ([]models.Attack, error)
}

type ChartMonth struct {
	Key    string         `json:"key"`
	Label  string         `json:"label"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

type AttackChart struct {
	Title  string        `json:"title"`
	Year   int           `json:"year"`
	Unit   string        `json:"unit"`
	Legend []SurveyCause `json:"legend"`
	Months []ChartMonth  `json:"months"`
}

type SymptomFrequency struct {
	Key          string `json:"key"`
	Text         string `json:"text"`
	Count        int    `json:"count"`
	TotalAttacks int    `json:"total_attacks"`
}

type StatsTranslator interface {
	Translate(language string, key string) string
	ShortMonthName(language string, month time.Month) string
}

type StatsService struct {
	attacks    StatsAttackReader
	translator StatsTranslator
}

func NewStatsService(attacks StatsAttackReader, translator StatsTranslator) *StatsService {
	return &StatsService{attacks: attacks, translator: translator}
}

// BuildAttackChart buckets the year's attacks by local month and cause.
func (service *StatsService) BuildAttackChart(userID uint, year int, location *time.Location, language string) (AttackChart, error) {
	if location == nil {
		location = time.UTC
	}
	if year < 1 || year > 9999 {
		return AttackChart{}, ErrInvalidRange
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, location)
	to := from.AddDate(1, 0, 0)

	attacks, err := service.attacks.ListByUserRange(userID, &from, &to)
	if err != nil {
		return AttackChart{}, fmt.Errorf("load attacks: %w", err)
	}

	chart := AttackChart{
		Title:  service.translator.Translate(language, "chart.title"),
		Year:   year,
		Unit:   service.translator.Translate(language, "chart.unit"),
		Legend: make([]SurveyCause, 0, len(AttackCauses)),
		Months: make([]ChartMonth, 0, len(ChartMonthKeys)),
	}
	for _, cause := range AttackCauses {
		chart.Legend = append(chart.Legend, SurveyCause{Key: cause, Label: service.translator.Translate(language, CauseMessageKey(cause))})
	}
	for index, key := range ChartMonthKeys {
		counts := make(map[string]int, len(AttackCauses))
		for _, cause := range AttackCauses {
			counts[cause] = 0
		}
		chart.Months = append(chart.Months, ChartMonth{
			Key:    key,
			Label:  service.translator.ShortMonthName(language, time.Month(index+1)),
			Counts: counts,
		})
	}

	for _, attack := range attacks {
		bucket := &chart.Months[attack.OccurredAt.In(location).Month()-1]
		if _, known := bucket.Counts[attack.Cause]; !known {
			continue
		}
		bucket.Counts[attack.Cause]++
		bucket.Total++
	}
	return chart, nil
}

// BuildSymptomFrequencies counts how often each check-up statement was ticked,
// most frequent first and catalog order on ties.
func (service *StatsService) BuildSymptomFrequencies(userID uint, language string) ([]SymptomFrequency, error) {
	attacks, err := service.attacks.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("load attacks: %w", err)
	}
	if len(attacks) == 0 {
		return []SymptomFrequency{}, nil
	}

	counts := make(map[string]int, len(SurveyQuestionKeys))
	for _, attack := range attacks {
		for _, answer := range attack.Answers {
			counts[answer]++
		}
	}

	result := make([]SymptomFrequency, 0, len(counts))
	for _, key := range SurveyQuestionKeys {
		if counts[key] == 0 {
			continue
		}
		result = append(result, SymptomFrequency{
			Key:          key,
			Text:         service.translator.Translate(language, QuestionMessageKey(key)),
			Count:        counts[key],
			TotalAttacks: len(attacks),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return slices.Index(SurveyQuestionKeys, result[i].Key) < slices.Index(SurveyQuestionKeys, result[j].Key)
	})
	return result, nil
}
