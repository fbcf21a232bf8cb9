package services

import (
	"errors"
	"slices"
	"strings"

	"github.com/terraincognita07/anxiolytic/internal/models"
)

var (
	ErrSurveyAnswersMissing = errors.New("survey answers missing")
	ErrSurveyAnswerUnknown  = errors.New("survey answer unknown")
	ErrAttackCauseInvalid   = errors.New("attack cause invalid")
)

// SurveyQuestionKeys lists the check-up statements in display order.
var SurveyQuestionKeys = []string{
	"racing_heart",
	"afraid",
	"trouble_breathing",
	"lose_focus",
	"trembling_voice",
	"sweating",
	"stomach_or_head_pain",
	"urge_to_run",
	"racing_mind",
	"jumpy",
	"dread",
	"throat_lump",
	"chest_tightness",
	"out_of_control",
}

var AttackCauses = []string{
	models.CausePersonal,
	models.CauseFinancial,
	models.CauseExternal,
}

type Translator interface {
	Translate(language string, key string) string
}

type SurveyQuestion struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

type SurveyCause struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type Survey struct {
	Title     string           `json:"title"`
	Questions []SurveyQuestion `json:"questions"`
	Causes    []SurveyCause    `json:"causes"`
}

func QuestionMessageKey(key string) string {
	return "question." + key
}

func CauseMessageKey(cause string) string {
	return "cause." + cause
}

func BuildSurvey(translator Translator, language string) Survey {
	survey := Survey{
		Title:     translator.Translate(language, "survey.title"),
		Questions: make([]SurveyQuestion, 0, len(SurveyQuestionKeys)),
		Causes:    make([]SurveyCause, 0, len(AttackCauses)),
	}
	for _, key := range SurveyQuestionKeys {
		survey.Questions = append(survey.Questions, SurveyQuestion{Key: key, Text: translator.Translate(language, QuestionMessageKey(key))})
	}
	for _, cause := range AttackCauses {
		survey.Causes = append(survey.Causes, SurveyCause{Key: cause, Label: translator.Translate(language, CauseMessageKey(cause))})
	}
	return survey
}

// NormalizeSurveyAnswers deduplicates answers and returns them in catalog order.
func NormalizeSurveyAnswers(raw []string) ([]string, error) {
	selected := make(map[string]struct{}, len(raw))
	for _, answer := range raw {
		key := strings.ToLower(strings.TrimSpace(answer))
		if key == "" {
			continue
		}
		if !slices.Contains(SurveyQuestionKeys, key) {
			return nil, ErrSurveyAnswerUnknown
		}
		selected[key] = struct{}{}
	}
	if len(selected) == 0 {
		return nil, ErrSurveyAnswersMissing
	}

	answers := make([]string, 0, len(selected))
	for _, key := range SurveyQuestionKeys {
		if _, ok := selected[key]; ok {
			answers = append(answers, key)
		}
	}
	return answers, nil
}

func NormalizeAttackCause(raw string) (string, error) {
	cause := strings.ToLower(strings.TrimSpace(raw))
	if !slices.Contains(AttackCauses, cause) {
		return "", ErrAttackCauseInvalid
	}
	return cause, nil
}
