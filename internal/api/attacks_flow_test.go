package api

import (
	"net/http"
	"testing"
	"time"
)

func newSignedInTestApp(t *testing.T, now time.Time) (*testApp, string) {
	t.Helper()

	ta := newTestApp(t)
	ta.handler.now = func() time.Time { return now }
	createTestUser(t, ta.database, "owner@example.com", "StrongPass1", false)
	return ta, ta.login(t, "owner@example.com", "StrongPass1")
}

func postAttack(t *testing.T, ta *testApp, authCookie string, body map[string]any) attackResponse {
	t.Helper()

	response := ta.doJSON(t, http.MethodPost, "/api/attacks", authCookie, body)
	expectStatus(t, response, http.StatusCreated)
	attack := attackResponse{}
	decodeJSON(t, response.Body, &attack)
	return attack
}

func TestSurveyListsQuestionsAndCauses(t *testing.T) {
	t.Parallel()

	ta, authCookie := newSignedInTestApp(t, time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC))
	response := ta.doJSON(t, http.MethodGet, "/api/survey", authCookie, nil)
	expectStatus(t, response, http.StatusOK)

	payload := struct {
		Questions []struct {
			Key  string `json:"key"`
			Text string `json:"text"`
		} `json:"questions"`
		Causes []struct {
			Key string `json:"key"`
		} `json:"causes"`
	}{}
	decodeJSON(t, response.Body, &payload)
	if len(payload.Questions) != 14 || len(payload.Causes) != 3 {
		t.Fatalf("expected 14 questions and 3 causes, got %d/%d", len(payload.Questions), len(payload.Causes))
	}
	if payload.Questions[0].Key != "racing_heart" || payload.Causes[0].Key != "personal" {
		t.Fatalf("unexpected catalog order %#v %#v", payload.Questions[0], payload.Causes[0])
	}
}

func TestAttackCreateGetListDelete(t *testing.T) {
	t.Parallel()

	ta, authCookie := newSignedInTestApp(t, time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC))

	created := postAttack(t, ta, authCookie, map[string]any{
		"occurred_at": "2026-05-09T21:15:00Z",
		"answers":     []string{"sweating", "racing_heart", "sweating"},
		"cause":       "Financial",
		"reason":      "  rent is due  ",
	})
	if created.ID == "" || created.Cause != "financial" || created.CauseLabel != "Financial" {
		t.Fatalf("unexpected created attack %#v", created)
	}
	if len(created.Answers) != 2 || created.Answers[0] != "racing_heart" {
		t.Fatalf("expected deduplicated answers in catalog order, got %v", created.Answers)
	}
	if created.Intensity != 5 || created.Reason != "rent is due" || created.Date != "2026-05-09" {
		t.Fatalf("unexpected defaults %#v", created)
	}

	fetched := ta.doJSON(t, http.MethodGet, "/api/attacks/"+created.ID, authCookie, nil)
	expectStatus(t, fetched, http.StatusOK)

	listed := ta.doJSON(t, http.MethodGet, "/api/attacks?from=2026-05-01&to=2026-05-09", authCookie, nil)
	expectStatus(t, listed, http.StatusOK)
	payload := struct {
		Attacks []attackResponse `json:"attacks"`
	}{}
	decodeJSON(t, listed.Body, &payload)
	if len(payload.Attacks) != 1 {
		t.Fatalf("expected inclusive to bound to include the attack, got %d", len(payload.Attacks))
	}

	deleted := ta.doJSON(t, http.MethodDelete, "/api/attacks/"+created.ID, authCookie, nil)
	expectStatus(t, deleted, http.StatusOK)

	missing := ta.doJSON(t, http.MethodGet, "/api/attacks/"+created.ID, authCookie, nil)
	expectStatus(t, missing, http.StatusNotFound)
}

func TestAttackValidation(t *testing.T) {
	t.Parallel()

	ta, authCookie := newSignedInTestApp(t, time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{name: "no answers", body: map[string]any{"cause": "personal"}, message: "answers required"},
		{name: "unknown answer", body: map[string]any{"answers": []string{"hiccups"}, "cause": "personal"}, message: "unknown answer"},
		{name: "empty cause", body: map[string]any{"answers": []string{"dread"}}, message: "invalid cause"},
		{name: "future", body: map[string]any{"answers": []string{"dread"}, "cause": "personal", "occurred_at": "2026-05-11"}, message: "occurred_at in future"},
		{name: "bad timestamp", body: map[string]any{"answers": []string{"dread"}, "cause": "personal", "occurred_at": "yesterday"}, message: "invalid occurred_at"},
		{name: "intensity", body: map[string]any{"answers": []string{"dread"}, "cause": "personal", "intensity": 11}, message: "invalid intensity"},
	}
	for _, testCase := range tests {
		response := ta.doJSON(t, http.MethodPost, "/api/attacks", authCookie, testCase.body)
		if response.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", testCase.name, response.StatusCode)
		}
		if got := readAPIError(t, response.Body); got != testCase.message {
			t.Fatalf("%s: expected %q, got %q", testCase.name, testCase.message, got)
		}
	}
}

func TestAttacksAreScopedToOwner(t *testing.T) {
	t.Parallel()

	ta, ownerCookie := newSignedInTestApp(t, time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC))
	created := postAttack(t, ta, ownerCookie, map[string]any{"answers": []string{"dread"}, "cause": "external"})

	createTestUser(t, ta.database, "other@example.com", "StrongPass1", false)
	otherCookie := ta.login(t, "other@example.com", "StrongPass1")

	fetched := ta.doJSON(t, http.MethodGet, "/api/attacks/"+created.ID, otherCookie, nil)
	expectStatus(t, fetched, http.StatusNotFound)
	deleted := ta.doJSON(t, http.MethodDelete, "/api/attacks/"+created.ID, otherCookie, nil)
	expectStatus(t, deleted, http.StatusNotFound)
	malformed := ta.doJSON(t, http.MethodGet, "/api/attacks/not-a-uuid", otherCookie, nil)
	expectStatus(t, malformed, http.StatusNotFound)
}
