package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/questify-app/questify/internal/api"
	"github.com/questify-app/questify/internal/app/gamify"
	"github.com/questify-app/questify/internal/domain"
	"github.com/questify-app/questify/internal/infra/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *gamify.Engine) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	engine, err := gamify.New(db, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	srv := httptest.NewServer(api.NewServer(engine, "test").Handler())
	t.Cleanup(srv.Close)
	return srv, engine
}

func getJSON(t *testing.T, url string, out interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	var out map[string]string
	getJSON(t, srv.URL+"/health", &out)
	if out["status"] != "ok" {
		t.Errorf("status = %q, want ok", out["status"])
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, engine := newTestServer(t)

	if _, _, err := engine.AddXP(750, domain.XPManualAdjust); err != nil {
		t.Fatalf("seed xp: %v", err)
	}

	var out struct {
		TotalXP       int `json:"total_xp"`
		Level         int `json:"level"`
		NextLevelXP   int `json:"next_level_xp"`
		XPWithinLevel int `json:"xp_within_level"`
	}
	getJSON(t, srv.URL+"/api/stats", &out)
	if out.TotalXP != 750 || out.Level != 2 {
		t.Errorf("stats = %+v, want 750 XP at level 2", out)
	}
	if out.NextLevelXP != 1000 || out.XPWithinLevel != 250 {
		t.Errorf("derived fields wrong: %+v", out)
	}
}

func TestEventEndpoints_DriveTheEngine(t *testing.T) {
	srv, engine := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/events/task-completed", map[string]string{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("task event status %d", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/events/study-session", map[string]int{"minutes": 50})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("study event status %d", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/events/class-attended", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("class event status %d", resp.StatusCode)
	}

	s := engine.Stats()
	if s.TasksCompleted != 1 || s.ClassesAttended != 1 {
		t.Errorf("counters: %d tasks, %d classes", s.TasksCompleted, s.ClassesAttended)
	}
	// 35 (on-time task, no due date) + 30 (two study blocks) + 15 (class)
	if s.TotalXP != 80 {
		t.Errorf("TotalXP = %d, want 80", s.TotalXP)
	}
}

func TestStudySessionEndpoint_RejectsBadMinutes(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/events/study-session", map[string]int{"minutes": 0})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestQuestEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	var generated struct {
		Quests []struct {
			ID       string `json:"id"`
			XPReward int    `json:"xp_reward"`
		} `json:"quests"`
	}
	resp := postJSON(t, srv.URL+"/api/quests/generate", nil)
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		t.Fatalf("decode generate: %v", err)
	}
	resp.Body.Close()
	if len(generated.Quests) != 3 {
		t.Fatalf("generated %d quests, want 3", len(generated.Quests))
	}

	// Generation is idempotent through the API too.
	resp = postJSON(t, srv.URL+"/api/quests/generate", nil)
	var again struct {
		Quests []struct {
			ID string `json:"id"`
		} `json:"quests"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&again)
	resp.Body.Close()
	if len(again.Quests) != 3 || again.Quests[0].ID != generated.Quests[0].ID {
		t.Errorf("regenerate changed the set: %+v", again.Quests)
	}

	var today struct {
		Quests []json.RawMessage `json:"quests"`
	}
	getJSON(t, srv.URL+"/api/quests", &today)
	if len(today.Quests) != 3 {
		t.Errorf("today list has %d quests, want 3", len(today.Quests))
	}

	resp = postJSON(t, srv.URL+fmt.Sprintf("/api/quests/%s/complete", generated.Quests[0].ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("complete status %d", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/api/quests/2099-01-01-7/complete", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown quest status = %d, want 404", resp.StatusCode)
	}
}

func TestFreezeEndpoints(t *testing.T) {
	srv, engine := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/streak/freeze", map[string]string{
		"track":  "attendance",
		"reason": "holiday",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("freeze status %d", resp.StatusCode)
	}
	if !engine.IsAttendanceStreakFrozen() {
		t.Error("attendance freeze should be active")
	}
	if engine.IsStreakFrozen() {
		t.Error("activity track must be untouched")
	}

	resp = postJSON(t, srv.URL+"/api/streak/unfreeze", map[string]string{"track": "attendance"})
	resp.Body.Close()
	if engine.IsAttendanceStreakFrozen() {
		t.Error("attendance freeze should be cleared")
	}

	resp = postJSON(t, srv.URL+"/api/streak/freeze", map[string]string{"track": "bogus"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus track status = %d, want 400", resp.StatusCode)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	srv, engine := newTestServer(t)

	// Seed one level-up notification.
	if _, _, err := engine.AddXP(500, domain.XPManualAdjust); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var out struct {
		Notifications []struct {
			ID   int64  `json:"id"`
			Type string `json:"type"`
		} `json:"notifications"`
	}
	getJSON(t, srv.URL+"/api/notifications", &out)
	if len(out.Notifications) != 1 || out.Notifications[0].Type != "level_up" {
		t.Fatalf("pending = %+v, want one level_up", out.Notifications)
	}

	resp := postJSON(t, srv.URL+fmt.Sprintf("/api/notifications/%d/shown", out.Notifications[0].ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shown status %d", resp.StatusCode)
	}

	getJSON(t, srv.URL+"/api/notifications", &out)
	if len(out.Notifications) != 0 {
		t.Errorf("expected empty pending list, got %d", len(out.Notifications))
	}
}

func TestSummaryAndReset(t *testing.T) {
	srv, engine := newTestServer(t)

	_ = engine.CompleteTask("")
	var summary struct {
		Stats struct {
			TotalXP int `json:"total_xp"`
		} `json:"stats"`
		BadgesUnlocked int `json:"badges_unlocked"`
		BadgesTotal    int `json:"badges_total"`
	}
	getJSON(t, srv.URL+"/api/summary", &summary)
	if summary.Stats.TotalXP != 35 {
		t.Errorf("summary XP = %d, want 35", summary.Stats.TotalXP)
	}
	if summary.BadgesUnlocked != 1 || summary.BadgesTotal != 29 {
		t.Errorf("badge counts = %d/%d, want 1/29", summary.BadgesUnlocked, summary.BadgesTotal)
	}

	resp := postJSON(t, srv.URL+"/api/reset", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset status %d", resp.StatusCode)
	}
	if got := engine.Stats().TotalXP; got != 0 {
		t.Errorf("XP after reset = %d, want 0", got)
	}
}
