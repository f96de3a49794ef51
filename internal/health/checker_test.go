package health

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/questify-app/questify/internal/infra/sqlite"
)

func newTestDB(t *testing.T) (*sqlite.DB, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, dir
}

func TestNewChecker(t *testing.T) {
	db, dir := newTestDB(t)
	c := NewChecker(db, dir)

	if len(c.checks) != 3 {
		t.Errorf("checks count = %d, want 3", len(c.checks))
	}
}

func TestChecker_RunAllHealthy(t *testing.T) {
	db, dir := newTestDB(t)
	c := NewChecker(db, dir)

	c.runAll(context.Background())

	statuses := c.Statuses()
	if len(statuses) != 3 {
		t.Fatalf("statuses count = %d, want 3", len(statuses))
	}
	for _, s := range statuses {
		if !s.Healthy {
			t.Errorf("check %q unhealthy: %s", s.Name, s.Error)
		}
		if s.CheckedAt.IsZero() {
			t.Errorf("check %q has zero CheckedAt", s.Name)
		}
	}
	if !c.IsHealthy() {
		t.Error("IsHealthy() = false, want true")
	}
}

func TestChecker_MissingDataDir(t *testing.T) {
	db, dir := newTestDB(t)
	c := NewChecker(db, filepath.Join(dir, "does-not-exist"))

	c.runAll(context.Background())

	if c.IsHealthy() {
		t.Error("IsHealthy() = true, want false for missing data dir")
	}

	var found bool
	for _, s := range c.Statuses() {
		if s.Name == "data_dir" {
			found = true
			if s.Healthy {
				t.Error("data_dir check healthy, want unhealthy")
			}
			if s.Error == "" {
				t.Error("data_dir check has empty error")
			}
		}
	}
	if !found {
		t.Error("data_dir check not reported")
	}
}

func TestChecker_EmptyStatusesIsHealthy(t *testing.T) {
	db, dir := newTestDB(t)
	c := NewChecker(db, dir)

	// No checks run yet.
	if !c.IsHealthy() {
		t.Error("IsHealthy() = false before first run, want true")
	}
	if got := c.Statuses(); len(got) != 0 {
		t.Errorf("Statuses() len = %d, want 0", len(got))
	}
}
