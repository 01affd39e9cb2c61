package sqlite

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/sfh/internal/constants"
	"github.com/julianstephens/sfh/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "nested", "sfh.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitWritesDefaults(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("GetSettings() = %+v, want defaults %+v", settings, models.DefaultSettings())
	}
}

func TestSaveAndGetSettings(t *testing.T) {
	store := setupTestStore(t)

	want := models.Settings{
		BaseURL:           "https://portal.example",
		LoginID:           "007",
		MaxInFlight:       3,
		RequestTimeoutSec: 20,
		DefaultReason:     constants.ReasonExplanatory,
	}
	if err := store.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if got != want {
		t.Errorf("GetSettings() = %+v, want %+v", got, want)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	store := setupTestStore(t)

	custom := models.DefaultSettings()
	custom.LoginID = "007"
	if err := store.SaveSettings(custom); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	again := NewStore(store.GetConfigPath())
	if err := again.Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	defer again.Close()

	got, err := again.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if got.LoginID != "007" {
		t.Errorf("Init() overwrote existing settings: %+v", got)
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "init") {
		t.Errorf("Load() error = %v, want a hint to run init", err)
	}
}

func TestLoadExisting(t *testing.T) {
	store := setupTestStore(t)
	path := store.GetConfigPath()
	store.Close()

	loaded := NewStore(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer loaded.Close()

	if err := loaded.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	runner, err := loaded.Runner()
	if err != nil {
		t.Fatalf("Runner() error = %v", err)
	}
	pending, err := runner.Pending()
	if err != nil || len(pending) != 0 {
		t.Errorf("Pending() = %v, %v; want none after Init", pending, err)
	}
}
