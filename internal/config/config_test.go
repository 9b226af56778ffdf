package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsFromEnv(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "dev" {
		t.Errorf("Env = %q, want dev", cfg.Env)
	}
	if cfg.Addr != "localhost:1337" {
		t.Errorf("Addr = %q, want localhost:1337", cfg.Addr)
	}
	if cfg.ReadTimeout != 0 {
		t.Errorf("ReadTimeout = %s, want 0", cfg.ReadTimeout)
	}
	if cfg.MaxFrameSize != 65536 {
		t.Errorf("MaxFrameSize = %d, want 65536", cfg.MaxFrameSize)
	}
	if cfg.RegistrationsBackend != BackendFile {
		t.Errorf("RegistrationsBackend = %q, want file", cfg.RegistrationsBackend)
	}
	if cfg.CoursesPath != "data/cours.txt" || cfg.RegistrationsPath != "data/inscription.txt" {
		t.Errorf("unexpected store paths %q, %q", cfg.CoursesPath, cfg.RegistrationsPath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TCP_SERVER_ADDR", "127.0.0.1:0")
	t.Setenv("TCP_READ_TIMEOUT", "30s")
	t.Setenv("REGISTRATIONS_BACKEND", "sqlite")
	t.Setenv("SEMESTERS", "A:Fall,W:Winter")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:0" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %s, want 30s", cfg.ReadTimeout)
	}
	if cfg.RegistrationsBackend != BackendSQLite {
		t.Errorf("RegistrationsBackend = %q, want sqlite", cfg.RegistrationsBackend)
	}
	if cfg.Semesters["A"] != "Fall" || cfg.Semesters["W"] != "Winter" {
		t.Errorf("Semesters = %v", cfg.Semesters)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	content := `env: "prod"
tcp_server:
  address: "0.0.0.0:1337"
storage:
  courses_path: "/srv/cours.txt"
  registrations_path: "/srv/inscription.txt"
semesters:
  "1": "Automne"
  "2": "Hiver"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "prod" {
		t.Errorf("Env = %q, want prod", cfg.Env)
	}
	if cfg.Addr != "0.0.0.0:1337" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.CoursesPath != "/srv/cours.txt" {
		t.Errorf("CoursesPath = %q", cfg.CoursesPath)
	}
	// Unset keys fall back to their defaults.
	if cfg.MaxFrameSize != 65536 {
		t.Errorf("MaxFrameSize = %d, want default 65536", cfg.MaxFrameSize)
	}
	if len(cfg.Semesters) != 2 {
		t.Errorf("Semesters = %v, want 2 entries", cfg.Semesters)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("REGISTRATIONS_BACKEND", "postgres")

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "postgres") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestSemesterChoicesOrdered(t *testing.T) {
	cfg := &Config{Semesters: map[string]string{"3": "Ete", "1": "Automne", "2": "Hiver"}}

	choices := cfg.SemesterChoices()
	want := []string{"Automne", "Hiver", "Ete"}
	if len(choices) != len(want) {
		t.Fatalf("got %d choices, want %d", len(choices), len(want))
	}
	for i, label := range want {
		if choices[i].Label != label {
			t.Errorf("choice %d = %+v, want label %q", i, choices[i], label)
		}
	}
}

func TestSemesterChoicesNumericKeys(t *testing.T) {
	cfg := &Config{Semesters: map[string]string{"10": "Dixieme", "2": "Hiver", "1": "Automne"}}

	choices := cfg.SemesterChoices()
	want := []string{"1", "2", "10"}
	for i, key := range want {
		if choices[i].Key != key {
			t.Errorf("choice %d = %+v, want key %q", i, choices[i], key)
		}
	}
}

func TestSemesterChoicesMixedKeysCompareAsStrings(t *testing.T) {
	cfg := &Config{Semesters: map[string]string{"10": "Dixieme", "2": "Hiver", "A": "Automne"}}

	choices := cfg.SemesterChoices()
	want := []string{"10", "2", "A"}
	for i, key := range want {
		if choices[i].Key != key {
			t.Errorf("choice %d = %+v, want key %q", i, choices[i], key)
		}
	}
}
