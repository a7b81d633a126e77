package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, configDir string) string {
	t.Helper()
	data, err := os.ReadFile(Path(configDir))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(data)
}

func TestPath(t *testing.T) {
	got := Path("/home/u/.config/standup")
	want := filepath.Join("/home/u/.config/standup", "logs", "standup.log")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { std = nil })

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	Info("habit recorded", "habit", "h-1")
	Debug("hidden below info")

	out := readLog(t, configDir)
	if !strings.Contains(out, "habit recorded") || !strings.Contains(out, "habit=h-1") {
		t.Errorf("log file missing info line: %q", out)
	}
	if strings.Contains(out, "hidden below info") {
		t.Errorf("debug line written without debug mode: %q", out)
	}
}

func TestInitDebugMode(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { std = nil })

	if err := Init(Config{Debug: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	Debug("store busy", "op", "record")

	if out := readLog(t, configDir); !strings.Contains(out, "store busy") {
		t.Errorf("debug line missing in debug mode: %q", out)
	}
}

func TestWith(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { std = nil })

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	With("restore", "standup-1.db").Warn("stale journal")

	out := readLog(t, configDir)
	if !strings.Contains(out, "stale journal") || !strings.Contains(out, "restore=standup-1.db") {
		t.Errorf("sub-logger line missing fields: %q", out)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	std = nil

	// nothing is configured, so these must be no-ops
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	With("k", "v").Error("discarded")
}
