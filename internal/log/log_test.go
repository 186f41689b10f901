package log

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		enabled bool
	}{
		{"trace", LevelTrace, true},
		{"DEBUG", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"none", slog.LevelError, false},
		{"", slog.LevelError, false},
	}

	for _, tt := range tests {
		got, enabled := ParseLevel(tt.input)
		if got != tt.want || enabled != tt.enabled {
			t.Errorf("ParseLevel(%q) = %v, %t; want %v, %t", tt.input, got, enabled, tt.want, tt.enabled)
		}
	}
}

func TestSetupWritesJSONToFile(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	path := filepath.Join(t.TempDir(), "nested", "lv8.log")
	closeFn, err := Setup("info", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slog.Debug("hidden")
	slog.Info("shown", slog.String("k", "v"))
	closeFn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestFileWriterReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lv8.log")

	fw, err := openFileWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Close()

	if _, err := fw.Write([]byte("before\n")); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(path, filepath.Join(dir, "lv8.bak")); err != nil {
		t.Fatal(err)
	}
	if err := fw.Reopen(); err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("after\n")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "after\n" {
		t.Errorf("reopened file holds %q", data)
	}
}
