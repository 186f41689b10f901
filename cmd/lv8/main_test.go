package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "lib.lv8", "greeting = \"hello\"")

	tests := []struct {
		name     string
		src      string
		wantCode int
		wantOut  string
		wantErr  string
	}{
		{"prints", "import \"lib.lv8\" as lib\nprintl(lib.greeting, 1 + 1)", 0, "hello 2\n", ""},
		{"runtime error exits cleanly", "printl(1)\nx = nope\nprintl(2)", 0, "1\n", "ReferenceError: nope is not defined"},
		{"syntax error fails", "x = (", 1, "", "SyntaxError:"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScript(t, dir, "main"+string(rune('a'+i))+".lv8", tt.src)
			code, out, errOut := runCLI(t, "", path)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, tt.wantCode, errOut)
			}
			if out != tt.wantOut {
				t.Errorf("stdout = %q, want %q", out, tt.wantOut)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", errOut, tt.wantErr)
			}
		})
	}
}

func TestMissingConfigIsAnErrorOnlyWhenExplicit(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "ok.lv8", "printl(1)")

	code, _, errOut := runCLI(t, "", "-config", filepath.Join(dir, "none.toml"), script)
	if code != 1 || !strings.Contains(errOut, "none.toml") {
		t.Errorf("explicit missing config: code %d, stderr %q", code, errOut)
	}
}

func TestUnreadableFile(t *testing.T) {
	code, _, errOut := runCLI(t, "", filepath.Join(t.TempDir(), "missing.lv8"))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "RuntimeError: cannot read") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestConfigFileAndFlagOverride(t *testing.T) {
	dir := t.TempDir()
	cfg := writeScript(t, dir, "lv8.toml", "shared_function_frames = true\nprompt = \"lv8[%d]: \"\n")
	script := writeScript(t, dir, "fact.lv8",
		"fn fact(n) { r = 1\n if n > 1 { sub = fact(n - 1)\n r = n * sub }\n return r }\nx = fact(4)\nprintl(x)")

	_, out, _ := runCLI(t, "", "-config", cfg, script)
	if out != "1\n" {
		t.Errorf("config file should enable shared frames, got %q", out)
	}

	_, out, _ = runCLI(t, "", "-config", cfg, "-shared-frames=false", script)
	if out != "24\n" {
		t.Errorf("flag should override config file, got %q", out)
	}

	_, out, _ = runCLI(t, "exit\n", "-config", cfg)
	if out != "Welcome to LV8!\nlv8[0]: " {
		t.Errorf("prompt from config file not used, got %q", out)
	}
}

func TestVersionAndHelp(t *testing.T) {
	code, out, _ := runCLI(t, "", "-version")
	if code != 0 || !strings.HasPrefix(out, "lv8 version 'vdev'") {
		t.Errorf("version: code %d, out %q", code, out)
	}

	code, out, _ = runCLI(t, "", "-h")
	if code != 0 || !strings.Contains(out, "Usage: lv8") {
		t.Errorf("help: code %d, out %q", code, out)
	}
}

func TestReplMode(t *testing.T) {
	code, out, _ := runCLI(t, "a = 2\nreturn a * 3\n")
	if code != 0 {
		t.Errorf("exit code = %d", code)
	}
	if out != "Welcome to LV8!\nLV8(0)> 2\nLV8(1)> 6\nLV8(2)> \n" {
		t.Errorf("unexpected session output %q", out)
	}
}
