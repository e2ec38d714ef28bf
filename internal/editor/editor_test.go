package editor

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestFromEnv_Editor(t *testing.T) {
	t.Setenv("EDITOR", "nvim")
	t.Setenv("VISUAL", "code")

	got, ok := FromEnv()
	if !ok || got != "nvim" {
		t.Errorf("FromEnv() = %q, %v, want %q, true", got, ok, "nvim")
	}
}

func TestFromEnv_Visual(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "code")

	got, ok := FromEnv()
	if !ok || got != "code" {
		t.Errorf("FromEnv() = %q, %v, want %q, true (empty EDITOR should fall through)", got, ok, "code")
	}
}

func TestFromEnv_Unset(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	if got, ok := FromEnv(); ok {
		t.Errorf("FromEnv() = %q, true, want false", got)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name     string
		editor   string
		wantPath string
		wantArgs []string
	}{
		{"bare", "vim", "vim", []string{"vim", "/j.txt"}},
		{"with flags", "code --wait -n", "code", []string{"code", "--wait", "-n", "/j.txt"}},
		{"extra spaces", "  nano   -w ", "nano", []string{"nano", "-w", "/j.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Command(tt.editor, "/j.txt")
			if err != nil {
				t.Fatalf("Command() error: %v", err)
			}
			if !strings.HasSuffix(cmd.Path, tt.wantPath) {
				t.Errorf("Path = %q, want suffix %q", cmd.Path, tt.wantPath)
			}
			if strings.Join(cmd.Args, " ") != strings.Join(tt.wantArgs, " ") {
				t.Errorf("Args = %q, want %q", cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestCommand_Empty(t *testing.T) {
	for _, editor := range []string{"", "   "} {
		if _, err := Command(editor, "/j.txt"); !errors.Is(err, ErrNoEditor) {
			t.Errorf("Command(%q) error = %v, want ErrNoEditor", editor, err)
		}
	}
}

func TestOpen_Integration(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping integration test on windows (uses shell script mock)")
	}

	tmpDir := t.TempDir()
	mockEditor := filepath.Join(tmpDir, "mock-editor.sh")
	outputFile := filepath.Join(tmpDir, "output.txt")

	// Mock editor writes its arguments to a file.
	script := "#!/bin/sh\necho \"$@\" > " + outputFile + "\n"
	if err := os.WriteFile(mockEditor, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	targetFile := filepath.Join(tmpDir, "journal.txt")
	var out bytes.Buffer
	if err := Open(mockEditor+" --flag", targetFile, Streams{Out: &out, Err: &out}); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	got, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatal(err)
	}
	if want := "--flag " + targetFile; strings.TrimSpace(string(got)) != want {
		t.Errorf("mock editor output = %q, want %q", strings.TrimSpace(string(got)), want)
	}
}

func TestOpen_MissingBinary(t *testing.T) {
	err := Open("non-existent-binary-12345", "test.txt", Streams{})
	if err == nil {
		t.Error("expected error for non-existent editor, got nil")
	}
}
