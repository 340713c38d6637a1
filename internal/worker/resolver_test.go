package worker

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeProject создаёт каталог проекта с bin/commands.procfile.
func writeProject(t *testing.T, manifest string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "bin", "commands.procfile")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestResolver_Success(t *testing.T) {
	dir := writeProject(t, "deploy: echo hi\ntest: exit 3\n")
	r := NewResolver(map[string]string{"demo": dir}, testLogger())

	resolution, err := r.Resolve("demo", "deploy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resolution.Invocation != "echo hi" {
		t.Errorf("expected invocation `echo hi`, got %q", resolution.Invocation)
	}
	if resolution.Dir != dir {
		t.Errorf("expected dir %s, got %s", dir, resolution.Dir)
	}
}

func TestResolver_UnknownProject(t *testing.T) {
	r := NewResolver(map[string]string{}, testLogger())

	_, err := r.Resolve("ghost", "deploy")
	if !errors.Is(err, ErrUnknownProject) {
		t.Fatalf("expected ErrUnknownProject, got %v", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error should name the project: %v", err)
	}
}

func TestResolver_ManifestMissing(t *testing.T) {
	// Каталог проекта существует, procfile — нет
	r := NewResolver(map[string]string{"demo": t.TempDir()}, testLogger())

	_, err := r.Resolve("demo", "deploy")
	if !errors.Is(err, ErrManifestUnreadable) {
		t.Fatalf("expected ErrManifestUnreadable, got %v", err)
	}
}

func TestResolver_UnknownCommand(t *testing.T) {
	dir := writeProject(t, "deploy: echo hi\n")
	r := NewResolver(map[string]string{"demo": dir}, testLogger())

	_, err := r.Resolve("demo", "launch")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	if !strings.Contains(err.Error(), "launch") {
		t.Errorf("error should name the command: %v", err)
	}
}

func TestResolver_RereadsManifestEveryCall(t *testing.T) {
	dir := writeProject(t, "deploy: echo one\n")
	r := NewResolver(map[string]string{"demo": dir}, testLogger())

	if _, err := r.Resolve("demo", "deploy"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Правка procfile действует со следующего приказа, без рестарта
	manifestPath := filepath.Join(dir, "bin", "commands.procfile")
	if err := os.WriteFile(manifestPath, []byte("deploy: echo two\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolution, err := r.Resolve("demo", "deploy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolution.Invocation != "echo two" {
		t.Errorf("expected fresh invocation `echo two`, got %q", resolution.Invocation)
	}
}

func TestResolver_MalformedLinesDoNotFailResolve(t *testing.T) {
	dir := writeProject(t, "garbage line\ndeploy: echo hi\n")
	r := NewResolver(map[string]string{"demo": dir}, testLogger())

	resolution, err := r.Resolve("demo", "deploy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolution.Invocation != "echo hi" {
		t.Errorf("expected invocation `echo hi`, got %q", resolution.Invocation)
	}
}
