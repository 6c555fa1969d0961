package runtimectx

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectProjectDirFindsMarker(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a", ".ctenv.toml"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	got := detectProjectDir(sub, "/nonexistent-home", ".ctenv.toml")
	want := filepath.Join(root, "a")
	if got != want {
		t.Errorf("detectProjectDir() = %q, want %q", got, want)
	}
}

func TestDetectProjectDirFallsBackToCwd(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	got := detectProjectDir(sub, "/nonexistent-home", ".ctenv.toml")
	if got != sub {
		t.Errorf("detectProjectDir() = %q, want %q", got, sub)
	}
}

func TestDetectProjectDirStopsAtHome(t *testing.T) {
	root := t.TempDir()
	home := filepath.Join(root, "home", "alice")
	sub := filepath.Join(home, "proj")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// marker above home must never be found
	if err := os.WriteFile(filepath.Join(root, ".ctenv.toml"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	got := detectProjectDir(sub, home, ".ctenv.toml")
	if got != sub {
		t.Errorf("detectProjectDir() = %q, want fallback %q (should not cross into/above home)", got, sub)
	}
}

func TestCapture(t *testing.T) {
	ctx, err := Capture("", ".ctenv.toml")
	if err != nil {
		t.Fatal(err)
	}
	if ctx.UserName == "" {
		t.Error("expected non-empty UserName")
	}
	if ctx.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", ctx.PID, os.Getpid())
	}
}
