package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverLocal(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "B.CSV", "notes.txt", "sub/c.csv"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("name\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := DiscoverLocal(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %v, want 3 CSVs", files)
	}
	for _, f := range files {
		if filepath.Ext(f) == ".txt" {
			t.Errorf("non-CSV discovered: %s", f)
		}
	}
}

func TestDiscoverLocalMissingDir(t *testing.T) {
	files, err := DiscoverLocal(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}
	if files != nil {
		t.Errorf("files = %v, want nil", files)
	}
}

func TestDiscoverLocalUnreadableSubdir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	sub := filepath.Join(dir, "locked")
	if err := os.Mkdir(sub, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(sub, 0o755) })

	if _, err := DiscoverLocal(dir); err == nil {
		t.Fatal("unreadable subdirectory should surface an error")
	}
}
