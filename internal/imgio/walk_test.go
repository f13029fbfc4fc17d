package imgio

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDiscoverImages tests directory discovery for batch scans.
func TestDiscoverImages(t *testing.T) {
	t.Parallel()

	writeFile := func(t *testing.T, path string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	t.Run("finds matching extensions recursively", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.png"))
		writeFile(t, filepath.Join(dir, "b.BMP"))
		writeFile(t, filepath.Join(dir, "notes.txt"))
		writeFile(t, filepath.Join(dir, "nested", "c.png"))

		paths, err := DiscoverImages(dir, []string{".png", ".bmp"})
		if err != nil {
			t.Fatalf("DiscoverImages failed: %v", err)
		}

		if len(paths) != 3 {
			t.Fatalf("expected 3 images, got %d: %v", len(paths), paths)
		}
		for _, p := range paths {
			if filepath.Ext(p) == ".txt" {
				t.Errorf("unexpected non-image path %s", p)
			}
		}
	})

	t.Run("empty directory yields no paths", func(t *testing.T) {
		t.Parallel()

		paths, err := DiscoverImages(t.TempDir(), []string{".png"})
		if err != nil {
			t.Fatalf("DiscoverImages failed: %v", err)
		}
		if len(paths) != 0 {
			t.Errorf("expected no paths, got %v", paths)
		}
	})

	t.Run("rejects missing directory", func(t *testing.T) {
		t.Parallel()

		if _, err := DiscoverImages(filepath.Join(t.TempDir(), "nope"), []string{".png"}); err == nil {
			t.Error("expected error for missing directory")
		}
	})

	t.Run("rejects a file path", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := filepath.Join(dir, "single.png")
		writeFile(t, file)

		if _, err := DiscoverImages(file, []string{".png"}); err == nil {
			t.Error("expected error for file path")
		}
	})
}
