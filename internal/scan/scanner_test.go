package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanRoot(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	mustWrite("b.txt")
	mustWrite("family/a.TXT")
	mustWrite("notes.md")
	mustWrite(".hidden.txt")
	mustWrite(".trash/old.txt")

	files, err := ScanRoot(dir)
	if err != nil {
		t.Fatalf("ScanRoot() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("ScanRoot() returned %d files, want 2: %+v", len(files), files)
	}
	if files[0].Rel != "b.txt" || files[1].Rel != filepath.Join("family", "a.TXT") {
		t.Errorf("ScanRoot() order = %s, %s", files[0].Rel, files[1].Rel)
	}
	if files[0].Size != 1 {
		t.Errorf("Size = %d, want 1", files[0].Size)
	}
}

func TestScanRoot_Missing(t *testing.T) {
	files, err := ScanRoot(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("ScanRoot() error = %v", err)
	}
	if len(files) != 0 {
		t.Errorf("ScanRoot() = %v, want none", files)
	}
}
