package filesystem

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestChecker(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "talk.wav")
	writeFile(t, file, "RIFF1234")
	c := NewChecker()

	if !c.Exists(file) {
		t.Error("Exists() = false for existing file")
	}
	if c.Exists(filepath.Join(dir, "missing.wav")) {
		t.Error("Exists() = true for missing file")
	}

	size, err := c.Size(file)
	if err != nil || size != 8 {
		t.Errorf("Size() = %d, %v; want 8, nil", size, err)
	}
	if _, err := c.Size(dir); err == nil {
		t.Error("Size() of a directory should fail")
	}
	if _, err := c.Size(filepath.Join(dir, "missing.wav")); err == nil {
		t.Error("Size() of a missing file should fail")
	}
}

func TestChecker_EnsureDir(t *testing.T) {
	dir := t.TempDir()
	c := NewChecker()

	nested := filepath.Join(dir, "a", "b", "c")
	if err := c.EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir() unexpected error: %v", err)
	}
	if info, err := os.Stat(nested); err != nil || !info.IsDir() {
		t.Errorf("EnsureDir() did not create %s", nested)
	}
	if err := c.EnsureDir(nested); err != nil {
		t.Errorf("EnsureDir() on existing dir: %v", err)
	}

	blocker := filepath.Join(dir, "file")
	writeFile(t, blocker, "x")
	if err := c.EnsureDir(filepath.Join(blocker, "sub")); err == nil {
		t.Error("EnsureDir() under a regular file should fail")
	}
}

func TestChecker_Remove(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "talk.wav")
	writeFile(t, file, "RIFF")
	c := NewChecker()

	if err := c.Remove(file); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if c.Exists(file) {
		t.Error("Remove() left the file in place")
	}
	if err := c.Remove(file); err != nil {
		t.Errorf("Remove() on missing file: %v", err)
	}

	sub := filepath.Join(dir, "sub")
	writeFile(t, filepath.Join(sub, "keep.wav"), "RIFF")
	if err := c.Remove(sub); err == nil {
		t.Error("Remove() on non-empty directory expected error")
	}
}

func TestScanner_ListCandidates(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b.mp4",
		"a.MOV",
		"notes.txt",
		"cover.jpg",
		"sub/c.mkv",
		"sub/deeper/d.avi",
		"sub/readme.md",
	} {
		writeFile(t, filepath.Join(dir, name), "x")
	}

	got, err := NewScanner().ListCandidates(dir)
	if err != nil {
		t.Fatalf("ListCandidates() unexpected error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.MOV"),
		filepath.Join(dir, "b.mp4"),
		filepath.Join(dir, "sub", "c.mkv"),
		filepath.Join(dir, "sub", "deeper", "d.avi"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListCandidates() = %v, want %v", got, want)
	}
}

func TestScanner_EmptyAndMissing(t *testing.T) {
	got, err := NewScanner().ListCandidates(t.TempDir())
	if err != nil || len(got) != 0 {
		t.Errorf("ListCandidates(empty) = %v, %v; want none", got, err)
	}

	if _, err := NewScanner().ListCandidates(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("ListCandidates(missing) should fail")
	}
}
