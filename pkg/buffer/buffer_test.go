package buffer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAppliesIndentationContract(t *testing.T) {
	r := NewRegistry()
	b := r.Open("out", "go", "", nil)
	b.Write("  line one\n  line two", 1)

	want := "    line one\n    line two\n"
	if b.Text != want {
		t.Fatalf("got %q, want %q", b.Text, want)
	}
}

func TestOpenExplicitZeroIndentIsNotDefaulted(t *testing.T) {
	r := NewRegistry()
	zero := 0
	b := r.Open("out", "go", "", &zero)
	b.Write("line one\nline two", 1)

	want := "line one\nline two\n"
	if b.Text != want {
		t.Fatalf("got %q, want %q", b.Text, want)
	}
}

func TestDiscardRemovesBuffer(t *testing.T) {
	r := NewRegistry()
	r.Open("out", "", "", nil)
	r.Discard("out")
	if _, ok := r.Get("out"); ok {
		t.Fatal("expected buffer to be discarded")
	}
}

func TestSaveWritesFileAndRemovesBuffer(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry()
	b := r.Open("out", "", "", nil)
	b.Write("hello", 0)

	if err := r.Save("out", "sub/file.txt", dir, 0); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "sub", "file.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("got %q", string(data))
	}
	if _, ok := r.Get("out"); ok {
		t.Fatal("expected buffer to be removed after save")
	}
}

func TestWriteFileShortcutCreatesIntermediateDirs(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFile("a/b/c.txt", "x", dir); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a", "b", "c.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "x" {
		t.Fatalf("got %q", string(data))
	}
}
