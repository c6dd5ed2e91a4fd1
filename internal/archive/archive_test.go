package archive

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndListRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, err := New(filepath.Join(dir, "collages"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	collage := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	entry, err := a.Save("booth_1.jpg", "double", collage)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if entry.Size != int64(len("jpeg-bytes")) {
		t.Fatalf("unexpected size %d", entry.Size)
	}

	raw, err := os.ReadFile(filepath.Join(a.Dir(), "booth_1.jpg"))
	if err != nil {
		t.Fatalf("collage file missing: %v", err)
	}
	if string(raw) != "jpeg-bytes" {
		t.Fatalf("collage not decoded before writing: %q", raw)
	}

	got, err := a.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Filename != "booth_1.jpg" || got[0].Layout != "double" {
		t.Fatalf("unexpected index payload: %#v", got)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	a, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	collage := base64.StdEncoding.EncodeToString([]byte("x"))
	if _, err := a.Save("first.jpg", "quad", collage); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := a.Save("second.jpg", "quad", collage); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := a.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 || got[0].Filename != "second.jpg" {
		t.Fatalf("expected newest first, got %#v", got)
	}
}

func TestSaveRejectsBadBase64(t *testing.T) {
	t.Parallel()

	a, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := a.Save("x.jpg", "strip", "%%not-base64%%"); err == nil {
		t.Fatal("expected a decode error")
	}
}
