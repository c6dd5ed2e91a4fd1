// Package archive keeps a kiosk-local copy of finalized collages: the
// decoded image on disk plus a JSON index describing each save. The backend
// gallery stays authoritative; this is the offline fallback for a booth that
// loses its server.
package archive

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const indexFile = "index.json"

// Entry describes one archived collage.
type Entry struct {
	Filename string    `json:"filename"`
	Layout   string    `json:"layout"`
	SavedAt  time.Time `json:"savedAt"`
	Size     int64     `json:"size"`
}

// Archive writes collages under a single directory.
type Archive struct {
	dir string
}

// New opens (creating if needed) an archive rooted at dir.
func New(dir string) (*Archive, error) {
	if dir == "" {
		return nil, errors.New("archive: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Archive{dir: dir}, nil
}

// Dir returns the archive root.
func (a *Archive) Dir() string { return a.dir }

// Save decodes the base64 collage, writes it next to the index, and records
// an entry. filename comes from the backend's finalize response; an empty
// one gets a timestamped fallback.
func (a *Archive) Save(filename, layout, collageB64 string) (Entry, error) {
	image, err := base64.StdEncoding.DecodeString(collageB64)
	if err != nil {
		return Entry{}, fmt.Errorf("archive: decode collage: %w", err)
	}
	if filename == "" {
		filename = fmt.Sprintf("booth_%s.jpg", time.Now().Format("20060102_150405"))
	}
	filename = filepath.Base(filename)

	path := filepath.Join(a.dir, filename)
	if err := os.WriteFile(path, image, 0o644); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Filename: filename,
		Layout:   layout,
		SavedAt:  time.Now().UTC(),
		Size:     int64(len(image)),
	}
	if err := a.appendEntry(entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// List returns archived entries, newest first.
func (a *Archive) List() ([]Entry, error) {
	entries, err := a.loadIndex()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SavedAt.After(entries[j].SavedAt)
	})
	return entries, nil
}

func (a *Archive) appendEntry(entry Entry) error {
	entries, err := a.loadIndex()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].Filename == entry.Filename {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(a.dir, indexFile), data, 0o644)
}

func (a *Archive) loadIndex() ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(a.dir, indexFile))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
