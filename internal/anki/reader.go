package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// collectionFiles are the database names used by the Anki 2.0 and 2.1 exporters.
var collectionFiles = []string{"collection.anki21", "collection.anki2"}

// OpenPackage opens an Anki .apkg file for reading.
func OpenPackage(path string) (*Package, error) {
	tempDir, err := os.MkdirTemp("", "lernkarten-apkg-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	pkg := &Package{
		path:    path,
		tempDir: tempDir,
		Models:  make(map[int64]*Model),
		Decks:   make(map[int64]*Deck),
	}

	if err := pkg.load(); err != nil {
		pkg.Close()
		return nil, err
	}
	return pkg, nil
}

func (p *Package) load() error {
	if err := unzip(p.path, p.tempDir); err != nil {
		return err
	}

	dbPath, err := findCollection(p.tempDir)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	p.db = db

	for _, step := range []func() error{p.loadCollection, p.loadNotes, p.loadCards} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func findCollection(dir string) (string, error) {
	for _, name := range collectionFiles {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.New("package contains no collection database")
}

// unzip extracts the archive at src into dir.
func unzip(src, dir string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(dir) + string(os.PathSeparator)
	for _, f := range r.File {
		target := filepath.Join(dir, f.Name)
		if !strings.HasPrefix(target, root) {
			return fmt.Errorf("illegal file path in archive: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// loadCollection loads models and decks from the col table.
func (p *Package) loadCollection() error {
	var models, decks string
	if err := p.db.QueryRow("SELECT models, decks FROM col").Scan(&models, &decks); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	if err := decodeByID(models, func(raw json.RawMessage) {
		var m Model
		if json.Unmarshal(raw, &m) == nil {
			p.Models[m.ID] = &m
		}
	}); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}

	if err := decodeByID(decks, func(raw json.RawMessage) {
		var d Deck
		if json.Unmarshal(raw, &d) == nil {
			p.Decks[d.ID] = &d
		}
	}); err != nil {
		return fmt.Errorf("parsing decks: %w", err)
	}

	return nil
}

// decodeByID walks a JSON object keyed by id. Malformed values are skipped by fn.
func decodeByID(data string, fn func(json.RawMessage)) error {
	var byID map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &byID); err != nil {
		return err
	}
	for _, raw := range byID {
		fn(raw)
	}
	return nil
}

func (p *Package) loadNotes() error {
	rows, err := p.db.Query(`
		SELECT id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data
		FROM notes ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n Note
		if err := rows.Scan(
			&n.ID, &n.GUID, &n.ModelID, &n.Mod, &n.USN,
			&n.Tags, &n.RawFlds, &n.SFLD, &n.CSum, &n.Flags, &n.Data,
		); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		n.Fields = strings.Split(n.RawFlds, fieldSeparator)
		p.Notes = append(p.Notes, &n)
	}
	return rows.Err()
}

func (p *Package) loadCards() error {
	rows, err := p.db.Query(`
		SELECT id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data
		FROM cards ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Card
		if err := rows.Scan(
			&c.ID, &c.NoteID, &c.DeckID, &c.Ord, &c.Mod, &c.USN,
			&c.Type, &c.Queue, &c.Due, &c.IVL, &c.Factor, &c.Reps,
			&c.Lapses, &c.Left, &c.ODue, &c.ODid, &c.Flags, &c.Data,
		); err != nil {
			return fmt.Errorf("scanning card: %w", err)
		}
		p.Cards = append(p.Cards, &c)
	}
	return rows.Err()
}

// Model returns the note type of a note, or nil.
func (p *Package) Model(note *Note) *Model {
	return p.Models[note.ModelID]
}

// FieldNames returns the field names of a note's model.
func (p *Package) FieldNames(note *Note) []string {
	model := p.Model(note)
	if model == nil {
		return nil
	}
	names := make([]string, len(model.Fields))
	for i, f := range model.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldValue returns a note field by (case-insensitive) name.
func (p *Package) FieldValue(note *Note, name string) string {
	model := p.Model(note)
	if model == nil {
		return ""
	}
	for _, f := range model.Fields {
		if strings.EqualFold(f.Name, name) && f.Ord < len(note.Fields) {
			return note.Fields[f.Ord]
		}
	}
	return ""
}

// Close releases the database and the extraction directory.
func (p *Package) Close() error {
	var errs []error
	if p.db != nil {
		errs = append(errs, p.db.Close())
		p.db = nil
	}
	if p.tempDir != "" {
		errs = append(errs, os.RemoveAll(p.tempDir))
		p.tempDir = ""
	}
	return errors.Join(errs...)
}

// Summary describes the package contents.
func (p *Package) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Anki Package: %s\n", p.path)
	fmt.Fprintf(&sb, "  Decks: %d\n", len(p.Decks))
	for _, d := range p.Decks {
		fmt.Fprintf(&sb, "    - %s\n", d.Name)
	}
	fmt.Fprintf(&sb, "  Models (Note Types): %d\n", len(p.Models))
	for _, m := range p.Models {
		fmt.Fprintf(&sb, "    - %s (%d fields)\n", m.Name, len(m.Fields))
	}
	fmt.Fprintf(&sb, "  Notes: %d\n", len(p.Notes))
	fmt.Fprintf(&sb, "  Cards: %d\n", len(p.Cards))

	return sb.String()
}
