package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// schema is the Anki collection layout (schema version 11).
const schema = `
CREATE TABLE col (
	id     integer primary key,
	crt    integer not null,
	mod    integer not null,
	scm    integer not null,
	ver    integer not null,
	dty    integer not null,
	usn    integer not null,
	ls     integer not null,
	conf   text not null,
	models text not null,
	decks  text not null,
	dconf  text not null,
	tags   text not null
);
CREATE TABLE notes (
	id    integer primary key,
	guid  text not null,
	mid   integer not null,
	mod   integer not null,
	usn   integer not null,
	tags  text not null,
	flds  text not null,
	sfld  integer not null,
	csum  integer not null,
	flags integer not null,
	data  text not null
);
CREATE TABLE cards (
	id     integer primary key,
	nid    integer not null,
	did    integer not null,
	ord    integer not null,
	mod    integer not null,
	usn    integer not null,
	type   integer not null,
	queue  integer not null,
	due    integer not null,
	ivl    integer not null,
	factor integer not null,
	reps   integer not null,
	lapses integer not null,
	left   integer not null,
	odue   integer not null,
	odid   integer not null,
	flags  integer not null,
	data   text not null
);
CREATE TABLE revlog (
	id      integer primary key,
	cid     integer not null,
	usn     integer not null,
	ease    integer not null,
	ivl     integer not null,
	lastIvl integer not null,
	factor  integer not null,
	time    integer not null,
	type    integer not null
);
CREATE TABLE graves (
	usn  integer not null,
	oid  integer not null,
	type integer not null
);
CREATE INDEX ix_notes_usn on notes (usn);
CREATE INDEX ix_cards_usn on cards (usn);
CREATE INDEX ix_revlog_usn on revlog (usn);
CREATE INDEX ix_cards_nid on cards (nid);
CREATE INDEX ix_cards_sched on cards (did, queue, due);
CREATE INDEX ix_revlog_cid on revlog (cid);
CREATE INDEX ix_notes_csum on notes (csum);
`

const collectionFile = "collection.anki2"

// WriteFile writes the package to path as a new .apkg archive containing a
// freshly built collection database and an empty media map.
func (p *Package) WriteFile(path string) error {
	buildDir, err := os.MkdirTemp("", "lernkarten-build-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(buildDir)

	if err := p.writeCollection(filepath.Join(buildDir, collectionFile)); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(buildDir, "media"), []byte("{}"), 0o644); err != nil {
		return fmt.Errorf("writing media map: %w", err)
	}

	if err := zipDir(buildDir, path); err != nil {
		return fmt.Errorf("creating zip: %w", err)
	}
	return nil
}

func (p *Package) writeCollection(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if err := p.insertCollection(tx); err != nil {
		return err
	}
	if err := p.insertNotes(tx); err != nil {
		return err
	}
	if err := p.insertCards(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing collection: %w", err)
	}
	return nil
}

func (p *Package) insertCollection(tx *sql.Tx) error {
	now := time.Now()

	models := make(map[string]*Model, len(p.Models))
	for id, m := range p.Models {
		if m.Mod == 0 {
			m.Mod = now.Unix()
		}
		models[strconv.FormatInt(id, 10)] = m
	}

	decks := map[string]any{"1": deckJSON(&Deck{ID: 1, Name: "Default"}, now)}
	for id, d := range p.Decks {
		decks[strconv.FormatInt(id, 10)] = deckJSON(d, now)
	}

	var activeDeck int64 = 1
	for id := range p.Decks {
		activeDeck = id
		break
	}

	conf := map[string]any{
		"activeDecks":   []int64{activeDeck},
		"curDeck":       activeDeck,
		"newSpread":     0,
		"collapseTime":  1200,
		"timeLim":       0,
		"estTimes":      true,
		"dueCounts":     true,
		"curModel":      nil,
		"nextPos":       len(p.Notes) + 1,
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
	}

	encoded := make([]string, 0, 4)
	for _, v := range []any{conf, models, decks, map[string]any{"1": defaultDeckConfig()}} {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling collection: %w", err)
		}
		encoded = append(encoded, string(b))
	}

	_, err := tx.Exec(`
		INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')
	`, now.Unix(), now.UnixMilli(), now.UnixMilli(), encoded[0], encoded[1], encoded[2], encoded[3])
	if err != nil {
		return fmt.Errorf("inserting collection: %w", err)
	}
	return nil
}

func (p *Package) insertNotes(tx *sql.Tx) error {
	for _, n := range p.Notes {
		_, err := tx.Exec(`
			INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, n.ID, n.GUID, n.ModelID, n.Mod, n.USN, n.Tags, n.RawFlds, n.SFLD, n.CSum, n.Flags, n.Data)
		if err != nil {
			return fmt.Errorf("inserting note %d: %w", n.ID, err)
		}
	}
	return nil
}

func (p *Package) insertCards(tx *sql.Tx) error {
	for _, c := range p.Cards {
		_, err := tx.Exec(`
			INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, c.NoteID, c.DeckID, c.Ord, c.Mod, c.USN, c.Type, c.Queue, c.Due, c.IVL,
			c.Factor, c.Reps, c.Lapses, c.Left, c.ODue, c.ODid, c.Flags, c.Data)
		if err != nil {
			return fmt.Errorf("inserting card %d: %w", c.ID, err)
		}
	}
	return nil
}

func deckJSON(d *Deck, now time.Time) map[string]any {
	return map[string]any{
		"id":               d.ID,
		"name":             d.Name,
		"desc":             d.Desc,
		"mod":              now.Unix(),
		"usn":              -1,
		"collapsed":        false,
		"browserCollapsed": false,
		"dyn":              0,
		"conf":             1,
		"extendNew":        0,
		"extendRev":        50,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
	}
}

func defaultDeckConfig() map[string]any {
	return map[string]any{
		"id":       1,
		"name":     "Default",
		"mod":      0,
		"usn":      0,
		"dyn":      false,
		"maxTaken": 60,
		"timer":    0,
		"autoplay": true,
		"replayq":  true,
		"new": map[string]any{
			"delays":        []int{1, 10},
			"ints":          []int{1, 4, 7},
			"initialFactor": 2500,
			"perDay":        20,
			"order":         1,
			"bury":          true,
			"separate":      true,
		},
		"rev": map[string]any{
			"perDay":   200,
			"ease4":    1.3,
			"ivlFct":   1,
			"maxIvl":   36500,
			"bury":     true,
			"minSpace": 1,
			"fuzz":     0.05,
		},
		"lapse": map[string]any{
			"delays":      []int{10},
			"mult":        0,
			"minInt":      1,
			"leechFails":  8,
			"leechAction": 0,
		},
	}
}

// zipDir archives the regular files directly below dir into dst.
func zipDir(dir, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := addZipEntry(zw, filepath.Join(dir, e.Name()), e.Name()); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}

func addZipEntry(zw *zip.Writer, path, name string) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
