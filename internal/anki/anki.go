// Package anki reads and writes Anki .apkg files.
package anki

import (
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DeckID and ModelID are fixed so that re-importing an exported deck
	// updates the previous import instead of creating a second deck.
	DeckID  int64 = 2157302217
	ModelID int64 = 2157302217

	ModelName    = "Vocabulary Card"
	TemplateName = "Card 1"
	FrontField   = "Side1"
	BackField    = "Side2"

	// fieldSeparator separates note fields in the flds column.
	fieldSeparator = "\x1f"
)

// noteNamespace seeds the name-based note GUIDs.
var noteNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/f3rmion/lernkarten/notes"))

// Package represents an Anki .apkg file, either opened from disk or built in
// memory with NewDeckPackage.
type Package struct {
	path    string
	tempDir string
	db      *sql.DB
	Models  map[int64]*Model
	Decks   map[int64]*Deck
	Notes   []*Note
	Cards   []*Card

	nextID int64
}

// Model represents an Anki note type (model).
type Model struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Type      int        `json:"type"` // 0 = standard, 1 = cloze
	Mod       int64      `json:"mod"`
	USN       int        `json:"usn"`
	SortField int        `json:"sortf"`
	DeckID    int64      `json:"did"`
	Templates []Template `json:"tmpls"`
	Fields    []Field    `json:"flds"`
	CSS       string     `json:"css"`
	LatexPre  string     `json:"latexPre"`
	LatexPost string     `json:"latexPost"`
	Tags      []string   `json:"tags"`
	Req       []any      `json:"req"`
}

// Template is a card template of a model.
type Template struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	QFmt  string `json:"qfmt"`
	AFmt  string `json:"afmt"`
	BQFmt string `json:"bqfmt"`
	BAFmt string `json:"bafmt"`
	Did   *int64 `json:"did"`
}

// Field represents a field in a note type.
type Field struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Sticky bool     `json:"sticky"`
	RTL    bool     `json:"rtl"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
}

// Deck represents an Anki deck.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Note represents an Anki note.
type Note struct {
	ID      int64
	GUID    string
	ModelID int64
	Mod     int64
	USN     int
	Tags    string
	Fields  []string // Parsed from flds
	RawFlds string   // Original flds string
	SFLD    string   // Sort field
	CSum    int64
	Flags   int
	Data    string
}

// Card represents an Anki card.
type Card struct {
	ID     int64
	NoteID int64
	DeckID int64
	Ord    int
	Mod    int64
	USN    int
	Type   int
	Queue  int
	Due    int
	IVL    int
	Factor int
	Reps   int
	Lapses int
	Left   int
	ODue   int
	ODid   int64
	Flags  int
	Data   string
}

const cardCSS = `.card {
  font-family: arial;
  font-size: 20px;
  text-align: center;
  color: black;
  background-color: white;
  white-space: pre-line;
}
.example-list {
  text-align: left;
}`

// VocabularyModel returns the two-field front/back note type used for
// exported decks.
func VocabularyModel() *Model {
	field := func(name string, ord int) Field {
		return Field{Name: name, Ord: ord, Font: "Arial", Size: 20, Media: []string{}}
	}

	return &Model{
		ID:        ModelID,
		Name:      ModelName,
		USN:       -1,
		DeckID:    DeckID,
		SortField: 0,
		Templates: []Template{{
			Name: TemplateName,
			QFmt: "{{" + FrontField + "}}",
			AFmt: "{{" + BackField + "}}",
		}},
		Fields:    []Field{field(FrontField, 0), field(BackField, 1)},
		CSS:       cardCSS,
		LatexPre:  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
		LatexPost: "\\end{document}",
		Tags:      []string{},
		Req:       []any{[]any{0, "any", []any{0}}},
	}
}

// NewDeckPackage creates an empty in-memory package holding one deck with the
// vocabulary note type.
func NewDeckPackage(deckName string) *Package {
	model := VocabularyModel()
	return &Package{
		Models: map[int64]*Model{model.ID: model},
		Decks:  map[int64]*Deck{DeckID: {ID: DeckID, Name: deckName}},
		nextID: time.Now().UnixMilli(),
	}
}

// AddNote appends a vocabulary note and its card. tags is a space separated
// tag list.
func (p *Package) AddNote(front, back, tags string) *Note {
	id := p.allocID()
	mod := time.Now().Unix()
	fields := []string{front, back}

	note := &Note{
		ID:      id,
		GUID:    noteGUID(fields),
		ModelID: ModelID,
		Mod:     mod,
		USN:     -1,
		Tags:    formatTags(tags),
		Fields:  fields,
		RawFlds: strings.Join(fields, fieldSeparator),
		SFLD:    StripHTML(front),
	}
	note.CSum = fieldChecksum(note.SFLD)
	p.Notes = append(p.Notes, note)

	p.Cards = append(p.Cards, &Card{
		ID:     p.allocID(),
		NoteID: note.ID,
		DeckID: DeckID,
		Mod:    mod,
		USN:    -1,
		Due:    len(p.Notes),
	})

	return note
}

func (p *Package) allocID() int64 {
	if p.nextID == 0 {
		p.nextID = time.Now().UnixMilli()
	}
	id := p.nextID
	p.nextID++
	return id
}

func noteGUID(fields []string) string {
	return uuid.NewSHA1(noteNamespace, []byte(strings.Join(fields, fieldSeparator))).String()
}

// formatTags renders tags the way Anki stores them: space separated with a
// leading and trailing space.
func formatTags(tags string) string {
	fields := strings.Fields(tags)
	if len(fields) == 0 {
		return ""
	}
	return " " + strings.Join(fields, " ") + " "
}

// fieldChecksum is the first 8 hex digits of the SHA1 of the sort field, as
// Anki computes it for duplicate detection.
func fieldChecksum(sortField string) int64 {
	sum := sha1.Sum([]byte(sortField))
	csum, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return csum
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes HTML tags from a string.
func StripHTML(s string) string {
	return strings.TrimSpace(htmlTag.ReplaceAllString(s, ""))
}
