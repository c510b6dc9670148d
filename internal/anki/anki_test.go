package anki

import (
	"archive/zip"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndOpenPackage(t *testing.T) {
	pkg := NewDeckPackage("German-English")
	pkg.AddNote("duck (en)", "die Ente, die Enten<br><br>", "noun english-german")
	pkg.AddNote("to go (en)", "gehen<br>past tense ging<br>", "verb english-german")

	path := filepath.Join(t.TempDir(), "deck.apkg")
	require.NoError(t, pkg.WriteFile(path))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	zr.Close()
	assert.ElementsMatch(t, []string{"collection.anki2", "media"}, names)

	opened, err := OpenPackage(path)
	require.NoError(t, err)
	defer opened.Close()

	require.Len(t, opened.Notes, 2)
	require.Len(t, opened.Cards, 2)

	require.Contains(t, opened.Decks, DeckID)
	assert.Equal(t, "German-English", opened.Decks[DeckID].Name)
	assert.Contains(t, opened.Decks, int64(1))

	require.Contains(t, opened.Models, ModelID)
	model := opened.Models[ModelID]
	assert.Equal(t, ModelName, model.Name)
	require.Len(t, model.Templates, 1)
	assert.Equal(t, "{{Side1}}", model.Templates[0].QFmt)
	assert.Equal(t, "{{Side2}}", model.Templates[0].AFmt)

	first := opened.Notes[0]
	assert.Equal(t, []string{FrontField, BackField}, opened.FieldNames(first))
	assert.Equal(t, "duck (en)", opened.FieldValue(first, "side1"))
	assert.Equal(t, "die Ente, die Enten<br><br>", opened.FieldValue(first, BackField))
	assert.Equal(t, " noun english-german ", first.Tags)
	assert.Equal(t, fieldChecksum("duck (en)"), first.CSum)
	assert.Equal(t, "", opened.FieldValue(first, "missing"))

	for _, c := range opened.Cards {
		assert.Equal(t, DeckID, c.DeckID)
	}
	assert.Equal(t, opened.Notes[1].ID, opened.Cards[1].NoteID)

	summary := opened.Summary()
	assert.Contains(t, summary, "Notes: 2")
	assert.Contains(t, summary, ModelName)
}

func TestNoteGUIDIsStable(t *testing.T) {
	a := NewDeckPackage("a").AddNote("duck (en)", "die Ente", "")
	b := NewDeckPackage("b").AddNote("duck (en)", "die Ente", "")
	c := NewDeckPackage("c").AddNote("duck (en)", "die Enten", "")

	assert.Equal(t, a.GUID, b.GUID)
	assert.NotEqual(t, a.GUID, c.GUID)
}

func TestAddNoteIDsAreUnique(t *testing.T) {
	pkg := NewDeckPackage("deck")
	seen := make(map[int64]bool)
	for i := 0; i < 50; i++ {
		n := pkg.AddNote("front", "back", "")
		require.False(t, seen[n.ID])
		seen[n.ID] = true
	}
	for _, c := range pkg.Cards {
		require.False(t, seen[c.ID])
		seen[c.ID] = true
	}
}

func TestFormatTags(t *testing.T) {
	assert.Equal(t, "", formatTags("  "))
	assert.Equal(t, " noun english-german ", formatTags("noun  english-german"))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "die Ente", StripHTML(" <b>die</b> Ente<br>"))
}

func TestOpenPackageErrors(t *testing.T) {
	_, err := OpenPackage(filepath.Join(t.TempDir(), "missing.apkg"))
	require.Error(t, err)
}
