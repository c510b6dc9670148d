package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := Default()
	cfg.Timeout = 5 * time.Second
	cfg.DeckName = "Vokabeln"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("deck_name: Tiere\ntimeout: 10s\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Tiere", cfg.DeckName)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, Default().BaseURL, cfg.BaseURL)
	assert.Equal(t, "de", cfg.From)
}

func TestLoadRejectsMultiCharacterDelimiter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("delimiter: \"::\"\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delimiter")

	require.NoError(t, os.WriteFile(path, []byte("delimiter: \";\"\n"), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ";", cfg.Delimiter)
}

func TestLoadDir(t *testing.T) {
	cfg, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("from: [broken"), 0644))
	_, err = LoadDir(dir)
	require.Error(t, err)
}

func TestEnsureConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureConfigDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
