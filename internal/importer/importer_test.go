package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(NewDKBParser())
	p := r.Get("dkb")
	require.NotNil(t, p)
	assert.Equal(t, "dkb", p.Format())
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(NewDKBParser())
	assert.NotNil(t, r.Get("DKB"))
	assert.NotNil(t, r.Get("Dkb"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(NewDKBParser())
	assert.Panics(t, func() { r.Register(NewDKBParser()) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"dkb", "dkb-classic"}, r.Formats())

	classic, ok := r.Get("dkb-classic").(*StatementParser)
	require.True(t, ok)
	assert.Equal(t, ';', classic.Delimiter())

	current, ok := r.Get("dkb").(*StatementParser)
	require.True(t, ok)
	assert.Equal(t, ',', current.Delimiter())
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bank.csv"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "UPPER.CSV"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("data"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.csv"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	names := []string{files[0].Name, files[1].Name}
	assert.ElementsMatch(t, []string{"bank.csv", "UPPER.CSV"}, names)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestLatest_PicksNewest(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "statement1.csv")
	newer := filepath.Join(dir, "statement2.csv")
	require.NoError(t, os.WriteFile(older, []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("2"), 0o644))

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(older, base, base.Add(time.Hour)))
	require.NoError(t, os.Chtimes(newer, base, base))

	got, err := Latest(dir)
	require.NoError(t, err)
	assert.Equal(t, older, got.Path)
}

func TestLatest_TieBreaksByName(t *testing.T) {
	dir := t.TempDir()
	stamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, name := range []string{"a.csv", "c.csv", "b.csv"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		require.NoError(t, os.Chtimes(path, stamp, stamp))
	}

	got, err := Latest(dir)
	require.NoError(t, err)
	assert.Equal(t, "c.csv", got.Name)
}

func TestLatest_NoFiles(t *testing.T) {
	_, err := Latest(t.TempDir())
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, []byte("Buchungsdatum")...), 0o644))

	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Buchungsdatum", text)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegistry_ForRun(t *testing.T) {
	r := DefaultRegistry()

	p, err := r.ForRun("DKB", ';', zerolog.Nop())
	require.NoError(t, err)
	sp, ok := p.(*StatementParser)
	require.True(t, ok)
	assert.Equal(t, ';', sp.Delimiter())
	assert.Equal(t, ',', r.Get("dkb").(*StatementParser).Delimiter(), "registered parser unchanged")

	p, err = r.ForRun("dkb-classic", 0, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, ';', p.(*StatementParser).Delimiter())

	_, err = r.ForRun("ofx", 0, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dkb, dkb-classic")
}
