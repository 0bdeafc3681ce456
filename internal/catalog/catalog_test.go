package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNew_BuildsIndexes(t *testing.T) {
	c := New([]domain.Product{
		{ID: "lighting", Title: "Lighting Control System", Price: 45000},
		{ID: "motion", Title: "Motion Sensor Switch", Price: 12500},
	})

	require.Equal(t, 2, c.Len())

	p, ok := c.Find("motion")
	require.True(t, ok)
	assert.Equal(t, "Motion Sensor Switch", p.Title)

	p, ok = c.FindBySlug("lighting-control-system")
	require.True(t, ok)
	assert.Equal(t, "lighting", p.ID)

	_, ok = c.Find("missing")
	assert.False(t, ok)
}

func TestNew_KeepsFirstDuplicateID(t *testing.T) {
	c := New([]domain.Product{
		{ID: "dup", Title: "First", Price: 100},
		{ID: "dup", Title: "Second", Price: 200},
	})

	require.Equal(t, 1, c.Len())
	p, _ := c.Find("dup")
	assert.Equal(t, "First", p.Title)
}

func TestList_ReturnsCopy(t *testing.T) {
	c := New(Default())

	list := c.List()
	list[0].Title = "mutated"

	p, _ := c.Find(list[0].ID)
	assert.NotEqual(t, "mutated", p.Title)
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	c := Load("/does/not/exist.json", testLogger())

	assert.Equal(t, len(Default()), c.Len())
}

func TestLoad_UnparseableFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	c := Load(path, testLogger())

	assert.Equal(t, len(Default()), c.Len())
}

func TestLoad_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `[{"id":"cable","title":"Armored Cable 25m","price":18000,"desc":"4-core armored cable."}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c := Load(path, testLogger())

	require.Equal(t, 1, c.Len())
	p, ok := c.Find("cable")
	require.True(t, ok)
	assert.Equal(t, int64(18000), p.Price)
	assert.Equal(t, "armored-cable-25m", p.Slug)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	c := Load("", testLogger())
	assert.Equal(t, len(Default()), c.Len())
}
