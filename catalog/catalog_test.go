package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/briefing/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 21, c.Len())

	p, ok := c.Get("m365-teams")
	require.True(t, ok)
	assert.Equal(t, "Microsoft Teams", p.Name)
	assert.Equal(t, "Microsoft 365", p.Family)
	assert.ElementsMatch(t, []core.SourceID{core.SourceMessageCenter, core.SourceLearn}, p.Sources)

	families := map[string]bool{}
	for _, p := range c.Products() {
		families[p.Family] = true
	}
	assert.Len(t, families, 5)
}

func TestCatalog_Lookups(t *testing.T) {
	c := Default()

	t.Run("known product", func(t *testing.T) {
		assert.True(t, c.Has("entra"))
		assert.Equal(t, "Microsoft Entra", c.Name("entra"))
		assert.Equal(t, "Security", c.Family("entra"))
	})

	t.Run("unknown product falls back", func(t *testing.T) {
		assert.False(t, c.Has("general"))
		assert.Equal(t, "general", c.Name("general"))
		assert.Equal(t, FamilyOther, c.Family("general"))
	})

	t.Run("products is a copy", func(t *testing.T) {
		ps := c.Products()
		ps[0].Name = "mutated"
		assert.NotEqual(t, "mutated", c.Name(ps[0].ID))
	})
}

func TestNew(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		_, err := New(
			core.Product{ID: "a", Name: "A"},
			core.Product{ID: "a", Name: "A again"},
		)
		assert.ErrorIs(t, err, ErrDuplicateProduct)
	})

	t.Run("invalid product", func(t *testing.T) {
		_, err := New(core.Product{ID: "a"})
		assert.ErrorIs(t, err, core.ErrInvalidProduct)
	})

	t.Run("missing family defaults to other", func(t *testing.T) {
		c, err := New(core.Product{ID: "a", Name: "A"})
		require.NoError(t, err)
		assert.Equal(t, FamilyOther, c.Family("a"))
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "catalog.yaml")
		doc := `products:
  - id: azure
    name: Azure
    family: Azure
    sources: [message-center, microsoft-learn]
  - id: github
    name: GitHub
    sources: [microsoft-learn]
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		c, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 2, c.Len())
		assert.Equal(t, FamilyOther, c.Family("github"))
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := Parse([]byte("products: []\n"))
		assert.ErrorIs(t, err, ErrInvalidCatalog)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("products: [\n"))
		assert.ErrorIs(t, err, ErrInvalidCatalog)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}
