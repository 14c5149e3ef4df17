package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Len(t, c.Tags, 5)
	assert.Len(t, c.Niches, 7)
	assert.Equal(t, "Testando", c.Tags[1])
	assert.Equal(t, "ed", c.Niches[1].Key)
}

func TestLabel(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"known key", "ed", "ED 🍆"},
		{"another known key", "low_ticket", "Low Ticket 💸"},
		{"unknown key falls back to raw key", "crypto", "crypto"},
		{"empty key", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Label(tt.key))
		})
	}
}

func TestColor_UnknownUsesFallback(t *testing.T) {
	c := Default()
	assert.Equal(t, "violet", c.Color("ed"))
	assert.Equal(t, FallbackColor, c.Color("nope"))
}

func TestHasTagAndNiche(t *testing.T) {
	c := Default()
	assert.True(t, c.HasTag("Novo criativo"))
	assert.False(t, c.HasTag("novo criativo"))
	assert.False(t, c.HasTag(""))
	assert.True(t, c.HasNiche("diabetes"))
	assert.False(t, c.HasNiche("Diabetes 🩸"))
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cat  Catalog
	}{
		{"no tags", Catalog{Niches: []Niche{{Key: "a", Label: "A"}}}},
		{"no niches", Catalog{Tags: []string{"x"}}},
		{"blank tag", Catalog{Tags: []string{" "}, Niches: []Niche{{Key: "a", Label: "A"}}}},
		{"duplicate tag", Catalog{Tags: []string{"x", "x"}, Niches: []Niche{{Key: "a", Label: "A"}}}},
		{"niche without label", Catalog{Tags: []string{"x"}, Niches: []Niche{{Key: "a"}}}},
		{"duplicate niche key", Catalog{Tags: []string{"x"}, Niches: []Niche{{Key: "a", Label: "A"}, {Key: "a", Label: "B"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cat.Validate())
		})
	}
}

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `
tags:
  - Escalando
  - Pausado
niches:
  - key: pets
    label: Pets
    color: amber
  - key: beleza
    label: Beleza
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Escalando", "Pausado"}, c.Tags)
	assert.Equal(t, "Pets", c.Label("pets"))
	assert.Equal(t, FallbackColor, c.Color("beleza"))
	assert.False(t, c.HasNiche("ed"))
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tags: []\nniches: []\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
