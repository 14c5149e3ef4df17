// Package catalog holds the closed vocabularies a monitored link can be
// labelled with: one tag and any number of niches.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gookit/validate"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// FallbackColor is used for niche keys the catalog does not know.
const FallbackColor = "slate"

type Niche struct {
	Key   string `mapstructure:"key" json:"key" validate:"required"`
	Label string `mapstructure:"label" json:"label" validate:"required"`
	Color string `mapstructure:"color" json:"color"`
}

type Catalog struct {
	Tags   []string `mapstructure:"tags" json:"tags" validate:"required|minLen:1"`
	Niches []Niche  `mapstructure:"niches" json:"niches" validate:"required|minLen:1"`
}

// Default returns the built-in registry.
func Default() *Catalog {
	return &Catalog{
		Tags: []string{
			"Muito escalado",
			"Testando",
			"Novo criativo",
			"Campanha antiga",
			"Top 1 concorrente",
		},
		Niches: []Niche{
			{Key: "emagrecimento", Label: "Emagrecimento 🥗", Color: "emerald"},
			{Key: "ed", Label: "ED 🍆", Color: "violet"},
			{Key: "diabetes", Label: "Diabetes 🩸", Color: "rose"},
			{Key: "prostata", Label: "Próstata 👴", Color: "amber"},
			{Key: "neuropatia", Label: "Neuropatia ⚡", Color: "blue"},
			{Key: "receitas", Label: "Receitas 🍽️", Color: "pink"},
			{Key: "low_ticket", Label: "Low Ticket 💸", Color: "slate"},
		},
	}
}

// Load reads a registry from a YAML (or any viper-supported) file and
// validates it. The loaded registry replaces the defaults entirely.
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var c Catalog
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("path", path).
		Int("tags", len(c.Tags)).
		Int("niches", len(c.Niches)).
		Msg("catalog loaded")

	return &c, nil
}

func (c *Catalog) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("invalid catalog: %s", v.Errors.One())
	}

	for i, tag := range c.Tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("invalid catalog: tag %d is blank", i)
		}
	}
	if dup := lo.FindDuplicates(c.Tags); len(dup) > 0 {
		return fmt.Errorf("invalid catalog: duplicate tags %v", dup)
	}

	for i := range c.Niches {
		nv := validate.Struct(&c.Niches[i])
		if !nv.Validate() {
			return fmt.Errorf("invalid catalog: niche %d: %s", i, nv.Errors.One())
		}
		if c.Niches[i].Color == "" {
			c.Niches[i].Color = FallbackColor
		}
	}
	keys := lo.Map(c.Niches, func(n Niche, _ int) string { return n.Key })
	if dup := lo.FindDuplicates(keys); len(dup) > 0 {
		return fmt.Errorf("invalid catalog: duplicate niche keys %v", dup)
	}

	return nil
}

func (c *Catalog) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

func (c *Catalog) HasNiche(key string) bool {
	_, ok := c.Lookup(key)
	return ok
}

func (c *Catalog) Lookup(key string) (Niche, bool) {
	return lo.Find(c.Niches, func(n Niche) bool { return n.Key == key })
}

// Label returns the display label for key, or key itself when unknown.
func (c *Catalog) Label(key string) string {
	if n, ok := c.Lookup(key); ok {
		return n.Label
	}
	return key
}

func (c *Catalog) Color(key string) string {
	if n, ok := c.Lookup(key); ok && n.Color != "" {
		return n.Color
	}
	return FallbackColor
}
