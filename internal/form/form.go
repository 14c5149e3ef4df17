// Package form implements the add-link entry form: field state, keystroke
// filtering and the submit contract. It never touches the record list; a
// valid submission is handed to the caller through a callback.
package form

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/adtracksaver/adtrack/internal"
	"github.com/adtracksaver/adtrack/internal/catalog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// ValidationError maps field names to a short message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := lo.Keys(e.Fields)
	slices.Sort(keys)
	parts := lo.Map(keys, func(k string, _ int) string {
		return k + ": " + e.Fields[k]
	})
	return "invalid form: " + strings.Join(parts, ", ")
}

// Snapshot is a read-only copy of the form fields for renderers.
type Snapshot struct {
	URL      string   `json:"url"`
	AdsCount string   `json:"ads_count"`
	Tags     string   `json:"tags"`
	Site     string   `json:"site"`
	Niches   []string `json:"niches"`
}

type Form struct {
	catalog  *catalog.Catalog
	url      string
	adsCount string
	tags     string
	site     string
	niches   []string
}

func New(c *catalog.Catalog) *Form {
	return &Form{catalog: c}
}

func (f *Form) SetURL(s string)  { f.url = s }
func (f *Form) SetSite(s string) { f.site = s }

// SetAdsCount replaces the ads-count text. Any non-digit character rejects
// the whole change and leaves the field as it was. Empty is allowed.
func (f *Form) SetAdsCount(s string) bool {
	if !digitsOnly(s) {
		return false
	}
	f.adsCount = s
	return true
}

// TypeAdsCount applies a single keystroke to the ads-count field.
func (f *Form) TypeAdsCount(r rune) bool {
	return f.SetAdsCount(f.adsCount + string(r))
}

// Backspace removes the last character of the ads-count field.
func (f *Form) Backspace() {
	if f.adsCount != "" {
		f.adsCount = f.adsCount[:len(f.adsCount)-1]
	}
}

// SetTag selects a tag. Empty clears the selection; tags outside the
// catalog are refused.
func (f *Form) SetTag(tag string) error {
	if tag != "" && !f.catalog.HasTag(tag) {
		return fmt.Errorf("%w: %q", internal.ErrUnknownTag, tag)
	}
	f.tags = tag
	return nil
}

// ToggleNiche adds key when absent and removes it when present.
func (f *Form) ToggleNiche(key string) error {
	if !f.catalog.HasNiche(key) {
		return fmt.Errorf("%w: %q", internal.ErrUnknownNiche, key)
	}
	f.niches = Toggle(f.niches, key)
	return nil
}

func (f *Form) Snapshot() Snapshot {
	return Snapshot{
		URL:      f.url,
		AdsCount: f.adsCount,
		Tags:     f.tags,
		Site:     f.site,
		Niches:   slices.Clone(f.niches),
	}
}

func (f *Form) Reset() {
	f.url = ""
	f.adsCount = ""
	f.tags = ""
	f.site = ""
	f.niches = nil
}

// Submit validates the fields and, when they are acceptable, passes the
// candidate to emit and clears the form. On a validation failure nothing is
// emitted and every field keeps its value. An error from emit is returned
// as is and also leaves the form untouched.
func (f *Form) Submit(emit func(internal.Candidate) error) error {
	candidate, err := f.candidate()
	if err != nil {
		log.Debug().Err(err).Msg("form submission rejected")
		return err
	}

	if err := emit(candidate); err != nil {
		return err
	}

	f.Reset()
	return nil
}

func (f *Form) candidate() (internal.Candidate, error) {
	problems := map[string]string{}

	url := strings.TrimSpace(f.url)
	if url == "" {
		problems["url"] = "is required"
	}

	count, ok := ParseAdsCount(f.adsCount)
	if !ok {
		problems["ads_count"] = "must be a whole number"
	}

	if len(problems) > 0 {
		return internal.Candidate{}, &ValidationError{Fields: problems}
	}

	niches := slices.Clone(f.niches)
	if niches == nil {
		niches = []string{}
	}

	return internal.Candidate{
		URL:      url,
		Site:     strings.TrimSpace(f.site),
		AdsCount: count,
		Tags:     f.tags,
		Niches:   niches,
	}, nil
}

// ParseAdsCount accepts a non-empty run of digits that fits in an int.
func ParseAdsCount(s string) (int, bool) {
	if s == "" || !digitsOnly(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Toggle returns keys with key removed if present, appended otherwise.
func Toggle(keys []string, key string) []string {
	if slices.Contains(keys, key) {
		return lo.Without(keys, key)
	}
	return append(slices.Clone(keys), key)
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
