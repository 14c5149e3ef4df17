// Package dashboard owns the list of monitored links and every operation
// that changes it: add, edit, delete and search.
package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/adtracksaver/adtrack/internal"
	"github.com/adtracksaver/adtrack/internal/catalog"
	"github.com/adtracksaver/adtrack/internal/form"
	"github.com/adtracksaver/adtrack/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Store keeps links in insertion order. Get, Replace and Delete return
// internal.ErrLinkNotFound for unknown ids.
type Store interface {
	List(ctx context.Context) ([]*internal.MonitoredLink, error)
	Get(ctx context.Context, id string) (*internal.MonitoredLink, error)
	Insert(ctx context.Context, link *internal.MonitoredLink) error
	Replace(ctx context.Context, link *internal.MonitoredLink) error
	Delete(ctx context.Context, id string) error
}

// Draft holds the editable fields of a link while an edit is in progress.
type Draft struct {
	URL      string   `json:"url"`
	Site     string   `json:"site"`
	AdsCount int      `json:"ads_count"`
	Tags     string   `json:"tags"`
	Niches   []string `json:"niches"`
}

// EditSession is the single link currently being edited.
type EditSession struct {
	ID    string `json:"id"`
	Draft Draft  `json:"draft"`
}

// DraftChange carries the fields to change on the draft. Nil fields are left
// alone. AdsCount uses the same digits-only text rule as the entry form.
type DraftChange struct {
	URL         *string `json:"url,omitempty"`
	Site        *string `json:"site,omitempty"`
	AdsCount    *string `json:"ads_count,omitempty"`
	Tags        *string `json:"tags,omitempty"`
	ToggleNiche *string `json:"toggle_niche,omitempty"`
}

type Summary struct {
	Links    int `json:"links"`
	TotalAds int `json:"total_ads"`
}

type Option func(*Controller)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// Controller serializes every operation behind one mutex, so each call runs
// to completion before the next one starts, in arrival order.
type Controller struct {
	mu       sync.Mutex
	store    Store
	catalog  *catalog.Catalog
	recorder metrics.Recorder
	now      func() time.Time

	search   string
	edit     *EditSession
	revision uint64
}

func New(store Store, cat *catalog.Catalog, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		catalog:  cat,
		recorder: metrics.Noop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// Revision changes whenever the stored list changes.
func (c *Controller) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// Add stamps a candidate with the current time, starts its history and
// appends it to the end of the list.
func (c *Controller) Add(ctx context.Context, candidate internal.Candidate) (*internal.MonitoredLink, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkLabels(candidate.Tags, candidate.Niches); err != nil {
		return nil, err
	}

	now := internal.Timestamp(c.now())
	link := &internal.MonitoredLink{
		ID:         uuid.NewString(),
		URL:        candidate.URL,
		Site:       candidate.Site,
		AdsCount:   candidate.AdsCount,
		Tags:       candidate.Tags,
		Niches:     lo.Uniq(candidate.Niches),
		AddedAt:    now,
		AdsHistory: []internal.HistoryEntry{{Count: candidate.AdsCount, ChangedAt: now}},
	}

	if err := c.store.Insert(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to add link: %w", err)
	}
	c.changed(ctx)
	c.recorder.LinkAdded()

	log.Info().Str("id", link.ID).Str("url", link.URL).Int("ads", link.AdsCount).Msg("link added")

	return link.Clone(), nil
}

// StartEdit copies the link into a fresh edit session. An edit already in
// progress is dropped along with its unsaved changes.
func (c *Controller) StartEdit(ctx context.Context, id string) (EditSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	link, err := c.store.Get(ctx, id)
	if err != nil {
		return EditSession{}, err
	}

	if c.edit != nil && c.edit.ID != id {
		log.Debug().Str("previous", c.edit.ID).Str("id", id).Msg("discarding unsaved edit")
	}

	c.edit = &EditSession{
		ID: link.ID,
		Draft: Draft{
			URL:      link.URL,
			Site:     link.Site,
			AdsCount: link.AdsCount,
			Tags:     link.Tags,
			Niches:   slices.Clone(link.Niches),
		},
	}

	return c.session(), nil
}

// Editing returns the current session, if any.
func (c *Controller) Editing() (EditSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.edit == nil {
		return EditSession{}, false
	}
	return c.session(), true
}

// ChangeDraft validates every field in change and applies them together.
// Nothing is applied when any field is invalid.
func (c *Controller) ChangeDraft(change DraftChange) (EditSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.edit == nil {
		return EditSession{}, internal.ErrNotEditing
	}

	draft := c.edit.Draft
	draft.Niches = slices.Clone(draft.Niches)
	problems := map[string]string{}

	if change.URL != nil {
		if strings.TrimSpace(*change.URL) == "" {
			problems["url"] = "is required"
		}
		draft.URL = strings.TrimSpace(*change.URL)
	}
	if change.Site != nil {
		draft.Site = strings.TrimSpace(*change.Site)
	}
	if change.AdsCount != nil {
		count, ok := form.ParseAdsCount(*change.AdsCount)
		if !ok {
			problems["ads_count"] = "must be a whole number"
		}
		draft.AdsCount = count
	}
	if change.Tags != nil {
		if *change.Tags != "" && !c.catalog.HasTag(*change.Tags) {
			problems["tags"] = "unknown tag"
		}
		draft.Tags = *change.Tags
	}
	if change.ToggleNiche != nil {
		if !c.catalog.HasNiche(*change.ToggleNiche) {
			problems["niches"] = "unknown niche"
		} else {
			draft.Niches = form.Toggle(draft.Niches, *change.ToggleNiche)
		}
	}

	if len(problems) > 0 {
		return EditSession{}, &form.ValidationError{Fields: problems}
	}

	c.edit.Draft = draft
	return c.session(), nil
}

// CancelEdit drops the current session without saving.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit = nil
}

// SaveEdit writes the draft over the stored link. A history entry is added
// to the stored link's history only when the ads count changed; edits to any
// other field keep the history as it was.
func (c *Controller) SaveEdit(ctx context.Context) (*internal.MonitoredLink, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.edit == nil {
		return nil, internal.ErrNotEditing
	}
	session := c.edit

	original, err := c.store.Get(ctx, session.ID)
	if err != nil {
		c.edit = nil
		return nil, err
	}

	history := original.AdsHistory
	countChanged := session.Draft.AdsCount != original.AdsCount
	if countChanged {
		history = append(slices.Clone(history), internal.HistoryEntry{
			Count:     session.Draft.AdsCount,
			ChangedAt: internal.Timestamp(c.now()),
		})
	}

	niches := slices.Clone(session.Draft.Niches)
	if niches == nil {
		niches = []string{}
	}
	updated := &internal.MonitoredLink{
		ID:         original.ID,
		URL:        session.Draft.URL,
		Site:       session.Draft.Site,
		AdsCount:   session.Draft.AdsCount,
		Tags:       session.Draft.Tags,
		Niches:     niches,
		AddedAt:    original.AddedAt,
		AdsHistory: history,
	}

	if err := c.store.Replace(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save link: %w", err)
	}
	c.edit = nil
	c.changed(ctx)
	c.recorder.LinkEdited(countChanged)

	log.Info().
		Str("id", updated.ID).
		Bool("count_changed", countChanged).
		Int("history", len(updated.AdsHistory)).
		Msg("link updated")

	return updated.Clone(), nil
}

// Delete removes the link. An edit session on the same link is dropped.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	if c.edit != nil && c.edit.ID == id {
		c.edit = nil
	}
	c.changed(ctx)
	c.recorder.LinkDeleted()

	log.Info().Str("id", id).Msg("link deleted")
	return nil
}

// List returns every link in insertion order.
func (c *Controller) List(ctx context.Context) ([]*internal.MonitoredLink, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.List(ctx)
}

// Search filters the full list by query without touching controller state.
func (c *Controller) Search(ctx context.Context, query string) ([]*internal.MonitoredLink, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter(ctx, query)
}

// SetSearch remembers the search text used by Visible.
func (c *Controller) SetSearch(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = query
}

func (c *Controller) SearchText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Visible returns the links matching the remembered search text.
func (c *Controller) Visible(ctx context.Context) ([]*internal.MonitoredLink, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter(ctx, c.search)
}

func (c *Controller) Summary(ctx context.Context) (Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	links, err := c.store.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return summarize(links), nil
}

func (c *Controller) filter(ctx context.Context, query string) ([]*internal.MonitoredLink, error) {
	links, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	result := Filter(links, query, c.catalog)
	c.recorder.Searched(len(result))
	return result, nil
}

func (c *Controller) checkLabels(tag string, niches []string) error {
	if tag != "" && !c.catalog.HasTag(tag) {
		return fmt.Errorf("%w: %q", internal.ErrUnknownTag, tag)
	}
	if unknown, ok := lo.Find(niches, func(key string) bool { return !c.catalog.HasNiche(key) }); ok {
		return fmt.Errorf("%w: %q", internal.ErrUnknownNiche, unknown)
	}
	return nil
}

// session returns a copy of the edit session; callers hold mu.
func (c *Controller) session() EditSession {
	s := *c.edit
	s.Draft.Niches = slices.Clone(s.Draft.Niches)
	if s.Draft.Niches == nil {
		s.Draft.Niches = []string{}
	}
	return s
}

// changed bumps the revision and refreshes gauges; callers hold mu.
func (c *Controller) changed(ctx context.Context) {
	c.revision++

	links, err := c.store.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh link totals")
		return
	}
	s := summarize(links)
	c.recorder.SetTotals(s.Links, s.TotalAds)
}

func summarize(links []*internal.MonitoredLink) Summary {
	return Summary{
		Links:    len(links),
		TotalAds: lo.SumBy(links, func(l *internal.MonitoredLink) int { return l.AdsCount }),
	}
}
