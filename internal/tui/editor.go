package tui

import (
	"slices"
	"strconv"
	"strings"

	"github.com/adtracksaver/adtrack/internal/catalog"
	"github.com/adtracksaver/adtrack/internal/dashboard"
	"github.com/adtracksaver/adtrack/internal/form"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field int

const (
	fieldURL field = iota
	fieldSite
	fieldAdsCount
	fieldTag
	fieldNiches
	fieldCount
)

var fieldNames = [fieldCount]string{"URL", "Site", "Ads", "Tag", "Niches"}

// editor holds the field state shared by the add and edit screens. Every
// change goes through a form.Form, so the ads-count filter and the closed
// tag and niche sets apply to both.
type editor struct {
	catalog *catalog.Catalog
	form    *form.Form
	url     textinput.Model
	site    textinput.Model
	focus   field
	niche   int
}

func newEditor(cat *catalog.Catalog) *editor {
	url := textinput.New()
	url.Placeholder = "https://www.facebook.com/ads/library/..."
	url.Prompt = ""

	site := textinput.New()
	site.Placeholder = "optional"
	site.Prompt = ""

	ed := &editor{
		catalog: cat,
		form:    form.New(cat),
		url:     url,
		site:    site,
	}
	ed.setFocus(fieldURL)
	return ed
}

// load fills the editor from an edit draft.
func (ed *editor) load(d dashboard.Draft) {
	ed.form.Reset()
	ed.form.SetURL(d.URL)
	ed.form.SetSite(d.Site)
	ed.form.SetAdsCount(strconv.Itoa(d.AdsCount))
	_ = ed.form.SetTag(d.Tags)
	for _, key := range d.Niches {
		_ = ed.form.ToggleNiche(key)
	}

	ed.url.SetValue(d.URL)
	ed.site.SetValue(d.Site)
	ed.niche = 0
	ed.setFocus(fieldURL)
}

// clear resets the editor after a successful submit.
func (ed *editor) clear() {
	ed.form.Reset()
	ed.url.Reset()
	ed.site.Reset()
	ed.niche = 0
	ed.setFocus(fieldURL)
}

func (ed *editor) setFocus(f field) {
	ed.focus = f
	ed.url.Blur()
	ed.site.Blur()
	switch f {
	case fieldURL:
		ed.url.Focus()
	case fieldSite:
		ed.site.Focus()
	}
}

func (ed *editor) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		ed.setFocus((ed.focus + 1) % fieldCount)
		return nil
	case "shift+tab", "up":
		ed.setFocus((ed.focus + fieldCount - 1) % fieldCount)
		return nil
	}

	var cmd tea.Cmd
	switch ed.focus {
	case fieldURL:
		ed.url, cmd = ed.url.Update(msg)
		ed.form.SetURL(ed.url.Value())
	case fieldSite:
		ed.site, cmd = ed.site.Update(msg)
		ed.form.SetSite(ed.site.Value())
	case fieldAdsCount:
		switch msg.Type {
		case tea.KeyBackspace:
			ed.form.Backspace()
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				ed.form.TypeAdsCount(r)
			}
		}
	case fieldTag:
		switch msg.String() {
		case "right", "l", " ":
			ed.cycleTag(1)
		case "left", "h":
			ed.cycleTag(-1)
		}
	case fieldNiches:
		switch msg.String() {
		case "right", "l":
			ed.niche = (ed.niche + 1) % len(ed.catalog.Niches)
		case "left", "h":
			ed.niche = (ed.niche + len(ed.catalog.Niches) - 1) % len(ed.catalog.Niches)
		case " ", "x":
			_ = ed.form.ToggleNiche(ed.catalog.Niches[ed.niche].Key)
		}
	}
	return cmd
}

// cycleTag steps through "no tag" followed by every catalog tag.
func (ed *editor) cycleTag(step int) {
	options := append([]string{""}, ed.catalog.Tags...)
	i := slices.Index(options, ed.form.Snapshot().Tags)
	i = (i + step + len(options)) % len(options)
	_ = ed.form.SetTag(options[i])
}

func (ed *editor) view(s Styles) string {
	snap := ed.form.Snapshot()
	var b strings.Builder

	for f := field(0); f < fieldCount; f++ {
		label := s.Label.Render(fieldNames[f])
		if f == ed.focus {
			label = s.Focused.Render("› " + fieldNames[f])
		}
		b.WriteString(label)

		switch f {
		case fieldURL:
			b.WriteString(ed.url.View())
		case fieldSite:
			b.WriteString(ed.site.View())
		case fieldAdsCount:
			if snap.AdsCount == "" {
				b.WriteString(s.Muted.Render("0"))
			} else {
				b.WriteString(snap.AdsCount)
			}
		case fieldTag:
			tag := snap.Tags
			if tag == "" {
				tag = "none"
			}
			b.WriteString("‹ " + tag + " ›")
		case fieldNiches:
			chips := make([]string, 0, len(ed.catalog.Niches))
			for i, n := range ed.catalog.Niches {
				mark := "[ ]"
				if slices.Contains(snap.Niches, n.Key) {
					mark = "[x]"
				}
				chip := mark + " " + s.Niche(ed.catalog, n.Key)
				if f == ed.focus && i == ed.niche {
					chip = s.Selected.Render("›") + chip
				}
				chips = append(chips, chip)
			}
			b.WriteString(strings.Join(chips, "  "))
		}
		b.WriteString("\n")
	}

	return b.String()
}
