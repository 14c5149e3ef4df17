// Package tui is the terminal front end of the dashboard. It drives a
// dashboard.Controller in-process: a searchable list, the add form and the
// edit form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adtracksaver/adtrack/internal"
	"github.com/adtracksaver/adtrack/internal/dashboard"
	"github.com/adtracksaver/adtrack/internal/form"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

type Model struct {
	ctx    context.Context
	dash   *dashboard.Controller
	styles Styles
	now    func() time.Time

	mode      mode
	search    textinput.Model
	searching bool
	links     []*internal.MonitoredLink
	cursor    int

	// add keeps its content between visits until a submit succeeds.
	add  *editor
	edit *editor

	status string
	err    string
	width  int
}

func New(ctx context.Context, dash *dashboard.Controller) Model {
	search := textinput.New()
	search.Placeholder = "search by tag or niche"
	search.Prompt = "/ "
	search.SetValue(dash.SearchText())

	m := Model{
		ctx:    ctx,
		dash:   dash,
		styles: DefaultStyles(),
		now:    time.Now,
		search: search,
		add:    newEditor(dash.Catalog()),
		edit:   newEditor(dash.Catalog()),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.dash.SetSearch(m.search.Value())
		m.refresh()
		return m, cmd
	}

	m.err = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.links)-1 {
			m.cursor++
		}
	case "a":
		m.mode = modeAdd
		m.status = ""
	case "e", "enter":
		if link, ok := m.selected(); ok {
			session, err := m.dash.StartEdit(m.ctx, link.ID)
			if err != nil {
				m.fail(err)
				break
			}
			m.edit.load(session.Draft)
			m.mode = modeEdit
			m.status = ""
		}
	case "d":
		if link, ok := m.selected(); ok {
			if err := m.dash.Delete(m.ctx, link.ID); err != nil {
				m.fail(err)
				break
			}
			m.status = "deleted " + link.URL
			m.refresh()
		}
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.err = ""
		return m, nil
	case tea.KeyEnter:
		err := m.add.form.Submit(func(c internal.Candidate) error {
			_, err := m.dash.Add(m.ctx, c)
			return err
		})
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.add.clear()
		m.mode = modeList
		m.err = ""
		m.status = "link added"
		m.refresh()
		m.cursor = len(m.links) - 1
		return m, nil
	}
	return m, m.add.update(msg)
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.dash.CancelEdit()
		m.mode = modeList
		m.err = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.saveEdit(); err != nil {
			m.fail(err)
			return m, nil
		}
		m.mode = modeList
		m.err = ""
		m.status = "changes saved"
		m.refresh()
		return m, nil
	}
	return m, m.edit.update(msg)
}

// saveEdit pushes the editor fields onto the controller draft and saves it.
func (m Model) saveEdit() error {
	snap := m.edit.form.Snapshot()
	session, err := m.dash.ChangeDraft(dashboard.DraftChange{
		URL:      &snap.URL,
		Site:     &snap.Site,
		AdsCount: &snap.AdsCount,
		Tags:     &snap.Tags,
	})
	if err != nil {
		return err
	}

	removed, added := lo.Difference(session.Draft.Niches, snap.Niches)
	for _, key := range append(removed, added...) {
		if _, err := m.dash.ChangeDraft(dashboard.DraftChange{ToggleNiche: &key}); err != nil {
			return err
		}
	}

	_, err = m.dash.SaveEdit(m.ctx)
	return err
}

func (m *Model) refresh() {
	links, err := m.dash.Visible(m.ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.links = links
	m.cursor = max(0, min(m.cursor, len(links)-1))
}

func (m *Model) selected() (*internal.MonitoredLink, bool) {
	if m.cursor < 0 || m.cursor >= len(m.links) {
		return nil, false
	}
	return m.links[m.cursor], true
}

func (m *Model) fail(err error) {
	log.Warn().Err(err).Msg("dashboard operation failed")

	var verr *form.ValidationError
	if errors.As(err, &verr) {
		m.err = verr.Error()
		return
	}
	m.err = err.Error()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("AdTrackSaver"))
	b.WriteString("  ")
	b.WriteString(m.summary())
	b.WriteString("\n\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(m.styles.Title.Render("New link"))
		b.WriteString("\n")
		b.WriteString(m.add.view(m.styles))
	case modeEdit:
		b.WriteString(m.styles.Title.Render("Editing link"))
		b.WriteString("\n")
		b.WriteString(m.edit.view(m.styles))
	default:
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
		b.WriteString(m.listView())
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.err))
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Status.Render(m.status))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help()))
	return b.String()
}

func (m Model) summary() string {
	s, err := m.dash.Summary(m.ctx)
	if err != nil {
		return ""
	}
	return m.styles.Summary.Render(fmt.Sprintf("%d links · %s active ads",
		s.Links, humanize.Comma(int64(s.TotalAds))))
}

func (m Model) listView() string {
	if len(m.links) == 0 {
		if strings.TrimSpace(m.search.Value()) != "" {
			return m.styles.Muted.Render("No links match this search.")
		}
		return m.styles.Muted.Render("No links yet. Press a to add one.")
	}

	cat := m.dash.Catalog()
	rows := make([]string, 0, len(m.links))
	for i, link := range m.links {
		points := dashboard.Trends(link.AdsHistory)
		trend := dashboard.TrendFlat
		if len(points) > 0 {
			trend = points[len(points)-1].Trend
		}

		parts := []string{
			fmt.Sprintf("%s %d ads", m.styles.Trend(trend), link.AdsCount),
			link.URL,
		}
		if link.Site != "" {
			parts = append(parts, m.styles.Muted.Render("("+link.Site+")"))
		}
		if link.Tags != "" {
			parts = append(parts, m.styles.Tag.Render(link.Tags))
		}
		for _, key := range link.Niches {
			parts = append(parts, m.styles.Niche(cat, key))
		}
		parts = append(parts, m.styles.Muted.Render(humanize.RelTime(link.AddedAt.Time(), m.now(), "ago", "from now")))

		row := strings.Join(parts, "  ")
		if i == m.cursor {
			rows = append(rows, m.styles.Selected.Render("› ")+row)
		} else {
			rows = append(rows, m.styles.Row.Render(row))
		}
	}

	out := strings.Join(rows, "\n")
	if link, ok := m.selected(); ok && dashboard.ShowHistory(link.AdsHistory) {
		out = lipgloss.JoinVertical(lipgloss.Left, out, "", m.historyView(link))
	}
	return out
}

func (m Model) historyView(link *internal.MonitoredLink) string {
	lines := []string{m.styles.Title.Render("Ads history")}
	for _, p := range dashboard.Trends(link.AdsHistory) {
		lines = append(lines, fmt.Sprintf("%s  %s  %d", p.ChangedAt.Display(), m.styles.Trend(p.Trend), p.Count))
	}
	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) help() string {
	switch {
	case m.mode == modeAdd:
		return "tab next field · ←/→ change tag or niche · space toggle niche · enter add · esc back"
	case m.mode == modeEdit:
		return "tab next field · ←/→ change tag or niche · space toggle niche · enter save · esc cancel"
	case m.searching:
		return "type to filter · enter/esc done"
	default:
		return "↑/↓ move · / search · a add · e edit · d delete · q quit"
	}
}
