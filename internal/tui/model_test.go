package tui

import (
	"context"
	"testing"
	"time"

	"github.com/adtracksaver/adtrack/internal/catalog"
	"github.com/adtracksaver/adtrack/internal/dashboard"
	"github.com/adtracksaver/adtrack/internal/repo"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) (Model, *dashboard.Controller) {
	t.Helper()
	dash := dashboard.New(repo.NewMemoryStore(), catalog.Default())
	m := New(context.Background(), dash)
	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	return m, dash
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func press(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// addLink walks the add form: url, skip site, count, tag, first niche.
func addLink(m Model, url, count string) Model {
	return press(m,
		runes("a"),
		runes(url),
		key(tea.KeyTab),
		key(tea.KeyTab),
		runes(count),
		key(tea.KeyTab),
		key(tea.KeyRight),
		key(tea.KeyTab),
		key(tea.KeySpace),
		key(tea.KeyEnter),
	)
}

func TestAddLink(t *testing.T) {
	m, dash := newTestModel(t)
	m = addLink(m, "http://a", "10")

	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, m.err)

	links, err := dash.List(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "http://a", links[0].URL)
	assert.Equal(t, 10, links[0].AdsCount)
	assert.Equal(t, catalog.Default().Tags[0], links[0].Tags)
	assert.Equal(t, []string{"emagrecimento"}, links[0].Niches)
	assert.Len(t, links[0].AdsHistory, 1)

	assert.Contains(t, m.View(), "http://a")
	assert.Contains(t, m.View(), "1 links · 10 active ads")
}

func TestAddLink_AdsCountIgnoresNonDigits(t *testing.T) {
	m, dash := newTestModel(t)
	m = press(m,
		runes("a"),
		runes("http://a"),
		key(tea.KeyTab),
		key(tea.KeyTab),
		runes("1"),
		runes("x"),
		runes("2"),
		key(tea.KeyEnter),
	)

	links, err := dash.List(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 12, links[0].AdsCount)
}

func TestAddLink_InvalidKeepsForm(t *testing.T) {
	m, dash := newTestModel(t)
	m = press(m, runes("a"), runes("http://a"), key(tea.KeyEnter))

	assert.Equal(t, modeAdd, m.mode)
	assert.Contains(t, m.err, "ads_count")
	assert.Equal(t, "http://a", m.add.form.Snapshot().URL)

	links, err := dash.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, links)

	// leaving and coming back keeps what was typed
	m = press(m, key(tea.KeyEsc), runes("a"))
	assert.Equal(t, "http://a", m.add.form.Snapshot().URL)
}

func TestEditLink(t *testing.T) {
	m, dash := newTestModel(t)
	m = addLink(m, "http://a", "10")

	m = press(m, runes("e"))
	require.Equal(t, modeEdit, m.mode)
	_, editing := dash.Editing()
	assert.True(t, editing)

	m = press(m,
		key(tea.KeyTab),
		key(tea.KeyTab),
		key(tea.KeyBackspace),
		key(tea.KeyBackspace),
		runes("15"),
		key(tea.KeyTab),
		key(tea.KeyTab),
		key(tea.KeyRight),
		key(tea.KeySpace),
		key(tea.KeyEnter),
	)

	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, m.err)

	links, err := dash.List(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 15, links[0].AdsCount)
	assert.ElementsMatch(t, []string{"emagrecimento", "ed"}, links[0].Niches)
	require.Len(t, links[0].AdsHistory, 2)
	assert.Equal(t, 10, links[0].AdsHistory[0].Count)
	assert.Equal(t, 15, links[0].AdsHistory[1].Count)

	_, editing = dash.Editing()
	assert.False(t, editing)
	assert.Contains(t, m.View(), "Ads history")
}

func TestEditLink_EmptyCountIsRejected(t *testing.T) {
	m, dash := newTestModel(t)
	m = addLink(m, "http://a", "7")

	m = press(m,
		runes("e"),
		key(tea.KeyTab),
		key(tea.KeyTab),
		key(tea.KeyBackspace),
		key(tea.KeyEnter),
	)

	assert.Equal(t, modeEdit, m.mode)
	assert.Contains(t, m.err, "ads_count")

	m = press(m, key(tea.KeyEsc))
	assert.Equal(t, modeList, m.mode)
	_, editing := dash.Editing()
	assert.False(t, editing)

	links, err := dash.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, links[0].AdsCount)
}

func TestDeleteLink(t *testing.T) {
	m, dash := newTestModel(t)
	m = addLink(m, "http://a", "1")
	m = addLink(m, "http://b", "2")
	require.Equal(t, 1, m.cursor)

	m = press(m, runes("k"), runes("d"))

	links, err := dash.List(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "http://b", links[0].URL)
	assert.Equal(t, 0, m.cursor)
}

func TestSearch(t *testing.T) {
	m, dash := newTestModel(t)
	m = addLink(m, "http://a", "1")

	m = press(m, runes("/"), runes("diab"))
	assert.True(t, m.searching)
	assert.Equal(t, "diab", dash.SearchText())
	assert.Empty(t, m.links)
	assert.Contains(t, m.View(), "No links match")

	for i := 0; i < 4; i++ {
		m = press(m, key(tea.KeyBackspace))
	}
	m = press(m, runes("emag"), key(tea.KeyEnter))
	assert.False(t, m.searching)
	assert.Len(t, m.links, 1)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
