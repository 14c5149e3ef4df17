package tui

import (
	"github.com/adtracksaver/adtrack/internal/catalog"
	"github.com/adtracksaver/adtrack/internal/dashboard"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent      = lipgloss.Color("#2563eb")
	muted       = lipgloss.Color("#64748b")
	destructive = lipgloss.Color("#e53935")
	success     = lipgloss.Color("#16a34a")

	// nicheColors maps catalog color names onto terminal colors.
	nicheColors = map[string]lipgloss.Color{
		"emerald": lipgloss.Color("#10b981"),
		"violet":  lipgloss.Color("#8b5cf6"),
		"rose":    lipgloss.Color("#f43f5e"),
		"amber":   lipgloss.Color("#f59e0b"),
		"blue":    lipgloss.Color("#3b82f6"),
		"pink":    lipgloss.Color("#ec4899"),
		"slate":   lipgloss.Color("#64748b"),
	}
)

type Styles struct {
	Title    lipgloss.Style
	Summary  lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Tag      lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
	Help     lipgloss.Style
	Panel    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Summary:  lipgloss.NewStyle().Foreground(muted),
		Row:      lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Label:    lipgloss.NewStyle().Width(12).Foreground(muted),
		Focused:  lipgloss.NewStyle().Width(12).Bold(true).Foreground(accent),
		Tag:      lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(accent).Padding(0, 1),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(destructive),
		Status:   lipgloss.NewStyle().Foreground(success),
		Help:     lipgloss.NewStyle().Foreground(muted).Italic(true),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1),
	}
}

// Niche renders a niche chip in the catalog color for key.
func (s Styles) Niche(cat *catalog.Catalog, key string) string {
	color, ok := nicheColors[cat.Color(key)]
	if !ok {
		color = nicheColors[catalog.FallbackColor]
	}
	return lipgloss.NewStyle().Foreground(color).Render(cat.Label(key))
}

func (s Styles) Trend(t dashboard.Trend) string {
	switch t {
	case dashboard.TrendUp:
		return lipgloss.NewStyle().Foreground(success).Render("▲")
	case dashboard.TrendDown:
		return lipgloss.NewStyle().Foreground(destructive).Render("▼")
	default:
		return s.Muted.Render("•")
	}
}
