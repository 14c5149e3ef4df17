package dashboard

import (
	"strings"

	"github.com/adtracksaver/adtrack/internal"
	"github.com/adtracksaver/adtrack/internal/catalog"
	"github.com/samber/lo"
)

// Filter returns the links whose tag or any niche label contains query,
// ignoring case. A blank query returns links unchanged.
func Filter(links []*internal.MonitoredLink, query string, cat *catalog.Catalog) []*internal.MonitoredLink {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return links
	}
	return lo.Filter(links, func(link *internal.MonitoredLink, _ int) bool {
		return matches(link, needle, cat)
	})
}

func matches(link *internal.MonitoredLink, needle string, cat *catalog.Catalog) bool {
	if strings.Contains(strings.ToLower(link.Tags), needle) {
		return true
	}
	return lo.SomeBy(link.Niches, func(key string) bool {
		return strings.Contains(strings.ToLower(cat.Label(key)), needle)
	})
}
