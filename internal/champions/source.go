package champions

import (
	"context"
	"fmt"
	"strings"

	"github.com/ibs-source/champions-bot/internal/htmltree"
)

// Source runs the lookup, fetch, parse, resolve and extract steps for one roster
type Source struct {
	fetcher    Fetcher
	registry   *Registry
	tableClass string
	columns    Columns
}

// NewSource creates a Source reading tables with the given class token
func NewSource(fetcher Fetcher, registry *Registry, tableClass string, columns Columns) *Source {
	return &Source{fetcher: fetcher, registry: registry, tableClass: tableClass, columns: columns}
}

// Rosters returns the roster names the source can answer for
func (s *Source) Rosters() []string {
	return s.registry.Names()
}

// Holders returns the display label and title holders of the named roster.
// Unknown names fail with ErrRosterNotFound before the page is fetched.
func (s *Source) Holders(ctx context.Context, rosterName string) (string, []TitleHolder, error) {
	if _, err := s.registry.Lookup(rosterName); err != nil {
		return "", nil, err
	}

	body, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return "", nil, err
	}
	doc, err := htmltree.ParseBytes(body)
	if err != nil {
		return "", nil, err
	}

	table, label, err := s.registry.Resolve(rosterName, FindTables(doc, s.tableClass))
	if err != nil {
		return "", nil, err
	}
	return label, Extract(table, s.columns), nil
}

// Format renders one "title: champion" line per holder under the roster label
func Format(label string, holders []TitleHolder) string {
	var b strings.Builder
	if label != "" {
		fmt.Fprintf(&b, "%s champions\n", label)
	}
	if len(holders) == 0 {
		b.WriteString("No title holders found\n")
		return b.String()
	}
	for _, h := range holders {
		champion := h.Champion
		if champion == "" {
			champion = "Vacant"
		}
		fmt.Fprintf(&b, "%s: %s\n", h.Title, champion)
	}
	return b.String()
}
