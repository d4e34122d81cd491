package champions

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ibs-source/champions-bot/internal/htmltree"
)

// ErrRosterNotFound is returned for unknown roster names and for rosters whose
// table is not on the page
var ErrRosterNotFound = errors.New("roster not found")

// Roster maps a name to its position among the page's roster tables
type Roster struct {
	Name  string
	Index int
	Label string
}

// Registry holds the known rosters. It is populated at startup and read-only afterwards.
type Registry struct {
	rosters map[string]Roster
}

// NewRegistry creates a registry holding the given rosters
func NewRegistry(rosters ...Roster) *Registry {
	r := &Registry{rosters: make(map[string]Roster, len(rosters))}
	for _, roster := range rosters {
		r.Register(roster)
	}
	return r
}

// DefaultRegistry returns the rosters in page order
func DefaultRegistry() *Registry {
	return NewRegistry(
		Roster{Name: "raw", Index: 0, Label: "RAW"},
		Roster{Name: "smackdown", Index: 1, Label: "SmackDown"},
		Roster{Name: "nxt", Index: 2, Label: "NXT"},
	)
}

// Register adds or replaces a roster. Names are matched case-insensitively.
func (r *Registry) Register(roster Roster) {
	roster.Name = normalizeName(roster.Name)
	r.rosters[roster.Name] = roster
}

// Lookup returns the roster registered under name
func (r *Registry) Lookup(name string) (Roster, error) {
	roster, ok := r.rosters[normalizeName(name)]
	if !ok {
		return Roster{}, fmt.Errorf("%w: %q", ErrRosterNotFound, name)
	}
	return roster, nil
}

// Resolve selects the table of the named roster by position
func (r *Registry) Resolve(name string, tables []*htmltree.Node) (*htmltree.Node, string, error) {
	roster, err := r.Lookup(name)
	if err != nil {
		return nil, "", err
	}
	if roster.Index < 0 || roster.Index >= len(tables) {
		return nil, "", fmt.Errorf("%w: %q expects table %d, page has %d",
			ErrRosterNotFound, roster.Name, roster.Index, len(tables))
	}
	return tables[roster.Index], roster.Label, nil
}

// Names returns the registered roster names ordered by table position
func (r *Registry) Names() []string {
	rosters := make([]Roster, 0, len(r.rosters))
	for _, roster := range r.rosters {
		rosters = append(rosters, roster)
	}
	sort.Slice(rosters, func(i, j int) bool {
		if rosters[i].Index != rosters[j].Index {
			return rosters[i].Index < rosters[j].Index
		}
		return rosters[i].Name < rosters[j].Name
	})

	names := make([]string, len(rosters))
	for i, roster := range rosters {
		names[i] = roster.Name
	}
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
