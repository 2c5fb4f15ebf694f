package report

import (
	"sort"
	"strings"

	"github.com/verte-zerg/racereport/internal/model"
)

// DefaultCommunityLimit caps the community ranking.
const DefaultCommunityLimit = 50

// TicketGroup holds the registrations sharing one ticket label.
type TicketGroup struct {
	Key           TicketKey
	Label         string
	Registrations []model.Registration
}

// Grouped is the ordered ticket grouping every per-ticket facet is built from.
type Grouped struct {
	Groups []TicketGroup
	index  map[string]int
}

// Labels returns the group labels in canonical order.
func (g Grouped) Labels() []string {
	out := make([]string, len(g.Groups))
	for i, group := range g.Groups {
		out[i] = group.Label
	}
	return out
}

// Group returns the group for a label.
func (g Grouped) Group(label string) (TicketGroup, bool) {
	idx, ok := g.index[label]
	if !ok {
		return TicketGroup{}, false
	}
	return g.Groups[idx], true
}

// Len returns the number of groups.
func (g Grouped) Len() int {
	return len(g.Groups)
}

// GroupByTicketLabel partitions registrations by ticket label and orders the
// groups by category, then ticket type. Groups comparing equal keep the order in
// which their first registration appeared.
func GroupByTicketLabel(regs []model.Registration) Grouped {
	groups := make([]TicketGroup, 0)
	positions := map[string]int{}
	for _, r := range regs {
		key := KeyFor(r)
		label := key.Label()
		pos, ok := positions[label]
		if !ok {
			pos = len(groups)
			positions[label] = pos
			groups = append(groups, TicketGroup{Key: key, Label: label})
		}
		groups[pos].Registrations = append(groups[pos].Registrations, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return CompareTicketKeys(groups[i].Key, groups[j].Key) < 0
	})

	index := make(map[string]int, len(groups))
	for i, group := range groups {
		index[group.Label] = i
	}
	return Grouped{Groups: groups, index: index}
}

// CommunityRank is a community and its registration count.
type CommunityRank struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CityRank is a location and its registration count.
type CityRank struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// CommunityRanks counts registrations per non-blank community name, most
// popular first, keeping at most limit entries. A limit <= 0 keeps everything.
func CommunityRanks(regs []model.Registration, limit int) []CommunityRank {
	counts := newCounter()
	for _, r := range regs {
		if isBlank(r.CommunityName) {
			continue
		}
		counts.add(r.CommunityName)
	}
	ranked := counts.descending()
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]CommunityRank, 0, len(ranked))
	for _, entry := range ranked {
		out = append(out, CommunityRank{Name: entry.key, Count: entry.count})
	}
	return out
}

// CityRanks counts registrations per formatted location, most popular first.
// Registrations without any location are skipped.
func CityRanks(regs []model.Registration) []CityRank {
	counts := newCounter()
	for _, r := range regs {
		location, ok := FormatLocation(r)
		if !ok {
			continue
		}
		counts.add(location)
	}
	ranked := counts.descending()
	out := make([]CityRank, 0, len(ranked))
	for _, entry := range ranked {
		out = append(out, CityRank{Location: entry.key, Count: entry.count})
	}
	return out
}

// FormatLocation renders "<district>, <province>" from whichever parts are set,
// falling back to the country. It reports false when nothing is known.
func FormatLocation(r model.Registration) (string, bool) {
	parts := make([]string, 0, 2)
	if r.District != "" {
		parts = append(parts, r.District)
	}
	if r.Province != "" {
		parts = append(parts, r.Province)
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", "), true
	}
	if r.Country != "" {
		return r.Country, true
	}
	return "", false
}

// CategoryJersey is the jersey size histogram of one category.
type CategoryJersey struct {
	Category string      `json:"category"`
	Sizes    []SizeCount `json:"sizes"`
}

// JerseyStats builds a size histogram per category for registrations that chose
// a jersey size. Categories appear in the order they are first seen.
func JerseyStats(regs []model.Registration) []CategoryJersey {
	var order []string
	histograms := map[string]*sizeHistogram{}
	for _, r := range regs {
		if isBlank(r.JerseySize) {
			continue
		}
		category := orDefault(r.CategoryName, unknownCategory)
		h, ok := histograms[category]
		if !ok {
			h = newSizeHistogram()
			histograms[category] = h
			order = append(order, category)
		}
		h.add(r.JerseySize)
	}
	out := make([]CategoryJersey, 0, len(order))
	for _, category := range order {
		out = append(out, CategoryJersey{Category: category, Sizes: histograms[category].sorted()})
	}
	return out
}

type counterEntry struct {
	key   string
	count int
}

// counter counts keys in first-appearance order.
type counter struct {
	entries []counterEntry
	index   map[string]int
}

func newCounter() *counter {
	return &counter{index: map[string]int{}}
}

func (c *counter) add(key string) {
	idx, ok := c.index[key]
	if !ok {
		idx = len(c.entries)
		c.index[key] = idx
		c.entries = append(c.entries, counterEntry{key: key})
	}
	c.entries[idx].count++
}

// descending returns entries by count, ties in first-appearance order.
func (c *counter) descending() []counterEntry {
	out := append([]counterEntry(nil), c.entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].count > out[j].count
	})
	return out
}
