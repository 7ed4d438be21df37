package inbox

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// FilterMode selects which active messages a list shows.
type FilterMode int

const (
	FilterAll FilterMode = iota
	FilterUnread
	FilterFlagged
)

var filterNames = []string{"all", "unread", "flagged"}

func (f FilterMode) String() string {
	if f >= 0 && int(f) < len(filterNames) {
		return filterNames[f]
	}
	return fmt.Sprintf("FilterMode(%d)", int(f))
}

// Next cycles All -> Unread -> Flagged -> All.
func (f FilterMode) Next() FilterMode {
	return (f + 1) % FilterMode(len(filterNames))
}

// ParseFilterMode accepts the names produced by String, case-insensitively.
func ParseFilterMode(s string) (FilterMode, error) {
	i := slices.Index(filterNames, strings.ToLower(strings.TrimSpace(s)))
	if i < 0 {
		return FilterAll, fmt.Errorf("inbox: unknown filter %q", s)
	}
	return FilterMode(i), nil
}

// Reader is the read side of a Store, which is all projections need.
type Reader interface {
	Active() []Message
	Removed() []Message
}

// Filter returns the active messages matching mode, most recent first.
func Filter(r Reader, mode FilterMode) []Message {
	var out []Message
	for _, m := range r.Active() {
		switch mode {
		case FilterUnread:
			if m.IsRead {
				continue
			}
		case FilterFlagged:
			if !m.IsFlagged {
				continue
			}
		}
		out = append(out, m)
	}
	SortByDateDesc(out)
	return out
}

// Search keeps the messages whose sender, preview or content contains query,
// ignoring case. A blank query returns list unchanged. Order is preserved.
func Search(list []Message, query string) []Message {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}
	var out []Message
	for _, m := range list {
		if matches(m, q) {
			out = append(out, m)
		}
	}
	return out
}

func matches(m Message, q string) bool {
	return strings.Contains(strings.ToLower(m.Sender), q) ||
		strings.Contains(strings.ToLower(m.Preview), q) ||
		strings.Contains(strings.ToLower(m.Content), q)
}

// View is the list a host renders: filter first, then search, then newest
// first.
func View(r Reader, mode FilterMode, query string) []Message {
	out := Search(Filter(r, mode), query)
	SortByDateDesc(out)
	return out
}

// RemovedView lists the removed bin, searched and newest first.
func RemovedView(r Reader, query string) []Message {
	out := Search(r.Removed(), query)
	SortByDateDesc(out)
	return out
}

// SortByDateDesc orders list newest first; equal dates keep their order.
func SortByDateDesc(list []Message) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.After(list[j].Date)
	})
}

// SuggestSenders returns distinct sender names in list within maxDistance
// edits of query, closest first. Hosts use it when a search finds nothing.
func SuggestSenders(list []Message, query string, maxDistance int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || maxDistance <= 0 {
		return nil
	}
	type candidate struct {
		name string
		dist int
	}
	var cands []candidate
	seen := make(map[string]bool)
	for _, m := range list {
		if seen[m.Sender] {
			continue
		}
		seen[m.Sender] = true
		d := senderDistance(strings.ToLower(m.Sender), q)
		if d <= maxDistance {
			cands = append(cands, candidate{name: m.Sender, dist: d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.name
	}
	return out
}

// senderDistance compares query against the whole sender name and each of
// its words, keeping the best match.
func senderDistance(sender, q string) int {
	best := levenshtein.ComputeDistance(sender, q)
	for _, w := range strings.Fields(sender) {
		if d := levenshtein.ComputeDistance(w, q); d < best {
			best = d
		}
	}
	return best
}
