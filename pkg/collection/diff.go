package collection

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Diff lists the canonical entries that appeared and disappeared between two
// snapshots. Both sides are sorted.
type Diff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Snapshot returns the sorted set of "<kind>:<path>" strings of a tree.
func Snapshot(t *Tree) []string {
	set := make(map[string]struct{})
	for _, e := range Flatten(t) {
		set[e.Canonical()] = struct{}{}
	}
	return sortedKeys(set)
}

// DiffSnapshots computes the set difference of two snapshots.
func DiffSnapshots(before, after []string) Diff {
	beforeSet := toSet(before)
	afterSet := toSet(after)

	added := make(map[string]struct{})
	for s := range afterSet {
		if _, ok := beforeSet[s]; !ok {
			added[s] = struct{}{}
		}
	}
	removed := make(map[string]struct{})
	for s := range beforeSet {
		if _, ok := afterSet[s]; !ok {
			removed[s] = struct{}{}
		}
	}
	return Diff{Added: sortedKeys(added), Removed: sortedKeys(removed)}
}

// Preview renders the dry-run payload {"diff": ..., "note": ...} for the
// change from before to after. An empty note is left out.
func Preview(before, after *Tree, note string) ([]byte, error) {
	payload := struct {
		Diff Diff   `json:"diff"`
		Note string `json:"note,omitempty"`
	}{
		Diff: DiffSnapshots(Snapshot(before), Snapshot(after)),
		Note: note,
	}
	data, err := marshal(payload)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
