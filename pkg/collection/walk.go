package collection

import "strings"

// Entry is a read-only, flattened view of one node.
type Entry struct {
	Kind Kind   `json:"type"`
	Name string `json:"name"`
	Path string `json:"path"`
	ID   string `json:"id,omitempty"`

	Node *Node `json:"-"`
}

// Canonical returns the "<kind>:<path>" form used for snapshots.
func (e Entry) Canonical() string {
	return string(e.Kind) + ":" + e.Path
}

// Flatten lists every node depth-first, a folder before its children, in
// sibling order.
func Flatten(t *Tree) []Entry {
	var entries []Entry
	walk(t.Items, "", &entries)
	return entries
}

func walk(items []*Node, parent string, out *[]Entry) {
	for _, n := range items {
		path := n.Name
		if parent != "" {
			path = parent + PathSeparator + n.Name
		}
		*out = append(*out, Entry{Kind: n.Kind(), Name: n.Name, Path: path, ID: n.ID, Node: n})
		if n.IsFolder() {
			walk(n.Children, path, out)
		}
	}
}

// Search returns the entries whose name contains query, in flatten order.
// Matching is case-insensitive unless caseSensitive is set.
func Search(t *Tree, query string, caseSensitive bool) []Entry {
	if !caseSensitive {
		query = strings.ToLower(query)
	}
	var matches []Entry
	for _, e := range Flatten(t) {
		haystack := e.Name
		if !caseSensitive {
			haystack = strings.ToLower(haystack)
		}
		if strings.Contains(haystack, query) {
			matches = append(matches, e)
		}
	}
	return matches
}

// Pick returns the first entry whose name equals name, falling back to the
// first substring match when there is no exact one.
func Pick(t *Tree, name string, caseSensitive bool) (Entry, bool) {
	matches := Search(t, name, caseSensitive)
	for _, e := range matches {
		if e.Name == name || (!caseSensitive && strings.ToLower(e.Name) == strings.ToLower(name)) {
			return e, true
		}
	}
	if len(matches) == 0 {
		return Entry{}, false
	}
	return matches[0], true
}
