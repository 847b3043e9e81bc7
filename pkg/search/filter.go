// Package search implements the text filter feeding the pickers. Filtering
// never mutates the catalog: it returns pruned copies carrying match
// annotations, and the picker treats the new root slice as a tree change.
package search

import (
	"strings"

	"github.com/veldhuizen/scopick/pkg/catalog"
	"github.com/veldhuizen/scopick/pkg/metrics"
)

// Filter returns the subtrees that contain a case-insensitive substring
// match for query. A node survives when its own name matches or any
// descendant's does; surviving nodes keep only their surviving children, so
// every path in the result ends in a match. An empty or blank query returns
// roots unchanged, same identity, so callers can tell nothing was filtered.
func Filter(roots []catalog.Node, query string) []catalog.Node {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return roots
	}
	defer metrics.Timer(metrics.SearchFilter)()
	lowered := strings.ToLower(trimmed)

	var out []catalog.Node
	for _, n := range roots {
		if kept := filterNode(n, lowered, trimmed); kept != nil {
			out = append(out, kept)
		}
	}
	return out
}

func filterNode(n catalog.Node, lowered, query string) catalog.Node {
	direct := strings.Contains(strings.ToLower(n.DisplayName()), lowered)

	var kept []catalog.Node
	for _, ch := range n.ChildNodes() {
		if c := filterNode(ch, lowered, query); c != nil {
			kept = append(kept, c)
		}
	}

	if !direct && len(kept) == 0 {
		return nil
	}
	return cloneWith(n, kept, catalog.Match{
		Query:      query,
		Direct:     direct,
		Descendant: len(kept) > 0,
	})
}

// cloneWith copies one node with new children and annotations. The type
// switch is exhaustive: Node is sealed to the two catalog variants, and a
// node's children always share its variant.
func cloneWith(n catalog.Node, children []catalog.Node, m catalog.Match) catalog.Node {
	switch v := n.(type) {
	case *catalog.Category:
		out := *v
		out.Match = m
		out.Children = nil
		for _, ch := range children {
			out.Children = append(out.Children, ch.(*catalog.Category))
		}
		return &out
	case *catalog.Geography:
		out := *v
		out.Match = m
		out.Children = nil
		for _, ch := range children {
			out.Children = append(out.Children, ch.(*catalog.Geography))
		}
		return &out
	}
	return nil
}
