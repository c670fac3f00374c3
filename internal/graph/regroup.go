package graph

import (
	"fmt"
	"strings"

	"github.com/nsitu/artasia-atlas/internal/sites"
)

// GroupKey selects the attribute nodes are clustered by.
type GroupKey string

const (
	GroupByPartner  GroupKey = "Partner Org"
	GroupByEducator GroupKey = "Artist Educator"
	GroupByEarlyON  GroupKey = "EarlyON"
)

// Group labels produced by the EarlyON key.
const (
	EarlyONGroup    = "EarlyON"
	NotEarlyONGroup = "Not EarlyON"
)

// GroupKeys lists the supported keys in display order.
var GroupKeys = []GroupKey{GroupByPartner, GroupByEducator, GroupByEarlyON}

// ParseGroupKey accepts a canonical key or a short alias
// (partner, educator, earlyon), case-insensitively. Empty means partner.
func ParseGroupKey(s string) (GroupKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "partner", "partner org", "partner-org":
		return GroupByPartner, nil
	case "educator", "artist educator", "artist-educator":
		return GroupByEducator, nil
	case "earlyon", "early-on":
		return GroupByEarlyON, nil
	default:
		return "", fmt.Errorf("invalid group key %q: must be partner, educator, or earlyon", s)
	}
}

// Regroup returns the group label of node under key. Unrecognized keys fall
// back to the partner grouping.
func Regroup(node Node, key GroupKey) string {
	r := node.Record
	switch key {
	case GroupByEducator:
		if r.Educator == "" {
			return sites.Unknown
		}
		return r.Educator
	case GroupByEarlyON:
		if r.EarlyON {
			return EarlyONGroup
		}
		return NotEarlyONGroup
	default:
		if r.Partner == "" {
			return sites.Unknown
		}
		return r.Partner
	}
}

// ApplyGrouping returns a copy of nodes with every Group rewritten for key.
// Representatives and edges are left as built.
func ApplyGrouping(nodes []Node, key GroupKey) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Group = Regroup(n, key)
		out[i] = n
	}
	return out
}

// Assignment is one entry of a group update batch.
type Assignment struct {
	ID    int    `json:"id" yaml:"id"`
	Group string `json:"group" yaml:"group"`
}

// Assignments returns the full group assignment for key, in node order.
func Assignments(nodes []Node, key GroupKey) []Assignment {
	out := make([]Assignment, len(nodes))
	for i, n := range nodes {
		out[i] = Assignment{ID: n.ID, Group: Regroup(n, key)}
	}
	return out
}
