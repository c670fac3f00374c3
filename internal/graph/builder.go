package graph

import (
	"fmt"

	"github.com/nsitu/artasia-atlas/internal/geo"
	"github.com/nsitu/artasia-atlas/internal/sites"
)

// Edge layout hints, in pixels.
const (
	baseEdgeLength     = 30
	pixelsPerKm        = 8
	fallbackEdgeLength = 80
	fallbackEdgeValue  = 1
)

// Build turns normalized records into a graph. Node ids are 1-based in input
// order. Each partner group gets a representative (highest participation)
// linked to every other member, and representatives are linked pairwise.
// Build never fails; an empty input yields an empty graph.
func Build(records []sites.Record) *Graph {
	g := &Graph{
		Nodes:  buildNodes(records),
		Edges:  []Edge{},
		Groups: []Group{},
	}
	if len(g.Nodes) == 0 {
		return g
	}

	g.Groups = partition(g.Nodes)
	for i := range g.Groups {
		g.Groups[i].Representative = selectRepresentative(g.Nodes, g.Groups[i].Members)
	}

	g.Edges = append(g.Edges, memberEdges(g.Nodes, g.Groups)...)
	g.Edges = append(g.Edges, hubEdges(g.Nodes, g.Groups)...)

	for _, grp := range g.Groups {
		markRepresentative(&g.Nodes[grp.Representative-1])
	}
	return g
}

// buildNodes creates one node per record, sized against the dataset's
// participation range.
func buildNodes(records []sites.Record) []Node {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.Participation
	}
	sizer := NewSizeMapper(values)

	nodes := make([]Node, len(records))
	for i, r := range records {
		nodes[i] = Node{
			ID:            i + 1,
			Label:         r.Site,
			Size:          sizer.Map(r.Participation),
			Lat:           r.Lat,
			Lng:           r.Lng,
			Participation: r.Participation,
			Title:         tooltip(r),
			BorderWidth:   DefaultBorderWidth,
			Record:        r,
		}
		nodes[i].Group = Regroup(nodes[i], GroupByPartner)
	}
	return nodes
}

// partition groups node ids by Group. Groups keep first-appearance order and
// members keep row order; representative tie-breaks depend on both.
func partition(nodes []Node) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, n := range nodes {
		i, ok := index[n.Group]
		if !ok {
			i = len(groups)
			index[n.Group] = i
			groups = append(groups, Group{Key: n.Group})
		}
		groups[i].Members = append(groups[i].Members, n.ID)
	}
	return groups
}

// selectRepresentative returns the member with the highest participation.
// Only a strictly greater value replaces the current best, so the first
// member holding the maximum wins ties.
func selectRepresentative(nodes []Node, members []int) int {
	best := members[0]
	for _, id := range members[1:] {
		if nodes[id-1].Participation > nodes[best-1].Participation {
			best = id
		}
	}
	return best
}

func memberEdges(nodes []Node, groups []Group) []Edge {
	var edges []Edge
	for _, grp := range groups {
		rep := nodes[grp.Representative-1]
		for _, id := range grp.Members {
			if id == rep.ID {
				continue
			}
			edges = append(edges, newEdge(rep, nodes[id-1], EdgeMember))
		}
	}
	return edges
}

func hubEdges(nodes []Node, groups []Group) []Edge {
	var edges []Edge
	for i := 0; i < len(groups); i++ {
		a := nodes[groups[i].Representative-1]
		for j := i + 1; j < len(groups); j++ {
			b := nodes[groups[j].Representative-1]
			edges = append(edges, newEdge(a, b, EdgeHub))
		}
	}
	return edges
}

// newEdge applies the distance, value, length and title rules shared by both
// edge kinds.
func newEdge(from, to Node, kind EdgeKind) Edge {
	e := Edge{
		ID:       fmt.Sprintf("%d-%d", from.ID, to.ID),
		From:     from.ID,
		To:       to.ID,
		Kind:     kind,
		Distance: distanceBetween(from, to),
		Value:    fallbackEdgeValue,
		Length:   fallbackEdgeLength,
	}
	if e.Distance.Valid {
		e.Value = e.Distance.Km
		e.Length = baseEdgeLength + e.Distance.Km*pixelsPerKm
	}
	e.Title = e.Distance.String()
	return e
}

// distanceBetween returns the haversine distance rounded to metres, or
// Unavailable when either node lacks coordinates.
func distanceBetween(a, b Node) Distance {
	if !a.HasLocation() || !b.HasLocation() {
		return Unavailable
	}
	d := geo.DistanceKm(a.Lat, a.Lng, b.Lat, b.Lng)
	return Distance{Km: roundTo(d, 3), Valid: true}
}

func markRepresentative(n *Node) {
	n.Representative = true
	n.BorderWidth = RepresentativeBorderWidth
	n.Title = representativeBanner(n.Label) + n.Title
}
