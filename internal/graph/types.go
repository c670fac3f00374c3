// Package graph builds the site network: one node per site, grouped by
// partner, with a representative per group acting as the hub for distance
// edges.
package graph

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/nsitu/artasia-atlas/internal/geo"
	"github.com/nsitu/artasia-atlas/internal/sites"
)

// Border widths used by the renderer.
const (
	DefaultBorderWidth        = 1
	RepresentativeBorderWidth = 3
)

// EdgeKind distinguishes the two edge families.
type EdgeKind string

const (
	// EdgeMember links a group's representative to another member.
	EdgeMember EdgeKind = "member"
	// EdgeHub links two representatives.
	EdgeHub EdgeKind = "hub"
)

// Node is one site in the network.
type Node struct {
	ID             int
	Label          string
	Group          string
	Size           int
	Lat            float64
	Lng            float64
	Participation  float64
	Representative bool
	Title          string // tooltip markup
	BorderWidth    int

	Record sites.Record
}

// HasLocation reports whether the node has finite coordinates.
func (n Node) HasLocation() bool { return geo.Valid(n.Lat, n.Lng) }

// Distance is a kilometre value that may be unavailable.
type Distance struct {
	Km    float64
	Valid bool
}

// Unavailable is the distance between nodes lacking coordinates.
var Unavailable = Distance{}

// String renders "<km> km" or "distance unavailable".
func (d Distance) String() string {
	if !d.Valid {
		return "distance unavailable"
	}
	return formatKm(d.Km) + " km"
}

// MarshalJSON encodes an unavailable distance as null.
func (d Distance) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Km)
}

// MarshalYAML encodes an unavailable distance as null.
func (d Distance) MarshalYAML() (interface{}, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Km, nil
}

// Edge connects two node ids. From is always the representative.
type Edge struct {
	ID       string
	From     int
	To       int
	Kind     EdgeKind
	Distance Distance
	Value    float64 // rounded km, or 1 when the distance is unavailable
	Length   float64 // layout spring length hint
	Title    string
	Label    string // display text; empty unless labels are shown
}

// Group is the set of nodes sharing a group value, in row order.
type Group struct {
	Key            string
	Members        []int
	Representative int
}

// Graph is the built network. Groups are ordered by first appearance.
type Graph struct {
	Nodes  []Node
	Edges  []Edge
	Groups []Group
}

// IsEmpty returns true if the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return g == nil || len(g.Nodes) == 0
}

// Node looks a node up by id.
func (g *Graph) Node(id int) (Node, bool) {
	if g == nil || id < 1 || id > len(g.Nodes) {
		return Node{}, false
	}
	return g.Nodes[id-1], true
}

// Representatives returns the representative node of each group, in group order.
func (g *Graph) Representatives() []Node {
	if g == nil {
		return nil
	}
	out := make([]Node, 0, len(g.Groups))
	for _, grp := range g.Groups {
		if n, ok := g.Node(grp.Representative); ok {
			out = append(out, n)
		}
	}
	return out
}

// Stats summarises a graph.
type Stats struct {
	Nodes            int `json:"nodes" yaml:"nodes"`
	Edges            int `json:"edges" yaml:"edges"`
	Groups           int `json:"groups" yaml:"groups"`
	MemberEdges      int `json:"member_edges" yaml:"member_edges"`
	HubEdges         int `json:"hub_edges" yaml:"hub_edges"`
	UnavailableEdges int `json:"unavailable_edges" yaml:"unavailable_edges"`
	LocatedNodes     int `json:"located_nodes" yaml:"located_nodes"`
}

// Stats counts nodes, edges and groups.
func (g *Graph) Stats() Stats {
	var s Stats
	if g == nil {
		return s
	}
	s.Nodes = len(g.Nodes)
	s.Edges = len(g.Edges)
	s.Groups = len(g.Groups)
	for _, n := range g.Nodes {
		if n.HasLocation() {
			s.LocatedNodes++
		}
	}
	for _, e := range g.Edges {
		switch e.Kind {
		case EdgeMember:
			s.MemberEdges++
		case EdgeHub:
			s.HubEdges++
		}
		if !e.Distance.Valid {
			s.UnavailableEdges++
		}
	}
	return s
}

// formatKm prints the shortest decimal form, e.g. 3.5 rather than 3.500.
func formatKm(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
