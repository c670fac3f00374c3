// Package render adapts a built graph to the vis-network renderer: node and
// edge attribute shapes, an interactive HTML page, and JSON/YAML exports.
package render

import (
	"math"

	"github.com/nsitu/artasia-atlas/internal/graph"
)

// VisNode is a node in vis-network's DataSet format.
type VisNode struct {
	ID             int      `json:"id" yaml:"id"`
	Label          string   `json:"label" yaml:"label"`
	Group          string   `json:"group" yaml:"group"`
	Size           int      `json:"size" yaml:"size"`
	Title          string   `json:"title" yaml:"title"`
	BorderWidth    int      `json:"borderWidth" yaml:"border_width"`
	Lat            *float64 `json:"lat" yaml:"lat"`
	Lng            *float64 `json:"lng" yaml:"lng"`
	Participation  *float64 `json:"participation" yaml:"participation"`
	Representative bool     `json:"representative" yaml:"representative"`
}

// VisEdge is an edge in vis-network's DataSet format. Value drives edge
// width scaling and Length the spring length.
type VisEdge struct {
	ID         string         `json:"id" yaml:"id"`
	From       int            `json:"from" yaml:"from"`
	To         int            `json:"to" yaml:"to"`
	Value      float64        `json:"value" yaml:"value"`
	Length     float64        `json:"length" yaml:"length"`
	Title      string         `json:"title" yaml:"title"`
	Label      string         `json:"label,omitempty" yaml:"label,omitempty"`
	Kind       graph.EdgeKind `json:"kind" yaml:"kind"`
	DistanceKm graph.Distance `json:"distanceKm" yaml:"distance_km"`
}

// Dataset is everything the page needs. Groupings and EdgeLabels are
// precomputed so the page only switches between results.
type Dataset struct {
	Nodes          []VisNode                             `json:"nodes"`
	Edges          []VisEdge                             `json:"edges"`
	Groupings      map[graph.GroupKey][]graph.Assignment `json:"groupings"`
	EdgeLabels     map[string]string                     `json:"edgeLabels"`
	GroupBy        graph.GroupKey                        `json:"groupBy"`
	ShowEdgeLabels bool                                  `json:"showEdgeLabels"`
}

// IsEmpty returns true if the dataset has no nodes.
func (d Dataset) IsEmpty() bool { return len(d.Nodes) == 0 }

// ToVis converts a view state into renderer attributes.
func ToVis(s graph.State) Dataset {
	g := s.Graph
	if g == nil {
		g = graph.Build(nil)
	}
	d := Dataset{
		Nodes:          make([]VisNode, 0, len(g.Nodes)),
		Edges:          make([]VisEdge, 0, len(g.Edges)),
		Groupings:      make(map[graph.GroupKey][]graph.Assignment, len(graph.GroupKeys)),
		EdgeLabels:     make(map[string]string),
		GroupBy:        s.GroupBy,
		ShowEdgeLabels: s.EdgeLabels,
	}
	for _, n := range g.Nodes {
		d.Nodes = append(d.Nodes, toVisNode(n))
	}
	for _, e := range g.Edges {
		d.Edges = append(d.Edges, toVisEdge(e))
	}
	for _, key := range graph.GroupKeys {
		d.Groupings[key] = graph.Assignments(g.Nodes, key)
	}
	for _, e := range graph.ApplyEdgeLabels(g.Edges, true) {
		if e.Label != "" {
			d.EdgeLabels[e.ID] = e.Label
		}
	}
	return d
}

func toVisNode(n graph.Node) VisNode {
	v := VisNode{
		ID:             n.ID,
		Label:          n.Label,
		Group:          n.Group,
		Size:           n.Size,
		Title:          n.Title,
		BorderWidth:    n.BorderWidth,
		Representative: n.Representative,
	}
	if n.HasLocation() {
		lat, lng := n.Lat, n.Lng
		v.Lat, v.Lng = &lat, &lng
	}
	// JSON has no encoding for Inf, which an "Infinity" cell produces.
	if p := n.Participation; !math.IsInf(p, 0) && !math.IsNaN(p) {
		v.Participation = &p
	}
	return v
}

func toVisEdge(e graph.Edge) VisEdge {
	return VisEdge{
		ID:         e.ID,
		From:       e.From,
		To:         e.To,
		Value:      e.Value,
		Length:     e.Length,
		Title:      e.Title,
		Label:      e.Label,
		Kind:       e.Kind,
		DistanceKm: e.Distance,
	}
}
