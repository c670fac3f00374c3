package graph

// State is what the viewer shows: the built graph plus the active grouping
// and edge-label setting. Transitions return a new State and leave the
// receiver untouched.
type State struct {
	Graph      *Graph
	GroupBy    GroupKey
	EdgeLabels bool
}

// NewState applies key and labels to g without modifying g.
func NewState(g *Graph, key GroupKey, labels bool) State {
	if g == nil {
		g = &Graph{Nodes: []Node{}, Edges: []Edge{}, Groups: []Group{}}
	}
	s := State{Graph: g}
	return s.WithGrouping(key).WithEdgeLabels(labels)
}

// WithGrouping replaces every node's group for key.
func (s State) WithGrouping(key GroupKey) State {
	next := *s.Graph
	next.Nodes = ApplyGrouping(s.Graph.Nodes, key)
	s.Graph = &next
	s.GroupBy = key
	return s
}

// WithEdgeLabels shows or clears edge labels.
func (s State) WithEdgeLabels(show bool) State {
	next := *s.Graph
	next.Edges = ApplyEdgeLabels(s.Graph.Edges, show)
	s.Graph = &next
	s.EdgeLabels = show
	return s
}
