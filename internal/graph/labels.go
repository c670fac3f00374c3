package graph

// ApplyEdgeLabels returns a copy of edges with display labels set or cleared.
// Only edges with a known distance are labelled.
func ApplyEdgeLabels(edges []Edge, show bool) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		e.Label = ""
		if show && e.Distance.Valid {
			e.Label = formatKm(e.Value) + " km"
		}
		out[i] = e
	}
	return out
}
