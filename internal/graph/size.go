package graph

import "math"

// Node size range in pixels.
const (
	MinNodeSize = 12
	MaxNodeSize = 36
	MidNodeSize = (MinNodeSize + MaxNodeSize) / 2
)

// SizeMapper maps participation onto [MinNodeSize, MaxNodeSize] using the
// range of the whole dataset.
type SizeMapper struct {
	min, max float64
	n        int // finite samples
}

// NewSizeMapper collects the finite values and their range.
func NewSizeMapper(values []float64) SizeMapper {
	m := SizeMapper{min: math.Inf(1), max: math.Inf(-1)}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		m.n++
		m.min = math.Min(m.min, v)
		m.max = math.Max(m.max, v)
	}
	return m
}

// Map returns the node size for participation p.
func (m SizeMapper) Map(p float64) int {
	if m.n == 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return MinNodeSize
	}
	if m.min == m.max {
		return MidNodeSize
	}
	norm := (p - m.min) / (m.max - m.min)
	return int(math.Round(MinNodeSize + norm*(MaxNodeSize-MinNodeSize)))
}
