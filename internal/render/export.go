package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nsitu/artasia-atlas/internal/graph"
	"github.com/nsitu/artasia-atlas/internal/utils"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats lists the supported output format names.
var ValidFormats = []string{FormatHTML, FormatJSON, FormatYAML}

// ValidateFormat normalizes a format name ("yml" is accepted for yaml).
func ValidateFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be html, json, or yaml", format)
	}
}

// Export is the machine-readable form of a build.
type Export struct {
	RunID       string                                `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time                             `json:"generated_at" yaml:"generated_at"`
	Source      string                                `json:"source" yaml:"source"`
	GroupBy     graph.GroupKey                        `json:"group_by" yaml:"group_by"`
	EdgeLabels  bool                                  `json:"edge_labels" yaml:"edge_labels"`
	Stats       graph.Stats                           `json:"stats" yaml:"stats"`
	Nodes       []VisNode                             `json:"nodes" yaml:"nodes"`
	Edges       []VisEdge                             `json:"edges" yaml:"edges"`
	Groupings   map[graph.GroupKey][]graph.Assignment `json:"groupings" yaml:"groupings"`
}

// NewExport wraps a view state with a fresh run id.
func NewExport(source string, s graph.State, now time.Time) Export {
	d := ToVis(s)
	return Export{
		RunID:       uuid.NewString(),
		GeneratedAt: now.UTC(),
		Source:      source,
		GroupBy:     s.GroupBy,
		EdgeLabels:  s.EdgeLabels,
		Stats:       s.Graph.Stats(),
		Nodes:       d.Nodes,
		Edges:       d.Edges,
		Groupings:   d.Groupings,
	}
}

// JSON encodes the export as indented JSON.
func (e Export) JSON() ([]byte, error) {
	return utils.PrettyJSON(e)
}

// YAML encodes the export as YAML.
func (e Export) YAML() ([]byte, error) {
	b, err := yaml.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}

// Render produces the output bytes for format.
func Render(format, source string, s graph.State, opts HTMLOptions, now time.Time) ([]byte, error) {
	f, err := ValidateFormat(format)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatJSON:
		return NewExport(source, s, now).JSON()
	case FormatYAML:
		return NewExport(source, s, now).YAML()
	default:
		html, err := GenerateHTML(ToVis(s), opts)
		if err != nil {
			return nil, err
		}
		return []byte(html), nil
	}
}
