package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/nsitu/artasia-atlas/internal/graph"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var (
	compiledTemplate = template.Must(template.New("atlas").Parse(htmlTemplate))
	emptyTemplate    = template.Must(template.New("empty").Parse(emptyHTMLTemplate))
)

// Physics holds the forceAtlas2Based solver settings.
type Physics struct {
	GravitationalConstant   float64
	SpringLength            float64
	SpringConstant          float64
	StabilizationIterations int
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title       string
	RendererURL string
	Physics     Physics
}

// DefaultHTMLOptions mirrors the layout the atlas was tuned with.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{
		Title:       "Artasia Atlas",
		RendererURL: "https://unpkg.com/vis-network/standalone/umd/vis-network.min.js",
		Physics: Physics{
			GravitationalConstant:   -30,
			SpringLength:            80,
			SpringConstant:          0.08,
			StabilizationIterations: 150,
		},
	}
}

type groupOption struct {
	Value    string
	Selected bool
}

type templateData struct {
	Title        string
	RendererURL  string
	GroupOptions []groupOption
	EdgeLabels   bool
	DataJSON     template.JS
	OptionsJSON  template.JS
}

// GenerateHTML renders a self-contained page that loads vis-network and
// draws the dataset. An empty dataset yields a placeholder page.
func GenerateHTML(d Dataset, opts HTMLOptions) (string, error) {
	def := DefaultHTMLOptions()
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if opts.RendererURL == "" {
		opts.RendererURL = def.RendererURL
	}

	var buf bytes.Buffer
	if d.IsEmpty() {
		if err := emptyTemplate.Execute(&buf, opts); err != nil {
			return "", fmt.Errorf("render empty page: %w", err)
		}
		return buf.String(), nil
	}

	dataJSON, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal dataset: %w", err)
	}
	optionsJSON, err := json.Marshal(networkOptions(opts.Physics))
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}

	data := templateData{
		Title:       opts.Title,
		RendererURL: opts.RendererURL,
		EdgeLabels:  d.ShowEdgeLabels,
		DataJSON:    template.JS(dataJSON),
		OptionsJSON: template.JS(optionsJSON),
	}
	for _, key := range graph.GroupKeys {
		data.GroupOptions = append(data.GroupOptions, groupOption{
			Value:    string(key),
			Selected: key == d.GroupBy,
		})
	}
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

// networkOptions builds vis-network options. Colours that depend on the
// viewer's colour scheme are filled in by the page script.
func networkOptions(p Physics) map[string]any {
	return map[string]any{
		"autoResize": true,
		"physics": map[string]any{
			"solver": "forceAtlas2Based",
			"forceAtlas2Based": map[string]any{
				"gravitationalConstant": p.GravitationalConstant,
				"springLength":          p.SpringLength,
				"springConstant":        p.SpringConstant,
			},
			"stabilization": map[string]any{"iterations": p.StabilizationIterations},
		},
		"interaction": map[string]any{"hover": true, "tooltipDelay": 120},
		"nodes": map[string]any{
			"shape":       "dot",
			"size":        graph.MinNodeSize,
			"font":        map[string]any{"size": 12, "face": "Inter, system-ui, sans-serif"},
			"borderWidth": graph.DefaultBorderWidth,
		},
		"edges": map[string]any{
			"smooth":  map[string]any{"type": "dynamic"},
			"scaling": map[string]any{"min": 1, "max": 6},
			"color":   map[string]any{"opacity": 0.7},
			"font":    map[string]any{"size": 11},
		},
	}
}

const emptyHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}} - Empty</title>
  <style>
    body {
      font-family: Inter, system-ui, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
    }
    .empty-state { text-align: center; color: #666; }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No sites to show</h2>
    <p>The dataset did not contain any rows.</p>
  </div>
</body>
</html>`

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <script src="{{.RendererURL}}"></script>
  <style>
    * { box-sizing: border-box; }
    body {
      font-family: Inter, system-ui, sans-serif;
      margin: 0;
      display: flex;
      flex-direction: column;
      height: 100vh;
    }
    header {
      display: flex;
      gap: 1.5em;
      align-items: center;
      padding: 0.5em 1em;
      border-bottom: 1px solid #ddd;
    }
    header h1 { font-size: 1.1em; margin: 0; }
    #network { flex: 1; }
    @media (prefers-color-scheme: dark) {
      body { background: #111; color: #eee; }
      header { border-color: #333; }
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Title}}</h1>
    <label>Group by
      <select id="groupBy">
        {{range .GroupOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>
        {{end}}
      </select>
    </label>
    <label><input type="checkbox" id="edgeLabels"{{if .EdgeLabels}} checked{{end}}> Show distances</label>
  </header>
  <div id="network"></div>
  <script>
    const data = {{.DataJSON}};
    const options = {{.OptionsJSON}};

    const isDarkMode = window.matchMedia && window.matchMedia('(prefers-color-scheme: dark)').matches;
    const textColor = isDarkMode ? '#ffffff' : '#000000';
    const edgeColor = isDarkMode ? '#666666' : '#848484';
    options.nodes.font.color = textColor;
    options.edges.font.color = textColor;
    options.edges.color.color = edgeColor;

    function htmlTitle(markup) {
      const el = document.createElement('div');
      el.innerHTML = markup;
      return el;
    }

    const nodes = new vis.DataSet(data.nodes.map(function (n) {
      return Object.assign({}, n, { title: htmlTitle(n.title) });
    }));
    const edges = new vis.DataSet(data.edges);
    new vis.Network(document.getElementById('network'), { nodes: nodes, edges: edges }, options);

    function applyGrouping(key) {
      const batch = data.groupings[key] || data.groupings['Partner Org'];
      nodes.update(batch);
    }

    function applyEdgeLabels(show) {
      edges.update(data.edges.map(function (e) {
        return { id: e.id, label: show ? data.edgeLabels[e.id] : undefined };
      }));
    }

    document.getElementById('groupBy').addEventListener('change', function (e) { applyGrouping(e.target.value); });
    document.getElementById('edgeLabels').addEventListener('change', function (e) { applyEdgeLabels(e.target.checked); });
  </script>
</body>
</html>`
