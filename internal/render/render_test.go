package render

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nsitu/artasia-atlas/internal/graph"
	"github.com/nsitu/artasia-atlas/internal/sites"
	"gopkg.in/yaml.v3"
)

func fixtureState(t *testing.T, key graph.GroupKey, labels bool) graph.State {
	t.Helper()
	records := []sites.Record{
		{Site: "Bayfront", Partner: "HPL", Educator: "Jo", EarlyON: true, Participation: 40, Lat: 43.0, Lng: -79.8},
		{Site: "Gage", Partner: "HPL", Participation: 10, Lat: 44.0, Lng: -79.8},
		{Site: "Lost </script>", Partner: "YWCA", Participation: 5, Lat: math.NaN(), Lng: math.NaN()},
	}
	return graph.NewState(graph.Build(records), key, labels)
}

func TestToVis(t *testing.T) {
	d := ToVis(fixtureState(t, graph.GroupByEducator, true))

	if len(d.Nodes) != 3 || len(d.Edges) != 2 {
		t.Fatalf("unexpected sizes: %d nodes, %d edges", len(d.Nodes), len(d.Edges))
	}
	if d.Nodes[0].Group != "Jo" || d.Nodes[1].Group != "Unknown" {
		t.Fatalf("state grouping not applied: %+v", d.Nodes[:2])
	}
	if d.Nodes[0].Lat == nil || *d.Nodes[0].Lat != 43.0 {
		t.Fatalf("lat not carried: %+v", d.Nodes[0])
	}
	if d.Nodes[2].Lat != nil || d.Nodes[2].Lng != nil {
		t.Fatalf("unknown location must be nil: %+v", d.Nodes[2])
	}
	if !d.Nodes[0].Representative || d.Nodes[0].BorderWidth != graph.RepresentativeBorderWidth {
		t.Fatalf("representative not marked: %+v", d.Nodes[0])
	}
	if len(d.Groupings) != len(graph.GroupKeys) {
		t.Fatalf("expected a grouping per key, got %d", len(d.Groupings))
	}
	if got := d.Groupings[graph.GroupByEarlyON][0].Group; got != "EarlyON" {
		t.Fatalf("EarlyON grouping = %q", got)
	}
	if d.EdgeLabels["1-2"] != "111.195 km" {
		t.Fatalf("edge label for 1-2 = %q", d.EdgeLabels["1-2"])
	}
	if _, ok := d.EdgeLabels["1-3"]; ok {
		t.Fatalf("unavailable edge must not get a label")
	}
	if d.Edges[0].Label != "111.195 km" {
		t.Fatalf("state labels not applied: %+v", d.Edges[0])
	}

	b, err := json.Marshal(d.Edges[1])
	if err != nil {
		t.Fatalf("marshal edge: %v", err)
	}
	for _, want := range []string{`"distanceKm":null`, `"value":1`, `"length":80`, `"title":"distance unavailable"`} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("edge json missing %s: %s", want, b)
		}
	}
}

func TestGenerateHTML(t *testing.T) {
	opts := DefaultHTMLOptions()
	opts.Title = "Spring Atlas"
	out, err := GenerateHTML(ToVis(fixtureState(t, graph.GroupByEarlyON, false)), opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{
		"<title>Spring Atlas</title>",
		`<script src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>`,
		`<option value="EarlyON" selected>EarlyON</option>`,
		`"forceAtlas2Based"`,
		`"gravitationalConstant":-30`,
		`"Bayfront"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
	if strings.Contains(out, "Lost </script>") {
		t.Fatalf("site name broke out of the script block")
	}
	if strings.Contains(out, `id="edgeLabels" checked`) {
		t.Fatalf("edge labels checkbox should be unchecked")
	}
}

func TestGenerateHTMLEmpty(t *testing.T) {
	s := graph.NewState(graph.Build(nil), graph.GroupByPartner, false)
	out, err := GenerateHTML(ToVis(s), HTMLOptions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "No sites to show") || !strings.Contains(out, "Artasia Atlas - Empty") {
		t.Fatalf("expected empty state page, got: %s", out)
	}
}

func TestExport(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s := fixtureState(t, graph.GroupByPartner, false)

	e := NewExport("sites.csv", s, now)
	if _, err := uuid.Parse(e.RunID); err != nil {
		t.Fatalf("run id is not a uuid: %q", e.RunID)
	}
	if e.Stats.Nodes != 3 || e.Stats.UnavailableEdges != 1 {
		t.Fatalf("unexpected stats: %+v", e.Stats)
	}

	b, err := e.JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded struct {
		Source string         `json:"source"`
		Stats  graph.Stats    `json:"stats"`
		Nodes  []VisNode      `json:"nodes"`
		Edges  []map[string]any `json:"edges"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Source != "sites.csv" || decoded.Stats != e.Stats || len(decoded.Nodes) != 3 {
		t.Fatalf("unexpected decoded export: %+v", decoded)
	}
	if decoded.Edges[1]["distanceKm"] != nil {
		t.Fatalf("expected null distance, got %v", decoded.Edges[1]["distanceKm"])
	}

	y, err := e.YAML()
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var generic map[string]any
	if err := yaml.Unmarshal(y, &generic); err != nil {
		t.Fatalf("yaml decode: %v", err)
	}
	if generic["source"] != "sites.csv" || generic["group_by"] != "Partner Org" {
		t.Fatalf("unexpected yaml: %s", y)
	}
	if !strings.Contains(string(y), "distance_km: null") {
		t.Fatalf("expected null distance in yaml: %s", y)
	}
}

func TestValidateFormat(t *testing.T) {
	tests := map[string]string{"": FormatHTML, "HTML": FormatHTML, "json": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML}
	for in, want := range tests {
		got, err := ValidateFormat(in)
		if err != nil || got != want {
			t.Errorf("ValidateFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ValidateFormat("pdf"); err == nil {
		t.Fatalf("expected error for pdf")
	}
}

func TestRender(t *testing.T) {
	s := fixtureState(t, graph.GroupByPartner, true)
	for _, f := range ValidFormats {
		b, err := Render(f, "sites.csv", s, DefaultHTMLOptions(), time.Now())
		if err != nil {
			t.Fatalf("render %s: %v", f, err)
		}
		if len(b) == 0 {
			t.Fatalf("render %s: empty output", f)
		}
	}
	if _, err := Render("svg", "sites.csv", s, DefaultHTMLOptions(), time.Now()); err == nil {
		t.Fatalf("expected error for svg")
	}
}

func TestRenderNonFiniteParticipation(t *testing.T) {
	records := sites.NormalizeAll([]sites.RawRecord{
		{sites.ColSite: "Huge", sites.ColPartner: "HPL", sites.ColParticipation: "1e400", sites.ColGPS: "43.0, -79.8"},
		{sites.ColSite: "Endless", sites.ColPartner: "HPL", sites.ColParticipation: "Infinity", sites.ColGPS: "44.0, -79.8"},
		{sites.ColSite: "Small", sites.ColPartner: "YWCA", sites.ColParticipation: "3"},
	})
	if !math.IsInf(records[0].Participation, 1) || !math.IsInf(records[1].Participation, 1) {
		t.Fatalf("expected +Inf participation, got %v and %v", records[0].Participation, records[1].Participation)
	}
	s := graph.NewState(graph.Build(records), graph.GroupByPartner, true)

	d := ToVis(s)
	if d.Nodes[0].Participation != nil || d.Nodes[1].Participation != nil {
		t.Fatalf("non-finite participation must be omitted: %+v", d.Nodes[:2])
	}
	if d.Nodes[2].Participation == nil || *d.Nodes[2].Participation != 3 {
		t.Fatalf("finite participation lost: %+v", d.Nodes[2])
	}

	for _, f := range ValidFormats {
		b, err := Render(f, "sites.csv", s, DefaultHTMLOptions(), time.Now())
		if err != nil {
			t.Fatalf("render %s: %v", f, err)
		}
		if !strings.Contains(string(b), "Endless") {
			t.Fatalf("render %s: node missing from output", f)
		}
	}

	b, err := NewExport("sites.csv", s, time.Now()).JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(string(b), `"participation": null`) {
		t.Fatalf("expected null participation in export: %s", b)
	}
}
