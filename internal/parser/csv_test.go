package parser_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nsitu/artasia-atlas/internal/parser"
	"github.com/nsitu/artasia-atlas/internal/sites"
)

const sitesCSV = "\xef\xbb\xbfSite, Artist Educator ,Partner Org,Address,Title,Photo link,Link,EarlyON,Participation,GPS,Notes\n" +
	"Bayfront Park,Jo Rivera,HPL,200 Harbour Front Dr,Shoreline,,https://example.org/a,TRUE,42,\"43.2733, -79.8745\",x\n" +
	"\n" +
	"Gage Park,,,1000 Main St E,,,,false,abc,invalid\n" +
	"Short Row,Sam\n" +
	",,,,,,,,,\n"

func TestParseFileCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sites.csv")
	if err := os.WriteFile(p, []byte(sitesCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows (empty line skipped), got %d: %v", len(rows), rows)
	}
	if got := rows[0][sites.ColSite]; got != "Bayfront Park" {
		t.Fatalf("BOM not stripped from header, Site = %q (row %v)", got, rows[0])
	}
	if got := rows[0][sites.ColEducator]; got != "Jo Rivera" {
		t.Fatalf("header not trimmed, educator = %q", got)
	}
	if got := rows[0][sites.ColGPS]; got != "43.2733, -79.8745" {
		t.Fatalf("quoted GPS = %q", got)
	}
	if _, ok := rows[2][sites.ColGPS]; ok {
		t.Fatalf("short row must leave GPS absent: %v", rows[2])
	}

	recs := sites.NormalizeAll(rows)
	if recs[1].Partner != sites.Unknown || recs[1].Participation != 0 || recs[1].HasLocation() {
		t.Fatalf("unexpected normalized row: %+v", recs[1])
	}
	if recs[2].Educator != "Sam" {
		t.Fatalf("educator = %q", recs[2].Educator)
	}
	if recs[3].Site != "" || recs[3].Partner != sites.Unknown || recs[3].HasLocation() {
		t.Fatalf("delimiter-only row should become an unknown site: %+v", recs[3])
	}
}

func TestParseDelimiters(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"semicolon", "sites.csv", "Site;Partner Org;GPS\nA;P;\"43.1, -79.1\"\n"},
		{"tab", "sites.tsv", "Site\tPartner Org\tGPS\nA\tP\t43.1, -79.1\n"},
		{"unknown extension", "sites.data", "Site,Partner Org,GPS\nA,P,\"43.1, -79.1\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := parser.Parse(tt.file, []byte(tt.content))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if len(rows) != 1 {
				t.Fatalf("rows = %d", len(rows))
			}
			r := sites.Normalize(rows[0])
			if r.Site != "A" || r.Partner != "P" || r.Lat != 43.1 || r.Lng != -79.1 {
				t.Fatalf("unexpected record: %+v", r)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, content := range []string{"", "Site,Partner Org\n"} {
		rows, err := parser.Parse("sites.csv", []byte(content))
		if err != nil {
			t.Fatalf("parse %q: %v", content, err)
		}
		if len(rows) != 0 {
			t.Fatalf("parse %q: expected no rows, got %d", content, len(rows))
		}
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := parser.ParseFile(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseTSVEmptyCells(t *testing.T) {
	rows, err := parser.Parse("sites.tsv", []byte("Site\tArtist Educator\tPartner Org\nA\t\tP\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 || rows[0][sites.ColEducator] != "" || rows[0][sites.ColPartner] != "P" {
		t.Fatalf("empty TSV cell shifted columns: %v", rows)
	}
}

func TestParseBlankCellRowsKept(t *testing.T) {
	rows, err := parser.Parse("sites.csv", []byte("Site,Partner Org\nA,P\n\n,\n  ,  \n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected only the empty line dropped, got %d: %v", len(rows), rows)
	}
	g := sites.NormalizeAll(rows)
	if g[1].Partner != sites.Unknown || g[2].Partner != sites.Unknown {
		t.Fatalf("blank rows should normalize to Unknown partner: %+v", g)
	}
}
