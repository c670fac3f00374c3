package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/nsitu/artasia-atlas/internal/sites"
)

// buildXLSX assembles a minimal workbook from part name to XML body.
func buildXLSX(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

const (
	workbookXML = `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets><sheet name="Sites" sheetId="1" r:id="rId1"/><sheet name="Other" sheetId="2" r:id="rId2"/></sheets>
</workbook>`
	relsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId2" Target="worksheets/sheet2.xml"/>
  <Relationship Id="rId1" Target="worksheets/data.xml"/>
</Relationships>`
	sharedXML = `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <si><t>Site</t></si>
  <si><t>Partner Org</t></si>
  <si><t>GPS</t></si>
  <si><t>EarlyON</t></si>
  <si><r><t>Bay</t></r><r><t>front</t></r></si>
  <si><t>43.27, -79.87</t></si>
</sst>`
	sheetXML = `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData>
    <row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" t="s"><v>2</v></c><c r="D1" t="s"><v>3</v></c><c r="E1" t="inlineStr"><is><t>Participation</t></is></c></row>
    <row r="2"><c r="A2" t="s"><v>4</v></c><c r="C2" t="s"><v>5</v></c><c r="D2" t="b"><v>1</v></c><c r="E2"><v>17</v></c></row>
    <row r="3"></row>
  </sheetData>
</worksheet>`
)

func TestXLSXParse(t *testing.T) {
	data := buildXLSX(t, map[string]string{
		"xl/workbook.xml":            workbookXML,
		"xl/_rels/workbook.xml.rels": relsXML,
		"xl/sharedStrings.xml":       sharedXML,
		"xl/worksheets/data.xml":     sheetXML,
	})
	rows, err := Parse("sites.xlsx", data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d: %v", len(rows), rows)
	}
	r := sites.Normalize(rows[0])
	if r.Site != "Bayfront" {
		t.Fatalf("site = %q", r.Site)
	}
	if r.Partner != sites.Unknown {
		t.Fatalf("partner = %q", r.Partner)
	}
	if !r.EarlyON {
		t.Fatalf("boolean cell not read as TRUE")
	}
	if r.Participation != 17 || r.Lat != 43.27 || r.Lng != -79.87 {
		t.Fatalf("unexpected record: %+v", r)
	}
}

func TestXLSXFallbackSheet(t *testing.T) {
	data := buildXLSX(t, map[string]string{
		"xl/worksheets/sheet1.xml": `<worksheet><sheetData><row><c t="inlineStr"><is><t>Site</t></is></c></row><row><c t="inlineStr"><is><t>Solo</t></is></c></row></sheetData></worksheet>`,
	})
	rows, err := Parse("book.xlsx", data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 || rows[0][sites.ColSite] != "Solo" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestXLSXNoSheet(t *testing.T) {
	data := buildXLSX(t, map[string]string{"xl/workbook.xml": `<workbook><sheets></sheets></workbook>`})
	if _, err := Parse("book.xlsx", data); !errors.Is(err, ErrNoSheet) {
		t.Fatalf("expected ErrNoSheet, got %v", err)
	}
	if _, err := Parse("book.xlsx", []byte("not a zip")); err == nil {
		t.Fatalf("expected error for corrupt workbook")
	}
}

func TestColIndexFromRef(t *testing.T) {
	tests := map[string]int{"A1": 0, "C12": 2, "Z3": 25, "AA1": 26, "ab7": 27}
	for ref, want := range tests {
		if got := colIndexFromRef(ref); got != want {
			t.Errorf("colIndexFromRef(%q) = %d, want %d", ref, got, want)
		}
	}
}

func TestNormalizeRelPath(t *testing.T) {
	tests := map[string]string{
		"worksheets/sheet1.xml":     "xl/worksheets/sheet1.xml",
		"/xl/worksheets/sheet1.xml": "xl/worksheets/sheet1.xml",
		"xl/worksheets/sheet1.xml":  "xl/worksheets/sheet1.xml",
	}
	for in, want := range tests {
		if got := normalizeRelPath(in); got != want {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", in, got, want)
		}
	}
}
