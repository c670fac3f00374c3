package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/nsitu/artasia-atlas/internal/sites"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse reads the first worksheet of a workbook. Row 1 is the header and
// rows without any value are skipped.
func (xlsxParser) Parse(content []byte) ([]sites.RawRecord, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	target, err := firstSheetPath(zr)
	if err != nil {
		return nil, err
	}
	sheetXML, err := readZipFile(zr, target)
	if err != nil {
		return nil, err
	}
	if sheetXML == nil {
		return nil, fmt.Errorf("open xlsx: %s: %w", target, ErrNoSheet)
	}
	sharedXML, err := readZipFile(zr, "xl/sharedStrings.xml")
	if err != nil {
		return nil, err
	}
	shared, err := parseSharedStrings(sharedXML)
	if err != nil {
		return nil, err
	}

	var sheet xlsxSheet
	if err := xml.Unmarshal(sheetXML, &sheet); err != nil {
		return nil, fmt.Errorf("parse sheet: %w", err)
	}
	rows := []sites.RawRecord{}
	if len(sheet.Rows) == 0 {
		return rows, nil
	}
	header := sheet.Rows[0].values(shared)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	for _, xr := range sheet.Rows[1:] {
		// Formatted rows with no values are part of most sheets' used range.
		cells := xr.values(shared)
		if allBlank(cells) {
			continue
		}
		rows = append(rows, toRawRecord(header, cells))
	}
	return rows, nil
}

type xlsxWorkbook struct {
	Sheets []struct {
		Name string `xml:"name,attr"`
		RID  string `xml:"id,attr"` // r:id
	} `xml:"sheets>sheet"`
}

type xlsxRelationships struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type xlsxSST struct {
	Items []struct {
		Text string   `xml:"t"`
		Runs []string `xml:"r>t"`
	} `xml:"si"`
}

type xlsxSheet struct {
	Rows []xlsxRow `xml:"sheetData>row"`
}

type xlsxRow struct {
	Cells []xlsxCell `xml:"c"`
}

type xlsxCell struct {
	Ref        string   `xml:"r,attr"`
	Type       string   `xml:"t,attr"`
	Value      string   `xml:"v"`
	Inline     string   `xml:"is>t"`
	InlineRuns []string `xml:"is>r>t"`
}

// values lays cells out by column reference, filling gaps with "".
func (r xlsxRow) values(shared []string) []string {
	var out []string
	for i, c := range r.Cells {
		col := i
		if c.Ref != "" {
			col = colIndexFromRef(c.Ref)
		}
		if col < 0 {
			continue
		}
		for len(out) <= col {
			out = append(out, "")
		}
		out[col] = c.text(shared)
	}
	return out
}

func (c xlsxCell) text(shared []string) string {
	switch c.Type {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(c.Value))
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		if c.Inline != "" {
			return c.Inline
		}
		return strings.Join(c.InlineRuns, "")
	case "b":
		if strings.TrimSpace(c.Value) == "1" {
			return "TRUE"
		}
		return "FALSE"
	default:
		return c.Value
	}
}

// firstSheetPath resolves the first sheet listed in the workbook to its
// part name, falling back to xl/worksheets/sheet1.xml.
func firstSheetPath(zr *zip.Reader) (string, error) {
	const fallback = "xl/worksheets/sheet1.xml"
	wbXML, err := readZipFile(zr, "xl/workbook.xml")
	if err != nil || wbXML == nil {
		return fallback, err
	}
	var wb xlsxWorkbook
	if err := xml.Unmarshal(wbXML, &wb); err != nil {
		return "", fmt.Errorf("parse workbook: %w", err)
	}
	if len(wb.Sheets) == 0 {
		return "", ErrNoSheet
	}
	relsXML, err := readZipFile(zr, "xl/_rels/workbook.xml.rels")
	if err != nil || relsXML == nil {
		return fallback, err
	}
	var rels xlsxRelationships
	if err := xml.Unmarshal(relsXML, &rels); err != nil {
		return "", fmt.Errorf("parse relationships: %w", err)
	}
	for _, rel := range rels.Items {
		if rel.ID == wb.Sheets[0].RID {
			return normalizeRelPath(rel.Target), nil
		}
	}
	return fallback, nil
}

// readZipFile returns the named part, or nil if the archive lacks it.
func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return b, nil
	}
	return nil, nil
}

func parseSharedStrings(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var sst xlsxSST
	if err := xml.Unmarshal(data, &sst); err != nil {
		return nil, fmt.Errorf("parse shared strings: %w", err)
	}
	out := make([]string, len(sst.Items))
	for i, si := range sst.Items {
		if si.Text != "" {
			out[i] = si.Text
		} else {
			out[i] = strings.Join(si.Runs, "")
		}
	}
	return out, nil
}

// colIndexFromRef converts a cell reference like "C12" to a 0-based column.
func colIndexFromRef(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = idx*26 + int(c-'A'+1)
		case c >= 'a' && c <= 'z':
			idx = idx*26 + int(c-'a'+1)
		default:
			return idx - 1
		}
	}
	return idx - 1
}

// normalizeRelPath turns a relationship target into a zip part name.
// Targets are relative to xl/ unless they start with a slash.
func normalizeRelPath(rel string) string {
	if strings.HasPrefix(rel, "/") {
		return strings.TrimPrefix(rel, "/")
	}
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}
