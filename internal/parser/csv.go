package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nsitu/artasia-atlas/internal/sites"
)

type delimitedParser struct{}

func (delimitedParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

// Parse reads a header row followed by data rows. Short rows leave trailing
// columns absent and extra cells are dropped. Empty lines are skipped, but a
// line of bare delimiters is a row of blank cells.
func (delimitedParser) Parse(content []byte) ([]sites.RawRecord, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.Comma = sniffDelimiter(content)
	// csv trims past a whitespace delimiter, which would merge empty TSV cells.
	r.TrimLeadingSpace = r.Comma != '\t'

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []sites.RawRecord{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := []sites.RawRecord{}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, toRawRecord(header, rec))
	}
	return rows, nil
}

// sniffDelimiter picks ',', ';' or tab by counting them in the header line.
func sniffDelimiter(content []byte) rune {
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	best, bestN := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{'\t', ';'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

// toRawRecord zips header names with cells. The first occurrence of a
// duplicated header wins.
func toRawRecord(header, cells []string) sites.RawRecord {
	row := make(sites.RawRecord, len(header))
	for i, name := range header {
		if i >= len(cells) || name == "" {
			continue
		}
		if _, dup := row[name]; dup {
			continue
		}
		row[name] = cells[i]
	}
	return row
}

// allBlank reports whether every cell is empty after trimming.
func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
