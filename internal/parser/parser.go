// Package parser reads site datasets (CSV, TSV, XLSX) into raw rows.
package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/nsitu/artasia-atlas/internal/sites"
)

// Parser decodes one dataset format into raw rows keyed by header name.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte) ([]sites.RawRecord, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// Parse selects a parser by filename and decodes content. Unknown
// extensions are read as delimited text.
func Parse(filename string, content []byte) ([]sites.RawRecord, error) {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p.Parse(content)
		}
	}
	return delimitedParser{}.Parse(content)
}

// ParseFile reads and decodes a dataset on disk.
func ParseFile(p string) ([]sites.RawRecord, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(p, data)
}

// Load reads a dataset from a local path or an http(s) URL. timeout bounds
// the HTTP request; zero means no client timeout beyond ctx.
func Load(ctx context.Context, location string, timeout time.Duration) ([]sites.RawRecord, error) {
	if !IsRemote(location) {
		return ParseFile(location)
	}
	data, err := fetch(ctx, location, timeout)
	if err != nil {
		return nil, err
	}
	u, _ := url.Parse(location)
	return Parse(path.Base(u.Path), data)
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("fetch: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	return data, nil
}

func init() {
	Register(delimitedParser{})
	Register(xlsxParser{})
}

// ErrNoSheet indicates a workbook without a readable worksheet.
var ErrNoSheet = errors.New("workbook has no worksheet")
