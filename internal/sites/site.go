// Package sites turns raw dataset rows into typed site records.
package sites

import (
	"math"
	"strings"

	"github.com/nsitu/artasia-atlas/internal/geo"
)

// Dataset column names.
const (
	ColSite          = "Site"
	ColEducator      = "Artist Educator"
	ColPartner       = "Partner Org"
	ColAddress       = "Address"
	ColTitle         = "Title"
	ColPhoto         = "Photo link"
	ColLink          = "Link"
	ColEarlyON       = "EarlyON"
	ColParticipation = "Participation"
	ColGPS           = "GPS"
)

// Unknown stands in for a missing partner or educator.
const Unknown = "Unknown"

// Columns lists every column the normalizer reads, in dataset order.
var Columns = []string{
	ColSite, ColEducator, ColPartner, ColAddress, ColTitle,
	ColPhoto, ColLink, ColEarlyON, ColParticipation, ColGPS,
}

// RawRecord is one dataset row keyed by header name.
type RawRecord map[string]string

// Get returns the cell for column, or "" when the column is absent.
func (r RawRecord) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// Record is a normalized site row. Lat and Lng are NaN when the GPS cell
// did not yield two values.
type Record struct {
	Site          string
	Educator      string
	Partner       string
	Address       string
	Title         string
	PhotoURL      string
	Link          string
	EarlyON       bool
	Participation float64
	Lat           float64
	Lng           float64
}

// HasLocation reports whether both coordinates are finite.
func (r Record) HasLocation() bool {
	return geo.Valid(r.Lat, r.Lng)
}

// Normalize converts a raw row into a Record. It never fails: malformed
// cells fall back to empty strings, zero, or NaN.
func Normalize(raw RawRecord) Record {
	rec := Record{
		Site:     tidy(raw.Get(ColSite)),
		Educator: tidy(raw.Get(ColEducator)),
		Partner:  tidy(raw.Get(ColPartner)),
		Address:  tidy(raw.Get(ColAddress)),
		Title:    tidy(raw.Get(ColTitle)),
		PhotoURL: tidy(raw.Get(ColPhoto)),
		Link:     tidy(raw.Get(ColLink)),
		EarlyON:  asBool(raw.Get(ColEarlyON)),
	}
	if rec.Partner == "" {
		rec.Partner = Unknown
	}
	rec.Participation = parseNumber(tidy(raw.Get(ColParticipation)))
	if math.IsNaN(rec.Participation) {
		rec.Participation = 0
	}
	rec.Lat, rec.Lng = parseGPS(raw.Get(ColGPS))
	return rec
}

// NormalizeAll normalizes rows in order.
func NormalizeAll(rows []RawRecord) []Record {
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = Normalize(r)
	}
	return out
}

func tidy(s string) string { return strings.TrimSpace(s) }

func asBool(s string) bool { return strings.ToLower(tidy(s)) == "true" }

// parseGPS reads "<lat>, <lng>". Fewer than two comma-separated tokens yield
// NaN for both; otherwise the first two tokens are used positionally even if
// one of them is not a number.
func parseGPS(s string) (float64, float64) {
	parts := strings.Split(tidy(s), ",")
	if len(parts) < 2 {
		return math.NaN(), math.NaN()
	}
	return parseNumber(parts[0]), parseNumber(parts[1])
}
