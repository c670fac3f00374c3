package graph

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/nsitu/artasia-atlas/internal/sites"
)

const placeholder = "—"

// tooltip renders the hover markup for a site. Cell values are escaped; the
// surrounding markup is what the page's tooltip element expects.
func tooltip(r sites.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b><br>", esc(r.Site))
	if isWebURL(r.PhotoURL) {
		fmt.Fprintf(&b, `<img src="%s" alt="" style="max-width:200px"><br>`, esc(r.PhotoURL))
	}
	if r.Address != "" {
		b.WriteString(esc(r.Address) + "<br>")
	}
	if r.Title != "" {
		b.WriteString("Project: " + esc(r.Title) + "<br>")
	}
	fmt.Fprintf(&b, "Artist Educator: %s<br>", orPlaceholder(esc(r.Educator)))
	fmt.Fprintf(&b, "Partner: %s<br>", orPlaceholder(esc(r.Partner)))
	participation := placeholder
	if r.Participation != 0 {
		participation = strconv.FormatFloat(r.Participation, 'f', -1, 64)
	}
	fmt.Fprintf(&b, "Participation: %s<br>", participation)
	if r.EarlyON {
		b.WriteString("EarlyON: Yes<br>")
	} else {
		b.WriteString("EarlyON: No<br>")
	}
	if isWebURL(r.Link) {
		fmt.Fprintf(&b, `<a href="%s" target="_blank">View Project</a><br>`, esc(r.Link))
	}
	if r.HasLocation() {
		fmt.Fprintf(&b, "GPS: %.6f, %.6f", r.Lat, r.Lng)
	} else {
		b.WriteString("GPS: " + placeholder)
	}
	return b.String()
}

func representativeBanner(label string) string {
	return "<b>📍 REPRESENTATIVE: " + esc(label) + "</b><br>"
}

func esc(s string) string { return html.EscapeString(s) }

// isWebURL accepts absolute http(s) URLs only. The page injects tooltips as
// HTML, so other schemes such as javascript: must never reach href or src.
func isWebURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
