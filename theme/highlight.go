package theme

import "fmt"

const (
	// HighlightCDN hosts the highlight.js stylesheets.
	HighlightCDN = "https://cdn.jsdelivr.net/npm/highlight.js@11.9.0/styles"
	// HighlightLocal is where locally served stylesheets live.
	HighlightLocal = "/hljs"
)

// StylePath returns the location of the named highlight.js stylesheet, or ""
// when name is empty.
func StylePath(name string, cdn bool) string {
	if name == "" {
		return ""
	}
	base := HighlightLocal
	if cdn {
		base = HighlightCDN
	}
	return fmt.Sprintf("%s/%s.min.css", base, name)
}

// Name returns the stylesheet name for the given mode.
func (t HighlightTheme) Name(dark bool) string {
	if dark {
		return t.Dark
	}
	return t.Light
}

// Href returns the stylesheet location for the given mode.
func (t HighlightTheme) Href(dark, cdn bool) string {
	return StylePath(t.Name(dark), cdn)
}
