package theme

import (
	"errors"

	"inkblog/cssgen"
)

var (
	// ErrUnknownTheme is returned when a theme key is not registered.
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrInvalidTheme is returned for definitions that are neither a
	// declarative theme nor an external stylesheet.
	ErrInvalidTheme = errors.New("invalid theme")
)

// Kind names a family of themes.
type Kind string

const (
	KindMarkdown  Kind = "markdown"
	KindPage      Kind = "page"
	KindHighlight Kind = "highlight"
)

// TypeCSS marks a Markdown theme backed by an external stylesheet.
const TypeCSS = "css"

// ThemeMetadata represents metadata parsed from a stylesheet header comment.
type ThemeMetadata struct {
	Theme       string
	Display     string
	Description string
}

// Summary is the listing form of any theme.
type Summary struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Active      bool   `json:"active,omitempty"`
}

// Definition is implemented by every theme type.
type Definition interface {
	Summary() Summary
}

// MarkdownTheme styles rendered Markdown content. It is either declarative
// (Config set) or an external stylesheet (Type "css" with CSSFile or CSSURL).
type MarkdownTheme struct {
	Key         string                 `yaml:"key"`
	DisplayName string                 `yaml:"displayName"`
	Description string                 `yaml:"description"`
	Type        string                 `yaml:"type,omitempty"`
	CSSFile     string                 `yaml:"cssFile,omitempty"`
	CSSURL      string                 `yaml:"cssUrl,omitempty"`
	Config      *cssgen.MarkdownConfig `yaml:"config,omitempty"`
}

// Variant holds the light and dark mode value of a page style.
type Variant struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// Pick returns the value for the given mode.
func (v Variant) Pick(dark bool) string {
	if dark {
		return v.Dark
	}
	return v.Light
}

// PageTheme styles the page chrome around the content.
type PageTheme struct {
	Key         string     `yaml:"key"`
	DisplayName string     `yaml:"displayName"`
	Description string     `yaml:"description"`
	Styles      PageStyles `yaml:"styles"`
}

type PageStyles struct {
	PageBackground         Variant   `yaml:"pageBackground"`
	PageBackgroundGradient *Variant  `yaml:"pageBackgroundGradient,omitempty"`
	TOC                    TOCStyles `yaml:"toc"`
}

type TOCStyles struct {
	Container TOCContainer `yaml:"container"`
	Header    TOCHeader    `yaml:"header"`
	Title     TOCTitle     `yaml:"title"`
	Link      TOCLink      `yaml:"link"`
}

type TOCContainer struct {
	Background     Variant `yaml:"background"`
	BackdropFilter string  `yaml:"backdropFilter"`
	Border         Variant `yaml:"border"`
	BorderRadius   string  `yaml:"borderRadius"`
	BoxShadow      Variant `yaml:"boxShadow"`
}

type TOCHeader struct {
	BorderBottom Variant `yaml:"borderBottom"`
}

type TOCTitle struct {
	Color      Variant `yaml:"color"`
	FontWeight string  `yaml:"fontWeight,omitempty"`
}

type TOCLink struct {
	Color  Variant       `yaml:"color"`
	Hover  TOCLinkHover  `yaml:"hover"`
	Active TOCLinkActive `yaml:"active"`
}

type TOCLinkHover struct {
	Color      Variant `yaml:"color"`
	Background Variant `yaml:"background"`
}

type TOCLinkActive struct {
	Color       Variant  `yaml:"color"`
	Background  Variant  `yaml:"background"`
	FontWeight  string   `yaml:"fontWeight"`
	PaddingLeft *Variant `yaml:"paddingLeft,omitempty"`
	BorderLeft  *Variant `yaml:"borderLeft,omitempty"`
}

// HighlightTheme pairs the highlight.js stylesheets used in light and dark mode.
type HighlightTheme struct {
	Key         string `yaml:"key"`
	DisplayName string `yaml:"displayName"`
	Description string `yaml:"description"`
	Light       string `yaml:"light"`
	Dark        string `yaml:"dark"`
}

func (t MarkdownTheme) Summary() Summary {
	return Summary{Key: t.Key, DisplayName: t.DisplayName, Description: t.Description}
}

func (t PageTheme) Summary() Summary {
	return Summary{Key: t.Key, DisplayName: t.DisplayName, Description: t.Description}
}

func (t HighlightTheme) Summary() Summary {
	return Summary{Key: t.Key, DisplayName: t.DisplayName, Description: t.Description}
}
