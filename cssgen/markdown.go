package cssgen

import (
	"fmt"
	"strings"
)

const (
	// DefaultBaseSelector scopes Markdown rules when the caller passes none.
	DefaultBaseSelector = ".markdown-content"

	// DesktopBreakpoint is the min-width above which the configured paragraph
	// font size is re-applied.
	DesktopBreakpoint = "768px"
)

// MarkdownConfig holds the style of each Markdown element. A nil Style means
// the element is not themed and produces no rule.
type MarkdownConfig struct {
	H1         Style `yaml:"h1,omitempty"`
	H2         Style `yaml:"h2,omitempty"`
	H3         Style `yaml:"h3,omitempty"`
	H4         Style `yaml:"h4,omitempty"`
	H5         Style `yaml:"h5,omitempty"`
	H6         Style `yaml:"h6,omitempty"`
	P          Style `yaml:"p,omitempty"`
	UL         Style `yaml:"ul,omitempty"`
	OL         Style `yaml:"ol,omitempty"`
	LI         Style `yaml:"li,omitempty"`
	Blockquote Style `yaml:"blockquote,omitempty"`
	A          Style `yaml:"a,omitempty"`
	AHover     Style `yaml:"aHover,omitempty"`
	Code       Style `yaml:"code,omitempty"`
	Table      Style `yaml:"table,omitempty"`
	TH         Style `yaml:"th,omitempty"`
	TD         Style `yaml:"td,omitempty"`
}

var blockquoteOptions = RuleOptions{
	Exclude:    []Property{DarkBackgroundColor},
	Shorthands: []Shorthand{{Property: Padding, Longhands: []Property{PaddingLeft}}},
}

func heading(size, weight, lineHeight, top, bottom string) Style {
	return Style{
		{FontSize, size},
		{FontWeight, weight},
		{LineHeight, lineHeight},
		{MarginTop, top},
		{MarginBottom, bottom},
	}
}

type markdownElement struct {
	selector string
	style    func(*MarkdownConfig) Style
	defaults Style
	options  RuleOptions
}

// markdownElements lists the themed elements in output order.
var markdownElements = []markdownElement{
	{"h1", func(c *MarkdownConfig) Style { return c.H1 }, heading("2.25rem", "700", "1.3", "2rem", "1rem"), RuleOptions{}},
	{"h2", func(c *MarkdownConfig) Style { return c.H2 }, heading("1.875rem", "600", "1.4", "1.75rem", "0.75rem"), RuleOptions{}},
	{"h3", func(c *MarkdownConfig) Style { return c.H3 }, heading("1.5rem", "600", "1.5", "1.5rem", "0.75rem"), RuleOptions{}},
	{"h4", func(c *MarkdownConfig) Style { return c.H4 }, heading("1.375rem", "600", "1.5", "1.5rem", "0.75rem"), RuleOptions{}},
	{"h5", func(c *MarkdownConfig) Style { return c.H5 }, heading("1.25rem", "600", "1.5", "1.25rem", "0.625rem"), RuleOptions{}},
	{"h6", func(c *MarkdownConfig) Style { return c.H6 }, heading("1.125rem", "600", "1.5", "1.25rem", "0.625rem"), RuleOptions{}},
	{"p", func(c *MarkdownConfig) Style { return c.P }, Style{{FontSize, "1rem"}, {LineHeight, "1.7"}, {MarginBottom, "1.25rem"}}, RuleOptions{}},
	{"ul", func(c *MarkdownConfig) Style { return c.UL }, Style{{MarginBottom, "1.25rem"}, {PaddingLeft, "1.625rem"}}, RuleOptions{}},
	{"ol", func(c *MarkdownConfig) Style { return c.OL }, Style{{MarginBottom, "1.25rem"}, {PaddingLeft, "1.625rem"}}, RuleOptions{}},
	{"li", func(c *MarkdownConfig) Style { return c.LI }, Style{{MarginBottom, "0.5rem"}}, RuleOptions{}},
	{"blockquote", func(c *MarkdownConfig) Style { return c.Blockquote }, Style{
		{BorderLeft, "4px solid #e5e7eb"},
		{PaddingLeft, "1rem"},
		{Margin, "1.5rem 0"},
		{FontStyle, "italic"},
	}, blockquoteOptions},
	{"a", func(c *MarkdownConfig) Style { return c.A }, Style{
		{Color, "#3b82f6"},
		{TextDecoration, "none"},
		{BorderBottom, "2px solid transparent"},
		{Transition, "all 0.2s"},
	}, RuleOptions{}},
	{"a:hover", func(c *MarkdownConfig) Style { return c.AHover }, Style{{Color, "#1d4ed8"}}, RuleOptions{}},
	{"code:not(pre code)", func(c *MarkdownConfig) Style { return c.Code }, nil, RuleOptions{}},
	{"table", func(c *MarkdownConfig) Style { return c.Table }, nil, RuleOptions{}},
	{"th", func(c *MarkdownConfig) Style { return c.TH }, nil, RuleOptions{}},
	{"td", func(c *MarkdownConfig) Style { return c.TD }, nil, RuleOptions{}},
}

// MarkdownRules returns the rules for every element present in cfg, each
// scoped under base.
func MarkdownRules(cfg MarkdownConfig, base string) []Rule {
	if base == "" {
		base = DefaultBaseSelector
	}
	var rules []Rule
	for _, el := range markdownElements {
		style := el.style(&cfg)
		if style == nil {
			continue
		}
		rules = append(rules, Rule{
			Selector: base + " " + el.selector,
			Config:   style,
			Defaults: el.defaults,
			Options:  el.options,
		})
	}
	return rules
}

// GenerateMarkdownTheme compiles cfg into a stylesheet scoped under base.
// Besides one rule per element it appends a desktop override for the
// paragraph font size and a dark-mode blockquote background when the theme
// declares them.
func GenerateMarkdownTheme(cfg MarkdownConfig, base string) string {
	if base == "" {
		base = DefaultBaseSelector
	}

	var b strings.Builder
	b.WriteString(Generate(MarkdownRules(cfg, base)))

	if size := cfg.P.Get(FontSize); size != "" {
		fmt.Fprintf(&b, "@media (min-width: %s) {\n  %s p {\n    font-size: %s !important;\n  }\n}\n\n",
			DesktopBreakpoint, base, size)
	}
	if bg := cfg.Blockquote.Get(DarkBackgroundColor); bg != "" {
		fmt.Fprintf(&b, ".dark %s blockquote {\n  background-color: %s !important;\n}\n\n", base, bg)
	}
	return b.String()
}
