// Package cssgen compiles style configuration into CSS text.
//
// A Style is compiled into a single rule by GenerateRule, several rules are
// assembled by Generate, and GenerateMarkdownTheme builds the complete
// stylesheet for rendered Markdown content. Every declaration is emitted with
// !important so that theme rules override base typography.
package cssgen

import (
	"slices"
	"strings"
)

// Shorthand ties a shorthand property to the longhands it overrides. When the
// shorthand is set, none of its longhands are emitted.
type Shorthand struct {
	Property  Property
	Longhands []Property
}

// RuleOptions control how a Style is compiled.
type RuleOptions struct {
	Prefix     string
	Suffix     string
	Exclude    []Property
	Renames    map[Property]string
	Shorthands []Shorthand
}

// Rule is a selector with its configured style, defaults and options.
type Rule struct {
	Selector string
	Config   Style
	Defaults Style
	Options  RuleOptions
}

// GenerateRule merges defaults and config and compiles the result into a
// single rule block for selector.
func GenerateRule(selector string, config, defaults Style, opts RuleOptions) string {
	merged := Merge(defaults, config)

	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, d := range merged {
		if d.Value == "" || slices.Contains(opts.Exclude, d.Property) {
			continue
		}
		if opts.overridden(d.Property, merged) {
			continue
		}
		b.WriteString("  ")
		b.WriteString(opts.name(d.Property))
		b.WriteString(": ")
		b.WriteString(d.Value)
		b.WriteString(" !important;\n")
	}
	b.WriteString("}")
	return b.String()
}

// Generate compiles rules in order, each followed by a blank line.
func Generate(rules []Rule) string {
	var b strings.Builder
	for _, r := range rules {
		b.WriteString(GenerateRule(r.Selector, r.Config, r.Defaults, r.Options))
		b.WriteString("\n\n")
	}
	return b.String()
}

// overridden reports whether p is a longhand whose shorthand is set in merged.
func (o RuleOptions) overridden(p Property, merged Style) bool {
	for _, sh := range o.Shorthands {
		if slices.Contains(sh.Longhands, p) && merged.Has(sh.Property) {
			return true
		}
	}
	return false
}

func (o RuleOptions) shorthand(p Property) bool {
	for _, sh := range o.Shorthands {
		if sh.Property == p {
			return true
		}
	}
	return false
}

func (o RuleOptions) name(p Property) string {
	if o.shorthand(p) {
		return p.CSS()
	}
	if n := o.Renames[p]; n != "" {
		return n
	}
	return o.Prefix + p.CSS() + o.Suffix
}
