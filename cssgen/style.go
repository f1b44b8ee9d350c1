package cssgen

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Declaration is a single property/value pair of a Style.
type Declaration struct {
	Property Property
	Value    string
}

// Style is an ordered set of declarations with unique properties.
// An empty value stands for "unset" and never produces CSS.
type Style []Declaration

// Get returns the value of p, or "" when p is unset.
func (s Style) Get(p Property) string {
	for _, d := range s {
		if d.Property == p {
			return d.Value
		}
	}
	return ""
}

// Has reports whether p is set to a non-empty value.
func (s Style) Has(p Property) bool {
	return s.Get(p) != ""
}

// With returns a copy of s with p set to value. An existing declaration keeps
// its position; a new one is appended.
func (s Style) With(p Property, value string) Style {
	out := make(Style, len(s), len(s)+1)
	copy(out, s)
	for i := range out {
		if out[i].Property == p {
			out[i].Value = value
			return out
		}
	}
	return append(out, Declaration{Property: p, Value: value})
}

// Merge overlays config on defaults. Config wins on every shared property,
// which keeps the position it had in defaults; properties only present in
// config follow in config order. Neither argument is modified.
func Merge(defaults, config Style) Style {
	out := make(Style, 0, len(defaults)+len(config))
	out = append(out, defaults...)
	for _, d := range config {
		replaced := false
		for i := range out {
			if out[i].Property == d.Property {
				out[i].Value = d.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, d)
		}
	}
	return out
}

// UnmarshalYAML decodes a mapping of camel-case keys to scalar values,
// preserving document order. Unknown keys are an error; null values are
// dropped.
func (s *Style) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: style must be a mapping", node.Line)
	}
	out := make(Style, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		p, ok := ParseProperty(key.Value)
		if !ok {
			return fmt.Errorf("line %d: unknown style property %q", key.Line, key.Value)
		}
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: value of %q must be a scalar", val.Line, key.Value)
		}
		if val.ShortTag() == "!!null" {
			continue
		}
		out = out.With(p, val.Value)
	}
	*s = out
	return nil
}

// IsZero reports whether the style is absent. A present but empty style is
// kept when encoding so its element rule still carries the defaults.
func (s Style) IsZero() bool {
	return s == nil
}

// MarshalYAML encodes the style as an ordered mapping.
func (s Style) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, d := range s {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: d.Property.Key()},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: d.Value},
		)
	}
	return node, nil
}
