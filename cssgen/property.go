package cssgen

import (
	"strings"
	"unicode"
)

// Property is a recognised style key. Theme files name properties by their
// camel-case key; the emitted CSS name is derived with Kebab.
type Property uint8

const (
	BackdropFilter Property = iota + 1
	Background
	BackgroundClip
	BackgroundColor
	Border
	BorderBottom
	BorderBottomColor
	BorderCollapse
	BorderColor
	BorderLeft
	BorderRadius
	BoxShadow
	Color
	DarkBackgroundColor
	Display
	FontFamily
	FontSize
	FontStyle
	FontWeight
	LetterSpacing
	LineHeight
	ListStyleType
	Margin
	MarginBottom
	MarginLeft
	MarginRight
	MarginTop
	Opacity
	Padding
	PaddingBottom
	PaddingLeft
	PaddingRight
	PaddingTop
	Position
	TextAlign
	TextDecoration
	TextUnderlineOffset
	Transform
	Transition
	WebkitBackgroundClip
	WebkitTextFillColor
	Width
)

var propertyKeys = [...]string{
	BackdropFilter:       "backdropFilter",
	Background:           "background",
	BackgroundClip:       "backgroundClip",
	BackgroundColor:      "backgroundColor",
	Border:               "border",
	BorderBottom:         "borderBottom",
	BorderBottomColor:    "borderBottomColor",
	BorderCollapse:       "borderCollapse",
	BorderColor:          "borderColor",
	BorderLeft:           "borderLeft",
	BorderRadius:         "borderRadius",
	BoxShadow:            "boxShadow",
	Color:                "color",
	DarkBackgroundColor:  "darkBackgroundColor",
	Display:              "display",
	FontFamily:           "fontFamily",
	FontSize:             "fontSize",
	FontStyle:            "fontStyle",
	FontWeight:           "fontWeight",
	LetterSpacing:        "letterSpacing",
	LineHeight:           "lineHeight",
	ListStyleType:        "listStyleType",
	Margin:               "margin",
	MarginBottom:         "marginBottom",
	MarginLeft:           "marginLeft",
	MarginRight:          "marginRight",
	MarginTop:            "marginTop",
	Opacity:              "opacity",
	Padding:              "padding",
	PaddingBottom:        "paddingBottom",
	PaddingLeft:          "paddingLeft",
	PaddingRight:         "paddingRight",
	PaddingTop:           "paddingTop",
	Position:             "position",
	TextAlign:            "textAlign",
	TextDecoration:       "textDecoration",
	TextUnderlineOffset:  "textUnderlineOffset",
	Transform:            "transform",
	Transition:           "transition",
	WebkitBackgroundClip: "WebkitBackgroundClip",
	WebkitTextFillColor:  "WebkitTextFillColor",
	Width:                "width",
}

var propertyByKey = func() map[string]Property {
	m := make(map[string]Property, len(propertyKeys))
	for p, key := range propertyKeys {
		if key != "" {
			m[key] = Property(p)
		}
	}
	return m
}()

// ParseProperty looks up a property by its camel-case key.
func ParseProperty(key string) (Property, bool) {
	p, ok := propertyByKey[key]
	return p, ok
}

// Properties returns every recognised property in declaration order.
func Properties() []Property {
	out := make([]Property, 0, len(propertyKeys)-1)
	for p := BackdropFilter; int(p) < len(propertyKeys); p++ {
		out = append(out, p)
	}
	return out
}

// Key returns the camel-case key, or "" for an unknown property.
func (p Property) Key() string {
	if int(p) >= len(propertyKeys) {
		return ""
	}
	return propertyKeys[p]
}

func (p Property) String() string {
	if k := p.Key(); k != "" {
		return k
	}
	return "Property(?)"
}

// vendorNames holds properties whose CSS name carries a vendor prefix.
var vendorNames = map[Property]string{
	WebkitBackgroundClip: "-webkit-background-clip",
	WebkitTextFillColor:  "-webkit-text-fill-color",
}

// CSS returns the hyphenated CSS name of the property.
func (p Property) CSS() string {
	if n, ok := vendorNames[p]; ok {
		return n
	}
	return Kebab(p.Key())
}

// Kebab converts a camel-case name into its hyphenated lower-case form.
// A hyphen goes before an upper-case letter that follows a lower-case letter
// or digit, and before the last letter of an upper-case run that is followed
// by a lower-case letter, so "XMLHttpRequest" becomes "xml-http-request".
// Names that are already lower-case come back unchanged.
func Kebab(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			switch {
			case unicode.IsLower(prev), unicode.IsDigit(prev):
				b.WriteByte('-')
			case unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				b.WriteByte('-')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
