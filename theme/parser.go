package theme

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aymerick/douceur/parser"
)

// ParseThemeMetadata parses metadata from the first comment block of a
// stylesheet:
//
//	/*
//	  Theme: github
//	  Display: GitHub Markdown
//	  Description: Styles matching github.com
//	*/
func ParseThemeMetadata(cssContent string) ThemeMetadata {
	var meta ThemeMetadata

	startIdx := strings.Index(cssContent, "/*")
	if startIdx == -1 {
		return meta
	}
	endIdx := strings.Index(cssContent[startIdx:], "*/")
	if endIdx == -1 {
		return meta
	}

	block := cssContent[startIdx+2 : startIdx+endIdx]
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "* ")
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Theme":
			meta.Theme = value
		case "Display":
			meta.Display = value
		case "Description":
			meta.Description = value
		}
	}
	return meta
}

// displayName derives a title-cased name from a key such as "github-dark".
func displayName(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '-' || r == '_' })
	for i, part := range parts {
		r, size := utf8.DecodeRuneInString(part)
		parts[i] = string(unicode.ToUpper(r)) + part[size:]
	}
	return strings.Join(parts, " ")
}

// checkStylesheet reports whether content parses as CSS.
func checkStylesheet(content string) error {
	if _, err := parser.Parse(content); err != nil {
		return fmt.Errorf("parse stylesheet: %w", err)
	}
	return nil
}
