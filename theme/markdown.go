package theme

import (
	"fmt"
	"path"
	"strings"

	"inkblog/cssgen"
)

// External reports whether the theme is served from a stylesheet instead of
// being compiled.
func (t MarkdownTheme) External() bool {
	return t.Type == TypeCSS
}

// Validate checks that the theme has exactly one shape.
func (t MarkdownTheme) Validate() error {
	switch {
	case t.Key == "":
		return fmt.Errorf("%w: missing key", ErrInvalidTheme)
	case t.External() && t.Config != nil:
		return fmt.Errorf("%w: %s: css theme must not carry a config", ErrInvalidTheme, t.Key)
	case t.External() && t.CSSFile == "" && t.CSSURL == "":
		return fmt.Errorf("%w: %s: css theme needs cssFile or cssUrl", ErrInvalidTheme, t.Key)
	case !t.External() && t.Type != "":
		return fmt.Errorf("%w: %s: unsupported type %q", ErrInvalidTheme, t.Key, t.Type)
	case !t.External() && t.Config == nil:
		return fmt.Errorf("%w: %s: missing config", ErrInvalidTheme, t.Key)
	}
	return nil
}

// CSS compiles a declarative theme scoped under base. External themes
// compile to an empty string.
func (t MarkdownTheme) CSS(base string) string {
	if t.External() || t.Config == nil {
		return ""
	}
	return "/* Markdown theme: " + t.DisplayName + " */\n\n" + cssgen.GenerateMarkdownTheme(*t.Config, base)
}

// Href returns the stylesheet location of an external theme. CSSURL wins
// over CSSFile, which is resolved under basePath.
func (t MarkdownTheme) Href(basePath string) (string, error) {
	if t.CSSURL != "" {
		return t.CSSURL, nil
	}
	if t.CSSFile == "" {
		return "", fmt.Errorf("%w: %s has no stylesheet", ErrInvalidTheme, t.Key)
	}
	if basePath == "" {
		basePath = "/"
	}
	return path.Join(basePath, strings.TrimPrefix(t.CSSFile, "/")), nil
}
