package theme

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestParseThemeMetadata(t *testing.T) {
	css := `/*
 * Theme: github-dark
 * Display: GitHub Dark
 * Description: Dark stylesheet: high contrast
 */
.markdown-body { color: #c9d1d9; }
/* Theme: ignored */`

	assert.Equal(t, ThemeMetadata{
		Theme:       "github-dark",
		Display:     "GitHub Dark",
		Description: "Dark stylesheet: high contrast",
	}, ParseThemeMetadata(css))
}

func TestParseThemeMetadataMissing(t *testing.T) {
	assert.Equal(t, ThemeMetadata{}, ParseThemeMetadata(".a { color: red; }"))
	assert.Equal(t, ThemeMetadata{}, ParseThemeMetadata("/* Theme: open"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Github Dark", displayName("github-dark"))
	assert.Equal(t, "Solarized Light", displayName("solarized_light"))
	assert.Equal(t, "TokyoNight", displayName("tokyoNight"))
	assert.Equal(t, "Été Sombre", displayName("été-sombre"))
	assert.True(t, utf8.ValidString(displayName("ölig_ära")))
}

func TestCheckStylesheet(t *testing.T) {
	assert.NoError(t, checkStylesheet("/* Theme: a */\n.a { color: red; }"))
	assert.NoError(t, checkStylesheet("/* only a comment */"))
	assert.Error(t, checkStylesheet(".a { color: red; }\n}"))
}
