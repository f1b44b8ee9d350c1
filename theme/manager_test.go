package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inkblog/cssgen"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(zap.NewNop())
	require.NoError(t, err)
	return c
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNewCatalogBuiltins(t *testing.T) {
	c := newTestCatalog(t)

	assert.Equal(t, []string{"default", "elegant", "compact", "modern", "minimal", "gitbook", "githubMarkdown"}, c.Markdown.Keys())
	assert.Equal(t, []string{"vue", "gitbook"}, c.Page.Keys())
	assert.Equal(t, []string{"github", "atom", "monokai", "dracula", "vs", "xcode", "stackoverflow", "nord", "tokyoNight", "a11y", "material"}, c.Highlight.Keys())

	gh, ok := c.Markdown.Get("githubMarkdown")
	require.True(t, ok)
	assert.True(t, gh.External())
	assert.Equal(t, "github-markdown.css", gh.CSSFile)

	for _, key := range c.Markdown.Keys() {
		th, _ := c.Markdown.Get(key)
		assert.NoError(t, th.Validate(), key)
	}
}

func TestBuiltinGitbookTheme(t *testing.T) {
	c := newTestCatalog(t)
	th, ok := c.Markdown.Get("gitbook")
	require.True(t, ok)

	css := th.CSS(".markdown-content")
	assert.Contains(t, css, ".dark .markdown-content blockquote {\n  background-color: rgba(53, 154, 186, 0.12) !important;\n}")
	assert.Contains(t, css, "@media (min-width: 768px)")
	assert.NotContains(t, css, "dark-background-color")

	quote := css[strings.Index(css, ".markdown-content blockquote {"):]
	quote = quote[:strings.Index(quote, "}")]
	assert.Contains(t, quote, "padding: 1.25rem !important;")
	assert.NotContains(t, quote, "padding-left")
}

func TestBuiltinPageThemes(t *testing.T) {
	c := newTestCatalog(t)
	gitbook, ok := c.Page.Get("gitbook")
	require.True(t, ok)
	require.NotNil(t, gitbook.Styles.PageBackgroundGradient)
	assert.Contains(t, gitbook.CSS(false), "border-left: 3px solid #359aba !important;")

	vue, ok := c.Page.Get("vue")
	require.True(t, ok)
	assert.Nil(t, vue.Styles.PageBackgroundGradient)
	assert.Contains(t, vue.CSS(true), "background: #1a1b26 !important;")
}

func TestCatalogLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "override.yaml", `kind: markdown
key: default
displayName: My Default
config:
  p: {color: "#111"}
`)
	writeFile(t, dir, "more.yml", `kind: highlight
key: theme10
light: a
dark: b
---
kind: highlight
key: theme2
light: c
dark: d
`)
	writeFile(t, dir, "broken.yaml", `kind: markdown
key: broken
config:
  p: {colour: red}
`)
	writeFile(t, dir, "notes.txt", "ignored")

	c := newTestCatalog(t)
	err := c.LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
	assert.Contains(t, err.Error(), `unknown style property "colour"`)

	def, ok := c.Markdown.Get("default")
	require.True(t, ok)
	assert.Equal(t, "My Default", def.DisplayName)
	assert.Equal(t, "default", c.Markdown.Keys()[0])
	assert.False(t, c.Markdown.Has("broken"))

	keys := c.Highlight.Keys()
	assert.Equal(t, []string{"theme2", "theme10"}, keys[len(keys)-2:])
	th, _ := c.Highlight.Get("theme2")
	assert.Equal(t, "Theme2", th.DisplayName)
}

func TestCatalogLoadDirMissing(t *testing.T) {
	c := newTestCatalog(t)
	assert.NoError(t, c.LoadDir(filepath.Join(t.TempDir(), "nope")))
	assert.NoError(t, c.LoadDir(""))
}

func TestDecodeDocumentsRejects(t *testing.T) {
	tests := map[string]string{
		"unknown kind":       "kind: font\nkey: a\n",
		"missing key":        "kind: page\ndisplayName: A\n",
		"css without source": "kind: markdown\nkey: a\ntype: css\n",
		"highlight no dark":  "kind: highlight\nkey: a\nlight: a\n",
		"nested value":       "kind: markdown\nkey: a\nconfig:\n  p:\n    color: {light: red}\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := decodeDocuments(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeDocumentsKeepsOrder(t *testing.T) {
	docs, err := decodeDocuments(strings.NewReader(`kind: markdown
key: ordered
config:
  h1: {color: red, fontSize: 3rem, marginTop: 0}
`))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	th := docs[0].def.(MarkdownTheme)
	assert.Equal(t, cssgen.Style{
		{Property: cssgen.Color, Value: "red"},
		{Property: cssgen.FontSize, Value: "3rem"},
		{Property: cssgen.MarginTop, Value: "0"},
	}, th.Config.H1)
	assert.Equal(t, "Ordered", th.DisplayName)
}

func TestCatalogLoadStylesheets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "github-markdown.css", ".markdown-body { color: #24292f; }")
	writeFile(t, dir, "paper.css", "/*\n  Theme: paper\n  Display: Paper\n  Description: Off-white paper\n*/\n.markdown-content p { color: #333; }")
	writeFile(t, dir, "plain.css", ".x { color: red; }")
	writeFile(t, dir, "bad.css", "/* Theme: bad */\n.a { color: red; }\n}")

	c := newTestCatalog(t)
	err := c.LoadStylesheets(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.css")

	paper, ok := c.Markdown.Get("paper")
	require.True(t, ok)
	assert.Equal(t, MarkdownTheme{
		Key:         "paper",
		DisplayName: "Paper",
		Description: "Off-white paper",
		Type:        TypeCSS,
		CSSFile:     "paper.css",
	}, paper)
	assert.False(t, c.Markdown.Has("plain"))
	assert.False(t, c.Markdown.Has("bad"))
}

func TestCatalogList(t *testing.T) {
	c := newTestCatalog(t)
	list, err := c.List(KindPage)
	require.NoError(t, err)
	assert.Equal(t, "vue", list[0].Key)

	_, err = c.List("font")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestCatalogExportRoundTrip(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		kind Kind
		key  string
		want Definition
	}{
		{KindMarkdown, "gitbook", mustGet(t, c.Markdown, "gitbook")},
		{KindMarkdown, "githubMarkdown", mustGet(t, c.Markdown, "githubMarkdown")},
		{KindPage, "vue", mustGet(t, c.Page, "vue")},
		{KindHighlight, "nord", mustGet(t, c.Highlight, "nord")},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.key, func(t *testing.T) {
			var buf strings.Builder
			require.NoError(t, c.Export(&buf, tt.kind, tt.key))
			assert.True(t, strings.HasPrefix(buf.String(), "kind: "+string(tt.kind)+"\n"))

			docs, err := decodeDocuments(strings.NewReader(buf.String()))
			require.NoError(t, err)
			require.Len(t, docs, 1)
			assert.Equal(t, tt.want, docs[0].def)
		})
	}
}

func TestCatalogExportErrors(t *testing.T) {
	c := newTestCatalog(t)
	var buf strings.Builder

	assert.ErrorIs(t, c.Export(&buf, KindMarkdown, "nope"), ErrUnknownTheme)
	assert.ErrorIs(t, c.Export(&buf, Kind("font"), "gitbook"), ErrUnknownKind)
	assert.Empty(t, buf.String())
}

func mustGet[T Definition](t *testing.T, r *Registry[T], key string) Definition {
	t.Helper()
	def, ok := r.Get(key)
	require.True(t, ok, key)
	return def
}
