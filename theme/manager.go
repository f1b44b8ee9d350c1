package theme

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Catalog holds every known theme, grouped by kind.
type Catalog struct {
	Markdown  *Registry[MarkdownTheme]
	Page      *Registry[PageTheme]
	Highlight *Registry[HighlightTheme]

	log *zap.Logger
}

// document is one decoded theme definition.
type document struct {
	def Definition
}

// NewCatalog creates a catalog holding the built-in themes.
func NewCatalog(log *zap.Logger) (*Catalog, error) {
	c := &Catalog{
		Markdown:  NewRegistry[MarkdownTheme](),
		Page:      NewRegistry[PageTheme](),
		Highlight: NewRegistry[HighlightTheme](),
		log:       log.Named("theme"),
	}

	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin themes: %w", err)
	}
	for _, entry := range entries {
		f, err := builtinFS.Open("builtin/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("open builtin themes %s: %w", entry.Name(), err)
		}
		docs, err := decodeDocuments(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode builtin themes %s: %w", entry.Name(), err)
		}
		for _, doc := range docs {
			c.add(doc)
		}
	}

	c.log.Debug("Loaded builtin themes",
		zap.Int("markdown", c.Markdown.Len()),
		zap.Int("page", c.Page.Len()),
		zap.Int("highlight", c.Highlight.Len()))
	return c, nil
}

// LoadDir loads user theme files (*.yaml, *.yml) from dir. Themes replace
// built-ins with the same key; new keys are appended in natural order. A file
// that fails to load is skipped with a warning and its error is included in
// the returned error. A missing dir is not an error.
func (c *Catalog) LoadDir(dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read themes directory: %w", err)
	}

	var (
		errs  error
		added []document
	)
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		docs, err := decodeFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			c.log.Warn("Skipping theme file", zap.String("file", entry.Name()), zap.Error(err))
			multierr.AppendInto(&errs, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}
		for _, doc := range docs {
			if c.has(doc) {
				c.add(doc)
				continue
			}
			added = append(added, doc)
		}
	}

	sort.SliceStable(added, func(i, j int) bool {
		return natural.Less(key(added[i]), key(added[j]))
	})
	for _, doc := range added {
		c.add(doc)
	}
	if len(added) > 0 {
		c.log.Info("Loaded user themes", zap.String("dir", dir), zap.Int("new", len(added)))
	}
	return errs
}

// LoadStylesheets registers the external Markdown stylesheets in dir. A
// stylesheet is registered when its header comment names a theme; sheets
// that already back a theme through cssFile are checked to parse.
func (c *Catalog) LoadStylesheets(dir string) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read markdown themes directory: %w", err)
	}

	files := make(map[string]string)
	for _, key := range c.Markdown.Keys() {
		if t, _ := c.Markdown.Get(key); t.External() && t.CSSFile != "" {
			files[t.CSSFile] = key
		}
	}

	var errs error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".css") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			c.log.Warn("Failed to read stylesheet", zap.String("file", entry.Name()), zap.Error(err))
			multierr.AppendInto(&errs, err)
			continue
		}

		meta := ParseThemeMetadata(string(content))
		_, known := files[entry.Name()]
		if meta.Theme == "" && !known {
			continue
		}
		if err := checkStylesheet(string(content)); err != nil {
			c.log.Warn("Invalid stylesheet", zap.String("file", entry.Name()), zap.Error(err))
			multierr.AppendInto(&errs, fmt.Errorf("%s: %w", entry.Name(), err))
			continue
		}
		if meta.Theme == "" || c.Markdown.Has(meta.Theme) {
			continue
		}

		display := meta.Display
		if display == "" {
			display = displayName(meta.Theme)
		}
		c.Markdown.Add(MarkdownTheme{
			Key:         meta.Theme,
			DisplayName: display,
			Description: meta.Description,
			Type:        TypeCSS,
			CSSFile:     entry.Name(),
		})
		c.log.Debug("Registered stylesheet theme", zap.String("key", meta.Theme), zap.String("file", entry.Name()))
	}
	return errs
}

// List returns the summaries of one kind.
func (c *Catalog) List(kind Kind) ([]Summary, error) {
	switch kind {
	case KindMarkdown:
		return c.Markdown.List(), nil
	case KindPage:
		return c.Page.List(), nil
	case KindHighlight:
		return c.Highlight.List(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Export writes the definition of one theme as a theme-file document that
// LoadDir accepts, so a built-in can be copied and customised.
func (c *Catalog) Export(w io.Writer, kind Kind, key string) error {
	var (
		def Definition
		ok  bool
	)
	switch kind {
	case KindMarkdown:
		def, ok = c.Markdown.Get(key)
	case KindPage:
		def, ok = c.Page.Get(key)
	case KindHighlight:
		def, ok = c.Highlight.Get(key)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if !ok {
		return fmt.Errorf("%w: %s theme %q", ErrUnknownTheme, kind, key)
	}

	var node yaml.Node
	if err := node.Encode(def); err != nil {
		return fmt.Errorf("encode %s theme %q: %w", kind, key, err)
	}
	node.Content = append([]*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "kind"},
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(kind)},
	}, node.Content...)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Catalog) has(doc document) bool {
	switch def := doc.def.(type) {
	case MarkdownTheme:
		return c.Markdown.Has(def.Key)
	case PageTheme:
		return c.Page.Has(def.Key)
	case HighlightTheme:
		return c.Highlight.Has(def.Key)
	}
	return false
}

func (c *Catalog) add(doc document) {
	switch def := doc.def.(type) {
	case MarkdownTheme:
		c.Markdown.Add(def)
	case PageTheme:
		c.Page.Add(def)
	case HighlightTheme:
		c.Highlight.Add(def)
	}
}

func key(doc document) string {
	return doc.def.Summary().Key
}

func decodeFile(path string) ([]document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeDocuments(f)
}

// decodeDocuments decodes every YAML document in r, dispatching on its kind.
func decodeDocuments(r io.Reader) ([]document, error) {
	dec := yaml.NewDecoder(r)
	var docs []document
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, err
		}
		doc, err := decodeDocument(&node)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", len(docs)+1, err)
		}
		docs = append(docs, doc)
	}
}

func decodeDocument(node *yaml.Node) (document, error) {
	var head struct {
		Kind Kind `yaml:"kind"`
	}
	if err := node.Decode(&head); err != nil {
		return document{}, err
	}

	switch head.Kind {
	case KindMarkdown:
		var t MarkdownTheme
		if err := node.Decode(&t); err != nil {
			return document{}, err
		}
		if err := t.Validate(); err != nil {
			return document{}, err
		}
		return document{def: defaultDisplay(t)}, nil
	case KindPage:
		var t PageTheme
		if err := node.Decode(&t); err != nil {
			return document{}, err
		}
		if t.Key == "" {
			return document{}, fmt.Errorf("%w: missing key", ErrInvalidTheme)
		}
		if t.DisplayName == "" {
			t.DisplayName = displayName(t.Key)
		}
		return document{def: t}, nil
	case KindHighlight:
		var t HighlightTheme
		if err := node.Decode(&t); err != nil {
			return document{}, err
		}
		if t.Key == "" || t.Light == "" || t.Dark == "" {
			return document{}, fmt.Errorf("%w: highlight theme needs key, light and dark", ErrInvalidTheme)
		}
		if t.DisplayName == "" {
			t.DisplayName = displayName(t.Key)
		}
		return document{def: t}, nil
	}
	return document{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidTheme, head.Kind)
}

func defaultDisplay(t MarkdownTheme) MarkdownTheme {
	if t.DisplayName == "" {
		t.DisplayName = displayName(t.Key)
	}
	return t
}
