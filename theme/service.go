package theme

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"inkblog/model"
)

// ErrUnknownKind is returned for a theme kind other than markdown, page or
// highlight.
var ErrUnknownKind = errors.New("unknown theme kind")

// Broadcaster pushes messages to connected clients.
type Broadcaster interface {
	Broadcast(msg model.Message)
}

// Options configures a Service.
type Options struct {
	// BaseSelector scopes compiled Markdown rules.
	BaseSelector string
	// StylesheetPath is the URL path external Markdown stylesheets are served under.
	StylesheetPath string
	// HighlightCDN selects CDN-hosted highlight.js stylesheets.
	HighlightCDN bool

	DefaultMarkdown  string
	DefaultPage      string
	DefaultHighlight string
	Dark             bool
}

// HighlightHrefs are the highlight.js stylesheets of the selected palette.
type HighlightHrefs struct {
	Key    string `json:"key"`
	Light  string `json:"light"`
	Dark   string `json:"dark"`
	Active string `json:"active"`
}

// Service ties the catalog to the selection stores.
type Service struct {
	Catalog   *Catalog
	Markdown  *Store[MarkdownTheme]
	Page      *Store[PageTheme]
	Highlight *Store[HighlightTheme]
	Mode      *ModeStore

	opts Options
	log  *zap.Logger

	mu          sync.RWMutex
	markdownCSS string
	broadcaster Broadcaster
}

func NewService(catalog *Catalog, settings Settings, opts Options, log *zap.Logger) *Service {
	log = log.Named("theme")
	s := &Service{
		Catalog:   catalog,
		Markdown:  NewStore(KindMarkdown, model.SettingMarkdownTheme, catalog.Markdown, settings, opts.DefaultMarkdown, log),
		Page:      NewStore(KindPage, model.SettingPageTheme, catalog.Page, settings, opts.DefaultPage, log),
		Highlight: NewStore(KindHighlight, model.SettingHighlightTheme, catalog.Highlight, settings, opts.DefaultHighlight, log),
		Mode:      NewModeStore(settings, opts.Dark, log),
		opts:      opts,
		log:       log,
	}

	s.Markdown.OnChange(s.compile)
	s.Page.OnChange(func(t PageTheme) { s.notify(KindPage, t.Key) })
	s.Highlight.OnChange(func(t HighlightTheme) { s.notify(KindHighlight, t.Key) })
	s.Mode.OnChange(func(bool) { s.notify("mode", "") })
	return s
}

// SetBroadcaster sets where theme changes are pushed.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	s.broadcaster = b
	s.mu.Unlock()
}

// Init restores every persisted selection.
func (s *Service) Init() error {
	s.Mode.Init()
	if err := s.Markdown.Init(); err != nil {
		return err
	}
	if err := s.Page.Init(); err != nil {
		return err
	}
	return s.Highlight.Init()
}

func (s *Service) compile(t MarkdownTheme) {
	css := t.CSS(s.opts.BaseSelector)
	s.mu.Lock()
	s.markdownCSS = css
	s.mu.Unlock()

	if t.External() {
		s.log.Debug("Markdown theme uses external stylesheet", zap.String("key", t.Key))
	} else {
		s.log.Debug("Compiled markdown theme",
			zap.String("key", t.Key),
			zap.String("size", humanize.Bytes(uint64(len(css)))))
	}
	s.notify(KindMarkdown, t.Key)
}

func (s *Service) notify(kind Kind, key string) {
	s.mu.RLock()
	b := s.broadcaster
	s.mu.RUnlock()
	if b == nil {
		return
	}
	b.Broadcast(model.Message{
		Type: model.MessageTheme,
		Data: model.ThemeChange{Kind: string(kind), Key: key, Dark: s.Mode.Dark()},
	})
}

// MarkdownStylesheet returns the compiled CSS of the current Markdown theme,
// or the href of its external stylesheet.
func (s *Service) MarkdownStylesheet() (css, href string, err error) {
	t := s.Markdown.Current()
	if t.External() {
		href, err = t.Href(s.opts.StylesheetPath)
		return "", href, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markdownCSS, "", nil
}

// PageCSS returns the current page theme for the given mode.
func (s *Service) PageCSS(dark bool) string {
	return s.Page.Current().CSS(dark)
}

// HighlightHrefs returns the stylesheets of the current palette.
func (s *Service) HighlightHrefs() HighlightHrefs {
	t := s.Highlight.Current()
	h := HighlightHrefs{
		Key:   t.Key,
		Light: t.Href(false, s.opts.HighlightCDN),
		Dark:  t.Href(true, s.opts.HighlightCDN),
	}
	h.Active = h.Light
	if s.Mode.Dark() {
		h.Active = h.Dark
	}
	if h.Active == "" {
		s.log.Warn("Highlight theme has no stylesheet for mode", zap.String("key", t.Key), zap.Bool("dark", s.Mode.Dark()))
	}
	return h
}

// Select sets the theme of the given kind.
func (s *Service) Select(kind Kind, key string) error {
	switch kind {
	case KindMarkdown:
		return s.Markdown.Set(key)
	case KindPage:
		return s.Page.Set(key)
	case KindHighlight:
		return s.Highlight.Set(key)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// List returns the themes of one kind with the current one marked active.
func (s *Service) List(kind Kind) ([]Summary, error) {
	switch kind {
	case KindMarkdown:
		return s.Markdown.Available(), nil
	case KindPage:
		return s.Page.Available(), nil
	case KindHighlight:
		return s.Highlight.Available(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}
