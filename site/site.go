// Package site renders the blog pages.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"inkblog/model"
	"inkblog/posts"
	"inkblog/theme"
)

//go:embed templates/*.html
var templatesFS embed.FS

// StaticPages are served from pages/<name>.md.
var StaticPages = []string{"about", "projects", "contact"}

const placeholder = "This page has not been written yet."

type Options struct {
	Title string
	// Selector is the class (".name") or id ("#name") wrapping rendered Markdown.
	Selector string
	// MarkdownThemesDir is served under /markdown-themes/ when set.
	MarkdownThemesDir string
}

// Menus holds the theme selection buttons for each kind.
type Menus struct {
	Markdown  template.HTML
	Page      template.HTML
	Highlight template.HTML
}

type view struct {
	SiteTitle     string
	Title         string
	Dark          bool
	HighlightHref string
	SelectorAttr  template.HTMLAttr
	Menus         Menus

	Posts   []model.Post
	Tags    []string
	Tag     string
	Post    *model.Post
	Content template.HTML
}

// Site serves the HTML pages.
type Site struct {
	library *posts.Library
	themes  *theme.Service
	menus   *theme.Handler
	opts    Options
	log     *zap.Logger

	templates map[string]*template.Template
}

func New(library *posts.Library, themes *theme.Service, menus *theme.Handler, opts Options, log *zap.Logger) (*Site, error) {
	if opts.Title == "" {
		opts.Title = "inkblog"
	}
	s := &Site{
		library:   library,
		themes:    themes,
		menus:     menus,
		opts:      opts,
		log:       log.Named("site"),
		templates: make(map[string]*template.Template),
	}

	funcs := template.FuncMap{"tagSlug": posts.TagSlug}
	for _, name := range []string{"home", "post", "page"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		s.templates[name] = t
	}
	return s, nil
}

func (s *Site) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /post/{slug}", s.handlePost)
	mux.HandleFunc("GET /tags/{tag}", s.handleTag)
	for _, name := range StaticPages {
		mux.HandleFunc("GET /"+name, s.handlePage(name))
	}
	if s.opts.MarkdownThemesDir != "" {
		mux.Handle("GET /markdown-themes/", http.StripPrefix("/markdown-themes/", http.FileServer(http.Dir(s.opts.MarkdownThemesDir))))
	}
}

func (s *Site) handleHome(w http.ResponseWriter, r *http.Request) {
	v := s.newView("")
	v.Posts = s.library.Posts()
	v.Tags = s.library.Tags()
	s.render(w, "home", v)
}

func (s *Site) handlePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.library.BySlug(r.PathValue("slug"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	v := s.newView(post.Title)
	v.Post = &post
	v.Content = template.HTML(posts.Render(post.Body))
	s.render(w, "post", v)
}

func (s *Site) handleTag(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	list := s.library.FilterByTag(tag)
	if len(list) == 0 {
		http.NotFound(w, r)
		return
	}
	// Show the tag as written in the posts rather than its slug.
	for _, t := range list[0].Tags {
		if t == tag || posts.TagSlug(t) == tag {
			tag = t
			break
		}
	}
	v := s.newView("#" + tag)
	v.Tag = tag
	v.Posts = list
	s.render(w, "home", v)
}

func (s *Site) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := s.library.LoadPage(name)
		switch {
		case posts.IsNotFound(err):
			page = posts.Page{Body: placeholder}
		case err != nil:
			s.log.Warn("Failed to load page", zap.String("page", name), zap.Error(err))
			page = posts.Page{Body: placeholder}
		}
		if page.Title == "" {
			page.Title = strings.ToUpper(name[:1]) + name[1:]
		}
		v := s.newView(page.Title)
		v.Content = template.HTML(posts.Render(page.Body))
		s.render(w, "page", v)
	}
}

func (s *Site) newView(title string) view {
	return view{
		SiteTitle:     s.opts.Title,
		Title:         title,
		Dark:          s.themes.Mode.Dark(),
		HighlightHref: s.themes.HighlightHrefs().Active,
		SelectorAttr:  selectorAttr(s.opts.Selector),
		Menus: Menus{
			Markdown:  template.HTML(s.menus.MenuHTML(theme.KindMarkdown)),
			Page:      template.HTML(s.menus.MenuHTML(theme.KindPage)),
			Highlight: template.HTML(s.menus.MenuHTML(theme.KindHighlight)),
		},
	}
}

// selectorAttr turns ".name" into class="name" and "#name" into id="name".
func selectorAttr(selector string) template.HTMLAttr {
	if selector == "" {
		selector = ".markdown-content"
	}
	name := template.HTMLEscapeString(selector[1:])
	if selector[0] == '#' {
		return template.HTMLAttr(`id="` + name + `"`)
	}
	return template.HTMLAttr(`class="` + name + `"`)
}

func (s *Site) render(w http.ResponseWriter, name string, v view) {
	var buf bytes.Buffer
	if err := s.templates[name].ExecuteTemplate(&buf, "base", v); err != nil {
		s.log.Error("Failed to render page", zap.String("template", name), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
