package posts

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"go.uber.org/zap"

	"inkblog/model"
)

// PagesDir holds the static pages inside the content directory.
const PagesDir = "pages"

// Library holds the current set of published posts.
type Library struct {
	fsys fs.FS
	log  *zap.Logger

	mu    sync.RWMutex
	posts []model.Post
}

func NewLibrary(fsys fs.FS, log *zap.Logger) *Library {
	return &Library{fsys: fsys, log: log.Named("posts")}
}

// Reload reads the posts again and returns how many were published.
func (l *Library) Reload() (int, error) {
	posts, err := Load(l.fsys, l.log)
	if err != nil {
		return 0, err
	}
	l.mu.Lock()
	l.posts = posts
	l.mu.Unlock()
	l.log.Debug("Posts loaded", zap.Int("count", len(posts)))
	return len(posts), nil
}

// Posts returns the published posts, newest first.
func (l *Library) Posts() []model.Post {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]model.Post(nil), l.posts...)
}

func (l *Library) BySlug(slug string) (model.Post, error) {
	return BySlug(l.Posts(), slug)
}

func (l *Library) Tags() []string {
	return AllTags(l.Posts())
}

func (l *Library) FilterByTag(tag string) []model.Post {
	return FilterByTag(l.Posts(), tag)
}

// Page is a static page such as about or contact.
type Page struct {
	Title string
	Body  string
}

// LoadPage reads pages/<name>.md. The error wraps fs.ErrNotExist when the
// page does not exist.
func (l *Library) LoadPage(name string) (Page, error) {
	data, err := fs.ReadFile(l.fsys, PagesDir+"/"+name+".md")
	if err != nil {
		return Page{}, err
	}
	doc, err := Parse(data)
	if err != nil {
		return Page{}, fmt.Errorf("page %s: %w", name, err)
	}
	title, _ := doc.Fields["title"].(string)
	return Page{Title: title, Body: doc.Body}, nil
}

// IsNotFound reports whether err means a post or page does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
