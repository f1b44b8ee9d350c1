// Package posts loads Markdown posts and their front matter.
package posts

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"go.uber.org/zap"

	"inkblog/model"
)

// ErrNotFound is returned when no post has the requested slug.
var ErrNotFound = errors.New("post not found")

// PostsDir is where posts live inside the content directory.
const PostsDir = "posts"

// UnknownDate is used for posts without a usable date.
const UnknownDate = "1970-01-01"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2, 2006",
}

type frontMatter struct {
	Title     string `yaml:"title" toml:"title" json:"title"`
	Date      any    `yaml:"date" toml:"date" json:"date"`
	Tags      any    `yaml:"tags" toml:"tags" json:"tags"`
	Excerpt   string `yaml:"excerpt" toml:"excerpt" json:"excerpt"`
	HeroImage string `yaml:"heroImage" toml:"heroImage" json:"heroImage"`
	Draft     bool   `yaml:"draft" toml:"draft" json:"draft"`
}

// Load reads every posts/*.md file of fsys, drops drafts and returns the
// rest newest first. Posts that fail to parse are skipped with a warning.
func Load(fsys fs.FS, log *zap.Logger) ([]model.Post, error) {
	names, err := fs.Glob(fsys, PostsDir+"/*.md")
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	var published []model.Post
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			log.Warn("Failed to read post", zap.String("file", name), zap.Error(err))
			continue
		}
		post, err := Normalize(data, Slug(name), log)
		if err != nil {
			log.Warn("Skipping malformed post", zap.String("file", name), zap.Error(err))
			continue
		}
		if post.Draft {
			continue
		}
		published = append(published, post)
	}

	SortByDate(published)
	return published, nil
}

// Slug returns the file name of p without its .md extension.
func Slug(p string) string {
	return strings.TrimSuffix(path.Base(p), ".md")
}

// Normalize parses a Markdown document into a post with defaults applied.
func Normalize(data []byte, slug string, log *zap.Logger) (model.Post, error) {
	var fm frontMatter
	rest, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return model.Post{}, fmt.Errorf("front matter: %w", err)
	}

	post := model.Post{
		Slug:      slug,
		Title:     fm.Title,
		Date:      UnknownDate,
		Tags:      tags(fm.Tags),
		Excerpt:   fm.Excerpt,
		HeroImage: fm.HeroImage,
		Draft:     fm.Draft,
		Body:      strings.TrimLeft(string(rest), "\r\n"),
	}
	if post.Title == "" {
		post.Title = slug
	}
	if fm.Date != nil {
		date, err := normalizeDate(fm.Date)
		if err != nil {
			log.Warn("Invalid post date", zap.String("slug", slug), zap.Any("date", fm.Date), zap.Error(err))
		} else {
			post.Date = date
		}
	}
	return post, nil
}

func normalizeDate(v any) (string, error) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC().Format(time.DateOnly), nil
	case string:
		d = strings.TrimSpace(d)
		if d == "" {
			return UnknownDate, nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t.UTC().Format(time.DateOnly), nil
			}
		}
		return "", fmt.Errorf("unrecognised date %q", d)
	}
	return "", fmt.Errorf("unsupported date type %T", v)
}

func tags(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []string:
		out = append(out, t...)
	case []any:
		for _, tag := range t {
			out = append(out, fmt.Sprint(tag))
		}
	}
	return out
}

// Document is a Markdown file split into its front matter and body.
type Document struct {
	Fields map[string]any
	Body   string
}

// Parse splits content into front matter fields and body without applying
// any defaults.
func Parse(content []byte) (Document, error) {
	doc := Document{Fields: map[string]any{}}
	rest, err := frontmatter.Parse(bytes.NewReader(content), &doc.Fields)
	if err != nil {
		return Document{}, fmt.Errorf("front matter: %w", err)
	}
	doc.Body = strings.TrimLeft(string(rest), "\r\n")
	return doc, nil
}

// SortByDate orders posts newest first in place. Posts sharing a date keep
// their relative order.
func SortByDate(posts []model.Post) {
	slices.SortStableFunc(posts, func(a, b model.Post) int {
		return strings.Compare(b.Date, a.Date)
	})
}
