package posts

import (
	"github.com/gosimple/slug"

	"inkblog/model"
)

// BySlug returns the post with the given slug.
func BySlug(posts []model.Post, s string) (model.Post, error) {
	for _, p := range posts {
		if p.Slug == s {
			return p, nil
		}
	}
	return model.Post{}, ErrNotFound
}

// AllTags returns every tag once, in the order first seen.
func AllTags(posts []model.Post) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range posts {
		for _, tag := range p.Tags {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	return out
}

// FilterByTag returns the posts carrying tag. A tag also matches its slug,
// so "Go Tips" can be looked up as "go-tips".
func FilterByTag(posts []model.Post, tag string) []model.Post {
	want := slug.Make(tag)
	out := []model.Post{}
	for _, p := range posts {
		for _, t := range p.Tags {
			if t == tag || (want != "" && slug.Make(t) == want) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// TagSlug returns the URL form of tag.
func TagSlug(tag string) string {
	if s := slug.Make(tag); s != "" {
		return s
	}
	return tag
}
