package posts

import (
	"github.com/russross/blackfriday/v2"
)

const extensions = blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs

// Render converts a Markdown body to HTML.
func Render(body string) string {
	return string(blackfriday.Run([]byte(body), blackfriday.WithExtensions(extensions)))
}
