package model

// Post is a published blog post.
type Post struct {
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Date      string   `json:"date"` // YYYY-MM-DD
	Tags      []string `json:"tags"`
	Excerpt   string   `json:"excerpt,omitempty"`
	HeroImage string   `json:"heroImage,omitempty"`
	Draft     bool     `json:"draft,omitempty"`
	Body      string   `json:"body,omitempty"` // raw Markdown
}

// Settings keys.
const (
	SettingMarkdownTheme  = "markdown-theme"
	SettingPageTheme      = "page-theme"
	SettingHighlightTheme = "hljs-theme"
	SettingMode           = "theme"
)

// Values stored under SettingMode.
const (
	ModeDark  = "dark"
	ModeLight = "light"
)

type MessageType string

const (
	MessageHello  MessageType = "hello"
	MessageTheme  MessageType = "theme"
	MessageReload MessageType = "reload"
)

// Message is pushed to websocket clients.
type Message struct {
	Type MessageType `json:"type"`
	Data any         `json:"data,omitempty"`
}

// ThemeChange describes a theme selection or mode switch.
type ThemeChange struct {
	Kind string `json:"kind"`
	Key  string `json:"key,omitempty"`
	Dark bool   `json:"dark"`
}

// Reload reports a content reload.
type Reload struct {
	Posts int `json:"posts"`
}
