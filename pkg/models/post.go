package models

// Default accent colors applied when a page supplies none.
const (
	DefaultLightColor = "#0066cc"
	DefaultDarkColor  = "#0052a3"
)

// FrontMatter is the metadata header of a stored post. notion_id is the
// durable join key between the Notion page and the local file; the slug
// (filename) can change when the title changes.
type FrontMatter struct {
	Title      string   `yaml:"title" json:"title"`
	Date       string   `yaml:"date" json:"date"`
	Excerpt    string   `yaml:"excerpt" json:"excerpt"`
	NotionID   string   `yaml:"notion_id" json:"notion_id"`
	Tags       []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	LightColor string   `yaml:"lightColor" json:"light_color"`
	DarkColor  string   `yaml:"darkColor" json:"dark_color"`
}

// Post represents one Markdown file in the content store.
type Post struct {
	Slug        string      `json:"slug"`
	FrontMatter FrontMatter `json:"frontmatter"`
	Body        string      `json:"body,omitempty"`
}
