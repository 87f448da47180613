package notion

import "strings"

// Block type tags as they appear on the wire.
const (
	TypeParagraph    = "paragraph"
	TypeHeading1     = "heading_1"
	TypeHeading2     = "heading_2"
	TypeHeading3     = "heading_3"
	TypeBulletedItem = "bulleted_list_item"
	TypeNumberedItem = "numbered_list_item"
	TypeToDo         = "to_do"
	TypeQuote        = "quote"
	TypeCode         = "code"
	TypeDivider      = "divider"
	TypeImage        = "image"
	TypeTable        = "table"
	TypeTableRow     = "table_row"
	TypeCallout      = "callout"
)

// RichText is one annotated text run. Sibling runs concatenate in order
// to form a logical line.
type RichText struct {
	PlainText   string      `json:"plain_text"`
	Href        string      `json:"href,omitempty"`
	Annotations Annotations `json:"annotations"`
}

type Annotations struct {
	Bold          bool `json:"bold"`
	Italic        bool `json:"italic"`
	Strikethrough bool `json:"strikethrough"`
	Code          bool `json:"code"`
}

// PlainText joins the plain text of all runs.
func PlainText(runs []RichText) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.PlainText)
	}
	return sb.String()
}

// Block is a tagged variant: Type names the kind and exactly one of the
// payload pointers is populated. Unknown kinds decode with all payloads
// nil and render to nothing.
type Block struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`

	Paragraph    *TextBlock    `json:"paragraph,omitempty"`
	Heading1     *TextBlock    `json:"heading_1,omitempty"`
	Heading2     *TextBlock    `json:"heading_2,omitempty"`
	Heading3     *TextBlock    `json:"heading_3,omitempty"`
	BulletedItem *TextBlock    `json:"bulleted_list_item,omitempty"`
	NumberedItem *TextBlock    `json:"numbered_list_item,omitempty"`
	ToDo         *ToDoBlock    `json:"to_do,omitempty"`
	Quote        *TextBlock    `json:"quote,omitempty"`
	Code         *CodeBlock    `json:"code,omitempty"`
	Image        *ImageBlock   `json:"image,omitempty"`
	Table        *TableBlock   `json:"table,omitempty"`
	TableRow     *TableRow     `json:"table_row,omitempty"`
	Callout      *CalloutBlock `json:"callout,omitempty"`
}

type TextBlock struct {
	RichText []RichText `json:"rich_text"`
}

type ToDoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

type CodeBlock struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
}

type ImageBlock struct {
	Type     string     `json:"type"` // "external" or "file"
	External *FileRef   `json:"external,omitempty"`
	File     *FileRef   `json:"file,omitempty"`
	Caption  []RichText `json:"caption"`
}

// URL resolves the source URL for either hosting variant.
func (b *ImageBlock) URL() string {
	if b.Type == "external" && b.External != nil {
		return b.External.URL
	}
	if b.File != nil {
		return b.File.URL
	}
	return ""
}

type FileRef struct {
	URL string `json:"url"`
}

type TableBlock struct {
	HasColumnHeader bool `json:"has_column_header"`
}

type TableRow struct {
	Cells [][]RichText `json:"cells"`
}

type CalloutBlock struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
}

type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// Page is a database entry with the properties this pipeline consumes.
type Page struct {
	ID         string         `json:"id"`
	Properties PageProperties `json:"properties"`
}

type PageProperties struct {
	Title   TitleProperty  `json:"Title"`
	Status  StatusProperty `json:"Status"`
	Date    DateProperty   `json:"Date"`
	Tags    SelectProperty `json:"Tags"`
	Slug    TextProperty   `json:"Slug"`
	Excerpt TextProperty   `json:"Excerpt"`
}

type TitleProperty struct {
	Title []RichText `json:"title"`
}

type StatusProperty struct {
	Status *StatusValue `json:"status,omitempty"`
}

type StatusValue struct {
	Name string `json:"name"`
}

type DateProperty struct {
	Date *DateValue `json:"date,omitempty"`
}

type DateValue struct {
	Start string `json:"start"`
}

type SelectProperty struct {
	MultiSelect []SelectOption `json:"multi_select"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type TextProperty struct {
	RichText []RichText `json:"rich_text"`
}

// Title joins all title fragments; a page never renders nameless.
func (p *Page) Title() string {
	if t := PlainText(p.Properties.Title.Title); t != "" {
		return t
	}
	return "Untitled"
}

func (p *Page) Status() string {
	if p.Properties.Status.Status == nil {
		return "Draft"
	}
	return p.Properties.Status.Status.Name
}

// DateStart returns the raw scheduled date, empty when unset.
func (p *Page) DateStart() string {
	if p.Properties.Date.Date == nil {
		return ""
	}
	return p.Properties.Date.Date.Start
}

func (p *Page) Tags() []string {
	var tags []string
	for _, opt := range p.Properties.Tags.MultiSelect {
		tags = append(tags, opt.Name)
	}
	return tags
}

// SlugProperty returns the explicit slug, empty when it must be derived.
func (p *Page) SlugProperty() string {
	return PlainText(p.Properties.Slug.RichText)
}

func (p *Page) ExcerptProperty() string {
	return PlainText(p.Properties.Excerpt.RichText)
}
