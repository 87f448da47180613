package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"notion-cms/pkg/models"
	"notion-cms/pkg/notion"
)

const excerptMaxRunes = 160

// Assembler turns one Notion page into a complete Markdown post.
type Assembler struct {
	Blocks   BlockSource
	Renderer *Renderer
}

// Assemble fetches the page's blocks, renders them in order and returns
// the post ready for the store. Returns nil (no error) for pages that
// are not Published.
func (a *Assembler) Assemble(ctx context.Context, page *notion.Page) (*models.Post, error) {
	title := page.Title()
	if page.Status() != "Published" {
		slog.Info("skipping page", "title", title, "status", page.Status())
		return nil, nil
	}

	slug := page.SlugProperty()
	if slug == "" {
		slug = Slugify(title)
	}

	date := page.DateStart()
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if i := strings.Index(date, "T"); i >= 0 {
		date = date[:i]
	}

	blocks, err := a.Blocks.ListChildren(ctx, page.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch blocks for %q: %w", title, err)
	}

	rc := NewRenderContext(slug)
	body := a.Renderer.RenderBlocks(ctx, blocks, rc)

	excerpt := page.ExcerptProperty()
	if excerpt == "" {
		excerpt = deriveExcerpt(body)
	}

	// The template renders the title itself; drop a duplicated leading H1.
	body = stripLeadingH1(body)

	slog.Info("assembled page", "title", title, "slug", slug, "images", rc.ImageCount())

	return &models.Post{
		Slug: slug,
		FrontMatter: models.FrontMatter{
			Title:      title,
			Date:       date,
			Excerpt:    excerpt,
			NotionID:   page.ID,
			Tags:       page.Tags(),
			LightColor: models.DefaultLightColor,
			DarkColor:  models.DefaultDarkColor,
		},
		Body: body,
	}, nil
}

var markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)

// deriveExcerpt takes the first non-heading paragraph, strips bold and
// link markers and truncates to 160 characters with an ellipsis marker.
func deriveExcerpt(markdown string) string {
	var first string
	for _, p := range strings.Split(markdown, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		first = p
		break
	}
	if first == "" {
		return ""
	}

	clean := strings.ReplaceAll(first, "**", "")
	clean = markdownLinkRe.ReplaceAllString(clean, "$1")
	clean = strings.TrimSpace(clean)

	runes := []rune(clean)
	if len(runes) > excerptMaxRunes {
		return string(runes[:excerptMaxRunes]) + "..."
	}
	return clean
}

// Matches a single H1 line; `#` followed by a space keeps deeper
// headings untouched.
var leadingH1Re = regexp.MustCompile(`(?m)^#[ \t]+[^\n]*\n*`)

// stripLeadingH1 removes the first top-level heading only.
func stripLeadingH1(body string) string {
	loc := leadingH1Re.FindStringIndex(body)
	if loc == nil {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(body[:loc[0]] + body[loc[1]:])
}
