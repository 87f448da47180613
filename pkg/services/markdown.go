package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"notion-cms/pkg/notion"
)

// BlockSource lists a block's children; tables need it for their rows
// and the assembler for the page's top-level blocks.
type BlockSource interface {
	ListChildren(ctx context.Context, blockID string) ([]notion.Block, error)
}

// ImageTranscoder converts a remote image into a local web asset.
// It never fails the page: on error it falls back to the original URL.
type ImageTranscoder interface {
	Transcode(ctx context.Context, srcURL, slug string, seq int) ConvertedImage
}

// RenderContext carries the per-page state a block render needs. The
// image sequence counter lives here, not in a package variable, so pages
// never contaminate each other.
type RenderContext struct {
	Slug     string
	imageSeq int
}

func NewRenderContext(slug string) *RenderContext {
	return &RenderContext{Slug: slug, imageSeq: 1}
}

func (rc *RenderContext) nextImageSeq() int {
	n := rc.imageSeq
	rc.imageSeq++
	return n
}

// ImageCount reports how many images have been rendered so far.
func (rc *RenderContext) ImageCount() int {
	return rc.imageSeq - 1
}

// Renderer converts blocks into Markdown fragments.
type Renderer struct {
	Blocks BlockSource
	Images ImageTranscoder
}

// RenderBlocks renders every block in document order and concatenates
// the fragments. A failed block degrades to an empty fragment; one bad
// block never aborts the page.
func (r *Renderer) RenderBlocks(ctx context.Context, blocks []notion.Block, rc *RenderContext) string {
	var sb strings.Builder
	for _, b := range blocks {
		frag, err := r.renderBlock(ctx, b, rc)
		if err != nil {
			slog.Error("block conversion failed", "type", b.Type, "block_id", b.ID, "error", err)
			continue
		}
		sb.WriteString(frag)
	}
	return sb.String()
}

var errMissingPayload = fmt.Errorf("block payload missing")

func (r *Renderer) renderBlock(ctx context.Context, b notion.Block, rc *RenderContext) (string, error) {
	switch b.Type {
	case notion.TypeParagraph:
		text, err := inlineText(b.Paragraph)
		return text + "\n\n", err

	case notion.TypeHeading1:
		text, err := inlineText(b.Heading1)
		return "# " + text + "\n\n", err

	case notion.TypeHeading2:
		text, err := inlineText(b.Heading2)
		return "## " + text + "\n\n", err

	case notion.TypeHeading3:
		text, err := inlineText(b.Heading3)
		return "### " + text + "\n\n", err

	case notion.TypeBulletedItem:
		text, err := inlineText(b.BulletedItem)
		return "- " + text + "\n", err

	case notion.TypeNumberedItem:
		// Every item is literally "1."; the Markdown renderer renumbers.
		text, err := inlineText(b.NumberedItem)
		return "1. " + text + "\n", err

	case notion.TypeToDo:
		if b.ToDo == nil {
			return "", errMissingPayload
		}
		checked := " "
		if b.ToDo.Checked {
			checked = "x"
		}
		return "- [" + checked + "] " + RenderRichText(b.ToDo.RichText) + "\n", nil

	case notion.TypeQuote:
		text, err := inlineText(b.Quote)
		return "> " + text + "\n\n", err

	case notion.TypeCode:
		if b.Code == nil {
			return "", errMissingPayload
		}
		code := RenderRichText(b.Code.RichText)
		return "```" + b.Code.Language + "\n" + code + "\n```\n\n", nil

	case notion.TypeDivider:
		return "---\n\n", nil

	case notion.TypeImage:
		return r.renderImage(ctx, b, rc)

	case notion.TypeTable:
		return r.renderTable(ctx, b)

	case notion.TypeCallout:
		if b.Callout == nil {
			return "", errMissingPayload
		}
		emoji := "💡"
		if b.Callout.Icon != nil && b.Callout.Icon.Emoji != "" {
			emoji = b.Callout.Icon.Emoji
		}
		return emoji + " **" + RenderRichText(b.Callout.RichText) + "**\n\n", nil

	default:
		slog.Warn("unsupported block type", "type", b.Type, "block_id", b.ID)
		return "", nil
	}
}

func (r *Renderer) renderImage(ctx context.Context, b notion.Block, rc *RenderContext) (string, error) {
	if b.Image == nil {
		return "", errMissingPayload
	}
	srcURL := b.Image.URL()
	if srcURL == "" {
		return "", fmt.Errorf("image block without source url")
	}

	caption := RenderRichText(b.Image.Caption)
	if caption == "" {
		caption = "Image"
	}

	img := r.Images.Transcode(ctx, srcURL, rc.Slug, rc.nextImageSeq())
	return fmt.Sprintf("![%s](%s)\n\n", caption, img.Path), nil
}

// renderTable fetches the table's row children and emits a pipe table.
// A separator row always follows the first row, header or not.
func (r *Renderer) renderTable(ctx context.Context, b notion.Block) (string, error) {
	rows, err := r.Blocks.ListChildren(ctx, b.ID)
	if err != nil {
		return "", fmt.Errorf("fetch table rows: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}

	var sb strings.Builder
	first := true
	for _, row := range rows {
		if row.Type != notion.TypeTableRow || row.TableRow == nil {
			continue
		}

		cells := make([]string, len(row.TableRow.Cells))
		for i, cell := range row.TableRow.Cells {
			cells[i] = strings.ReplaceAll(RenderRichText(cell), "|", "\\|")
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")

		if first {
			seps := make([]string, len(cells))
			for i := range seps {
				seps[i] = "---"
			}
			sb.WriteString("| " + strings.Join(seps, " | ") + " |\n")
			first = false
		}
	}
	if sb.Len() == 0 {
		return "", nil
	}
	return sb.String() + "\n", nil
}

func inlineText(tb *notion.TextBlock) (string, error) {
	if tb == nil {
		return "", errMissingPayload
	}
	return RenderRichText(tb.RichText), nil
}

// RenderRichText concatenates annotated runs into one Markdown string.
func RenderRichText(runs []notion.RichText) string {
	var sb strings.Builder
	for _, run := range runs {
		content := run.PlainText
		if run.Annotations.Bold {
			content = "**" + content + "**"
		}
		if run.Annotations.Italic {
			content = "*" + content + "*"
		}
		if run.Annotations.Code {
			content = "`" + content + "`"
		}
		if run.Annotations.Strikethrough {
			content = "~~" + content + "~~"
		}
		if run.Href != "" {
			content = "[" + content + "](" + run.Href + ")"
		}
		sb.WriteString(content)
	}
	return sb.String()
}
