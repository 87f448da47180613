package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"notion-cms/pkg/notion"
)

// Source is the consumed surface of the external content source.
type Source interface {
	BlockSource
	GetPage(ctx context.Context, pageID string) (*notion.Page, error)
	QueryPublished(ctx context.Context, databaseID string, before time.Time) ([]notion.Page, error)
}

// Notifier submits a first-time publish downstream for search indexing.
type Notifier interface {
	Submit(ctx context.Context, slug string) error
}

// Orchestrator drives the sync state machine: event-mode single-page
// publish/delete and schedule-mode drip publishing.
type Orchestrator struct {
	source     Source
	store      *Store
	assembler  *Assembler
	notifier   Notifier
	databaseID string
	now        func() time.Time
}

func NewOrchestrator(source Source, store *Store, assembler *Assembler, notifier Notifier, databaseID string) *Orchestrator {
	return &Orchestrator{
		source:     source,
		store:      store,
		assembler:  assembler,
		notifier:   notifier,
		databaseID: databaseID,
		now:        time.Now,
	}
}

// SyncPage handles one event-mode trigger. When the caller does not know
// the page's status (empty), it is fetched first. Errors are fatal to
// the invocation: event mode has exactly one unit of work.
func (o *Orchestrator) SyncPage(ctx context.Context, pageID, status string) error {
	var page *notion.Page
	if status == "" {
		var err error
		page, err = o.source.GetPage(ctx, pageID)
		if err != nil {
			return fmt.Errorf("retrieve page %s: %w", pageID, err)
		}
		status = page.Status()
	}

	switch {
	case status == "Published":
		return o.publish(ctx, pageID, page)
	case strings.EqualFold(status, "Deleted"):
		return o.delete(ctx, pageID)
	default:
		slog.Info("ignoring page", "page_id", pageID, "status", status)
		return nil
	}
}

// publish writes the page's current content. Any pre-existing file owned
// by the same page is removed first since the slug may have changed; a
// first-time publish additionally hands its slug to the index notifier.
func (o *Orchestrator) publish(ctx context.Context, pageID string, page *notion.Page) error {
	oldSlug, err := o.store.FindBySourceID(pageID)
	if err != nil {
		return fmt.Errorf("scan content store: %w", err)
	}
	isNew := oldSlug == ""
	if !isNew {
		if _, err := o.store.DeleteBySlug(oldSlug); err != nil {
			return fmt.Errorf("remove old file %s.md: %w", oldSlug, err)
		}
		slog.Info("removed old file", "slug", oldSlug)
	}

	if page == nil {
		page, err = o.source.GetPage(ctx, pageID)
		if err != nil {
			return fmt.Errorf("retrieve page %s: %w", pageID, err)
		}
	}

	post, err := o.assembler.Assemble(ctx, page)
	if err != nil {
		return fmt.Errorf("convert page %s: %w", pageID, err)
	}
	if post == nil {
		return nil
	}

	if err := o.store.Write(post); err != nil {
		return fmt.Errorf("write %s.md: %w", post.Slug, err)
	}

	if isNew {
		slog.Info("first publish", "slug", post.Slug)
		o.notify(ctx, post.Slug)
	} else {
		slog.Info("updated existing post, skipping index notification", "slug", post.Slug)
	}
	return nil
}

// delete is best-effort and idempotent: identifier scan first, slug
// lookup from the source as fallback, then a non-fatal not-found.
func (o *Orchestrator) delete(ctx context.Context, pageID string) error {
	slug, removed, err := o.store.DeleteBySourceID(pageID)
	if err != nil {
		return fmt.Errorf("scan content store: %w", err)
	}
	if removed {
		slog.Info("deleted post", "slug", slug, "page_id", pageID)
		return nil
	}

	page, err := o.source.GetPage(ctx, pageID)
	if err != nil {
		slog.Warn("post not found locally and page unavailable at source", "page_id", pageID, "error", err)
		return nil
	}

	slug = page.SlugProperty()
	if slug == "" {
		slug = Slugify(page.Title())
	}
	if removed, err := o.store.DeleteBySlug(slug); err == nil && removed {
		slog.Info("deleted post by slug", "slug", slug, "page_id", pageID)
		return nil
	}

	slog.Warn("no post found for page", "page_id", pageID)
	return nil
}

// RunScheduled performs one drip-publish sweep: of all pages published
// and due, materialize at most one that has no output file yet. A single
// page's failure skips to the next candidate.
func (o *Orchestrator) RunScheduled(ctx context.Context) error {
	pages, err := o.source.QueryPublished(ctx, o.databaseID, o.now())
	if err != nil {
		return fmt.Errorf("query published pages: %w", err)
	}
	if len(pages) == 0 {
		slog.Info("no published pages due")
		return nil
	}
	slog.Info("found published pages with past date", "count", len(pages))

	for i := range pages {
		page := &pages[i]

		// Compute the slug before fetching content so already-published
		// pages cost nothing.
		slug := page.SlugProperty()
		if slug == "" {
			slug = Slugify(page.Title())
		}
		if o.store.Exists(slug) {
			slog.Info("skipping existing post", "slug", slug)
			continue
		}

		post, err := o.assembler.Assemble(ctx, page)
		if err != nil {
			slog.Error("page conversion failed", "page_id", page.ID, "error", err)
			continue
		}
		if post == nil {
			continue
		}

		if err := o.store.Write(post); err != nil {
			slog.Error("write failed", "slug", post.Slug, "error", err)
			continue
		}

		slog.Info("published", "slug", post.Slug)
		o.notify(ctx, post.Slug)
		return nil // one post per run
	}

	slog.Info("no new posts to publish")
	return nil
}

func (o *Orchestrator) notify(ctx context.Context, slug string) {
	if o.notifier == nil {
		slog.Debug("index notifier not configured, skipping", "slug", slug)
		return
	}
	if err := o.notifier.Submit(ctx, slug); err != nil {
		slog.Error("index notification failed", "slug", slug, "error", err)
	}
}
