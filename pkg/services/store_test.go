package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"notion-cms/pkg/models"
)

func testPost(slug, notionID, title string) *models.Post {
	return &models.Post{
		Slug: slug,
		FrontMatter: models.FrontMatter{
			Title:      title,
			Date:       "2024-05-01",
			Excerpt:    "An excerpt.",
			NotionID:   notionID,
			Tags:       []string{"go", "sync"},
			LightColor: models.DefaultLightColor,
			DarkColor:  models.DefaultDarkColor,
		},
		Body: "First paragraph.\n\nSecond paragraph.",
	}
}

func TestStore_WriteReadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	post := testPost("my-post", "page-1", "My Post")
	if err := store.Write(post); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(store.dir, "my-post.md"))
	if err != nil {
		t.Fatalf("Post file missing: %v", err)
	}
	if !strings.HasPrefix(string(raw), "---\n") {
		t.Errorf("File does not start with front matter delimiter: %q", string(raw[:16]))
	}

	got, err := store.Read("my-post")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.FrontMatter.Title != "My Post" || got.FrontMatter.NotionID != "page-1" {
		t.Errorf("Front matter mismatch: %+v", got.FrontMatter)
	}
	if got.FrontMatter.Date != "2024-05-01" {
		t.Errorf("Date = %q", got.FrontMatter.Date)
	}
	if len(got.FrontMatter.Tags) != 2 {
		t.Errorf("Tags = %v", got.FrontMatter.Tags)
	}
	if got.Body != post.Body {
		t.Errorf("Body mismatch:\ngot:  %q\nwant: %q", got.Body, post.Body)
	}
}

func TestStore_OmitsEmptyTags(t *testing.T) {
	store := NewStore(t.TempDir())

	post := testPost("no-tags", "page-2", "No Tags")
	post.FrontMatter.Tags = nil
	if err := store.Write(post); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	raw, _ := os.ReadFile(filepath.Join(store.dir, "no-tags.md"))
	if strings.Contains(string(raw), "tags:") {
		t.Errorf("Empty tags serialized: %q", string(raw))
	}
}

func TestStore_FindBySourceID(t *testing.T) {
	store := NewStore(t.TempDir())

	store.Write(testPost("first", "page-a", "First"))
	store.Write(testPost("second", "page-b", "Second"))

	slug, err := store.FindBySourceID("page-b")
	if err != nil {
		t.Fatalf("FindBySourceID failed: %v", err)
	}
	if slug != "second" {
		t.Errorf("Expected slug %q, got %q", "second", slug)
	}

	slug, err = store.FindBySourceID("page-missing")
	if err != nil {
		t.Fatalf("FindBySourceID failed: %v", err)
	}
	if slug != "" {
		t.Errorf("Expected no match, got %q", slug)
	}
}

func TestStore_DeleteBySourceID(t *testing.T) {
	store := NewStore(t.TempDir())
	store.Write(testPost("doomed", "page-x", "Doomed"))

	slug, removed, err := store.DeleteBySourceID("page-x")
	if err != nil {
		t.Fatalf("DeleteBySourceID failed: %v", err)
	}
	if !removed || slug != "doomed" {
		t.Errorf("removed=%v slug=%q", removed, slug)
	}
	if store.Exists("doomed") {
		t.Error("File still exists after delete")
	}

	// Deleting again is not an error.
	_, removed, err = store.DeleteBySourceID("page-x")
	if err != nil {
		t.Fatalf("Second delete errored: %v", err)
	}
	if removed {
		t.Error("Second delete reported a removal")
	}
}

func TestStore_DeleteBySlugAbsent(t *testing.T) {
	store := NewStore(t.TempDir())
	removed, err := store.DeleteBySlug("never-existed")
	if err != nil {
		t.Fatalf("DeleteBySlug errored: %v", err)
	}
	if removed {
		t.Error("Reported a removal for an absent file")
	}
}

func TestStore_ListReflectsWrites(t *testing.T) {
	store := NewStore(t.TempDir())
	store.Write(testPost("one", "p1", "One"))

	posts, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("Expected 1 post, got %d", len(posts))
	}
	if posts[0].Body != "" {
		t.Error("List should not include bodies")
	}

	// The cache must be invalidated by the next write.
	store.Write(testPost("two", "p2", "Two"))
	posts, err = store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("Expected 2 posts after second write, got %d", len(posts))
	}
}
