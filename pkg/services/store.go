package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"notion-cms/pkg/models"
)

// Store is the directory of Markdown posts, the pipeline's only
// persisted state. Files are keyed by slug; ownership is keyed by the
// notion_id embedded in each file's front matter.
type Store struct {
	dir string

	mu          sync.Mutex
	cache       []models.Post
	cacheLoaded bool
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// SafeJoin joins path segments, rejecting traversal outside the root.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean(target)
	if strings.Contains(cleanTarget, "..") {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

func (s *Store) path(slug string) string {
	return SafeJoin(s.dir, "", slug+".md")
}

// Exists reports whether a post file exists for the slug. The scheduler
// uses this as its cheap idempotency check before fetching any content.
func (s *Store) Exists(slug string) bool {
	p := s.path(slug)
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

// Write serializes the post with YAML front matter and stores it under
// {slug}.md, overwriting any previous version.
func (s *Store) Write(post *models.Post) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	content, err := encodePost(post)
	if err != nil {
		return err
	}
	p := s.path(post.Slug)
	if p == "" {
		return fmt.Errorf("invalid slug: %s", post.Slug)
	}
	if err := os.WriteFile(p, content, 0644); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func encodePost(post *models.Post) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(post.FrontMatter); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("---\n")
	if post.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(post.Body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Read loads one post, body included.
func (s *Store) Read(slug string) (*models.Post, error) {
	p := s.path(slug)
	if p == "" {
		return nil, fmt.Errorf("invalid slug: %s", slug)
	}
	content, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	var fm models.FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(content), &fm)
	if err != nil {
		return nil, fmt.Errorf("parse front matter of %s.md: %w", slug, err)
	}
	return &models.Post{
		Slug:        slug,
		FrontMatter: fm,
		Body:        strings.TrimSpace(string(body)),
	}, nil
}

// FindBySourceID scans the store for the file owned by the Notion page
// and returns its slug, or "" when no file matches.
func (s *Store) FindBySourceID(notionID string) (string, error) {
	entries, err := s.entries()
	if err != nil {
		return "", err
	}
	for _, slug := range entries {
		post, err := s.Read(slug)
		if err != nil {
			continue
		}
		if post.FrontMatter.NotionID == notionID {
			return slug, nil
		}
	}
	return "", nil
}

// DeleteBySourceID removes the file owned by the Notion page. Returns
// the removed slug and whether anything was deleted.
func (s *Store) DeleteBySourceID(notionID string) (string, bool, error) {
	slug, err := s.FindBySourceID(notionID)
	if err != nil {
		return "", false, err
	}
	if slug == "" {
		return "", false, nil
	}
	removed, err := s.DeleteBySlug(slug)
	return slug, removed, err
}

// DeleteBySlug removes a post file. Deleting an absent post is not an
// error.
func (s *Store) DeleteBySlug(slug string) (bool, error) {
	p := s.path(slug)
	if p == "" {
		return false, fmt.Errorf("invalid slug: %s", slug)
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	s.invalidate()
	return true, nil
}

// List returns every stored post without bodies, cached between writes.
func (s *Store) List() ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cacheLoaded {
		return s.cache, nil
	}

	entries, err := s.entries()
	if err != nil {
		return nil, err
	}

	var posts []models.Post
	for _, slug := range entries {
		post, err := s.Read(slug)
		if err != nil {
			continue
		}
		post.Body = ""
		posts = append(posts, *post)
	}

	s.cache = posts
	s.cacheLoaded = true
	return posts, nil
}

func (s *Store) entries() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var slugs []string
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(entry.Name(), ".md"))
	}
	return slugs, nil
}

func (s *Store) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheLoaded = false
	s.cache = nil
}
