package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"notion-cms/pkg/services"
)

// API bundles the handler dependencies.
type API struct {
	Orchestrator    *services.Orchestrator
	Store           *services.Store
	ImagesDir       string
	ImagePublicPath string
	WebhookSecret   string
}

func (a *API) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleWebhook is the event-mode trigger: one page identifier, one
// publish/update or delete.
func (a *API) HandleWebhook(c *gin.Context) {
	if a.WebhookSecret != "" && c.GetHeader("X-Webhook-Secret") != a.WebhookSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		PageID string `json:"page_id"`
		Status string `json:"status"`
	}
	if err := c.BindJSON(&req); err != nil || req.PageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_id is required"})
		return
	}

	if err := a.Orchestrator.SyncPage(c.Request.Context(), req.PageID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleSync forces one schedule-mode sweep (publishes at most one
// pending post).
func (a *API) HandleSync(c *gin.Context) {
	if a.WebhookSecret != "" && c.GetHeader("X-Webhook-Secret") != a.WebhookSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := a.Orchestrator.RunScheduled(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) ListPosts(c *gin.Context) {
	posts, err := a.Store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPostQnA returns a post's extracted Q&A items together with the body
// stripped of the Q&A section, ready for accordion rendering.
func (a *API) GetPostQnA(c *gin.Context) {
	slug := c.Param("slug")
	post, err := a.Store.Read(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	items := services.ExtractQnA(post.Body)
	if items == nil {
		items = []services.QnAItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"slug":    slug,
		"qna":     items,
		"content": services.RemoveQnASection(post.Body),
	})
}

// ListImages lists the converted images in the local images directory.
func (a *API) ListImages(c *gin.Context) {
	entries, err := os.ReadDir(a.ImagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, []services.ConvertedImage{})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list images"})
		return
	}

	images := []services.ConvertedImage{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".webp") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		images = append(images, services.ConvertedImage{
			Path:     a.ImagePublicPath + "/" + filepath.Base(entry.Name()),
			FileName: entry.Name(),
			Size:     info.Size(),
		})
	}
	c.JSON(http.StatusOK, images)
}
