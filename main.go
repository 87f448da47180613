package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"notion-cms/pkg/config"
	"notion-cms/pkg/handlers"
	"notion-cms/pkg/notion"
	"notion-cms/pkg/services"
)

const syncTimeout = 10 * time.Minute

func main() {
	config.Init()
	if err := config.Validate(); err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	client := notion.NewClient(config.NotionAPIKey)
	store := services.NewStore(config.ContentDir)
	transcoder := services.NewTranscoder(config.ImagesDir, config.ImagePublicPath)
	renderer := &services.Renderer{Blocks: client, Images: transcoder}
	assembler := &services.Assembler{Blocks: client, Renderer: renderer}

	var notifier services.Notifier
	if config.GoogleServiceAccount != "" {
		ix, err := services.NewIndexer(config.SiteURL, []byte(config.GoogleServiceAccount))
		if err != nil {
			slog.Warn("search index notifier disabled", "error", err)
		} else {
			notifier = ix
		}
	}

	orch := services.NewOrchestrator(client, store, assembler, notifier, config.NotionDatabaseID)

	// One-shot event mode (CI trigger): sync a single page and exit.
	if config.SyncPageID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		if err := orch.SyncPage(ctx, config.SyncPageID, config.SyncStatus); err != nil {
			slog.Error("sync failed", "page_id", config.SyncPageID, "error", err)
			os.Exit(1)
		}
		return
	}

	// Drip publishing: one schedule-mode sweep per interval.
	go func() {
		ticker := time.NewTicker(config.SyncInterval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
			if err := orch.RunScheduled(ctx); err != nil {
				slog.Error("scheduled sync failed", "error", err)
			}
			cancel()
		}
	}()

	api := &handlers.API{
		Orchestrator:    orch,
		Store:           store,
		ImagesDir:       config.ImagesDir,
		ImagePublicPath: config.ImagePublicPath,
		WebhookSecret:   config.WebhookSecret,
	}

	r := gin.Default()
	r.Static(config.ImagePublicPath, config.ImagesDir)

	r.GET("/healthz", api.Health)
	r.POST("/webhook/notion", api.HandleWebhook)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/sync", api.HandleSync)
		apiGroup.GET("/posts", api.ListPosts)
		apiGroup.GET("/posts/:slug/qna", api.GetPostQnA)
		apiGroup.GET("/images", api.ListImages)
	}

	r.Run(":" + config.Port)
}
