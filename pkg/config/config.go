package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

var (
	// Content store settings
	ContentDir      = "./content/posts"
	ImagesDir       = "./public/notion-images"
	ImagePublicPath = "/notion-images"

	// Site settings
	SiteURL = "http://localhost:8080"
	Port    = "8080"

	// Sync settings
	SyncInterval = 6 * time.Hour

	// Notion settings (required)
	NotionAPIKey     = ""
	NotionDatabaseID = ""

	// Webhook settings
	WebhookSecret = ""

	// Google Indexing API service account (JSON, optional)
	GoogleServiceAccount = ""

	// One-shot trigger: when set, sync this page once and exit.
	SyncPageID = ""
	SyncStatus = ""
)

// fileConfig mirrors the optional config.toml. Environment variables
// override anything set here.
type fileConfig struct {
	ContentDir      string `toml:"content_dir"`
	ImagesDir       string `toml:"images_dir"`
	ImagePublicPath string `toml:"image_public_path"`
	SiteURL         string `toml:"site_url"`
	Port            string `toml:"port"`
	SyncIntervalMin int    `toml:"sync_interval_minutes"`
}

func Init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found or error loading it.")
	}

	// Helper to get env with default
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	loadConfigFile(getEnv("CONFIG_FILE", "config.toml"))

	ContentDir = getEnv("CONTENT_DIR", ContentDir)
	ImagesDir = getEnv("IMAGES_DIR", ImagesDir)
	ImagePublicPath = getEnv("IMAGE_PUBLIC_PATH", ImagePublicPath)

	SiteURL = getEnv("SITE_URL", SiteURL)
	Port = getEnv("PORT", Port)

	NotionAPIKey = os.Getenv("NOTION_API_KEY")
	NotionDatabaseID = os.Getenv("NOTION_DATABASE_ID")

	WebhookSecret = os.Getenv("WEBHOOK_SECRET")
	GoogleServiceAccount = os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")

	SyncPageID = os.Getenv("SYNC_PAGE_ID")
	SyncStatus = os.Getenv("SYNC_STATUS")

	if si := os.Getenv("SYNC_INTERVAL_MINUTES"); si != "" {
		if val, err := strconv.Atoi(si); err == nil && val > 0 {
			SyncInterval = time.Duration(val) * time.Minute
		}
	}
}

func loadConfigFile(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var fc fileConfig
	if err := toml.Unmarshal(content, &fc); err != nil {
		fmt.Printf("Ignoring invalid config file %s: %v\n", path, err)
		return
	}
	if fc.ContentDir != "" {
		ContentDir = fc.ContentDir
	}
	if fc.ImagesDir != "" {
		ImagesDir = fc.ImagesDir
	}
	if fc.ImagePublicPath != "" {
		ImagePublicPath = fc.ImagePublicPath
	}
	if fc.SiteURL != "" {
		SiteURL = fc.SiteURL
	}
	if fc.Port != "" {
		Port = fc.Port
	}
	if fc.SyncIntervalMin > 0 {
		SyncInterval = time.Duration(fc.SyncIntervalMin) * time.Minute
	}
}

// Validate checks the settings that cannot be defaulted. Called before
// any network access.
func Validate() error {
	if NotionAPIKey == "" {
		return fmt.Errorf("NOTION_API_KEY is not set")
	}
	if NotionDatabaseID == "" {
		return fmt.Errorf("NOTION_DATABASE_ID is not set")
	}
	return nil
}
