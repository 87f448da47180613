package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

const (
	indexingScope    = "https://www.googleapis.com/auth/indexing"
	indexingEndpoint = "https://indexing.googleapis.com/v3/urlNotifications:publish"
)

// Indexer submits URL_UPDATED notifications to the Google Indexing API,
// authenticated with a service-account JWT.
type Indexer struct {
	siteURL  string
	conf     *jwt.Config
	endpoint string
}

func NewIndexer(siteURL string, serviceAccountJSON []byte) (*Indexer, error) {
	conf, err := google.JWTConfigFromJSON(serviceAccountJSON, indexingScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}
	return &Indexer{
		siteURL:  strings.TrimRight(siteURL, "/"),
		conf:     conf,
		endpoint: indexingEndpoint,
	}, nil
}

// Submit notifies the index about one published slug.
func (ix *Indexer) Submit(ctx context.Context, slug string) error {
	pageURL := ix.siteURL + "/" + slug

	body, err := json.Marshal(map[string]string{
		"url":  pageURL,
		"type": "URL_UPDATED",
	})
	if err != nil {
		return err
	}

	client := ix.conf.Client(ctx)
	resp, err := client.Post(ix.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("indexing api: status %d: %s", resp.StatusCode, msg)
	}
	return nil
}
