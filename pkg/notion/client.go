package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"

	maxAttempts = 3
	retryDelay  = 500 * time.Millisecond
)

// Client is a minimal read-only Notion API client covering the three
// endpoints the sync pipeline consumes.
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

func NewClient(token string) *Client {
	transport := &http.Transport{
		MaxIdleConns:       10,
		IdleConnTimeout:    90 * time.Second,
		DisableCompression: false,
	}
	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   15 * time.Second,
		},
		token:   token,
		baseURL: defaultBaseURL,
	}
}

// do issues one API call with a small fixed retry budget for rate limits
// and transient server errors.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Notion-Version", apiVersion)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("notion api %s %s: status %d", method, path, resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return fmt.Errorf("notion api %s %s: status %d: %s", method, path, resp.StatusCode, msg)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("notion api %s %s: decode: %w", method, path, err)
		}
		return nil
	}
	return lastErr
}

type queryRequest struct {
	Filter      interface{} `json:"filter"`
	Sorts       interface{} `json:"sorts"`
	StartCursor string      `json:"start_cursor,omitempty"`
}

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryPublished returns all pages with status Published and a scheduled
// date at or before the given time, most recent first.
func (c *Client) QueryPublished(ctx context.Context, databaseID string, before time.Time) ([]Page, error) {
	filter := map[string]interface{}{
		"and": []interface{}{
			map[string]interface{}{
				"property": "Status",
				"status":   map[string]string{"equals": "Published"},
			},
			map[string]interface{}{
				"property": "Date",
				"date":     map[string]string{"on_or_before": before.UTC().Format(time.RFC3339)},
			},
		},
	}
	sorts := []interface{}{
		map[string]string{"property": "Date", "direction": "descending"},
	}

	var pages []Page
	cursor := ""
	for {
		body, err := json.Marshal(queryRequest{Filter: filter, Sorts: sorts, StartCursor: cursor})
		if err != nil {
			return nil, err
		}
		var resp queryResponse
		if err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", body, &resp); err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}
	return pages, nil
}

// GetPage retrieves one page's properties by identifier.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/pages/"+pageID, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type childrenResponse struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor string  `json:"next_cursor"`
}

// ListChildren returns all child blocks in document order, following
// pagination cursors until none remain. Also used for table rows.
func (c *Client) ListChildren(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		path := "/blocks/" + blockID + "/children?page_size=100"
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}
		var resp childrenResponse
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}
	return blocks, nil
}
