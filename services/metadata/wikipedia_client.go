package metadata

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reelhouse/models"
)

// wikipediaTimeout bounds summary lookups, which sit on the details path.
const wikipediaTimeout = 5 * time.Second

type wikipediaClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

type wikipediaSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	Type        string `json:"type"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

func newWikipediaClient(baseURL string, httpClient *http.Client) *wikipediaClient {
	return &wikipediaClient{baseURL: baseURL, httpClient: httpClient, timeout: wikipediaTimeout}
}

func (c *wikipediaClient) summary(ctx context.Context, title string) (*models.WikiSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	page := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(title), " ", "_"))

	var raw wikipediaSummary
	if err := getJSON(ctx, c.httpClient, "wikipedia", c.baseURL, "/page/summary/"+page, nil, &raw); err != nil {
		return nil, err
	}

	out := &models.WikiSummary{
		Title:   raw.Title,
		Extract: raw.Extract,
		URL:     raw.ContentURLs.Desktop.Page,
	}
	if raw.Thumbnail != nil {
		out.Thumbnail = raw.Thumbnail.Source
	}
	return out, nil
}
