package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// omdbClient looks up plots and IMDB ratings by IMDB id.
type omdbClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// omdbTitle is the subset of the OMDB response used for enrichment.
type omdbTitle struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	Plot       string `json:"Plot"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
}

var errOMDBNoResult = errors.New("omdb: no result")

func newOMDBClient(apiKey, baseURL string, httpClient *http.Client) *omdbClient {
	return &omdbClient{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

// IsEnabled returns whether the client has an API key.
func (c *omdbClient) IsEnabled() bool {
	return c != nil && c.apiKey != ""
}

func (c *omdbClient) lookup(ctx context.Context, imdbID string) (*omdbTitle, error) {
	imdbID = strings.TrimSpace(imdbID)
	if !strings.HasPrefix(imdbID, "tt") {
		imdbID = "tt" + imdbID
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("i", imdbID)
	params.Set("plot", "short")

	var title omdbTitle
	if err := getJSON(ctx, c.httpClient, "omdb", c.baseURL, "/", params, &title); err != nil {
		return nil, err
	}
	// OMDB reports lookup failures with 200 and Response=False
	if strings.EqualFold(title.Response, "false") {
		if title.Error != "" {
			return nil, errors.New("omdb: " + title.Error)
		}
		return nil, errOMDBNoResult
	}
	return &title, nil
}

// plot returns the OMDB plot unless it is missing or "N/A".
func (t *omdbTitle) plot() string {
	if t == nil {
		return ""
	}
	p := strings.TrimSpace(t.Plot)
	if p == "" || p == "N/A" {
		return ""
	}
	return p
}

// rating parses imdbRating, returning nil for "N/A" and malformed values.
func (t *omdbTitle) rating() *float64 {
	if t == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(t.ImdbRating), 64)
	if err != nil {
		return nil
	}
	return &v
}
