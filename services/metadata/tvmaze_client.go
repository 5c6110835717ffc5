package metadata

import (
	"context"
	"net/http"
	"net/url"
)

// tvmazeClient resolves broadcast networks for TV shows. The API is unauthenticated.
type tvmazeClient struct {
	baseURL    string
	httpClient *http.Client
}

type tvmazeShow struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Network *struct {
		Name string `json:"name"`
	} `json:"network"`
	WebChannel *struct {
		Name string `json:"name"`
	} `json:"webChannel"`
}

func newTVMazeClient(baseURL string, httpClient *http.Client) *tvmazeClient {
	return &tvmazeClient{baseURL: baseURL, httpClient: httpClient}
}

// network returns the broadcaster (or streaming channel) of the best title match.
// An empty string means TVmaze knows the show but lists no network.
func (c *tvmazeClient) network(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("q", title)

	var show tvmazeShow
	if err := getJSON(ctx, c.httpClient, "tvmaze", c.baseURL, "/singlesearch/shows", params, &show); err != nil {
		return "", err
	}
	if show.Network != nil && show.Network.Name != "" {
		return show.Network.Name, nil
	}
	if show.WebChannel != nil {
		return show.WebChannel.Name, nil
	}
	return "", nil
}
