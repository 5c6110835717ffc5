package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const (
	tmdbImageBaseURL     = "https://image.tmdb.org/t/p/w500"
	tmdbBackdropBaseURL  = "https://image.tmdb.org/t/p/w1280"
	tmdbDiscoverEndpoint = "/discover/movie"
	tmdbSearchEndpoint   = "/search/multi"
)

// tmdbClient handles requests to the TMDB v3 API.
type tmdbClient struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

// tmdbItem is one entry of a discover or multi-search result page.
type tmdbItem struct {
	ID               int64   `json:"id"`
	MediaType        string  `json:"media_type"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	PosterPath       string  `json:"poster_path"`
	ProfilePath      string  `json:"profile_path"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	VoteAverage      float64 `json:"vote_average"`
	GenreIDs         []int   `json:"genre_ids"`
	Overview         string  `json:"overview"`
	OriginalLanguage string  `json:"original_language"`
}

// displayTitle returns title for movies and name for TV shows and people.
func (i tmdbItem) displayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

type tmdbPage struct {
	Page         int        `json:"page"`
	Results      []tmdbItem `json:"results"`
	TotalResults int        `json:"total_results"`
	TotalPages   int        `json:"total_pages"`
}

type tmdbExternalIDs struct {
	IMDBID string `json:"imdb_id"`
}

type tmdbDetails struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	VoteAverage      float64 `json:"vote_average"`
	Overview         string  `json:"overview"`
	Tagline          string  `json:"tagline"`
	Status           string  `json:"status"`
	Runtime          int     `json:"runtime"`
	EpisodeRunTime   []int   `json:"episode_run_time"`
	OriginalLanguage string  `json:"original_language"`
	IMDBID           string  `json:"imdb_id"`
	Genres           []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	Networks []struct {
		Name string `json:"name"`
	} `json:"networks"`
	ExternalIDs tmdbExternalIDs `json:"external_ids"`
}

func newTMDBClient(apiKey, baseURL, language string, httpClient *http.Client) *tmdbClient {
	return &tmdbClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		language:   language,
		httpClient: httpClient,
	}
}

// baseParams returns the parameters shared by every listing request.
func (c *tmdbClient) baseParams(page int) url.Values {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("include_adult", "false")
	return params
}

func (c *tmdbClient) fetchPage(ctx context.Context, endpoint string, params url.Values) (*tmdbPage, error) {
	var page tmdbPage
	if err := getJSON(ctx, c.httpClient, "tmdb", c.baseURL, endpoint, params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// fetchIMDBID resolves the IMDB id of a movie or TV show. Returns empty string when TMDB has none.
func (c *tmdbClient) fetchIMDBID(ctx context.Context, mediaType string, id int64) (string, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)

	var ids tmdbExternalIDs
	path := fmt.Sprintf("/%s/%d/external_ids", mediaType, id)
	if err := getJSON(ctx, c.httpClient, "tmdb", c.baseURL, path, params, &ids); err != nil {
		return "", err
	}
	return ids.IMDBID, nil
}

func (c *tmdbClient) fetchDetails(ctx context.Context, mediaType string, id int64) (*tmdbDetails, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	params.Set("append_to_response", "external_ids")

	var details tmdbDetails
	path := fmt.Sprintf("/%s/%d", mediaType, id)
	if err := getJSON(ctx, c.httpClient, "tmdb", c.baseURL, path, params, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return tmdbImageBaseURL + path
}
