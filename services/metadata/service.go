package metadata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"reelhouse/config"
	"reelhouse/models"
)

// Config holds the upstream endpoints and credentials of the metadata service.
type Config struct {
	TMDBAPIKey       string
	TMDBBaseURL      string
	Language         string
	OMDBAPIKey       string
	OMDBBaseURL      string
	TVMazeBaseURL    string
	WikipediaBaseURL string
	EnrichTVMaze     bool
	Timeout          time.Duration
	// HTTPClient overrides the default client; its Timeout is left untouched.
	HTTPClient *http.Client
}

// ConfigFromSettings maps the metadata section of the settings file onto a Config.
func ConfigFromSettings(s config.MetadataSettings) Config {
	return Config{
		TMDBAPIKey:       s.TMDBAPIKey,
		TMDBBaseURL:      s.TMDBBaseURL,
		Language:         s.TMDBLanguage,
		OMDBAPIKey:       s.OMDBAPIKey,
		OMDBBaseURL:      s.OMDBBaseURL,
		TVMazeBaseURL:    s.TVMazeBaseURL,
		WikipediaBaseURL: s.WikipediaBaseURL,
		EnrichTVMaze:     s.EnrichTVMaze,
		Timeout:          time.Duration(s.RequestTimeout) * time.Second,
	}
}

// Service aggregates TMDB listings and enriches them with OMDB, TVmaze and Wikipedia data.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	tmdb         *tmdbClient
	omdb         *omdbClient
	tvmaze       *tvmazeClient
	wiki         *wikipediaClient
	enrichTVMaze bool
	maxEnrichers int
}

// NewService builds the metadata service from cfg.
func NewService(cfg Config) *Service {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Service{
		tmdb:         newTMDBClient(cfg.TMDBAPIKey, cfg.TMDBBaseURL, cfg.Language, client),
		omdb:         newOMDBClient(cfg.OMDBAPIKey, cfg.OMDBBaseURL, client),
		tvmaze:       newTVMazeClient(cfg.TVMazeBaseURL, client),
		wiki:         newWikipediaClient(cfg.WikipediaBaseURL, client),
		enrichTVMaze: cfg.EnrichTVMaze,
		maxEnrichers: 16,
	}
}

// Details returns the single-title view. Only the TMDB lookup is required; OMDB, TVmaze
// and Wikipedia are fetched concurrently and silently omitted when they fail.
func (s *Service) Details(ctx context.Context, mediaType string, id int64) (*models.MovieDetails, error) {
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		return nil, fmt.Errorf("%w: unsupported media type %q", models.ErrInvalidInput, mediaType)
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid id %d", models.ErrInvalidInput, id)
	}

	d, err := s.tmdb.fetchDetails(ctx, mediaType, id)
	if err != nil {
		return nil, fmt.Errorf("tmdb details %s/%d: %w", mediaType, id, err)
	}

	title := d.Title
	releaseDate := d.ReleaseDate
	if mediaType == models.MediaTypeTV {
		title = d.Name
		releaseDate = d.FirstAirDate
	}

	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	imdbID := d.ExternalIDs.IMDBID
	if imdbID == "" {
		imdbID = d.IMDBID
	}

	out := &models.MovieDetails{
		Movie: models.Movie{
			ID:          d.ID,
			Type:        mediaType,
			Title:       title,
			PosterURL:   posterURL(d.PosterPath),
			ReleaseDate: releaseDate,
			Rating:      d.VoteAverage,
			Genres:      genres,
			Plot:        d.Overview,
		},
		IMDBID:       imdbID,
		Runtime:      d.Runtime,
		Tagline:      d.Tagline,
		Status:       d.Status,
		Overview:     d.Overview,
		OriginalLang: d.OriginalLanguage,
	}
	if d.BackdropPath != "" {
		out.BackdropURL = tmdbBackdropBaseURL + d.BackdropPath
	}
	if out.Runtime == 0 && len(d.EpisodeRunTime) > 0 {
		out.Runtime = d.EpisodeRunTime[0]
	}
	if len(d.Networks) > 0 && d.Networks[0].Name != "" {
		network := d.Networks[0].Name
		out.Network = &network
	}

	var (
		omdbHit *omdbTitle
		network string
		wiki    *models.WikiSummary
	)

	// Secondary sources are best effort; a failed lookup leaves its fields at the TMDB values.
	var wg conc.WaitGroup
	if imdbID != "" && s.omdb.IsEnabled() {
		wg.Go(func() {
			t, err := s.omdb.lookup(ctx, imdbID)
			if err != nil {
				log.Printf("[metadata] omdb lookup failed imdb=%s: %v", imdbID, err)
				return
			}
			omdbHit = t
		})
	}
	if mediaType == models.MediaTypeTV && out.Network == nil && s.enrichTVMaze {
		wg.Go(func() {
			n, err := s.tvmaze.network(ctx, title)
			if err != nil {
				log.Printf("[metadata] tvmaze lookup failed title=%q: %v", title, err)
				return
			}
			network = n
		})
	}
	wg.Go(func() {
		w, err := s.wiki.summary(ctx, wikiTitle(title, releaseDate, mediaType))
		if errors.Is(err, models.ErrNotFound) {
			w, err = s.wiki.summary(ctx, title)
		}
		if err != nil {
			log.Printf("[metadata] wikipedia lookup failed title=%q: %v", title, err)
			return
		}
		wiki = w
	})
	wg.Wait()

	if p := omdbHit.plot(); p != "" {
		out.Plot = p
	}
	out.IMDBRating = omdbHit.rating()
	if network != "" {
		out.Network = &network
	}
	if wiki != nil {
		out.WikiExtract = wiki.Extract
		out.WikiURL = wiki.URL
	}

	return out, nil
}

// WikiSummary fetches the Wikipedia page summary for a title, giving up after five seconds.
func (s *Service) WikiSummary(ctx context.Context, title string) (*models.WikiSummary, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}

	summary, err := s.wiki.summary(ctx, title)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("[metadata] wikipedia lookup timed out title=%q", title)
		}
		return nil, fmt.Errorf("wikipedia summary %q: %w", title, err)
	}
	return summary, nil
}

// wikiTitle guesses the disambiguated article name, e.g. "Dangal (2016 film)".
func wikiTitle(title, releaseDate, mediaType string) string {
	if len(releaseDate) < 4 {
		return title
	}
	kind := "film"
	if mediaType == models.MediaTypeTV {
		kind = "TV series"
	}
	return fmt.Sprintf("%s (%s %s)", title, releaseDate[:4], kind)
}
