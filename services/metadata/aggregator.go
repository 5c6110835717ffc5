package metadata

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/pool"

	"reelhouse/models"
	"reelhouse/utils/filter"
	"reelhouse/utils/language"
)

// PageSize is the number of items returned per Discover call.
const PageSize = 20

// taggedItem is an upstream item together with the media type it resolved to.
type taggedItem struct {
	item      tmdbItem
	mediaType string
}

type bucketPage struct {
	index int
	code  string
	page  *tmdbPage
}

// Discover blends the regional (Indian original-language) listings with the general listing
// for query and filter, and returns one PageSize window of the concatenation.
//
// Discover never fails: any error outside per-item enrichment collapses the response to an
// empty result. totalResults is the sum of the upstream counts and therefore includes items
// dropped by deduplication. Each call fetches upstream page `page` from every source and slices
// the blended set locally, so windows of consecutive pages do not follow a global ordering.
func (s *Service) Discover(ctx context.Context, query string, f models.Filter, page int) (result models.DiscoverResult) {
	if page < 1 {
		page = 1
	}
	query = strings.TrimSpace(query)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[aggregator] panic during discover query=%q page=%d: %v", query, page, r)
			result = models.EmptyDiscoverResult()
		}
	}()

	out, err := s.discover(ctx, query, f, page)
	if err != nil {
		log.Printf("[aggregator] discover failed query=%q page=%d: %v", query, page, err)
		return models.EmptyDiscoverResult()
	}
	return out
}

func (s *Service) discover(ctx context.Context, query string, f models.Filter, page int) (models.DiscoverResult, error) {
	endpoint, base := s.listingRequest(query, f, page)
	impliedType := ""
	if endpoint == tmdbDiscoverEndpoint {
		impliedType = models.MediaTypeMovie
	}

	buckets, err := s.fetchRegional(ctx, endpoint, base)
	if err != nil {
		return models.DiscoverResult{}, err
	}

	seen := make(map[string]bool)
	total := 0
	var regional []taggedItem
	for _, b := range buckets {
		total += b.page.TotalResults
		for _, item := range b.page.Results {
			tagged := tag(item, impliedType)
			key := models.MediaKey(tagged.mediaType, item.ID)
			if seen[key] {
				continue
			}
			seen[key] = true
			regional = append(regional, tagged)
		}
	}

	general, err := s.tmdb.fetchPage(ctx, endpoint, base)
	if err != nil {
		return models.DiscoverResult{}, fmt.Errorf("fetch general listing: %w", err)
	}
	total += general.TotalResults

	var others []taggedItem
	for _, item := range general.Results {
		tagged := tag(item, impliedType)
		key := models.MediaKey(tagged.mediaType, item.ID)
		if seen[key] {
			continue
		}
		seen[key] = true
		others = append(others, tagged)
	}

	movies := make([]models.Movie, 0, len(regional)+len(others))
	movies = append(movies, s.enrichAll(ctx, regional, true)...)
	movies = append(movies, s.enrichAll(ctx, others, false)...)

	log.Printf("[aggregator] query=%q page=%d regional=%d other=%d total=%d", query, page, len(regional), len(others), total)

	return models.DiscoverResult{
		Movies:       window(movies, page),
		TotalResults: total,
	}, nil
}

// listingRequest picks /discover/movie for empty queries and /search/multi otherwise.
func (s *Service) listingRequest(query string, f models.Filter, page int) (string, url.Values) {
	params := s.tmdb.baseParams(page)
	if query == "" {
		for k, v := range filter.DiscoverParams(f) {
			params[k] = v
		}
		return tmdbDiscoverEndpoint, params
	}
	params.Set("query", query)
	return tmdbSearchEndpoint, params
}

// fetchRegional queries every regional bucket concurrently. The first failure cancels
// the remaining requests and fails the whole aggregation.
func (s *Service) fetchRegional(ctx context.Context, endpoint string, base url.Values) ([]bucketPage, error) {
	p := pool.NewWithResults[bucketPage]().WithContext(ctx).WithCancelOnError()
	for i, code := range language.IndianLanguages {
		i, code := i, code
		p.Go(func(ctx context.Context) (bucketPage, error) {
			params := cloneValues(base)
			params.Set("with_original_language", code)
			page, err := s.tmdb.fetchPage(ctx, endpoint, params)
			if err != nil {
				return bucketPage{}, fmt.Errorf("fetch %s bucket: %w", code, err)
			}
			return bucketPage{index: i, code: code, page: page}, nil
		})
	}

	buckets, err := p.Wait()
	if err != nil {
		return nil, err
	}
	sort.Slice(buckets, func(a, b int) bool { return buckets[a].index < buckets[b].index })
	return buckets, nil
}

// enrichAll converts items to movies, enriching movie and TV entries concurrently.
func (s *Service) enrichAll(ctx context.Context, items []taggedItem, isIndian bool) []models.Movie {
	mapper := iter.Mapper[taggedItem, models.Movie]{MaxGoroutines: s.maxEnrichers}
	return mapper.Map(items, func(t *taggedItem) models.Movie {
		return s.enrich(ctx, *t, isIndian)
	})
}

// enrich never fails: each lookup that errors leaves its field at the TMDB-derived fallback.
func (s *Service) enrich(ctx context.Context, t taggedItem, isIndian bool) models.Movie {
	movie := toMovie(t, isIndian)
	if t.mediaType != models.MediaTypeMovie && t.mediaType != models.MediaTypeTV {
		return movie
	}

	if s.omdb.IsEnabled() {
		if title := s.lookupOMDB(ctx, t); title != nil {
			if p := title.plot(); p != "" {
				movie.Plot = p
			}
			movie.IMDBRating = title.rating()
		}
	}

	if t.mediaType == models.MediaTypeTV && s.enrichTVMaze && movie.Title != "" {
		network, err := s.tvmaze.network(ctx, movie.Title)
		if err != nil {
			log.Printf("[aggregator] tvmaze lookup failed title=%q: %v", movie.Title, err)
		} else if network != "" {
			movie.Network = &network
		}
	}

	return movie
}

func (s *Service) lookupOMDB(ctx context.Context, t taggedItem) *omdbTitle {
	imdbID, err := s.tmdb.fetchIMDBID(ctx, t.mediaType, t.item.ID)
	if err != nil {
		log.Printf("[aggregator] imdb id lookup failed %s/%d: %v", t.mediaType, t.item.ID, err)
		return nil
	}
	if imdbID == "" {
		return nil
	}
	title, err := s.omdb.lookup(ctx, imdbID)
	if err != nil {
		log.Printf("[aggregator] omdb lookup failed imdb=%s: %v", imdbID, err)
		return nil
	}
	return title
}

func tag(item tmdbItem, impliedType string) taggedItem {
	mediaType := item.MediaType
	if mediaType == "" {
		mediaType = impliedType
	}
	return taggedItem{item: item, mediaType: mediaType}
}

func toMovie(t taggedItem, isIndian bool) models.Movie {
	item := t.item
	poster := item.PosterPath
	if t.mediaType == models.MediaTypePerson {
		poster = item.ProfilePath
	}
	releaseDate := item.ReleaseDate
	if releaseDate == "" {
		releaseDate = item.FirstAirDate
	}

	return models.Movie{
		ID:          item.ID,
		Type:        t.mediaType,
		Title:       item.displayTitle(),
		PosterURL:   posterURL(poster),
		ReleaseDate: releaseDate,
		Rating:      item.VoteAverage,
		Genres:      filter.GenreNames(item.GenreIDs),
		Plot:        item.Overview,
		IsIndian:    isIndian,
	}
}

// window returns the PageSize slice for a 1-based page.
func window(movies []models.Movie, page int) []models.Movie {
	start := (page - 1) * PageSize
	if start >= len(movies) {
		return []models.Movie{}
	}
	end := start + PageSize
	if end > len(movies) {
		end = len(movies)
	}
	return movies[start:end]
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
