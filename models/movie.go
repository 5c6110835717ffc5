package models

// Media types returned by TMDB and stored on list entries and reviews.
const (
	MediaTypeMovie  = "movie"
	MediaTypeTV     = "tv"
	MediaTypePerson = "person"
)

// Movie is the aggregated, never persisted view of a TMDB item enriched with OMDB and TVmaze data.
type Movie struct {
	ID          int64    `json:"id"`
	Type        string   `json:"type"` // movie | tv | person
	Title       string   `json:"title"`
	PosterURL   string   `json:"posterUrl"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Rating      float64  `json:"rating"`
	Genres      []string `json:"genres"`
	Plot        string   `json:"plot"`
	IMDBRating  *float64 `json:"imdbRating"`
	Network     *string  `json:"network"`
	IsIndian    bool     `json:"isIndian"`
}

// Key returns a stable identifier combining media type and TMDB ID.
func (m Movie) Key() string {
	return MediaKey(m.Type, m.ID)
}

// DiscoverResult is the paginated response of the aggregator.
type DiscoverResult struct {
	Movies       []Movie `json:"movies"`
	TotalResults int     `json:"totalResults"`
}

// EmptyDiscoverResult is returned whenever aggregation fails as a whole.
func EmptyDiscoverResult() DiscoverResult {
	return DiscoverResult{Movies: []Movie{}, TotalResults: 0}
}

// Filter narrows the discovery endpoint. Zero values mean "not set".
type Filter struct {
	Genre     string  `json:"genre,omitempty"`
	Sort      string  `json:"sort,omitempty"`
	YearFrom  int     `json:"yearFrom,omitempty"`
	YearTo    int     `json:"yearTo,omitempty"`
	Language  string  `json:"language,omitempty"`
	RatingMin float64 `json:"ratingMin,omitempty"`
	RatingMax float64 `json:"ratingMax,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// MovieDetails is the single-title view combining TMDB details with enrichment and Wikipedia.
type MovieDetails struct {
	Movie
	IMDBID       string `json:"imdbId,omitempty"`
	Runtime      int    `json:"runtime,omitempty"`
	Tagline      string `json:"tagline,omitempty"`
	Status       string `json:"status,omitempty"`
	Overview     string `json:"overview,omitempty"`
	BackdropURL  string `json:"backdropUrl,omitempty"`
	WikiExtract  string `json:"wikiExtract,omitempty"`
	WikiURL      string `json:"wikiUrl,omitempty"`
	OriginalLang string `json:"originalLanguage,omitempty"`
}

// WikiSummary is the subset of the Wikipedia page summary the frontend renders.
type WikiSummary struct {
	Title     string `json:"title"`
	Extract   string `json:"extract"`
	URL       string `json:"url,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}
