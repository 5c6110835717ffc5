package filter

import (
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"reelhouse/models"
	"reelhouse/utils/language"
)

const (
	// DefaultSort is used when the filter carries no (or an unsupported) sort key.
	DefaultSort = "popularity.desc"

	minRating = 0
	maxRating = 10
)

var allowedSorts = map[string]bool{
	"popularity.desc":           true,
	"popularity.asc":            true,
	"vote_average.desc":         true,
	"vote_average.asc":          true,
	"vote_count.desc":           true,
	"primary_release_date.desc": true,
	"primary_release_date.asc":  true,
	"revenue.desc":              true,
	"title.asc":                 true,
}

// category describes a curated shortcut that expands into discover parameters.
type category struct {
	genres   []int
	language string
	sort     string
	params   map[string]string
}

var categories = map[string]category{
	"trending":    {sort: "popularity.desc"},
	"top-rated":   {sort: "vote_average.desc", params: map[string]string{"vote_count.gte": "200"}},
	"animation":   {genres: []int{16}},
	"documentary": {genres: []int{99}},
	"family":      {genres: []int{10751}},
	"anime":       {genres: []int{16}, language: "ja"},
	"k-drama":     {genres: []int{18}, language: "ko"},
	"classics":    {sort: "vote_average.desc", params: map[string]string{"primary_release_date.lte": "1980-12-31", "vote_count.gte": "100"}},
}

// Categories returns the supported custom category keys.
func Categories() []string {
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	return keys
}

// DiscoverParams converts a filter into TMDB /discover query parameters.
// Unknown genres, sorts and categories are dropped rather than rejected.
func DiscoverParams(f models.Filter) url.Values {
	params := url.Values{}
	sort := DefaultSort
	var genres []int

	if key := strings.ToLower(strings.TrimSpace(f.Category)); key != "" {
		if cat, ok := categories[key]; ok {
			genres = append(genres, cat.genres...)
			if cat.language != "" {
				params.Set("with_original_language", cat.language)
			}
			if cat.sort != "" {
				sort = cat.sort
			}
			for k, v := range cat.params {
				params.Set(k, v)
			}
		} else {
			log.Printf("[filter] ignoring unknown category %q", f.Category)
		}
	}

	if s := strings.TrimSpace(f.Sort); s != "" {
		if allowedSorts[s] {
			sort = s
		} else {
			log.Printf("[filter] ignoring unsupported sort %q", s)
		}
	}
	params.Set("sort_by", sort)

	if f.Genre != "" {
		if id := GenreID(f.Genre); id > 0 {
			genres = append(genres, id)
		}
	}
	if len(genres) > 0 {
		ids := make([]string, 0, len(genres))
		seen := make(map[int]bool)
		for _, id := range genres {
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, strconv.Itoa(id))
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}

	from, to := f.YearFrom, f.YearTo
	if from > 0 && to > 0 && from > to {
		from, to = to, from
	}
	if from > 0 {
		params.Set("primary_release_date.gte", fmt.Sprintf("%04d-01-01", from))
	}
	if to > 0 {
		params.Set("primary_release_date.lte", fmt.Sprintf("%04d-12-31", to))
	}

	if code := language.NormalizeToCode(f.Language); code != "" {
		params.Set("with_original_language", code)
	}

	lo, hi := clampRating(f.RatingMin), clampRating(f.RatingMax)
	if lo > 0 {
		params.Set("vote_average.gte", formatRating(lo))
	}
	if hi > 0 && hi >= lo {
		params.Set("vote_average.lte", formatRating(hi))
	}

	return params
}

// FromQuery reads a filter from HTTP query parameters. Malformed numbers are ignored.
func FromQuery(q url.Values) models.Filter {
	atoi := func(key string) int {
		n, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
		if err != nil {
			return 0
		}
		return n
	}
	atof := func(key string) float64 {
		n, err := strconv.ParseFloat(strings.TrimSpace(q.Get(key)), 64)
		if err != nil {
			return 0
		}
		return n
	}

	return models.Filter{
		Genre:     strings.TrimSpace(q.Get("genre")),
		Sort:      strings.TrimSpace(q.Get("sort")),
		YearFrom:  atoi("yearFrom"),
		YearTo:    atoi("yearTo"),
		Language:  strings.TrimSpace(q.Get("language")),
		RatingMin: atof("ratingMin"),
		RatingMax: atof("ratingMax"),
		Category:  strings.TrimSpace(q.Get("category")),
	}
}

func clampRating(v float64) float64 {
	if v < minRating {
		return minRating
	}
	if v > maxRating {
		return maxRating
	}
	return v
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
