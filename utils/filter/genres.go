package filter

import (
	"strconv"
	"strings"
)

// genreNames maps TMDB genre IDs (movie and TV) to display names.
var genreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
	10759: "Action & Adventure",
	10762: "Kids",
	10763: "News",
	10764: "Reality",
	10765: "Sci-Fi & Fantasy",
	10766: "Soap",
	10767: "Talk",
	10768: "War & Politics",
}

var genreAliases = map[string]int{
	"sci-fi": 878,
	"scifi":  878,
	"romcom": 10749,
}

// GenreName returns the display name for a TMDB genre ID, or empty string when unknown.
func GenreName(id int) string {
	return genreNames[id]
}

// GenreNames maps a list of TMDB genre IDs to names, skipping unknown IDs.
func GenreNames(ids []int) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := genreNames[id]; name != "" {
			names = append(names, name)
		}
	}
	return names
}

// GenreID resolves a numeric ID or a case-insensitive genre name. Returns 0 when unknown.
func GenreID(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if id, err := strconv.Atoi(value); err == nil {
		if _, ok := genreNames[id]; ok {
			return id
		}
		return 0
	}
	lower := strings.ToLower(value)
	if id, ok := genreAliases[lower]; ok {
		return id
	}
	for id, name := range genreNames {
		if strings.ToLower(name) == lower {
			return id
		}
	}
	return 0
}
