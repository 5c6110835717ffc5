package filter

import (
	"net/url"
	"testing"

	"reelhouse/models"
)

func TestDiscoverParams_Defaults(t *testing.T) {
	params := DiscoverParams(models.Filter{})

	if got := params.Get("sort_by"); got != DefaultSort {
		t.Errorf("expected default sort %q, got %q", DefaultSort, got)
	}
	for _, key := range []string{"with_genres", "with_original_language", "vote_average.gte", "primary_release_date.gte"} {
		if params.Has(key) {
			t.Errorf("expected %s to be unset, got %q", key, params.Get(key))
		}
	}
}

func TestDiscoverParams_FullFilter(t *testing.T) {
	params := DiscoverParams(models.Filter{
		Genre:     "Thriller",
		Sort:      "vote_average.desc",
		YearFrom:  2010,
		YearTo:    2019,
		Language:  "Tamil",
		RatingMin: 6.5,
		RatingMax: 9,
	})

	expected := map[string]string{
		"sort_by":                  "vote_average.desc",
		"with_genres":              "53",
		"primary_release_date.gte": "2010-01-01",
		"primary_release_date.lte": "2019-12-31",
		"with_original_language":   "ta",
		"vote_average.gte":         "6.5",
		"vote_average.lte":         "9",
	}
	for key, want := range expected {
		if got := params.Get(key); got != want {
			t.Errorf("%s = %q, expected %q", key, got, want)
		}
	}
}

func TestDiscoverParams_SwapsInvertedYears(t *testing.T) {
	params := DiscoverParams(models.Filter{YearFrom: 2020, YearTo: 2001})
	if params.Get("primary_release_date.gte") != "2001-01-01" || params.Get("primary_release_date.lte") != "2020-12-31" {
		t.Fatalf("expected swapped range, got %v", params)
	}
}

func TestDiscoverParams_UnknownValuesDropped(t *testing.T) {
	params := DiscoverParams(models.Filter{Genre: "Telenovela", Sort: "random", Category: "nope", RatingMin: -3, RatingMax: 42})

	if params.Get("sort_by") != DefaultSort {
		t.Errorf("unsupported sort should fall back to default, got %q", params.Get("sort_by"))
	}
	if params.Has("with_genres") {
		t.Errorf("unknown genre should be dropped")
	}
	if params.Has("vote_average.gte") {
		t.Errorf("negative minimum should be clamped away")
	}
	if params.Get("vote_average.lte") != "10" {
		t.Errorf("maximum should be clamped to 10, got %q", params.Get("vote_average.lte"))
	}
}

func TestDiscoverParams_CategoryMergesWithGenre(t *testing.T) {
	params := DiscoverParams(models.Filter{Category: "anime", Genre: "16"})

	if got := params.Get("with_genres"); got != "16" {
		t.Errorf("expected deduplicated genres, got %q", got)
	}
	if got := params.Get("with_original_language"); got != "ja" {
		t.Errorf("expected category language, got %q", got)
	}

	params = DiscoverParams(models.Filter{Category: "top-rated", Sort: "revenue.desc"})
	if params.Get("sort_by") != "revenue.desc" {
		t.Errorf("explicit sort should win over category sort, got %q", params.Get("sort_by"))
	}
	if params.Get("vote_count.gte") != "200" {
		t.Errorf("expected category vote floor, got %q", params.Get("vote_count.gte"))
	}
}

func TestFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("genre", "Drama")
	q.Set("yearFrom", "1999")
	q.Set("yearTo", "abc")
	q.Set("ratingMin", "7.5")
	q.Set("category", "classics")

	f := FromQuery(q)
	if f.Genre != "Drama" || f.YearFrom != 1999 || f.YearTo != 0 || f.RatingMin != 7.5 || f.Category != "classics" {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestGenreLookups(t *testing.T) {
	if GenreID("science fiction") != 878 || GenreID("sci-fi") != 878 {
		t.Errorf("expected science fiction to resolve to 878")
	}
	if GenreID("99999") != 0 {
		t.Errorf("unknown numeric genre should resolve to 0")
	}
	names := GenreNames([]int{28, 1, 18})
	if len(names) != 2 || names[0] != "Action" || names[1] != "Drama" {
		t.Errorf("unexpected genre names %v", names)
	}
}
