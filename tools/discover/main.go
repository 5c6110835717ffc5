// Command discover runs one aggregation against the live upstreams and prints the result.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"reelhouse/config"
	"reelhouse/models"
	"reelhouse/services/metadata"
)

func main() {
	app := kingpin.New("discover", "Run one movie aggregation and dump it as JSON.")
	configPath := app.Flag("config", "settings file supplying API keys").Default("data/settings.yaml").String()
	query := app.Flag("query", "free-text search; empty uses discover").Short('q').String()
	page := app.Flag("page", "result page").Default("1").Int()
	var f models.Filter
	app.Flag("genre", "genre name or TMDB id").StringVar(&f.Genre)
	app.Flag("sort", "TMDB sort key, e.g. vote_average.desc").StringVar(&f.Sort)
	app.Flag("year-from", "earliest release year").IntVar(&f.YearFrom)
	app.Flag("year-to", "latest release year").IntVar(&f.YearTo)
	app.Flag("language", "original language code").StringVar(&f.Language)
	app.Flag("category", "category preset, e.g. trending or top-rated").StringVar(&f.Category)
	app.Flag("rating-min", "minimum vote average").Float64Var(&f.RatingMin)
	app.Flag("rating-max", "maximum vote average").Float64Var(&f.RatingMax)
	timeout := app.Flag("timeout", "overall deadline").Default("60s").Duration()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	settings, err := config.NewManager(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	svc := metadata.NewService(metadata.ConfigFromSettings(settings.Metadata))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	result := svc.Discover(ctx, *query, f, *page)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
}
