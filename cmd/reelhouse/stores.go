package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"reelhouse/config"
	"reelhouse/internal/database"
	"reelhouse/internal/mongostore"
	"reelhouse/models"
	"reelhouse/services/lists"
	"reelhouse/services/news"
	"reelhouse/services/reviews"
	"reelhouse/services/users"
)

type statsSource interface {
	Stats(ctx context.Context) (models.Stats, error)
}

// stores holds the repositories of whichever backend is configured.
type stores struct {
	users   users.Store
	lists   lists.Store
	reviews reviews.Store
	news    news.Store
	stats   statsSource
	close   func()
}

func openStores(ctx context.Context, s config.StorageSettings) (*stores, error) {
	switch s.Driver {
	case config.DriverSQLite, "":
		db, err := database.NewDB(database.Config{DatabasePath: s.SQLitePath})
		if err != nil {
			return nil, err
		}
		log.Printf("[main] using sqlite database %s", s.SQLitePath)
		return &stores{
			users:   db.Users,
			lists:   db.Lists,
			reviews: db.Reviews,
			news:    db.News,
			stats:   db,
			close: func() {
				if err := db.Close(); err != nil {
					log.Printf("[main] close database: %v", err)
				}
			},
		}, nil
	case config.DriverMongo:
		ms, err := mongostore.Connect(ctx, mongostore.Config{URI: s.MongoURI, Database: s.MongoDatabase})
		if err != nil {
			return nil, err
		}
		return &stores{
			users:   ms.Users,
			lists:   ms.Lists,
			reviews: ms.Reviews,
			news:    ms.News,
			stats:   ms,
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := ms.Close(ctx); err != nil {
					log.Printf("[main] disconnect mongo: %v", err)
				}
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}
