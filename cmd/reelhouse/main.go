package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"reelhouse/config"
	"reelhouse/handlers"
	"reelhouse/models"
	"reelhouse/services/auth"
	"reelhouse/services/lists"
	"reelhouse/services/metadata"
	"reelhouse/services/news"
	"reelhouse/services/reviews"
	"reelhouse/services/users"
	"reelhouse/utils"
)

func main() {
	app := kingpin.New("reelhouse", "Movie discovery and social backend.")
	configPath := app.Flag("config", "path to settings.yaml or settings.json").
		Short('c').Default("data/settings.yaml").Envar("REELHOUSE_CONFIG").String()

	serve := app.Command("serve", "run the HTTP API").Default()
	port := serve.Flag("port", "override the configured listen port").Int()

	createAdmin := app.Command("create-admin", "create an admin account")
	adminUser := createAdmin.Flag("username", "admin username").Required().String()
	adminEmail := createAdmin.Flag("email", "admin email").Required().String()
	adminPassword := createAdmin.Flag("password", "admin password; generated when empty").String()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	mgr := config.NewManager(*configPath)
	settings, err := mgr.Load()
	if err != nil {
		log.Fatalf("[main] load config: %v", err)
	}
	closeLog := setupLogging(settings.Logging)
	defer closeLog()

	switch cmd {
	case serve.FullCommand():
		if *port > 0 {
			settings.Server.Port = *port
		}
		err = runServer(mgr, settings)
	case createAdmin.FullCommand():
		err = runCreateAdmin(settings, *adminUser, *adminEmail, *adminPassword)
	}
	if err != nil {
		log.Fatalf("[main] %s: %v", cmd, err)
	}
}

// setupLogging tees the standard logger to a rotating file when one is configured.
func setupLogging(s config.LoggingSettings) func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if s.File == "" {
		return func() {}
	}
	rotator := &lumberjack.Logger{
		Filename:   s.File,
		MaxSize:    s.MaxSizeMB,
		MaxBackups: s.MaxBackups,
		MaxAge:     s.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return func() { _ = rotator.Close() }
}

func runServer(mgr *config.Manager, settings config.Settings) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if settings.Auth.TokenSecret == "" {
		secret, err := utils.GenerateSecret()
		if err != nil {
			return err
		}
		settings.Auth.TokenSecret = secret
		if err := mgr.SaveTokenSecret(secret); err != nil {
			log.Printf("[main] could not persist generated token secret, sessions end on restart: %v", err)
		}
	}
	tokens, err := auth.NewTokens(settings.Auth.TokenSecret, time.Duration(settings.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, settings.Storage)
	if err != nil {
		return err
	}
	defer st.close()

	if settings.Metadata.TMDBAPIKey == "" {
		log.Printf("[main] no TMDB API key configured; discovery will return empty results")
	}
	movies := metadata.NewService(metadata.ConfigFromSettings(settings.Metadata))
	userSvc := users.NewService(st.users)

	router := utils.NewRouter(settings.Server.AllowedOrigins...)
	handlers.Register(router, handlers.API{
		Auth:    handlers.NewAuthenticator(tokens, userSvc),
		Session: handlers.NewAuthHandler(tokens, userSvc),
		Movies:  handlers.NewMoviesHandler(movies),
		Lists:   handlers.NewListsHandler(lists.NewService(st.lists)),
		Reviews: handlers.NewReviewsHandler(reviews.NewService(st.reviews)),
		Users:   handlers.NewUsersHandler(userSvc),
		News:    handlers.NewNewsHandler(news.NewService(st.news)),
		Admin:   handlers.NewAdminHandler(userSvc, st.stats),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(settings.Server.Host, strconv.Itoa(settings.Server.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(settings.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(settings.Server.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[main] listening on %s (storage=%s)", srv.Addr, settings.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("[main] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runCreateAdmin(settings config.Settings, username, email, password string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := openStores(ctx, settings.Storage)
	if err != nil {
		return err
	}
	defer st.close()

	generated := password == ""
	if generated {
		if password, err = users.GeneratePassword(); err != nil {
			return err
		}
	}
	u, err := users.NewService(st.users).CreateWithRole(ctx, users.Registration{
		Username: username,
		Email:    email,
		Password: password,
	}, models.RoleAdmin)
	if err != nil {
		return err
	}
	fmt.Printf("created admin %s (%s)\n", u.Username, u.ID)
	if generated {
		fmt.Printf("password: %s\n", password)
	}
	return nil
}
