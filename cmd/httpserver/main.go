package main

import (
	"fmt"
	"log/slog"
	"os"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"

	"reelreviews/httpserver"
	"reelreviews/pkg/config"
	"reelreviews/pkg/sentry"
	"reelreviews/postgres"
	"reelreviews/review"
	"reelreviews/supabase"
	"reelreviews/tmdb"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		slog.Error("Cannot open postgres connection", "error", err)
		os.Exit(1)
	}

	verifier := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	movies := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey)
	profiles := postgres.NewUserProfileRepository(db)
	reviews := postgres.NewReviewRepository(db)

	server := httpserver.Default(cfg)
	server.Addr = fmt.Sprintf(":%d", cfg.Port)
	server.ReviewService = review.NewUsecase(verifier, movies, profiles, reviews)
	server.MovieService = movies

	slog.Info("server started!")
	if err := server.Start(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
