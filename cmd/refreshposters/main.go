// Command refreshposters re-resolves every movie referenced by a review
// against TMDB and rewrites the denormalized title and poster path. Reviews
// keep a snapshot of the movie at write time, so posters drift when TMDB
// updates its artwork.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/lib/pq"

	"reelreviews/pkg/config"
	"reelreviews/postgres"
	"reelreviews/tmdb"
)

func main() {
	var (
		limit  int
		dryRun bool
	)

	flag.IntVar(&limit, "limit", 0, "Limit number of movies to refresh (0 = all)")
	flag.BoolVar(&dryRun, "dry-run", false, "Resolve movies without writing updates")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     fmt.Sprintf("%d", cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		slog.Error("cannot open postgres connection", "error", err)
		os.Exit(1)
	}

	reviews := postgres.NewReviewRepository(db)
	movies := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey)

	refreshed, err := refreshPosters(context.Background(), reviews, movies, limit, dryRun)
	if err != nil {
		slog.Error("refresh failed", "error", err)
		os.Exit(1)
	}

	slog.Info("refresh completed", "movies", refreshed, "dry_run", dryRun)
}

func refreshPosters(ctx context.Context, store *postgres.ReviewRepository, movies *tmdb.Client, limit int, dryRun bool) (int, error) {
	ids, err := store.DistinctMovieIDs(ctx)
	if err != nil {
		return 0, err
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	refreshed := 0
	for _, id := range ids {
		ref, err := movies.ResolveMovie(ctx, id, "")
		if err != nil {
			var upstreamErr *tmdb.UpstreamError
			if errors.As(err, &upstreamErr) {
				// A movie can disappear from TMDB; skip it and keep the
				// snapshot the review already has.
				slog.Warn("skipping movie", "movie_id", id, "status", upstreamErr.Status)
				continue
			}
			return refreshed, err
		}

		if dryRun {
			slog.Info("would update", "movie_id", ref.MovieID, "title", ref.MovieTitle)
			refreshed++
			continue
		}

		rows, err := store.UpdateMovieRef(ctx, ref)
		if err != nil {
			return refreshed, err
		}

		slog.Info("updated", "movie_id", ref.MovieID, "title", ref.MovieTitle, "reviews", rows)
		refreshed++
	}

	return refreshed, nil
}
