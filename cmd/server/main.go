package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"HappyDog/internal/api/middleware"
	"HappyDog/internal/api/routes"
	"HappyDog/internal/clock"
	"HappyDog/internal/config"
	"HappyDog/internal/core/cartoons"
	"HappyDog/internal/core/comments"
	"HappyDog/internal/core/likes"
	"HappyDog/internal/core/noseprint"
	"HappyDog/internal/core/notifications"
	"HappyDog/internal/core/pets"
	"HappyDog/internal/core/posts"
	"HappyDog/internal/db/docstore"
	"HappyDog/internal/genai"
	"HappyDog/internal/ml"
	"HappyDog/internal/storage"
	"HappyDog/internal/vecindex"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Error("failed to set goose dialect", "error", err)
		os.Exit(1)
	}
	if err := goose.Up(db, cfg.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations completed")

	// The nose-print index recovers from torn appends on its own. A bad
	// magic or dimension mismatch means the file is not ours to fix:
	// admissions are refused but the social and job surfaces stay up.
	index, err := vecindex.Open(cfg.Index.Path, cfg.Index.Dimension, logger)
	switch {
	case errors.Is(err, vecindex.ErrCorrupt):
		logger.Error("vector index corrupt, biometric admission disabled", "path", cfg.Index.Path, "error", err)
		index = nil
	case err != nil:
		logger.Error("failed to open vector index", "path", cfg.Index.Path, "error", err)
		os.Exit(1)
	default:
		defer index.Close()
	}

	clk := clock.UTC{}

	store := docstore.New(db, logger)
	userRepo := docstore.NewUserRepository(store)
	petRepo := docstore.NewPetRepository(store)
	breedRepo := docstore.NewBreedRepository(store)
	postRepo := docstore.NewPostRepository(store)
	commentRepo := docstore.NewCommentRepository(store)
	likeRepo := docstore.NewLikeRepository(store)
	notificationRepo := docstore.NewNotificationRepository(store)
	jobRepo := docstore.NewJobRepository(store, clk)
	tokenRepo := docstore.NewTokenRepository(store, clk)

	media := storage.NewHTTPStore(
		cfg.Storage.Endpoint,
		cfg.Storage.Bucket,
		cfg.Storage.PublicBaseURL,
		cfg.Storage.AccessKeyID,
		cfg.Storage.Secret,
		clk,
		logger,
	)
	mlClient := ml.NewClient(cfg.ML.BaseURL, logger)

	notificationService := notifications.NewService(notificationRepo, userRepo, clk, logger)
	petService := pets.NewService(petRepo, breedRepo, clk, logger, cfg.BreedValidation == "strict")
	likeService := likes.NewService(likeRepo, notificationService, clk, logger)
	postService := posts.NewService(postRepo, userRepo, petRepo, media, likeService, clk, logger)
	commentService := comments.NewService(commentRepo, userRepo, notificationService, clk, logger)

	var engine *noseprint.Engine
	if index != nil {
		engine = noseprint.NewEngine(
			petRepo,
			media,
			mlClient,
			mlClient,
			index,
			float32(cfg.Index.DuplicateThresh),
			float32(cfg.Index.OutlierThresh),
			logger,
		)
	}

	analyzer := genai.NewImageAnalyzer(cfg.Cartoon.AnthropicAPIKey, logger)
	generator := genai.NewCartoonGenerator(cfg.Cartoon.GenerationURL, cfg.Cartoon.GenerationAPIKey, logger)
	pipeline := cartoons.NewPipeline(jobRepo, analyzer, generator, postService, notificationService, logger)
	pool := cartoons.NewPool(pipeline, cfg.Cartoon.Workers, cfg.Cartoon.QueueSize, cfg.Cartoon.SubmitTimeout, logger)
	pool.Start()
	defer pool.Stop()
	cartoonService := cartoons.NewService(jobRepo, pool, clk, logger)

	auth := middleware.NewAuthMiddleware(cfg.JWTSecret, tokenRepo, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)

	routes.RegisterAuthRoutes(r, cfg.JWTSecret, tokenRepo)
	routes.RegisterUploadRoutes(r, media, auth)
	routes.RegisterPetRoutes(r, petService, engine, auth)
	routes.RegisterPostRoutes(r, postService, auth)
	routes.RegisterCommentRoutes(r, commentService, auth)
	routes.RegisterLikeRoutes(r, likeService, auth)
	routes.RegisterCartoonRoutes(r, cartoonService, auth)
	routes.RegisterNotificationRoutes(r, notificationService, auth)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
