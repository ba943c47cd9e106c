package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"wordplay-service/internal/app"
	"wordplay-service/internal/config"
	"wordplay-service/internal/infra/disk"
	"wordplay-service/internal/infra/memory"
	pgstore "wordplay-service/internal/infra/postgres"
	rediscache "wordplay-service/internal/infra/redis"
	transport "wordplay-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	ctx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	logger := newLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}
	cacheTTL := config.TTLDuration(cfg.Cache.TTL, 10*time.Minute)

	var (
		games      app.GameRepository
		plays      app.PlayRepository
		gameLoader memory.GameLoader
		memStore   *memory.GameStore
	)
	if cfg.Postgres.URL != "" {
		db := openDB(cfg.Postgres.URL)
		defer db.Close()
		if err := migrateDB(ctx, db, logger); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		repo := pgstore.NewGameRepository(db)
		games, plays = repo, repo
		gameLoader = pgstore.NewGameLoader(pool)
		logger.Info("using postgres storage")
	} else {
		memStore = memory.NewGameStore()
		games, plays = memStore, memStore
		gameLoader = memStore
		logger.Info("using in-memory storage")
	}

	hub := app.NewLeaderboardHub()
	opts := []app.Option{app.WithHub(hub)}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		relay := rediscache.NewLeaderboardRelay(redisClient, hub)
		go func() {
			if err := relay.Run(ctx); err != nil {
				logger.Error("leaderboard relay stopped", "error", err)
			}
		}()
		opts = append(opts,
			app.WithCache(rediscache.NewGameCache(redisClient, gameLoader, cacheTTL)),
			app.WithPublisher(relay),
		)
		logger.Info("using redis cache and leaderboard relay", "addr", cfg.Redis.Addr)
	} else {
		opts = append(opts, app.WithCache(memory.NewGameCache(gameLoader, cacheTTL)))
	}

	if cfg.Uploads.Dir != "" {
		thumbs, err := disk.NewThumbnailStore(cfg.Uploads.Dir)
		if err != nil {
			return err
		}
		opts = append(opts, app.WithThumbnails(thumbs))
	}

	service := app.NewGameService(games, plays, opts...)
	if cfg.Seed && memStore != nil {
		if err := seedSampleGames(ctx, service); err != nil {
			return err
		}
		logger.Info("seeded sample games", "owner", sampleOwner.UserID)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	handler := transport.NewHandler(service, tokenService(cfg), logger, transport.NewMetrics(reg))

	router := transport.NewRouter(handler, reg)
	var root http.Handler = router
	if cfg.Uploads.Dir != "" {
		mux := http.NewServeMux()
		mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir))))
		mux.Handle("/", router)
		root = mux
	}

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		logger.Info("starting game service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
