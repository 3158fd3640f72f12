// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"telegram-shop-bot/internal/application"
	"telegram-shop-bot/internal/config"
	"telegram-shop-bot/internal/domain/ports/repository"
	pg "telegram-shop-bot/internal/infra/db/postgres"
	"telegram-shop-bot/internal/infra/imghost"
	"telegram-shop-bot/internal/infra/logging"
	"telegram-shop-bot/internal/infra/memory"
	"telegram-shop-bot/internal/infra/metrics"
	red "telegram-shop-bot/internal/infra/redis"
	"telegram-shop-bot/internal/infra/store"
	tele "telegram-shop-bot/internal/infra/telegram"
	"telegram-shop-bot/internal/infra/web"
	"telegram-shop-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "developer mode: console logs, insecure cookies")
	flag.Parse()

	// Secrets may come from a local .env in development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		// logger is not up yet
		println("config:", err.Error())
		os.Exit(1)
	}

	log := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		log.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Document store backend ----
	var dataStore repository.DataStore
	switch cfg.Store.Backend {
	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()
		docs := pg.NewDocumentStore(pool)
		if err := docs.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("postgres schema")
		}
		dataStore = docs
	default:
		dataStore = store.NewFirebaseStore(cfg.Store.BaseURL, cfg.Store.Auth)
	}

	// ---- Redis (optional): sessions, lock, rate limiting ----
	var (
		sessionRepo repository.SessionRepository
		locker      repository.Locker
		rateLimiter *red.RateLimiter
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		sessionRepo = red.NewSessionRepo(redisClient, cfg.Redis.TTL)
		locker = red.NewLocker(redisClient)
		rateLimiter = red.NewRateLimiter(redisClient)
	} else {
		log.Warn().Msg("redis not configured: in-memory sessions, no cross-instance lock")
		sessionRepo = memory.NewSessionRepo()
	}

	// ---- Telegram ----
	bot, err := tele.NewBot(&cfg.Bot, rateLimiter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram")
	}
	bot.ProbeReviewChannel(ctx)

	// ---- Use cases ----
	sessionUC := usecase.NewSessionUseCase(sessionRepo, bot, log)
	catalogUC := usecase.NewCatalogUseCase(dataStore, log)
	renderer := usecase.NewRenderer(bot, log)

	var ingestUC *usecase.IngestUseCase
	if cfg.ImageHost.Key != "" {
		host := imghost.NewImgBBClient(cfg.ImageHost.Endpoint, cfg.ImageHost.Key, cfg.ImageHost.Timeout)
		ingestUC = usecase.NewIngestUseCase(bot, host, log)
	} else {
		log.Warn().Msg("no image host key: attachments keep their ephemeral platform URLs")
		ingestUC = usecase.NewIngestUseCase(bot, nil, log)
	}

	// ---- Engine ----
	engine := application.NewEngine(application.EngineDeps{
		Sessions: sessionUC,
		Catalog:  catalogUC,
		Ingest:   ingestUC,
		Render:   renderer,
		Chat:     bot,
		Locker:   locker,
	}, cfg.Bot.AdminIDs, cfg.Bot.ReviewChannelID, log)

	go func() {
		if err := bot.StartPolling(ctx, engine.Handle); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Ops server ----
	ops := web.NewServer(&cfg.Web, catalogUC, !cfg.Runtime.Dev, log)
	go func() {
		if err := ops.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ops server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Info().Msg("shutdown requested")
	cancel()
	bot.StopPolling()
	if err := ops.Shutdown(context.Background()); err != nil {
		log.Warn().Err(err).Msg("ops shutdown")
	}
}
