package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/coingecko"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/database"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/kvstore"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/logger"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/metrics"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/notify"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/payment"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/realtime"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/scheduler"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.New(cfg.Logging.Level, cfg.Logging.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck // Sync fails on stderr for some terminals

	if err := run(cfg, logr); err != nil {
		logr.Fatalw("server stopped with error", "error", err)
	}
	logr.Info("Server exited")
}

func run(cfg *config.Config, logr *zap.SugaredLogger) error {
	metrics.Init()
	response.SetLogger(logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	logr.Infow("connected to database", "path", cfg.Database.Path)

	// Create repositories
	watchlistRepo := repository.NewWatchlistRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	var kv service.KeyValueStore = repository.NewKVRepository(db)
	if cfg.KV.Backend == "redis" {
		redisKV, err := kvstore.NewRedis(ctx, cfg.KV.RedisAddr, cfg.KV.RedisPassword, cfg.KV.RedisDB)
		if err != nil {
			return err
		}
		defer redisKV.Close()
		kv = redisKV
		logr.Infow("using redis key-value store", "addr", cfg.KV.RedisAddr)
	}

	hub := realtime.NewHub()

	accessService, err := service.NewAccessService(ctx, kv,
		payment.NewSimulatedCharger(cfg.Payment.Delay, cfg.Payment.Outcome),
		service.AccessOptions{
			Passcode:  cfg.Access.Passcode,
			FernetKey: cfg.Access.FernetKey,
			Amount:    cfg.Payment.Amount,
			Currency:  cfg.Payment.Currency,
		}, logr)
	if err != nil {
		return err
	}
	accessService.OnChange(func(state model.AccessState) {
		hub.Publish(realtime.EventAccess, state)
	})

	notifiers := notify.Multi{notify.Log{Log: logr}, notify.Hub{Hub: hub}}
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, "")
		if err != nil {
			return err
		}
		notifiers = append(notifiers, tg)
		logr.Info("telegram alert notifications enabled")
	}

	// Create services
	marketService := service.NewMarketService(
		coingecko.NewClient(cfg.Market.BaseURL, cfg.Market.RequestTimeout, cfg.Market.RequestsPerMinute),
		cfg.Market.ReferenceAssetID,
		logr,
	)
	watchlistService := service.NewWatchlistService(watchlistRepo)
	portfolioService := service.NewPortfolioService(positionRepo, accessService, marketService, cfg.Access.FreePositionLimit, logr)
	alertService := service.NewAlertService(alertRepo, accessService, notifiers, cfg.Access.FreeAlertLimit, logr)
	taskService := service.NewTaskService(taskRepo, logr)
	analysisService := service.NewAnalysisService(cfg.Analysis.StepDelay, cfg.Analysis.Retention, logr)
	systemService := service.NewSystemService(db, map[string]bool{
		"redis":    cfg.KV.Backend == "redis",
		"telegram": cfg.Telegram.Token != "",
		"passcode": cfg.Access.Passcode != "",
	})

	marketService.OnSnapshot(portfolioService.RefreshPrices)
	marketService.OnSnapshot(func(ctx context.Context, snap model.MarketSnapshot) {
		alertService.Evaluate(ctx, snap)
	})
	marketService.OnSnapshot(func(_ context.Context, snap model.MarketSnapshot) {
		hub.Publish(realtime.EventSnapshot, snap)
	})

	if cfg.Tasks.SeedSamples {
		if _, err := taskService.SeedSampleTasks(ctx); err != nil {
			return err
		}
	}

	sched, err := scheduler.New(cfg.Market.FetchInterval, func(ctx context.Context) {
		// Failures are logged by the market service and the previous snapshot stays current.
		_, _ = marketService.Fetch(ctx)
	}, logr)
	if err != nil {
		return err
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:     systemService,
		Market:     marketService,
		Watchlist:  watchlistService,
		Portfolio:  portfolioService,
		Alert:      alertService,
		Access:     accessService,
		Task:       taskService,
		Preference: service.NewPreferenceService(kv),
		Analysis:   analysisService,
		Hub:        hub,
	}, cfg, logr)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logr.Infow("starting server", "addr", cfg.Server.Addr, "version", version.Version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	sched.Start()

	g.Go(func() error {
		<-gctx.Done()
		logr.Info("shutting down server")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := sched.Stop(shutdownCtx); err != nil {
			logr.Warnw("scheduler did not stop in time", "error", err)
		}
		analysisService.Close()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
