package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lootradar/config"
	"lootradar/internal/metrics"
	"lootradar/internal/scanner"
	"lootradar/internal/server"
	"lootradar/logger"
	"lootradar/services/cache"
	"lootradar/services/dedup"
	"lootradar/services/history"
	"lootradar/services/notifier"
	"lootradar/services/publisher"
	"lootradar/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("scan_interval", cfg.ScanInterval).
		Int("categories", len(cfg.CategoryURLs)).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	m := metrics.New()

	// Create category scanners
	scanners := scanner.CreateScanners(&cfg, services.Cache, services.History, m)
	if len(scanners) == 0 {
		log.Fatal().Msg("No scanners were created")
	}

	log.Info().
		Int("scanner_count", len(scanners)).
		Msg("Created scanners")

	// Create and start worker
	w := worker.NewWorker(
		ctx,
		scanners,
		services.Notifier,
		services.Publisher,
		services.Seen,
		cfg.ScanInterval,
		cfg.ScanJitter,
		m,
	)

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting loot radar worker")
		workerDone <- w.Start()
	}()

	// Start health server in a goroutine
	srv := server.New(w, services.Notifier, m)
	go func() {
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			log.Error().Err(err).Msg("Health server exited")
		}
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	History   *history.Store
	Notifier  notifier.Notifier
	Publisher publisher.Publisher
	Seen      *dedup.Store
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.History != nil {
		s.History.Close()
	}
	if s.Notifier != nil {
		s.Notifier.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Initialize cache service
	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	} else {
		services.Cache = cache.NewMemoryService()
		logger.Info("Using in-process cache")
	}

	// Initialize price history store
	if cfg.HistoryDBPath != "" {
		hist, err := history.New(cfg.HistoryDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open price history store: %w", err)
		}
		services.History = hist
		logger.Info("Opened price history store at %s", cfg.HistoryDBPath)
	}

	// Initialize notifier
	tg, err := notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram notifier: %w", err)
	}
	services.Notifier = tg
	logger.Info("Connected to Telegram (chat: %d)", cfg.TelegramChatID)

	// Initialize publisher
	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamMaxLength,
		)
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	// Initialize dedup store
	seen, err := dedup.NewStore(cfg.DedupCapacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create dedup store: %w", err)
	}
	services.Seen = seen

	return services, nil
}
