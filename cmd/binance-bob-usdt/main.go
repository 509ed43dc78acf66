package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrosejas/binance-bob-usdt/internal/adapter/cache"
	"github.com/alejandrosejas/binance-bob-usdt/internal/adapter/handler"
	"github.com/alejandrosejas/binance-bob-usdt/internal/adapter/storage"
	"github.com/alejandrosejas/binance-bob-usdt/internal/adapter/upstream"
	"github.com/alejandrosejas/binance-bob-usdt/internal/application/service"
	"github.com/alejandrosejas/binance-bob-usdt/internal/application/usecase"
	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/port"
	"github.com/alejandrosejas/binance-bob-usdt/internal/infrastructure/config"
	"github.com/alejandrosejas/binance-bob-usdt/internal/infrastructure/logger"
	"github.com/alejandrosejas/binance-bob-usdt/internal/infrastructure/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	portFlag := flag.Int("port", 0, "override HTTP port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *portFlag != 0 {
		cfg.Server.Port = *portFlag
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, log); err != nil {
		log.Error("service exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	history := service.NewHistoryStore(cfg.Ingest.HistoryLimit)

	snapshot := buildSnapshot(cfg, log)
	if snapshot != nil {
		defer snapshot.Close()

		records, err := snapshot.Load(ctx)
		if err != nil {
			log.Warn("failed to load snapshot, starting empty", "error", err)
		} else if len(records) > 0 {
			history.Seed(records)
			log.Info("history restored from snapshot", "records", history.Len())
		}
	}

	var archive port.Archive
	if cfg.Archive.DSN != "" {
		pg, err := storage.NewPostgresArchive(cfg.Archive.DSN)
		if err != nil {
			log.Warn("archive unavailable, continuing without it", "error", err)
		} else {
			if err := pg.InitSchema(ctx); err != nil {
				log.Warn("archive schema init failed, continuing without it", "error", err)
				pg.Close()
			} else {
				archive = pg
				defer pg.Close()
			}
		}
	}

	var source port.Upstream
	switch cfg.Upstream.Mode {
	case "synthetic":
		source = upstream.NewSyntheticClient(cfg.Upstream.Rows)
	default:
		source = upstream.NewBinanceClient(cfg.Upstream.URL, cfg.Upstream.Fiat, cfg.Upstream.Asset, cfg.Upstream.Rows, log)
	}

	hub := service.NewSubscriptionHub(history, log)
	scheduler := service.NewScheduler(source, history, hub, archive, snapshot, log, cfg.Ingest.IntervalDur)

	uc := usecase.NewPriceUseCase(history, hub)
	priceHandler := handler.NewPriceHandler(uc, log)
	streamHandler := handler.NewStreamHandler(uc, log)
	healthHandler := handler.NewHealthHandler(scheduler, history, snapshot, archive)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/prices/latest", priceHandler.Latest)
	mux.HandleFunc("GET /api/prices/history", priceHandler.History)
	mux.HandleFunc("GET /api/prices/stream", streamHandler.Stream)
	mux.HandleFunc("GET /health", healthHandler.Health)

	scheduler.Start(ctx)
	defer scheduler.Stop()

	srv := server.New(cfg.Server, mux, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	if err := srv.Shutdown(context.Background(), shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildSnapshot selects the snapshot backend. A Redis backend that cannot be
// reached degrades to the file backend so history persistence keeps working.
func buildSnapshot(cfg *config.Config, log *slog.Logger) port.Snapshot {
	switch cfg.Snapshot.Backend {
	case "off":
		return nil
	case "redis":
		rs, err := cache.NewRedisSnapshot(cfg.Snapshot.Addr, cfg.Snapshot.Password, cfg.Snapshot.DB, cfg.Snapshot.Key)
		if err != nil {
			log.Warn("redis unavailable, falling back to file snapshot", "error", err)
			return storage.NewFileSnapshot(cfg.Snapshot.FilePath)
		}
		return rs
	default:
		return storage.NewFileSnapshot(cfg.Snapshot.FilePath)
	}
}
