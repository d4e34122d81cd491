// Package main starts the champions bot binary.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ibs-source/champions-bot/internal/champions"
	"github.com/ibs-source/champions-bot/internal/config"
	"github.com/ibs-source/champions-bot/internal/dispatch"
	"github.com/ibs-source/champions-bot/internal/log"
	"github.com/ibs-source/champions-bot/internal/mqtt"
	"github.com/ibs-source/champions-bot/internal/poller"
	"github.com/ibs-source/champions-bot/internal/redis"
	"github.com/ibs-source/champions-bot/internal/server"
	"github.com/ibs-source/champions-bot/internal/telegram"
)

type services struct {
	cache  *redis.Client // nil when the page cache is disabled
	mirror mqtt.Publisher
	loop   *poller.Poller
	server *server.Server
}

func run() int {
	logger := log.New()
	logger.Info("Starting champions bot")

	cfg, err := loadAndLogConfig(logger)
	if err != nil {
		return 1
	}

	svc, err := initializeServices(cfg, logger)
	if err != nil {
		return 1
	}
	defer closeServices(svc, logger)

	return runMainLoop(svc, cfg, logger)
}

func loadAndLogConfig(logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		return nil, err
	}
	if cfg.Log.Level != "" {
		logger.SetLevel(cfg.Log.Level)
	}

	logger.Info("Configuration loaded successfully")
	logger.Info("Telegram: %s, page size %d, poll timeout %s", cfg.Telegram.BaseURL, cfg.Telegram.PageSize, cfg.Telegram.PollTimeout)
	logger.Info("Scrape: %s (tables .%s, columns %d/%d)",
		cfg.Scrape.PageURL, cfg.Scrape.TableClass, cfg.Scrape.TitleColumn, cfg.Scrape.ChampionColumn)
	if cfg.Telegram.Token == "" || cfg.Bot.Secret == "" {
		logger.Warn("Token or termination secret not set; /enable will be rejected")
	}
	if cfg.Redis.Enabled() {
		logger.Info("Page cache: %s, TTL %s", cfg.Redis.Address, cfg.Redis.TTL)
	}
	if cfg.MQTT.Enabled() {
		logger.Info("Reply mirror: %s, topic %s", cfg.MQTT.Broker, cfg.MQTT.Topic)
	}
	return cfg, nil
}

func initializeServices(cfg *config.Config, logger *log.Logger) (*services, error) {
	svc := &services{mirror: mqtt.Nop{}}

	var fetcher champions.Fetcher = champions.NewHTTPFetcher(&cfg.Scrape)
	if cfg.Redis.Enabled() {
		cache, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Error("Failed to create Redis client: %v", err)
			return nil, err
		}
		svc.cache = cache
		fetcher = champions.NewCachedFetcher(fetcher, cache, cfg.Scrape.PageURL, logger)
	}

	if cfg.MQTT.Enabled() {
		mirror, err := mqtt.NewClient(&cfg.MQTT, logger)
		if err != nil {
			logger.Error("Failed to create MQTT client: %v", err)
			closeServices(svc, logger)
			return nil, err
		}
		svc.mirror = mirror
	}

	bot := telegram.NewClient(&cfg.Telegram, logger)
	columns := champions.Columns{Title: cfg.Scrape.TitleColumn, Champion: cfg.Scrape.ChampionColumn}
	source := champions.NewSource(fetcher, champions.DefaultRegistry(), cfg.Scrape.TableClass, columns)
	dispatcher := dispatch.New(source, bot, svc.mirror, cfg.Bot.Secret, logger)
	svc.loop = poller.New(bot, dispatcher, cfg, logger)

	// A nil *redis.Client must not reach the interface
	var purger server.CachePurger
	if svc.cache != nil {
		purger = svc.cache
	}
	svc.server = server.New(&cfg.Server, svc.loop, purger, logger)
	return svc, nil
}

func closeServices(svc *services, logger *log.Logger) {
	if err := svc.mirror.Close(); err != nil {
		logger.Error("Error closing MQTT client: %v", err)
	}
	if svc.cache != nil {
		if err := svc.cache.Close(); err != nil {
			logger.Error("Error closing Redis client: %v", err)
		}
	}
}

func runMainLoop(svc *services, cfg *config.Config, logger *log.Logger) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 2)
	go func() {
		if err := svc.loop.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()
	go func() {
		if err := svc.server.Start(); err != nil {
			errChan <- err
		}
	}()

	logger.Info("Update loop and control server started")

	select {
	case sig := <-sigChan:
		logger.Info("Received signal %v, initiating graceful shutdown", sig)
		return handleGracefulShutdown(svc, cancel, cfg, logger)

	case err := <-errChan:
		logger.Error("Fatal service error: %v", err)
		cancel()
		return 1
	}
}

// handleGracefulShutdown lets the loop finish its current batch, then stops the server
func handleGracefulShutdown(svc *services, cancel context.CancelFunc, cfg *config.Config, logger *log.Logger) int {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	code := 0
	svc.loop.RequestStop()
	if err := svc.loop.Wait(shutdownCtx); err != nil {
		logger.Error("Update loop did not drain before the shutdown timeout")
		code = 1
	}
	cancel()

	if err := svc.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Control server shutdown failed: %v", err)
		code = 1
	}

	status := svc.loop.Status()
	logger.Info("Graceful shutdown completed at cursor %d", status.Cursor)
	return code
}

func main() {
	// Keep main minimal to ensure defers in run() execute correctly.
	os.Exit(run())
}
