package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AbdulWasayUl/go-weather-bot/internal/bot"
	"github.com/AbdulWasayUl/go-weather-bot/internal/channels"
	"github.com/AbdulWasayUl/go-weather-bot/internal/config"
	"github.com/AbdulWasayUl/go-weather-bot/internal/db"
	"github.com/AbdulWasayUl/go-weather-bot/internal/health"
	"github.com/AbdulWasayUl/go-weather-bot/internal/logger"
	"github.com/AbdulWasayUl/go-weather-bot/internal/scheduler"
	"github.com/AbdulWasayUl/go-weather-bot/internal/workpool"
	"github.com/AbdulWasayUl/go-weather-bot/services/history"
	"github.com/AbdulWasayUl/go-weather-bot/services/weather"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Configure(os.Stdout, cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Exception(err, "Bot stopped with error")
		stop()
		os.Exit(1)
	}
	logger.Info("Shutdown complete.")
}

func run(ctx context.Context, cfg *config.Config) error {
	tg, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return err
	}
	tg.Debug = cfg.TelegramDebug
	if err := tgbotapi.SetLogger(slog.NewLogLogger(logger.Slog().Handler(), slog.LevelDebug)); err != nil {
		logger.Warn("Telegram SDK logs stay on the default logger: %v", err)
	}

	var (
		hist   *history.Service
		pinger health.Pinger
	)
	if cfg.HistoryEnabled() {
		client, err := db.ConnectMongoDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := db.DisconnectMongoDB(dctx, client); err != nil {
				logger.Error("Error disconnecting MongoDB: %v", err)
			}
		}()

		if err := db.RunMigrations(ctx, client, cfg); err != nil {
			return err
		}

		hist = history.NewService(db.NewLookupRepository(client, cfg.DBBot, cfg.CollectionLookups), cfg.HistoryRetention)
		pinger = func(ctx context.Context) error { return db.Ping(ctx, client) }

		sch, err := scheduler.New()
		if err != nil {
			return err
		}
		services := []scheduler.SchedulableService{hist}
		if err := sch.StartJob(ctx, services); err != nil {
			return err
		}
		defer sch.Stop()

		logger.Info("Executing immediate history maintenance.")
		sch.RunImmediateJob(ctx, services)
	} else {
		logger.Info("MONGO_HOST not set; lookup history disabled.")
	}

	if cfg.HealthAddr != "" {
		srv := &http.Server{
			Addr:              cfg.HealthAddr,
			Handler:           health.NewRouter(pinger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Health endpoint listening on %s", cfg.HealthAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Health server failed: %v", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	chans := channels.New()
	wp := workpool.New(chans, cfg.WorkerCount)
	wp.Start(ctx)

	b := bot.New(tg, weather.NewService(cfg), hist)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := tg.GetUpdatesChan(u)

	logger.Info("Bot started as @%s with %d workers.", tg.Self.UserName, cfg.WorkerCount)
	b.Run(ctx, updates, wp)

	logger.Info("Received shutdown signal. Stopping update polling...")
	tg.StopReceivingUpdates()
	wp.Stop()

	logger.Info("Waiting for in-flight handlers to finish...")
	chans.WG.Wait()
	return nil
}
