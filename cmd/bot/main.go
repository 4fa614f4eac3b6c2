package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"teaching_admin/internal/app"
	domaintg "teaching_admin/internal/domain/telegram"
	"teaching_admin/internal/infra/config"
	idb "teaching_admin/internal/infra/database"
	"teaching_admin/internal/infra/logger"
	"teaching_admin/internal/infra/metrics"
	"teaching_admin/internal/infra/scheduler"
	"teaching_admin/internal/infra/storage"
	"teaching_admin/internal/infra/telegram"
)

// snapshotStores opens one store per record kind on the configured backend.
// The returned *sql.DB is nil for the file backend.
func snapshotStores(cfg *config.AppConfig) (teachers, requirements storage.SnapshotStore, db *sql.DB, err error) {
	if cfg.StorageBackend == config.BackendPostgres {
		db, err = idb.NewPostgresConnection(cfg.DatabaseURL, cfg.StorageTimeout)
		if err != nil {
			return nil, nil, nil, errors.Join(storage.ErrStorageUnavailable, err)
		}
		return idb.NewPostgresSnapshotStore(db, storage.KindTeachers, cfg.StorageTimeout),
			idb.NewPostgresSnapshotStore(db, storage.KindRequirements, cfg.StorageTimeout),
			db, nil
	}

	ts, err := storage.NewFileSnapshotStore(cfg.DataDir, storage.KindTeachers)
	if err != nil {
		return nil, nil, nil, err
	}
	rs, err := storage.NewFileSnapshotStore(cfg.DataDir, storage.KindRequirements)
	if err != nil {
		return nil, nil, nil, err
	}
	return ts, rs, nil, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Could not load application configuration")
	}

	log := logger.New(cfg)
	mainLogger := logger.Component(log, "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"backend":     cfg.StorageBackend,
		"admin_id":    cfg.AdminTelegramID,
	}).Info("Configuration loaded")

	teacherStore, requirementStore, db, err := snapshotStores(cfg)
	if err != nil {
		mainLogger.WithError(err).Fatal("Storage is unavailable")
	}
	if db != nil {
		defer db.Close()
		mainLogger.Info("Database connection established successfully.")
	}

	recorder := metrics.NewRecorder()
	storageLogger := logger.Component(log, "storage")
	teacherRepo := storage.NewTeacherRepository(teacherStore, storageLogger, storage.WithObserver(recorder))
	requirementRepo := storage.NewRequirementRepository(requirementStore, storageLogger, storage.WithObserver(recorder))
	mainLogger.WithFields(logrus.Fields{
		"teachers":     teacherRepo.Len(),
		"requirements": requirementRepo.Len(),
	}).Info("Repositories initialized")

	teacherService := app.NewTeacherAdminService(teacherRepo, logger.Component(log, "teacher_admin"))
	requirementService := app.NewRequirementService(requirementRepo, teacherRepo, logger.Component(log, "requirements"))

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", recorder.Handler())
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			mainLogger.WithField("addr", cfg.MetricsAddr).Info("Metrics endpoint listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				mainLogger.WithError(err).Error("Metrics server stopped")
			}
		}()
	}

	// Initialize Telegram Bot
	botLogger := logger.Component(log, "telebot")
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		// One update at a time: commands run in arrival order.
		Synchronous: true,
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := botLogger.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{"text": c.Text(), "sender_id": c.Sender().ID, "chat_id": c.Chat().ID})
			}
			entry.Error("Handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}

	telegram.RegisterBotCommands(bot, cfg.AdminTelegramID, botLogger)
	telegram.RegisterAdminHandlers(bot, teacherService, requirementService, cfg.AdminTelegramID, botLogger)
	mainLogger.Info("Admin command handlers registered.")

	alerter := domaintg.NewAdminAlerter(telegram.NewTelebotAdapter(bot), cfg.AdminTelegramID)
	backupScheduler := scheduler.NewBackupScheduler(
		[]scheduler.Exporter{teacherRepo, requirementRepo},
		cfg.BackupDir,
		cfg.BackupKeep,
		cfg.BackupCronSpec,
		alerter,
		logger.Component(log, "backup"),
	)
	if err := backupScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start backup scheduler")
	}

	mainLogger.Info("Application setup complete. Bot and Scheduler are starting...")
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	backupScheduler.Stop()
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(ctx); err != nil {
			mainLogger.WithError(err).Warn("Metrics server did not shut down cleanly")
		}
	}
	// Only retry failed flushes; an untouched snapshot, corrupt or not, stays as it is.
	teachersSaved := teacherRepo.PersistIfDirty()
	requirementsSaved := requirementRepo.PersistIfDirty()
	if !teachersSaved || !requirementsSaved {
		mainLogger.Warn("Final snapshot flush failed")
	}
	mainLogger.Info("Application shut down gracefully.")
}
