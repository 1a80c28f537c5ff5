package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/audit"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/config"
	dbpkg "github.com/balzampsilo-sys/tg-bot-10-02/internal/db"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/history"
	infraRepo "github.com/balzampsilo-sys/tg-bot-10-02/internal/infra/repository"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/logger"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/notify"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/routes"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/scheduler"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/timezone"
	ucAdmin "github.com/balzampsilo-sys/tg-bot-10-02/internal/usecase/admin"
)

func main() {

	cfg := config.Load()

	zlog := logger.New()
	defer zlog.Sync()

	db := dbpkg.NewDB(cfg)
	loc := timezone.Location(cfg.Timezone)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// ======================================================
	// SINGLETONS
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	adminRepo := infraRepo.NewAdminGormRepository(db)

	auditDispatcher := audit.NewDispatcher(audit.New(db), zlog)
	historyRecorder := history.NewRecorder(db, zlog, nil)

	jobScheduler := scheduler.New(redisOpt, cfg, zlog)
	defer jobScheduler.Close()

	var notifier notify.Notifier
	if cfg.BotToken != "" {
		notifier = notify.NewTelegramNotifier(cfg.BotToken, zlog)
	} else {
		zlog.Warn("no bot token configured, notifications are logged only")
		notifier = notify.NewLogNotifier(zlog)
	}

	if err := ucAdmin.EnsureSeedAdmins(context.Background(), adminRepo, cfg.AdminIDs, zlog); err != nil {
		zlog.Fatal("failed to seed admins", zap.Error(err))
	}

	// ======================================================
	// JOB WORKER + PERIODIC + RESTORE
	// ======================================================
	worker := scheduler.NewWorker(redisOpt, cfg, scheduler.WorkerDeps{
		Notifier: notifier,
		Audit:    auditDispatcher,
		Repo:     bookingRepo,
		History:  historyRecorder,
	}, zlog)
	if err := worker.Start(); err != nil {
		zlog.Fatal("failed to start job worker", zap.Error(err))
	}
	defer worker.Shutdown()

	periodic := scheduler.NewPeriodic(redisOpt, loc, zlog)
	if err := periodic.Start(); err != nil {
		zlog.Fatal("failed to start periodic scheduler", zap.Error(err))
	}
	defer periodic.Shutdown()

	go func() {
		if err := jobScheduler.RestoreAll(context.Background(), bookingRepo, cfg.RestoreBatchSize); err != nil {
			zlog.Error("reminder restoration failed", zap.Error(err))
		}
	}()

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Cfg:       cfg,
		Logger:    zlog,
		Redis:     rdb,
		Scheduler: jobScheduler,
		History:   historyRecorder,
		Audit:     auditDispatcher,
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}

	go func() {
		zlog.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
}
