package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/segyhp/renegotiation-engine/internal/config"
	"github.com/segyhp/renegotiation-engine/internal/repository"
	"github.com/segyhp/renegotiation-engine/internal/service"
	"github.com/segyhp/renegotiation-engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	zl.Info("starting renegotiation scheduler")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	renegotiationService := service.NewRenegotiationService(
		repository.NewLoanRepository(db),
		repository.NewRedisAnalysisCache(redisClient),
		cfg,
		zl,
	)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.GetLocation()))

	if err := setupCronJobs(c, cfg, renegotiationService, zl); err != nil {
		zl.Fatal("error scheduling cache warm-up job", zap.Error(err))
	}

	c.Start()
	zl.Info("scheduler started", zap.String("cron", cfg.Scheduler.Cron), zap.String("timezone", cfg.Scheduler.Timezone))

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down scheduler")
	<-c.Stop().Done()
	zl.Info("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, svc *service.RenegotiationService, zl *zap.Logger) error {
	// Daily job to precompute every customer's analysis for the new day
	_, err := c.AddFunc(cfg.Scheduler.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		ref := svc.Today()
		start := time.Now()
		warmed, err := svc.WarmAnalysisCache(ctx, ref)
		if err != nil {
			zl.Error("cache warm-up failed",
				zap.String("reference_date", ref.Format("2006-01-02")),
				zap.Int("warmed", warmed),
				zap.Error(err))
			return
		}

		zl.Info("cache warm-up finished",
			zap.String("reference_date", ref.Format("2006-01-02")),
			zap.Int("warmed", warmed),
			zap.Duration("duration", time.Since(start)))
	})
	return err
}
