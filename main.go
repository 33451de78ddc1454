package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techgo/cache"
	"techgo/config"
	"techgo/database"
	"techgo/logger"
	"techgo/routers"
	"techgo/services"
	"techgo/utils"

	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log := logger.Init(cfg.LogMode, cfg.LogFile)
	defer log.Sync()

	database.ConnectDb()

	// Redis is optional; without it catalog reads go straight to the database
	var store cache.Store = cache.Noop{}
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.Connect(ctx, cache.Config{
			RedisAddr:     cfg.RedisAddr,
			RedisPassword: cfg.RedisPassword,
			RedisDB:       cfg.RedisDB,
			Prefix:        "techgo:",
			TTL:           time.Duration(cfg.CacheTTLSeconds) * time.Second,
		})
		cancel()
		if err != nil {
			log.Warn("redis unavailable, catalog cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			defer redisCache.Close()
			store = redisCache
		}
	}

	svc := services.New(database.Database.Db, store)

	if cfg.SweepEnabled {
		scheduler, err := utils.InitializeComparisonScheduler(svc, cfg.SweepCron, cfg.SweepRetentionDays)
		if err != nil {
			log.Fatal("invalid comparison sweep schedule", zap.String("cron", cfg.SweepCron), zap.Error(err))
		}
		defer scheduler.Stop()
	}

	app := routers.NewApp(svc, routers.Options{CorsOrigins: cfg.CorsOrigins, AccessLog: true})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("server is running", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
