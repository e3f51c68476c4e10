// Package main is the entry point for the project board API server
//
//	@title			Project Board API
//	@version		1.0
//	@description	REST backend for the project tracking dashboard
//
//	@host		localhost:3001
//	@BasePath	/
//
//	@schemes	http https
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"projectboard/internal/config"
	"projectboard/internal/db"
	"projectboard/internal/esx"
	"projectboard/internal/httpx"
	"projectboard/internal/logx"
	"projectboard/internal/mqx"
	"projectboard/internal/redisx"
	"projectboard/internal/server"
	"projectboard/internal/store"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	// Load config (env first; optional Apollo override)
	cfg, cfgStore, apClose, err := config.Load()
	if err != nil {
		panic(err)
	}
	if apClose != nil {
		defer apClose()
	}

	// Init global logger first
	logx.Init(cfg.Log.Level, cfg.Log.Format)

	mainLogger := logx.GetScope("main")

	mainLogger.Info("config loaded",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.Server.Addr),
		zap.String("db.url", cfg.DB.URL),
		zap.String("log.level", cfg.Log.Level),
		zap.String("log.format", cfg.Log.Format),
	)

	// Open the store database (sqlite by default, postgres when configured)
	sqldb, dialect, closeDB, err := db.Open(cfg)
	if err != nil {
		mainLogger.Sugar().Errorw("open db error", "err", err)
		panic(err)
	}
	defer closeDB()

	st := store.New(sqldb, dialect)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.Migrate(ctx); err != nil {
		mainLogger.Sugar().Errorw("migrate error", "err", err)
		panic(err)
	}

	// Optional deps: Redis, MQ, ES
	var (
		redisClose func()
		mqClose    func() error
	)
	rdb, rclose, err := redisx.Open(cfg)
	if err != nil {
		mainLogger.Sugar().Warnw("redis init failed", "err", err)
	} else {
		redisClose = rclose
		defer redisClose()
	}

	var publisher mqx.Publisher
	if cfg.MQ.URL != "" {
		if pub, err := mqx.NewRabbitPublisher(cfg.MQ.URL, "events"); err != nil {
			mainLogger.Sugar().Warnw("mq init failed", "err", err)
		} else {
			publisher = pub
			mqClose = pub.Close
			defer func() {
				if mqClose != nil {
					_ = mqClose()
				}
			}()
		}
	}

	esClient, esClose, err := esx.Open(cfg)
	if err != nil {
		mainLogger.Sugar().Warnw("es init failed", "err", err)
	} else {
		defer esClose()
	}

	// Fiber app and routes
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler()})
	httpx.RegisterCommonMiddlewares(app)
	httpx.RegisterMetrics(app)
	providers := &httpx.Providers{MQ: publisher, ES: esClient, RDB: rdb}
	httpx.Register(app, st, providers)

	// Watch for dynamic config changes (Apollo)
	cfgStore.AddValidator(func(newCfg *config.Config, changed map[string]bool) error {
		if changed["db.max_open"] || changed["db.max_idle"] {
			if newCfg.DB.MaxIdleConns > newCfg.DB.MaxOpenConns {
				return fmt.Errorf("DB_MAX_IDLE cannot exceed DB_MAX_OPEN")
			}
		}
		return nil
	})

	cfgStore.Watch(func(newCfg *config.Config, changed map[string]bool) {
		if changed["db.max_open"] || changed["db.max_idle"] {
			db.UpdatePool(newCfg.DB.MaxOpenConns, newCfg.DB.MaxIdleConns)
			mainLogger.Info("db pool updated",
				zap.Int("max_open", newCfg.DB.MaxOpenConns),
				zap.Int("max_idle", newCfg.DB.MaxIdleConns),
			)
		}
		if changed["db.url"] {
			mainLogger.Warn("db.url changed; restart required to reconnect")
		}
		if changed["server.addr"] {
			mainLogger.Warn("server.addr changed; restart required to take effect",
				zap.String("addr", newCfg.Server.Addr),
			)
		}
		if changed["log.level"] || changed["log.format"] {
			logx.Init(newCfg.Log.Level, newCfg.Log.Format)
			mainLogger.Info("logger reconfigured",
				zap.String("level", newCfg.Log.Level),
				zap.String("format", newCfg.Log.Format),
			)
		}
	})

	// Graceful shutdown
	go func() {
		ln, err := server.GetListener(cfg.Server.Addr)
		if err != nil {
			mainLogger.Sugar().Errorf("listener error: %v", err)
			return
		}
		if err := app.Listener(ln); err != nil {
			mainLogger.Sugar().Infof("fiber exit: %v", err)
		}
	}()
	mainLogger.Sugar().Infof("server started on %s", cfg.Server.Addr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	mainLogger.Sugar().Info("shutting down...")
	_ = app.Shutdown()
}
