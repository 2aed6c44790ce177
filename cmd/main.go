package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bizledger.com/internal/api"
	"bizledger.com/internal/auth"
	"bizledger.com/internal/config"
	"bizledger.com/internal/engine"
	"bizledger.com/internal/infra"
	"bizledger.com/internal/logger"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	// 2. 初始化基础设施
	// Postgres
	pg, err := infra.NewPostgresClient(cfg.Database, log.Named("db"))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = pg.Close() }()

	// Redis
	rdb := infra.NewRedisClient(cfg.Redis)
	if err := infra.PingRedis(context.Background(), rdb); err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	// Casbin
	enforcer, err := auth.InitCasbin(pg.DB, log)
	if err != nil {
		log.Fatal("failed to initialize casbin", zap.Error(err))
	}

	// 3. 初始化引擎（种子数据、邮件发送、定时任务）
	eng := engine.NewEngine(cfg, pg.DB, rdb, log)
	if err := eng.Start(context.Background()); err != nil {
		log.Fatal("failed to start engine", zap.Error(err))
	}

	// 4. 设置 Fiber 服务器
	app := api.NewServer(eng, enforcer)

	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := app.Listen(cfg.Server.Port); err != nil {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// 5. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	eng.Stop()
}
