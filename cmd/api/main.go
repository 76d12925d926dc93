package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cafeteria-reservations/internal/app"
	"cafeteria-reservations/internal/core/config"
	"cafeteria-reservations/internal/core/logger"
	"cafeteria-reservations/internal/core/server"
	"cafeteria-reservations/internal/transport/http/handler"
	"cafeteria-reservations/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := app.NewLogger(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	// 路由（用户端）
	r := router.NewAPIEngine(router.Deps{
		Log:          log,
		JWT:          a.JWT,
		Identity:     a.Identity,
		AllowOrigins: cfg.CORS.AllowOrigins,
		Modules: router.NewRegistry(
			&handler.AuthModule{Identity: a.Identity, JWT: a.JWT},
			&handler.MenuModule{Directory: a.Directory, Engine: a.Engine, Calendar: a.Calendar},
			&handler.ReservationModule{Engine: a.Engine, Calendar: a.Calendar, DB: a.DB},
		),
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
		zap.String("today", string(a.Calendar.Today())),
	)
	app.Serve("user api", srv, log)
}
