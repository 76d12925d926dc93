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

	// 路由（后台端）
	r := router.NewAdminEngine(router.Deps{
		Log:          log,
		JWT:          a.JWT,
		Identity:     a.Identity,
		AllowOrigins: cfg.CORS.AllowOrigins,
		Modules: router.NewRegistry(
			&handler.AuthModule{Identity: a.Identity, JWT: a.JWT},
			&handler.MenuModule{Directory: a.Directory, Engine: a.Engine, Calendar: a.Calendar},
			&handler.UserModule{Users: a.Users},
		),
	})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	// 启动前打印可点击地址
	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)
	app.Serve("admin api", srv, log)
}
