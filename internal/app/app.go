// Package app 组装两个进程共用的依赖：日志、数据库、会话、缓存与服务
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"cafeteria-reservations/internal/core/auth"
	"cafeteria-reservations/internal/core/cache"
	"cafeteria-reservations/internal/core/config"
	"cafeteria-reservations/internal/core/database"
	"cafeteria-reservations/internal/core/logger"
	"cafeteria-reservations/internal/core/session"
	"cafeteria-reservations/internal/domain"
	"cafeteria-reservations/internal/repo"
	"cafeteria-reservations/internal/service"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	JWT      *auth.JWTer
	Calendar domain.Calendar

	Users     *repo.UserRepo
	Identity  *service.IdentityResolver
	Directory *service.MenuDirectory
	Engine    *service.ReservationEngine

	rdb *redis.Client
}

// NewLogger 按配置构建 zap；开启文件时同时写 lumberjack
func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	f := cfg.Log.File
	if !f.Enable {
		return logger.New(cfg.Log.Level, cfg.Log.JSON)
	}
	return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Enable:     true,
		Filename:   f.Filename,
		MaxSizeMB:  f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAgeDays: f.MaxAgeDays,
		Compress:   f.Compress,
	})
}

func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: l}

	cal, err := domain.NewCalendar(cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	a.Calendar = cal

	if a.DB, err = openDB(cfg, l); err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(a.DB); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	a.JWT = &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	a.Users = repo.NewUserRepo(a.DB)
	menus := repo.NewMenuRepo(a.DB)
	reservations := repo.NewReservationRepo(a.DB)

	if err := a.seed(ctx); err != nil {
		return nil, err
	}

	needRedis := cfg.Session.Driver == "redis" || cfg.Cache.MenuTTLSec > 0
	var c *cache.Cache
	if needRedis {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		c.Prefix = cfg.App.Name + ":"
		a.rdb = c.RDB
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := c.Ping(pctx)
		cancel()
		if err != nil && cfg.Session.Driver == "redis" {
			return nil, fmt.Errorf("redis: %w", err)
		}
		if err != nil {
			l.Warn("redis unavailable, menu cache disabled", zap.Error(err))
			c = nil
		}
	}

	var sessions session.Provider
	switch cfg.Session.Driver {
	case "redis":
		sessions = session.NewRedis(a.rdb, time.Duration(cfg.Session.TTLHours)*time.Hour)
	case "memory":
		sessions = session.NewMemory()
	default:
		return nil, fmt.Errorf("unsupported session driver %q", cfg.Session.Driver)
	}
	l.Info("session store", zap.String("driver", cfg.Session.Driver))

	var menuCache service.MenuCache
	if c != nil && cfg.Cache.MenuTTLSec > 0 {
		menuCache = cache.NewMenus(c, time.Duration(cfg.Cache.MenuTTLSec)*time.Second)
	}

	a.Identity = service.NewIdentityResolver(a.Users, sessions, service.Bernoulli(cfg.Session.RefreshProbability), l.Named("identity"))
	a.Directory = service.NewMenuDirectory(menus, reservations, menuCache, l.Named("menus"))
	a.Engine = service.NewReservationEngine(reservations, a.Directory, l.Named("reservations"))
	return a, nil
}

func openDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		LogWriter:          logger.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))
	return db, nil
}

// seed 预置管理员账号
func (a *App) seed(ctx context.Context) error {
	for _, s := range a.Cfg.Seed.Admins {
		u, err := a.Users.EnsureAdmin(ctx, s.NationalID, s.FullName)
		if err != nil {
			return fmt.Errorf("seed admin %s: %w", s.NationalID, err)
		}
		a.Log.Info("admin ensured", zap.String("uid", u.ID))
	}
	return nil
}

func (a *App) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// Serve 启动 HTTP 并在 SIGINT/SIGTERM 时优雅关闭
func Serve(name string, srv *http.Server, l *zap.Logger) {
	srv.ErrorLog = logger.ToStdLogger(l.Named("http"), zapcore.ErrorLevel)

	// 异步启动；失败立即标红退出
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal(name+" start FAILED", zap.Error(err))
		}
	}()
	l.Info(name + " started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info(name + " stopped gracefully")
}
