// Package app wires the pieces every parking binary starts with: config, logger,
// database, cache, JWT and the HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-parking-lot/internal/client"
	"go-parking-lot/internal/core/auth"
	"go-parking-lot/internal/core/cache"
	"go-parking-lot/internal/core/config"
	"go-parking-lot/internal/core/database"
	"go-parking-lot/internal/core/logger"
	"go-parking-lot/internal/core/server"
	"go-parking-lot/internal/repo"
	"go-parking-lot/internal/transport/http/router"
)

type App struct {
	Name string
	Cfg  *config.Config
	Log  *zap.Logger
	JWT  *auth.JWTer
	DB   *gorm.DB

	stops []func() // run in reverse after the server stopped
}

// Init loads .env and the config at CONFIG_PATH, else configs/<name>.yaml.
// A config error exits before any logger exists.
func Init(name string) *App {
	_ = godotenv.Load()
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = filepath.Join("configs", name+".yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}
	if cfg.App.Name == "" || cfg.App.Name == "parking" {
		cfg.App.Name = name
	}

	l, sync := logger.New(name, cfg.Log)
	undo := logger.RedirectStdLog(l, zapcore.InfoLevel)
	return &App{
		Name: name,
		Cfg:  cfg,
		Log:  l,
		JWT: &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		},
		stops: []func(){sync, undo},
	}
}

func (a *App) onStop(f func()) { a.stops = append(a.stops, f) }

// MustOpenDB connects, pings and migrates the tables this service owns.
func (a *App) MustOpenDB() *gorm.DB {
	c := a.Cfg.DB
	db, err := database.NewGorm(database.Opts{
		Driver:             c.Driver,
		DSN:                c.DSN,
		Username:           c.Username,
		Password:           c.Password,
		MaxOpenConns:       c.MaxOpenConns,
		MaxIdleConns:       c.MaxIdleConns,
		ConnMaxLifetimeMin: c.ConnMaxLifetimeMin,
		LogLevel:           c.LogLevel,
		LogWriter:          logger.ToWriter(a.Log.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		a.Log.Fatal("db open", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Ping(ctx, db); err != nil {
		a.Log.Fatal("db ping", zap.Error(err))
	}
	a.Log.Info("database connected", zap.String("driver", c.Driver))

	if c.AutoMigrate {
		if err := db.AutoMigrate(repo.Models(a.Name)...); err != nil {
			a.Log.Fatal("automigrate failed", zap.Error(err))
		}
		a.Log.Info("automigrate done")
	}
	a.onStop(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	a.DB = db
	return db
}

// Cache returns the Redis cache, or nil when redis.addr is empty.
// An unreachable Redis is logged and kept; calls fall back to the loader.
func (a *App) Cache() *cache.Cache {
	r := a.Cfg.Redis
	c := cache.New(r.Addr, r.Password, r.DB)
	if c == nil {
		a.Log.Info("redis disabled")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		a.Log.Warn("redis ping failed", zap.String("addr", r.Addr), zap.Error(err))
	}
	a.onStop(func() { _ = c.Close() })
	return c
}

// Client builds the options for calling another service at baseURL.
func (a *App) Client(baseURL string) client.Options {
	s := a.Cfg.Services
	return client.Options{
		BaseURL:    baseURL,
		Timeout:    time.Duration(s.TimeoutSec) * time.Second,
		Retries:    s.Retries,
		Backoff:    200 * time.Millisecond,
		Caller:     a.Name,
		JWT:        a.JWT,
		ServiceTTL: time.Duration(a.Cfg.JWT.ServiceTokenTTLMin) * time.Minute,
		Logger:     a.Log.Named("client"),
	}
}

// DBHealth pings the database for /health.
func (a *App) DBHealth(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	return database.Ping(ctx, a.DB)
}

func (a *App) Engine(health func(context.Context) error, mods ...router.Module) *gin.Engine {
	if a.Cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	return router.NewEngine(a.Log, router.Options{
		Service: a.Name,
		Limits:  a.Cfg.Limits,
		Health:  health,
	}, mods...)
}

// Run serves h until a shutdown signal; onStop runs before the shared resources close.
func (a *App) Run(h http.Handler, onStop ...func()) {
	server.Run(server.FromConfig(a.Cfg.App.HTTP, h), a.Log, a.Name, onStop...)
	for i := len(a.stops) - 1; i >= 0; i-- {
		a.stops[i]()
	}
}
