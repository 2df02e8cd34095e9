package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"Gin_postgres_library_api/cache"
	"Gin_postgres_library_api/config"
	"Gin_postgres_library_api/db"
	"Gin_postgres_library_api/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client // nil without REDIS_ADDR
	Config Config
	Log    *slog.Logger

	// Lists caches the collection endpoints; Revoked backs the token denylist.
	Lists    cache.Store
	Revoked  cache.Store
	Tokens   *session.Issuer
	Denylist *session.Denylist
	Accounts session.Authenticator

	closers []func() error
}

// Config 从环境变量读取
type Config struct {
	DatabaseURL string
	Port        string
	WebOrigin   string

	JWTKey    []byte
	JWTIssuer string
	TokenTTL  time.Duration

	AuthUsername     string
	AuthPassword     string
	AuthPasswordHash string
	AuthEmail        string

	RedisAddr string
	RedisPwd  string

	CacheTTL    time.Duration
	CacheMaxAge time.Duration
	LogLevel    slog.Level
}

func (c Config) Validate() error {
	if len(c.JWTKey) < 32 {
		return errors.New("JWT_KEY must be at least 32 bytes")
	}
	if c.JWTIssuer == "" {
		return errors.New("JWT_ISSUER is empty")
	}
	if c.TokenTTL <= 0 || c.CacheTTL <= 0 {
		return errors.New("token and cache ttl must be positive")
	}
	if c.AuthUsername == "" || (c.AuthPassword == "" && c.AuthPasswordHash == "") {
		return errors.New("AUTH_USERNAME and AUTH_PASSWORD (or AUTH_PASSWORD_HASH) are required")
	}
	return nil
}

func MustNew() *App {
	cfg, err := LoadConfig()
	if err != nil {
		fatal("config", err)
	}
	log := NewLogger(cfg.LogLevel)

	// --- DB: Postgres ---
	dbConn, err := db.ConnectDB(cfg.DatabaseURL, log)
	if err != nil {
		fatal("db", err)
	}

	a, err := New(cfg, log, dbConn)
	if err != nil {
		fatal("app", err)
	}
	return a
}

func fatal(what string, err error) {
	slog.Error("startup failed", "stage", what, "err", err)
	os.Exit(1)
}

// New wires everything around an already migrated database.
func New(cfg Config, log *slog.Logger, dbConn *gorm.DB) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{DB: dbConn, Config: cfg, Log: log}

	// --- Cache: Redis when configured, otherwise per process ---
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.RDB = rdb
		a.Lists = cache.NewRedis(rdb, "library:cache:")
		a.Revoked = cache.NewRedis(rdb, "library:")
		a.closers = append(a.closers, rdb.Close)
		log.Info("cache backend", "kind", "redis", "addr", cfg.RedisAddr)
	} else {
		lists := cache.NewMemory(cache.WithMaxAge(cfg.CacheMaxAge), cache.WithJanitor())
		revoked := cache.NewMemory(cache.WithJanitor())
		a.Lists, a.Revoked = lists, revoked
		a.closers = append(a.closers, lists.Close, revoked.Close)
		log.Info("cache backend", "kind", "memory")
	}

	// --- Auth ---
	a.Tokens = session.NewIssuer(cfg.JWTKey, cfg.JWTIssuer, cfg.TokenTTL)
	a.Denylist = session.NewDenylist(a.Revoked)
	if cfg.AuthPasswordHash != "" {
		a.Accounts = session.NewStaticAccountHash(cfg.AuthUsername, cfg.AuthEmail, []byte(cfg.AuthPasswordHash))
	} else {
		acct, err := session.NewStaticAccount(cfg.AuthUsername, cfg.AuthEmail, cfg.AuthPassword)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("account: %w", err)
		}
		a.Accounts = acct
	}

	// --- Gin ---
	r := gin.New()
	r.Use(RequestID(), AccessLog(log), FaultBoundary(log))
	useCORS(r, cfg.WebOrigin)
	a.Router = r
	return a, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

// LoadConfig reads the environment; call config.LoadEnv first to pick up a .env file.
func LoadConfig() (Config, error) {
	get := config.GetEnv
	seconds := func(k string, def int) time.Duration {
		n, err := strconv.Atoi(get(k, strconv.Itoa(def)))
		if err != nil || n <= 0 {
			n = def
		}
		return time.Duration(n) * time.Second
	}
	minutes, err := strconv.Atoi(get("JWT_TTL_MINUTES", "30"))
	if err != nil || minutes <= 0 {
		minutes = 30
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(get("LOG_LEVEL", "INFO"))); err != nil {
		level = slog.LevelInfo
	}

	cfg := Config{
		DatabaseURL: db.DSN(),
		Port:        get("PORT", "3001"),
		WebOrigin:   strings.TrimRight(get("WEB_ORIGIN", "http://localhost:3000"), "/"),

		JWTKey:    []byte(os.Getenv("JWT_KEY")),
		JWTIssuer: get("JWT_ISSUER", "library-management"),
		TokenTTL:  time.Duration(minutes) * time.Minute,

		AuthUsername:     get("AUTH_USERNAME", "test"),
		AuthPasswordHash: os.Getenv("AUTH_PASSWORD_HASH"),
		AuthEmail:        get("AUTH_EMAIL", "test@example.com"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPwd:  os.Getenv("REDIS_PASSWORD"),

		CacheTTL:    seconds("CACHE_TTL_SECONDS", 300),
		CacheMaxAge: seconds("CACHE_MAX_AGE_SECONDS", 900),
		LogLevel:    level,
	}
	if cfg.AuthPasswordHash == "" {
		cfg.AuthPassword = get("AUTH_PASSWORD", "password")
	}
	return cfg, cfg.Validate()
}
