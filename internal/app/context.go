package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-match/internal/cache"
	"github.com/oggyb/muzz-match/internal/config"
	"github.com/oggyb/muzz-match/internal/events"
)

// AppContext holds shared dependencies (DB, Redis, event transports, Logger).
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Publisher  events.Publisher
	Hub        *events.Hub
	Logger     *slog.Logger
}

// New creates a new AppContext. Match events go to the in-process hub and,
// when a Redis client is present, to per-user Redis channels behind a breaker.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	hub := events.NewHub()
	pubs := []events.Publisher{hub}
	if rdb != nil && rdb.Client != nil {
		redisPub := events.NewRedisPublisher(rdb.Client, cfg.Events.ChannelPrefix)
		pubs = append(pubs, events.NewBreakerPublisher(redisPub, events.BreakerSettings{
			Failures: cfg.Events.BreakerFailures,
			Timeout:  cfg.Events.BreakerTimeout,
			Publish:  cfg.Events.PublishTimeout,
		}))
	}

	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Publisher:  events.NewFanout(pubs...),
		Hub:        hub,
		Logger:     logger,
	}
}
