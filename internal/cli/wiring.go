package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"edu-games/internal/app"
	"edu-games/internal/config"
	"edu-games/internal/content"
	"edu-games/internal/infra/memory"
	"edu-games/internal/infra/postgres"
	redisinfra "edu-games/internal/infra/redis"
	"edu-games/internal/infra/sqlite"
	"edu-games/internal/logger"
)

// deps is everything a command needs, built from config.
type deps struct {
	cfg     config.Config
	log     zerolog.Logger
	ledger  *app.ScoreLedger
	service *app.PlayService
	closers []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{
		cfg: cfg,
		log: logger.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.File),
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		var err error
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
	}

	store, err := d.ledgerStore(redisClient, pool)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.ledger = app.NewScoreLedger(store, d.log)

	var loader memory.TopicLoader
	if pool != nil {
		loader = postgres.NewTopicLoader(pool)
	} else {
		topics, err := content.Topics()
		if err != nil {
			d.Close()
			return nil, err
		}
		loader = memory.NewStaticTopicLoader(topics)
	}

	contentTTL := config.TTLDuration(cfg.Content.TTL, 10*time.Minute)
	var topicRepo app.TopicRepository
	var sessions app.SessionRepository
	if redisClient != nil {
		topicRepo = redisinfra.NewTopicRepository(redisClient, loader, contentTTL)
		sessions = redisinfra.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))
	} else {
		topicRepo = memory.NewTopicRepository(loader, contentTTL)
		sessions = memory.NewSessionStore()
	}

	d.service = app.NewPlayService(sessions, topicRepo, d.ledger)
	return d, nil
}

func (d *deps) ledgerStore(client *redis.Client, pool *pgxpool.Pool) (app.LedgerStore, error) {
	switch d.cfg.Ledger.Backend {
	case "memory":
		return memory.NewLedgerStore(), nil
	case "redis":
		return redisinfra.NewLedgerStore(client, d.cfg.Ledger.Key), nil
	case "postgres":
		return postgres.NewLedgerStore(pool), nil
	default:
		store, err := sqlite.Open(d.cfg.Ledger.Path)
		if err != nil {
			// Scores still accumulate for this process.
			d.log.Warn().Err(err).Str("path", d.cfg.Ledger.Path).Msg("sqlite ledger unavailable, scores kept in memory")
			return memory.NewLedgerStore(), nil
		}
		d.closers = append(d.closers, func() { _ = store.Close() })
		return store, nil
	}
}
