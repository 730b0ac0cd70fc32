package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"mintgate/internal/asset"
	"mintgate/internal/mint/bootstrap"
	"mintgate/internal/mint/models"
	"mintgate/internal/mint/ports"
	memorystate "mintgate/internal/mint/store/memory"
	pgstate "mintgate/internal/mint/store/postgres"
	redisstate "mintgate/internal/mint/store/redis"
	"mintgate/internal/platform/config"
	platformredis "mintgate/internal/platform/redis"
	ratelimitmw "mintgate/internal/ratelimit/middleware"
	ratelimitmodels "mintgate/internal/ratelimit/models"
	"mintgate/internal/ratelimit/store/bucket"
	"mintgate/pkg/platform/audit"
	kafkaaudit "mintgate/pkg/platform/audit/store/kafka"
	memoryaudit "mintgate/pkg/platform/audit/store/memory"
	pgaudit "mintgate/pkg/platform/audit/store/postgres"
	"mintgate/pkg/platform/sentinel"
)

type closer struct {
	name string
	fn   func() error
}

// closerStack releases resources in reverse acquisition order.
type closerStack []closer

func (c *closerStack) push(name string, fn func() error) {
	*c = append(*c, closer{name: name, fn: fn})
}

func (c closerStack) closeAll(log *slog.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i].fn(); err != nil {
			log.Warn("close failed", "resource", c[i].name, "error", err)
		}
	}
}

// initialState builds the seed state, or nil when no owner is configured and
// the instance must already exist in the store.
func initialState(c config.CollectionConfig) (*models.State, error) {
	if c.Owner == "" {
		return nil, nil
	}
	if !common.IsHexAddress(c.Owner) {
		return nil, fmt.Errorf("COLLECTION_OWNER %q is not a hex address", c.Owner)
	}
	col := bootstrap.Collection{
		Owner:                  common.HexToAddress(c.Owner),
		MaxTotalSupply:         c.MaxTotalSupply,
		GlobalWalletLimit:      c.GlobalWalletLimit,
		SignatureExpirySeconds: c.SignatureExpirySeconds,
		ChainID:                c.ChainID,
	}
	if c.Cosigner != "" {
		col.Cosigner = common.HexToAddress(c.Cosigner)
	}
	if c.ContractAddress != "" {
		col.ContractAddress = common.HexToAddress(c.ContractAddress)
	}
	if c.StagesFile != "" {
		stages, err := bootstrap.LoadStages(c.StagesFile)
		if err != nil {
			return nil, err
		}
		col.Stages = stages
	}
	return bootstrap.InitialState(col)
}

type seedable interface {
	ports.StateStore
	Init(ctx context.Context, initial *models.State) error
}

func openStateStore(ctx context.Context, cfg config.Server, initial *models.State, closers *closerStack) (ports.StateStore, error) {
	var st seedable
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := pgstate.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		closers.push("postgres pool", func() error { pool.Close(); return nil })
		pg := pgstate.New(pool, cfg.Instance)
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		st = pg
	case config.StoreRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		closers.push("redis client", client.Close)
		st = redisstate.New(client.Client, cfg.Instance)
	default:
		st = memorystate.New(nil)
	}

	if initial != nil {
		if err := st.Init(ctx, initial); err != nil {
			return nil, fmt.Errorf("seed state: %w", err)
		}
	}
	if _, err := st.Load(ctx); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, fmt.Errorf("instance %q has no state; set COLLECTION_OWNER to create it", cfg.Instance)
		}
		return nil, err
	}
	return st, nil
}

// openAssetLedger builds the in-memory ownership ledger and resumes token ID
// assignment at the persisted mark, so a restarted process never reissues an
// ID. Ownership records themselves are not persisted.
func openAssetLedger(ctx context.Context, st ports.StateStore, log *slog.Logger) (*asset.Ledger, error) {
	state, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	next := state.Ledger.NextTokenID()
	if next > 0 {
		log.WarnContext(ctx, "asset ledger resuming without ownership records of earlier tokens", "next_token_id", next)
	}
	return asset.New(asset.WithLogger(log), asset.WithNextTokenID(next)), nil
}

func openAuditStore(ctx context.Context, cfg config.Server, closers *closerStack) (audit.Store, error) {
	switch cfg.Audit.Sink {
	case config.AuditPostgres:
		db, err := pgaudit.Open(cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		closers.push("audit database", db.Close)
		st := pgaudit.New(db)
		if err := st.Migrate(ctx); err != nil {
			return nil, err
		}
		return st, nil
	case config.AuditKafka:
		client, err := kafkaaudit.NewClient(cfg.Audit.KafkaBrokers, "mintgate-"+cfg.Instance)
		if err != nil {
			return nil, err
		}
		closers.push("kafka client", func() error { client.Close(); return nil })
		if err := kafkaaudit.EnsureTopic(ctx, client, cfg.Audit.KafkaTopic, 3, 1); err != nil {
			return nil, err
		}
		return kafkaaudit.New(client, cfg.Audit.KafkaTopic), nil
	default:
		return memoryaudit.NewInMemoryStore(), nil
	}
}

func openRateLimiter(ctx context.Context, cfg config.Server, log *slog.Logger, closers *closerStack) (*ratelimitmw.Middleware, error) {
	policy := ratelimitmodels.Policy{Limit: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window}
	opts := []ratelimitmw.Option{ratelimitmw.WithDisabled(cfg.RateLimit.Disabled)}

	var store ratelimitmw.BucketStore
	switch {
	case cfg.RateLimit.Disabled || cfg.RateLimit.Backend == config.StoreMemory:
		store = bucket.NewInMemoryBucketStore()
	case cfg.RateLimit.Backend == config.StoreRedis:
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("rate limit backend: %w", err)
		}
		closers.push("rate limit redis client", client.Close)
		store = bucket.NewRedisBucketStore(client.Client)
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", cfg.RateLimit.Backend)
	}
	return ratelimitmw.New(store, policy, log, opts...), nil
}
