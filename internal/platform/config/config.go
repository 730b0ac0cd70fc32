package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Audit sinks.
const (
	AuditMemory   = "memory"
	AuditPostgres = "postgres"
	AuditKafka    = "kafka"
)

// Server captures process level configuration.
type Server struct {
	Addr            string
	LogLevel        string
	ShutdownTimeout time.Duration
	// TrustProxyHeaders takes the client IP from forwarding headers. Only
	// safe behind a proxy that overwrites them.
	TrustProxyHeaders bool

	Store    string
	Instance string
	Postgres PostgresConfig
	Redis    RedisConfig

	Audit     AuditConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig

	Collection CollectionConfig
}

// PostgresConfig configures the state store and audit sink database.
type PostgresConfig struct {
	DSN string
}

// RedisConfig configures the go-redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuditConfig selects and configures the audit sink.
type AuditConfig struct {
	Sink         string
	BufferSize   int
	KafkaBrokers []string
	KafkaTopic   string
}

// AuthConfig configures caller tokens.
type AuthConfig struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
}

// RateLimitConfig sets the per-client-IP allowance on the mint API.
type RateLimitConfig struct {
	Disabled bool
	Backend  string
	Requests int
	Window   time.Duration
}

// CollectionConfig seeds a fresh instance. It is read only when the store
// holds no state yet.
type CollectionConfig struct {
	Owner                  string
	MaxTotalSupply         uint64
	GlobalWalletLimit      uint64
	Cosigner               string
	SignatureExpirySeconds uint64
	ContractAddress        string
	ChainID                uint64
	StagesFile             string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var errs []string
	num := func(key string, def uint64) uint64 {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return v
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
		return v
	}

	cfg := Server{
		TrustProxyHeaders: os.Getenv("TRUST_PROXY_HEADERS") == "true",

		Addr:            getenv("MINTGATE_ADDR", ":8080"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		ShutdownTimeout: dur("SHUTDOWN_TIMEOUT", 10*time.Second),
		Store:           getenv("STORE_BACKEND", StoreMemory),
		Instance:        getenv("MINTGATE_INSTANCE", "default"),
		Postgres: PostgresConfig{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     int(num("REDIS_POOL_SIZE", 10)),
			MinIdleConns: int(num("REDIS_MIN_IDLE_CONNS", 2)),
			DialTimeout:  dur("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  dur("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: dur("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Audit: AuditConfig{
			Sink:         getenv("AUDIT_SINK", AuditMemory),
			BufferSize:   int(num("AUDIT_BUFFER_SIZE", 256)),
			KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
			KafkaTopic:   getenv("KAFKA_AUDIT_TOPIC", "mintgate.audit"),
		},
		Auth: AuthConfig{
			// Use a default for development - should be overridden in production
			JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:        getenv("JWT_ISSUER", "mintgate"),
			Audience:      getenv("JWT_AUDIENCE", "mintgate-api"),
		},
		RateLimit: RateLimitConfig{
			Disabled: os.Getenv("RATE_LIMIT_DISABLED") == "true",
			Backend:  getenv("RATE_LIMIT_BACKEND", StoreMemory),
			Requests: int(num("RATE_LIMIT_REQUESTS", 120)),
			Window:   dur("RATE_LIMIT_WINDOW", time.Minute),
		},
		Collection: CollectionConfig{
			Owner:                  os.Getenv("COLLECTION_OWNER"),
			MaxTotalSupply:         num("COLLECTION_MAX_SUPPLY", 0),
			GlobalWalletLimit:      num("COLLECTION_GLOBAL_WALLET_LIMIT", 0),
			Cosigner:               os.Getenv("COLLECTION_COSIGNER"),
			SignatureExpirySeconds: num("COLLECTION_SIGNATURE_EXPIRY", 0),
			ContractAddress:        os.Getenv("COLLECTION_CONTRACT_ADDRESS"),
			ChainID:                num("COLLECTION_CHAIN_ID", 1),
			StagesFile:             os.Getenv("COLLECTION_STAGES_FILE"),
		},
	}
	if len(errs) > 0 {
		return Server{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks backend selections and their required settings.
func (s Server) Validate() error {
	switch s.Store {
	case StoreMemory:
	case StorePostgres:
		if s.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres store")
		}
	case StoreRedis:
		if s.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", s.Store)
	}
	switch s.Audit.Sink {
	case AuditMemory:
	case AuditPostgres:
		if s.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres audit sink")
		}
	case AuditKafka:
		if len(s.Audit.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required for the kafka audit sink")
		}
	default:
		return fmt.Errorf("unknown AUDIT_SINK %q", s.Audit.Sink)
	}
	switch s.RateLimit.Backend {
	case StoreMemory:
	case StoreRedis:
		if s.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis rate limit backend")
		}
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", s.RateLimit.Backend)
	}
	if !s.RateLimit.Disabled && s.RateLimit.Requests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
