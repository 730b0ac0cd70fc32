// Package redis persists the mint state under a single key using optimistic
// WATCH/MULTI transactions.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"mintgate/internal/mint/models"
	"mintgate/internal/mint/store"
	"mintgate/pkg/platform/sentinel"
)

// DefaultMaxRetries bounds how often a transaction is replayed after a
// concurrent writer touched the key.
const DefaultMaxRetries = 10

type Store struct {
	client     *redis.Client
	key        string
	maxRetries int
}

type Option func(*Store)

func WithMaxRetries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// New stores the document under "mintgate:state:<instance>".
func New(client *redis.Client, instance string, opts ...Option) *Store {
	s := &Store{
		client:     client,
		key:        "mintgate:state:" + instance,
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init seeds the key with initial unless it already exists.
func (s *Store) Init(ctx context.Context, initial *models.State) error {
	doc, err := store.Encode(initial)
	if err != nil {
		return err
	}
	if err := s.client.SetNX(ctx, s.key, doc, 0).Err(); err != nil {
		return fmt.Errorf("seed mint state: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*models.State, error) {
	doc, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load mint state: %w", err)
	}
	return store.Decode(doc)
}

// RunInTx replays fn against a fresh read whenever another writer commits
// between the read and the EXEC.
func (s *Store) RunInTx(ctx context.Context, fn func(st *models.State) error) error {
	txf := func(tx *redis.Tx) error {
		doc, err := tx.Get(ctx, s.key).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load mint state: %w", err)
		}
		st, err := store.Decode(doc)
		if err != nil {
			return err
		}
		if err := fn(st); err != nil {
			return err
		}
		next, err := store.Encode(st)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, next, 0)
			return nil
		})
		return err
	}

	for range s.maxRetries {
		err := s.client.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("mint state tx: %w after %d attempts", sentinel.ErrConflict, s.maxRetries)
}
