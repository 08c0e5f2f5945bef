package redis

import (
	"context"
	"errors"
	"fmt"

	"edu-games/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultLedgerKey is where the ledger JSON lives unless configured otherwise.
const DefaultLedgerKey = "edu-games:ledger"

// LedgerStore keeps the player ledger as a single JSON string without expiry.
type LedgerStore struct {
	client *redis.Client
	key    string
}

func NewLedgerStore(client *redis.Client, key string) *LedgerStore {
	if key == "" {
		key = DefaultLedgerKey
	}
	return &LedgerStore{client: client, key: key}
}

func (s *LedgerStore) Load(ctx context.Context) (domain.PlayerLedger, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PlayerLedger{}, domain.ErrLedgerNotFound
	}
	if err != nil {
		return domain.PlayerLedger{}, fmt.Errorf("get ledger: %w", err)
	}
	ledger, err := domain.DecodeLedger(raw)
	if err != nil {
		return domain.PlayerLedger{}, fmt.Errorf("decode ledger: %w", err)
	}
	return ledger, nil
}

func (s *LedgerStore) Save(ctx context.Context, ledger domain.PlayerLedger) error {
	raw, err := domain.EncodeLedger(ledger)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set ledger: %w", err)
	}
	return nil
}

func (s *LedgerStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("del ledger: %w", err)
	}
	return nil
}
