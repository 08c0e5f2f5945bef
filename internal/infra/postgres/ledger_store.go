package postgres

import (
	"context"
	"errors"
	"fmt"

	"edu-games/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ledgerRowID pins the single-profile ledger to one row.
const ledgerRowID = 1

// LedgerStore keeps the player ledger as JSONB in the player_ledger table.
type LedgerStore struct {
	pool *pgxpool.Pool
}

func NewLedgerStore(pool *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{pool: pool}
}

func (s *LedgerStore) Load(ctx context.Context) (domain.PlayerLedger, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM player_ledger WHERE id=$1`, ledgerRowID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PlayerLedger{}, domain.ErrLedgerNotFound
	}
	if err != nil {
		return domain.PlayerLedger{}, fmt.Errorf("load ledger: %w", err)
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
	_, err = s.pool.Exec(ctx,
		`INSERT INTO player_ledger (id, data, updated_at) VALUES ($1, $2::jsonb, now())
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		ledgerRowID, string(raw))
	if err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (s *LedgerStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM player_ledger WHERE id=$1`, ledgerRowID); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	return nil
}
