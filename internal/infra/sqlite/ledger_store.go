package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"edu-games/internal/domain"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// LedgerStore keeps the player ledger in a local SQLite file, one row per profile.
type LedgerStore struct {
	db *sql.DB
}

// Open opens/creates the database at path and ensures the schema exists.
func Open(path string) (*LedgerStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes
	s := &LedgerStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *LedgerStore) Close() error { return s.db.Close() }

func (s *LedgerStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS player_ledger (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("migrate player_ledger: %w", err)
	}
	return nil
}

func (s *LedgerStore) Load(ctx context.Context) (domain.PlayerLedger, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM player_ledger WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PlayerLedger{}, domain.ErrLedgerNotFound
	}
	if err != nil {
		return domain.PlayerLedger{}, fmt.Errorf("load ledger: %w", err)
	}
	ledger, err := domain.DecodeLedger([]byte(raw))
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
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO player_ledger (id, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (s *LedgerStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM player_ledger`); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	return nil
}
