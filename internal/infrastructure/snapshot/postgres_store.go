package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// PostgresStore keeps snapshots in a single kv_snapshots table (see
// db/migrations). One row per partition, upserted on every write.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	db, err := otelsqlx.Connect("postgres", dbURL, otelsql.WithDBSystem("postgresql"))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func NewPostgresStoreFromDB(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, partition string, payload []byte) error {
	const query = `
		INSERT INTO kv_snapshots (partition, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (partition)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

	if _, err := s.db.ExecContext(ctx, query, partition, payload); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", partition, err)
	}

	return nil
}

func (s *PostgresStore) Load(ctx context.Context, partition string) ([]byte, bool, error) {
	const query = `SELECT payload FROM kv_snapshots WHERE partition = $1`

	var payload []byte
	err := s.db.GetContext(ctx, &payload, query, partition)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select snapshot %s: %w", partition, err)
	}

	return payload, true, nil
}

func (s *PostgresStore) Purge(ctx context.Context, partitions ...string) error {
	const query = `DELETE FROM kv_snapshots WHERE partition = ANY($1)`

	if _, err := s.db.ExecContext(ctx, query, pq.Array(partitions)); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
