package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore keeps records as JSONB documents in a single table. The
// created_at/last_active columns double as the enumeration index, so no
// separate index record is needed. Upserts are transactional, which gives
// the same no-partial-write guarantee as the file backend's rename.
type PostgresStore struct {
	db   *sql.DB
	caps Caps
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore wraps an existing database handle and ensures the schema.
func NewPostgresStore(db *sql.DB, caps Caps) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("memory: db handle cannot be nil")
	}
	s := &PostgresStore{db: db, caps: caps}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS memory_records (
			identity_id TEXT PRIMARY KEY,
			doc         JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL,
			last_active TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("memory: ensure schema: %w", err)
	}
	return nil
}

// GetOrCreate loads the identity's record, or returns a fresh empty one if
// the row is missing or its document does not parse.
func (s *PostgresStore) GetOrCreate(ctx context.Context, identityID string) (*Record, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM memory_records WHERE identity_id = $1`, identityID).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return NewRecordWithCaps(identityID, s.caps), nil
		}
		return nil, fmt.Errorf("memory: load record: %w", err)
	}

	var record Record
	if err := json.Unmarshal(doc, &record); err != nil || record.IdentityID == "" {
		return NewRecordWithCaps(identityID, s.caps), nil
	}
	record.init(s.caps)
	return &record, nil
}

// Save upserts the record document.
func (s *PostgresStore) Save(ctx context.Context, record *Record) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("memory: marshal record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memory_records (identity_id, doc, created_at, last_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (identity_id)
		DO UPDATE SET doc = EXCLUDED.doc, last_active = EXCLUDED.last_active`,
		record.IdentityID, doc, record.CreatedAt, record.LastActive)
	if err != nil {
		return fmt.Errorf("memory: persist record: %w", err)
	}
	return nil
}

// Delete removes the record row. Deleting an absent record is not an error.
func (s *PostgresStore) Delete(ctx context.Context, identityID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM memory_records WHERE identity_id = $1`, identityID)
	if err != nil {
		return fmt.Errorf("memory: delete record: %w", err)
	}
	return nil
}

// List returns all known identity IDs, sorted.
func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identity_id FROM memory_records ORDER BY identity_id`)
	if err != nil {
		return nil, fmt.Errorf("memory: list records: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("memory: scan identity: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("memory: iterate records: %w", err)
	}
	return ids, nil
}

// Count returns the number of identities with records.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memory_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("memory: count records: %w", err)
	}
	return n, nil
}
