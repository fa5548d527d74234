package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/lib/pq" // PostgreSQL driver

	"frontier.dev/internal/models"
)

// PostgresStore keeps saves in a PostgreSQL table
type PostgresStore struct {
	db     *sql.DB
	logger *log.Logger
}

// NewPostgresStore connects to the database and creates the saves table
func NewPostgresStore(ctx context.Context, connectionString string, logger *log.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = log.Default()
	}
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db, logger: logger}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		payload BYTEA NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Save writes a world to a slot, replacing what it held
func (s *PostgresStore) Save(ctx context.Context, slot string, state *models.WorldState) error {
	payload, err := encodeBytes(state)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO saves (slot, version, payload)
	VALUES ($1, $2, $3)
	ON CONFLICT (slot)
	DO UPDATE SET
		version = $2, payload = $3,
		updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, slot, int(StateVersion), payload); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	s.logger.Printf("[SAVE] Slot %s: %d bytes", slot, len(payload))
	return nil
}

// Load reads the world of a slot
func (s *PostgresStore) Load(ctx context.Context, slot string) (*models.WorldState, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE slot = $1`, slot).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("slot %s: %w", slot, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load slot %s: %w", slot, err)
	}
	return decodeBytes(payload)
}

// List returns the stored saves ordered by slot name
func (s *PostgresStore) List(ctx context.Context) ([]SaveInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot, version, octet_length(payload), updated_at FROM saves ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer rows.Close()

	var saves []SaveInfo
	for rows.Next() {
		var info SaveInfo
		if err := rows.Scan(&info.Slot, &info.Version, &info.Size, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to list saves: %w", err)
		}
		saves = append(saves, info)
	}
	return saves, rows.Err()
}

// Delete removes a slot
func (s *PostgresStore) Delete(ctx context.Context, slot string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", slot, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("slot %s: %w", slot, ErrNotFound)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	s.logger.Println("[SAVE] Closing database connection...")
	return s.db.Close()
}
