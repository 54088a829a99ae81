package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ScriptBatch is a stored generation run. Vehicle and Scripts hold the JSON
// documents returned to the client.
type ScriptBatch struct {
	ID             uuid.UUID       `json:"id"`
	DealershipName string          `json:"dealershipName"`
	Vehicle        json.RawMessage `json:"vehicle"`
	Scripts        json.RawMessage `json:"scripts"`
	CreatedAt      time.Time       `json:"createdAt"`
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type ScriptRepository struct {
	db *DB
}

func NewScriptRepository(db *DB) *ScriptRepository {
	return &ScriptRepository{db: db}
}

func (r *ScriptRepository) InsertWithTx(ctx context.Context, tx pgx.Tx, batch *ScriptBatch) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO ad_script_batches (id, dealership_name, vehicle, scripts, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		batch.ID, batch.DealershipName, batch.Vehicle, batch.Scripts, batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert script batch: %w", err)
	}

	return nil
}

// ListRecent returns the newest batches first. limit is clamped to
// [1, MaxListLimit]; zero or less selects DefaultListLimit.
func (r *ScriptRepository) ListRecent(ctx context.Context, limit int) ([]*ScriptBatch, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, dealership_name, vehicle, scripts, created_at
		FROM ad_script_batches
		ORDER BY created_at DESC
		LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list script batches: %w", err)
	}
	defer rows.Close()

	batches := make([]*ScriptBatch, 0)
	for rows.Next() {
		b := &ScriptBatch{}
		if err := rows.Scan(&b.ID, &b.DealershipName, &b.Vehicle, &b.Scripts, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan script batch: %w", err)
		}
		batches = append(batches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return batches, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
