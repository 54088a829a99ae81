package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/maltedev/dealer-ad-studio/internal/adscript"
	"github.com/maltedev/dealer-ad-studio/internal/database"
)

type EventType string

const (
	// EventTypeAdScriptsGenerated is published once per stored script batch.
	EventTypeAdScriptsGenerated EventType = "AD_SCRIPTS_GENERATED"

	aggregateScriptBatch = "ad_script_batch"
	eventSource          = "generator"
)

// AdScriptsGeneratedPayload is the event body consumers read from
// stream:ad_scripts.
type AdScriptsGeneratedPayload struct {
	EventID        string            `json:"event_id"`
	EventType      string            `json:"event_type"`
	Timestamp      time.Time         `json:"timestamp"`
	BatchID        string            `json:"batch_id"`
	DealershipName string            `json:"dealership_name"`
	Vehicle        string            `json:"vehicle"`
	VehicleID      string            `json:"vehicle_id,omitempty"`
	VIN            string            `json:"vin,omitempty"`
	AdTypes        []adscript.AdType `json:"ad_types"`
	ScriptCount    int               `json:"script_count"`
	Source         string            `json:"source"`
}

// TxRunner runs fn in a database transaction.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(pgx.Tx) error) error
}

type outboxWriter interface {
	InsertWithTx(ctx context.Context, tx pgx.Tx, event *database.OutboxEvent) error
}

type batchWriter interface {
	InsertWithTx(ctx context.Context, tx pgx.Tx, batch *database.ScriptBatch) error
}

// Publisher stores script batches and stages their events in the outbox
// within the same transaction.
type Publisher struct {
	db      TxRunner
	outbox  outboxWriter
	scripts batchWriter
	logger  *slog.Logger
}

func NewPublisher(db *database.DB, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		db:      db,
		outbox:  database.NewOutboxRepository(db),
		scripts: database.NewScriptRepository(db),
		logger:  logger.With("component", "event_publisher"),
	}
}

// SaveBatch persists batch and publishes AD_SCRIPTS_GENERATED for it.
func (p *Publisher) SaveBatch(ctx context.Context, batch *adscript.Batch) error {
	vehicleJSON, err := json.Marshal(batch.Vehicle)
	if err != nil {
		return fmt.Errorf("failed to marshal vehicle: %w", err)
	}
	scriptsJSON, err := json.Marshal(batch.Scripts)
	if err != nil {
		return fmt.Errorf("failed to marshal scripts: %w", err)
	}

	payload := newAdScriptsGeneratedPayload(batch)
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	record := &database.ScriptBatch{
		ID:             batch.ID,
		DealershipName: batch.DealershipName,
		Vehicle:        vehicleJSON,
		Scripts:        scriptsJSON,
		CreatedAt:      batch.CreatedAt,
	}
	outboxEvent := &database.OutboxEvent{
		AggregateType: aggregateScriptBatch,
		AggregateID:   batch.ID.String(),
		EventType:     string(EventTypeAdScriptsGenerated),
		Payload:       data,
		TargetStream:  database.DefaultTargetStream,
	}

	err = p.db.Transaction(ctx, func(tx pgx.Tx) error {
		if err := p.scripts.InsertWithTx(ctx, tx, record); err != nil {
			return err
		}
		return p.outbox.InsertWithTx(ctx, tx, outboxEvent)
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Info("script batch stored",
		"type", payload.EventType,
		"event_id", payload.EventID,
		"batch_id", batch.ID,
		"outbox_id", outboxEvent.ID,
	)

	return nil
}

func newAdScriptsGeneratedPayload(batch *adscript.Batch) *AdScriptsGeneratedPayload {
	adTypes := make([]adscript.AdType, 0, len(batch.Scripts))
	seen := make(map[adscript.AdType]bool)
	for _, s := range batch.Scripts {
		if !seen[s.Type] {
			seen[s.Type] = true
			adTypes = append(adTypes, s.Type)
		}
	}

	return &AdScriptsGeneratedPayload{
		EventID:        uuid.New().String(),
		EventType:      string(EventTypeAdScriptsGenerated),
		Timestamp:      time.Now().UTC(),
		BatchID:        batch.ID.String(),
		DealershipName: batch.DealershipName,
		Vehicle:        batch.Vehicle.Title(),
		VehicleID:      batch.Vehicle.ID,
		VIN:            batch.Vehicle.VIN,
		AdTypes:        adTypes,
		ScriptCount:    len(batch.Scripts),
		Source:         eventSource,
	}
}
