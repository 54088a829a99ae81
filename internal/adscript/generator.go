package adscript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MaxScriptsPerRequest caps how many scripts one request produces.
const MaxScriptsPerRequest = 5

var (
	ErrInvalidRequest = errors.New("vehicle, dealership name, and ad types are required")
	ErrUnknownAdType  = errors.New("unknown ad type")
)

// Completer turns a prompt into generated text.
type Completer interface {
	ChatCompletion(ctx context.Context, prompt string) (string, error)
}

// Store records a generated batch. The events publisher satisfies it by
// writing the batch and its outbox event in one transaction.
type Store interface {
	SaveBatch(ctx context.Context, batch *Batch) error
}

type combination struct {
	format   AdFormat
	audience Audience
}

type Generator struct {
	completer Completer
	store     Store
	logger    *slog.Logger
	shuffle   func([]combination)
	now       func() time.Time
}

// NewGenerator creates a generator. store may be nil, in which case batches
// are not recorded.
func NewGenerator(completer Completer, store Store, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		completer: completer,
		store:     store,
		logger:    logger.With("component", "adscript"),
		shuffle: func(c []combination) {
			rand.Shuffle(len(c), func(i, j int) { c[i], c[j] = c[j], c[i] })
		},
		now: time.Now,
	}
}

// Generate writes up to MaxScriptsPerRequest scripts for a random sample of
// the requested ad types crossed with every audience. All completions run
// concurrently and the first failure fails the whole batch.
func (g *Generator) Generate(ctx context.Context, req Request) (*Batch, error) {
	combos, err := g.plan(req)
	if err != nil {
		return nil, err
	}

	description := BuildVehicleDescription(*req.Vehicle)
	scripts := make([]Script, len(combos))

	g.logger.Info("generating ad scripts",
		"vehicle", req.Vehicle.Title(),
		"dealership", req.DealershipName,
		"scripts", len(combos),
	)

	eg, egCtx := errgroup.WithContext(ctx)
	for i, combo := range combos {
		i, combo := i, combo
		eg.Go(func() error {
			prompt := buildPrompt(combo.format, combo.audience, description, req.DealershipName)
			text, err := g.completer.ChatCompletion(egCtx, prompt)
			if err != nil {
				return fmt.Errorf("generate %s for %s: %w", combo.format.Type, combo.audience.Name, err)
			}

			scripts[i] = Script{
				Type:           combo.format.Type,
				Title:          combo.format.Name + " for " + combo.audience.Name,
				Script:         strings.TrimSpace(text),
				TargetAudience: combo.audience.Name,
				Tone:           combo.audience.Tone,
				CallToAction:   "Visit " + req.DealershipName + " today!",
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		g.logger.Error("ad script generation failed", "error", err)
		return nil, err
	}

	batch := &Batch{
		ID:             uuid.New(),
		Vehicle:        *req.Vehicle,
		DealershipName: req.DealershipName,
		Scripts:        scripts,
		CreatedAt:      g.now().UTC(),
	}

	if g.store != nil {
		if err := g.store.SaveBatch(ctx, batch); err != nil {
			g.logger.Warn("failed to record ad script batch", "batch_id", batch.ID, "error", err)
		}
	}

	return batch, nil
}

func (g *Generator) plan(req Request) ([]combination, error) {
	if req.Vehicle == nil || strings.TrimSpace(req.DealershipName) == "" || len(req.AdTypes) == 0 {
		return nil, ErrInvalidRequest
	}

	combos := make([]combination, 0, len(req.AdTypes)*len(Audiences))
	for _, t := range req.AdTypes {
		format, ok := LookupFormat(t)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAdType, t)
		}
		for _, audience := range Audiences {
			combos = append(combos, combination{format: format, audience: audience})
		}
	}

	g.shuffle(combos)

	return combos[:min(MaxScriptsPerRequest, len(combos))], nil
}
