package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/maltedev/dealer-ad-studio/internal/adscript"
	"github.com/maltedev/dealer-ad-studio/internal/database"
	"github.com/maltedev/dealer-ad-studio/internal/fetcher"
	"github.com/maltedev/dealer-ad-studio/internal/inventory"
	"github.com/maltedev/dealer-ad-studio/internal/models"
	"github.com/maltedev/dealer-ad-studio/internal/venice"
	"github.com/maltedev/dealer-ad-studio/internal/video"
)

const (
	msgScrapeFailed    = "Failed to scrape inventory. The website may be blocking automated access."
	msgGenerateFailed  = "Failed to generate scripts"
	msgQueueFailed     = "Failed to queue video generation"
	msgStatusFailed    = "Failed to check video status"
	msgInvalidBody     = "invalid request body"
	msgHistoryDisabled = "Script history is not configured"

	pendingWarnThreshold     = 1000
	deadLetterErrorThreshold = 100
)

type InventoryScraper interface {
	Scrape(ctx context.Context, rawURL string) (*models.InventorySnapshot, error)
}

type ScriptGenerator interface {
	Generate(ctx context.Context, req adscript.Request) (*adscript.Batch, error)
}

type VideoService interface {
	Queue(ctx context.Context, req video.QueueRequest) (*video.Job, error)
	Status(ctx context.Context, id, model string) (*venice.VideoStatus, error)
}

type ScriptHistory interface {
	ListRecent(ctx context.Context, limit int) ([]*database.ScriptBatch, error)
}

type OutboxMonitor interface {
	Counts(ctx context.Context) (database.OutboxCounts, error)
}

// Services groups the handler dependencies. History and Outbox are optional.
type Services struct {
	Inventory InventoryScraper
	Generator ScriptGenerator
	Video     VideoService
	History   ScriptHistory
	Outbox    OutboxMonitor
}

type Handlers struct {
	svc    Services
	logger *slog.Logger
}

func NewHandlers(svc Services, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		svc:    svc,
		logger: logger.With("component", "api"),
	}
}

type ScrapeRequest struct {
	URL string `json:"url"`
}

// Scrape handles POST /api/scrape.
func (h *Handlers) Scrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	snapshot, err := h.svc.Inventory.Scrape(r.Context(), req.URL)
	if err != nil {
		status, message := scrapeError(err)
		h.logger.Error("scrape failed", "url", req.URL, "status", status, "error", err)
		h.respondError(w, status, message)
		return
	}

	h.respondJSON(w, http.StatusOK, snapshot)
}

func scrapeError(err error) (int, string) {
	var statusErr *fetcher.StatusError

	switch {
	case errors.Is(err, inventory.ErrURLRequired):
		return http.StatusBadRequest, "URL is required"
	case errors.Is(err, inventory.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid URL provided"
	case errors.As(err, &statusErr):
		return http.StatusBadRequest, fmt.Sprintf("Failed to fetch page: %d", statusErr.StatusCode)
	default:
		return http.StatusInternalServerError, msgScrapeFailed
	}
}

type GenerateResponse struct {
	Scripts []adscript.Script `json:"scripts"`
	Vehicle models.Vehicle    `json:"vehicle"`
}

// Generate handles POST /api/generate.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req adscript.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	batch, err := h.svc.Generator.Generate(r.Context(), req)
	switch {
	case errors.Is(err, adscript.ErrInvalidRequest):
		h.respondError(w, http.StatusBadRequest, "Vehicle, dealership name, and ad types are required")
		return
	case errors.Is(err, adscript.ErrUnknownAdType):
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("generation failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, upstreamMessage(err, msgGenerateFailed))
		return
	}

	h.respondJSON(w, http.StatusOK, GenerateResponse{
		Scripts: batch.Scripts,
		Vehicle: batch.Vehicle,
	})
}

// ListVideoModels handles GET /api/video.
func (h *Handlers) ListVideoModels(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{"models": video.Models})
}

// QueueVideo handles POST /api/video.
func (h *Handlers) QueueVideo(w http.ResponseWriter, r *http.Request) {
	var req video.QueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	job, err := h.svc.Video.Queue(r.Context(), req)
	if errors.Is(err, video.ErrPromptRequired) {
		h.respondError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	if err != nil {
		h.logger.Error("video queue failed", "error", err)
		h.respondUpstreamError(w, err, msgQueueFailed)
		return
	}

	h.respondJSON(w, http.StatusOK, job)
}

// VideoStatus handles GET /api/video/status?id=&model=.
func (h *Handlers) VideoStatus(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	status, err := h.svc.Video.Status(r.Context(), query.Get("id"), query.Get("model"))
	if errors.Is(err, video.ErrIDRequired) {
		h.respondError(w, http.StatusBadRequest, "Video ID is required")
		return
	}
	if err != nil {
		h.logger.Error("video status failed", "id", query.Get("id"), "error", err)
		h.respondUpstreamError(w, err, msgStatusFailed)
		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

// ListScripts handles GET /api/scripts?limit=.
func (h *Handlers) ListScripts(w http.ResponseWriter, r *http.Request) {
	if h.svc.History == nil {
		h.respondError(w, http.StatusServiceUnavailable, msgHistoryDisabled)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	batches, err := h.svc.History.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list script batches", "error", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to load script history")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"batches": batches})
}

type HealthResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Outbox  *database.OutboxCounts `json:"outbox,omitempty"`
}

// Health handles GET /health. Outbox backlog is reported when a relay is
// configured.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	status := http.StatusOK

	if h.svc.Outbox != nil {
		counts, err := h.svc.Outbox.Counts(r.Context())
		switch {
		case err != nil:
			h.logger.Warn("failed to read outbox counts", "error", err)
			resp.Status = "warning"
			resp.Message = "Outbox status unavailable"
		case counts.DeadLetter > deadLetterErrorThreshold:
			resp.Status = "error"
			resp.Message = "High number of dead letter events"
			status = http.StatusServiceUnavailable
		case counts.Pending > pendingWarnThreshold:
			resp.Status = "warning"
			resp.Message = "High number of pending outbox events"
		}
		if err == nil {
			resp.Outbox = &counts
		}
	}

	h.respondJSON(w, status, resp)
}

// upstreamMessage surfaces Venice errors to the client and hides everything
// else behind fallback.
func upstreamMessage(err error, fallback string) string {
	var apiErr *venice.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, venice.ErrAPIKeyMissing):
		return venice.ErrAPIKeyMissing.Error()
	case errors.Is(err, venice.ErrInvalidResponse):
		return "Invalid response from Venice API"
	default:
		return fallback
	}
}

func (h *Handlers) respondUpstreamError(w http.ResponseWriter, err error, fallback string) {
	status := http.StatusInternalServerError
	var apiErr *venice.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 {
		status = apiErr.StatusCode
	}
	h.respondError(w, status, upstreamMessage(err, fallback))
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
