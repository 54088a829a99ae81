package video

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"github.com/maltedev/dealer-ad-studio/internal/venice"
)

const (
	DefaultModel       = "sora-2-text-to-video"
	DefaultDuration    = "4s"
	DefaultAspectRatio = "16:9"

	// MaxScriptRunes bounds how much of an ad script is turned into a
	// video prompt.
	MaxScriptRunes = 500

	promptPrefix = "Cinematic car dealership commercial. Show the vehicle in motion and in detail, matching this ad script: "
)

var (
	ErrPromptRequired = errors.New("prompt is required")
	ErrIDRequired     = errors.New("video id is required")
)

type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Models lists the text-to-video models offered to clients. The first entry
// is the default.
var Models = []Model{
	{ID: "sora-2-text-to-video", Name: "Sora 2", Description: "OpenAI Sora 2 - High quality video generation"},
	{ID: "kling-2.6-pro-text-to-video", Name: "Kling 2.6 Pro", Description: "High quality, professional video generation"},
}

// Backend is the video half of the Venice client.
type Backend interface {
	QueueVideo(ctx context.Context, req venice.VideoRequest) (string, error)
	RetrieveVideo(ctx context.Context, queueID, model string) (*venice.VideoStatus, error)
}

type QueueRequest struct {
	Prompt      string `json:"prompt"`
	Script      string `json:"script,omitempty"`
	Model       string `json:"model,omitempty"`
	Duration    string `json:"duration,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

type Job struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type Service struct {
	backend Backend
	logger  *slog.Logger
}

func NewService(backend Backend, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		backend: backend,
		logger:  logger.With("component", "video"),
	}
}

// Queue submits a generation job. A bare Script is turned into a prompt with
// BuildPrompt; an explicit Prompt always wins.
func (s *Service) Queue(ctx context.Context, req QueueRequest) (*Job, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" && strings.TrimSpace(req.Script) != "" {
		prompt = BuildPrompt(req.Script)
	}
	if prompt == "" {
		return nil, ErrPromptRequired
	}

	vr := venice.VideoRequest{
		Model:       orDefault(req.Model, DefaultModel),
		Prompt:      prompt,
		Duration:    orDefault(req.Duration, DefaultDuration),
		AspectRatio: orDefault(req.AspectRatio, DefaultAspectRatio),
	}

	id, err := s.backend.QueueVideo(ctx, vr)
	if err != nil {
		s.logger.Error("failed to queue video", "model", vr.Model, "error", err)
		return nil, err
	}

	s.logger.Info("video queued", "id", id, "model", vr.Model)

	return &Job{ID: id, Status: venice.StatusQueued}, nil
}

// Status reports the state of a queued job.
func (s *Service) Status(ctx context.Context, id, model string) (*venice.VideoStatus, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrIDRequired
	}

	return s.backend.RetrieveVideo(ctx, id, orDefault(model, DefaultModel))
}

// BuildPrompt turns an ad script into a video prompt. Scripts longer than
// MaxScriptRunes are cut at the last word boundary before the limit.
func BuildPrompt(script string) string {
	script = strings.Join(strings.Fields(script), " ")

	runes := []rune(script)
	if len(runes) > MaxScriptRunes {
		cut := runes[:MaxScriptRunes]
		if !unicode.IsSpace(runes[MaxScriptRunes]) {
			if i := lastSpace(cut); i > 0 {
				cut = cut[:i]
			}
		}
		script = strings.TrimSpace(string(cut))
	}

	return promptPrefix + script
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
