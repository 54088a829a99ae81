package venice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL   = "https://api.venice.ai/api/v1"
	DefaultChatModel = "llama-3.3-70b"

	chatMaxTokens   = 1000
	chatTemperature = 0.8

	copywriterPrompt = "You are an expert automotive advertising copywriter with 20 years of experience writing compelling car dealership ads. You understand what makes people want to buy cars and how to create urgency without being pushy. Your scripts are creative, memorable, and drive action."
)

// Video job states reported to callers.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var (
	ErrAPIKeyMissing   = errors.New("VENICE_API_KEY is not configured")
	ErrEmptyCompletion = errors.New("Venice API returned no choices")
	ErrInvalidResponse = errors.New("invalid response from Venice API")
)

// APIError is a non-2xx answer from the Venice API.
type APIError struct {
	StatusCode int
	Body       string
	message    string
}

func (e *APIError) Error() string {
	return e.message
}

type Options struct {
	APIKey    string
	BaseURL   string
	ChatModel string
	Timeout   time.Duration
}

type Client struct {
	http      *resty.Client
	apiKey    string
	chatModel string
	logger    *slog.Logger
}

func NewClient(opts Options, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ChatModel == "" {
		opts.ChatModel = DefaultChatModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json")

	if opts.APIKey != "" {
		httpClient.SetAuthToken(opts.APIKey)
	}

	return &Client{
		http:      httpClient,
		apiKey:    opts.APIKey,
		chatModel: opts.ChatModel,
		logger:    logger.With("component", "venice"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ChatCompletion sends prompt as the user turn under the copywriter system
// prompt and returns the first choice's content.
func (c *Client) ChatCompletion(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrAPIKeyMissing
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: c.chatModel,
			Messages: []chatMessage{
				{Role: "system", Content: copywriterPrompt},
				{Role: "user", Content: prompt},
			},
			MaxTokens:   chatMaxTokens,
			Temperature: chatTemperature,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if !resp.IsSuccess() {
		return "", &APIError{
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
			message:    "Venice API error: " + resp.String(),
		}
	}

	var out chatResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return out.Choices[0].Message.Content, nil
}

type VideoRequest struct {
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	Duration    string `json:"duration"`
	AspectRatio string `json:"aspect_ratio"`
}

type queueResponse struct {
	QueueID string `json:"queue_id"`
	ID      string `json:"id"`
}

// QueueVideo submits a text-to-video job and returns its queue id.
func (c *Client) QueueVideo(ctx context.Context, req VideoRequest) (string, error) {
	if c.apiKey == "" {
		return "", ErrAPIKeyMissing
	}

	c.logger.Info("queueing video generation", "model", req.Model, "duration", req.Duration)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/video/queue")
	if err != nil {
		return "", fmt.Errorf("video queue request failed: %w", err)
	}

	if !resp.IsSuccess() {
		return "", &APIError{
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
			message:    fmt.Sprintf("Video generation failed: %d - %s", resp.StatusCode(), resp.String()),
		}
	}

	var out queueResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidResponse, resp.String())
	}

	id := out.QueueID
	if id == "" {
		id = out.ID
	}
	if id == "" {
		return "", fmt.Errorf("%w: missing queue id", ErrInvalidResponse)
	}

	return id, nil
}

type VideoStatus struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	VideoURL string `json:"videoUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

type videoOutput struct {
	URL string `json:"url"`
}

type retrieveResponse struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	URL      string          `json:"url"`
	VideoURL string          `json:"video_url"`
	Output   *videoOutput    `json:"output"`
	Error    json.RawMessage `json:"error"`
}

// RetrieveVideo polls a queued job. When the job is done Venice answers
// with the video bytes, which are returned inline as a data URL.
func (c *Client) RetrieveVideo(ctx context.Context, queueID, model string) (*VideoStatus, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"queue_id": queueID,
			"model":    model,
		}).
		Post("/video/retrieve")
	if err != nil {
		return nil, fmt.Errorf("video retrieve request failed: %w", err)
	}

	if !resp.IsSuccess() {
		c.logger.Error("video status check failed", "status", resp.StatusCode(), "body", resp.String())
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
			message:    fmt.Sprintf("Failed to check video status: %d", resp.StatusCode()),
		}
	}

	contentType := resp.Header().Get("Content-Type")
	if strings.Contains(contentType, "video/") {
		return &VideoStatus{
			ID:       queueID,
			Status:   StatusCompleted,
			VideoURL: "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(resp.Body()),
		}, nil
	}

	var out retrieveResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	status := &VideoStatus{
		ID:       out.ID,
		Status:   NormalizeStatus(out.Status),
		VideoURL: out.URL,
		Error:    rawErrorText(out.Error),
	}
	if status.ID == "" {
		status.ID = queueID
	}
	if status.VideoURL == "" {
		status.VideoURL = out.VideoURL
	}
	if status.VideoURL == "" && out.Output != nil {
		status.VideoURL = out.Output.URL
	}

	return status, nil
}

// NormalizeStatus maps Venice job states onto queued, processing,
// completed and failed. Unknown states count as processing.
func NormalizeStatus(s string) string {
	switch s {
	case "COMPLETED", "completed", "complete":
		return StatusCompleted
	case "FAILED", "failed", "error":
		return StatusFailed
	case "QUEUED", "queued", "pending":
		return StatusQueued
	default:
		return StatusProcessing
	}
}

func rawErrorText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
