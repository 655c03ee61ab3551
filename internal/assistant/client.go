package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mdpulso/clinic-assistant/pkg/logging"
)

const defaultClientTimeout = 60 * time.Second

// ChatCompleter sends one chat-completions request to the LLM provider.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatCompletion, error)
}

// OpenRouterClient is a chat-completions client for the OpenRouter API.
type OpenRouterClient struct {
	baseURL    string
	apiKey     string
	referer    string
	title      string
	httpClient *http.Client
	logger     *logging.Logger
}

// OpenRouterConfig configures the client.
type OpenRouterConfig struct {
	BaseURL string
	APIKey  string
	// Referer and Title populate OpenRouter's attribution headers.
	Referer string
	Title   string
	Timeout time.Duration
	Logger  *logging.Logger
}

// NewOpenRouterClient creates an OpenRouter chat-completions client.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultClientTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &OpenRouterClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		referer: cfg.Referer,
		title:   cfg.Title,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: cfg.Logger,
	}
}

var _ ChatCompleter = (*OpenRouterClient)(nil)

type apiErrorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Complete posts a chat-completions request and decodes the reply. A non-2xx
// status is returned as an error carrying the upstream message; the
// orchestration loop aborts on it rather than fabricating a partial answer.
func (c *OpenRouterClient) Complete(ctx context.Context, req ChatRequest) (*ChatCompletion, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, fmt.Errorf("assistant: missing openrouter api key")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("assistant: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("assistant: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		httpReq.Header.Set("X-Title", c.title)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("assistant: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("assistant: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope apiErrorEnvelope
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error.Message != "" {
			return nil, fmt.Errorf("assistant: openrouter status %d: %s", resp.StatusCode, envelope.Error.Message)
		}
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return nil, fmt.Errorf("assistant: openrouter status %d: %s", resp.StatusCode, msg)
	}

	var completion ChatCompletion
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, fmt.Errorf("assistant: unmarshal response: %w", err)
	}
	return &completion, nil
}
