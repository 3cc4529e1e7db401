// Package ai writes social posts for scraped articles with a language model.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// LLMProvider specifies which LLM backend to use.
type LLMProvider string

const (
	ProviderOllama LLMProvider = "ollama"
	ProviderOpenAI LLMProvider = "openai"
	ProviderCustom LLMProvider = "custom"
)

// ErrNoAPIKey is returned when a provider that needs a key has none.
var ErrNoAPIKey = errors.New("llm api key not configured")

// LLMConfig configures the LLM integration.
type LLMConfig struct {
	Provider    LLMProvider
	Endpoint    string // e.g. "http://localhost:11434" for Ollama
	Model       string // e.g. "gpt-4o", "llama3"
	APIKey      string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Generator produces a completion for a system and user prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// LLMClient communicates with an LLM over HTTP.
type LLMClient struct {
	cfg    LLMConfig
	client *http.Client
	logger *slog.Logger
}

// NewLLMClient creates a new LLM client.
func NewLLMClient(cfg LLMConfig, logger *slog.Logger) *LLMClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &LLMClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With("component", "llm_client", "provider", string(cfg.Provider)),
	}
}

// NewFromConfig builds a client from the ai config section. It returns
// ErrNoAPIKey when OpenAI is selected without a usable key, so callers can
// run with the local fallback instead.
func NewFromConfig(cfg *config.AIConfig, logger *slog.Logger) (*LLMClient, error) {
	provider := LLMProvider(cfg.Provider)
	if provider == ProviderOpenAI {
		if cfg.APIKey == "" {
			return nil, ErrNoAPIKey
		}
		// Perplexity keys are sometimes pasted into OPENAI_API_KEY.
		if strings.HasPrefix(cfg.APIKey, "pplx-") {
			return nil, fmt.Errorf("%w: perplexity key given for openai provider", ErrNoAPIKey)
		}
	}
	if provider == ProviderCustom && cfg.Endpoint == "" {
		return nil, fmt.Errorf("custom llm provider needs ai.endpoint")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" && provider == ProviderOllama {
		endpoint = "http://localhost:11434"
	}

	return NewLLMClient(LLMConfig{
		Provider:    provider,
		Endpoint:    endpoint,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}, logger), nil
}

// Generate sends a prompt to the LLM and returns the response text.
func (c *LLMClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	var (
		out string
		err error
	)
	start := time.Now()
	switch c.cfg.Provider {
	case ProviderOllama:
		out, err = c.generateOllama(ctx, system, prompt)
	case ProviderOpenAI:
		out, err = c.generateOpenAI(ctx, system, prompt)
	case ProviderCustom:
		out, err = c.generateCustom(ctx, system, prompt)
	default:
		return "", fmt.Errorf("unsupported LLM provider: %s", c.cfg.Provider)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", types.ErrEmptyResponse
	}
	c.logger.Debug("completion received", "model", c.cfg.Model, "chars", len(out), "duration", time.Since(start))
	return out, nil
}

func (c *LLMClient) generateOllama(ctx context.Context, system, prompt string) (string, error) {
	payload := map[string]any{
		"model":  c.cfg.Model,
		"system": system,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": c.cfg.Temperature,
			"num_predict": c.cfg.MaxTokens,
		},
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, c.cfg.Endpoint+"/api/generate", payload, &result); err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	return result.Response, nil
}

func (c *LLMClient) generateOpenAI(ctx context.Context, system, prompt string) (string, error) {
	messages := []map[string]string{}
	if system != "" {
		messages = append(messages, map[string]string{"role": "system", "content": system})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	payload := map[string]any{
		"model":                 c.cfg.Model,
		"messages":              messages,
		"max_completion_tokens": c.cfg.MaxTokens,
		"temperature":           c.cfg.Temperature,
	}

	endpoint := c.cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.postJSON(ctx, strings.TrimRight(endpoint, "/")+"/chat/completions", payload, &result); err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return result.Choices[0].Message.Content, nil
}

func (c *LLMClient) generateCustom(ctx context.Context, system, prompt string) (string, error) {
	payload := map[string]any{
		"system": system,
		"prompt": prompt,
		"model":  c.cfg.Model,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("custom endpoint returned HTTP %d", resp.StatusCode)
	}
	return string(respBody), nil
}

func (c *LLMClient) postJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
