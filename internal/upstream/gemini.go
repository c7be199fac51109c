package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/canvas-assistant-api/pkg/config"
	appErrors "github.com/noah-isme/canvas-assistant-api/pkg/errors"
)

// GenerateOptions tunes a single generation call. Zero values fall back to
// the configured defaults.
type GenerateOptions struct {
	MaxOutputTokens int
	Temperature     float64
}

// GeminiClient issues generateContent calls against the generative-language
// API and normalises the response into plain text at this boundary. Callers
// never see the candidate/part structure.
type GeminiClient struct {
	baseURL  string
	apiKey   string
	model    string
	defaults GenerateOptions
	client   *http.Client
	logger   *zap.Logger
	observer Observer
}

// NewGeminiClient constructs a client from configuration.
func NewGeminiClient(cfg config.GeminiConfig, logger *zap.Logger, observer Observer) *GeminiClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		defaults: GenerateOptions{
			MaxOutputTokens: cfg.MaxOutputTokens,
			Temperature:     cfg.Temperature,
		},
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		observer: observer,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		// Older response shapes carry the text at the candidate level.
		Text string `json:"text"`
	} `json:"candidates"`
}

// GenerateContent sends the prompt and returns the generated text. Both the
// single-text and multi-part response shapes decode to one string; empty
// candidates are reported as a rejected call.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if c.apiKey == "" {
		return "", appErrors.Clone(appErrors.ErrMissingToken, "missing Gemini API key")
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = c.defaults.MaxOutputTokens
	}
	if opts.Temperature <= 0 {
		opts.Temperature = c.defaults.Temperature
	}

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			MaxOutputTokens: opts.MaxOutputTokens,
			Temperature:     opts.Temperature,
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "marshal gemini request")
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build gemini request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observeCall(0, time.Since(start))
		c.logger.Warn("gemini_transport_failure", zap.Error(err))
		return "", appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, "gemini unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	c.observeCall(resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("gemini_rejected", zap.Int("status", resp.StatusCode))
		return "", appErrors.UpstreamRejected(resp.StatusCode, "gemini request failed")
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUpstreamRejected.Code, appErrors.ErrUpstreamRejected.Status, "decode gemini response")
	}

	text := flattenCandidates(decoded)
	if text == "" {
		return "", appErrors.Clone(appErrors.ErrUpstreamRejected, "gemini returned no text")
	}
	return text, nil
}

func (c *GeminiClient) observeCall(status int, duration time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstreamRequest("gemini", "generateContent", status, duration)
}

func flattenCandidates(resp generateResponse) string {
	for _, candidate := range resp.Candidates {
		if len(candidate.Content.Parts) > 0 {
			var b strings.Builder
			for _, p := range candidate.Content.Parts {
				b.WriteString(p.Text)
			}
			if text := strings.TrimSpace(b.String()); text != "" {
				return text
			}
		}
		if text := strings.TrimSpace(candidate.Text); text != "" {
			return text
		}
	}
	return ""
}
