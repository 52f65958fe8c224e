package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/etlvalidator/etlvalidator/internal/domain"
)

// GeminiClient implements domain.LLMClient on the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewGeminiClient creates a client from an explicit configuration.
func NewGeminiClient(ctx context.Context, cfg domain.LLMConfig, logger *zap.Logger) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %v", domain.ErrConfig, err)
	}

	model := cfg.Model
	if model == "" {
		model = domain.DefaultModelFor(domain.ProviderGemini)
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// Complete sends the prompt with the system part as system instruction.
func (c *GeminiClient) Complete(ctx context.Context, p domain.Prompt) (string, error) {
	start := time.Now()
	c.logger.Debug("gemini request", zap.String("model", c.model), zap.Int("user_len", len(p.User)))

	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if p.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(p.User), gc)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &domain.RemoteError{StatusCode: apiErr.Code, Detail: apiErr.Message}
		}
		return "", fmt.Errorf("%w: %v", domain.ErrRemote, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: no completion returned", domain.ErrRemote)
	}

	c.logger.Debug("gemini response",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_len", len(text)),
	)
	return text, nil
}
