package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samogera/BrightEco-Pay-sub000/internal/config"
	insightdomain "github.com/samogera/BrightEco-Pay-sub000/internal/insight/domain"
	"github.com/samogera/BrightEco-Pay-sub000/internal/observability/tracing"
	"go.uber.org/zap"
)

// HTTPClient talks to the hosted model endpoint over JSON.
type HTTPClient struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
	log      *zap.Logger
}

func NewHTTPClient(cfg config.Config, log *zap.Logger) insightdomain.ModelClient {
	return &HTTPClient{
		endpoint: strings.TrimSpace(cfg.ModelEndpoint),
		apiKey:   strings.TrimSpace(cfg.ModelAPIKey),
		model:    strings.TrimSpace(cfg.ModelName),
		client:   tracing.WrapHTTPClient(&http.Client{Timeout: 30 * time.Second}),
		log:      log.Named("insight.model"),
	}
}

type completeRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type completeResponse struct {
	Output string `json:"output"`
}

func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.endpoint == "" {
		return "", insightdomain.ErrModelUnavailable
	}

	body, err := json.Marshal(completeRequest{Model: c.model, Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("model request failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", insightdomain.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("model returned non-200", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%w: status %d", insightdomain.ErrModelUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var parsed completeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", insightdomain.ErrInvalidModelOutput, err)
	}
	if strings.TrimSpace(parsed.Output) == "" {
		return "", insightdomain.ErrInvalidModelOutput
	}
	return parsed.Output, nil
}
