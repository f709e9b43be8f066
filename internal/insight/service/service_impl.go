package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samogera/BrightEco-Pay-sub000/internal/cache"
	"github.com/samogera/BrightEco-Pay-sub000/internal/config"
	insightdomain "github.com/samogera/BrightEco-Pay-sub000/internal/insight/domain"
	telemetrydomain "github.com/samogera/BrightEco-Pay-sub000/internal/telemetry/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Config config.Config
	Client insightdomain.ModelClient
}

type Service struct {
	log      *zap.Logger
	cfg      config.Config
	client   insightdomain.ModelClient
	reports  cache.Cache[string, *insightdomain.InsightReport]
	validate *validator.Validate
}

func NewService(p Params) insightdomain.Service {
	return &Service{
		log:      p.Log.Named("insight.service"),
		cfg:      p.Config,
		client:   p.Client,
		reports:  cache.NewTTLCache[string, *insightdomain.InsightReport](),
		validate: validator.New(),
	}
}

func (s *Service) GenerateInsight(ctx context.Context, kpis insightdomain.EnergyKPIs) (*insightdomain.InsightReport, error) {
	if err := s.validate.Struct(kpis); err != nil {
		return nil, err
	}

	key := fingerprint("insight", kpis)
	if report, ok := s.reports.Get(key); ok {
		return report, nil
	}

	prompt, err := renderInsightPrompt(kpis)
	if err != nil {
		return nil, err
	}
	return s.completeAndCache(ctx, key, prompt)
}

func (s *Service) DeviceAdvice(ctx context.Context, readings []telemetrydomain.TelemetryReading) (*insightdomain.InsightReport, error) {
	if len(readings) == 0 {
		return nil, insightdomain.ErrNoReadings
	}

	key := fingerprint("device", readings)
	if report, ok := s.reports.Get(key); ok {
		return report, nil
	}

	prompt, err := renderDevicePrompt(readings)
	if err != nil {
		return nil, err
	}
	return s.completeAndCache(ctx, key, prompt)
}

func (s *Service) completeAndCache(ctx context.Context, key, prompt string) (*insightdomain.InsightReport, error) {
	raw, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	report, err := s.parseReport(raw)
	if err != nil {
		s.log.Warn("model output rejected", zap.Error(err))
		return nil, err
	}

	s.reports.Set(key, report, s.cfg.InsightTTL)
	return report, nil
}

// parseReport decodes the model's answer strictly: unknown fields, trailing
// data, and schema violations all reject the output.
func (s *Service) parseReport(raw string) (*insightdomain.InsightReport, error) {
	cleaned := stripCodeFence(raw)

	decoder := json.NewDecoder(strings.NewReader(cleaned))
	decoder.DisallowUnknownFields()

	var report insightdomain.InsightReport
	if err := decoder.Decode(&report); err != nil {
		return nil, fmt.Errorf("%w: %v", insightdomain.ErrInvalidModelOutput, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%w: trailing data", insightdomain.ErrInvalidModelOutput)
	}
	if err := s.validate.Struct(report); err != nil {
		return nil, fmt.Errorf("%w: %v", insightdomain.ErrInvalidModelOutput, err)
	}
	return &report, nil
}

// stripCodeFence tolerates models that wrap JSON in a markdown fence.
func stripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

func fingerprint(kind string, input any) string {
	raw, err := json.Marshal(input)
	if err != nil {
		return kind
	}
	sum := sha256.Sum256(raw)
	return kind + ":" + hex.EncodeToString(sum[:])
}
