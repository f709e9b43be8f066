package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/samogera/BrightEco-Pay-sub000/internal/config"
	insightdomain "github.com/samogera/BrightEco-Pay-sub000/internal/insight/domain"
	telemetrydomain "github.com/samogera/BrightEco-Pay-sub000/internal/telemetry/domain"
	"go.uber.org/zap"
)

type fakeModelClient struct {
	output string
	err    error
	calls  int
}

func (f *fakeModelClient) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if !strings.Contains(prompt, "JSON") {
		return "", errors.New("prompt missing schema instruction")
	}
	return f.output, nil
}

const validReport = `{
	"summary": "Solar output covers daily usage with headroom.",
	"savings_estimate": "KES 320 per month by shifting evening load.",
	"recommendations": ["Run the water pump before 15:00", "Top up the wallet before the 28th"],
	"risk_level": "low"
}`

func TestGenerateInsightParsesValidOutput(t *testing.T) {
	client := &fakeModelClient{output: validReport}
	svc := newTestService(client, time.Minute)

	report, err := svc.GenerateInsight(context.Background(), testKPIs())
	if err != nil {
		t.Fatalf("generate insight: %v", err)
	}
	if report.RiskLevel != "low" {
		t.Fatalf("risk = %q, want low", report.RiskLevel)
	}
	if len(report.Recommendations) != 2 {
		t.Fatalf("recommendations = %d, want 2", len(report.Recommendations))
	}
}

func TestGenerateInsightToleratesCodeFences(t *testing.T) {
	client := &fakeModelClient{output: "```json\n" + validReport + "\n```"}
	svc := newTestService(client, time.Minute)

	if _, err := svc.GenerateInsight(context.Background(), testKPIs()); err != nil {
		t.Fatalf("generate insight with fenced output: %v", err)
	}
}

func TestGenerateInsightRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"not json":       "The system looks fine overall.",
		"unknown field":  `{"summary":"s","savings_estimate":"e","recommendations":["r"],"risk_level":"low","confidence":0.9}`,
		"missing field":  `{"summary":"s","recommendations":["r"],"risk_level":"low"}`,
		"bad risk level": `{"summary":"s","savings_estimate":"e","recommendations":["r"],"risk_level":"critical"}`,
		"empty list":     `{"summary":"s","savings_estimate":"e","recommendations":[],"risk_level":"low"}`,
		"trailing data":  validReport + `{"more":true}`,
	}
	for name, output := range cases {
		svc := newTestService(&fakeModelClient{output: output}, time.Minute)
		_, err := svc.GenerateInsight(context.Background(), testKPIs())
		if !errors.Is(err, insightdomain.ErrInvalidModelOutput) {
			t.Fatalf("%s: expected invalid model output, got %v", name, err)
		}
	}
}

func TestGenerateInsightCachesByFingerprint(t *testing.T) {
	client := &fakeModelClient{output: validReport}
	svc := newTestService(client, time.Minute)

	kpis := testKPIs()
	if _, err := svc.GenerateInsight(context.Background(), kpis); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := svc.GenerateInsight(context.Background(), kpis); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("model calls = %d, want 1 (cached)", client.calls)
	}

	// A different input misses the cache.
	kpis.BalanceDue = 5100
	if _, err := svc.GenerateInsight(context.Background(), kpis); err != nil {
		t.Fatalf("third call: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("model calls = %d, want 2", client.calls)
	}
}

func TestGenerateInsightPropagatesModelErrors(t *testing.T) {
	svc := newTestService(&fakeModelClient{err: insightdomain.ErrModelUnavailable}, time.Minute)

	_, err := svc.GenerateInsight(context.Background(), testKPIs())
	if !errors.Is(err, insightdomain.ErrModelUnavailable) {
		t.Fatalf("expected model unavailable, got %v", err)
	}
}

func TestDeviceAdvice(t *testing.T) {
	client := &fakeModelClient{output: validReport}
	svc := newTestService(client, time.Minute)

	readings := []telemetrydomain.TelemetryReading{
		{
			DeviceID:       "panel-01",
			OutputWatts:    150,
			BatteryPercent: 70,
			EnergyKwh:      0.8,
			RecordedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	report, err := svc.DeviceAdvice(context.Background(), readings)
	if err != nil {
		t.Fatalf("device advice: %v", err)
	}
	if report.Summary == "" {
		t.Fatal("expected a summary")
	}

	if _, err := svc.DeviceAdvice(context.Background(), nil); !errors.Is(err, insightdomain.ErrNoReadings) {
		t.Fatalf("expected no readings error, got %v", err)
	}
}

func testKPIs() insightdomain.EnergyKPIs {
	return insightdomain.EnergyKPIs{
		DailyOutputKwh:    4.2,
		AverageBatteryPct: 76,
		MonthlyUsageKwh:   98,
		BalanceDue:        2550,
		DaysUntilDue:      12,
		PeakDemandWatts:   420,
		WalletBalance:     800,
	}
}

func newTestService(client insightdomain.ModelClient, ttl time.Duration) insightdomain.Service {
	return NewService(Params{
		Log:    zap.NewNop(),
		Config: config.Config{InsightTTL: ttl},
		Client: client,
	})
}
