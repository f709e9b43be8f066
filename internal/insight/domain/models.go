package domain

import (
	"context"
	"errors"

	telemetrydomain "github.com/samogera/BrightEco-Pay-sub000/internal/telemetry/domain"
)

// EnergyKPIs are the numeric inputs summarizing a household's energy picture.
type EnergyKPIs struct {
	DailyOutputKwh    float64 `json:"daily_output_kwh" validate:"gte=0"`
	AverageBatteryPct float64 `json:"average_battery_pct" validate:"gte=0,lte=100"`
	MonthlyUsageKwh   float64 `json:"monthly_usage_kwh" validate:"gte=0"`
	BalanceDue        int64   `json:"balance_due" validate:"gte=0"`
	DaysUntilDue      int     `json:"days_until_due"`
	OutagesLast30Days int     `json:"outages_last_30_days" validate:"gte=0"`
	PeakDemandWatts   float64 `json:"peak_demand_watts" validate:"gte=0"`
	WalletBalance     int64   `json:"wallet_balance" validate:"gte=0"`
}

// InsightReport is the model's structured answer. Every field is required;
// anything else the model emits is rejected.
type InsightReport struct {
	Summary         string   `json:"summary" validate:"required"`
	SavingsEstimate string   `json:"savings_estimate" validate:"required"`
	Recommendations []string `json:"recommendations" validate:"required,min=1,dive,required"`
	RiskLevel       string   `json:"risk_level" validate:"required,oneof=low medium high"`
}

type Service interface {
	// GenerateInsight turns KPIs into a validated report. Schema violations
	// from the model surface as ErrInvalidModelOutput, not a crash.
	GenerateInsight(ctx context.Context, kpis EnergyKPIs) (*InsightReport, error)

	// DeviceAdvice runs the same pipeline over raw telemetry.
	DeviceAdvice(ctx context.Context, readings []telemetrydomain.TelemetryReading) (*InsightReport, error)
}

// FallbackMessage is returned to clients when the model output fails
// validation; the error itself stays recoverable.
const FallbackMessage = "We could not generate an insight right now. Your system data looks healthy; check back shortly."

var (
	ErrInvalidModelOutput = errors.New("invalid_model_output")
	ErrModelUnavailable   = errors.New("model_unavailable")
	ErrNoReadings         = errors.New("no_readings")
)
