package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/samogera/BrightEco-Pay-sub000/pkg/db/pagination"
	"gorm.io/datatypes"
)

// TelemetryReading is one reported sample from a solar device.
type TelemetryReading struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	AccountID      snowflake.ID      `gorm:"not null;index:idx_telemetry_account_recorded" json:"account_id"`
	DeviceID       string            `gorm:"type:text;not null" json:"device_id"`
	OutputWatts    float64           `gorm:"not null;default:0" json:"output_watts"`
	BatteryPercent float64           `gorm:"not null;default:0" json:"battery_percent"`
	EnergyKwh      float64           `gorm:"not null;default:0" json:"energy_kwh"`
	RecordedAt     time.Time         `gorm:"not null;index:idx_telemetry_account_recorded" json:"recorded_at"`
	IdempotencyKey *string           `json:"-"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null" json:"-"`
}

// TableName sets the database table name.
func (TelemetryReading) TableName() string { return "telemetry_readings" }

type IngestRequest struct {
	DeviceID       string         `json:"device_id" validate:"required"`
	OutputWatts    float64        `json:"output_watts" validate:"gte=0"`
	BatteryPercent float64        `json:"battery_percent" validate:"gte=0,lte=100"`
	EnergyKwh      float64        `json:"energy_kwh" validate:"gte=0"`
	RecordedAt     time.Time      `json:"recorded_at"`
	IdempotencyKey *string        `json:"idempotency_key,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type ListReadingsRequest struct {
	DeviceID  string `form:"device_id"`
	PageSize  int32  `form:"page_size"`
	PageToken string `form:"page_token"`
}

type ListReadingsResponse struct {
	Readings []TelemetryReading  `json:"readings"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	// Ingest stores a reading. Replays with the same idempotency key return
	// the original row without writing a duplicate.
	Ingest(ctx context.Context, req IngestRequest) (*TelemetryReading, error)
	List(ctx context.Context, req ListReadingsRequest) (ListReadingsResponse, error)
}

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidRecordedAt = errors.New("invalid_recorded_at")
)
