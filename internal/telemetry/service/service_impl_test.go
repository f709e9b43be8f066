package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/samogera/BrightEco-Pay-sub000/internal/accountcontext"
	telemetrydomain "github.com/samogera/BrightEco-Pay-sub000/internal/telemetry/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestIngestStoresReading(t *testing.T) {
	svc := setupTelemetryService(t)
	ctx := accountcontext.WithAccountID(context.Background(), 7001)

	recordedAt := time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)
	reading, err := svc.Ingest(ctx, telemetrydomain.IngestRequest{
		DeviceID:       "panel-01",
		OutputWatts:    180.5,
		BatteryPercent: 82,
		EnergyKwh:      1.2,
		RecordedAt:     recordedAt,
		Metadata:       map[string]any{"firmware": "2.4.1"},
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if reading.ID == 0 || reading.AccountID != 7001 {
		t.Fatalf("unexpected reading %+v", reading)
	}
	if !reading.RecordedAt.Equal(recordedAt) {
		t.Fatalf("recorded_at = %v, want %v", reading.RecordedAt, recordedAt)
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	svc := setupTelemetryService(t)
	ctx := accountcontext.WithAccountID(context.Background(), 7002)

	key := "reading-2025-05-20-1430"
	req := telemetrydomain.IngestRequest{
		DeviceID:       "panel-01",
		OutputWatts:    100,
		BatteryPercent: 50,
		RecordedAt:     time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC),
		IdempotencyKey: &key,
	}

	first, err := svc.Ingest(ctx, req)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	second, err := svc.Ingest(ctx, req)
	if err != nil {
		t.Fatalf("replayed ingest: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("replay created a new row: %s vs %s", first.ID, second.ID)
	}

	list, err := svc.List(ctx, telemetrydomain.ListReadingsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Readings) != 1 {
		t.Fatalf("rows = %d, want 1", len(list.Readings))
	}
}

func TestIngestValidation(t *testing.T) {
	svc := setupTelemetryService(t)
	ctx := accountcontext.WithAccountID(context.Background(), 7003)

	_, err := svc.Ingest(ctx, telemetrydomain.IngestRequest{
		DeviceID:       "panel-01",
		BatteryPercent: 50,
	})
	if !errors.Is(err, telemetrydomain.ErrInvalidRecordedAt) {
		t.Fatalf("expected invalid recorded_at, got %v", err)
	}

	_, err = svc.Ingest(context.Background(), telemetrydomain.IngestRequest{
		DeviceID:   "panel-01",
		RecordedAt: time.Now(),
	})
	if !errors.Is(err, telemetrydomain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	svc := setupTelemetryService(t)
	ctx := accountcontext.WithAccountID(context.Background(), 7004)

	base := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		device := "panel-01"
		if i%2 == 1 {
			device = "panel-02"
		}
		if _, err := svc.Ingest(ctx, telemetrydomain.IngestRequest{
			DeviceID:       device,
			OutputWatts:    float64(100 + i),
			BatteryPercent: 60,
			RecordedAt:     base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}

	filtered, err := svc.List(ctx, telemetrydomain.ListReadingsRequest{DeviceID: "panel-02"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered.Readings) != 2 {
		t.Fatalf("filtered rows = %d, want 2", len(filtered.Readings))
	}
	for _, reading := range filtered.Readings {
		if reading.DeviceID != "panel-02" {
			t.Fatalf("unexpected device %q", reading.DeviceID)
		}
	}

	first, err := svc.List(ctx, telemetrydomain.ListReadingsRequest{PageSize: 3})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Readings) != 3 || !first.PageInfo.HasMore {
		t.Fatalf("first page = %d rows, has_more=%v", len(first.Readings), first.PageInfo.HasMore)
	}
	// Newest first.
	if first.Readings[0].RecordedAt.Before(first.Readings[1].RecordedAt) {
		t.Fatal("expected descending recorded_at order")
	}

	second, err := svc.List(ctx, telemetrydomain.ListReadingsRequest{
		PageSize:  3,
		PageToken: first.PageInfo.NextPageToken,
	})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Readings) != 2 || second.PageInfo.HasMore {
		t.Fatalf("second page = %d rows, has_more=%v", len(second.Readings), second.PageInfo.HasMore)
	}
}

func TestListScopedToAccount(t *testing.T) {
	svc := setupTelemetryService(t)

	for account := 7005; account <= 7006; account++ {
		ctx := accountcontext.WithAccountID(context.Background(), snowflake.ID(account))
		if _, err := svc.Ingest(ctx, telemetrydomain.IngestRequest{
			DeviceID:   fmt.Sprintf("panel-%d", account),
			RecordedAt: time.Now().UTC(),
		}); err != nil {
			t.Fatalf("ingest for %d: %v", account, err)
		}
	}

	ctx := accountcontext.WithAccountID(context.Background(), 7005)
	list, err := svc.List(ctx, telemetrydomain.ListReadingsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Readings) != 1 || list.Readings[0].DeviceID != "panel-7005" {
		t.Fatalf("expected only own readings, got %+v", list.Readings)
	}
}

func setupTelemetryService(t *testing.T) telemetrydomain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS telemetry_readings (
			id BIGINT PRIMARY KEY,
			account_id BIGINT NOT NULL,
			device_id TEXT NOT NULL,
			output_watts REAL NOT NULL DEFAULT 0,
			battery_percent REAL NOT NULL DEFAULT 0,
			energy_kwh REAL NOT NULL DEFAULT 0,
			recorded_at TIMESTAMP NOT NULL,
			idempotency_key TEXT,
			metadata TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create telemetry_readings: %v", err)
	}
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_telemetry_idempotency
			ON telemetry_readings(account_id, idempotency_key)
			WHERE idempotency_key IS NOT NULL`,
	).Error; err != nil {
		t.Fatalf("create idempotency index: %v", err)
	}

	node, err := snowflake.NewNode(4)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	return NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
	})
}
