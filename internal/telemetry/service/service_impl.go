package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/samogera/BrightEco-Pay-sub000/internal/accountcontext"
	telemetrydomain "github.com/samogera/BrightEco-Pay-sub000/internal/telemetry/domain"
	"github.com/samogera/BrightEco-Pay-sub000/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	validate *validator.Validate
}

func NewService(p Params) telemetrydomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("telemetry.service"),
		genID:    p.GenID,
		validate: validator.New(),
	}
}

func (s *Service) Ingest(ctx context.Context, req telemetrydomain.IngestRequest) (*telemetrydomain.TelemetryReading, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return nil, telemetrydomain.ErrUnauthenticated
	}

	req.DeviceID = strings.TrimSpace(req.DeviceID)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if req.RecordedAt.IsZero() {
		return nil, telemetrydomain.ErrInvalidRecordedAt
	}

	idempotencyKey := normalizeIdempotencyKey(req.IdempotencyKey)
	if idempotencyKey != nil {
		if existing, err := s.findByIdempotencyKey(ctx, accountID, *idempotencyKey); err == nil {
			return existing, nil
		}
	}

	record := &telemetrydomain.TelemetryReading{
		ID:             s.genID.Generate(),
		AccountID:      accountID,
		DeviceID:       req.DeviceID,
		OutputWatts:    req.OutputWatts,
		BatteryPercent: req.BatteryPercent,
		EnergyKwh:      req.EnergyKwh,
		RecordedAt:     req.RecordedAt.UTC(),
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}
	if req.Metadata != nil {
		record.Metadata = datatypes.JSONMap(req.Metadata)
	}

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 && idempotencyKey != nil {
		// Lost an ingest race on the same key; the first row wins.
		return s.findByIdempotencyKey(ctx, accountID, *idempotencyKey)
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, req telemetrydomain.ListReadingsRequest) (telemetrydomain.ListReadingsResponse, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return telemetrydomain.ListReadingsResponse{}, telemetrydomain.ErrUnauthenticated
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	query := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("recorded_at DESC, id DESC").
		Limit(int(pageSize) + 1)

	if deviceID := strings.TrimSpace(req.DeviceID); deviceID != "" {
		query = query.Where("device_id = ?", deviceID)
	}
	if cursor, err := pagination.DecodeCursor(req.PageToken); err == nil && cursor.ID != "" {
		if at, err := time.Parse(time.RFC3339, cursor.CreatedAt); err == nil {
			if id, err := snowflake.ParseString(cursor.ID); err == nil {
				query = query.Where(
					"(recorded_at < ?) OR (recorded_at = ? AND id < ?)",
					at, at, id,
				)
			}
		}
	}

	var readings []telemetrydomain.TelemetryReading
	if err := query.Find(&readings).Error; err != nil {
		return telemetrydomain.ListReadingsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(readings, pageSize, func(record telemetrydomain.TelemetryReading) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        record.ID.String(),
			CreatedAt: record.RecordedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(readings) > int(pageSize) {
		readings = readings[:pageSize]
	}

	return telemetrydomain.ListReadingsResponse{
		Readings: readings,
		PageInfo: *pageInfo,
	}, nil
}

func (s *Service) findByIdempotencyKey(ctx context.Context, accountID snowflake.ID, key string) (*telemetrydomain.TelemetryReading, error) {
	var reading telemetrydomain.TelemetryReading
	err := s.db.WithContext(ctx).
		First(&reading, "account_id = ? AND idempotency_key = ?", accountID, key).Error
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

func normalizeIdempotencyKey(key *string) *string {
	if key == nil {
		return nil
	}
	value := strings.TrimSpace(*key)
	if value == "" {
		return nil
	}
	return &value
}
