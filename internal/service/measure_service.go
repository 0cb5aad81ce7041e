package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmaraschin/medidor/internal/apperr"
	"github.com/dmaraschin/medidor/internal/domain"
	"github.com/dmaraschin/medidor/internal/extract"
	"github.com/dmaraschin/medidor/internal/stage"
	"github.com/dmaraschin/medidor/internal/store"
)

const defaultExtractTimeout = 30 * time.Second

// measureRepository is the subset of store.MeasureStore that MeasureService requires.
type measureRepository interface {
	Insert(ctx context.Context, m *domain.Measurement) error
	GetByID(ctx context.Context, id string) (*domain.Measurement, error)
	ListByCustomer(ctx context.Context, customerCode, measureType string) ([]*domain.Measurement, error)
	ExistsForMonth(ctx context.Context, customerCode, measureType string, year int, month time.Month) (bool, error)
	Confirm(ctx context.Context, id string, confirmedValue int64) error
}

type MeasureService struct {
	measures       measureRepository
	extractor      extract.Extractor
	stager         stage.Stager
	extractTimeout time.Duration
	logger         *slog.Logger
}

func NewMeasureService(
	measures measureRepository,
	extractor extract.Extractor,
	stager stage.Stager,
	extractTimeout time.Duration,
	logger *slog.Logger,
) *MeasureService {
	if extractTimeout <= 0 {
		extractTimeout = defaultExtractTimeout
	}
	return &MeasureService{
		measures:       measures,
		extractor:      extractor,
		stager:         stager,
		extractTimeout: extractTimeout,
		logger:         logger,
	}
}

type UploadInput struct {
	Image           []byte
	MimeType        string
	CustomerCode    string
	MeasureDatetime time.Time
	MeasureType     string
}

// UploadResult carries the hosted image reference, the raw model answer and
// the id of the new measurement. MeasureValue is the model text as returned,
// not the parsed integer that was persisted.
type UploadResult struct {
	ImageURL     string
	MeasureValue string
	MeasureUUID  string
}

// Upload runs the reading workflow: duplicate-month check, staging, model
// extraction, strict numeric parse, persist. No row is written unless every
// step succeeds.
func (s *MeasureService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	s.logger.Info("upload started",
		"customer_code", in.CustomerCode,
		"measure_type", in.MeasureType,
		"mime_type", in.MimeType,
		"bytes", len(in.Image),
	)

	year, month := in.MeasureDatetime.UTC().Year(), in.MeasureDatetime.UTC().Month()
	exists, err := s.measures.ExistsForMonth(ctx, in.CustomerCode, in.MeasureType, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing reading: %w", err)
	}
	if exists {
		return nil, apperr.DoubleReport()
	}

	stagedPath, cleanup, err := s.stager.Stage(ctx, in.CustomerCode, in.MimeType, bytes.NewReader(in.Image))
	if err != nil {
		return nil, fmt.Errorf("failed to stage image: %w", err)
	}
	defer cleanup()
	s.logger.Debug("image staged", "customer_code", in.CustomerCode, "path", stagedPath)

	extractCtx, cancel := context.WithTimeout(ctx, s.extractTimeout)
	defer cancel()

	reading, err := s.extractor.Extract(extractCtx, in.Image, in.MimeType, in.CustomerCode)
	if err != nil {
		return nil, fmt.Errorf("failed to extract reading: %w", err)
	}
	if !reading.Found {
		s.logger.Info("no reading visible in image", "customer_code", in.CustomerCode)
		return nil, apperr.InvalidData("Não foi possível identificar um valor numérico na imagem")
	}

	value, err := extract.ParseValue(reading.Value)
	if err != nil {
		s.logger.Warn("model returned a non-numeric reading",
			"customer_code", in.CustomerCode, "raw", reading.Value, "error", err)
		return nil, apperr.InvalidData("A leitura extraída da imagem não é numérica")
	}

	m := &domain.Measurement{
		ID:              uuid.NewString(),
		CustomerCode:    in.CustomerCode,
		MeasureDatetime: in.MeasureDatetime,
		MeasureType:     in.MeasureType,
		MeasureValue:    value,
		HasConfirmed:    false,
		ImageURL:        reading.ImageURL,
	}
	if err := s.measures.Insert(ctx, m); err != nil {
		// A concurrent upload may have won the month between the pre-check
		// and this insert; the unique index reports it here.
		if errors.Is(err, store.ErrDuplicateMonth) {
			return nil, apperr.DoubleReport()
		}
		return nil, fmt.Errorf("failed to persist reading: %w", err)
	}

	s.logger.Info("upload complete", "customer_code", in.CustomerCode, "measure_uuid", m.ID, "measure_value", value)
	return &UploadResult{
		ImageURL:     reading.ImageURL,
		MeasureValue: reading.Value,
		MeasureUUID:  m.ID,
	}, nil
}

// Confirm marks a measurement confirmed, overwriting its value with the
// human-corrected one. A measurement can be confirmed exactly once.
func (s *MeasureService) Confirm(ctx context.Context, measureUUID string, confirmedValue int64) error {
	m, err := s.measures.GetByID(ctx, measureUUID)
	if err != nil {
		return fmt.Errorf("failed to get measurement: %w", err)
	}
	if m == nil {
		return apperr.MeasureNotFound()
	}
	if m.HasConfirmed {
		return apperr.ConfirmationDuplicate()
	}

	if err := s.measures.Confirm(ctx, measureUUID, confirmedValue); err != nil {
		return fmt.Errorf("failed to confirm measurement: %w", err)
	}

	s.logger.Info("measurement confirmed", "measure_uuid", measureUUID, "confirmed_value", confirmedValue)
	return nil
}

// List returns the customer's measurements, optionally filtered by type.
func (s *MeasureService) List(ctx context.Context, customerCode, measureType string) ([]*domain.Measurement, error) {
	measurements, err := s.measures.ListByCustomer(ctx, customerCode, measureType)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	if len(measurements) == 0 {
		return nil, apperr.MeasuresNotFound()
	}
	return measurements, nil
}
