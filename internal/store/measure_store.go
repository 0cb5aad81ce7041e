package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmaraschin/medidor/internal/domain"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicateMonth is returned by Insert when a reading already exists for
// the same customer, type and calendar month. The schema enforces this with
// a unique index over (customer_code, measure_type, measure_month), so the
// check holds even under concurrent writers.
var ErrDuplicateMonth = errors.New("measurement already exists for this month")

type MeasureStore struct {
	db *sql.DB
}

func NewMeasureStore(db *sql.DB) *MeasureStore {
	return &MeasureStore{db: db}
}

func (s *MeasureStore) Insert(ctx context.Context, m *domain.Measurement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO measure (id, customer_code, measure_datetime, measure_type, measure_value, has_confirmed, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.CustomerCode, m.MeasureDatetime.UTC().Format(time.RFC3339), nullableType(m.MeasureType),
		m.MeasureValue, m.HasConfirmed, m.ImageURL)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateMonth
		}
		return fmt.Errorf("failed to insert measurement: %w", err)
	}
	return nil
}

func (s *MeasureStore) GetByID(ctx context.Context, id string) (*domain.Measurement, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, customer_code, measure_datetime, measure_type, measure_value, has_confirmed, image_url
		FROM measure WHERE id = ?
	`, id)

	m, err := scanMeasurement(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get measurement: %w", err)
	}
	return m, nil
}

// ListByCustomer returns the customer's measurements, newest first. An empty
// measureType means no type filter.
func (s *MeasureStore) ListByCustomer(ctx context.Context, customerCode, measureType string) ([]*domain.Measurement, error) {
	query := `
		SELECT id, customer_code, measure_datetime, measure_type, measure_value, has_confirmed, image_url
		FROM measure WHERE customer_code = ?`
	args := []any{customerCode}

	if measureType != "" {
		query += ` AND measure_type = ?`
		args = append(args, measureType)
	}
	query += ` ORDER BY measure_datetime DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var measurements []*domain.Measurement
	for rows.Next() {
		m, err := scanMeasurement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan measurement: %w", err)
		}
		measurements = append(measurements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating measurements: %w", err)
	}

	return measurements, nil
}

// ExistsForMonth reports whether the customer already has a reading of the
// given type within the given calendar month.
func (s *MeasureStore) ExistsForMonth(ctx context.Context, customerCode, measureType string, year int, month time.Month) (bool, error) {
	prefix := fmt.Sprintf("%04d-%02d", year, month)

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM measure
		WHERE customer_code = ? AND measure_type = ? AND measure_month = ?
	`, customerCode, measureType, prefix).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing measurement: %w", err)
	}
	return count > 0, nil
}

// Confirm marks the measurement confirmed and overwrites its value.
func (s *MeasureStore) Confirm(ctx context.Context, id string, confirmedValue int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE measure SET has_confirmed = 1, measure_value = ? WHERE id = ?
	`, confirmedValue, id)
	if err != nil {
		return fmt.Errorf("failed to confirm measurement: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("measurement not found")
	}

	return nil
}

// scanMeasurement reads one row using the provided Scan func, converting the
// stored RFC 3339 datetime text and the nullable type column.
func scanMeasurement(scan func(dest ...any) error) (*domain.Measurement, error) {
	m := &domain.Measurement{}
	var datetime string
	var measureType sql.NullString

	if err := scan(&m.ID, &m.CustomerCode, &datetime, &measureType, &m.MeasureValue, &m.HasConfirmed, &m.ImageURL); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339, datetime)
	if err != nil {
		return nil, fmt.Errorf("invalid stored datetime %q: %w", datetime, err)
	}
	m.MeasureDatetime = parsed
	m.MeasureType = measureType.String
	return m, nil
}

func nullableType(measureType string) any {
	if measureType == "" {
		return nil
	}
	return measureType
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
