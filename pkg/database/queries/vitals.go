package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/OldStager01/sepsis-watcher/pkg/database"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

var ErrVitalsNotFound = errors.New("vitals row not found")

// VitalsRepository handles persistence of raw vital sign rows.
type VitalsRepository struct {
	db *database.DB
}

func NewVitalsRepository(db *database.DB) *VitalsRepository {
	return &VitalsRepository{db: db}
}

// Insert stores a new vitals row and returns its generated ID.
func (r *VitalsRepository) Insert(ctx context.Context, row *models.VitalsRow) error {
	query := `
		INSERT INTO vitals (
			patient_id, source, heart_rate, spo2, systolic_bp, diastolic_bp,
			respiratory_rate, temperature, iculos, wbc
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		row.PatientID, row.Source,
		row.HeartRate, row.SpO2, row.SystolicBP, row.DiastolicBP,
		row.RespiratoryRate, row.Temperature, row.ICULOS, row.WBC,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert vitals: %w", err)
	}

	return nil
}

// GetUnprocessed returns unprocessed rows for the given source, oldest first.
func (r *VitalsRepository) GetUnprocessed(ctx context.Context, source string, limit int) ([]*models.VitalsRow, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, patient_id, source, heart_rate, spo2, systolic_bp, diastolic_bp,
		       respiratory_rate, temperature, iculos, wbc, processed, stage, created_at
		FROM vitals
		WHERE processed = FALSE AND source = $1
		ORDER BY created_at ASC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprocessed vitals: %w", err)
	}
	defer rows.Close()

	return scanVitalsRows(rows)
}

// MarkProcessed flags a row as handled and records the stage it reached.
func (r *VitalsRepository) MarkProcessed(ctx context.Context, id string, stage int) error {
	query := `UPDATE vitals SET processed = TRUE, stage = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, stage)
	if err != nil {
		return fmt.Errorf("failed to mark vitals processed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return ErrVitalsNotFound
	}

	return nil
}

// GetByID fetches a single vitals row.
func (r *VitalsRepository) GetByID(ctx context.Context, id string) (*models.VitalsRow, error) {
	query := `
		SELECT id, patient_id, source, heart_rate, spo2, systolic_bp, diastolic_bp,
		       respiratory_rate, temperature, iculos, wbc, processed, stage, created_at
		FROM vitals
		WHERE id = $1`

	row := &models.VitalsRow{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&row.ID, &row.PatientID, &row.Source,
		&row.HeartRate, &row.SpO2, &row.SystolicBP, &row.DiastolicBP,
		&row.RespiratoryRate, &row.Temperature, &row.ICULOS, &row.WBC,
		&row.Processed, &row.Stage, &row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVitalsNotFound
		}
		return nil, fmt.Errorf("failed to get vitals: %w", err)
	}

	return row, nil
}

// GetRecent returns the most recent rows regardless of processing state.
func (r *VitalsRepository) GetRecent(ctx context.Context, limit int) ([]*models.VitalsRow, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, patient_id, source, heart_rate, spo2, systolic_bp, diastolic_bp,
		       respiratory_rate, temperature, iculos, wbc, processed, stage, created_at
		FROM vitals
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent vitals: %w", err)
	}
	defer rows.Close()

	return scanVitalsRows(rows)
}

func scanVitalsRows(rows *sql.Rows) ([]*models.VitalsRow, error) {
	var result []*models.VitalsRow
	for rows.Next() {
		row := &models.VitalsRow{}
		err := rows.Scan(
			&row.ID, &row.PatientID, &row.Source,
			&row.HeartRate, &row.SpO2, &row.SystolicBP, &row.DiastolicBP,
			&row.RespiratoryRate, &row.Temperature, &row.ICULOS, &row.WBC,
			&row.Processed, &row.Stage, &row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vitals row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vitals rows: %w", err)
	}

	return result, nil
}
