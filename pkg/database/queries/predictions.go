package queries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/OldStager01/sepsis-watcher/pkg/database"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

// PredictionRepository handles persistence of forecast trajectories.
type PredictionRepository struct {
	db *database.DB
}

func NewPredictionRepository(db *database.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// InsertBatch stores a full trajectory in one transaction. An empty
// trajectory is a no-op.
func (r *PredictionRepository) InsertBatch(ctx context.Context, steps []*models.ForecastStep) error {
	if len(steps) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO vital_predictions (
				vitals_id, simulation_id, sequence_index,
				hr_predicted, resp_predicted, temp_predicted, sbp_predicted, o2sat_predicted,
				risk_score, risk_level
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare prediction insert: %w", err)
		}
		defer stmt.Close()

		for _, step := range steps {
			err := stmt.QueryRowContext(ctx,
				step.VitalsID, step.SimulationID, step.StepIndex,
				step.HeartRate, step.RespiratoryRate, step.Temperature,
				step.SystolicBP, step.SpO2,
				step.RiskScore, string(step.RiskLevel),
			).Scan(&step.ID)
			if err != nil {
				return fmt.Errorf("failed to insert prediction step %d: %w", step.StepIndex, err)
			}
		}

		return nil
	})
}

// GetByVitalsID returns the trajectory anchored on a vitals row, in step order.
func (r *PredictionRepository) GetByVitalsID(ctx context.Context, vitalsID string) ([]*models.ForecastStep, error) {
	query := `
		SELECT id, vitals_id, simulation_id, sequence_index,
		       hr_predicted, resp_predicted, temp_predicted, sbp_predicted, o2sat_predicted,
		       risk_score, risk_level
		FROM vital_predictions
		WHERE vitals_id = $1
		ORDER BY sequence_index ASC`

	return r.queryPredictions(ctx, query, vitalsID)
}

// GetBySimulation returns all steps recorded under one simulation ID.
func (r *PredictionRepository) GetBySimulation(ctx context.Context, simulationID string) ([]*models.ForecastStep, error) {
	query := `
		SELECT id, vitals_id, simulation_id, sequence_index,
		       hr_predicted, resp_predicted, temp_predicted, sbp_predicted, o2sat_predicted,
		       risk_score, risk_level
		FROM vital_predictions
		WHERE simulation_id = $1
		ORDER BY sequence_index ASC`

	return r.queryPredictions(ctx, query, simulationID)
}

func (r *PredictionRepository) queryPredictions(ctx context.Context, query string, args ...interface{}) ([]*models.ForecastStep, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var result []*models.ForecastStep
	for rows.Next() {
		step := &models.ForecastStep{}
		var level string
		err := rows.Scan(
			&step.ID, &step.VitalsID, &step.SimulationID, &step.StepIndex,
			&step.HeartRate, &step.RespiratoryRate, &step.Temperature,
			&step.SystolicBP, &step.SpO2,
			&step.RiskScore, &level,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		step.RiskLevel = models.RiskLevel(level)
		result = append(result, step)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return result, nil
}
