package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/OldStager01/sepsis-watcher/pkg/database"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
)

var ErrAssessmentNotFound = errors.New("risk assessment not found")

// AssessmentRepository handles persistence of risk assessments.
type AssessmentRepository struct {
	db *database.DB
}

func NewAssessmentRepository(db *database.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// AssessmentStats summarizes recent assessment activity.
type AssessmentStats struct {
	Total     int     `json:"total"`
	HighCount int     `json:"high_count"`
	LowCount  int     `json:"low_count"`
	AvgScore  float64 `json:"avg_score"`
	MaxScore  float64 `json:"max_score"`
}

// Insert stores an assessment, serializing the reasoning record as JSONB.
func (r *AssessmentRepository) Insert(ctx context.Context, a *models.RiskAssessment) error {
	var reasoning []byte
	if a.Reasoning != nil {
		var err error
		reasoning, err = json.Marshal(a.Reasoning)
		if err != nil {
			return fmt.Errorf("failed to marshal reasoning: %w", err)
		}
	}

	query := `
		INSERT INTO risk_assessments (
			vitals_id, simulation_id, risk_level, risk_score, reasoning,
			active_stage, qsofa_score
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		a.VitalsID, a.SimulationID, string(a.Level), a.Score, reasoning,
		a.ActiveStage, a.QSOFAScore,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}

	return nil
}

// GetByVitalsID returns the latest assessment for a vitals row.
func (r *AssessmentRepository) GetByVitalsID(ctx context.Context, vitalsID string) (*models.RiskAssessment, error) {
	query := `
		SELECT id, vitals_id, simulation_id, risk_level, risk_score, reasoning,
		       active_stage, qsofa_score, created_at
		FROM risk_assessments
		WHERE vitals_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	a, err := scanAssessment(r.db.QueryRowContext(ctx, query, vitalsID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	return a, nil
}

// GetRecent returns the most recent assessments, newest first.
func (r *AssessmentRepository) GetRecent(ctx context.Context, limit int) ([]*models.RiskAssessment, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, vitals_id, simulation_id, risk_level, risk_score, reasoning,
		       active_stage, qsofa_score, created_at
		FROM risk_assessments
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent assessments: %w", err)
	}
	defer rows.Close()

	var result []*models.RiskAssessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessments: %w", err)
	}

	return result, nil
}

// GetStats aggregates assessment counts and scores over the given window.
func (r *AssessmentRepository) GetStats(ctx context.Context, hours int) (*AssessmentStats, error) {
	if hours <= 0 {
		hours = 24
	}

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE risk_level = 'HIGH'),
		       COUNT(*) FILTER (WHERE risk_level = 'LOW'),
		       COALESCE(AVG(risk_score), 0),
		       COALESCE(MAX(risk_score), 0)
		FROM risk_assessments
		WHERE created_at > NOW() - ($1 || ' hours')::INTERVAL`

	stats := &AssessmentStats{}
	err := r.db.QueryRowContext(ctx, query, hours).Scan(
		&stats.Total, &stats.HighCount, &stats.LowCount, &stats.AvgScore, &stats.MaxScore,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment stats: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row rowScanner) (*models.RiskAssessment, error) {
	a := &models.RiskAssessment{}
	var level string
	var reasoning []byte

	err := row.Scan(
		&a.ID, &a.VitalsID, &a.SimulationID, &level, &a.Score, &reasoning,
		&a.ActiveStage, &a.QSOFAScore, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Level = models.RiskLevel(level)
	if len(reasoning) > 0 {
		a.Reasoning = &models.Reasoning{}
		if err := json.Unmarshal(reasoning, a.Reasoning); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reasoning: %w", err)
		}
	}

	return a, nil
}
