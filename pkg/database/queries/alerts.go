package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/OldStager01/sepsis-watcher/pkg/database"
)

// ClinicalAlert is one persisted rule-based alert.
type ClinicalAlert struct {
	ID        int       `json:"id"`
	VitalsID  string    `json:"vitals_id"`
	Stage     int       `json:"stage"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// AlertRepository handles persistence of clinical alerts.
type AlertRepository struct {
	db *database.DB
}

func NewAlertRepository(db *database.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Insert(ctx context.Context, alert *ClinicalAlert) error {
	query := `
		INSERT INTO clinical_alerts (vitals_id, stage, severity, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		alert.VitalsID, alert.Stage, alert.Severity, alert.Message,
	).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	return nil
}

// GetRecent returns the latest alerts, newest first.
func (r *AlertRepository) GetRecent(ctx context.Context, limit int) ([]*ClinicalAlert, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, vitals_id, stage, severity, message, created_at
		FROM clinical_alerts
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent alerts: %w", err)
	}
	defer rows.Close()

	var result []*ClinicalAlert
	for rows.Next() {
		alert := &ClinicalAlert{}
		err := rows.Scan(
			&alert.ID, &alert.VitalsID, &alert.Stage,
			&alert.Severity, &alert.Message, &alert.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		result = append(result, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	return result, nil
}
