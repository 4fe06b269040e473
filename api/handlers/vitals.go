package handlers

import (
	"net/http"
	"strconv"

	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/database/queries"
	"github.com/OldStager01/sepsis-watcher/pkg/models"
	"github.com/OldStager01/sepsis-watcher/pkg/validation"
	"github.com/gin-gonic/gin"
)

type VitalsHandler struct {
	vitalsRepo      *queries.VitalsRepository
	assessmentRepo  *queries.AssessmentRepository
	predictionRepo  *queries.PredictionRepository
	config          *config.APIConfig
}

func NewVitalsHandler(
	vitalsRepo *queries.VitalsRepository,
	assessmentRepo *queries.AssessmentRepository,
	predictionRepo *queries.PredictionRepository,
	cfg *config.APIConfig,
) *VitalsHandler {
	return &VitalsHandler{
		vitalsRepo:     vitalsRepo,
		assessmentRepo: assessmentRepo,
		predictionRepo: predictionRepo,
		config:         cfg,
	}
}

type IngestVitalsRequest struct {
	PatientID       string   `json:"patient_id"`
	Source          string   `json:"source"`
	HeartRate       *float64 `json:"heart_rate"`
	SpO2            *float64 `json:"spo2"`
	SystolicBP      *float64 `json:"systolic_bp"`
	DiastolicBP     *float64 `json:"diastolic_bp"`
	RespiratoryRate *float64 `json:"respiratory_rate"`
	Temperature     *float64 `json:"temperature"`
	ICULOS          *float64 `json:"iculos"`
	WBC             *float64 `json:"wbc"`
}

func (r *IngestVitalsRequest) validate() error {
	if err := validation.ValidatePatientID(r.PatientID); err != nil {
		return err
	}

	fields := map[string]*float64{
		"heart_rate":       r.HeartRate,
		"spo2":             r.SpO2,
		"systolic_bp":      r.SystolicBP,
		"diastolic_bp":     r.DiastolicBP,
		"respiratory_rate": r.RespiratoryRate,
		"temperature":      r.Temperature,
		"iculos":           r.ICULOS,
		"wbc":              r.WBC,
	}
	for field, value := range fields {
		if err := validation.ValidateVital(field, value); err != nil {
			return err
		}
	}

	return nil
}

// Ingest accepts a vitals sample and queues it for the watcher.
func (h *VitalsHandler) Ingest(c *gin.Context) {
	var req IngestVitalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}

	row := &models.VitalsRow{
		PatientID:       validation.SanitizeString(req.PatientID),
		Source:          source,
		HeartRate:       req.HeartRate,
		SpO2:            req.SpO2,
		SystolicBP:      req.SystolicBP,
		DiastolicBP:     req.DiastolicBP,
		RespiratoryRate: req.RespiratoryRate,
		Temperature:     req.Temperature,
		ICULOS:          req.ICULOS,
		WBC:             req.WBC,
	}

	if err := h.vitalsRepo.Insert(c.Request.Context(), row); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save vitals"})
		return
	}

	c.JSON(http.StatusCreated, row)
}

func (h *VitalsHandler) GetRecent(c *gin.Context) {
	limit := h.parseLimit(c)

	rows, err := h.vitalsRepo.GetRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query vitals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vitals": rows, "count": len(rows)})
}

func (h *VitalsHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	row, err := h.vitalsRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == queries.ErrVitalsNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "vitals not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query vitals"})
		return
	}

	c.JSON(http.StatusOK, row)
}

func (h *VitalsHandler) GetAssessment(c *gin.Context) {
	id := c.Param("id")

	assessment, err := h.assessmentRepo.GetByVitalsID(c.Request.Context(), id)
	if err != nil {
		if err == queries.ErrAssessmentNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query assessment"})
		return
	}

	c.JSON(http.StatusOK, assessment)
}

func (h *VitalsHandler) GetForecast(c *gin.Context) {
	id := c.Param("id")

	steps, err := h.predictionRepo.GetByVitalsID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query forecast"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"predictions": steps, "count": len(steps)})
}

func (h *VitalsHandler) parseLimit(c *gin.Context) int {
	defaultLimit := 50
	maxLimit := 500
	if h.config != nil {
		if h.config.DefaultLimit > 0 {
			defaultLimit = h.config.DefaultLimit
		}
		if h.config.MaxLimit > 0 {
			maxLimit = h.config.MaxLimit
		}
	}

	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return limit
}
