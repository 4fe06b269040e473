package handlers

import (
	"net/http"
	"strconv"

	"github.com/OldStager01/sepsis-watcher/pkg/config"
	"github.com/OldStager01/sepsis-watcher/pkg/database/queries"
	"github.com/gin-gonic/gin"
)

type AssessmentsHandler struct {
	assessmentRepo *queries.AssessmentRepository
	alertRepo      *queries.AlertRepository
	config         *config.APIConfig
}

func NewAssessmentsHandler(
	assessmentRepo *queries.AssessmentRepository,
	alertRepo *queries.AlertRepository,
	cfg *config.APIConfig,
) *AssessmentsHandler {
	return &AssessmentsHandler{
		assessmentRepo: assessmentRepo,
		alertRepo:      alertRepo,
		config:         cfg,
	}
}

func (h *AssessmentsHandler) GetRecent(c *gin.Context) {
	limit := h.parseLimit(c)

	assessments, err := h.assessmentRepo.GetRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query assessments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessments": assessments, "count": len(assessments)})
}

func (h *AssessmentsHandler) GetStats(c *gin.Context) {
	hours := 24
	if raw := c.Query("hours"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 720 {
			hours = parsed
		}
	}

	stats, err := h.assessmentRepo.GetStats(c.Request.Context(), hours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "window_hours": hours})
}

func (h *AssessmentsHandler) GetRecentAlerts(c *gin.Context) {
	limit := h.parseLimit(c)

	alerts, err := h.alertRepo.GetRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

func (h *AssessmentsHandler) parseLimit(c *gin.Context) int {
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
