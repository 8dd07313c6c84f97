package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/pollen-advisor/internal/domain/allergycheck"
	apperrors "github.com/yanqian/pollen-advisor/pkg/errors"
)

// Handler wires the HTTP transport to the allergy check pipeline.
type Handler struct {
	checkSvc allergycheck.Service
	logger   *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(checkSvc allergycheck.Service, logger *slog.Logger) *Handler {
	return &Handler{
		checkSvc: checkSvc,
		logger:   logger.With("component", "http.handler"),
	}
}

// locateResponse is the success body for a resolved region.
type locateResponse struct {
	City     string                    `json:"city"`
	Ward     string                    `json:"ward"`
	CityCode string                    `json:"citycode"`
	Analysis string                    `json:"analysis"`
	Records  []allergycheck.SeriesPoint `json:"records"`
	VegaSpec json.RawMessage           `json:"vegaSpec"`
}

// missResponse is returned when no boundary polygon contains the point. The
// nullable fields and empty pollen list mirror what the frontend expects.
type missResponse struct {
	City     *string                    `json:"city"`
	Ward     *string                    `json:"ward"`
	CityCode *string                    `json:"citycode"`
	Pollen   []allergycheck.SeriesPoint `json:"pollen"`
	Message  string                     `json:"message"`
}

// Locate runs the allergy check pipeline for a coordinate and questionnaire.
func (h *Handler) Locate(c *gin.Context) {
	var req allergycheck.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です", err))
		return
	}

	result, err := h.checkSvc.Check(c.Request.Context(), req)
	if err != nil {
		if apperrors.IsCode(err, "invalid_input") {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.Message(err), err).
				WithFields(map[string]any{
					"periodType":  req.PeriodType,
					"periodValue": req.PeriodValue,
				}))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "サーバー内部エラー", err))
		return
	}

	if !result.Region.Found() {
		c.JSON(http.StatusOK, missResponse{
			Pollen:  []allergycheck.SeriesPoint{},
			Message: result.Message,
		})
		return
	}

	c.JSON(http.StatusOK, locateResponse{
		City:     result.Region.City,
		Ward:     result.Region.Ward,
		CityCode: result.Region.Code,
		Analysis: result.Analysis,
		Records:  result.Records,
		VegaSpec: result.VegaSpec,
	})
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
