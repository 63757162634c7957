package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fintrack/internal/analysis"
	"fintrack/internal/auth"
	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/service"
	"fintrack/internal/valuation"
)

type Handler struct {
	repo      *database.Repo
	analyzer  *analysis.Analyzer
	refresher *service.RefreshService
	policy    valuation.GoldPolicy
	log       *logrus.Logger
}

func NewHandler(repo *database.Repo, analyzer *analysis.Analyzer, refresher *service.RefreshService, policy valuation.GoldPolicy, log *logrus.Logger) *Handler {
	return &Handler{repo: repo, analyzer: analyzer, refresher: refresher, policy: policy, log: log}
}

// respond wraps every payload in the {statusCode, message, data} envelope.
func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{"statusCode": status, "message": message, "data": data})
}

// fail maps the error taxonomy onto HTTP statuses. Unexpected errors are
// summarized; the raw error never reaches the caller.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrUnknownSector):
		respond(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, database.ErrNotFound):
		respond(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, database.ErrConflict):
		respond(c, http.StatusConflict, err.Error(), nil)
	default:
		h.log.Errorf("request failed: %v", err)
		respond(c, http.StatusInternalServerError, "internal error", nil)
	}
}

func (h *Handler) badRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, message, nil)
}

const dateLayout = "2006-01-02"

// parseDateRange reads optional startDate/endDate query params. Both must be
// present together; bounds cover the full calendar day at each end.
func parseDateRange(c *gin.Context) (models.DateRange, error) {
	startStr := c.Query("startDate")
	endStr := c.Query("endDate")
	if startStr == "" && endStr == "" {
		return models.DateRange{}, nil
	}
	if startStr == "" || endStr == "" {
		return models.DateRange{}, errors.New("startDate and endDate must be supplied together")
	}
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return models.DateRange{}, errors.New("startDate must be formatted 2006-01-02")
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return models.DateRange{}, errors.New("endDate must be formatted 2006-01-02")
	}
	if end.Before(start) {
		return models.DateRange{}, errors.New("endDate precedes startDate")
	}
	return models.DateRange{Start: start, End: end}, nil
}

// GetOverallAnalysis sums a user's holdings across every sector, optionally
// restricted to a creation-date range.
func (h *Handler) GetOverallAnalysis(c *gin.Context) {
	rng, err := parseDateRange(c)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	totals, err := h.analyzer.Overall(c.Request.Context(), auth.UserID(c), rng)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "overall analysis", totals)
}

// GetSectorBreakdown returns per-sector totals for the dashboard pie chart.
func (h *Handler) GetSectorBreakdown(c *gin.Context) {
	slices, err := h.analyzer.SectorBreakdown(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "sector breakdown", slices)
}

// GetTopGainers returns the merged cross-sector profit ranking.
func (h *Handler) GetTopGainers(c *gin.Context) {
	rows, err := h.analyzer.TopGainers(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "top gainers", rows)
}

// GetHighestGrowth returns the best-performing holding in one sector, or a
// zero-filled placeholder when the sector is empty.
func (h *Handler) GetHighestGrowth(c *gin.Context) {
	sector, err := models.ParseSector(c.Param("sector"))
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	row, err := h.analyzer.HighestGrowth(c.Request.Context(), auth.UserID(c), sector)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "highest growth", row)
}

// GetInvestmentsBySector lists one sector's holdings with sequence numbers.
func (h *Handler) GetInvestmentsBySector(c *gin.Context) {
	sector, err := models.ParseSector(c.Param("sector"))
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	rows, err := h.analyzer.InvestmentsBySector(c.Request.Context(), auth.UserID(c), sector)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "investments in "+sector.String(), rows)
}
