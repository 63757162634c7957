package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/models"
)

// Admin reference-data maintenance. Rate writes trigger an immediate
// snapshot refresh of the affected sector so user dashboards never serve
// valuations against a stale rate for long.

type GoldRateRequest struct {
	Rate22K string `json:"rate_22k" binding:"required"`
	Rate24K string `json:"rate_24k" binding:"required"`
}

func (h *Handler) PutGoldRate(c *gin.Context) {
	var req GoldRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	rate22, err := parsePositiveDecimal(req.Rate22K, "rate_22k")
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	rate24, err := parsePositiveDecimal(req.Rate24K, "rate_24k")
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	if err := h.repo.UpsertGoldRate(c.Request.Context(), rate22, rate24); err != nil {
		h.fail(c, err)
		return
	}
	rep, err := h.refresher.RefreshSector(c.Request.Context(), models.SectorGold, time.Now().UTC())
	if err != nil {
		h.log.Warnf("gold refresh after rate update failed: %v", err)
	}
	respond(c, http.StatusOK, "gold rate updated", rep)
}

func (h *Handler) GetGoldRate(c *gin.Context) {
	rate, err := h.repo.GetGoldRate(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "gold rate", rate)
}

type AreaPriceRequest struct {
	AreaName     string `json:"area_name" binding:"required"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	PricePerSqft string `json:"price_per_sqft" binding:"required"`
}

func (h *Handler) PutAreaPrice(c *gin.Context) {
	var req AreaPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	price, err := parsePositiveDecimal(req.PricePerSqft, "price_per_sqft")
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	ap := models.AreaPrice{AreaName: req.AreaName, City: req.City, State: req.State, PricePerSqft: price}
	if err := h.repo.UpsertAreaPrice(c.Request.Context(), ap); err != nil {
		h.fail(c, err)
		return
	}
	rep, err := h.refresher.RefreshSector(c.Request.Context(), models.SectorRealEstate, time.Now().UTC())
	if err != nil {
		h.log.Warnf("real estate refresh after area price update failed: %v", err)
	}
	respond(c, http.StatusOK, "area price updated", rep)
}

func (h *Handler) ListAreaPrices(c *gin.Context) {
	prices, err := h.repo.ListAreaPrices(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "area prices", prices)
}

func (h *Handler) DeleteAreaPrice(c *gin.Context) {
	area, city, state := c.Query("area"), c.Query("city"), c.Query("state")
	if area == "" || city == "" || state == "" {
		h.badRequest(c, "area, city and state query params are required")
		return
	}
	if err := h.repo.DeleteAreaPrice(c.Request.Context(), area, city, state); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "area price deleted", nil)
}

// RefreshSector recomputes one sector's snapshots on demand; the :sector
// param also accepts "all".
func (h *Handler) RefreshSector(c *gin.Context) {
	name := c.Param("sector")
	now := time.Now().UTC()
	if name == "all" {
		reports, err := h.refresher.RefreshAll(c.Request.Context(), now)
		if err != nil {
			h.fail(c, err)
			return
		}
		respond(c, http.StatusOK, "all sectors refreshed", reports)
		return
	}
	sector, err := models.ParseSector(name)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}
	rep, err := h.refresher.RefreshSector(c.Request.Context(), sector, now)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "sector refreshed", rep)
}

type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) CreateBank(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	id, err := h.repo.CreateBank(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "bank created", models.Bank{ID: id, Name: req.Name})
}

func (h *Handler) ListBanks(c *gin.Context) {
	banks, err := h.repo.ListBanks(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "banks", banks)
}

func (h *Handler) DeleteBank(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.badRequest(c, "invalid bank id")
		return
	}
	if err := h.repo.DeleteBank(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "bank deleted", nil)
}

func (h *Handler) CreateState(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	id, err := h.repo.CreateState(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "state created", models.State{ID: id, Name: req.Name})
}

func (h *Handler) ListStates(c *gin.Context) {
	states, err := h.repo.ListStates(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "states", states)
}

type CityRequest struct {
	Name  string `json:"name" binding:"required"`
	State string `json:"state" binding:"required"`
}

func (h *Handler) CreateCity(c *gin.Context) {
	var req CityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	id, err := h.repo.CreateCity(c.Request.Context(), req.Name, req.State)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "city created", models.City{ID: id, Name: req.Name, State: req.State})
}

func (h *Handler) ListCities(c *gin.Context) {
	cities, err := h.repo.ListCities(c.Request.Context(), c.Query("state"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "cities", cities)
}

func (h *Handler) CreatePropertyType(c *gin.Context) {
	var req NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err.Error())
		return
	}
	id, err := h.repo.CreatePropertyType(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "property type created", models.PropertyType{ID: id, Name: req.Name})
}

func (h *Handler) ListPropertyTypes(c *gin.Context) {
	types, err := h.repo.ListPropertyTypes(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "property types", types)
}
