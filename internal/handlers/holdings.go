package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/auth"
	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/valuation"
)

// Holding CRUD. Every write recomputes the valuation snapshot synchronously,
// so a holding never exists without a consistent snapshot and a real-estate
// parcel with no matching area price is rejected at creation.

func parsePositiveDecimal(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s format", field)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%s must be positive", field)
	}
	return d, nil
}

func parseDate(s, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be formatted 2006-01-02", field)
	}
	return t, nil
}

type DepositRequest struct {
	BankName       string `json:"bank_name" binding:"required"`
	InvestedAmount string `json:"invested_amount" binding:"required"`
	InterestRate   string `json:"interest_rate" binding:"required"`
	StartDate      string `json:"start_date" binding:"required"`
	MaturityDate   string `json:"maturity_date" binding:"required"`
}

func (h *Handler) depositFromRequest(c *gin.Context) (models.FixedDeposit, bool) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid deposit body: %v", err)
		h.badRequest(c, err.Error())
		return models.FixedDeposit{}, false
	}
	amount, err := parsePositiveDecimal(req.InvestedAmount, "invested_amount")
	if err != nil {
		h.badRequest(c, err.Error())
		return models.FixedDeposit{}, false
	}
	rate, err := parsePositiveDecimal(req.InterestRate, "interest_rate")
	if err != nil {
		h.badRequest(c, err.Error())
		return models.FixedDeposit{}, false
	}
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		h.badRequest(c, err.Error())
		return models.FixedDeposit{}, false
	}
	maturity, err := parseDate(req.MaturityDate, "maturity_date")
	if err != nil {
		h.badRequest(c, err.Error())
		return models.FixedDeposit{}, false
	}
	if !maturity.After(start) {
		h.badRequest(c, "maturity_date must be after start_date")
		return models.FixedDeposit{}, false
	}
	return models.FixedDeposit{
		UserID:         auth.UserID(c),
		BankName:       req.BankName,
		InvestedAmount: amount,
		InterestRate:   rate,
		StartDate:      start,
		MaturityDate:   maturity,
	}, true
}

func (h *Handler) CreateDeposit(c *gin.Context) {
	fd, ok := h.depositFromRequest(c)
	if !ok {
		return
	}
	fd.ID = uuid.NewString()
	res := valuation.FixedDeposit(fd.InvestedAmount, fd.InterestRate, fd.StartDate, fd.MaturityDate, time.Now().UTC())
	fd.CurrentReturnAmount = res.CurrentValue
	fd.TotalReturnedAmount = res.TotalValue
	fd.Profit = res.Profit
	if err := h.repo.CreateFixedDeposit(c.Request.Context(), fd); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "fixed deposit registered", fd)
}

func (h *Handler) ListDeposits(c *gin.Context) {
	deposits, err := h.repo.ListFixedDeposits(c.Request.Context(), auth.UserID(c), models.DateRange{})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "fixed deposits", deposits)
}

func (h *Handler) UpdateDeposit(c *gin.Context) {
	fd, ok := h.depositFromRequest(c)
	if !ok {
		return
	}
	fd.ID = c.Param("id")
	res := valuation.FixedDeposit(fd.InvestedAmount, fd.InterestRate, fd.StartDate, fd.MaturityDate, time.Now().UTC())
	fd.CurrentReturnAmount = res.CurrentValue
	fd.TotalReturnedAmount = res.TotalValue
	fd.Profit = res.Profit
	if err := h.repo.UpdateFixedDeposit(c.Request.Context(), fd); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "fixed deposit updated", fd)
}

func (h *Handler) DeleteDeposit(c *gin.Context) {
	if err := h.repo.DeleteFixedDeposit(c.Request.Context(), c.Param("id"), auth.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "fixed deposit deleted", nil)
}

type GoldLotRequest struct {
	WeightGrams   string `json:"weight_grams" binding:"required"`
	Purity        int    `json:"purity" binding:"required"`
	Form          string `json:"form"`
	PurchasePrice string `json:"purchase_price" binding:"required"`
}

func (h *Handler) goldLotFromRequest(c *gin.Context) (models.GoldLot, bool) {
	var req GoldLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid gold body: %v", err)
		h.badRequest(c, err.Error())
		return models.GoldLot{}, false
	}
	weight, err := parsePositiveDecimal(req.WeightGrams, "weight_grams")
	if err != nil {
		h.badRequest(c, err.Error())
		return models.GoldLot{}, false
	}
	price, err := parsePositiveDecimal(req.PurchasePrice, "purchase_price")
	if err != nil {
		h.badRequest(c, err.Error())
		return models.GoldLot{}, false
	}
	if req.Purity != 22 && req.Purity != 24 {
		h.badRequest(c, "purity must be 22 or 24")
		return models.GoldLot{}, false
	}
	return models.GoldLot{
		UserID:        auth.UserID(c),
		WeightGrams:   weight,
		Purity:        req.Purity,
		Form:          req.Form,
		PurchasePrice: price,
	}, true
}

// valueGoldLot resolves the current reference rate for the lot's purity and
// applies the configured pricing policy.
func (h *Handler) valueGoldLot(c *gin.Context, g *models.GoldLot) error {
	rate, err := h.repo.GetGoldRate(c.Request.Context())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("gold rate not set: %w", err)
		}
		return err
	}
	perGram, err := rate.PerGram(g.Purity)
	if err != nil {
		return err
	}
	res := valuation.Gold(h.policy, g.WeightGrams, perGram, g.PurchasePrice)
	g.CurrentValue = res.CurrentValue
	g.Profit = res.Profit
	return nil
}

func (h *Handler) CreateGoldLot(c *gin.Context) {
	g, ok := h.goldLotFromRequest(c)
	if !ok {
		return
	}
	g.ID = uuid.NewString()
	if err := h.valueGoldLot(c, &g); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.repo.CreateGoldLot(c.Request.Context(), g); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "gold lot registered", g)
}

func (h *Handler) ListGoldLots(c *gin.Context) {
	lots, err := h.repo.ListGoldLots(c.Request.Context(), auth.UserID(c), models.DateRange{})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "gold lots", lots)
}

func (h *Handler) UpdateGoldLot(c *gin.Context) {
	g, ok := h.goldLotFromRequest(c)
	if !ok {
		return
	}
	g.ID = c.Param("id")
	if err := h.valueGoldLot(c, &g); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.repo.UpdateGoldLot(c.Request.Context(), g); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "gold lot updated", g)
}

func (h *Handler) DeleteGoldLot(c *gin.Context) {
	if err := h.repo.DeleteGoldLot(c.Request.Context(), c.Param("id"), auth.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "gold lot deleted", nil)
}

type ParcelRequest struct {
	AreaName      string `json:"area_name" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state" binding:"required"`
	AreaSqft      string `json:"area_sqft" binding:"required"`
	PurchasePrice string `json:"purchase_price" binding:"required"`
}

func (h *Handler) parcelFromRequest(c *gin.Context) (models.RealEstateParcel, bool) {
	var req ParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid parcel body: %v", err)
		h.badRequest(c, err.Error())
		return models.RealEstateParcel{}, false
	}
	sqft, err := parsePositiveDecimal(req.AreaSqft, "area_sqft")
	if err != nil {
		h.badRequest(c, err.Error())
		return models.RealEstateParcel{}, false
	}
	price, err := parsePositiveDecimal(req.PurchasePrice, "purchase_price")
	if err != nil {
		h.badRequest(c, err.Error())
		return models.RealEstateParcel{}, false
	}
	return models.RealEstateParcel{
		UserID:        auth.UserID(c),
		AreaName:      req.AreaName,
		City:          req.City,
		State:         req.State,
		AreaSqft:      sqft,
		PurchasePrice: price,
	}, true
}

// valueParcel resolves the exact (area, city, state) reference; a missing
// record fails the request rather than defaulting the valuation to zero.
func (h *Handler) valueParcel(c *gin.Context, p *models.RealEstateParcel) error {
	ap, err := h.repo.GetAreaPrice(c.Request.Context(), p.AreaName, p.City, p.State)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("no area price for %s/%s/%s: %w", p.AreaName, p.City, p.State, err)
		}
		return err
	}
	res := valuation.RealEstate(p.AreaSqft, ap.PricePerSqft, p.PurchasePrice)
	p.CurrentValue = res.CurrentValue
	p.Profit = res.Profit
	return nil
}

func (h *Handler) CreateParcel(c *gin.Context) {
	p, ok := h.parcelFromRequest(c)
	if !ok {
		return
	}
	p.ID = uuid.NewString()
	if err := h.valueParcel(c, &p); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.repo.CreateRealEstateParcel(c.Request.Context(), p); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "real estate parcel registered", p)
}

func (h *Handler) ListParcels(c *gin.Context) {
	parcels, err := h.repo.ListRealEstateParcels(c.Request.Context(), auth.UserID(c), models.DateRange{})
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "real estate parcels", parcels)
}

func (h *Handler) UpdateParcel(c *gin.Context) {
	p, ok := h.parcelFromRequest(c)
	if !ok {
		return
	}
	p.ID = c.Param("id")
	if err := h.valueParcel(c, &p); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.repo.UpdateRealEstateParcel(c.Request.Context(), p); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "real estate parcel updated", p)
}

func (h *Handler) DeleteParcel(c *gin.Context) {
	if err := h.repo.DeleteRealEstateParcel(c.Request.Context(), c.Param("id"), auth.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "real estate parcel deleted", nil)
}
