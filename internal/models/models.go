package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnknownSector marks a sector name outside {banking, gold, realestate}.
// Request handlers map it to a validation error.
var ErrUnknownSector = errors.New("unknown sector")

// Sector is the asset-class partition used throughout aggregation.
type Sector string

const (
	SectorBanking    Sector = "banking"
	SectorGold       Sector = "gold"
	SectorRealEstate Sector = "realestate"
)

// Sectors lists every known sector in a fixed order. Aggregation output
// (pie breakdowns, top gainers) follows this order.
var Sectors = []Sector{SectorBanking, SectorGold, SectorRealEstate}

// ParseSector matches a sector name case-insensitively.
func ParseSector(s string) (Sector, error) {
	switch Sector(strings.ToLower(strings.TrimSpace(s))) {
	case SectorBanking:
		return SectorBanking, nil
	case SectorGold:
		return SectorGold, nil
	case SectorRealEstate:
		return SectorRealEstate, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownSector, s)
}

func (s Sector) String() string { return string(s) }

// FixedDeposit carries its interest rate from origination; later reference
// updates never change it. The current/total return and profit columns are a
// cached valuation snapshot, written only by the refresh path.
type FixedDeposit struct {
	ID                  string          `db:"id" json:"id"`
	UserID              string          `db:"user_id" json:"user_id"`
	BankName            string          `db:"bank_name" json:"bank_name"`
	InvestedAmount      decimal.Decimal `db:"invested_amount" json:"invested_amount"`
	InterestRate        decimal.Decimal `db:"interest_rate" json:"interest_rate"`
	StartDate           time.Time       `db:"start_date" json:"start_date"`
	MaturityDate        time.Time       `db:"maturity_date" json:"maturity_date"`
	CurrentReturnAmount decimal.Decimal `db:"current_return_amount" json:"current_return_amount"`
	TotalReturnedAmount decimal.Decimal `db:"total_returned_amount" json:"total_returned_amount"`
	Profit              decimal.Decimal `db:"profit" json:"profit"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
}

// GoldLot is valued against the current GoldRate tier for its purity, so its
// snapshot floats with admin rate updates.
type GoldLot struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"user_id"`
	WeightGrams   decimal.Decimal `db:"weight_grams" json:"weight_grams"`
	Purity        int             `db:"purity" json:"purity"`
	Form          string          `db:"form" json:"form"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchase_price"`
	CurrentValue  decimal.Decimal `db:"current_value" json:"current_value"`
	Profit        decimal.Decimal `db:"profit" json:"profit"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// RealEstateParcel is valued against the AreaPrice matching its
// (area, city, state) triple exactly; no fallback.
type RealEstateParcel struct {
	ID            string          `db:"id" json:"id"`
	UserID        string          `db:"user_id" json:"user_id"`
	AreaName      string          `db:"area_name" json:"area_name"`
	City          string          `db:"city" json:"city"`
	State         string          `db:"state" json:"state"`
	AreaSqft      decimal.Decimal `db:"area_sqft" json:"area_sqft"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchase_price"`
	CurrentValue  decimal.Decimal `db:"current_value" json:"current_value"`
	Profit        decimal.Decimal `db:"profit" json:"profit"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// GoldRate is the single current price-per-gram record, one column per
// purity tier. Admin updates replace it wholesale; last write wins.
type GoldRate struct {
	Rate22K   decimal.Decimal `db:"rate_22k" json:"rate_22k"`
	Rate24K   decimal.Decimal `db:"rate_24k" json:"rate_24k"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// PerGram returns the rate for a purity tier (22 or 24).
func (g GoldRate) PerGram(purity int) (decimal.Decimal, error) {
	switch purity {
	case 22:
		return g.Rate22K, nil
	case 24:
		return g.Rate24K, nil
	}
	return decimal.Zero, fmt.Errorf("unsupported gold purity %dK", purity)
}

// AreaPrice is the price-per-square-foot reference for one area.
type AreaPrice struct {
	AreaName     string          `db:"area_name" json:"area_name"`
	City         string          `db:"city" json:"city"`
	State        string          `db:"state" json:"state"`
	PricePerSqft decimal.Decimal `db:"price_per_sqft" json:"price_per_sqft"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// AnalysisSnapshot is a derived per-user rollup, upserted on each analysis
// request. Sector is empty for the overall rollup. Never authoritative; it
// can be rebuilt from holdings at any time.
type AnalysisSnapshot struct {
	UserID        string          `db:"user_id" json:"user_id"`
	Sector        string          `db:"sector" json:"sector"`
	TotalInvested decimal.Decimal `db:"total_invested" json:"total_invested"`
	CurrentReturn decimal.Decimal `db:"current_return" json:"current_return"`
	TotalReturn   decimal.Decimal `db:"total_return" json:"total_return"`
	Profit        decimal.Decimal `db:"profit" json:"profit"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Catalog rows maintained by admins. Pure reference data.
type Bank struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type State struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type City struct {
	ID    int    `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	State string `db:"state" json:"state"`
}

type PropertyType struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// DateRange is an optional creation-date filter. Bounds are inclusive of the
// whole calendar day at both ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether no filter was supplied.
func (r DateRange) IsZero() bool { return r.Start.IsZero() && r.End.IsZero() }

// Bounds returns the half-open [from, to) instant window covering the range:
// start-of-day of Start through start-of-day of the day after End. A holding
// created at 23:59:59.999 on the end date is inside; one created at 00:00:00
// the next day is not.
func (r DateRange) Bounds() (time.Time, time.Time) {
	from := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, r.Start.Location())
	to := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, r.End.Location()).AddDate(0, 0, 1)
	return from, to
}

// Contains reports whether t falls inside the range. A zero range contains
// everything.
func (r DateRange) Contains(t time.Time) bool {
	if r.IsZero() {
		return true
	}
	from, to := r.Bounds()
	return !t.Before(from) && t.Before(to)
}
