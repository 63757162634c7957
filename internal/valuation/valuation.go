package valuation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Result is the common valuation contract shared by every sector.
// CurrentValue is the holding's present worth (for deposits, the accrued
// value to date). TotalValue is the value at maturity; for gold and real
// estate, which have no maturity, it equals CurrentValue. All three fields
// are rounded to whole currency units.
type Result struct {
	CurrentValue decimal.Decimal
	TotalValue   decimal.Decimal
	Profit       decimal.Decimal
}

const daysPerYear = 365.0

// yearsBetween converts a duration to fractional years on a uniform 365-day
// year (no leap adjustment), rounded to 2 decimal places so repeated
// evaluations within the same day agree.
func yearsBetween(from, to time.Time) float64 {
	days := to.Sub(from).Hours() / 24.0
	return math.Round(days/daysPerYear*100) / 100
}

// compound grows principal at ratePct percent per year over the given
// fractional years and rounds to whole currency units.
func compound(principal, ratePct decimal.Decimal, years float64) decimal.Decimal {
	p, _ := principal.Float64()
	r, _ := ratePct.Float64()
	v := p * math.Pow(1+r/100, years)
	return decimal.NewFromFloat(v).Round(0)
}

// FixedDeposit values a deposit of the given principal and fixed annual rate
// at evaluation time now. Before maturity the current value accrues over the
// elapsed years; at or past maturity it equals the maturity value. TotalValue
// always uses the full tenure. Profit is current value minus principal —
// the ranking proxy, not the realized-at-maturity gain.
//
// A maturity before the start date is not special-cased: the negative tenure
// compounds to a value below principal, which downstream treats as a
// data-quality problem rather than an engine fault.
func FixedDeposit(principal, ratePct decimal.Decimal, start, maturity, now time.Time) Result {
	tenure := yearsBetween(start, maturity)
	elapsed := tenure
	if now.Before(maturity) {
		elapsed = yearsBetween(start, now)
	}
	current := compound(principal, ratePct, elapsed)
	total := compound(principal, ratePct, tenure)
	return Result{
		CurrentValue: current,
		TotalValue:   total,
		Profit:       current.Sub(principal).Round(0),
	}
}

// GoldPolicy prices a gold lot from its weight and the per-gram reference
// rate. A deployment selects exactly one policy and applies it everywhere;
// mixing policies across call paths would make refreshes non-idempotent.
type GoldPolicy interface {
	Value(weightGrams, ratePerGram decimal.Decimal) decimal.Decimal
	Name() string
}

// SpotPolicy prices raw metal: weight times the reference rate.
type SpotPolicy struct{}

func (SpotPolicy) Value(weightGrams, ratePerGram decimal.Decimal) decimal.Decimal {
	return ratePerGram.Mul(weightGrams).Round(0)
}

func (SpotPolicy) Name() string { return "spot" }

// RetailPolicy adds making charges (percent of the spot value) and then GST
// on the total, matching jeweller pricing.
type RetailPolicy struct {
	MakingPct decimal.Decimal
	GSTPct    decimal.Decimal
}

func (p RetailPolicy) Value(weightGrams, ratePerGram decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	base := ratePerGram.Mul(weightGrams)
	withMaking := base.Mul(hundred.Add(p.MakingPct)).Div(hundred)
	return withMaking.Mul(hundred.Add(p.GSTPct)).Div(hundred).Round(0)
}

func (p RetailPolicy) Name() string { return "retail" }

// ParseGoldPolicy builds the policy named by a config value. makingPct and
// gstPct only apply to the retail policy.
func ParseGoldPolicy(name string, makingPct, gstPct decimal.Decimal) (GoldPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "spot":
		return SpotPolicy{}, nil
	case "retail":
		return RetailPolicy{MakingPct: makingPct, GSTPct: gstPct}, nil
	}
	return nil, fmt.Errorf("unknown gold pricing policy %q", name)
}

// Gold values a lot under the given policy. No time decay: the result depends
// only on the weight and the latest reference rate, so re-valuing with an
// unchanged rate is idempotent.
func Gold(policy GoldPolicy, weightGrams, ratePerGram, purchasePrice decimal.Decimal) Result {
	current := policy.Value(weightGrams, ratePerGram)
	return Result{
		CurrentValue: current,
		TotalValue:   current,
		Profit:       current.Sub(purchasePrice).Round(0),
	}
}

// RealEstate values a parcel from its size and the area's price per square
// foot. The caller resolves the AreaPrice first; a missing reference must
// surface as an error upstream, never as a zero valuation here.
func RealEstate(areaSqft, pricePerSqft, purchasePrice decimal.Decimal) Result {
	current := pricePerSqft.Mul(areaSqft).Round(0)
	return Result{
		CurrentValue: current,
		TotalValue:   current,
		Profit:       current.Sub(purchasePrice).Round(0),
	}
}
