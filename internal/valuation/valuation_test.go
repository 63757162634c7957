package valuation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestFixedDeposit_FullTenureCompound(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	maturity := start.AddDate(0, 0, 730) // 2.00 years on a 365-day basis
	now := maturity.AddDate(0, 0, 30)

	res := FixedDeposit(d("100000"), d("10"), start, maturity, now)
	if !res.CurrentValue.Equal(d("121000")) {
		t.Fatalf("expected current 121000, got %s", res.CurrentValue)
	}
	if !res.TotalValue.Equal(d("121000")) {
		t.Fatalf("expected total 121000, got %s", res.TotalValue)
	}
	if !res.Profit.Equal(d("21000")) {
		t.Fatalf("expected profit 21000, got %s", res.Profit)
	}
}

func TestFixedDeposit_ElapsedBeforeMaturity(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	maturity := start.AddDate(0, 0, 730)
	now := start.AddDate(0, 0, 365) // exactly one year in

	res := FixedDeposit(d("100000"), d("10"), start, maturity, now)
	if !res.CurrentValue.Equal(d("110000")) {
		t.Fatalf("expected current 110000, got %s", res.CurrentValue)
	}
	// maturity value is always computed over the full tenure
	if !res.TotalValue.Equal(d("121000")) {
		t.Fatalf("expected total 121000, got %s", res.TotalValue)
	}
	if !res.Profit.Equal(d("10000")) {
		t.Fatalf("expected profit 10000, got %s", res.Profit)
	}
}

func TestFixedDeposit_MaturityCeiling(t *testing.T) {
	start := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	maturity := start.AddDate(3, 0, 0)

	atMaturity := FixedDeposit(d("50000"), d("7.5"), start, maturity, maturity)
	longAfter := FixedDeposit(d("50000"), d("7.5"), start, maturity, maturity.AddDate(5, 0, 0))

	if !atMaturity.CurrentValue.Equal(atMaturity.TotalValue) {
		t.Fatalf("at maturity current %s != total %s", atMaturity.CurrentValue, atMaturity.TotalValue)
	}
	if !longAfter.CurrentValue.Equal(atMaturity.CurrentValue) {
		t.Fatalf("accrual past maturity: %s vs %s", longAfter.CurrentValue, atMaturity.CurrentValue)
	}
}

func TestFixedDeposit_MonotonicBeforeMaturity(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	maturity := start.AddDate(10, 0, 0)

	prev := decimal.Zero
	for days := 30; days <= 3000; days += 90 {
		res := FixedDeposit(d("200000"), d("8"), start, maturity, start.AddDate(0, 0, days))
		if res.CurrentValue.LessThan(prev) {
			t.Fatalf("current value decreased at day %d: %s < %s", days, res.CurrentValue, prev)
		}
		prev = res.CurrentValue
	}
}

func TestFixedDeposit_InvalidTenureNotSpecialCased(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	maturity := start.AddDate(-1, 0, 0) // data-quality problem, not an engine fault

	res := FixedDeposit(d("100000"), d("10"), start, maturity, start.AddDate(1, 0, 0))
	if !res.CurrentValue.LessThan(d("100000")) {
		t.Fatalf("negative tenure should compound below principal, got %s", res.CurrentValue)
	}
}

func TestGold_SpotScenario(t *testing.T) {
	res := Gold(SpotPolicy{}, d("10"), d("6000"), d("50000"))
	if !res.CurrentValue.Equal(d("60000")) {
		t.Fatalf("expected 60000, got %s", res.CurrentValue)
	}
	if !res.Profit.Equal(d("10000")) {
		t.Fatalf("expected profit 10000, got %s", res.Profit)
	}

	// reference rate moves; purchase price does not
	res = Gold(SpotPolicy{}, d("10"), d("6200"), d("50000"))
	if !res.CurrentValue.Equal(d("62000")) {
		t.Fatalf("expected 62000 after rate update, got %s", res.CurrentValue)
	}
	if !res.Profit.Equal(d("12000")) {
		t.Fatalf("expected profit 12000 after rate update, got %s", res.Profit)
	}
}

func TestGold_RetailPolicy(t *testing.T) {
	policy := RetailPolicy{MakingPct: d("10"), GSTPct: d("3")}
	res := Gold(policy, d("10"), d("6000"), d("50000"))
	// 60000 spot, +10% making = 66000, +3% GST = 67980
	if !res.CurrentValue.Equal(d("67980")) {
		t.Fatalf("expected 67980, got %s", res.CurrentValue)
	}
	if !res.Profit.Equal(d("17980")) {
		t.Fatalf("expected profit 17980, got %s", res.Profit)
	}
}

func TestGold_Idempotent(t *testing.T) {
	a := Gold(SpotPolicy{}, d("12.5"), d("5830"), d("60000"))
	b := Gold(SpotPolicy{}, d("12.5"), d("5830"), d("60000"))
	if !a.CurrentValue.Equal(b.CurrentValue) || !a.Profit.Equal(b.Profit) {
		t.Fatalf("same inputs produced different valuations: %+v vs %+v", a, b)
	}
}

func TestRealEstate(t *testing.T) {
	res := RealEstate(d("1200"), d("5500"), d("6000000"))
	if !res.CurrentValue.Equal(d("6600000")) {
		t.Fatalf("expected 6600000, got %s", res.CurrentValue)
	}
	if !res.Profit.Equal(d("600000")) {
		t.Fatalf("expected profit 600000, got %s", res.Profit)
	}
	if !res.Profit.Equal(res.CurrentValue.Sub(d("6000000"))) {
		t.Fatalf("profit identity violated")
	}
}

func TestParseGoldPolicy(t *testing.T) {
	p, err := ParseGoldPolicy("", decimal.Zero, decimal.Zero)
	if err != nil || p.Name() != "spot" {
		t.Fatalf("empty policy should default to spot, got %v %v", p, err)
	}
	p, err = ParseGoldPolicy("Retail", d("8"), d("3"))
	if err != nil || p.Name() != "retail" {
		t.Fatalf("expected retail policy, got %v %v", p, err)
	}
	if _, err := ParseGoldPolicy("bogus", decimal.Zero, decimal.Zero); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
