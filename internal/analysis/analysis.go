package analysis

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fintrack/internal/models"
)

const (
	// TopPerSector is how many candidates each sector contributes to the
	// merged top-gainers ranking.
	TopPerSector = 5
	// TopOverall caps the merged ranking.
	TopOverall = 10
)

// Store is the slice of persistence the analyzer needs.
type Store interface {
	ListFixedDeposits(ctx context.Context, userID string, rng models.DateRange) ([]models.FixedDeposit, error)
	ListGoldLots(ctx context.Context, userID string, rng models.DateRange) ([]models.GoldLot, error)
	ListRealEstateParcels(ctx context.Context, userID string, rng models.DateRange) ([]models.RealEstateParcel, error)
	UpsertAnalysisSnapshot(ctx context.Context, s models.AnalysisSnapshot) error
}

// Totals is the rollup contract shared by the overall and per-sector views.
type Totals struct {
	TotalInvested decimal.Decimal `json:"total_invested"`
	CurrentReturn decimal.Decimal `json:"current_return"`
	TotalReturn   decimal.Decimal `json:"total_return"`
	Profit        decimal.Decimal `json:"profit"`
}

func (t Totals) add(o Totals) Totals {
	return Totals{
		TotalInvested: t.TotalInvested.Add(o.TotalInvested),
		CurrentReturn: t.CurrentReturn.Add(o.CurrentReturn),
		TotalReturn:   t.TotalReturn.Add(o.TotalReturn),
		Profit:        t.Profit.Add(o.Profit),
	}
}

// SectorSlice is one wedge of the pie breakdown.
type SectorSlice struct {
	Sector string `json:"sector"`
	Totals
}

// Investment is the display row used by top gainers, highest growth and
// investments-by-sector. It is the superset of every sector's fields so the
// response shape stays constant; fields that do not apply to a sector stay
// at their zero values. Dates are formatted 2006-01-02 and empty when n/a.
type Investment struct {
	SrNo           int             `json:"srNo"`
	Rank           int             `json:"rank"`
	ID             string          `json:"id"`
	Sector         string          `json:"sector"`
	Label          string          `json:"label"`
	InvestedAmount decimal.Decimal `json:"invested_amount"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	TotalValue     decimal.Decimal `json:"total_value"`
	Profit         decimal.Decimal `json:"profit"`
	BankName       string          `json:"bank_name"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	StartDate      string          `json:"start_date"`
	MaturityDate   string          `json:"maturity_date"`
	WeightGrams    decimal.Decimal `json:"weight_grams"`
	Purity         int             `json:"purity"`
	Form           string          `json:"form"`
	AreaName       string          `json:"area_name"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	AreaSqft       decimal.Decimal `json:"area_sqft"`
}

const dateLayout = "2006-01-02"

func fromDeposit(fd models.FixedDeposit) Investment {
	return Investment{
		ID:             fd.ID,
		Sector:         string(models.SectorBanking),
		Label:          fd.BankName,
		InvestedAmount: fd.InvestedAmount,
		CurrentValue:   fd.CurrentReturnAmount,
		TotalValue:     fd.TotalReturnedAmount,
		Profit:         fd.Profit,
		BankName:       fd.BankName,
		InterestRate:   fd.InterestRate,
		StartDate:      fd.StartDate.Format(dateLayout),
		MaturityDate:   fd.MaturityDate.Format(dateLayout),
	}
}

func fromGoldLot(g models.GoldLot) Investment {
	return Investment{
		ID:             g.ID,
		Sector:         string(models.SectorGold),
		Label:          g.Form,
		InvestedAmount: g.PurchasePrice,
		CurrentValue:   g.CurrentValue,
		TotalValue:     g.CurrentValue,
		Profit:         g.Profit,
		WeightGrams:    g.WeightGrams,
		Purity:         g.Purity,
		Form:           g.Form,
	}
}

func fromParcel(p models.RealEstateParcel) Investment {
	return Investment{
		ID:             p.ID,
		Sector:         string(models.SectorRealEstate),
		Label:          p.AreaName,
		InvestedAmount: p.PurchasePrice,
		CurrentValue:   p.CurrentValue,
		TotalValue:     p.CurrentValue,
		Profit:         p.Profit,
		AreaName:       p.AreaName,
		City:           p.City,
		State:          p.State,
		AreaSqft:       p.AreaSqft,
	}
}

// SumDeposits rolls fixed deposits into sector totals.
func SumDeposits(deposits []models.FixedDeposit) Totals {
	t := zeroTotals()
	for _, fd := range deposits {
		t.TotalInvested = t.TotalInvested.Add(fd.InvestedAmount)
		t.CurrentReturn = t.CurrentReturn.Add(fd.CurrentReturnAmount)
		t.TotalReturn = t.TotalReturn.Add(fd.TotalReturnedAmount)
		t.Profit = t.Profit.Add(fd.Profit)
	}
	return t
}

// SumGoldLots rolls gold lots into sector totals. Gold has no maturity, so
// total return equals current value.
func SumGoldLots(lots []models.GoldLot) Totals {
	t := zeroTotals()
	for _, g := range lots {
		t.TotalInvested = t.TotalInvested.Add(g.PurchasePrice)
		t.CurrentReturn = t.CurrentReturn.Add(g.CurrentValue)
		t.TotalReturn = t.TotalReturn.Add(g.CurrentValue)
		t.Profit = t.Profit.Add(g.Profit)
	}
	return t
}

// SumParcels rolls real-estate parcels into sector totals.
func SumParcels(parcels []models.RealEstateParcel) Totals {
	t := zeroTotals()
	for _, p := range parcels {
		t.TotalInvested = t.TotalInvested.Add(p.PurchasePrice)
		t.CurrentReturn = t.CurrentReturn.Add(p.CurrentValue)
		t.TotalReturn = t.TotalReturn.Add(p.CurrentValue)
		t.Profit = t.Profit.Add(p.Profit)
	}
	return t
}

func zeroTotals() Totals {
	return Totals{
		TotalInvested: decimal.Zero,
		CurrentReturn: decimal.Zero,
		TotalReturn:   decimal.Zero,
		Profit:        decimal.Zero,
	}
}

// topByProfit sorts a sector's rows by profit descending and keeps the first
// k. The sort is stable, so equal profits keep their query order.
func topByProfit(rows []Investment, k int) []Investment {
	out := make([]Investment, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Profit.GreaterThan(out[j].Profit)
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// MergeTopGainers takes each sector's top candidates, merges them in sector
// order, re-sorts by profit descending (stable) and truncates to the overall
// cap, assigning 1-based ranks.
func MergeTopGainers(perSector [][]Investment, overall int) []Investment {
	merged := []Investment{}
	for _, rows := range perSector {
		merged = append(merged, rows...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Profit.GreaterThan(merged[j].Profit)
	})
	if len(merged) > overall {
		merged = merged[:overall]
	}
	for i := range merged {
		merged[i].Rank = i + 1
		merged[i].SrNo = i + 1
	}
	return merged
}

// Analyzer produces summary views over a user's holdings and upserts the
// derived AnalysisSnapshot as a read optimization after each computation.
type Analyzer struct {
	store Store
	log   *logrus.Logger
}

func NewAnalyzer(store Store, log *logrus.Logger) *Analyzer {
	return &Analyzer{store: store, log: log}
}

// fetchAll loads a user's holdings across every sector. A sector with no
// records contributes an empty slice, never an error.
func (a *Analyzer) fetchAll(ctx context.Context, userID string, rng models.DateRange) ([]models.FixedDeposit, []models.GoldLot, []models.RealEstateParcel, error) {
	deposits, err := a.store.ListFixedDeposits(ctx, userID, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	lots, err := a.store.ListGoldLots(ctx, userID, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	parcels, err := a.store.ListRealEstateParcels(ctx, userID, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	return deposits, lots, parcels, nil
}

// snapshot persists a derived rollup. Failures are logged and swallowed; the
// snapshot is a cache, not part of the response.
func (a *Analyzer) snapshot(ctx context.Context, userID, sector string, t Totals) {
	err := a.store.UpsertAnalysisSnapshot(ctx, models.AnalysisSnapshot{
		UserID:        userID,
		Sector:        sector,
		TotalInvested: t.TotalInvested,
		CurrentReturn: t.CurrentReturn,
		TotalReturn:   t.TotalReturn,
		Profit:        t.Profit,
	})
	if err != nil {
		a.log.Warnf("upsert analysis snapshot for user %s sector %q failed: %v", userID, sector, err)
	}
}

// Overall sums every sector's holdings for one user, optionally restricted to
// a creation-date range inclusive of both full days.
func (a *Analyzer) Overall(ctx context.Context, userID string, rng models.DateRange) (Totals, error) {
	deposits, lots, parcels, err := a.fetchAll(ctx, userID, rng)
	if err != nil {
		return Totals{}, err
	}
	total := SumDeposits(deposits).add(SumGoldLots(lots)).add(SumParcels(parcels))
	if rng.IsZero() {
		a.snapshot(ctx, userID, "", total)
	}
	return total, nil
}

// SectorBreakdown returns parallel per-sector totals for the pie chart.
func (a *Analyzer) SectorBreakdown(ctx context.Context, userID string) ([]SectorSlice, error) {
	deposits, lots, parcels, err := a.fetchAll(ctx, userID, models.DateRange{})
	if err != nil {
		return nil, err
	}
	slices := []SectorSlice{
		{Sector: string(models.SectorBanking), Totals: SumDeposits(deposits)},
		{Sector: string(models.SectorGold), Totals: SumGoldLots(lots)},
		{Sector: string(models.SectorRealEstate), Totals: SumParcels(parcels)},
	}
	for _, s := range slices {
		a.snapshot(ctx, userID, s.Sector, s.Totals)
	}
	return slices, nil
}

// TopGainers ranks a user's holdings by profit: top candidates per sector,
// merged and truncated to the overall cap.
func (a *Analyzer) TopGainers(ctx context.Context, userID string) ([]Investment, error) {
	deposits, lots, parcels, err := a.fetchAll(ctx, userID, models.DateRange{})
	if err != nil {
		return nil, err
	}
	perSector := [][]Investment{
		topByProfit(investmentsFromDeposits(deposits), TopPerSector),
		topByProfit(investmentsFromGoldLots(lots), TopPerSector),
		topByProfit(investmentsFromParcels(parcels), TopPerSector),
	}
	return MergeTopGainers(perSector, TopOverall), nil
}

// HighestGrowth returns the sector holding with the largest current value.
// An empty sector yields a zero-filled placeholder carrying only the sector
// label, keeping the response shape constant for consumers.
func (a *Analyzer) HighestGrowth(ctx context.Context, userID string, sector models.Sector) (Investment, error) {
	rows, err := a.sectorInvestments(ctx, userID, sector)
	if err != nil {
		return Investment{}, err
	}
	if len(rows) == 0 {
		return Investment{Sector: string(sector)}, nil
	}
	best := rows[0]
	for _, row := range rows[1:] {
		if row.CurrentValue.GreaterThan(best.CurrentValue) {
			best = row
		}
	}
	return best, nil
}

// InvestmentsBySector lists one sector's holdings annotated with a 1-based
// sequence number.
func (a *Analyzer) InvestmentsBySector(ctx context.Context, userID string, sector models.Sector) ([]Investment, error) {
	rows, err := a.sectorInvestments(ctx, userID, sector)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].SrNo = i + 1
	}
	return rows, nil
}

func (a *Analyzer) sectorInvestments(ctx context.Context, userID string, sector models.Sector) ([]Investment, error) {
	switch sector {
	case models.SectorBanking:
		deposits, err := a.store.ListFixedDeposits(ctx, userID, models.DateRange{})
		if err != nil {
			return nil, err
		}
		return investmentsFromDeposits(deposits), nil
	case models.SectorGold:
		lots, err := a.store.ListGoldLots(ctx, userID, models.DateRange{})
		if err != nil {
			return nil, err
		}
		return investmentsFromGoldLots(lots), nil
	case models.SectorRealEstate:
		parcels, err := a.store.ListRealEstateParcels(ctx, userID, models.DateRange{})
		if err != nil {
			return nil, err
		}
		return investmentsFromParcels(parcels), nil
	}
	return nil, models.ErrUnknownSector
}

func investmentsFromDeposits(deposits []models.FixedDeposit) []Investment {
	rows := make([]Investment, 0, len(deposits))
	for _, fd := range deposits {
		rows = append(rows, fromDeposit(fd))
	}
	return rows
}

func investmentsFromGoldLots(lots []models.GoldLot) []Investment {
	rows := make([]Investment, 0, len(lots))
	for _, g := range lots {
		rows = append(rows, fromGoldLot(g))
	}
	return rows
}

func investmentsFromParcels(parcels []models.RealEstateParcel) []Investment {
	rows := make([]Investment, 0, len(parcels))
	for _, p := range parcels {
		rows = append(rows, fromParcel(p))
	}
	return rows
}
