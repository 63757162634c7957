package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/valuation"
)

// Store is the persistence surface the refresh job needs: full-sector scans,
// reference-rate lookups and snapshot write-backs.
type Store interface {
	ListAllFixedDeposits(ctx context.Context) ([]models.FixedDeposit, error)
	ListAllGoldLots(ctx context.Context) ([]models.GoldLot, error)
	ListAllRealEstateParcels(ctx context.Context) ([]models.RealEstateParcel, error)
	GetGoldRate(ctx context.Context) (models.GoldRate, error)
	GetAreaPrice(ctx context.Context, area, city, state string) (models.AreaPrice, error)
	UpdateFixedDepositSnapshot(ctx context.Context, id string, current, total, profit decimal.Decimal) error
	UpdateGoldLotSnapshot(ctx context.Context, id string, current, profit decimal.Decimal) error
	UpdateRealEstateParcelSnapshot(ctx context.Context, id string, current, profit decimal.Decimal) error
}

// Report summarizes one sector pass. Skipped counts holdings whose reference
// lookup or write-back failed; the run never aborts on them.
type Report struct {
	Sector    models.Sector `json:"sector"`
	Refreshed int           `json:"refreshed"`
	Skipped   int           `json:"skipped"`
}

// RefreshService recomputes and persists valuation snapshots for whole
// sectors. Holdings are processed sequentially so partial-failure reporting
// stays deterministic.
type RefreshService struct {
	store  Store
	policy valuation.GoldPolicy
	log    *logrus.Logger
}

func NewRefreshService(store Store, policy valuation.GoldPolicy, log *logrus.Logger) *RefreshService {
	return &RefreshService{store: store, policy: policy, log: log}
}

// RefreshSector recomputes every holding of one sector at evaluation time
// now. Re-running with unchanged reference data reproduces identical
// snapshots.
func (s *RefreshService) RefreshSector(ctx context.Context, sector models.Sector, now time.Time) (Report, error) {
	switch sector {
	case models.SectorBanking:
		return s.refreshDeposits(ctx, now)
	case models.SectorGold:
		return s.refreshGold(ctx)
	case models.SectorRealEstate:
		return s.refreshRealEstate(ctx)
	}
	return Report{}, fmt.Errorf("%w %q", models.ErrUnknownSector, sector)
}

// RefreshAll runs every sector and returns the per-sector reports.
func (s *RefreshService) RefreshAll(ctx context.Context, now time.Time) ([]Report, error) {
	reports := make([]Report, 0, len(models.Sectors))
	for _, sector := range models.Sectors {
		rep, err := s.RefreshSector(ctx, sector, now)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func (s *RefreshService) refreshDeposits(ctx context.Context, now time.Time) (Report, error) {
	rep := Report{Sector: models.SectorBanking}
	deposits, err := s.store.ListAllFixedDeposits(ctx)
	if err != nil {
		return rep, err
	}
	for _, fd := range deposits {
		res := valuation.FixedDeposit(fd.InvestedAmount, fd.InterestRate, fd.StartDate, fd.MaturityDate, now)
		if err := s.store.UpdateFixedDepositSnapshot(ctx, fd.ID, res.CurrentValue, res.TotalValue, res.Profit); err != nil {
			s.log.Warnf("refresh deposit %s failed: %v", fd.ID, err)
			rep.Skipped++
			continue
		}
		rep.Refreshed++
	}
	return rep, nil
}

func (s *RefreshService) refreshGold(ctx context.Context) (Report, error) {
	rep := Report{Sector: models.SectorGold}
	rate, err := s.store.GetGoldRate(ctx)
	if err != nil {
		return rep, fmt.Errorf("gold rate lookup: %w", err)
	}
	lots, err := s.store.ListAllGoldLots(ctx)
	if err != nil {
		return rep, err
	}
	for _, g := range lots {
		perGram, err := rate.PerGram(g.Purity)
		if err != nil {
			s.log.Warnf("skip gold lot %s: %v", g.ID, err)
			rep.Skipped++
			continue
		}
		res := valuation.Gold(s.policy, g.WeightGrams, perGram, g.PurchasePrice)
		if err := s.store.UpdateGoldLotSnapshot(ctx, g.ID, res.CurrentValue, res.Profit); err != nil {
			s.log.Warnf("refresh gold lot %s failed: %v", g.ID, err)
			rep.Skipped++
			continue
		}
		rep.Refreshed++
	}
	return rep, nil
}

func (s *RefreshService) refreshRealEstate(ctx context.Context) (Report, error) {
	rep := Report{Sector: models.SectorRealEstate}
	parcels, err := s.store.ListAllRealEstateParcels(ctx)
	if err != nil {
		return rep, err
	}
	for _, p := range parcels {
		ap, err := s.store.GetAreaPrice(ctx, p.AreaName, p.City, p.State)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				s.log.Warnf("skip parcel %s: no area price for %s/%s/%s", p.ID, p.AreaName, p.City, p.State)
			} else {
				s.log.Warnf("skip parcel %s: area price lookup failed: %v", p.ID, err)
			}
			rep.Skipped++
			continue
		}
		res := valuation.RealEstate(p.AreaSqft, ap.PricePerSqft, p.PurchasePrice)
		if err := s.store.UpdateRealEstateParcelSnapshot(ctx, p.ID, res.CurrentValue, res.Profit); err != nil {
			s.log.Warnf("refresh parcel %s failed: %v", p.ID, err)
			rep.Skipped++
			continue
		}
		rep.Refreshed++
	}
	return rep, nil
}

// Start runs the refresh loop in the background until ctx is cancelled.
// Scheduling is a deployment decision; this ticker covers the simple
// always-on case, and admin rate updates trigger refreshes on demand.
func (s *RefreshService) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info("snapshot refresher stopping")
				return
			case <-ticker.C:
				reports, err := s.RefreshAll(ctx, time.Now().UTC())
				if err != nil {
					s.log.Warnf("scheduled refresh failed: %v", err)
					continue
				}
				for _, rep := range reports {
					s.log.Debugf("refreshed %s: %d ok, %d skipped", rep.Sector, rep.Refreshed, rep.Skipped)
				}
			}
		}
	}()
}
