package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fintrack/internal/models"
)

type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

// GetGoldRate returns the single current gold rate record.
func (r *Repo) GetGoldRate(ctx context.Context) (models.GoldRate, error) {
	var gr models.GoldRate
	err := r.db.GetContext(ctx, &gr, `SELECT rate_22k, rate_24k, updated_at FROM gold_rates WHERE id = 1`)
	return gr, translate(err)
}

// UpsertGoldRate replaces the current gold rate wholesale. Last write wins;
// no version check.
func (r *Repo) UpsertGoldRate(ctx context.Context, rate22, rate24 decimal.Decimal) error {
	q := `INSERT INTO gold_rates (id, rate_22k, rate_24k, updated_at) VALUES (1, $1::numeric, $2::numeric, now())
	      ON CONFLICT (id) DO UPDATE SET rate_22k = $1::numeric, rate_24k = $2::numeric, updated_at = now()`
	_, err := r.db.ExecContext(ctx, q, rate22.String(), rate24.String())
	return translate(err)
}

// GetAreaPrice resolves the price per square foot for an exact
// (area, city, state) triple. No fallback or interpolation.
func (r *Repo) GetAreaPrice(ctx context.Context, area, city, state string) (models.AreaPrice, error) {
	var ap models.AreaPrice
	q := `SELECT area_name, city, state, price_per_sqft, updated_at FROM area_prices
	      WHERE area_name = $1 AND city = $2 AND state = $3`
	err := r.db.GetContext(ctx, &ap, q, area, city, state)
	return ap, translate(err)
}

func (r *Repo) UpsertAreaPrice(ctx context.Context, ap models.AreaPrice) error {
	q := `INSERT INTO area_prices (area_name, city, state, price_per_sqft, updated_at) VALUES ($1, $2, $3, $4::numeric, now())
	      ON CONFLICT (area_name, city, state) DO UPDATE SET price_per_sqft = $4::numeric, updated_at = now()`
	_, err := r.db.ExecContext(ctx, q, ap.AreaName, ap.City, ap.State, ap.PricePerSqft.String())
	return translate(err)
}

func (r *Repo) ListAreaPrices(ctx context.Context) ([]models.AreaPrice, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT area_name, city, state, price_per_sqft, updated_at FROM area_prices ORDER BY state, city, area_name`)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	res := []models.AreaPrice{}
	for rows.Next() {
		var ap models.AreaPrice
		if err := rows.StructScan(&ap); err != nil {
			r.log.Warnf("scan area price failed: %v", err)
			continue
		}
		res = append(res, ap)
	}
	return res, nil
}

func (r *Repo) DeleteAreaPrice(ctx context.Context, area, city, state string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM area_prices WHERE area_name = $1 AND city = $2 AND state = $3`, area, city, state)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertAnalysisSnapshot stores a derived rollup keyed by (user, sector).
// Idempotent: concurrent writers computing from the same holdings converge.
func (r *Repo) UpsertAnalysisSnapshot(ctx context.Context, s models.AnalysisSnapshot) error {
	q := `INSERT INTO analysis_snapshots (user_id, sector, total_invested, current_return, total_return, profit, updated_at)
	      VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6::numeric, now())
	      ON CONFLICT (user_id, sector) DO UPDATE SET
	        total_invested = $3::numeric, current_return = $4::numeric,
	        total_return = $5::numeric, profit = $6::numeric, updated_at = now()`
	_, err := r.db.ExecContext(ctx, q, s.UserID, s.Sector,
		s.TotalInvested.String(), s.CurrentReturn.String(), s.TotalReturn.String(), s.Profit.String())
	return translate(err)
}

func (r *Repo) GetAnalysisSnapshot(ctx context.Context, userID, sector string) (models.AnalysisSnapshot, error) {
	var s models.AnalysisSnapshot
	q := `SELECT user_id, sector, total_invested, current_return, total_return, profit, updated_at
	      FROM analysis_snapshots WHERE user_id = $1 AND sector = $2`
	err := r.db.GetContext(ctx, &s, q, userID, sector)
	return s, translate(err)
}

// Admin catalog tables. Uniqueness is enforced by the schema; duplicates
// surface as ErrConflict.

func (r *Repo) CreateBank(ctx context.Context, name string) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `INSERT INTO banks (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, translate(err)
}

func (r *Repo) ListBanks(ctx context.Context) ([]models.Bank, error) {
	res := []models.Bank{}
	err := r.db.SelectContext(ctx, &res, `SELECT id, name FROM banks ORDER BY name`)
	return res, translate(err)
}

func (r *Repo) DeleteBank(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banks WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) CreateState(ctx context.Context, name string) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `INSERT INTO states (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, translate(err)
}

func (r *Repo) ListStates(ctx context.Context) ([]models.State, error) {
	res := []models.State{}
	err := r.db.SelectContext(ctx, &res, `SELECT id, name FROM states ORDER BY name`)
	return res, translate(err)
}

func (r *Repo) CreateCity(ctx context.Context, name, state string) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `INSERT INTO cities (name, state) VALUES ($1, $2) RETURNING id`, name, state).Scan(&id)
	return id, translate(err)
}

func (r *Repo) ListCities(ctx context.Context, state string) ([]models.City, error) {
	res := []models.City{}
	if state != "" {
		err := r.db.SelectContext(ctx, &res, `SELECT id, name, state FROM cities WHERE state = $1 ORDER BY name`, state)
		return res, translate(err)
	}
	err := r.db.SelectContext(ctx, &res, `SELECT id, name, state FROM cities ORDER BY state, name`)
	return res, translate(err)
}

func (r *Repo) CreatePropertyType(ctx context.Context, name string) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `INSERT INTO property_types (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, translate(err)
}

func (r *Repo) ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
	res := []models.PropertyType{}
	err := r.db.SelectContext(ctx, &res, `SELECT id, name FROM property_types ORDER BY name`)
	return res, translate(err)
}

// dateFilterClause appends the creation-date window to a holdings query.
// Bounds come from DateRange.Bounds: inclusive full days at both ends.
func dateFilterArgs(rng models.DateRange, args []interface{}) (string, []interface{}) {
	if rng.IsZero() {
		return "", args
	}
	from, to := rng.Bounds()
	clause := " AND created_at >= $2 AND created_at < $3"
	return clause, append(args, from, to)
}
