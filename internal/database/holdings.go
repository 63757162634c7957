package database

import (
	"context"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// Holding queries. Snapshot columns (current value / returns / profit) are
// written only through the snapshot-update methods and at creation, never by
// plain field edits.

func (r *Repo) CreateFixedDeposit(ctx context.Context, fd models.FixedDeposit) error {
	q := `INSERT INTO fixed_deposits
	        (id, user_id, bank_name, invested_amount, interest_rate, start_date, maturity_date,
	         current_return_amount, total_returned_amount, profit, created_at)
	      VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8::numeric, $9::numeric, $10::numeric, now())`
	_, err := r.db.ExecContext(ctx, q, fd.ID, fd.UserID, fd.BankName,
		fd.InvestedAmount.String(), fd.InterestRate.String(), fd.StartDate, fd.MaturityDate,
		fd.CurrentReturnAmount.String(), fd.TotalReturnedAmount.String(), fd.Profit.String())
	return translate(err)
}

func (r *Repo) GetFixedDeposit(ctx context.Context, id, userID string) (models.FixedDeposit, error) {
	var fd models.FixedDeposit
	q := `SELECT id, user_id, bank_name, invested_amount, interest_rate, start_date, maturity_date,
	             current_return_amount, total_returned_amount, profit, created_at
	      FROM fixed_deposits WHERE id = $1 AND user_id = $2`
	err := r.db.GetContext(ctx, &fd, q, id, userID)
	return fd, translate(err)
}

func (r *Repo) ListFixedDeposits(ctx context.Context, userID string, rng models.DateRange) ([]models.FixedDeposit, error) {
	q := `SELECT id, user_id, bank_name, invested_amount, interest_rate, start_date, maturity_date,
	             current_return_amount, total_returned_amount, profit, created_at
	      FROM fixed_deposits WHERE user_id = $1`
	clause, args := dateFilterArgs(rng, []interface{}{userID})
	rows, err := r.db.QueryxContext(ctx, q+clause+` ORDER BY created_at ASC`, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	res := []models.FixedDeposit{}
	for rows.Next() {
		var fd models.FixedDeposit
		if err := rows.StructScan(&fd); err != nil {
			r.log.Warnf("scan fixed deposit failed: %v", err)
			continue
		}
		res = append(res, fd)
	}
	return res, nil
}

// ListAllFixedDeposits returns every deposit across users, for batch refresh.
func (r *Repo) ListAllFixedDeposits(ctx context.Context) ([]models.FixedDeposit, error) {
	q := `SELECT id, user_id, bank_name, invested_amount, interest_rate, start_date, maturity_date,
	             current_return_amount, total_returned_amount, profit, created_at
	      FROM fixed_deposits ORDER BY created_at ASC`
	rows, err := r.db.QueryxContext(ctx, q)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	res := []models.FixedDeposit{}
	for rows.Next() {
		var fd models.FixedDeposit
		if err := rows.StructScan(&fd); err != nil {
			r.log.Warnf("scan fixed deposit failed: %v", err)
			continue
		}
		res = append(res, fd)
	}
	return res, nil
}

func (r *Repo) UpdateFixedDeposit(ctx context.Context, fd models.FixedDeposit) error {
	q := `UPDATE fixed_deposits SET bank_name = $3, invested_amount = $4::numeric, interest_rate = $5::numeric,
	        start_date = $6, maturity_date = $7,
	        current_return_amount = $8::numeric, total_returned_amount = $9::numeric, profit = $10::numeric
	      WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, fd.ID, fd.UserID, fd.BankName,
		fd.InvestedAmount.String(), fd.InterestRate.String(), fd.StartDate, fd.MaturityDate,
		fd.CurrentReturnAmount.String(), fd.TotalReturnedAmount.String(), fd.Profit.String())
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) UpdateFixedDepositSnapshot(ctx context.Context, id string, current, total, profit decimal.Decimal) error {
	q := `UPDATE fixed_deposits SET current_return_amount = $2::numeric, total_returned_amount = $3::numeric, profit = $4::numeric WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, current.String(), total.String(), profit.String())
	return translate(err)
}

func (r *Repo) DeleteFixedDeposit(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fixed_deposits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) CreateGoldLot(ctx context.Context, g models.GoldLot) error {
	q := `INSERT INTO gold_lots
	        (id, user_id, weight_grams, purity, form, purchase_price, current_value, profit, created_at)
	      VALUES ($1, $2, $3::numeric, $4, $5, $6::numeric, $7::numeric, $8::numeric, now())`
	_, err := r.db.ExecContext(ctx, q, g.ID, g.UserID, g.WeightGrams.String(), g.Purity, g.Form,
		g.PurchasePrice.String(), g.CurrentValue.String(), g.Profit.String())
	return translate(err)
}

func (r *Repo) GetGoldLot(ctx context.Context, id, userID string) (models.GoldLot, error) {
	var g models.GoldLot
	q := `SELECT id, user_id, weight_grams, purity, form, purchase_price, current_value, profit, created_at
	      FROM gold_lots WHERE id = $1 AND user_id = $2`
	err := r.db.GetContext(ctx, &g, q, id, userID)
	return g, translate(err)
}

func (r *Repo) ListGoldLots(ctx context.Context, userID string, rng models.DateRange) ([]models.GoldLot, error) {
	q := `SELECT id, user_id, weight_grams, purity, form, purchase_price, current_value, profit, created_at
	      FROM gold_lots WHERE user_id = $1`
	clause, args := dateFilterArgs(rng, []interface{}{userID})
	rows, err := r.db.QueryxContext(ctx, q+clause+` ORDER BY created_at ASC`, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	res := []models.GoldLot{}
	for rows.Next() {
		var g models.GoldLot
		if err := rows.StructScan(&g); err != nil {
			r.log.Warnf("scan gold lot failed: %v", err)
			continue
		}
		res = append(res, g)
	}
	return res, nil
}

func (r *Repo) ListAllGoldLots(ctx context.Context) ([]models.GoldLot, error) {
	q := `SELECT id, user_id, weight_grams, purity, form, purchase_price, current_value, profit, created_at
	      FROM gold_lots ORDER BY created_at ASC`
	rows, err := r.db.QueryxContext(ctx, q)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	res := []models.GoldLot{}
	for rows.Next() {
		var g models.GoldLot
		if err := rows.StructScan(&g); err != nil {
			r.log.Warnf("scan gold lot failed: %v", err)
			continue
		}
		res = append(res, g)
	}
	return res, nil
}

func (r *Repo) UpdateGoldLot(ctx context.Context, g models.GoldLot) error {
	q := `UPDATE gold_lots SET weight_grams = $3::numeric, purity = $4, form = $5, purchase_price = $6::numeric,
	        current_value = $7::numeric, profit = $8::numeric
	      WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, g.ID, g.UserID, g.WeightGrams.String(), g.Purity, g.Form,
		g.PurchasePrice.String(), g.CurrentValue.String(), g.Profit.String())
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) UpdateGoldLotSnapshot(ctx context.Context, id string, current, profit decimal.Decimal) error {
	q := `UPDATE gold_lots SET current_value = $2::numeric, profit = $3::numeric WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, current.String(), profit.String())
	return translate(err)
}

func (r *Repo) DeleteGoldLot(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gold_lots WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) CreateRealEstateParcel(ctx context.Context, p models.RealEstateParcel) error {
	q := `INSERT INTO real_estate_parcels
	        (id, user_id, area_name, city, state, area_sqft, purchase_price, current_value, profit, created_at)
	      VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, $8::numeric, $9::numeric, now())`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.UserID, p.AreaName, p.City, p.State,
		p.AreaSqft.String(), p.PurchasePrice.String(), p.CurrentValue.String(), p.Profit.String())
	return translate(err)
}

func (r *Repo) GetRealEstateParcel(ctx context.Context, id, userID string) (models.RealEstateParcel, error) {
	var p models.RealEstateParcel
	q := `SELECT id, user_id, area_name, city, state, area_sqft, purchase_price, current_value, profit, created_at
	      FROM real_estate_parcels WHERE id = $1 AND user_id = $2`
	err := r.db.GetContext(ctx, &p, q, id, userID)
	return p, translate(err)
}

func (r *Repo) ListRealEstateParcels(ctx context.Context, userID string, rng models.DateRange) ([]models.RealEstateParcel, error) {
	q := `SELECT id, user_id, area_name, city, state, area_sqft, purchase_price, current_value, profit, created_at
	      FROM real_estate_parcels WHERE user_id = $1`
	clause, args := dateFilterArgs(rng, []interface{}{userID})
	rows, err := r.db.QueryxContext(ctx, q+clause+` ORDER BY created_at ASC`, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	res := []models.RealEstateParcel{}
	for rows.Next() {
		var p models.RealEstateParcel
		if err := rows.StructScan(&p); err != nil {
			r.log.Warnf("scan parcel failed: %v", err)
			continue
		}
		res = append(res, p)
	}
	return res, nil
}

func (r *Repo) ListAllRealEstateParcels(ctx context.Context) ([]models.RealEstateParcel, error) {
	q := `SELECT id, user_id, area_name, city, state, area_sqft, purchase_price, current_value, profit, created_at
	      FROM real_estate_parcels ORDER BY created_at ASC`
	rows, err := r.db.QueryxContext(ctx, q)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	res := []models.RealEstateParcel{}
	for rows.Next() {
		var p models.RealEstateParcel
		if err := rows.StructScan(&p); err != nil {
			r.log.Warnf("scan parcel failed: %v", err)
			continue
		}
		res = append(res, p)
	}
	return res, nil
}

func (r *Repo) UpdateRealEstateParcel(ctx context.Context, p models.RealEstateParcel) error {
	q := `UPDATE real_estate_parcels SET area_name = $3, city = $4, state = $5, area_sqft = $6::numeric,
	        purchase_price = $7::numeric, current_value = $8::numeric, profit = $9::numeric
	      WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.UserID, p.AreaName, p.City, p.State,
		p.AreaSqft.String(), p.PurchasePrice.String(), p.CurrentValue.String(), p.Profit.String())
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) UpdateRealEstateParcelSnapshot(ctx context.Context, id string, current, profit decimal.Decimal) error {
	q := `UPDATE real_estate_parcels SET current_value = $2::numeric, profit = $3::numeric WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, current.String(), profit.String())
	return translate(err)
}

func (r *Repo) DeleteRealEstateParcel(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM real_estate_parcels WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
