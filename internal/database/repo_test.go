package database

import (
	"context"
	"errors"
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fintrack/internal/models"
)

func setupDB(t *testing.T) *sqlx.DB {
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL is not set; skipping integration tests")
	}
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	files := []string{"../../migrations/0001_init.up.sql"}
	for _, f := range files {
		b, err := ioutil.ReadFile(f)
		if err != nil {
			t.Fatalf("read migration %s: %v", f, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			t.Logf("exec migration %s: %v", f, err)
		}
	}
	return db
}

func testRepo(t *testing.T) *Repo {
	return New(setupDB(t), logrus.New())
}

func TestGoldRateLastWriteWins(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	if err := r.UpsertGoldRate(ctx, decimal.NewFromInt(5500), decimal.NewFromInt(6000)); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := r.UpsertGoldRate(ctx, decimal.NewFromInt(5600), decimal.NewFromInt(6200)); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	rate, err := r.GetGoldRate(ctx)
	if err != nil {
		t.Fatalf("get gold rate failed: %v", err)
	}
	if !rate.Rate24K.Equal(decimal.NewFromInt(6200)) {
		t.Fatalf("expected last-written 24K rate 6200, got %s", rate.Rate24K)
	}
}

func TestAreaPriceExactMatchOnly(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()

	ap := models.AreaPrice{AreaName: "Kothrud", City: "Pune", State: "Maharashtra", PricePerSqft: decimal.NewFromInt(7000)}
	if err := r.UpsertAreaPrice(ctx, ap); err != nil {
		t.Fatalf("upsert area price failed: %v", err)
	}

	got, err := r.GetAreaPrice(ctx, "Kothrud", "Pune", "Maharashtra")
	if err != nil {
		t.Fatalf("get area price failed: %v", err)
	}
	if !got.PricePerSqft.Equal(decimal.NewFromInt(7000)) {
		t.Fatalf("expected 7000 per sqft, got %s", got.PricePerSqft)
	}

	// a near-miss triple must not resolve
	if _, err := r.GetAreaPrice(ctx, "Kothrud", "Mumbai", "Maharashtra"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong city, got %v", err)
	}
}

func TestFixedDepositCRUDAndDateFilter(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	userID := "repo-test-" + uuid.NewString()

	fd := models.FixedDeposit{
		ID:                  uuid.NewString(),
		UserID:              userID,
		BankName:            "SBI",
		InvestedAmount:      decimal.NewFromInt(100000),
		InterestRate:        decimal.NewFromFloat(7.5),
		StartDate:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MaturityDate:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		CurrentReturnAmount: decimal.NewFromInt(103000),
		TotalReturnedAmount: decimal.NewFromInt(115000),
		Profit:              decimal.NewFromInt(3000),
	}
	if err := r.CreateFixedDeposit(ctx, fd); err != nil {
		t.Fatalf("create deposit failed: %v", err)
	}

	deposits, err := r.ListFixedDeposits(ctx, userID, models.DateRange{})
	if err != nil {
		t.Fatalf("list deposits failed: %v", err)
	}
	if len(deposits) != 1 {
		t.Fatalf("expected 1 deposit, got %d", len(deposits))
	}
	if !deposits[0].Profit.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected profit 3000, got %s", deposits[0].Profit)
	}

	// created_at is now(); a window around today matches, a stale window does not
	today := time.Now().UTC()
	current := models.DateRange{Start: today.AddDate(0, 0, -1), End: today.AddDate(0, 0, 1)}
	deposits, err = r.ListFixedDeposits(ctx, userID, current)
	if err != nil {
		t.Fatalf("list with current range failed: %v", err)
	}
	if len(deposits) != 1 {
		t.Fatalf("expected deposit inside current range, got %d rows", len(deposits))
	}

	stale := models.DateRange{Start: today.AddDate(0, -2, 0), End: today.AddDate(0, -1, 0)}
	deposits, err = r.ListFixedDeposits(ctx, userID, stale)
	if err != nil {
		t.Fatalf("list with stale range failed: %v", err)
	}
	if len(deposits) != 0 {
		t.Fatalf("expected no deposits in stale range, got %d rows", len(deposits))
	}

	if err := r.DeleteFixedDeposit(ctx, fd.ID, userID); err != nil {
		t.Fatalf("delete deposit failed: %v", err)
	}
	if err := r.DeleteFixedDeposit(ctx, fd.ID, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDuplicateDepositConflicts(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	userID := "repo-test-" + uuid.NewString()

	fd := models.FixedDeposit{
		ID:             uuid.NewString(),
		UserID:         userID,
		BankName:       "ICICI",
		InvestedAmount: decimal.NewFromInt(50000),
		InterestRate:   decimal.NewFromInt(7),
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MaturityDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := r.CreateFixedDeposit(ctx, fd); err != nil {
		t.Fatalf("create deposit failed: %v", err)
	}
	fd.ID = uuid.NewString()
	if err := r.CreateFixedDeposit(ctx, fd); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for equivalent deposit, got %v", err)
	}

	_, _ = r.db.Exec(`DELETE FROM fixed_deposits WHERE user_id = $1`, userID)
}

func TestAnalysisSnapshotUpsertIdempotent(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	userID := "repo-test-" + uuid.NewString()

	snap := models.AnalysisSnapshot{
		UserID:        userID,
		Sector:        "gold",
		TotalInvested: decimal.NewFromInt(50000),
		CurrentReturn: decimal.NewFromInt(60000),
		TotalReturn:   decimal.NewFromInt(60000),
		Profit:        decimal.NewFromInt(10000),
	}
	if err := r.UpsertAnalysisSnapshot(ctx, snap); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := r.UpsertAnalysisSnapshot(ctx, snap); err != nil {
		t.Fatalf("replay upsert failed: %v", err)
	}

	got, err := r.GetAnalysisSnapshot(ctx, userID, "gold")
	if err != nil {
		t.Fatalf("get snapshot failed: %v", err)
	}
	if !got.Profit.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("expected profit 10000, got %s", got.Profit)
	}
}
