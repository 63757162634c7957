// Command refresh recomputes valuation snapshots for one sector (or all)
// from the command line, for deployments that schedule refreshes externally
// instead of running the in-process ticker.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/service"
	"fintrack/internal/valuation"
)

func main() {
	sectorFlag := flag.String("sector", "all", "sector to refresh: banking, gold, realestate or all")
	policyFlag := flag.String("gold-policy", "", "gold pricing policy override (spot or retail)")
	flag.Parse()

	logger := logrus.New()
	_ = godotenv.Load()

	dsn := os.Getenv("POSTGRES_URL")
	if dsn == "" {
		logger.Fatal("POSTGRES_URL is required")
	}
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		logger.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	policyName := *policyFlag
	if policyName == "" {
		policyName = os.Getenv("GOLD_PRICING_POLICY")
	}
	policy, err := valuation.ParseGoldPolicy(policyName, envDecimal("GOLD_MAKING_PCT"), envDecimal("GOLD_GST_PCT"))
	if err != nil {
		logger.Fatalf("gold pricing config: %v", err)
	}

	repo := database.New(db, logger)
	refresher := service.NewRefreshService(repo, policy, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	now := time.Now().UTC()

	if *sectorFlag == "all" {
		reports, err := refresher.RefreshAll(ctx, now)
		if err != nil {
			logger.Fatalf("refresh failed: %v", err)
		}
		for _, rep := range reports {
			logger.Infof("%s: %d refreshed, %d skipped", rep.Sector, rep.Refreshed, rep.Skipped)
		}
		return
	}

	sector, err := models.ParseSector(*sectorFlag)
	if err != nil {
		logger.Fatalf("invalid sector: %v", err)
	}
	rep, err := refresher.RefreshSector(ctx, sector, now)
	if err != nil {
		logger.Fatalf("refresh failed: %v", err)
	}
	logger.Infof("%s: %d refreshed, %d skipped", rep.Sector, rep.Refreshed, rep.Skipped)
}

func envDecimal(key string) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}
