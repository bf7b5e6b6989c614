package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bluetecpy/storefront_backend/config"
	"github.com/bluetecpy/storefront_backend/models"
	"github.com/bluetecpy/storefront_backend/utils"
)

func main() {
	currency := flag.String("currency", "USD", "Foreign currency to update (USD or EUR)")
	rate := flag.String("rate", "", "New rate to PYG (required)")
	notes := flag.String("notes", "", "Optional ledger notes")
	apply := flag.Bool("apply", false, "Record the rate and reprice the catalog. Default is a dry-run simulation.")
	updatedBy := flag.String("updated-by", "admin", "Actor recorded on the ledger entry")
	flag.Parse()

	newRate, err := utils.ParseDecimal(*rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -rate: %v\n", err)
		os.Exit(1)
	}

	ctx := utils.SetUserIdInContext(context.Background(), *updatedBy)
	config.ConnectDatabase()
	config.ConnectRedis()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	if err := models.MigrateTables(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	targetCurrency := models.Currency(strings.ToUpper(strings.TrimSpace(*currency)))
	current, err := models.GetCurrentExchangeRate(ctx, targetCurrency)
	if err != nil && err != utils.ErrorRecordNotFound {
		fmt.Fprintf(os.Stderr, "failed to read current rate: %v\n", err)
		os.Exit(1)
	}

	catalog, err := models.GetActiveProducts(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	simulation, err := models.SimulateExchangeRateUpdate(current, newRate, catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simulation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("currency=%s current=%s new=%s change=%s (%s%%)\n",
		targetCurrency, simulation.CurrentRate, simulation.NewRate,
		simulation.Change, simulation.ChangePercentage)
	fmt.Printf("affected=%d increase=%d decrease=%d unchanged=%d avgChange=%s\n",
		simulation.AffectedProducts, simulation.PriceIncreaseCount,
		simulation.PriceDecreaseCount, simulation.UnchangedCount,
		simulation.AveragePriceChange)

	if !*apply {
		fmt.Println("dry-run only; pass -apply to record the rate and reprice the catalog")
		return
	}

	snap, err := models.CreateExchangeRate(ctx, &models.NewExchangeRate{
		Currency:  targetCurrency,
		RateToPYG: newRate,
		Notes:     *notes,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to record rate: %v\n", err)
		os.Exit(1)
	}

	updated, err := models.ApplyExchangeRateToProducts(ctx, snap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rate recorded (id=%d) but repricing failed: %v\n", snap.ID, err)
		os.Exit(1)
	}
	fmt.Printf("rate recorded (id=%d), %d products repriced\n", snap.ID, updated)
}
