package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/bluetecpy/storefront_backend/config"
	"github.com/bluetecpy/storefront_backend/models/reports"
)

func main() {
	from := flag.String("from", "", "Start date (YYYY-MM-DD, required)")
	to := flag.String("to", "", "End date (YYYY-MM-DD, required)")
	out := flag.String("out", "reconciliation.xlsx", "Output spreadsheet path")
	flag.Parse()

	fromDate, err := time.Parse(time.DateOnly, *from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -from: %v\n", err)
		os.Exit(1)
	}
	toDate, err := time.Parse(time.DateOnly, *to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -to: %v\n", err)
		os.Exit(1)
	}
	toDate = toDate.Add(24*time.Hour - time.Second)

	ctx := context.Background()
	config.ConnectDatabase()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	report, err := reports.GetReconciliationReport(ctx, fromDate, toDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconciliation failed: %v\n", err)
		os.Exit(1)
	}

	// Screens default to most profitable first.
	sort.SliceStable(report.Rows, func(i, j int) bool {
		return report.Rows[i].ProfitAmount.GreaterThan(report.Rows[j].ProfitAmount)
	})

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", *out, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := reports.WriteReconciliationExcel(report, f); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write spreadsheet: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d rows to %s (%d skipped due to missing catalog data)\n",
		len(report.Rows), *out, report.SkippedRows)
}
