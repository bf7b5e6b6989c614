package reports_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bluetecpy/storefront_backend/models/reports"
)

var trendAsOf = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

const week = 7 * 24 * time.Hour

func TestGrowthTrendInsufficientData(t *testing.T) {
	assert.Equal(t, reports.TrendResult{}, reports.GrowthTrend(nil, week, trendAsOf))
	assert.Equal(t, reports.TrendResult{},
		reports.GrowthTrend([]time.Time{trendAsOf}, week, trendAsOf))
}

func TestGrowthTrendBasicGrowth(t *testing.T) {
	timestamps := []time.Time{
		// previous week: 2 records
		trendAsOf.Add(-10 * 24 * time.Hour),
		trendAsOf.Add(-9 * 24 * time.Hour),
		// current week: 3 records
		trendAsOf.Add(-3 * 24 * time.Hour),
		trendAsOf.Add(-2 * 24 * time.Hour),
		trendAsOf.Add(-1 * time.Hour),
	}

	result := reports.GrowthTrend(timestamps, week, trendAsOf)
	assert.Equal(t, 3, result.CurrentPeriodCount)
	assert.Equal(t, 2, result.PreviousPeriodCount)
	assert.True(t, result.GrowthPercent.Equal(decimal.NewFromInt(50)), "got %s", result.GrowthPercent)
}

func TestGrowthTrendEmptyPreviousPeriod(t *testing.T) {
	timestamps := []time.Time{
		trendAsOf.Add(-2 * 24 * time.Hour),
		trendAsOf.Add(-1 * 24 * time.Hour),
	}
	result := reports.GrowthTrend(timestamps, week, trendAsOf)
	assert.Equal(t, 2, result.CurrentPeriodCount)
	assert.Equal(t, 0, result.PreviousPeriodCount)
	assert.True(t, result.GrowthPercent.Equal(decimal.NewFromInt(100)))
}

func TestGrowthTrendBothPeriodsEmpty(t *testing.T) {
	// Two records, both older than two periods.
	timestamps := []time.Time{
		trendAsOf.Add(-30 * 24 * time.Hour),
		trendAsOf.Add(-29 * 24 * time.Hour),
	}
	result := reports.GrowthTrend(timestamps, week, trendAsOf)
	assert.Equal(t, 0, result.CurrentPeriodCount)
	assert.Equal(t, 0, result.PreviousPeriodCount)
	assert.True(t, result.GrowthPercent.IsZero())
}

func TestGrowthTrendBoundaryCountsOnce(t *testing.T) {
	boundary := trendAsOf.Add(-week)
	timestamps := []time.Time{
		boundary,
		trendAsOf.Add(-8 * 24 * time.Hour),
	}
	result := reports.GrowthTrend(timestamps, week, trendAsOf)

	// A record exactly on the window boundary belongs to the current
	// period only.
	assert.Equal(t, 1, result.CurrentPeriodCount)
	assert.Equal(t, 1, result.PreviousPeriodCount)
	assert.True(t, result.GrowthPercent.IsZero())
}

func TestGrowthTrendDecline(t *testing.T) {
	timestamps := []time.Time{
		trendAsOf.Add(-12 * 24 * time.Hour),
		trendAsOf.Add(-11 * 24 * time.Hour),
		trendAsOf.Add(-10 * 24 * time.Hour),
		trendAsOf.Add(-9 * 24 * time.Hour),
		trendAsOf.Add(-1 * 24 * time.Hour),
	}
	result := reports.GrowthTrend(timestamps, week, trendAsOf)
	assert.Equal(t, 1, result.CurrentPeriodCount)
	assert.Equal(t, 4, result.PreviousPeriodCount)
	assert.True(t, result.GrowthPercent.Equal(decimal.NewFromInt(-75)))
}

func TestGrowthTrendRoundsPercent(t *testing.T) {
	timestamps := []time.Time{
		// previous: 3
		trendAsOf.Add(-10 * 24 * time.Hour),
		trendAsOf.Add(-9 * 24 * time.Hour),
		trendAsOf.Add(-8 * 24 * time.Hour),
		// current: 4
		trendAsOf.Add(-4 * 24 * time.Hour),
		trendAsOf.Add(-3 * 24 * time.Hour),
		trendAsOf.Add(-2 * 24 * time.Hour),
		trendAsOf.Add(-1 * 24 * time.Hour),
	}
	result := reports.GrowthTrend(timestamps, week, trendAsOf)
	// 1/3 growth rounds half-up to 33.33
	assert.True(t, result.GrowthPercent.Equal(decimal.NewFromFloat(33.33)), "got %s", result.GrowthPercent)
}
