package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

type TrendResult struct {
	CurrentPeriodCount  int             `json:"current_period_count"`
	PreviousPeriodCount int             `json:"previous_period_count"`
	GrowthPercent       decimal.Decimal `json:"growth_percent"`
}

// GrowthTrend compares the period ending at asOf with the immediately
// preceding period of equal length. The current window is
// [asOf-period, asOf] inclusive; the previous window is
// [asOf-2·period, asOf-period) so a record on the boundary counts once,
// in the current period.
//
// Fewer than two records is insufficient data and yields an all-zero
// result. A previous period of zero yields 0% growth when the current
// period is also empty and a flat 100% when it is not, so the figure is
// always numeric.
func GrowthTrend(timestamps []time.Time, period time.Duration, asOf time.Time) TrendResult {
	if len(timestamps) < 2 {
		return TrendResult{}
	}

	currentStart := asOf.Add(-period)
	previousStart := asOf.Add(-2 * period)

	var result TrendResult
	for _, ts := range timestamps {
		switch {
		case !ts.Before(currentStart) && !ts.After(asOf):
			result.CurrentPeriodCount++
		case !ts.Before(previousStart) && ts.Before(currentStart):
			result.PreviousPeriodCount++
		}
	}

	switch {
	case result.PreviousPeriodCount == 0 && result.CurrentPeriodCount == 0:
		result.GrowthPercent = decimal.Zero
	case result.PreviousPeriodCount == 0:
		result.GrowthPercent = decimal.NewFromInt(100)
	default:
		diff := decimal.NewFromInt(int64(result.CurrentPeriodCount - result.PreviousPeriodCount))
		result.GrowthPercent = diff.
			Div(decimal.NewFromInt(int64(result.PreviousPeriodCount))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return result
}
