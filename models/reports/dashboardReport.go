package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bluetecpy/storefront_backend/models"
)

type DashboardSummary struct {
	DocumentType   models.DocumentType `json:"document_type"`
	PeriodStart    time.Time           `json:"period_start"`
	PeriodEnd      time.Time           `json:"period_end"`
	DocumentCount  int                 `json:"document_count"`
	TotalAmountPYG decimal.Decimal     `json:"total_amount_pyg"`
	TotalAmountUSD decimal.Decimal     `json:"total_amount_usd"`
	Trend          TrendResult         `json:"trend"`
}

// GetDashboardSummary aggregates one document stream over the period ending
// at asOf and annotates it with growth versus the preceding equal-length
// period. Recomputed on every refresh, never persisted; results are
// redis-cached with a short TTL when the cache is enabled.
func GetDashboardSummary(ctx context.Context, documentType models.DocumentType, period time.Duration, asOf time.Time) (*DashboardSummary, error) {
	started := time.Now()
	cacheKey := reportCacheKey("dashboard-summary", documentType, int64(period/time.Second), asOf.Unix())

	if reportCacheEnabled() {
		var cached DashboardSummary
		if ok, err := cacheGet(cacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	// Two periods of documents: the older one only feeds the trend.
	documents, err := models.GetDocuments(ctx, documentType, asOf.Add(-2*period), asOf)
	if err != nil {
		return nil, err
	}

	summary := DashboardSummary{
		DocumentType: documentType,
		PeriodStart:  asOf.Add(-period),
		PeriodEnd:    asOf,
	}

	timestamps := make([]time.Time, 0, len(documents))
	for _, document := range documents {
		timestamps = append(timestamps, document.DocumentDate)
		if document.DocumentDate.Before(summary.PeriodStart) {
			continue
		}
		summary.DocumentCount++
		summary.TotalAmountPYG = summary.TotalAmountPYG.Add(document.TotalAmountPYG)
		summary.TotalAmountUSD = summary.TotalAmountUSD.Add(document.TotalAmountUSD)
	}
	summary.Trend = GrowthTrend(timestamps, period, asOf)

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, summary, reportCacheTTL())
	}
	logSlowReport(ctx, "dashboard-summary", started, map[string]any{
		"document_type": documentType,
		"count":         summary.DocumentCount,
	})
	return &summary, nil
}
