package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bluetecpy/storefront_backend/config"
	"github.com/bluetecpy/storefront_backend/utils"
)

// ExchangeRate is one entry of the append-only rate ledger: the PYG rate of
// a single foreign currency at a point in time. Rows are deactivated by
// newer entries but never deleted, so documents that captured an old row
// stay reproducible. A document must always recompute with its captured
// rate, never with the currently active one.
type ExchangeRate struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Currency     Currency        `gorm:"type:enum('USD','EUR');index;not null" json:"currency" binding:"required"`
	RateToPYG    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"rate_to_pyg" binding:"required"`
	EffectiveAt  time.Time       `gorm:"index;not null" json:"effective_at"`
	Source       RateSource      `gorm:"type:enum('manual','import');default:'manual'" json:"source"`
	Notes        string          `gorm:"size:255" json:"notes"`
	UpdatedBy    string          `gorm:"size:100" json:"updated_by"`
	PreviousRate decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"previous_rate"`
	IsActive     *bool           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExchangeRate struct {
	Currency    Currency        `json:"currency" binding:"required"`
	RateToPYG   decimal.Decimal `json:"rate_to_pyg" binding:"required"`
	EffectiveAt time.Time       `json:"effective_at"`
	Source      RateSource      `json:"source"`
	Notes       string          `json:"notes"`
}

// Covers reports whether the snapshot can take part in a conversion
// involving the given currency. Every snapshot covers PYG (the pivot) plus
// its own foreign currency.
func (snap *ExchangeRate) Covers(c Currency) bool {
	return c == CurrencyPYG || c == snap.Currency
}

// ConvertMoney converts an amount to the target currency through a
// point-in-time snapshot. Conversions always route through PYG as the
// pivot: foreign amounts are multiplied by the snapshot rate, PYG amounts
// divided by it. The snapshot is never mutated.
func ConvertMoney(amount Money, target Currency, snap *ExchangeRate) (Money, error) {
	if amount.Currency == target {
		return amount, nil
	}
	if snap == nil {
		return Money{}, utils.ErrorStaleSnapshotReference
	}
	if !snap.Covers(amount.Currency) || !snap.Covers(target) {
		return Money{}, utils.ErrorMissingExchangeRate
	}
	if !snap.RateToPYG.IsPositive() {
		return Money{}, utils.ErrorInvalidExchangeRate
	}

	if target == CurrencyPYG {
		return NewMoney(amount.Amount.Mul(snap.RateToPYG), CurrencyPYG).Round(), nil
	}
	// PYG -> foreign. Cross-foreign requests were rejected above because a
	// snapshot carries exactly one foreign currency.
	return NewMoney(amount.Amount.Div(snap.RateToPYG), target).Round(), nil
}

func (input *NewExchangeRate) validate() error {
	if !input.Currency.Valid() || input.Currency == CurrencyPYG {
		return errors.New("currency must be a foreign currency")
	}
	if !input.RateToPYG.IsPositive() {
		return utils.ErrorInvalidExchangeRate
	}
	return nil
}

// CreateExchangeRate appends a ledger entry and deactivates the currency's
// prior active entry inside one transaction. Writers are serialized with a
// redis lock so two simultaneous updates cannot leave two active rows;
// readers never block and only ever see a committed row.
func CreateExchangeRate(ctx context.Context, input *NewExchangeRate) (*ExchangeRate, error) {
	logger := config.GetLogger()

	if err := input.validate(); err != nil {
		return nil, err
	}

	lock, err := utils.RateUpdateLock(ctx, string(input.Currency), "models", "CreateExchangeRate")
	if err != nil {
		return nil, err
	}
	defer utils.ReleaseLock(ctx, lock)

	effectiveAt := input.EffectiveAt
	if effectiveAt.IsZero() {
		effectiveAt = time.Now().UTC()
	}
	source := input.Source
	if source == "" {
		source = RateSourceManual
	}
	updatedBy, _ := utils.GetUserIdFromContext(ctx)

	var previousRate decimal.Decimal
	current, err := GetCurrentExchangeRate(ctx, input.Currency)
	if err == nil {
		previousRate = current.RateToPYG
	} else if !errors.Is(err, utils.ErrorRecordNotFound) {
		return nil, err
	}

	exchange := ExchangeRate{
		Currency:     input.Currency,
		RateToPYG:    input.RateToPYG,
		EffectiveAt:  effectiveAt,
		Source:       source,
		Notes:        input.Notes,
		UpdatedBy:    updatedBy,
		PreviousRate: previousRate,
		IsActive:     utils.NewTrue(),
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ExchangeRate{}).
			Where("currency = ? AND is_active = ?", input.Currency, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(&exchange).Error
	})
	if err != nil {
		config.LogError(logger, "models", "CreateExchangeRate", "ledger append failed", input, err)
		return nil, err
	}

	config.LogInfo(logger, "models", "CreateExchangeRate", "exchange rate updated", map[string]any{
		"currency":      exchange.Currency,
		"previous_rate": previousRate,
		"new_rate":      exchange.RateToPYG,
	})
	return &exchange, nil
}

// GetCurrentExchangeRate returns the committed active ledger entry for the
// currency. Lock-free.
func GetCurrentExchangeRate(ctx context.Context, currency Currency) (*ExchangeRate, error) {
	db := config.GetDB()
	var result ExchangeRate
	err := db.WithContext(ctx).
		Where("currency = ? AND is_active = ?", currency, true).
		Order("effective_at desc").
		First(&result).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

// GetExchangeRateById resolves a captured snapshot reference. The ledger is
// append-only so this must always succeed for a persisted document; a miss
// is surfaced as a stale snapshot defect rather than a plain not-found.
func GetExchangeRateById(ctx context.Context, id int) (*ExchangeRate, error) {
	db := config.GetDB()
	var result ExchangeRate
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorStaleSnapshotReference
	}
	return &result, nil
}

type ExchangeRateHistoryEntry struct {
	ExchangeRate
	Change           decimal.Decimal `json:"change"`
	ChangePercentage decimal.Decimal `json:"change_percentage"`
}

// GetExchangeRateHistory lists ledger entries for the last N days, newest
// first, each annotated with its change against the preceding entry.
func GetExchangeRateHistory(ctx context.Context, currency Currency, days int) ([]*ExchangeRateHistoryEntry, error) {
	if days <= 0 {
		days = 30
	}
	db := config.GetDB()
	var rates []ExchangeRate
	since := time.Now().UTC().AddDate(0, 0, -days)
	err := db.WithContext(ctx).
		Where("currency = ? AND effective_at >= ?", currency, since).
		Order("effective_at desc").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*ExchangeRateHistoryEntry, 0, len(rates))
	for i, rate := range rates {
		entry := &ExchangeRateHistoryEntry{ExchangeRate: rate}
		if i < len(rates)-1 {
			previous := rates[i+1].RateToPYG
			entry.Change = rate.RateToPYG.Sub(previous)
			if previous.IsPositive() {
				entry.ChangePercentage = entry.Change.Div(previous).Mul(decimalOneHundred).Round(2)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type SimulatedProductChange struct {
	ProductId             string          `json:"product_id"`
	Name                  string          `json:"name"`
	CurrentPrice          decimal.Decimal `json:"current_price"`
	NewPrice              decimal.Decimal `json:"new_price"`
	PriceChange           decimal.Decimal `json:"price_change"`
	PriceChangePercentage decimal.Decimal `json:"price_change_percentage"`
}

type SimulationResult struct {
	CurrentRate        decimal.Decimal          `json:"current_rate"`
	NewRate            decimal.Decimal          `json:"new_rate"`
	Change             decimal.Decimal          `json:"change"`
	ChangePercentage   decimal.Decimal          `json:"change_percentage"`
	AffectedProducts   int                      `json:"affected_products"`
	PriceIncreaseCount int                      `json:"price_increase_count"`
	PriceDecreaseCount int                      `json:"price_decrease_count"`
	UnchangedCount     int                      `json:"unchanged_count"`
	TotalPriceChange   decimal.Decimal          `json:"total_price_change"`
	AveragePriceChange decimal.Decimal          `json:"average_price_change"`
	ProductDetails     []SimulatedProductChange `json:"product_details"`
}

// SimulateExchangeRateUpdate previews the effect of a proposed rate on the
// catalog without writing anything. It runs the exact pricing pipeline a
// live update runs, so the preview matches the real update byte for byte.
func SimulateExchangeRateUpdate(current *ExchangeRate, newRate decimal.Decimal, catalog []Product) (SimulationResult, error) {
	if !newRate.IsPositive() {
		return SimulationResult{}, utils.ErrorInvalidExchangeRate
	}

	result := SimulationResult{
		NewRate:        newRate,
		ProductDetails: make([]SimulatedProductChange, 0, len(catalog)),
	}
	if current != nil {
		result.CurrentRate = current.RateToPYG
		result.Change = newRate.Sub(current.RateToPYG)
		if current.RateToPYG.IsPositive() {
			result.ChangePercentage = result.Change.Div(current.RateToPYG).Mul(decimalOneHundred).Round(2)
		}
	}

	for _, product := range catalog {
		if !product.PurchasePriceUSD.IsPositive() {
			continue
		}
		result.AffectedProducts++

		oldPrice := product.SellingPrice
		newPrice := product.RecalculateSellingPrice(newRate)
		change := newPrice.Sub(oldPrice)
		result.TotalPriceChange = result.TotalPriceChange.Add(change)

		switch {
		case change.IsPositive():
			result.PriceIncreaseCount++
		case change.IsNegative():
			result.PriceDecreaseCount++
		default:
			result.UnchangedCount++
		}

		detail := SimulatedProductChange{
			ProductId:    product.ID,
			Name:         product.Name,
			CurrentPrice: oldPrice,
			NewPrice:     newPrice,
			PriceChange:  change,
		}
		if oldPrice.IsPositive() {
			detail.PriceChangePercentage = change.Div(oldPrice).Mul(decimalOneHundred).Round(2)
		}
		result.ProductDetails = append(result.ProductDetails, detail)
	}

	if result.AffectedProducts > 0 {
		result.AveragePriceChange = result.TotalPriceChange.
			Div(decimal.NewFromInt(int64(result.AffectedProducts))).Round(0)
	}
	return result, nil
}

// ApplyExchangeRateToProducts persists the selling prices the simulation
// previews for the given snapshot. Returns the number of updated products.
func ApplyExchangeRateToProducts(ctx context.Context, snap *ExchangeRate) (int, error) {
	if snap == nil {
		return 0, utils.ErrorStaleSnapshotReference
	}

	db := config.GetDB()
	catalog, err := GetActiveProducts(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, product := range catalog {
			if !product.PurchasePriceUSD.IsPositive() {
				continue
			}
			newPrice := product.RecalculateSellingPrice(snap.RateToPYG)
			if newPrice.Equal(product.SellingPrice) {
				continue
			}
			if err := tx.Model(&Product{}).Where("id = ?", product.ID).
				Update("selling_price", newPrice).Error; err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
