package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluetecpy/storefront_backend/models"
	"github.com/bluetecpy/storefront_backend/utils"
)

func usdSnapshot(rate int64) *models.ExchangeRate {
	return &models.ExchangeRate{
		ID:        1,
		Currency:  models.CurrencyUSD,
		RateToPYG: decimal.NewFromInt(rate),
		IsActive:  utils.NewTrue(),
	}
}

func TestConvertMoneyIdentity(t *testing.T) {
	amount := models.NewMoneyFromInt(5000, models.CurrencyPYG)
	converted, err := models.ConvertMoney(amount, models.CurrencyPYG, nil)
	require.NoError(t, err)
	assert.True(t, converted.Equal(amount))
}

func TestConvertMoneyForeignToPYG(t *testing.T) {
	amount := models.NewMoneyFromInt(100, models.CurrencyUSD)
	converted, err := models.ConvertMoney(amount, models.CurrencyPYG, usdSnapshot(7300))
	require.NoError(t, err)

	assert.Equal(t, models.CurrencyPYG, converted.Currency)
	assert.True(t, converted.Amount.Equal(decimal.NewFromInt(730_000)))
}

func TestConvertMoneyPYGToForeign(t *testing.T) {
	amount := models.NewMoneyFromInt(730_000, models.CurrencyPYG)
	converted, err := models.ConvertMoney(amount, models.CurrencyUSD, usdSnapshot(7300))
	require.NoError(t, err)

	assert.Equal(t, models.CurrencyUSD, converted.Currency)
	assert.True(t, converted.Amount.Equal(decimal.NewFromInt(100)))
}

func TestConvertMoneyRoundsToTargetPrecision(t *testing.T) {
	amount := models.NewMoneyFromInt(1000, models.CurrencyPYG)
	converted, err := models.ConvertMoney(amount, models.CurrencyUSD, usdSnapshot(7300))
	require.NoError(t, err)

	// 1000 / 7300 = 0.13698... -> 0.14
	assert.True(t, converted.Amount.Equal(decimal.NewFromFloat(0.14)), "got %s", converted.Amount)
}

func TestConvertMoneyMissingRate(t *testing.T) {
	amount := models.NewMoneyFromInt(100, models.CurrencyEUR)
	_, err := models.ConvertMoney(amount, models.CurrencyPYG, usdSnapshot(7300))
	assert.ErrorIs(t, err, utils.ErrorMissingExchangeRate)

	// Cross-foreign conversions cannot route through a single snapshot.
	_, err = models.ConvertMoney(models.NewMoneyFromInt(100, models.CurrencyUSD), models.CurrencyEUR, usdSnapshot(7300))
	assert.ErrorIs(t, err, utils.ErrorMissingExchangeRate)
}

func TestConvertMoneyNilSnapshot(t *testing.T) {
	amount := models.NewMoneyFromInt(100, models.CurrencyUSD)
	_, err := models.ConvertMoney(amount, models.CurrencyPYG, nil)
	assert.ErrorIs(t, err, utils.ErrorStaleSnapshotReference)
}

func TestRecalculateSellingPrice(t *testing.T) {
	product := models.Product{
		PurchasePriceUSD: decimal.NewFromInt(100),
	}
	// cost 730000, +15% interest = 839500, x1.30 margin = 1091350
	price := product.RecalculateSellingPrice(decimal.NewFromInt(7300))
	assert.True(t, price.Equal(decimal.NewFromInt(1_091_350)), "got %s", price)
}

func TestRecalculateSellingPriceExplicitFactors(t *testing.T) {
	product := models.Product{
		PurchasePriceUSD: decimal.NewFromInt(50),
		LoanInterest:     decimal.NewFromInt(10),
		DeliveryCost:     decimal.NewFromInt(20_000),
		ProfitMargin:     decimal.NewFromInt(20),
	}
	// cost 365000, +10% = 401500, +20000 = 421500, x1.20 = 505800
	price := product.RecalculateSellingPrice(decimal.NewFromInt(7300))
	assert.True(t, price.Equal(decimal.NewFromInt(505_800)), "got %s", price)
}

func TestSimulateExchangeRateUpdateCounts(t *testing.T) {
	current := usdSnapshot(7300)
	catalog := []models.Product{
		{ID: "a", Name: "Notebook", PurchasePriceUSD: decimal.NewFromInt(100), SellingPrice: decimal.NewFromInt(1_091_350)},
		{ID: "b", Name: "Mouse", PurchasePriceUSD: decimal.NewFromInt(10), SellingPrice: decimal.NewFromInt(200_000)},
		{ID: "c", Name: "Service", PurchasePriceUSD: decimal.Zero, SellingPrice: decimal.NewFromInt(50_000)},
	}

	result, err := models.SimulateExchangeRateUpdate(current, decimal.NewFromInt(7500), catalog)
	require.NoError(t, err)

	// Products without a USD purchase price are not repriced.
	assert.Equal(t, 2, result.AffectedProducts)
	assert.Len(t, result.ProductDetails, 2)
	assert.True(t, result.Change.Equal(decimal.NewFromInt(200)))

	// Notebook: 750000 * 1.15 * 1.3 = 1121250 (up from 1091350)
	assert.True(t, result.ProductDetails[0].NewPrice.Equal(decimal.NewFromInt(1_121_250)),
		"got %s", result.ProductDetails[0].NewPrice)
	assert.Equal(t, 1, result.PriceIncreaseCount)
	// Mouse: 75000 * 1.15 * 1.3 = 112125 (down from the inflated 200000)
	assert.Equal(t, 1, result.PriceDecreaseCount)
	assert.Equal(t, 0, result.UnchangedCount)
}

func TestSimulateExchangeRateUpdateIsPure(t *testing.T) {
	current := usdSnapshot(7300)
	catalog := []models.Product{
		{ID: "a", Name: "Notebook", PurchasePriceUSD: decimal.NewFromInt(100), SellingPrice: decimal.NewFromInt(1_091_350)},
	}

	_, err := models.SimulateExchangeRateUpdate(current, decimal.NewFromInt(9000), catalog)
	require.NoError(t, err)

	assert.True(t, catalog[0].SellingPrice.Equal(decimal.NewFromInt(1_091_350)))
	assert.True(t, current.RateToPYG.Equal(decimal.NewFromInt(7300)))
}

func TestSimulateExchangeRateUpdateRejectsNonPositiveRate(t *testing.T) {
	_, err := models.SimulateExchangeRateUpdate(usdSnapshot(7300), decimal.Zero, nil)
	assert.ErrorIs(t, err, utils.ErrorInvalidExchangeRate)
}

func TestSimulateMatchesRecalculation(t *testing.T) {
	// The preview must match what a live update would write.
	product := models.Product{ID: "a", Name: "Notebook", PurchasePriceUSD: decimal.NewFromInt(100)}
	newRate := decimal.NewFromInt(7450)

	result, err := models.SimulateExchangeRateUpdate(usdSnapshot(7300), newRate, []models.Product{product})
	require.NoError(t, err)
	require.Len(t, result.ProductDetails, 1)

	assert.True(t, result.ProductDetails[0].NewPrice.Equal(product.RecalculateSellingPrice(newRate)))
}
