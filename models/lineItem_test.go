package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluetecpy/storefront_backend/models"
	"github.com/bluetecpy/storefront_backend/utils"
)

func TestComputeLineItemPYGInclusive(t *testing.T) {
	item := models.LineItem{
		Description:      "Teclado",
		Quantity:         3,
		UnitPrice:        pyg(110_000),
		TaxClass:         models.TaxClassStandard,
		PriceIncludesTax: true,
	}

	computed, err := models.ComputeLineItem(item, nil)
	require.NoError(t, err)

	// 3 x 110000 = 330000; tax = 330000 / 11 = 30000
	assert.True(t, computed.UnitPricePYG.Equal(decimal.NewFromInt(110_000)))
	assert.True(t, computed.SubtotalWithTax.Equal(decimal.NewFromInt(330_000)))
	assert.True(t, computed.TaxAmount.Equal(decimal.NewFromInt(30_000)))
	assert.True(t, computed.Subtotal.Equal(decimal.NewFromInt(300_000)))

	// PYG document: display values match the canonical ones.
	assert.True(t, computed.DisplayTotal.Amount.Equal(decimal.NewFromInt(330_000)))
	assert.Equal(t, models.CurrencyPYG, computed.DisplayTotal.Currency)
}

func TestComputeLineItemUSDConvertsBeforeTax(t *testing.T) {
	item := models.LineItem{
		Description:      "Monitor",
		Quantity:         2,
		UnitPrice:        models.NewMoneyFromInt(100, models.CurrencyUSD),
		TaxClass:         models.TaxClassStandard,
		PriceIncludesTax: true,
	}

	computed, err := models.ComputeLineItem(item, usdSnapshot(7300))
	require.NoError(t, err)

	// Tax math runs on the PYG amount, not on the USD figure.
	assert.True(t, computed.UnitPricePYG.Equal(decimal.NewFromInt(730_000)))
	assert.True(t, computed.SubtotalWithTax.Equal(decimal.NewFromInt(1_460_000)))
	assert.True(t, computed.TaxAmount.Equal(decimal.NewFromInt(132_727)), "tax = %s", computed.TaxAmount)
	assert.True(t, computed.Subtotal.Equal(decimal.NewFromInt(1_327_273)))

	// Display figures are derived last, in the document currency.
	assert.Equal(t, models.CurrencyUSD, computed.DisplayTotal.Currency)
	assert.True(t, computed.DisplayTotal.Amount.Equal(decimal.NewFromInt(200)))
	assert.True(t, computed.DisplaySubtotal.Amount.Equal(decimal.NewFromFloat(181.82)), "got %s", computed.DisplaySubtotal.Amount)
	assert.True(t, computed.DisplayTaxAmount.Amount.Equal(decimal.NewFromFloat(18.18)))
}

func TestComputeLineItemInvalidQuantity(t *testing.T) {
	item := models.LineItem{
		Description: "Cable",
		Quantity:    0,
		UnitPrice:   pyg(5000),
		TaxClass:    models.TaxClassStandard,
	}
	_, err := models.ComputeLineItem(item, nil)
	assert.ErrorIs(t, err, utils.ErrorInvalidQuantity)

	item.Quantity = -2
	_, err = models.ComputeLineItem(item, nil)
	assert.ErrorIs(t, err, utils.ErrorInvalidQuantity)
}

func TestComputeLineItemInvalidTaxClass(t *testing.T) {
	item := models.LineItem{
		Description: "Cable",
		Quantity:    1,
		UnitPrice:   pyg(5000),
		TaxClass:    models.TaxClass("iva_15"),
	}
	_, err := models.ComputeLineItem(item, nil)
	assert.ErrorIs(t, err, utils.ErrorInvalidTaxClass)
}

func TestComputeLineItemForeignNeedsSnapshot(t *testing.T) {
	item := models.LineItem{
		Description:      "Monitor",
		Quantity:         1,
		UnitPrice:        models.NewMoneyFromInt(100, models.CurrencyUSD),
		TaxClass:         models.TaxClassStandard,
		PriceIncludesTax: true,
	}
	_, err := models.ComputeLineItem(item, nil)
	assert.ErrorIs(t, err, utils.ErrorStaleSnapshotReference)
}

func TestLineItemIsEmpty(t *testing.T) {
	assert.True(t, models.LineItem{Description: ""}.IsEmpty())
	assert.True(t, models.LineItem{Description: "   "}.IsEmpty())
	assert.False(t, models.LineItem{Description: "Mouse"}.IsEmpty())
}
