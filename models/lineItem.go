package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bluetecpy/storefront_backend/utils"
)

// LineItem is the raw entry-screen input for one row of a document. The
// unit price is in the document's working currency.
type LineItem struct {
	ProductId        string   `json:"product_id"`
	Description      string   `json:"description"`
	Quantity         int      `json:"quantity"`
	UnitPrice        Money    `json:"unit_price"`
	TaxClass         TaxClass `json:"tax_class"`
	PriceIncludesTax bool     `json:"price_includes_tax"`
}

// IsEmpty reports whether the row is a not-yet-entered placeholder. Empty
// rows stay visible in the entry list but are excluded from document
// aggregation at submission time.
func (item LineItem) IsEmpty() bool {
	return strings.TrimSpace(item.Description) == ""
}

// EnrichedLineItem carries the computed amounts for a line. Subtotal,
// TaxAmount and SubtotalWithTax are in PYG, the canonical calculation
// currency; the Display* values re-express them in the document currency
// for rendering only and must never be summed.
type EnrichedLineItem struct {
	LineItem

	UnitPricePYG    decimal.Decimal `json:"unit_price_pyg"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	SubtotalWithTax decimal.Decimal `json:"subtotal_with_tax"`

	DisplaySubtotal  Money `json:"display_subtotal"`
	DisplayTaxAmount Money `json:"display_tax_amount"`
	DisplayTotal     Money `json:"display_total"`
}

// ComputeLineItem derives a line's amounts: the unit price is converted to
// PYG through the document's captured snapshot, the tax split runs on the
// PYG amount, and the document-currency figures are derived last. Running
// the tax math once in PYG avoids compounding rounding across currencies.
//
// Recompute whenever unit price, quantity, tax class or the inclusive flag
// changes; nothing else affects the result.
func ComputeLineItem(item LineItem, snap *ExchangeRate) (EnrichedLineItem, error) {
	if item.Quantity <= 0 {
		return EnrichedLineItem{}, utils.ErrorInvalidQuantity
	}
	if !item.TaxClass.Valid() {
		return EnrichedLineItem{}, utils.ErrorInvalidTaxClass
	}

	unitPricePYG, err := ConvertMoney(item.UnitPrice, CurrencyPYG, snap)
	if err != nil {
		return EnrichedLineItem{}, err
	}

	rawAmount := NewMoney(unitPricePYG.Amount.Mul(decimal.NewFromInt(int64(item.Quantity))), CurrencyPYG)
	breakdown, err := ResolveTax(rawAmount, item.TaxClass, item.PriceIncludesTax)
	if err != nil {
		return EnrichedLineItem{}, err
	}

	enriched := EnrichedLineItem{
		LineItem:        item,
		UnitPricePYG:    unitPricePYG.Amount,
		Subtotal:        breakdown.Base.Amount,
		TaxAmount:       breakdown.Tax.Amount,
		SubtotalWithTax: breakdown.Total.Amount,
	}

	enriched.DisplaySubtotal, err = ConvertMoney(breakdown.Base, item.UnitPrice.Currency, snap)
	if err != nil {
		return EnrichedLineItem{}, err
	}
	enriched.DisplayTaxAmount, err = ConvertMoney(breakdown.Tax, item.UnitPrice.Currency, snap)
	if err != nil {
		return EnrichedLineItem{}, err
	}
	enriched.DisplayTotal, err = ConvertMoney(breakdown.Total, item.UnitPrice.Currency, snap)
	if err != nil {
		return EnrichedLineItem{}, err
	}

	return enriched, nil
}
