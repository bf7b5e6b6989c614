package models

import (
	"github.com/shopspring/decimal"

	"github.com/bluetecpy/storefront_backend/utils"
)

var (
	decimalOneHundred = decimal.NewFromInt(100)

	// Paraguay's closed-form reverse-VAT divisors. For a tax-inclusive
	// amount the tax is total/11 at 10% and total/21 at 5%; the generic
	// total·r/(100+r) form can differ by one minor unit on edge values,
	// so the divisors are applied verbatim.
	divisorStandard = decimal.NewFromInt(11)
	divisorReduced  = decimal.NewFromInt(21)
)

// TaxBreakdown is the base/tax/total split of a single amount. The three
// values are always in the amount's own currency and satisfy
// Base + Tax = Total exactly.
type TaxBreakdown struct {
	Base  Money           `json:"base"`
	Tax   Money           `json:"tax"`
	Total Money           `json:"total"`
	Rate  decimal.Decimal `json:"rate"`
}

// ResolveTax splits an amount into base, tax and total for the given tax
// class. When priceIncludesTax is set the tax is extracted from the amount;
// otherwise it is added on top.
//
// An exempt class short-circuits before any formula runs: a zero-rate line
// must never show a nonzero tax figure, whatever the inclusive flag says.
func ResolveTax(amount Money, taxClass TaxClass, priceIncludesTax bool) (TaxBreakdown, error) {
	if !taxClass.Valid() {
		return TaxBreakdown{}, utils.ErrorInvalidTaxClass
	}

	if taxClass == TaxClassExempt {
		return TaxBreakdown{
			Base:  amount,
			Tax:   NewMoney(decimal.Zero, amount.Currency),
			Total: amount,
			Rate:  decimal.Zero,
		}, nil
	}

	places := amount.Currency.DecimalPlaces()
	rate := taxClass.Rate()

	if priceIncludesTax {
		var tax decimal.Decimal
		switch taxClass {
		case TaxClassStandard:
			tax = amount.Amount.Div(divisorStandard).Round(places)
		case TaxClassReduced:
			tax = amount.Amount.Div(divisorReduced).Round(places)
		}
		base := amount.Amount.Sub(tax)
		return TaxBreakdown{
			Base:  NewMoney(base, amount.Currency),
			Tax:   NewMoney(tax, amount.Currency),
			Total: amount,
			Rate:  rate,
		}, nil
	}

	tax := amount.Amount.Mul(rate).Div(decimalOneHundred).Round(places)
	return TaxBreakdown{
		Base:  amount,
		Tax:   NewMoney(tax, amount.Currency),
		Total: NewMoney(amount.Amount.Add(tax), amount.Currency),
		Rate:  rate,
	}, nil
}

// ResolveTaxRate is the rate-based entry point used by callers that carry a
// raw percentage instead of a TaxClass. Rates 0, 5 and 10 behave exactly
// like their classes; any other inclusive rate falls back to the generic
// amount/(1+r/100) form, which only price recalculation utilities use.
func ResolveTaxRate(amount Money, rate decimal.Decimal, priceIncludesTax bool) TaxBreakdown {
	places := amount.Currency.DecimalPlaces()

	if rate.IsZero() {
		return TaxBreakdown{
			Base:  amount,
			Tax:   NewMoney(decimal.Zero, amount.Currency),
			Total: amount,
			Rate:  decimal.Zero,
		}
	}

	if priceIncludesTax {
		var tax decimal.Decimal
		switch {
		case rate.Equal(decimal.NewFromInt(10)):
			tax = amount.Amount.Div(divisorStandard).Round(places)
		case rate.Equal(decimal.NewFromInt(5)):
			tax = amount.Amount.Div(divisorReduced).Round(places)
		default:
			base := amount.Amount.Div(decimal.NewFromInt(1).Add(rate.Div(decimalOneHundred)))
			tax = amount.Amount.Sub(base).Round(places)
		}
		return TaxBreakdown{
			Base:  NewMoney(amount.Amount.Sub(tax), amount.Currency),
			Tax:   NewMoney(tax, amount.Currency),
			Total: amount,
			Rate:  rate,
		}
	}

	tax := amount.Amount.Mul(rate).Div(decimalOneHundred).Round(places)
	return TaxBreakdown{
		Base:  amount,
		Tax:   NewMoney(tax, amount.Currency),
		Total: NewMoney(amount.Amount.Add(tax), amount.Currency),
		Rate:  rate,
	}
}
