package models

import (
	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyPYG Currency = "PYG"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyPYG, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// DecimalPlaces returns the number of minor-unit digits presented to users.
// Guaraní amounts are whole units; USD and EUR keep two decimals.
func (c Currency) DecimalPlaces() int32 {
	if c == CurrencyPYG {
		return 0
	}
	return 2
}

type TaxClass string

const (
	TaxClassExempt   TaxClass = "exempt"
	TaxClassReduced  TaxClass = "iva_5"
	TaxClassStandard TaxClass = "iva_10"
)

func (t TaxClass) Valid() bool {
	switch t {
	case TaxClassExempt, TaxClassReduced, TaxClassStandard:
		return true
	}
	return false
}

// Rate returns the VAT percentage for the class.
func (t TaxClass) Rate() decimal.Decimal {
	switch t {
	case TaxClassReduced:
		return decimal.NewFromInt(5)
	case TaxClassStandard:
		return decimal.NewFromInt(10)
	}
	return decimal.Zero
}

type DocumentType string

const (
	DocumentTypeSale     DocumentType = "Sale"
	DocumentTypePurchase DocumentType = "Purchase"
	DocumentTypeBudget   DocumentType = "Budget"
)

func (d DocumentType) Valid() bool {
	switch d {
	case DocumentTypeSale, DocumentTypePurchase, DocumentTypeBudget:
		return true
	}
	return false
}

type RateSource string

const (
	RateSourceManual RateSource = "manual"
	RateSourceImport RateSource = "import"
)
