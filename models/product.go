package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bluetecpy/storefront_backend/config"
	"github.com/bluetecpy/storefront_backend/utils"
)

var (
	defaultLoanInterest = decimal.NewFromInt(15)
	defaultProfitMargin = decimal.NewFromInt(30)
)

// Product is one catalog entry. Purchase cost is kept in USD and the
// selling price in PYG, so a rate change reprices the catalog.
type Product struct {
	ID               string          `gorm:"type:char(36);primary_key" json:"id"`
	Name             string          `gorm:"size:255;not null" json:"name" binding:"required"`
	Code             string          `gorm:"size:100;index" json:"code"`
	Category         string          `gorm:"size:100;index" json:"category"`
	PurchasePriceUSD decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"purchase_price_usd"`
	LoanInterest     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"loan_interest"`
	DeliveryCost     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"delivery_cost"`
	ProfitMargin     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"profit_margin"`
	SellingPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"selling_price"`
	SalesTaxClass    TaxClass        `gorm:"type:enum('exempt','iva_5','iva_10');default:'iva_10'" json:"sales_tax_class"`
	IsActive         *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name             string          `json:"name" binding:"required"`
	Code             string          `json:"code"`
	Category         string          `json:"category"`
	PurchasePriceUSD decimal.Decimal `json:"purchase_price_usd"`
	LoanInterest     decimal.Decimal `json:"loan_interest"`
	DeliveryCost     decimal.Decimal `json:"delivery_cost"`
	ProfitMargin     decimal.Decimal `json:"profit_margin"`
	SalesTaxClass    TaxClass        `json:"sales_tax_class"`
}

// RecalculateSellingPrice derives the PYG selling price under a given USD
// rate: landed cost (USD purchase price converted, plus financing interest
// and delivery) marked up by the profit margin. Zero interest/margin fields
// fall back to the catalog bootstrap defaults of 15% and 30%.
func (p *Product) RecalculateSellingPrice(rateToPYG decimal.Decimal) decimal.Decimal {
	interest := p.LoanInterest
	if interest.IsZero() {
		interest = defaultLoanInterest
	}
	margin := p.ProfitMargin
	if margin.IsZero() {
		margin = defaultProfitMargin
	}

	purchasePricePYG := p.PurchasePriceUSD.Mul(rateToPYG)
	interestAmount := purchasePricePYG.Mul(interest).Div(decimalOneHundred)
	totalCost := purchasePricePYG.Add(interestAmount).Add(p.DeliveryCost)
	return totalCost.Mul(decimal.NewFromInt(1).Add(margin.Div(decimalOneHundred))).Round(0)
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	taxClass := input.SalesTaxClass
	if taxClass == "" {
		taxClass = TaxClassStandard
	}
	if !taxClass.Valid() {
		return nil, utils.ErrorInvalidTaxClass
	}
	if input.PurchasePriceUSD.IsNegative() {
		return nil, errors.New("purchase price cannot be negative")
	}

	product := Product{
		ID:               uuid.NewString(),
		Name:             input.Name,
		Code:             input.Code,
		Category:         input.Category,
		PurchasePriceUSD: input.PurchasePriceUSD,
		LoanInterest:     input.LoanInterest,
		DeliveryCost:     input.DeliveryCost,
		ProfitMargin:     input.ProfitMargin,
		SalesTaxClass:    taxClass,
		IsActive:         utils.NewTrue(),
	}

	if rate, err := GetCurrentExchangeRate(ctx, CurrencyUSD); err == nil {
		product.SellingPrice = product.RecalculateSellingPrice(rate.RateToPYG)
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProduct(ctx context.Context, id string) (*Product, error) {
	db := config.GetDB()
	var result Product
	if err := db.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetActiveProducts(ctx context.Context) ([]Product, error) {
	db := config.GetDB()
	var results []Product
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
