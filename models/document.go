package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bluetecpy/storefront_backend/config"
	"github.com/bluetecpy/storefront_backend/utils"
)

// Document is a sale, purchase or budget. The three are structurally
// identical for calculation purposes and share one table. Each document
// captures the exchange-rate snapshot active at creation; later edits
// recompute totals with the captured rate, never the live one.
//
// Subtotal, TaxAmount and TotalAmount are in the document currency and sum
// exactly; the *PYG columns carry the canonical amounts the lines were
// computed in.
type Document struct {
	ID             int             `gorm:"primary_key" json:"id"`
	DocumentType   DocumentType    `gorm:"type:enum('Sale','Purchase','Budget');index;not null" json:"document_type" binding:"required"`
	DocumentNumber string          `gorm:"size:100;uniqueIndex;not null" json:"document_number"`
	DocumentDate   time.Time       `gorm:"index;not null" json:"document_date"`
	ClientName     string          `gorm:"size:255" json:"client_name"`
	Currency       Currency        `gorm:"type:enum('PYG','USD','EUR');not null;default:'PYG'" json:"currency"`
	ExchangeRateId int             `gorm:"index;default:null" json:"exchange_rate_id"`
	ExchangeRate   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"exchange_rate"`
	RateCurrency   Currency        `gorm:"type:enum('USD','EUR');default:'USD'" json:"rate_currency"`
	Items          []DocumentItem  `gorm:"foreignKey:DocumentId" json:"items"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	SubtotalPYG    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal_pyg"`
	TaxAmountPYG   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount_pyg"`
	TotalAmountPYG decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount_pyg"`
	TotalAmountUSD decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount_usd"`
	Notes          string          `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type DocumentItem struct {
	ID               int             `gorm:"primary_key" json:"id"`
	DocumentId       int             `gorm:"index;not null" json:"document_id"`
	ProductId        string          `gorm:"type:char(36);index;default:null" json:"product_id"`
	Description      string          `gorm:"size:255" json:"description"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	TaxClass         TaxClass        `gorm:"type:enum('exempt','iva_5','iva_10');default:'iva_10'" json:"tax_class"`
	PriceIncludesTax *bool           `gorm:"not null;default:true" json:"price_includes_tax"`
	UnitPricePYG     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price_pyg"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	SubtotalWithTax  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal_with_tax"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewDocumentItem struct {
	ProductId        string          `json:"product_id"`
	Description      string          `json:"description"`
	Quantity         int             `json:"quantity" binding:"required"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TaxClass         TaxClass        `json:"tax_class" binding:"required"`
	PriceIncludesTax *bool           `json:"price_includes_tax" binding:"required"`
}

type NewDocument struct {
	DocumentType DocumentType      `json:"document_type" binding:"required"`
	DocumentDate time.Time         `json:"document_date"`
	ClientName   string            `json:"client_name"`
	Currency     Currency          `json:"currency" binding:"required"`
	Notes        string            `json:"notes"`
	Items        []NewDocumentItem `json:"items" binding:"required"`
}

// DocumentTotals is the aggregate of a document's non-empty lines. The PYG
// sums are exact decimal additions of the per-line values; the display and
// USD totals are single conversions of TotalPYG, applied once at the end.
// The display tax is derived as TotalAmount minus Subtotal rather than
// converted on its own, so Subtotal + TaxAmount = TotalAmount holds in the
// display currency too.
type DocumentTotals struct {
	SubtotalPYG    decimal.Decimal `json:"subtotal_pyg"`
	TaxAmountPYG   decimal.Decimal `json:"tax_amount_pyg"`
	TotalPYG       decimal.Decimal `json:"total_pyg"`
	Subtotal       Money           `json:"subtotal"`
	TaxAmount      Money           `json:"tax_amount"`
	TotalAmount    Money           `json:"total_amount"`
	TotalAmountUSD decimal.Decimal `json:"total_amount_usd"`
}

// AggregateDocument sums enriched lines into document totals. Per-line PYG
// values are summed first and converted once; summing already-converted
// per-line totals is not guaranteed to match and is deliberately not done
// here. The first line error aborts the whole aggregation: a document that
// moves money is all-or-nothing.
func AggregateDocument(items []EnrichedLineItem, displayCurrency Currency, snap *ExchangeRate) (DocumentTotals, error) {
	if !displayCurrency.Valid() {
		return DocumentTotals{}, fmt.Errorf("unsupported display currency %q", displayCurrency)
	}

	var totals DocumentTotals
	for _, item := range items {
		if item.IsEmpty() {
			continue
		}
		totals.SubtotalPYG = totals.SubtotalPYG.Add(item.Subtotal)
		totals.TaxAmountPYG = totals.TaxAmountPYG.Add(item.TaxAmount)
	}
	totals.TotalPYG = totals.SubtotalPYG.Add(totals.TaxAmountPYG)

	totalPYG := NewMoney(totals.TotalPYG, CurrencyPYG)
	totalAmount, err := ConvertMoney(totalPYG, displayCurrency, snap)
	if err != nil {
		return DocumentTotals{}, err
	}
	totals.TotalAmount = totalAmount

	subtotal, err := ConvertMoney(NewMoney(totals.SubtotalPYG, CurrencyPYG), displayCurrency, snap)
	if err != nil {
		return DocumentTotals{}, err
	}
	totals.Subtotal = subtotal
	// Rounding two independent conversions can drift a minor unit apart, so
	// the display tax is the remainder, not its own conversion.
	totals.TaxAmount = NewMoney(totalAmount.Amount.Sub(subtotal.Amount), displayCurrency)

	// The USD reporting total is computed even for PYG documents. A
	// document priced in EUR captures a EUR snapshot, which cannot reach
	// USD; reporting then leaves the USD figure at zero rather than
	// failing the money-affecting path.
	if displayCurrency == CurrencyUSD {
		totals.TotalAmountUSD = totalAmount.Amount
	} else if snap != nil && snap.Covers(CurrencyUSD) {
		totalUSD, err := ConvertMoney(totalPYG, CurrencyUSD, snap)
		if err != nil {
			return DocumentTotals{}, err
		}
		totals.TotalAmountUSD = totalUSD.Amount
	}

	return totals, nil
}

func (input *NewDocument) validate() error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.DocumentType.Valid() {
		return errors.New("invalid document type")
	}
	if !input.Currency.Valid() {
		return errors.New("invalid currency")
	}
	if len(input.Items) == 0 {
		return errors.New("document requires at least one item")
	}
	return nil
}

// snapshotCurrency picks which foreign currency a document must capture:
// its own when it is priced in a foreign currency, otherwise USD so the
// reporting total stays available.
func snapshotCurrency(docCurrency Currency) Currency {
	if docCurrency == CurrencyPYG {
		return CurrencyUSD
	}
	return docCurrency
}

// CreateDocument computes and persists a document. The active snapshot for
// the document's rate currency is captured on the row; entry screens must
// block submission until every line resolves, so any line error rejects
// the whole document.
func CreateDocument(ctx context.Context, input *NewDocument) (*Document, error) {
	logger := config.GetLogger()

	if err := input.validate(); err != nil {
		return nil, err
	}

	rateCurrency := snapshotCurrency(input.Currency)
	snap, err := GetCurrentExchangeRate(ctx, rateCurrency)
	if err != nil {
		if input.Currency != CurrencyPYG {
			// A foreign-currency document cannot be priced without a rate.
			return nil, utils.ErrorMissingExchangeRate
		}
		snap = nil
	}

	documentDate := input.DocumentDate
	if documentDate.IsZero() {
		documentDate = time.Now().UTC()
	}

	document := Document{
		DocumentType:   input.DocumentType,
		DocumentNumber: fmt.Sprintf("%s-%s", input.DocumentType, uuid.NewString()[:8]),
		DocumentDate:   documentDate,
		ClientName:     input.ClientName,
		Currency:       input.Currency,
		RateCurrency:   rateCurrency,
		Notes:          input.Notes,
	}
	if snap != nil {
		document.ExchangeRateId = snap.ID
		document.ExchangeRate = snap.RateToPYG
	}

	if err := document.computeItems(input.Items, snap); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&document).Error; err != nil {
		config.LogError(logger, "models", "CreateDocument", "insert failed", input.DocumentType, err)
		return nil, err
	}
	return &document, nil
}

// computeItems recomputes every line and the document totals against the
// given snapshot, replacing document.Items. Empty rows are dropped here,
// at submission time; live entry screens keep them visible.
func (document *Document) computeItems(inputs []NewDocumentItem, snap *ExchangeRate) error {
	enriched := make([]EnrichedLineItem, 0, len(inputs))
	details := make([]DocumentItem, 0, len(inputs))

	for _, input := range inputs {
		item := LineItem{
			ProductId:        input.ProductId,
			Description:      input.Description,
			Quantity:         input.Quantity,
			UnitPrice:        NewMoney(input.UnitPrice, document.Currency),
			TaxClass:         input.TaxClass,
			PriceIncludesTax: utils.DereferencePtr(input.PriceIncludesTax, true),
		}
		if item.IsEmpty() {
			continue
		}

		computed, err := ComputeLineItem(item, snap)
		if err != nil {
			return err
		}
		enriched = append(enriched, computed)
		details = append(details, DocumentItem{
			ProductId:        input.ProductId,
			Description:      input.Description,
			Quantity:         input.Quantity,
			UnitPrice:        input.UnitPrice,
			TaxClass:         input.TaxClass,
			PriceIncludesTax: input.PriceIncludesTax,
			UnitPricePYG:     computed.UnitPricePYG,
			Subtotal:         computed.Subtotal,
			TaxAmount:        computed.TaxAmount,
			SubtotalWithTax:  computed.SubtotalWithTax,
		})
	}

	if len(details) == 0 {
		return errors.New("document requires at least one non-empty item")
	}

	totals, err := AggregateDocument(enriched, document.Currency, snap)
	if err != nil {
		return err
	}

	document.Items = details
	document.Subtotal = totals.Subtotal.Amount
	document.TaxAmount = totals.TaxAmount.Amount
	document.TotalAmount = totals.TotalAmount.Amount
	document.SubtotalPYG = totals.SubtotalPYG
	document.TaxAmountPYG = totals.TaxAmountPYG
	document.TotalAmountPYG = totals.TotalPYG
	document.TotalAmountUSD = totals.TotalAmountUSD
	return nil
}

// capturedSnapshot rebuilds the snapshot a persisted document captured.
// The ledger is append-only, so a missing row means the reference is stale.
func (document *Document) capturedSnapshot(ctx context.Context) (*ExchangeRate, error) {
	if document.ExchangeRateId == 0 {
		if document.Currency == CurrencyPYG {
			return nil, nil
		}
		return nil, utils.ErrorStaleSnapshotReference
	}
	return GetExchangeRateById(ctx, document.ExchangeRateId)
}

// UpdateDocumentItems replaces a document's lines and recomputes totals
// with the originally captured snapshot. The capture is only re-resolved
// when the caller explicitly changes the document currency.
func UpdateDocumentItems(ctx context.Context, id int, items []NewDocumentItem, newCurrency *Currency) (*Document, error) {
	db := config.GetDB()

	document, err := GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	var snap *ExchangeRate
	if newCurrency != nil && *newCurrency != document.Currency {
		if !newCurrency.Valid() {
			return nil, errors.New("invalid currency")
		}
		document.Currency = *newCurrency
		document.RateCurrency = snapshotCurrency(*newCurrency)
		snap, err = GetCurrentExchangeRate(ctx, document.RateCurrency)
		if err != nil {
			if *newCurrency != CurrencyPYG {
				return nil, utils.ErrorMissingExchangeRate
			}
			snap = nil
		}
		if snap != nil {
			document.ExchangeRateId = snap.ID
			document.ExchangeRate = snap.RateToPYG
		} else {
			document.ExchangeRateId = 0
			document.ExchangeRate = decimal.Zero
		}
	} else {
		snap, err = document.capturedSnapshot(ctx)
		if err != nil {
			return nil, err
		}
	}

	if err := document.computeItems(items, snap); err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", document.ID).Delete(&DocumentItem{}).Error; err != nil {
			return err
		}
		for i := range document.Items {
			document.Items[i].ID = 0
			document.Items[i].DocumentId = document.ID
		}
		return tx.Save(document).Error
	})
	if err != nil {
		return nil, err
	}
	return document, nil
}

func GetDocument(ctx context.Context, id int) (*Document, error) {
	db := config.GetDB()
	var result Document
	err := db.WithContext(ctx).Preload("Items").First(&result, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetDocuments(ctx context.Context, documentType DocumentType, fromDate, toDate time.Time) ([]*Document, error) {
	db := config.GetDB()
	var results []*Document
	dbCtx := db.WithContext(ctx).Preload("Items")
	if documentType != "" {
		dbCtx = dbCtx.Where("document_type = ?", documentType)
	}
	if !fromDate.IsZero() {
		dbCtx = dbCtx.Where("document_date >= ?", fromDate)
	}
	if !toDate.IsZero() {
		dbCtx = dbCtx.Where("document_date <= ?", toDate)
	}
	err := dbCtx.Order("document_date desc, id desc").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
