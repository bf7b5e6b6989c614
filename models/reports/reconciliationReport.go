package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bluetecpy/storefront_backend/config"
	"github.com/bluetecpy/storefront_backend/models"
)

// ProductActivity is one stream's aggregate for a product: total quantity
// and total PYG amount, summed from purchase or sale line items.
type ProductActivity struct {
	ProductId string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

type ReconciliationRow struct {
	ProductId         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Category          string          `json:"category"`
	PurchasedQuantity decimal.Decimal `json:"purchased_quantity"`
	SoldQuantity      decimal.Decimal `json:"sold_quantity"`
	PurchasedAmount   decimal.Decimal `json:"purchased_amount"`
	SoldAmount        decimal.Decimal `json:"sold_amount"`
	Difference        decimal.Decimal `json:"difference"`
	ProfitAmount      decimal.Decimal `json:"profit_amount"`
	ProfitMargin      decimal.Decimal `json:"profit_margin"`
}

type ReconciliationReport struct {
	Rows []ReconciliationRow `json:"rows"`
	// SkippedRows counts activity for products missing from the catalog.
	// Dashboards render partial results with an explicit notice instead
	// of failing the whole view.
	SkippedRows int `json:"skipped_rows"`
}

// ReconcileProducts joins the purchase and sale streams by product. A row
// is emitted for every catalog product with activity on at least one side;
// products idle on both sides are excluded so the report is not flooded
// with the entire catalog. A positive difference means overstock
// accumulation; a negative one means sales outpacing recorded purchases,
// which is a data-quality signal rather than an error. Rows carry no
// implicit ordering.
func ReconcileProducts(purchases []ProductActivity, sales []ProductActivity, catalog []models.Product) ReconciliationReport {
	purchased := sumActivity(purchases)
	sold := sumActivity(sales)

	known := make(map[string]bool, len(catalog))
	report := ReconciliationReport{Rows: make([]ReconciliationRow, 0, len(catalog))}

	for _, product := range catalog {
		known[product.ID] = true

		p, hasPurchases := purchased[product.ID]
		s, hasSales := sold[product.ID]
		if !hasPurchases && !hasSales {
			continue
		}

		row := ReconciliationRow{
			ProductId:         product.ID,
			ProductName:       product.Name,
			Category:          product.Category,
			PurchasedQuantity: p.Quantity,
			SoldQuantity:      s.Quantity,
			PurchasedAmount:   p.Amount,
			SoldAmount:        s.Amount,
			Difference:        p.Quantity.Sub(s.Quantity),
			ProfitAmount:      s.Amount.Sub(p.Amount),
		}
		// Margin stays numeric for sorting and display: 0 when there is
		// nothing purchased to divide by.
		if p.Amount.IsPositive() {
			row.ProfitMargin = row.ProfitAmount.Div(p.Amount).Mul(decimal.NewFromInt(100)).Round(2)
		}
		report.Rows = append(report.Rows, row)
	}

	skipped := make(map[string]bool)
	for id := range purchased {
		if !known[id] {
			skipped[id] = true
		}
	}
	for id := range sold {
		if !known[id] {
			skipped[id] = true
		}
	}
	report.SkippedRows = len(skipped)

	return report
}

func sumActivity(activities []ProductActivity) map[string]ProductActivity {
	summed := make(map[string]ProductActivity, len(activities))
	for _, activity := range activities {
		if activity.ProductId == "" {
			continue
		}
		entry := summed[activity.ProductId]
		entry.ProductId = activity.ProductId
		entry.Quantity = entry.Quantity.Add(activity.Quantity)
		entry.Amount = entry.Amount.Add(activity.Amount)
		summed[activity.ProductId] = entry
	}
	return summed
}

// GetReconciliationReport loads both transaction streams for the date range
// and reconciles them against the active catalog. A line's amount is
// quantity times its PYG unit price, regardless of how the line's tax was
// flagged; the comparison stays snapshot-faithful because each document's
// captured rate already priced its lines.
func GetReconciliationReport(ctx context.Context, fromDate, toDate time.Time) (ReconciliationReport, error) {
	purchases, err := getProductActivity(ctx, models.DocumentTypePurchase, fromDate, toDate)
	if err != nil {
		return ReconciliationReport{}, err
	}
	sales, err := getProductActivity(ctx, models.DocumentTypeSale, fromDate, toDate)
	if err != nil {
		return ReconciliationReport{}, err
	}
	catalog, err := models.GetActiveProducts(ctx)
	if err != nil {
		return ReconciliationReport{}, err
	}
	return ReconcileProducts(purchases, sales, catalog), nil
}

func getProductActivity(ctx context.Context, documentType models.DocumentType, fromDate, toDate time.Time) ([]ProductActivity, error) {
	sql := `
SELECT
    di.product_id,
    SUM(di.quantity) AS quantity,
    SUM(di.quantity * di.unit_price_pyg) AS amount
FROM
    documents AS d
        JOIN
    document_items AS di ON di.document_id = d.id
WHERE
    d.document_type = @documentType
        AND di.product_id IS NOT NULL
        AND di.product_id != ''
        AND d.document_date BETWEEN @fromDate AND @toDate
GROUP BY di.product_id;
`
	db := config.GetDB()
	var results []ProductActivity
	err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"documentType": documentType,
		"fromDate":     fromDate,
		"toDate":       toDate,
	}).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
