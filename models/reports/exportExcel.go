package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/bluetecpy/storefront_backend/models"
)

const exportSheet = "Sheet1"

// WriteReconciliationExcel renders a reconciliation report as a flat
// spreadsheet. The exporter is a pure consumer of the computed rows; no
// amounts are recomputed here.
func WriteReconciliationExcel(report ReconciliationReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(exportSheet); err != nil {
		return err
	}

	headers := []string{"ProductId", "ProductName", "Category", "PurchasedQty", "SoldQty",
		"PurchasedAmount", "SoldAmount", "Difference", "ProfitAmount", "ProfitMargin"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(exportSheet, cell, h)
	}

	for i, row := range report.Rows {
		values := []any{
			row.ProductId,
			row.ProductName,
			row.Category,
			row.PurchasedQuantity.InexactFloat64(),
			row.SoldQuantity.InexactFloat64(),
			row.PurchasedAmount.InexactFloat64(),
			row.SoldAmount.InexactFloat64(),
			row.Difference.InexactFloat64(),
			row.ProfitAmount.InexactFloat64(),
			row.ProfitMargin.InexactFloat64(),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			f.SetCellValue(exportSheet, cell, v)
		}
	}

	if report.SkippedRows > 0 {
		cell, err := excelize.CoordinatesToCellName(1, len(report.Rows)+3)
		if err != nil {
			return err
		}
		f.SetCellValue(exportSheet, cell,
			fmt.Sprintf("%d rows skipped due to missing catalog data", report.SkippedRows))
	}

	return f.Write(w)
}

// WriteDocumentTotalsExcel renders a document list with its computed
// totals, one row per document.
func WriteDocumentTotalsExcel(documents []*models.Document, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(exportSheet); err != nil {
		return err
	}

	headers := []string{"DocumentNumber", "Type", "Date", "Client", "Currency",
		"Subtotal", "TaxAmount", "TotalAmount", "TotalPYG", "TotalUSD"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(exportSheet, cell, h)
	}

	for i, document := range documents {
		values := []any{
			document.DocumentNumber,
			string(document.DocumentType),
			document.DocumentDate.Format("2006-01-02"),
			document.ClientName,
			string(document.Currency),
			document.Subtotal.InexactFloat64(),
			document.TaxAmount.InexactFloat64(),
			document.TotalAmount.InexactFloat64(),
			document.TotalAmountPYG.InexactFloat64(),
			document.TotalAmountUSD.InexactFloat64(),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			f.SetCellValue(exportSheet, cell, v)
		}
	}

	return f.Write(w)
}
