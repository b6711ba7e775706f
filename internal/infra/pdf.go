package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateBulkInvoicePDF renders the wholesale invoice for an approved bulk
// order: item table, bulk discount line, GST line when the buyer supplied a
// tax id, and the grand total. The file lands at
// storagePath/invoice_{order_number}.pdf and the path is returned.
func GenerateBulkInvoicePDF(order *model.Order, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("invoice_%s.pdf", order.OrderNumber)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Hazare Dairy Farm", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Bulk Order Tax Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Order info ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Invoice: %s", order.OrderNumber), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, order.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if order.TaxID != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Buyer GSTIN: %s", *order.TaxID), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.46 // product
	col2 := contentW * 0.12 // qty
	col3 := contentW * 0.20 // unit price
	col4 := contentW * 0.22 // line subtotal

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Unit Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range order.Items {
		name := item.ProductID.String()
		if item.Product != nil {
			name = item.Product.Name
		}
		if len(name) > 40 {
			name = name[:39] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "Rs "+item.Price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "Rs "+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(col1+col2+col3, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Rs "+order.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")

	if !order.BulkDiscountPercent.IsZero() {
		discount := order.Subtotal.Sub(order.TotalAmount).Sub(order.TaxAmount)
		label := fmt.Sprintf("Bulk discount (%s%%):", order.BulkDiscountPercent.StringFixed(0))
		pdf.CellFormat(col1+col2+col3, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "-Rs "+discount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if !order.TaxAmount.IsZero() {
		pdf.CellFormat(col1+col2+col3, 6, "GST:", "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "Rs "+order.TaxAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 8, "Rs "+order.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Thank you for your business.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
