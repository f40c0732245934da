package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lnascimentosilva/library/internal/domain/models"
	"github.com/lnascimentosilva/library/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// BuildReceiptPDF renders one order with its items and status history.
func BuildReceiptPDF(o models.Order) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "ORDER RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Order     : #%d", o.ID),
		fmt.Sprintf("Date      : %s", utils.FormatDateTime(o.CreatedAt)),
		fmt.Sprintf("Customer  : %s", safe(o.Customer.Name, "-")),
		fmt.Sprintf("Email     : %s", safe(o.Customer.Email, "-")),
		fmt.Sprintf("Status    : %s", o.CurrentStatus),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(110, 7, "Book", "B", 0, "", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, it := range o.Items {
		pdf.CellFormat(110, 7, truncate(safe(it.Book.Title, "-"), 55), "", 0, "", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, utils.FormatMoney(it.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, utils.FormatMoney(it.Price*float64(it.Quantity)), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(190, 8, "Total: "+utils.FormatMoney(o.Total), "T", 1, "R", false, 0, "")
	pdf.Ln(6)

	if len(o.History) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, "History")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 10)
		for _, h := range o.History {
			pdf.Cell(0, 6, fmt.Sprintf("%s  %s", utils.FormatDateTime(h.CreatedAt), h.Status))
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("RECEIPT_%d_%s.pdf", o.ID, utils.SafeFilenamePart(o.Customer.Name))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func truncate(v string, n int) string {
	if len(v) <= n {
		return v
	}
	return v[:n-3] + "..."
}
