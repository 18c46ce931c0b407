package infra

// pdf.go — receipt rendering with go-pdf/fpdf.
// The input is exclusively the frozen snapshot captured at confirmation:
// rendering never reads live customer, plan or company rows, so rerendering
// a receipt months later produces the same document.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/EstebanRsh/UP/internal/model"

	"github.com/go-pdf/fpdf"
)

var monthNames = [...]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// GenerateReceiptPDF renders a payment receipt from its snapshot into
// storagePath (created if needed) and returns the absolute file path. The
// file is named after the receipt number, so a rerender overwrites the
// previous output instead of accumulating copies.
func GenerateReceiptPDF(snap *model.ReceiptSnapshot, storagePath, currencySymbol string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", snap.ReceiptNumber)
	filePath := filepath.Join(storagePath, fileName)

	// A5 landscape, the classic counter receipt size
	pdf := fpdf.New("L", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header: company identity ─────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 8, snap.Company.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	if snap.Company.TaxID != "" {
		pdf.CellFormat(contentW, 4, "Tax ID: "+snap.Company.TaxID, "", 1, "L", false, 0, "")
	}
	companyLine := snap.Company.Address
	if snap.Company.City != "" {
		if companyLine != "" {
			companyLine += " — "
		}
		companyLine += snap.Company.City
	}
	if companyLine != "" {
		pdf.CellFormat(contentW, 4, companyLine, "", 1, "L", false, 0, "")
	}
	if snap.Company.Contact != "" {
		pdf.CellFormat(contentW, 4, snap.Company.Contact, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Receipt number and date ──────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW*0.6, 7, "RECEIPT "+snap.ReceiptNumber, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.4, 7, snap.IssuedAt.Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Customer block ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Received from", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%s  (customer %s)", snap.Customer.FullName, snap.Customer.CustomerNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Document: "+snap.Customer.Document, "", 1, "L", false, 0, "")
	if snap.Customer.Address != "" {
		pdf.CellFormat(contentW, 5, snap.Customer.Address, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Payment detail ───────────────────────────────────────────────────────
	col1 := contentW * 0.68
	col2 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Concept", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Amount", "B", 1, "R", false, 0, "")

	period := fmt.Sprintf("%s %d", monthNames[snap.Payment.PeriodMonth], snap.Payment.PeriodYear)
	concept := snap.Payment.Concept + " — " + period
	if snap.Payment.Advance {
		concept += " (advance)"
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(col1, 6, concept, "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, currencySymbol+snap.Payment.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1, 7, "TOTAL ("+snap.Payment.Currency+")", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, currencySymbol+snap.Payment.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	method := "Cash"
	if snap.Payment.Method == model.MethodBankTransfer {
		method = "Bank transfer"
	}
	pdf.CellFormat(contentW, 5, "Payment method: "+method, "", 1, "L", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "This receipt certifies the payment detailed above.", "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
