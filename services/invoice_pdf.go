package services

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
)

// RenderInvoicePDF writes a one-page A4 invoice for inv to w.
func RenderInvoicePDF(w io.Writer, inv models.Invoice, student models.User) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(inv.InvoiceID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Hostel Invoice", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Block "+inv.HostelBlock, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}
	row("Invoice No.", inv.InvoiceID)
	row("Issued", inv.CreatedAt.Format("02 Jan 2006"))
	row("Due", inv.DueDate.Format("02 Jan 2006"))
	row("Student", fmt.Sprintf("%s (%s)", student.FullName, student.StudentID))
	row("Room", fmt.Sprintf("%s / %s", student.HostelBlock, student.RoomNO))
	pdf.Ln(4)

	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(130, 9, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 9, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(130, 9, inv.Title, "LR", 0, "L", false, 0, "")
	pdf.CellFormat(0, 9, utils.FormatRupees(inv.Amount), "LR", 1, "R", false, 0, "")
	pdf.MultiCell(130, 6, inv.Description, "LRB", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 9, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(0, 9, utils.FormatRupees(inv.Amount), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	status := "UNPAID"
	if inv.Status == models.InvoicePaid {
		status = "PAID"
		if inv.PaidAt != nil {
			status += " on " + inv.PaidAt.Format("02 Jan 2006")
		}
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, status, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 6, "Generated "+time.Now().UTC().Format(time.RFC1123), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}
