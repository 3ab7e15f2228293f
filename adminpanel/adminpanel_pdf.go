package adminpanel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"sevabook/models"
)

// tableDoc is a fixed-layout multi-page listing: header band, repeated column
// headers, alternating row shading and page-numbered footers.
type tableDoc struct {
	Title    string
	Subtitle string
	Headers  []string
	Widths   []float64
	Rows     [][]string
}

func renderAnnadanamListPDF(date, session string, rows []models.AnnadanamBooking) ([]byte, error) {
	doc := tableDoc{
		Title:    "Annadanam Bookings",
		Subtitle: fmt.Sprintf("Date: %s   Session: %s   Total: %d", date, session, len(rows)),
		Headers:  []string{"#", "Name", "Phone", "Session", "Qty", "Status", "Attended"},
		Widths:   []float64{10, 70, 35, 50, 15, 30, 30},
	}
	for i, b := range rows {
		attended := "-"
		if b.AttendedAt != nil {
			attended = b.AttendedAt.Format("15:04")
		}
		doc.Rows = append(doc.Rows, []string{
			fmt.Sprintf("%d", i+1), b.Name, b.Phone, b.Session,
			fmt.Sprintf("%d", b.Qty), b.Status, attended,
		})
	}
	return renderTablePDF(doc)
}

func renderPoojaListPDF(date, session string, rows []models.PoojaBooking) ([]byte, error) {
	doc := tableDoc{
		Title:    "Pooja Bookings",
		Subtitle: fmt.Sprintf("Date: %s   Session: %s   Total: %d", date, session, len(rows)),
		Headers:  []string{"#", "Name", "Phone", "Session", "Nakshatram", "Gothram", "Status"},
		Widths:   []float64{10, 60, 35, 25, 45, 40, 25},
	}
	for i, b := range rows {
		doc.Rows = append(doc.Rows, []string{
			fmt.Sprintf("%d", i+1), b.Name, b.Phone, b.Session,
			b.Nakshatram, b.Gothram, b.Status,
		})
	}
	return renderTablePDF(doc)
}

func renderTablePDF(doc tableDoc) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(doc.Title, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")

	pageW, pageH := 297.0, 210.0
	margin := 12.0
	rowH := 8.0
	headerBottom := 40.0
	footerTop := pageH - 14

	newPage := func() {
		pdf.AddPage()

		pdf.SetFillColor(249, 115, 22)
		pdf.Rect(0, 0, pageW, 24, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 15)
		pdf.SetXY(margin, 6)
		pdf.CellFormat(pageW-2*margin, 8, "Sree Sabari Sastha Seva Samithi", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetXY(margin, 14)
		pdf.CellFormat(pageW-2*margin, 6, doc.Title, "", 1, "L", false, 0, "")

		pdf.SetTextColor(15, 23, 42)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(margin, 28)
		pdf.CellFormat(pageW-2*margin, 6, doc.Subtitle, "", 1, "L", false, 0, "")

		pdf.SetXY(margin, headerBottom-rowH)
		pdf.SetFont("Helvetica", "B", 9.5)
		pdf.SetFillColor(229, 231, 235)
		for i, h := range doc.Headers {
			pdf.CellFormat(doc.Widths[i], rowH, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(100, 116, 139)
		pdf.SetXY(margin, footerTop)
		pdf.CellFormat(pageW-2*margin, 5,
			fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(15, 23, 42)
		pdf.SetXY(margin, headerBottom)
	}

	newPage()
	pdf.SetFont("Helvetica", "", 9.5)
	for i, row := range doc.Rows {
		if pdf.GetY()+rowH > footerTop-2 {
			newPage()
			pdf.SetFont("Helvetica", "", 9.5)
		}
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetX(margin)
		for j, cell := range row {
			pdf.CellFormat(doc.Widths[j], rowH, clipCell(pdf, cell, doc.Widths[j]-3), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(doc.Rows) == 0 {
		pdf.SetX(margin)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(pageW-2*margin, rowH, "No bookings", "", 1, "L", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("render table pdf: %w", err)
	}
	return out.Bytes(), nil
}

func clipCell(pdf *gofpdf.Fpdf, text string, maxWidth float64) string {
	if pdf.GetStringWidth(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "..."
		if pdf.GetStringWidth(candidate) <= maxWidth {
			return candidate
		}
	}
	return "..."
}
