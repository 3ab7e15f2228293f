package pass

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
)

// Document is the data a printable pass page is built from. Rows render in
// order in the details table.
type Document struct {
	Title     string
	Subtitle  string
	Rows      [][2]string
	QRPayload string
	LogoPath  string
	FooterTxt string
	IssuedAt  time.Time
}

const orgName = "Sree Sabari Sastha Seva Samithi"

// RenderPDF produces a single-page A4 pass: header band, optional logo,
// details table and the QR code. A missing or unreadable logo falls back to a
// drawn emblem, never a failed document.
func RenderPDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, false)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	margin := 15.0
	contentW := pageW - 2*margin

	// Header band in the organization orange.
	pdf.SetFillColor(249, 115, 22)
	pdf.Rect(0, 0, pageW, 34, "F")
	drawLogo(pdf, doc.LogoPath, margin, 5, 24)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(margin+28, 8)
	pdf.CellFormat(contentW-28, 10, orgName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetXY(margin+28, 18)
	pdf.CellFormat(contentW-28, 8, doc.Title, "", 1, "L", false, 0, "")

	y := 44.0
	pdf.SetTextColor(15, 23, 42)
	if doc.Subtitle != "" {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetXY(margin, y)
		pdf.CellFormat(contentW, 8, doc.Subtitle, "", 1, "L", false, 0, "")
		y += 12
	}

	labelW := 48.0
	valueW := contentW - labelW
	rowH := 9.0
	pdf.SetDrawColor(229, 231, 235)
	for i, row := range doc.Rows {
		if i%2 == 0 {
			pdf.SetFillColor(250, 250, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetXY(margin, y)
		pdf.SetFont("Helvetica", "B", 10.5)
		pdf.CellFormat(labelW, rowH, row[0], "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10.5)
		pdf.CellFormat(valueW, rowH, truncateToWidth(pdf, row[1], valueW-4), "1", 1, "L", true, 0, "")
		y += rowH
	}

	if doc.QRPayload != "" {
		qrPNG, err := renderQRPNG(doc.QRPayload, 600)
		if err != nil {
			return nil, err
		}
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("pass-qr", opt, bytes.NewReader(qrPNG))
		qrSize := 58.0
		x := (pageW - qrSize) / 2
		pdf.ImageOptions("pass-qr", x, y+10, qrSize, qrSize, false, opt, 0, "")
		y += 10 + qrSize
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(100, 116, 139)
		pdf.SetXY(margin, y+2)
		pdf.CellFormat(contentW, 5, "Show this QR code at the counter", "", 1, "C", false, 0, "")
		y += 10
	}

	footer := doc.FooterTxt
	if footer == "" {
		footer = "May Lord Ayyappa bless you abundantly!"
	}
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(15, 23, 42)
	pdf.SetXY(margin, y+6)
	pdf.CellFormat(contentW, 6, footer, "", 1, "C", false, 0, "")

	issued := doc.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 116, 139)
	pdf.SetXY(margin, 280)
	pdf.CellFormat(contentW, 5, "Issued "+issued.Format("02/01/2006 15:04"), "", 0, "C", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("render pass pdf: %w", err)
	}
	return out.Bytes(), nil
}

// drawLogo places the organization logo, or a fallback emblem when the file
// is missing or not a decodable PNG.
func drawLogo(pdf *gofpdf.Fpdf, path string, x, y, size float64) {
	if path != "" {
		if blob, err := os.ReadFile(path); err == nil {
			if _, err := png.Decode(bytes.NewReader(blob)); err == nil {
				opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
				pdf.RegisterImageOptionsReader("pass-logo", opt, bytes.NewReader(blob))
				pdf.ImageOptions("pass-logo", x, y, size, size, false, opt, 0, "")
				return
			}
		}
	}
	pdf.SetFillColor(255, 255, 255)
	pdf.Circle(x+size/2, y+size/2, size/2, "F")
	pdf.SetTextColor(249, 115, 22)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(x, y+size/2-5)
	pdf.CellFormat(size, 10, "SS", "", 0, "C", false, 0, "")
}

func truncateToWidth(pdf *gofpdf.Fpdf, text string, maxWidth float64) string {
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

func renderQRPNG(payload string, size int) ([]byte, error) {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}
	bounds := scaled.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, scaled, bounds.Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}
	return buf.Bytes(), nil
}
