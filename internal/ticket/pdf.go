package ticket

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/cimillas/gatepass/internal/domain"
)

// Renderer produces the downloadable PDF e-ticket for confirmed purchases.
// The embedded QR encodes a check-in URL carrying the transaction id.
type Renderer struct {
	checkInBaseURL string
}

func NewRenderer(checkInBaseURL string) *Renderer {
	return &Renderer{checkInBaseURL: checkInBaseURL}
}

func (r *Renderer) Render(detail domain.TransactionDetail) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetAutoPageBreak(false, 0)

	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 15, "GATEPASS eTICKET")
	pdf.Ln(20)

	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(8)

	yStart := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, yStart, 120, 48, "F")

	pdf.SetXY(20, yStart+7)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "TICKET DETAILS")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetX(20)
	pdf.Cell(0, 8, fmt.Sprintf("Transaction: %s", detail.ID))
	pdf.Ln(6)
	pdf.SetX(20)
	pdf.Cell(0, 8, fmt.Sprintf("Event: %s", detail.EventName))
	pdf.Ln(6)
	pdf.SetX(20)
	pdf.Cell(0, 8, fmt.Sprintf("Starts: %s", detail.EventStartsAt.Format("2 Jan 2006 15:04 MST")))
	pdf.Ln(6)
	pdf.SetX(20)
	pdf.Cell(0, 8, fmt.Sprintf("Holder: %s (%s)", detail.BuyerName, detail.BuyerEmail))

	qrBytes, err := qrcode.Encode(r.checkInURL(detail.ID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode check-in QR: %w", err)
	}
	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "png"}, bytes.NewReader(qrBytes))
	pdf.ImageOptions("qr", 145, yStart+2, 45, 0, false, gofpdf.ImageOptions{ImageType: "png"}, 0, "")

	pdf.SetY(yStart + 56)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, "Present this QR code at the entrance.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) checkInURL(transactionID string) string {
	return fmt.Sprintf("%s/%s", r.checkInBaseURL, transactionID)
}
