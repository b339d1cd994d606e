package certrender

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// A4 landscape in points
const (
	pageW = 841.89
	pageH = 595.28
)

// VectorRenderer draws certificates directly as vector PDFs. It is the
// default backend and needs no external service.
type VectorRenderer struct {
	fontDir     string
	family      string
	regularFile string
	boldFile    string
}

// NewVectorRenderer creates a vector renderer. When fontDir contains the
// Sarabun TTF files they are used for full Thai coverage, otherwise the
// built-in Helvetica is used.
func NewVectorRenderer(fontDir string) *VectorRenderer {
	r := &VectorRenderer{fontDir: fontDir, family: "Helvetica"}
	if fontDir == "" {
		return r
	}
	if _, err := os.Stat(filepath.Join(fontDir, "Sarabun-Regular.ttf")); err == nil {
		r.family = "Sarabun"
		r.regularFile = "Sarabun-Regular.ttf"
		r.boldFile = "Sarabun-Regular.ttf"
		if _, err := os.Stat(filepath.Join(fontDir, "Sarabun-Bold.ttf")); err == nil {
			r.boldFile = "Sarabun-Bold.ttf"
		}
	}
	return r
}

// Render draws one certificate and returns the finished PDF bytes.
func (r *VectorRenderer) Render(ctx context.Context, data Data) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "pt", "A4", r.fontDir)
	if r.family != "Helvetica" {
		pdf.AddUTF8Font(r.family, "", r.regularFile)
		pdf.AddUTF8Font(r.family, "B", r.boldFile)
	}
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	lb := labelsFor(data.Locale)
	switch NormalizeStyle(data.Style) {
	case StyleMinimalist:
		r.drawMinimalist(pdf, data, lb)
	case StyleModern:
		r.drawModern(pdf, data, lb)
	default:
		r.drawClassic(pdf, data, lb)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("vector render failed: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("vector render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// drawClassic renders the double-bordered centered layout.
func (r *VectorRenderer) drawClassic(pdf *fpdf.Fpdf, data Data, lb labels) {
	pr, pg, pb := parseHexColor(data.PrimaryColor)
	sr, sg, sb := parseHexColor(data.SecondaryColor)

	// Double border
	pdf.SetDrawColor(pr, pg, pb)
	pdf.SetLineWidth(3)
	pdf.Rect(20, 20, pageW-40, pageH-40, "D")
	pdf.SetDrawColor(sr, sg, sb)
	pdf.SetLineWidth(1)
	pdf.Rect(30, 30, pageW-60, pageH-60, "D")

	pdf.SetTextColor(pr, pg, pb)
	r.centered(pdf, "B", 36, 120, lb.Title)

	pdf.SetTextColor(sr, sg, sb)
	r.centered(pdf, "", 16, 195, lb.Presented)

	pdf.SetTextColor(pr, pg, pb)
	r.centered(pdf, "B", 30, 250, data.StudentName)

	// Rule under the name
	pdf.SetDrawColor(sr, sg, sb)
	pdf.SetLineWidth(0.8)
	pdf.Line(pageW/2-160, 300, pageW/2+160, 300)

	pdf.SetTextColor(sr, sg, sb)
	r.centered(pdf, "", 16, 330, lb.Completed)
	r.centered(pdf, "B", 22, 375, data.CourseName)
	r.centered(pdf, "", 13, 430, fmt.Sprintf("%s %s", lb.DateLabel, data.CompletionDate))

	if data.IssuerName != "" {
		r.centered(pdf, "", 13, 470, data.IssuerName)
	}
	r.centered(pdf, "", 13, 495, data.InstructorName)

	r.footer(pdf, data, lb, 50)
}

// drawMinimalist renders the left-band layout with the name in brackets.
func (r *VectorRenderer) drawMinimalist(pdf *fpdf.Fpdf, data Data, lb labels) {
	pr, pg, pb := parseHexColor(data.PrimaryColor)
	sr, sg, sb := parseHexColor(data.SecondaryColor)

	// Left band and bottom bar
	pdf.SetFillColor(pr, pg, pb)
	pdf.Rect(0, 0, 65, pageH, "F")
	pdf.SetFillColor(sr, sg, sb)
	pdf.Rect(0, pageH-18, pageW, 18, "F")

	const x = 110.0

	pdf.SetTextColor(pr, pg, pb)
	pdf.SetFont(r.family, "B", 32)
	pdf.Text(x, 140, lb.Title)

	pdf.SetTextColor(sr, sg, sb)
	pdf.SetFont(r.family, "", 15)
	pdf.Text(x, 220, lb.Presented)

	pdf.SetTextColor(pr, pg, pb)
	pdf.SetFont(r.family, "B", 28)
	pdf.Text(x, 275, "["+data.StudentName+"]")

	pdf.SetTextColor(sr, sg, sb)
	pdf.SetFont(r.family, "", 15)
	pdf.Text(x, 330, lb.Completed)
	pdf.SetFont(r.family, "B", 20)
	pdf.Text(x, 370, data.CourseName)

	pdf.SetFont(r.family, "", 12)
	pdf.Text(x, 425, fmt.Sprintf("%s %s", lb.DateLabel, data.CompletionDate))
	if data.IssuerName != "" {
		pdf.Text(x, 455, data.IssuerName)
	}
	pdf.Text(x, 480, data.InstructorName)

	r.footer(pdf, data, lb, x)
}

// drawModern renders the wide left panel layout with body text at x=300.
func (r *VectorRenderer) drawModern(pdf *fpdf.Fpdf, data Data, lb labels) {
	pr, pg, pb := parseHexColor(data.PrimaryColor)
	sr, sg, sb := parseHexColor(data.SecondaryColor)

	// Full-height left panel
	pdf.SetFillColor(pr, pg, pb)
	pdf.Rect(0, 0, 250, pageH, "F")

	// Panel carries the title and issuer in white
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(r.family, "B", 26)
	pdf.SetXY(0, 110)
	pdf.MultiCell(250, 32, lb.Title, "", "C", false)
	if data.IssuerName != "" {
		pdf.SetFont(r.family, "", 13)
		pdf.SetXY(0, pageH-90)
		pdf.MultiCell(250, 16, data.IssuerName, "", "C", false)
	}

	const x = 300.0

	pdf.SetTextColor(sr, sg, sb)
	pdf.SetFont(r.family, "", 15)
	pdf.Text(x, 160, lb.Presented)

	pdf.SetTextColor(pr, pg, pb)
	pdf.SetFont(r.family, "B", 30)
	pdf.Text(x, 220, data.StudentName)

	pdf.SetDrawColor(sr, sg, sb)
	pdf.SetLineWidth(0.8)
	pdf.Line(x, 240, pageW-60, 240)

	pdf.SetTextColor(sr, sg, sb)
	pdf.SetFont(r.family, "", 15)
	pdf.Text(x, 300, lb.Completed)
	pdf.SetFont(r.family, "B", 21)
	pdf.Text(x, 345, data.CourseName)

	pdf.SetFont(r.family, "", 12)
	pdf.Text(x, 410, fmt.Sprintf("%s %s", lb.DateLabel, data.CompletionDate))
	pdf.Text(x, 440, data.InstructorName)

	r.footer(pdf, data, lb, x)
}

// footer prints the serial line and the verification QR in the bottom-right
// corner, shared by all layouts.
func (r *VectorRenderer) footer(pdf *fpdf.Fpdf, data Data, lb labels, x float64) {
	pr, pg, pb := parseHexColor(data.PrimaryColor)
	pdf.SetTextColor(pr, pg, pb)
	pdf.SetFont(r.family, "", 9)
	pdf.Text(x, pageH-40, fmt.Sprintf("%s %s", lb.SerialLbl, data.SerialNo))

	if data.VerifyURL == "" {
		return
	}
	png, err := qrcode.Encode(data.VerifyURL, qrcode.Medium, 256)
	if err != nil {
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("verify-qr", pageW-115, pageH-115, 70, 70, false, opts, 0, "")
}

// centered prints one horizontally centered line at the given baseline.
func (r *VectorRenderer) centered(pdf *fpdf.Fpdf, style string, size, y float64, txt string) {
	pdf.SetFont(r.family, style, size)
	pdf.SetXY(0, y)
	pdf.CellFormat(pageW, size+8, txt, "", 0, "C", false, 0, "")
}
