// Package certrender renders certificate PDFs from issuance snapshots.
// Three backends are available: a local vector renderer, an HTML template
// renderer that posts to a PDF converter, and a delegated renderer that
// asks an external service to produce the document.
package certrender

import (
	"context"
	"strconv"
	"strings"
)

// Style identifies one of the built-in certificate layouts
type Style string

const (
	StyleClassic    Style = "classic"
	StyleMinimalist Style = "minimalist"
	StyleModern     Style = "modern"
)

// NormalizeStyle maps unknown styles to the classic layout so that stale
// template rows never fail a render.
func NormalizeStyle(s string) Style {
	switch Style(s) {
	case StyleClassic, StyleMinimalist, StyleModern:
		return Style(s)
	}
	return StyleClassic
}

// Data carries everything a renderer needs for one certificate. All fields
// are snapshots; renderers never touch the database.
type Data struct {
	CertificateID    string
	StudentName      string
	CourseName       string
	InstructorName   string
	IssuerName       string
	CompletionDate   string // preformatted, DD/MM/YYYY
	SerialNo         string
	VerificationCode string
	VerifyURL        string
	Style            string
	PrimaryColor     string // #rrggbb
	SecondaryColor   string // #rrggbb
	Locale           string // "th" or "en"
}

// Renderer produces a finished PDF for one certificate
type Renderer interface {
	Render(ctx context.Context, data Data) ([]byte, error)
}

// labels holds the static strings printed on a certificate
type labels struct {
	Title     string
	Presented string
	Completed string
	DateLabel string
	SerialLbl string
}

func labelsFor(locale string) labels {
	if strings.EqualFold(locale, "en") {
		return labels{
			Title:     "Certificate of Completion",
			Presented: "This certificate is presented to",
			Completed: "for successfully completing the course",
			DateLabel: "Date of completion",
			SerialLbl: "Serial No.",
		}
	}
	// Thai is the default locale
	return labels{
		Title:     "ประกาศนียบัตร",
		Presented: "ขอมอบให้เพื่อแสดงว่า",
		Completed: "ได้สำเร็จการอบรมหลักสูตร",
		DateLabel: "สำเร็จเมื่อวันที่",
		SerialLbl: "เลขที่",
	}
}

// parseHexColor converts "#rrggbb" to RGB components. Malformed values fall
// back to black so a bad template row degrades instead of failing the batch.
func parseHexColor(hex string) (r, g, b int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
