package certrender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData(style string) Data {
	return Data{
		CertificateID:    "9f6e2a74-1e0c-4b9a-a1de-0c1df12f8a11",
		StudentName:      "Somchai Jaidee",
		CourseName:       "Introduction to Data Engineering",
		InstructorName:   "Dr. Araya Pornpitak",
		IssuerName:       "EduLab Academy",
		CompletionDate:   "14/03/2025",
		SerialNo:         "CERT-20250314-8KX2QD",
		VerificationCode: "3f7a1c9d2b8e4f60a5d1c3e7b9f02468",
		VerifyURL:        "https://lms.example.com/verify/9f6e2a74",
		Style:            style,
		PrimaryColor:     "#881337",
		SecondaryColor:   "#1f2937",
		Locale:           "th",
	}
}

func TestNormalizeStyle(t *testing.T) {
	assert.Equal(t, StyleClassic, NormalizeStyle("classic"))
	assert.Equal(t, StyleMinimalist, NormalizeStyle("minimalist"))
	assert.Equal(t, StyleModern, NormalizeStyle("modern"))

	// Unknown styles fall back to classic rather than failing the render
	assert.Equal(t, StyleClassic, NormalizeStyle("vintage"))
	assert.Equal(t, StyleClassic, NormalizeStyle(""))
}

func TestParseHexColor(t *testing.T) {
	r, g, b := parseHexColor("#881337")
	assert.Equal(t, 0x88, r)
	assert.Equal(t, 0x13, g)
	assert.Equal(t, 0x37, b)

	// Malformed values degrade to black
	r, g, b = parseHexColor("not-a-color")
	assert.Equal(t, 0, r)
	assert.Equal(t, 0, g)
	assert.Equal(t, 0, b)
}

func TestLabelsForLocale(t *testing.T) {
	assert.Equal(t, "Certificate of Completion", labelsFor("en").Title)
	assert.Equal(t, labelsFor("th"), labelsFor(""), "Thai is the default locale")
}

func TestVectorRendererProducesPDF(t *testing.T) {
	renderer := NewVectorRenderer("")

	for _, style := range []string{"classic", "minimalist", "modern", "unknown"} {
		t.Run(style, func(t *testing.T) {
			pdf, err := renderer.Render(context.Background(), sampleData(style))
			require.NoError(t, err)
			require.NotEmpty(t, pdf)
			assert.Equal(t, "%PDF", string(pdf[:4]))
		})
	}
}

func TestVectorRendererEmptyData(t *testing.T) {
	renderer := NewVectorRenderer("")

	pdf, err := renderer.Render(context.Background(), Data{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestVectorRendererCancelledContext(t *testing.T) {
	renderer := NewVectorRenderer("")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := renderer.Render(ctx, sampleData("classic"))
	assert.ErrorIs(t, err, context.Canceled)
}
