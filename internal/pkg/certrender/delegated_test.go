package certrender

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelegatedRendererFetchesDocument(t *testing.T) {
	var gotPath, gotCertID, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCertID = r.URL.Query().Get("certId")
		gotToken = r.URL.Query().Get("token")
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer server.Close()

	renderer := NewDelegatedRenderer(server.URL, "render-secret", 5*time.Second)
	data := sampleData("classic")

	pdf, err := renderer.Render(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(pdf))
	assert.Equal(t, "/api/render-cert", gotPath)
	assert.Equal(t, data.CertificateID, gotCertID)
	assert.Equal(t, "render-secret", gotToken)
}

func TestDelegatedRendererNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "renderer exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	renderer := NewDelegatedRenderer(server.URL, "render-secret", 5*time.Second)

	_, err := renderer.Render(context.Background(), sampleData("classic"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDelegatedRendererEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	renderer := NewDelegatedRenderer(server.URL, "render-secret", 5*time.Second)

	_, err := renderer.Render(context.Background(), sampleData("classic"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestHTMLRendererPostsRenderedPage(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte("%PDF-1.7 converted"))
	}))
	defer server.Close()

	renderer, err := NewHTMLRenderer(server.URL, 5*time.Second)
	require.NoError(t, err)

	data := sampleData("minimalist")
	pdf, err := renderer.Render(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 converted", string(pdf))

	html := string(gotBody)
	assert.Contains(t, html, "[Somchai Jaidee]", "minimalist layout brackets the student name")
	assert.Contains(t, html, data.SerialNo)
	assert.Contains(t, html, "#881337")
}
