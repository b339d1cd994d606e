package certrender

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DelegatedRenderer asks an external certificate service to produce the PDF.
// The service authenticates the request via a shared render token.
type DelegatedRenderer struct {
	client  *resty.Client
	baseURL string
	token   string
}

// NewDelegatedRenderer creates a delegated renderer against baseURL.
// Rendering is slow on the remote side, so the timeout is generous and there
// is exactly one attempt per certificate.
func NewDelegatedRenderer(baseURL, token string, timeout time.Duration) *DelegatedRenderer {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	return &DelegatedRenderer{
		client:  client,
		baseURL: baseURL,
		token:   token,
	}
}

// Render fetches the finished PDF from the remote service.
func (r *DelegatedRenderer) Render(ctx context.Context, data Data) ([]byte, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"certId": data.CertificateID,
			"token":  r.token,
		}).
		Get(r.baseURL + "/api/render-cert")
	if err != nil {
		return nil, fmt.Errorf("delegated render request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("delegated renderer returned status %d: %s", resp.StatusCode(), resp.String())
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("delegated renderer returned an empty document")
	}
	return body, nil
}
