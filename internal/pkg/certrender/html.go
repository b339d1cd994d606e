package certrender

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTMLRenderer renders the certificate as an HTML page and posts it to a
// converter service that returns the resulting PDF.
type HTMLRenderer struct {
	client       *resty.Client
	converterURL string
	tmpl         *template.Template
}

// NewHTMLRenderer creates an HTML renderer against the given converter URL.
func NewHTMLRenderer(converterURL string, timeout time.Duration) (*HTMLRenderer, error) {
	tmpl, err := template.New("certificate").Parse(certificateHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate template: %w", err)
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	return &HTMLRenderer{
		client:       client,
		converterURL: converterURL,
		tmpl:         tmpl,
	}, nil
}

type htmlViewData struct {
	Data
	Labels     labels
	StyleClass string
}

// Render builds the HTML document and converts it to PDF remotely.
func (r *HTMLRenderer) Render(ctx context.Context, data Data) ([]byte, error) {
	view := htmlViewData{
		Data:       data,
		Labels:     labelsFor(data.Locale),
		StyleClass: string(NormalizeStyle(data.Style)),
	}

	var html bytes.Buffer
	if err := r.tmpl.Execute(&html, view); err != nil {
		return nil, fmt.Errorf("failed to render certificate HTML: %w", err)
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/html; charset=utf-8").
		SetBody(html.Bytes()).
		Post(r.converterURL)
	if err != nil {
		return nil, fmt.Errorf("html converter request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("html converter returned status %d: %s", resp.StatusCode(), resp.String())
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("html converter returned an empty document")
	}
	return body, nil
}

const certificateHTML = `<!DOCTYPE html>
<html lang="{{.Locale}}">
<head>
<meta charset="utf-8">
<style>
  @page { size: A4 landscape; margin: 0; }
  body { font-family: "Sarabun", "Helvetica", sans-serif; margin: 0; color: {{.SecondaryColor}}; }
  .page { width: 1122px; height: 793px; position: relative; box-sizing: border-box; }
  h1 { color: {{.PrimaryColor}}; font-size: 44px; margin: 0 0 30px; }
  .name { color: {{.PrimaryColor}}; font-size: 38px; font-weight: 700; margin: 24px 0; }
  .course { font-size: 28px; font-weight: 700; margin: 18px 0; }
  .meta { font-size: 16px; margin-top: 28px; }
  .serial { position: absolute; bottom: 36px; font-size: 12px; color: {{.PrimaryColor}}; }

  .classic { text-align: center; padding: 110px 90px;
    border: 4px solid {{.PrimaryColor}}; outline: 1px solid {{.SecondaryColor}}; outline-offset: -12px; }
  .classic .serial { left: 90px; }

  .minimalist { padding: 110px 0 0 140px;
    border-left: 86px solid {{.PrimaryColor}}; border-bottom: 24px solid {{.SecondaryColor}}; }
  .minimalist .serial { left: 140px; }

  .modern { padding: 110px 0 0 400px; }
  .modern .panel { position: absolute; left: 0; top: 0; width: 333px; height: 100%;
    background: {{.PrimaryColor}}; color: #fff; text-align: center; }
  .modern .panel h1 { color: #fff; margin-top: 140px; }
  .modern .serial { left: 400px; }
</style>
</head>
<body>
<div class="page {{.StyleClass}}">
  {{if eq .StyleClass "modern"}}<div class="panel"><h1>{{.Labels.Title}}</h1>
    {{if .IssuerName}}<p>{{.IssuerName}}</p>{{end}}</div>
  {{else}}<h1>{{.Labels.Title}}</h1>{{end}}
  <p>{{.Labels.Presented}}</p>
  {{if eq .StyleClass "minimalist"}}<div class="name">[{{.StudentName}}]</div>
  {{else}}<div class="name">{{.StudentName}}</div>{{end}}
  <p>{{.Labels.Completed}}</p>
  <div class="course">{{.CourseName}}</div>
  <div class="meta">
    <p>{{.Labels.DateLabel}} {{.CompletionDate}}</p>
    {{if and .IssuerName (ne .StyleClass "modern")}}<p>{{.IssuerName}}</p>{{end}}
    <p>{{.InstructorName}}</p>
  </div>
  <div class="serial">{{.Labels.SerialLbl}} {{.SerialNo}}</div>
</div>
</body>
</html>`
