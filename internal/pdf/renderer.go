package pdf

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"rental_leads_backend/internal/quotes/service"
)

// QuoteRenderer fills the quote HTML template and converts it through
// Gotenberg. It implements the quote service's PDFRenderer port.
type QuoteRenderer struct {
	client *GotenbergClient
	tmpl   *template.Template
}

// NewQuoteRenderer returns nil when no Gotenberg client is configured.
func NewQuoteRenderer(client *GotenbergClient) *QuoteRenderer {
	if client == nil {
		return nil
	}
	return &QuoteRenderer{
		client: client,
		tmpl:   template.Must(template.New("quote").Funcs(templateFuncs).Parse(quoteTemplate)),
	}
}

// RenderQuotePDF renders the payload to HTML and converts it to PDF.
func (r *QuoteRenderer) RenderQuotePDF(ctx context.Context, payload service.RenderPayload) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, payload); err != nil {
		return nil, fmt.Errorf("render quote template: %w", err)
	}
	return r.client.ConvertHTML(ctx, buf.Bytes(), DefaultQuoteOpts())
}

var templateFuncs = template.FuncMap{
	"mxn": func(amount int64) string {
		return fmt.Sprintf("$%s MXN", groupThousands(amount))
	},
}

func groupThousands(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

const quoteTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; font-size: 13px; }
  h1 { font-size: 20px; margin-bottom: 0; }
  .meta { color: #666; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; margin: 16px 0; }
  th, td { text-align: left; padding: 8px 10px; border-bottom: 1px solid #ddd; }
  th { background: #f4f4f4; font-size: 12px; text-transform: uppercase; }
  td.amount, th.amount { text-align: right; }
  tr.primary { background: #eef6ff; font-weight: bold; }
  .badge { font-size: 10px; background: #2a7; color: #fff; padding: 2px 6px; border-radius: 3px; margin-left: 6px; }
  .summary { margin-top: 20px; float: right; width: 280px; }
  .summary td { border: none; padding: 4px 10px; }
  .summary tr.total td { font-weight: bold; border-top: 2px solid #1a1a1a; }
  .terms { clear: both; margin-top: 48px; font-size: 11px; color: #666; }
</style>
</head>
<body>
  <h1>Cotización {{.QuoteNumber}}</h1>
  <div class="meta">
    {{if .LeadName}}<div>Cliente: {{.LeadName}}</div>{{end}}
    <div>Teléfono: {{.LeadPhone}}</div>
    <div>Fecha: {{.IssuedAt.Format "02/01/2006"}}</div>
    <div>Duración solicitada: {{.DurationDays}} día(s)</div>
  </div>

  <table>
    <thead>
      <tr>
        <th>Opción</th>
        <th class="amount">Renta</th>
        <th class="amount">Traslado</th>
        <th class="amount">Subtotal</th>
        <th class="amount">IVA</th>
        <th class="amount">Total</th>
        <th class="amount">Costo/día</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr{{if .IsPrimary}} class="primary"{{end}}>
        <td>{{.Label}}{{if .IsCheapest}}<span class="badge">Mejor costo/día</span>{{end}}</td>
        <td class="amount">{{mxn .RentalBase}}</td>
        <td class="amount">{{mxn .Transport}}</td>
        <td class="amount">{{mxn .Subtotal}}</td>
        <td class="amount">{{mxn .VAT}}</td>
        <td class="amount">{{mxn .Total}}</td>
        <td class="amount">{{mxn .PerDayCost}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="summary">
    <tr><td>Subtotal</td><td class="amount">{{mxn .Subtotal}}</td></tr>
    <tr><td>IVA (16%)</td><td class="amount">{{mxn .VAT}}</td></tr>
    <tr class="total"><td>Total</td><td class="amount">{{mxn .Total}}</td></tr>
  </table>

  <div class="terms">{{.Terms}}</div>
</body>
</html>`
