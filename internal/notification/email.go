// Package notification alerts the sales team when a quote is drafted.
package notification

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"rental_leads_backend/internal/events"
	"rental_leads_backend/platform/config"
	"rental_leads_backend/platform/logger"
)

// SMTPSender delivers notification emails through the company SMTP server
// via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
	salesTeam string
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	if !cfg.GetEmailEnabled() {
		return nil
	}
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		salesTeam: cfg.GetSalesTeamEmail(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendQuoteDraftedEmail notifies the sales team about a freshly drafted quote.
func (s *SMTPSender) SendQuoteDraftedEmail(ctx context.Context, e events.QuoteDrafted) error {
	subject := fmt.Sprintf("Nueva cotización %s", e.QuoteNumber)
	content := fmt.Sprintf(`<html><body>
<h2>Nueva cotización generada</h2>
<p>Número: <strong>%s</strong></p>
<p>Total: <strong>$%d %s</strong></p>
<p>Lead: %s</p>
<p>Fecha: %s</p>
</body></html>`,
		e.QuoteNumber, e.TotalAmount, e.Currency, e.LeadID, e.DraftedAt.Format("02/01/2006 15:04"))

	return s.send(ctx, s.salesTeam, subject, content)
}

// Subscribe attaches the sender to the event bus. A nil sender subscribes
// nothing, so the app runs fine without SMTP configured.
func Subscribe(bus events.Bus, sender *SMTPSender, log *logger.Logger) {
	if sender == nil {
		return
	}

	bus.Subscribe(events.QuoteDrafted{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.QuoteDrafted)
		if !ok {
			return nil
		}
		if err := sender.SendQuoteDraftedEmail(ctx, e); err != nil {
			log.Error("quote drafted email failed", "error", err, "quoteNumber", e.QuoteNumber)
		}
		return nil
	}))
}
