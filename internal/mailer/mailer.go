package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"intakeflow/internal/domain"
	"intakeflow/internal/logger"
	"intakeflow/internal/pkg/phone"
)

// Service sends operator emails. With a SendGrid key the mail goes out
// through SendGrid; without one it is only logged (development mode).
type Service struct {
	fromEmail string
	fromName  string
	baseURL   string
	log       logger.Logger

	send func(ctx context.Context, msg *mail.SGMailV3) (status int, body string, err error)
}

func NewService(fromEmail, fromName, baseURL, sendGridAPIKey string, log logger.Logger) *Service {
	s := &Service{
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       log.With("component", "mailer"),
	}
	if sendGridAPIKey != "" {
		client := sendgrid.NewSendClient(sendGridAPIKey)
		s.send = func(ctx context.Context, msg *mail.SGMailV3) (int, string, error) {
			resp, err := client.SendWithContext(ctx, msg)
			if err != nil {
				return 0, "", err
			}
			return resp.StatusCode, resp.Body, nil
		}
		s.log.Info("email service initialized with SendGrid")
	} else {
		s.log.Warn("email service in log-only mode, set SENDGRID_API_KEY to send mail")
	}
	return s
}

// SendHotLeadAlert emails the firm's notification address about a hot lead.
// Firms without a notification address are skipped.
func (s *Service) SendHotLeadAlert(ctx context.Context, firm *domain.Firm, lead *domain.Lead) error {
	to := firm.NotificationEmail
	if to == "" {
		to = firm.Email
	}
	if to == "" {
		return nil
	}

	leadURL := fmt.Sprintf("%s/dashboard/leads/%s", s.baseURL, lead.ID)
	subject := fmt.Sprintf("Hot lead: %s (%s)", lead.ClientName, lead.CaseType)
	plain, htmlBody := hotLeadBodies(lead, leadURL)

	if s.send == nil {
		s.log.Info("hot lead email not sent (log-only mode)",
			"to", to, "subject", subject, "lead_id", lead.ID, "lead_url", leadURL)
		return nil
	}

	msg := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(firm.Name, to),
		plain,
		htmlBody,
	)
	status, body, err := s.send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if status >= 400 {
		s.log.Error("sendgrid rejected email", "status", status, "body", body)
		return fmt.Errorf("sendgrid returned error status: %d", status)
	}

	s.log.Info("hot lead email sent", "to", to, "lead_id", lead.ID, "status", status)
	return nil
}

func hotLeadBodies(l *domain.Lead, leadURL string) (plain, htmlBody string) {
	rows := [][2]string{
		{"Name", l.ClientName},
		{"Email", l.ClientEmail},
		{"Phone", phone.Display(l.ClientPhone)},
		{"Preferred contact", l.PreferredContact + ", " + l.BestTime},
		{"Case type", l.CaseType},
		{"Location", location(l)},
		{"Timeline", l.Timeline},
		{"Budget", l.Budget},
	}

	var p, h strings.Builder
	p.WriteString("A new hot lead just came in.\n\n")
	h.WriteString("<html><body><h2>New hot lead</h2><table>")
	for _, r := range rows {
		fmt.Fprintf(&p, "%s: %s\n", r[0], r[1])
		fmt.Fprintf(&h, "<tr><td><strong>%s</strong></td><td>%s</td></tr>", r[0], html.EscapeString(r[1]))
	}
	if l.CaseDetails != "" {
		fmt.Fprintf(&p, "\n%s\n", l.CaseDetails)
		fmt.Fprintf(&h, "</table><p>%s</p>", html.EscapeString(l.CaseDetails))
	} else {
		h.WriteString("</table>")
	}
	fmt.Fprintf(&p, "\nOpen the lead: %s\n", leadURL)
	fmt.Fprintf(&h, `<p><a href="%s">Open the lead</a></p></body></html>`, html.EscapeString(leadURL))
	return p.String(), h.String()
}

func location(l *domain.Lead) string {
	if l.Country != nil && *l.Country != "" {
		return l.State + " (" + *l.Country + ")"
	}
	return l.State
}
