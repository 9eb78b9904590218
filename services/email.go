package services

import (
	"bytes"
	"fmt"
	"html/template"
	"sponsorship_console/config"
	"strings"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Email represents an email message
type Email struct {
	To          []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []EmailAttachment
}

// EmailAttachment is a file sent along with an email
type EmailAttachment struct {
	FileName string
	Content  []byte
}

// Mailer sends email through Resend, or logs it in test mode
type Mailer struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewMailer(cfg *config.Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Send delivers the email
func (m *Mailer) Send(email *Email) error {
	if m.cfg.EmailTestMode {
		m.logToConsole(email)
		return nil
	}

	if m.cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}
	if email.HTMLBody == "" && email.TextBody == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", m.cfg.EmailFromName, m.cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}
	for _, a := range email.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Content:  a.Content,
			Filename: a.FileName,
		})
	}

	client := resend.NewClient(m.cfg.ResendAPIKey)
	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	m.logger.Info("email sent", zap.String("id", sent.Id), zap.Strings("to", email.To))
	return nil
}

func (m *Mailer) logToConsole(email *Email) {
	names := make([]string, 0, len(email.Attachments))
	for _, a := range email.Attachments {
		names = append(names, fmt.Sprintf("%s (%s)", a.FileName, FormatFileSize(int64(len(a.Content)))))
	}
	m.logger.Info("email logged (test mode, not sent)",
		zap.Strings("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("text", email.TextBody),
		zap.String("html", truncate(email.HTMLBody, 500)),
		zap.Strings("attachments", names),
	)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

var exportEmailHTML = template.Must(template.New("export").Parse(
	`<p>Hello,</p>
<p>The {{.Report}} report generated on {{.Date}} is attached ({{.Rows}} rows).</p>
{{if .Filters}}<p>Filters: {{.Filters}}</p>{{end}}
<p>Sponsorship Console</p>`))

// ExportEmailData describes an export being mailed
type ExportEmailData struct {
	Report  string
	Date    string
	Rows    int
	Filters string
}

// BuildExportEmail wraps an export file in an email to the given recipients
func BuildExportEmail(to []string, data ExportEmailData, fileName string, content []byte) (*Email, error) {
	var html bytes.Buffer
	if err := exportEmailHTML.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render export email: %w", err)
	}

	text := fmt.Sprintf("The %s report generated on %s is attached (%d rows).", data.Report, data.Date, data.Rows)
	if data.Filters != "" {
		text += "\nFilters: " + data.Filters
	}

	return &Email{
		To:       to,
		Subject:  fmt.Sprintf("%s report - %s", titleWords(data.Report), data.Date),
		HTMLBody: html.String(),
		TextBody: text,
		Attachments: []EmailAttachment{
			{FileName: fileName, Content: content},
		},
	}, nil
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
