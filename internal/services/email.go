package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"mime"
	"net/smtp"
	"strings"
	"unicode"

	"talentdesk/internal/config"
	"talentdesk/internal/domain"
	"talentdesk/internal/metrics"
)

const submittedLayout = "January 2, 2006 at 3:04 PM"

var inquiryEmailHTML = template.Must(template.New("inquiry").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>New Contact Inquiry</title></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #334155;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #1C5D99;">New Contact Inquiry #{{.ID}}</h2>
        <div style="background: #F8FAFC; padding: 20px; border-radius: 8px;">
            <p><strong>Name:</strong> {{.FullName}}</p>
            <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
            <p><strong>Company:</strong> {{.Company}}</p>
            <p><strong>Subject:</strong> {{.Subject}}</p>
            <p><strong>Submitted:</strong> {{.Submitted}}</p>
        </div>
        <div style="padding: 20px; border-left: 4px solid #1C5D99; margin: 20px 0;">
            <p style="white-space: pre-wrap;">{{.Content}}</p>
        </div>
        <p style="color: #64748B; font-size: 14px;">Reference: {{.Reference}}. Claim it from the sales portal.</p>
    </div>
</body>
</html>`))

// EmailService handles sending emails
type EmailService struct {
	cfg      *config.EmailConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg, sendMail: smtp.SendMail}
}

// IsEnabled returns whether email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.cfg.Enabled
}

// NotifyNewInquiry emails the configured admin address about a submission
func (s *EmailService) NotifyNewInquiry(ctx context.Context, inquiry *domain.ContactInquiry) error {
	if !s.cfg.Enabled || s.cfg.AdminEmail == "" {
		log.Printf("[NOTIFY] New contact inquiry from %s (%s), email disabled", inquiry.FullName, inquiry.Email)
		return nil
	}

	view := inquiryView(inquiry)
	var html bytes.Buffer
	if err := inquiryEmailHTML.Execute(&html, view); err != nil {
		return fmt.Errorf("render inquiry email: %w", err)
	}
	text := fmt.Sprintf("New Contact Inquiry #%d\n\nName: %s\nEmail: %s\nCompany: %s\nSubject: %s\nSubmitted: %s\n\n%s\n\nReference: %s",
		view.ID, view.FullName, view.Email, view.Company, view.Subject, view.Submitted, view.Content, view.Reference)

	subject := fmt.Sprintf("New contact inquiry from %s: %s", headerValue(inquiry.FullName), headerValue(inquiry.Subject))
	err := s.SendHTMLEmail(s.cfg.AdminEmail, subject, html.String(), text)
	metrics.RecordNotification("email", err)
	return err
}

type inquiryEmailView struct {
	ID        uint
	Reference string
	FullName  string
	Email     string
	Company   string
	Subject   string
	Content   string
	Submitted string
}

func inquiryView(inq *domain.ContactInquiry) inquiryEmailView {
	company := "Not provided"
	if inq.Company != nil && *inq.Company != "" {
		company = *inq.Company
	}
	return inquiryEmailView{
		ID:        inq.ID,
		Reference: inq.Reference.String(),
		FullName:  inq.FullName,
		Email:     inq.Email,
		Company:   company,
		Subject:   inq.Subject,
		Content:   inq.Content,
		Submitted: inq.CreatedAt.Format(submittedLayout),
	}
}

// SendHTMLEmail sends an HTML email with plain text fallback
func (s *EmailService) SendHTMLEmail(to, subject, htmlBody, textBody string) error {
	if !s.cfg.Enabled {
		log.Printf("[NOTIFY] Would send email to %s: %s", to, subject)
		return nil
	}
	if s.cfg.SMTPHost == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return fmt.Errorf("email service not properly configured")
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	from := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	msg := buildMultipart(from, to, subject, htmlBody, textBody)
	if err := s.sendMail(addr, auth, s.cfg.FromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildMultipart(from, to, subject, htmlBody, textBody string) []byte {
	const boundary = "----=_TalentDeskPart"
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\nTo: %s\r\nSubject: %s\r\n",
		headerValue(from), headerValue(to), mime.QEncoding.Encode("utf-8", headerValue(subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// headerValue folds every line break and control character into a single
// space so user input cannot start a new header line.
func headerValue(v string) string {
	return strings.Join(strings.FieldsFunc(v, func(r rune) bool {
		return r == ' ' || unicode.IsControl(r)
	}), " ")
}
