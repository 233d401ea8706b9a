package services

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"talentdesk/internal/config"
	"talentdesk/internal/domain"
)

func sampleInquiry() *domain.ContactInquiry {
	company := "Acme Corp"
	return &domain.ContactInquiry{
		ID:        42,
		Reference: uuid.New(),
		FullName:  "Vo Thi E",
		Email:     "e@acme.example",
		Company:   &company,
		Subject:   "Need <b>five</b> testers",
		Content:   "Please call back.",
		Status:    domain.StatusNew,
		CreatedAt: time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC),
	}
}

func TestSlackNotifier_PostsWebhook(t *testing.T) {
	var got slack.WebhookMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewSlackNotifier(&config.SlackConfig{Enabled: true, WebhookURL: server.URL, Channel: "#sales"})
	require.NoError(t, n.NotifyNewInquiry(t.Context(), sampleInquiry()))

	assert.Equal(t, "#sales", got.Channel)
	assert.Contains(t, got.Text, "#42")
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "Need <b>five</b> testers", got.Attachments[0].Title)
	assert.Len(t, got.Attachments[0].Fields, 4)
}

func TestSlackNotifier_ReportsWebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewSlackNotifier(&config.SlackConfig{Enabled: true, WebhookURL: server.URL})
	assert.Error(t, n.NotifyNewInquiry(t.Context(), sampleInquiry()))
}

func TestSlackNotifier_DisabledIsNoop(t *testing.T) {
	n := NewSlackNotifier(&config.SlackConfig{Enabled: false})
	n.post = func(_ context.Context, _ string, _ *slack.WebhookMessage) error {
		t.Fatal("disabled notifier must not post")
		return nil
	}
	assert.NoError(t, n.NotifyNewInquiry(t.Context(), sampleInquiry()))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 2))
}

func TestEmailService_NotifyNewInquiry(t *testing.T) {
	cfg := &config.EmailConfig{
		Enabled:    true,
		SMTPHost:   "smtp.example.com",
		SMTPPort:   587,
		Username:   "mailer",
		Password:   "secret",
		FromEmail:  "noreply@example.com",
		FromName:   "TalentDesk",
		AdminEmail: "sales@example.com",
	}
	svc := NewEmailService(cfg)

	var (
		addr string
		to   []string
		body string
	)
	svc.sendMail = func(a string, _ smtp.Auth, _ string, recipients []string, msg []byte) error {
		addr, to, body = a, recipients, string(msg)
		return nil
	}

	require.NoError(t, svc.NotifyNewInquiry(t.Context(), sampleInquiry()))
	assert.Equal(t, "smtp.example.com:587", addr)
	assert.Equal(t, []string{"sales@example.com"}, to)
	assert.Contains(t, body, "From: TalentDesk <noreply@example.com>")
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "Acme Corp")
	assert.Contains(t, body, "March 4, 2026")
	// the HTML part escapes user input
	assert.Contains(t, body, "Need &lt;b&gt;five&lt;/b&gt; testers")
}

func TestEmailService_HeaderValuesStayOnOneLine(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{
		Enabled:    true,
		SMTPHost:   "smtp.example.com",
		SMTPPort:   587,
		Username:   "mailer",
		Password:   "secret",
		FromEmail:  "noreply@example.com",
		AdminEmail: "sales@example.com",
	})
	var body string
	svc.sendMail = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		body = string(msg)
		return nil
	}

	inq := sampleInquiry()
	inq.FullName = "Nguyen Van A\r\nX-Injected: 1"
	inq.Subject = "Hợp tác\r\nBcc: victim@evil.example"
	require.NoError(t, svc.NotifyNewInquiry(t.Context(), inq))

	header, _, ok := strings.Cut(body, "\r\n\r\n")
	require.True(t, ok)
	var subject string
	for _, line := range strings.Split(header, "\r\n") {
		assert.False(t, strings.HasPrefix(line, "Bcc:"), line)
		assert.False(t, strings.HasPrefix(line, "X-Injected:"), line)
		if v, found := strings.CutPrefix(line, "Subject: "); found {
			subject = v
		}
	}
	require.NotEmpty(t, subject)
	assert.True(t, strings.HasPrefix(subject, "=?utf-8?q?"), subject)

	decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
	require.NoError(t, err)
	assert.Equal(t, "New contact inquiry from Nguyen Van A X-Injected: 1: Hợp tác Bcc: victim@evil.example", decoded)
}

func TestEmailService_DisabledOrMisconfigured(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false, AdminEmail: "sales@example.com"})
	svc.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("disabled email service must not send")
		return nil
	}
	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.NotifyNewInquiry(t.Context(), sampleInquiry()))

	broken := NewEmailService(&config.EmailConfig{Enabled: true, AdminEmail: "sales@example.com"})
	assert.Error(t, broken.NotifyNewInquiry(t.Context(), sampleInquiry()))
}

func TestMultiNotifier_CallsEveryChannel(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := NewMockNotifier(ctrl)
	second := NewMockNotifier(ctrl)
	inq := sampleInquiry()

	boom := errors.New("webhook down")
	first.EXPECT().NotifyNewInquiry(gomock.Any(), inq).Return(boom)
	second.EXPECT().NotifyNewInquiry(gomock.Any(), inq).Return(nil)

	err := MultiNotifier{first, second}.NotifyNewInquiry(t.Context(), inq)
	assert.ErrorIs(t, err, boom)
}
