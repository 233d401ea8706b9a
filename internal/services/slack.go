package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/slack-go/slack"

	"talentdesk/internal/config"
	"talentdesk/internal/domain"
	"talentdesk/internal/metrics"
)

// SlackNotifier posts new inquiries to an incoming webhook
type SlackNotifier struct {
	cfg  *config.SlackConfig
	post func(ctx context.Context, url string, msg *slack.WebhookMessage) error
}

// NewSlackNotifier creates a webhook notifier
func NewSlackNotifier(cfg *config.SlackConfig) *SlackNotifier {
	return &SlackNotifier{cfg: cfg, post: slack.PostWebhookContext}
}

// NotifyNewInquiry posts a summary attachment for the inquiry
func (n *SlackNotifier) NotifyNewInquiry(ctx context.Context, inquiry *domain.ContactInquiry) error {
	if !n.cfg.Enabled {
		return nil
	}
	err := n.post(ctx, n.cfg.WebhookURL, n.message(inquiry))
	metrics.RecordNotification("slack", err)
	if err != nil {
		return fmt.Errorf("failed to post slack webhook: %w", err)
	}
	return nil
}

func (n *SlackNotifier) message(inq *domain.ContactInquiry) *slack.WebhookMessage {
	company := "-"
	if inq.Company != nil {
		company = *inq.Company
	}
	return &slack.WebhookMessage{
		Channel: n.cfg.Channel,
		Text:    fmt.Sprintf("New contact inquiry #%d from %s", inq.ID, inq.FullName),
		Attachments: []slack.Attachment{{
			Color: "#1C5D99",
			Title: inq.Subject,
			Text:  truncate(inq.Content, 500),
			Fields: []slack.AttachmentField{
				{Title: "Email", Value: inq.Email, Short: true},
				{Title: "Company", Value: company, Short: true},
				{Title: "Status", Value: string(inq.Status), Short: true},
				{Title: "Reference", Value: inq.Reference.String(), Short: true},
			},
			Ts: jsonNumber(inq.CreatedAt.Unix()),
		}},
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

func jsonNumber(n int64) json.Number {
	return json.Number(strconv.FormatInt(n, 10))
}
