package services

import (
	"context"
	"errors"
	"log"
	"time"

	"talentdesk/internal/domain"
)

//go:generate mockgen -source=notify.go -destination=mock_notifier_test.go -package=services

const notifyTimeout = 30 * time.Second

// Notifier announces newly submitted inquiries to the sales team
type Notifier interface {
	NotifyNewInquiry(ctx context.Context, inquiry *domain.ContactInquiry) error
}

// MultiNotifier fans a notification out to every configured channel
type MultiNotifier []Notifier

// NotifyNewInquiry notifies every channel and joins their errors
func (m MultiNotifier) NotifyNewInquiry(ctx context.Context, inquiry *domain.ContactInquiry) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyNewInquiry(ctx, inquiry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// notifyAsync runs the notifier detached from the request; failures are
// logged and never reach the submitter.
func notifyAsync(n Notifier, inquiry *domain.ContactInquiry, done func()) {
	go func() {
		if done != nil {
			defer done()
		}
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := n.NotifyNewInquiry(ctx, inquiry); err != nil {
			log.Printf("[CONTACT] Warning: failed to send notification for inquiry id=%d: %v", inquiry.ID, err)
			return
		}
		log.Printf("[CONTACT] Notification sent for inquiry id=%d", inquiry.ID)
	}()
}
