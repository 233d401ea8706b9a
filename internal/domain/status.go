package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "talentdesk/pkg/errors"
)

// InquiryStatus is the lifecycle state of a contact inquiry. The JSON form
// is the status name; the database stores the numeric code.
type InquiryStatus string

const (
	StatusNew        InquiryStatus = "New"
	StatusInProgress InquiryStatus = "InProgress"
	StatusClosed     InquiryStatus = "Closed"
)

var statusCodes = map[InquiryStatus]int64{
	StatusNew:        1,
	StatusInProgress: 2,
	StatusClosed:     3,
}

// transitions is ordered; callers render the options in this order.
var transitions = map[InquiryStatus][]InquiryStatus{
	StatusNew:        {StatusInProgress, StatusClosed},
	StatusInProgress: {StatusClosed},
	StatusClosed:     {},
}

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []InquiryStatus {
	return []InquiryStatus{StatusNew, StatusInProgress, StatusClosed}
}

// ParseInquiryStatus parses a status name, ignoring case and surrounding space.
func ParseInquiryStatus(s string) (InquiryStatus, error) {
	trimmed := strings.TrimSpace(s)
	for _, st := range AllStatuses() {
		if strings.EqualFold(trimmed, string(st)) {
			return st, nil
		}
	}
	return "", apperrors.Validation("status", fmt.Sprintf("unknown status %q", s))
}

// Valid reports whether s is one of the three known statuses.
func (s InquiryStatus) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s InquiryStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s InquiryStatus) String() string {
	return string(s)
}

// AllowedTransitions returns the statuses s may move to, in display order.
// The returned slice is owned by the caller.
func AllowedTransitions(s InquiryStatus) []InquiryStatus {
	next := transitions[s]
	out := make([]InquiryStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to InquiryStatus) bool {
	for _, st := range transitions[from] {
		if st == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an INVALID_TRANSITION error naming the target
// when from -> to is not allowed.
func ValidateTransition(from, to InquiryStatus) error {
	if !to.Valid() {
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeInvalidTransition,
			Message: fmt.Sprintf("invalid target status %q", string(to)),
			Field:   "newStatus",
		}
	}
	if !CanTransition(from, to) {
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeInvalidTransition,
			Message: fmt.Sprintf("cannot change status from %s to %s", from, to),
			Field:   "newStatus",
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (s InquiryStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid inquiry status %q", string(s))
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON accepts only the canonical status names.
func (s *InquiryStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("inquiry status must be a string: %w", err)
	}
	for _, st := range AllStatuses() {
		if name == string(st) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown inquiry status %q", name)
}

// Value implements driver.Valuer
func (s InquiryStatus) Value() (driver.Value, error) {
	code, ok := statusCodes[s]
	if !ok {
		return nil, fmt.Errorf("invalid inquiry status %q", string(s))
	}
	return code, nil
}

// Scan implements sql.Scanner
func (s *InquiryStatus) Scan(value any) error {
	var code int64
	switch v := value.(type) {
	case int64:
		code = v
	case int32:
		code = int64(v)
	case int:
		code = int64(v)
	case []byte:
		if _, err := fmt.Sscan(string(v), &code); err != nil {
			return fmt.Errorf("scan inquiry status: %w", err)
		}
	case string:
		if _, err := fmt.Sscan(v, &code); err != nil {
			return fmt.Errorf("scan inquiry status: %w", err)
		}
	default:
		return fmt.Errorf("scan inquiry status: unsupported type %T", value)
	}
	for st, c := range statusCodes {
		if c == code {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("scan inquiry status: unknown code %d", code)
}
