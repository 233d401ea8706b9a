package domain

import "time"

// InquiryStatusHistory records one claim or status change of an inquiry.
type InquiryStatusHistory struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	InquiryID uint           `gorm:"not null;index" json:"inquiryId"`
	OldStatus *InquiryStatus `gorm:"type:integer" json:"oldStatus,omitempty"`
	NewStatus InquiryStatus  `gorm:"type:integer;not null" json:"newStatus"`
	ChangedBy uint           `gorm:"not null" json:"changedBy"`
	Action    string         `gorm:"type:varchar(20);not null" json:"action"` // claim, change-status
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

const (
	HistoryActionClaim        = "claim"
	HistoryActionChangeStatus = "change-status"
)

// TableName specifies the table name for InquiryStatusHistory
func (InquiryStatusHistory) TableName() string {
	return "contact_inquiry_status_history"
}
