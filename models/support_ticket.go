package models

import "time"

// Support ticket status values.
const (
	SupportStatusOpen       = "open"
	SupportStatusInProgress = "in_progress"
	SupportStatusResolved   = "resolved"
	SupportStatusClosed     = "closed"
)

// SupportTicket is a help request submitted through the public contact
// form. UserID is set only when the submitter was logged in; tickets from
// anonymous visitors carry just the contact name and email.
type SupportTicket struct {
	TicketID      uint       `gorm:"primaryKey;column:ticket_id" json:"ticket_id"`
	Name          string     `gorm:"column:name" json:"name"`
	Email         string     `gorm:"column:email" json:"email"`
	Subject       string     `gorm:"column:subject" json:"subject"`
	Category      string     `gorm:"column:category" json:"category"` // Account, Technical, General, ...
	Message       string     `gorm:"column:message" json:"message"`
	Status        string     `gorm:"column:status" json:"status"` // open|in_progress|resolved|closed
	UserID        *uint      `gorm:"column:user_id" json:"user_id,omitempty"`
	AdminResponse *string    `gorm:"column:admin_response" json:"admin_response,omitempty"`
	RespondedBy   *uint      `gorm:"column:responded_by" json:"responded_by,omitempty"`
	RespondedAt   *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"updated_at,omitempty"`
}

func (SupportTicket) TableName() string {
	return "support_tickets"
}

// ValidSupportStatus reports whether s is a known ticket status.
func ValidSupportStatus(s string) bool {
	switch s {
	case SupportStatusOpen, SupportStatusInProgress, SupportStatusResolved, SupportStatusClosed:
		return true
	}
	return false
}
