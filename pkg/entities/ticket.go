package entities

import (
	"github.com/Jacobbrewer1/supportdesk/pkg/custom"
)

// TicketStatus is the persisted status of a ticket. Claimed and unclaimed are not stored, they are
// derived from the category of the ticket channel.
type TicketStatus string

const (
	// TicketStatusOpen is a ticket whose channel still exists.
	TicketStatusOpen TicketStatus = "open"

	// TicketStatusClosed is a ticket whose channel has been deleted.
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket is a support request with its own private channel.
type Ticket struct {
	// TicketID is the ID of the ticket.
	TicketID string `json:"ticket_id" bson:"ticket_id" gorm:"primaryKey;size:36"`

	// ChannelID is the dedicated channel of the ticket. At most one open ticket exists per channel.
	ChannelID string `json:"channel_id" bson:"channel_id" gorm:"size:32;not null;uniqueIndex:idx_tickets_open_channel,where:status = 'open'"`

	// ServerID is the guild the ticket belongs to.
	ServerID string `json:"server_id" bson:"server_id" gorm:"size:32;not null;index"`

	// SubjectID is the chosen subject. Nil means the ticket is classified as "Other".
	SubjectID *string `json:"subject_id" bson:"subject_id" gorm:"size:36"`

	// AuthorID is the user that opened the ticket.
	AuthorID string `json:"author_id" bson:"author_id" gorm:"size:32;not null"`

	// Status is whether the ticket is open or closed.
	Status TicketStatus `json:"status" bson:"status" gorm:"size:16;not null;default:open"`

	// CreatedAt is when the ticket was created.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at" gorm:"autoCreateTime:false"`

	// ClosedAt is when the ticket was closed.
	ClosedAt custom.Datetime `json:"closed_at" bson:"closed_at"`

	// ClosedBy is the user that closed the ticket.
	ClosedBy string `json:"closed_by" bson:"closed_by" gorm:"size:32"`
}

// TableName sets the table name used by gorm.
func (Ticket) TableName() string {
	return "tickets"
}

// IsOpen reports whether the ticket is still open.
func (t *Ticket) IsOpen() bool {
	return t.Status == TicketStatusOpen
}
