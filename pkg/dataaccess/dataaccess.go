// Package dataaccess defines the storage operations used by the workflows. Every operation is a
// single atomic call; no operation holds a transaction open between calls.
package dataaccess

import (
	"context"
	"errors"

	"github.com/Jacobbrewer1/supportdesk/pkg/custom"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("record already exists")
)

// ServerDal is the data access layer for server configurations.
type ServerDal interface {
	// GetServer gets a server by guild ID. Returns ErrNotFound if the server has never been set up.
	GetServer(ctx context.Context, id string) (*entities.Server, error)

	// CreateServer inserts an empty configuration for the guild. Creating an existing server is a no-op.
	CreateServer(ctx context.Context, id string) error

	// UpdateServer applies the patch to the server atomically.
	UpdateServer(ctx context.Context, id string, patch *entities.ServerPatch) error

	// DeleteServer deletes the server configuration and returns what was deleted.
	DeleteServer(ctx context.Context, id string) (*entities.Server, error)
}

// SubjectDal is the data access layer for subjects.
type SubjectDal interface {
	// ListSubjects lists the subjects of a server in creation order.
	ListSubjects(ctx context.Context, serverID string) ([]*entities.Subject, error)

	// GetSubjectByName gets a subject by its name. Returns ErrNotFound if it does not exist.
	GetSubjectByName(ctx context.Context, serverID, name string) (*entities.Subject, error)

	// CreateSubject saves a new subject. Returns ErrDuplicate if the name is taken.
	CreateSubject(ctx context.Context, subject *entities.Subject) error

	// DeleteSubject deletes a subject by name. Returns ErrNotFound if it does not exist.
	DeleteSubject(ctx context.Context, serverID, name string) error

	// DeleteServerSubjects deletes every subject of the server.
	DeleteServerSubjects(ctx context.Context, serverID string) error
}

// TicketDal is the data access layer for tickets.
type TicketDal interface {
	// CreateTicket saves a new ticket. Returns ErrDuplicate if the channel already has an open ticket.
	CreateTicket(ctx context.Context, ticket *entities.Ticket) error

	// GetOpenTicketByChannel gets the open ticket of a channel. Returns ErrNotFound if there is none.
	GetOpenTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error)

	// MarkTicketClosed flips the ticket to closed and records who closed it and when.
	MarkTicketClosed(ctx context.Context, ticketID, closedBy string, closedAt custom.Datetime) error

	// DeleteTicket hard deletes a ticket.
	DeleteTicket(ctx context.Context, ticketID string) error

	// DeleteServerTickets deletes every ticket of the server.
	DeleteServerTickets(ctx context.Context, serverID string) error
}

// Store bundles the data access layers of one backend.
type Store struct {
	Servers  ServerDal
	Subjects SubjectDal
	Tickets  TicketDal

	// Ping checks the backend is reachable.
	Ping func(ctx context.Context) error

	// Close releases the backend.
	Close func(ctx context.Context) error
}
