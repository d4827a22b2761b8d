package sqlstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/supportdesk/pkg/custom"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"gorm.io/gorm"
)

const (
	ticketDalName = "ticket_dal"
	ticketsTable  = "tickets"
)

type ticketDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *gorm.DB

	// dialect is the name of the SQL dialect, used as a metric label.
	dialect string
}

func newTicketDal(l *slog.Logger, db *gorm.DB, dialect string) *ticketDal {
	return &ticketDal{
		l:       l.With(slog.String(logging.KeyDal, ticketDalName)),
		db:      db,
		dialect: dialect,
	}
}

func (d *ticketDal) CreateTicket(ctx context.Context, ticket *entities.Ticket) error {
	defer observe(ticketDalName, "create_ticket", d.dialect, ticketsTable)()

	if err := d.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return fmt.Errorf("error creating ticket: %w", translate(err))
	}
	return nil
}

func (d *ticketDal) GetOpenTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error) {
	defer observe(ticketDalName, "get_open_ticket_by_channel", d.dialect, ticketsTable)()

	ticket := new(entities.Ticket)
	err := d.db.WithContext(ctx).
		Where("channel_id = ? AND status = ?", channelID, entities.TicketStatusOpen).
		First(ticket).Error
	if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", translate(err))
	}
	return ticket, nil
}

func (d *ticketDal) MarkTicketClosed(ctx context.Context, ticketID, closedBy string, closedAt custom.Datetime) error {
	defer observe(ticketDalName, "mark_ticket_closed", d.dialect, ticketsTable)()

	res := d.db.WithContext(ctx).Model(&entities.Ticket{}).Where("ticket_id = ?", ticketID).Updates(map[string]any{
		"status":    entities.TicketStatusClosed,
		"closed_by": closedBy,
		"closed_at": closedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("error closing ticket: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("error closing ticket: %w", dataaccess.ErrNotFound)
	}
	return nil
}

func (d *ticketDal) DeleteTicket(ctx context.Context, ticketID string) error {
	defer observe(ticketDalName, "delete_ticket", d.dialect, ticketsTable)()

	res := d.db.WithContext(ctx).Where("ticket_id = ?", ticketID).Delete(&entities.Ticket{})
	if res.Error != nil {
		return fmt.Errorf("error deleting ticket: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("error deleting ticket: %w", dataaccess.ErrNotFound)
	}
	return nil
}

func (d *ticketDal) DeleteServerTickets(ctx context.Context, serverID string) error {
	defer observe(ticketDalName, "delete_server_tickets", d.dialect, ticketsTable)()

	if err := d.db.WithContext(ctx).Where("server_id = ?", serverID).Delete(&entities.Ticket{}).Error; err != nil {
		return fmt.Errorf("error deleting tickets: %w", translate(err))
	}
	return nil
}
