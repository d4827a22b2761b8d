package mongostore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/supportdesk/pkg/custom"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const ticketDalName = "ticket_dal"

type ticketDal struct {
	// l is the logger.
	l *slog.Logger

	// db is the database.
	db *mongo.Database
}

func newTicketDal(l *slog.Logger, db *mongo.Database) *ticketDal {
	return &ticketDal{
		l:  l.With(slog.String(logging.KeyDal, ticketDalName)),
		db: db,
	}
}

func (d *ticketDal) collection() *mongo.Collection {
	return d.db.Collection(ticketsCollection)
}

func (d *ticketDal) CreateTicket(ctx context.Context, ticket *entities.Ticket) error {
	defer observe(ticketDalName, "create_ticket", d.db.Name(), ticketsCollection)()

	if _, err := d.collection().InsertOne(ctx, ticket); err != nil {
		return fmt.Errorf("error creating ticket: %w", translate(err))
	}
	return nil
}

func (d *ticketDal) GetOpenTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error) {
	defer observe(ticketDalName, "get_open_ticket_by_channel", d.db.Name(), ticketsCollection)()

	ticket := new(entities.Ticket)
	err := d.collection().FindOne(ctx, bson.M{
		"channel_id": channelID,
		"status":     entities.TicketStatusOpen,
	}).Decode(ticket)
	if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", translate(err))
	}
	return ticket, nil
}

func (d *ticketDal) MarkTicketClosed(ctx context.Context, ticketID, closedBy string, closedAt custom.Datetime) error {
	defer observe(ticketDalName, "mark_ticket_closed", d.db.Name(), ticketsCollection)()

	res, err := d.collection().UpdateOne(ctx,
		bson.M{"ticket_id": ticketID},
		bson.M{"$set": bson.M{
			"status":    entities.TicketStatusClosed,
			"closed_by": closedBy,
			"closed_at": &closedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("error closing ticket: %w", translate(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("error closing ticket: %w", dataaccess.ErrNotFound)
	}
	return nil
}

func (d *ticketDal) DeleteTicket(ctx context.Context, ticketID string) error {
	defer observe(ticketDalName, "delete_ticket", d.db.Name(), ticketsCollection)()

	res, err := d.collection().DeleteOne(ctx, bson.M{"ticket_id": ticketID})
	if err != nil {
		return fmt.Errorf("error deleting ticket: %w", translate(err))
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("error deleting ticket: %w", dataaccess.ErrNotFound)
	}
	return nil
}

func (d *ticketDal) DeleteServerTickets(ctx context.Context, serverID string) error {
	defer observe(ticketDalName, "delete_server_tickets", d.db.Name(), ticketsCollection)()

	if _, err := d.collection().DeleteMany(ctx, bson.M{"server_id": serverID}); err != nil {
		return fmt.Errorf("error deleting tickets: %w", translate(err))
	}
	return nil
}
