package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/cmd/bot/config"
	"github.com/Jacobbrewer1/supportdesk/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/supportdesk/pkg/conversation"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/connection"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/mongostore"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess/sqlstore"
	"github.com/Jacobbrewer1/supportdesk/pkg/dispatch"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/platform"
	"github.com/Jacobbrewer1/supportdesk/pkg/setup"
	"github.com/Jacobbrewer1/supportdesk/pkg/subjects"
	"github.com/Jacobbrewer1/supportdesk/pkg/tickets"
	"github.com/google/wire"
	"github.com/gorilla/mux"
)

// providerSet builds the application from the configuration.
var providerSet = wire.NewSet(
	provideLoggingConfig,
	logging.CommonLogger,
	provideSession,
	platform.NewDiscord,
	wire.Bind(new(platform.Client), new(*platform.Discord)),
	provideStore,
	conversation.NewRegistry,
	provideAsker,
	wire.Bind(new(tickets.Prompter), new(*conversation.Asker)),
	wire.Bind(new(setup.Prompter), new(*conversation.Asker)),
	provideTickets,
	provideWizard,
	provideSubjects,
	provideDispatcher,
	mux.NewRouter,
	NewApp,
)

func provideLoggingConfig(cfg *config.Config) (*logging.Config, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewConfig(logging.Name(config.AppName)).WithLevel(level), nil
}

func provideSession(cfg *config.Config) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	// Messages, reactions and members are all needed to follow the conversations.
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)
	return s, nil
}

// provideStore connects to the configured backend. The cleanup function releases it.
func provideStore(l *slog.Logger, cfg *config.Config) (*dataaccess.Store, func(), error) {
	ctx := context.Background()

	var (
		store *dataaccess.Store
		err   error
	)
	switch cfg.Store.Driver {
	case config.DriverMongo:
		store, err = openMongo(ctx, l, cfg.Store)
	case config.DriverPostgres:
		store, err = sqlstore.Open(l, &connection.SQL{
			Dialect:      connection.DialectPostgres,
			DSN:          cfg.Store.DSN,
			MaxOpenConns: cfg.Store.MaxOpenConns,
			Logger:       l,
		})
	case config.DriverSqlite:
		store, err = sqlstore.Open(l, &connection.SQL{
			Dialect:      connection.DialectSqlite,
			DSN:          cfg.Store.DSN,
			MaxOpenConns: cfg.Store.MaxOpenConns,
			Logger:       l,
		})
	default:
		err = fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	l.Info("Connected to store", slog.String("driver", cfg.Store.Driver))
	cleanup := func() {
		if err := store.Close(context.Background()); err != nil {
			l.Error("Error closing store", slog.String(logging.KeyError, err.Error()))
		}
	}
	return store, cleanup, nil
}

func openMongo(ctx context.Context, l *slog.Logger, cfg config.Store) (*dataaccess.Store, error) {
	m := &connection.MongoDB{ConnectionString: cfg.MongoURI}
	client, err := m.Connect(ctx)
	if err != nil {
		return nil, err
	}

	if err := mongostore.EnsureIndexes(ctx, client, cfg.MongoDatabase); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return mongostore.New(l, client, cfg.MongoDatabase), nil
}

func provideAsker(l *slog.Logger, client platform.Client, reg *conversation.Registry) *conversation.Asker {
	return conversation.NewAsker(l, client, reg, func(kind string, o conversation.Outcome) {
		monitoring.ConversationOutcomes.WithLabelValues(kind, o.String()).Inc()
	})
}

func provideTickets(l *slog.Logger, cfg *config.Config, client platform.Client, store *dataaccess.Store, prompter tickets.Prompter) *tickets.Manager {
	return tickets.NewManager(l, cfg.Tickets, client, store, prompter, func(e tickets.Event) {
		monitoring.TicketEvents.WithLabelValues(string(e)).Inc()
	})
}

func provideWizard(l *slog.Logger, cfg *config.Config, client platform.Client, store *dataaccess.Store, prompter setup.Prompter) *setup.Wizard {
	return setup.NewWizard(l, cfg.Setup, client, store, prompter, cfg.Tickets.Emoji)
}

func provideSubjects(l *slog.Logger, store *dataaccess.Store, client platform.Client) *subjects.Service {
	return subjects.NewService(l, store.Subjects, client)
}

func provideDispatcher(l *slog.Logger, cfg *config.Config, store *dataaccess.Store, client platform.Client, tm *tickets.Manager) *dispatch.Dispatcher {
	return dispatch.NewDispatcher(l, store.Servers, client, tm, cfg.RateLimit)
}
