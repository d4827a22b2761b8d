package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/cmd/bot/config"
	"github.com/Jacobbrewer1/supportdesk/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/supportdesk/pkg/conversation"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/dispatch"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/request"
	"github.com/Jacobbrewer1/supportdesk/pkg/setup"
	"github.com/Jacobbrewer1/supportdesk/pkg/subjects"
	"github.com/Jacobbrewer1/supportdesk/pkg/tickets"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for health check.
	PathHealth = "/health"

	// shutdownTimeout bounds the graceful shutdown.
	shutdownTimeout = 10 * time.Second
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session
}

type App struct {
	// is the logger.
	*slog.Logger

	// cfg is the configuration.
	cfg *config.Config

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// store is the data store.
	store *dataaccess.Store

	// reg holds the open prompts.
	reg *conversation.Registry

	tickets    *tickets.Manager
	wizard     *setup.Wizard
	subjects   *subjects.Service
	dispatcher *dispatch.Dispatcher

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// cmdMtx guards commands.
	cmdMtx sync.Mutex

	// commands are the slash commands registered per guild.
	commands map[string][]*discordgo.ApplicationCommand
}

// NewApp creates a new instance of App.
func NewApp(
	l *slog.Logger,
	cfg *config.Config,
	r *mux.Router,
	s *discordgo.Session,
	store *dataaccess.Store,
	reg *conversation.Registry,
	tm *tickets.Manager,
	wizard *setup.Wizard,
	subjectService *subjects.Service,
	dispatcher *dispatch.Dispatcher,
) *App {
	return &App{
		Logger:     l,
		cfg:        cfg,
		r:          r,
		s:          s,
		store:      store,
		reg:        reg,
		tickets:    tm,
		wizard:     wizard,
		subjects:   subjectService,
		dispatcher: dispatcher,
		commands:   make(map[string][]*discordgo.ApplicationCommand),
	}
}

func (a *App) Run() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	if a.eventNotifier == nil {
		// Create event notifier. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}
	a.s.SetEventNotifier(a.eventNotifier)

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s", r.User.Username))
	})

	a.RegisterDiscordHandlers()

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	a.Info("Received shutdown signal")
	return a.ShutdownHook()
}

func (a *App) ShutdownHook() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	var errs []error

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		errs = append(errs, fmt.Errorf("error unregistering slash commands: %w", err))
	}

	if a.svr != nil {
		if err := a.svr.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down monitoring server: %w", err))
		}
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing connection to Discord: %w", err))
	}

	// Let the log channel entries and direct messages in flight finish.
	a.tickets.Wait()

	return errors.Join(errs...)
}

func (a *App) runServer() {
	go func() {
		a.Info("Starting monitoring server", slog.String("addr", a.svr.Addr))
		if err := a.svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, middlewareHttp(promhttp.Handler().ServeHTTP, authOptionNone, a)).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), authOptionNone, a)).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.Logger)
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Logger)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:              ":" + a.cfg.MonitoringPort,
		Handler:           a.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() {
	// Bot joined guild.
	a.s.AddHandler(a.guildJoinedHandler())

	// Bot left guild.
	a.s.AddHandler(a.guildLeaveHandler())

	// Answers to prompts.
	a.s.AddHandler(a.messageCreateHandler())

	// Answers to prompts and ticket intents.
	a.s.AddHandler(a.reactionAddHandler())

	// Slash commands and select menus.
	a.s.AddHandler(a.interactionHandler(a.commandTable()))
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	for _, g := range guilds {
		if err := a.registerGuildCommands(g.ID); err != nil {
			return err
		}
	}
	return nil
}

// registerGuildCommands registers the slash commands for the guild, unless they already are.
func (a *App) registerGuildCommands(guildID string) error {
	a.cmdMtx.Lock()
	defer a.cmdMtx.Unlock()

	if _, ok := a.commands[guildID]; ok {
		return nil
	}

	registered := make([]*discordgo.ApplicationCommand, 0, len(slashCommands))
	for _, cmd := range slashCommands {
		created, err := a.s.ApplicationCommandCreate(a.cfg.ApplicationId, guildID, cmd)
		if err != nil {
			return fmt.Errorf("error creating %s command for guild %s: %w", cmd.Name, guildID, err)
		}
		registered = append(registered, created)
	}

	a.commands[guildID] = registered
	return nil
}

func (a *App) unregisterSlashCommands() error {
	a.cmdMtx.Lock()
	defer a.cmdMtx.Unlock()

	var errs []error
	for guildID, cmds := range a.commands {
		for _, cmd := range cmds {
			if err := a.s.ApplicationCommandDelete(a.cfg.ApplicationId, guildID, cmd.ID); err != nil {
				errs = append(errs, fmt.Errorf("error deleting %s command for guild %s: %w", cmd.Name, guildID, err))
			}
		}
		delete(a.commands, guildID)
	}
	return errors.Join(errs...)
}

func (a *App) forgetGuildCommands(guildID string) {
	a.cmdMtx.Lock()
	defer a.cmdMtx.Unlock()

	delete(a.commands, guildID)
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}
