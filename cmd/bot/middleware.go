package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/cmd/bot/monitoring"
	"github.com/Jacobbrewer1/supportdesk/pkg/dataaccess"
	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
	"github.com/Jacobbrewer1/supportdesk/pkg/request"
	"github.com/Jacobbrewer1/supportdesk/pkg/workflow"
	"github.com/gorilla/mux"
)

// slashProcessor is the processor for slash commands.
type slashProcessor func(ctx context.Context, sc *slashContext) error

// authOption is an option for the auth middleware. It indicates the type of authentication required.
type authOption int

const (
	// authOptionNone indicates that no authentication is required.
	authOptionNone authOption = iota
)

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, authRequired authOption, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// responseState tracks what has been sent in answer to an interaction.
type responseState int

const (
	responseNone responseState = iota
	responseDeferred
	responseSent
)

// slashContext is a slash command being processed.
type slashContext struct {
	s     *discordgo.Session
	i     *discordgo.InteractionCreate
	l     *slog.Logger
	state responseState

	// server is the configuration of the guild. It is nil for commands that do not require setup.
	server *entities.Server
}

func (sc *slashContext) guildID() string {
	return sc.i.GuildID
}

func (sc *slashContext) channelID() string {
	return sc.i.ChannelID
}

func (sc *slashContext) userID() string {
	if sc.i.Member != nil && sc.i.Member.User != nil {
		return sc.i.Member.User.ID
	} else if sc.i.User != nil {
		return sc.i.User.ID
	}
	return ""
}

// deferReply acknowledges the interaction so that long running conversations do not expire it.
func (sc *slashContext) deferReply() error {
	if sc.state != responseNone {
		return nil
	}
	err := sc.s.InteractionRespond(sc.i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		return fmt.Errorf("error deferring interaction response: %w", err)
	}
	sc.state = responseDeferred
	return nil
}

// reply answers the invoker privately.
func (sc *slashContext) reply(content string) error {
	var err error
	switch sc.state {
	case responseNone:
		err = sc.s.InteractionRespond(sc.i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
	case responseDeferred:
		_, err = sc.s.InteractionResponseEdit(sc.i.Interaction, &discordgo.WebhookEdit{
			Content: &content,
		})
	default:
		_, err = sc.s.FollowupMessageCreate(sc.i.Interaction, true, &discordgo.WebhookParams{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
	}
	if err != nil {
		return fmt.Errorf("error replying to interaction: %w", err)
	}
	sc.state = responseSent
	return nil
}

// dismiss acknowledges the interaction without leaving anything visible.
func (sc *slashContext) dismiss() error {
	if sc.state == responseSent {
		return nil
	}
	if err := sc.deferReply(); err != nil {
		return err
	}
	if err := sc.s.InteractionResponseDelete(sc.i.Interaction); err != nil {
		return fmt.Errorf("error deleting interaction response: %w", err)
	}
	sc.state = responseSent
	return nil
}

// command describes how a slash command is gated.
type command struct {
	processor slashProcessor

	// permission is the permission the invoker must hold, or zero.
	permission int64

	// denied is replied when the invoker lacks the permission.
	denied string

	// requiresSetup loads the server configuration and rejects unconfigured servers.
	requiresSetup bool
}

// slashCommandHandler runs the slash command the interaction names.
func (a *App) slashCommandHandler(ctx context.Context, i *discordgo.InteractionCreate, commands map[string]command) {
	name := i.ApplicationCommandData().Name
	l := a.With(
		slog.String("command", name),
		slog.String(logging.KeyGuildID, i.GuildID),
		slog.String(logging.KeyChannelID, i.ChannelID),
	)
	l.Debug("Handling interaction " + name)

	sc := &slashContext{s: a.s, i: i, l: l}
	cmd, ok := commands[name]
	if !ok {
		l.Error(fmt.Sprintf("No controller found for command %s", name))
		if err := sc.reply(messages.ErrUserErrorProcessing); err != nil {
			l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	}

	start := time.Now()
	err := a.runSlashCommand(ctx, sc, cmd)
	monitoring.CommandDuration.WithLabelValues(name, outcomeLabel(err)).Observe(time.Since(start).Seconds())

	if err == nil {
		return
	}

	content, loud := errorResponse(err)
	if loud {
		l.Error(fmt.Sprintf("Error processing command %s", name), slog.String(logging.KeyError, err.Error()))
	} else {
		l.Info(fmt.Sprintf("Command %s ended early", name), slog.String(logging.KeyError, err.Error()))
	}

	if content == "" {
		err = sc.dismiss()
	} else {
		err = sc.reply(content)
	}
	if err != nil {
		l.Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}
}

func (a *App) runSlashCommand(ctx context.Context, sc *slashContext, cmd command) error {
	if sc.i.GuildID == "" || sc.i.Member == nil {
		return workflow.Precondition("commands", "guild only", sc.channelID())
	}

	if cmd.permission != 0 && sc.i.Member.Permissions&cmd.permission != cmd.permission {
		return workflow.Validation("commands", "permissions", cmd.denied)
	}

	if cmd.requiresSetup {
		server, err := a.store.Servers.GetServer(ctx, sc.guildID())
		if errors.Is(err, dataaccess.ErrNotFound) {
			return workflow.Validation("commands", "server", messages.ErrServerNotSetup)
		} else if err != nil {
			return workflow.Remote("commands", "server", sc.channelID(), err)
		} else if !server.Ready() {
			return workflow.Validation("commands", "server", messages.ErrServerNotSetup)
		}
		sc.server = server
	}

	return cmd.processor(ctx, sc)
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return workflow.KindOf(err).String()
}
