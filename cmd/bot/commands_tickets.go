package main

import (
	"context"
	"log/slog"

	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
)

func (a *App) claimCmd(ctx context.Context, sc *slashContext) error {
	claimed, err := a.tickets.Claim(ctx, sc.server, sc.channelID(), sc.userID())
	if err != nil {
		return err
	} else if !claimed {
		return sc.dismiss()
	}
	return sc.reply(messages.TicketClaimed)
}

func (a *App) closeCmd(ctx context.Context, sc *slashContext) error {
	// Acknowledge before the channel the interaction lives in goes away.
	if err := sc.deferReply(); err != nil {
		return err
	}

	closed, err := a.tickets.Close(ctx, sc.server, sc.channelID(), sc.userID())
	if err != nil {
		return err
	}

	if !closed {
		return sc.dismiss()
	}

	// The deferred response went away with the channel.
	if err := sc.dismiss(); err != nil {
		sc.l.Debug("Deferred response already removed", slog.String(logging.KeyError, err.Error()))
	}
	return nil
}
