package main

import (
	"context"

	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
	"github.com/Jacobbrewer1/supportdesk/pkg/setup"
	"github.com/Jacobbrewer1/supportdesk/pkg/workflow"
)

func (a *App) setupCmd(ctx context.Context, sc *slashContext) error {
	// The questions are asked in the channel, the interaction only carries the outcome.
	if err := sc.deferReply(); err != nil {
		return err
	}

	res, err := a.wizard.Run(ctx, invocation(sc))
	if err != nil {
		return err
	}

	if res == setup.ResultAlreadySetUp {
		return sc.reply(messages.SetupAlready)
	}
	return sc.reply(messages.SetupSuccess)
}

func (a *App) resetCmd(ctx context.Context, sc *slashContext) error {
	if err := sc.deferReply(); err != nil {
		return err
	}

	res, err := a.wizard.Reset(ctx, invocation(sc))
	if err != nil && workflow.KindOf(err) == workflow.KindPrecondition {
		// Partially set up servers can be reset, unknown ones cannot.
		return workflow.Validation("commands", "reset", messages.ErrServerNotSetup)
	} else if err != nil {
		return err
	}

	if res == setup.ResultCancelled {
		// The cancellation has been announced in the channel.
		return sc.dismiss()
	}

	// The commands of the guild stay registered so that it can be set up again.
	return sc.reply(messages.ResetSuccess)
}

func invocation(sc *slashContext) setup.Invocation {
	return setup.Invocation{
		GuildID:   sc.guildID(),
		ChannelID: sc.channelID(),
		UserID:    sc.userID(),
	}
}
