package main

import (
	"context"

	"github.com/Jacobbrewer1/supportdesk/pkg/messages"
)

func (a *App) subjectAddCmd(ctx context.Context, sc *slashContext) error {
	options := sc.i.ApplicationCommandData().Options
	name := optionString(options, nameOptionName)
	channel := optionString(options, channelOptionName)

	if _, err := a.subjects.Add(ctx, sc.server.ID, name, channel); err != nil {
		return err
	}
	return sc.reply(messages.SubjectAdded)
}

func (a *App) subjectListCmd(ctx context.Context, sc *slashContext) error {
	list, err := a.subjects.List(ctx, sc.server.ID)
	if err != nil {
		return err
	}
	return sc.reply(list)
}

func (a *App) subjectRemoveCmd(ctx context.Context, sc *slashContext) error {
	name := optionString(sc.i.ApplicationCommandData().Options, nameOptionName)
	if err := a.subjects.Remove(ctx, sc.server.ID, name); err != nil {
		return err
	}
	return sc.reply(messages.SubjectRemoved)
}
