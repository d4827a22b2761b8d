package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/platform"
	"github.com/google/uuid"
)

// Outcome is how a prompt ended.
type Outcome int

const (
	// OutcomeAnswer means the expected user answered.
	OutcomeAnswer Outcome = iota

	// OutcomeTimeout means nobody answered before the deadline.
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAnswer:
		return "answer"
	case OutcomeTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// SelectCustomIDPrefix prefixes the custom ID of every select menu built by the asker.
const SelectCustomIDPrefix = "conversation:"

// Answer is the result of a prompt.
type Answer struct {
	Outcome Outcome

	// Value is the trimmed message content, the reaction emoji or the selected option value.
	Value string

	// PromptID is the ID of the prompt message.
	PromptID string
}

// TimedOut reports whether the prompt expired.
func (a Answer) TimedOut() bool {
	return a.Outcome == OutcomeTimeout
}

// ObserveFunc is told about every finished prompt.
type ObserveFunc func(kind string, outcome Outcome)

// Asker sends prompts and waits for answers.
type Asker struct {
	l       *slog.Logger
	client  platform.Client
	reg     *Registry
	observe ObserveFunc
}

// NewAsker returns an asker sending through the client and waiting on the registry.
func NewAsker(l *slog.Logger, client platform.Client, reg *Registry, observe ObserveFunc) *Asker {
	if observe == nil {
		observe = func(string, Outcome) {}
	}
	return &Asker{
		l:       l.With(slog.String(logging.KeyComponent, "conversation")),
		client:  client,
		reg:     reg,
		observe: observe,
	}
}

// AskText sends the prompt to the channel and waits for the next message of the user in that channel.
func (a *Asker) AskText(ctx context.Context, channelID, userID string, prompt *discordgo.MessageSend, timeout time.Duration) (Answer, error) {
	k := key{channelID: channelID, userID: userID, mode: modeText}
	return a.ask(ctx, "text", k, nil, prompt, nil, timeout)
}

// AskReaction sends the prompt, reacts to it with every emoji and waits for the user to react with one of them.
func (a *Asker) AskReaction(ctx context.Context, channelID, userID string, prompt *discordgo.MessageSend, emojis []string, timeout time.Duration) (Answer, error) {
	if len(emojis) == 0 {
		return Answer{}, errors.New("no emojis to choose from")
	}

	k := key{channelID: channelID, userID: userID, mode: modeChoice}
	react := func(messageID string) {
		for _, e := range emojis {
			if err := a.client.React(channelID, messageID, e); err != nil {
				a.l.Warn("Error adding choice reaction",
					slog.String(logging.KeyChannelID, channelID),
					slog.String(logging.KeyError, err.Error()),
				)
			}
		}
	}
	return a.ask(ctx, "reaction", k, emojis, prompt, react, timeout)
}

// AskSelect sends the prompt with a select menu of the options and waits for the user to pick one.
func (a *Asker) AskSelect(ctx context.Context, channelID, userID string, prompt *discordgo.MessageSend, placeholder string, options []discordgo.SelectMenuOption, timeout time.Duration) (Answer, error) {
	if len(options) == 0 {
		return Answer{}, errors.New("no options to choose from")
	}

	values := make([]string, 0, len(options))
	for _, o := range options {
		values = append(values, o.Value)
	}

	menu := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    SelectCustomIDPrefix + uuid.NewString(),
				Placeholder: placeholder,
				Options:     options,
			},
		},
	}

	withMenu := *prompt
	withMenu.Components = append(append([]discordgo.MessageComponent{}, prompt.Components...), menu)

	k := key{channelID: channelID, userID: userID, mode: modeChoice}
	return a.ask(ctx, "select", k, values, &withMenu, nil, timeout)
}

func (a *Asker) ask(ctx context.Context, kind string, k key, options []string, prompt *discordgo.MessageSend, afterSend func(messageID string), timeout time.Duration) (Answer, error) {
	// The waiter goes in before the prompt is sent so that a fast answer is never lost.
	w, err := a.reg.register(k, options)
	if err != nil {
		return Answer{}, err
	}
	defer a.reg.unregister(k, w)

	promptID, err := a.client.SendMessage(k.channelID, prompt)
	if err != nil {
		return Answer{}, fmt.Errorf("error sending prompt: %w", err)
	}
	a.reg.bind(k, w, promptID)

	if afterSend != nil {
		afterSend(promptID)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case v := <-w.answer:
		a.observe(kind, OutcomeAnswer)
		return Answer{Outcome: OutcomeAnswer, Value: v, PromptID: promptID}, nil
	case <-timer.C:
		select {
		case v := <-w.answer:
			a.observe(kind, OutcomeAnswer)
			return Answer{Outcome: OutcomeAnswer, Value: v, PromptID: promptID}, nil
		default:
		}

		a.l.Debug("Prompt timed out",
			slog.String(logging.KeyChannelID, k.channelID),
			slog.String(logging.KeyUserID, k.userID),
			slog.String("kind", kind),
		)
		a.observe(kind, OutcomeTimeout)
		return Answer{Outcome: OutcomeTimeout, PromptID: promptID}, nil
	case <-ctx.Done():
		return Answer{PromptID: promptID}, ctx.Err()
	}
}
