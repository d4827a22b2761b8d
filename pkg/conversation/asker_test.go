package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/supportdesk/pkg/logging"
	"github.com/Jacobbrewer1/supportdesk/pkg/platform/platformtest"
	"github.com/stretchr/testify/require"
)

type observed struct {
	kind    string
	outcome Outcome
}

func newAsker(t *testing.T) (*Asker, *Registry, *platformtest.Client, *[]observed) {
	t.Helper()

	client := platformtest.New()
	reg := NewRegistry()
	seen := make([]observed, 0)
	a := NewAsker(logging.Discard(), client, reg, func(kind string, o Outcome) {
		seen = append(seen, observed{kind: kind, outcome: o})
	})
	return a, reg, client, &seen
}

func TestAskText_Answer(t *testing.T) {
	a, reg, client, seen := newAsker(t)

	// Answering while the prompt is being sent must not be lost.
	client.OnSend = func(s platformtest.Sent) {
		require.True(t, reg.DeliverText("c1", "u1", " Payments "))
	}

	ans, err := a.AskText(context.Background(), "c1", "u1", &discordgo.MessageSend{Content: "What do you need?"}, time.Second)
	require.NoError(t, err)
	require.Equal(t, OutcomeAnswer, ans.Outcome)
	require.Equal(t, "Payments", ans.Value)
	require.NotEmpty(t, ans.PromptID)
	require.Zero(t, reg.Pending())
	require.Equal(t, []observed{{kind: "text", outcome: OutcomeAnswer}}, *seen)

	sent, ok := client.LastMessage("c1")
	require.True(t, ok)
	require.Equal(t, "What do you need?", sent.Message.Content)
}

func TestAskText_Timeout(t *testing.T) {
	a, reg, _, seen := newAsker(t)

	ans, err := a.AskText(context.Background(), "c1", "u1", &discordgo.MessageSend{Content: "?"}, 20*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ans.TimedOut())
	require.Empty(t, ans.Value)
	require.Zero(t, reg.Pending())
	require.Equal(t, []observed{{kind: "text", outcome: OutcomeTimeout}}, *seen)

	// A late answer goes nowhere.
	require.False(t, reg.DeliverText("c1", "u1", "late"))
}

func TestAskText_IgnoresOtherUsers(t *testing.T) {
	a, reg, client, _ := newAsker(t)

	client.OnSend = func(s platformtest.Sent) {
		require.False(t, reg.DeliverText("c1", "someone-else", "hi"))
	}

	ans, err := a.AskText(context.Background(), "c1", "u1", &discordgo.MessageSend{Content: "?"}, 20*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ans.TimedOut())
}

func TestAskText_SendFails(t *testing.T) {
	a, reg, client, _ := newAsker(t)
	client.Errors["SendMessage"] = errors.New("boom")

	_, err := a.AskText(context.Background(), "c1", "u1", &discordgo.MessageSend{Content: "?"}, time.Second)
	require.Error(t, err)
	require.Zero(t, reg.Pending())
}

func TestAskText_ContextCancelled(t *testing.T) {
	a, reg, _, _ := newAsker(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.AskText(ctx, "c1", "u1", &discordgo.MessageSend{Content: "?"}, time.Second)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, reg.Pending())
}

func TestAskText_AlreadyWaiting(t *testing.T) {
	a, reg, client, _ := newAsker(t)

	client.OnSend = func(s platformtest.Sent) {
		_, err := a.AskText(context.Background(), "c1", "u1", &discordgo.MessageSend{Content: "again"}, time.Second)
		require.ErrorIs(t, err, ErrAlreadyWaiting)
		reg.DeliverText("c1", "u1", "done")
	}

	ans, err := a.AskText(context.Background(), "c1", "u1", &discordgo.MessageSend{Content: "?"}, time.Second)
	require.NoError(t, err)
	require.Equal(t, "done", ans.Value)
}

func TestAskReaction(t *testing.T) {
	a, reg, client, seen := newAsker(t)

	go func() {
		for len(client.Added()) < 2 {
			time.Sleep(time.Millisecond)
		}

		sent, _ := client.LastMessage("c1")
		reg.DeliverChoice("c1", sent.MessageID, "u1", "🔗")
	}()

	ans, err := a.AskReaction(context.Background(), "c1", "u1", &discordgo.MessageSend{Content: "New or existing?"}, []string{"🆕", "🔗"}, time.Second)
	require.NoError(t, err)
	require.Equal(t, "🔗", ans.Value)
	require.Equal(t, []observed{{kind: "reaction", outcome: OutcomeAnswer}}, *seen)

	added := client.Added()
	require.Len(t, added, 2)
	require.Equal(t, "🆕", added[0].Emoji)
	require.Equal(t, ans.PromptID, added[0].MessageID)
}

func TestAskSelect(t *testing.T) {
	a, reg, client, _ := newAsker(t)

	client.OnSend = func(s platformtest.Sent) {
		require.Len(t, s.Message.Components, 1)
		row, ok := s.Message.Components[0].(discordgo.ActionsRow)
		require.True(t, ok)
		menu, ok := row.Components[0].(discordgo.SelectMenu)
		require.True(t, ok)
		require.Contains(t, menu.CustomID, SelectCustomIDPrefix)
		require.Len(t, menu.Options, 2)

		require.False(t, reg.DeliverChoice("c1", s.MessageID, "u1", "unknown"))
		require.True(t, reg.DeliverChoice("c1", s.MessageID, "u1", "other"))
	}

	prompt := &discordgo.MessageSend{Content: "Pick one"}
	ans, err := a.AskSelect(context.Background(), "c1", "u1", prompt, "Select a subject", []discordgo.SelectMenuOption{
		{Label: "Payments", Value: "s1"},
		{Label: "Other", Value: "other"},
	}, time.Second)
	require.NoError(t, err)
	require.Equal(t, "other", ans.Value)

	// The caller's prompt is left untouched.
	require.Empty(t, prompt.Components)
}

func TestAskSelect_NoOptions(t *testing.T) {
	a, _, _, _ := newAsker(t)

	_, err := a.AskSelect(context.Background(), "c1", "u1", &discordgo.MessageSend{}, "", nil, time.Second)
	require.Error(t, err)
}
