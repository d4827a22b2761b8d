package workflow

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "remote", err: Remote("tickets", "create_channel", "1", cause), want: KindRemote},
		{name: "timeout", err: Timeout("setup", "ticket_channel", "1"), want: KindTimeout},
		{name: "validation", err: Validation("subjects", "add", "too long"), want: KindValidation},
		{name: "precondition", err: Precondition("tickets", "claim", "1"), want: KindPrecondition},
		{name: "wrapped", err: fmt.Errorf("outer: %w", Timeout("setup", "roles", "")), want: KindTimeout},
		{name: "plain", err: cause, want: KindRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Remote("tickets", "delete_channel", "42", cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "tickets: delete_channel failed (remote) in channel 42: boom")
}

func TestUserMessage(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Validation("subjects", "add", "❌ - The subject is too long"))
	require.Equal(t, "❌ - The subject is too long", UserMessage(err))
	require.Empty(t, UserMessage(errors.New("plain")))
	require.True(t, IsTimeout(Timeout("tickets", "subject_reply", "1")))
	require.False(t, IsTimeout(nil))
}
