package platform

import (
	"testing"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestEmbed(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	e := Embed(&discordgo.Guild{ID: "1", Name: "Guild", Icon: "abc"}, "Title", "Body", now)
	require.Equal(t, "Title", e.Title)
	require.Equal(t, "Body", e.Description)
	require.Equal(t, EmbedColour, e.Color)
	require.Equal(t, "2024-03-01T12:00:00Z", e.Timestamp)
	require.NotNil(t, e.Author)
	require.Equal(t, "Guild", e.Author.Name)
	require.Contains(t, e.Author.IconURL, "abc")

	e = Embed(nil, "Title", "", now)
	require.Nil(t, e.Author)
}
