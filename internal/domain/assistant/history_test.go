package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type wordCounter struct{}

func (wordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

func TestTrimHistoryKeepsNewestWithinBudget(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Text: "one two three four"},
		{Role: RoleAssistant, Text: "five six"},
		{Role: RoleUser, Text: "seven eight nine"},
	}

	trimmed := trimHistory(turns, 5, wordCounter{})
	require.Len(t, trimmed, 2)
	require.Equal(t, "five six", trimmed[0].Text)

	require.Len(t, trimHistory(turns, 0, wordCounter{}), 3)
	require.Len(t, trimHistory(turns, 5, nil), 3)
}

func TestTrimHistoryAlwaysKeepsLatestTurn(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Text: "old"},
		{Role: RoleUser, Text: "a very long latest question that exceeds the budget"},
	}

	trimmed := trimHistory(turns, 2, wordCounter{})
	require.Len(t, trimmed, 1)
	require.Equal(t, turns[1].Text, trimmed[0].Text)
}

func TestToTranscriptDropsSystemMessages(t *testing.T) {
	turns := toTranscript([]ChatMessage{
		{Role: RoleSystem, Content: "s"},
		{Role: RoleUser, Content: "u"},
		{Role: RoleAssistant, Content: "a"},
	})
	require.Equal(t, []Turn{{Role: RoleUser, Text: "u"}, {Role: RoleAssistant, Text: "a"}}, turns)
}
