package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimHistory_DropsSystemTurns(t *testing.T) {
	turns := []ChatTurn{
		{Role: RoleSystem, Content: "sneaky instruction"},
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
	}

	trimmed := TrimHistory(turns, MaxHistoryTurns)
	assert.Len(t, trimmed, 2)
	for _, turn := range trimmed {
		assert.NotEqual(t, RoleSystem, turn.Role)
	}
}

func TestTrimHistory_KeepsLastN(t *testing.T) {
	var turns []ChatTurn
	for i := 0; i < 12; i++ {
		turns = append(turns, ChatTurn{Role: RoleUser, Content: fmt.Sprintf("q%d", i)})
	}

	trimmed := TrimHistory(turns, 8)
	assert.Len(t, trimmed, 8)
	assert.Equal(t, "q4", trimmed[0].Content)
	assert.Equal(t, "q11", trimmed[7].Content)
}

func TestTrimHistory_ShortHistoryUntouched(t *testing.T) {
	turns := []ChatTurn{{Role: RoleUser, Content: "only one"}}
	assert.Equal(t, turns, TrimHistory(turns, 8))
}

func TestLatestUserContent(t *testing.T) {
	turns := []ChatTurn{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "reply"},
		{Role: RoleUser, Content: "second"},
		{Role: RoleAssistant, Content: "reply"},
	}
	assert.Equal(t, "second", LatestUserContent(turns))
	assert.Equal(t, "", LatestUserContent(nil))
}
