// Package models holds the conversation types shared between the engine and
// the completion gateway.
package models

// Chat roles as the completion provider expects them.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one message of a conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MaxHistoryTurns is how many non-system turns the outbound completion
// request keeps.
const MaxHistoryTurns = 8

// TrimHistory drops system turns and keeps at most the last max turns.
// The gateway supplies its own system turns; inbound ones are never trusted.
func TrimHistory(turns []ChatTurn, max int) []ChatTurn {
	var kept []ChatTurn
	for _, turn := range turns {
		if turn.Role == RoleSystem {
			continue
		}
		kept = append(kept, turn)
	}
	if len(kept) > max {
		kept = kept[len(kept)-max:]
	}
	return kept
}

// LatestUserContent returns the content of the last user turn, or "".
func LatestUserContent(turns []ChatTurn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return turns[i].Content
		}
	}
	return ""
}
