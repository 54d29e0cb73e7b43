package assistant

// TokenCounter estimates the prompt tokens of a piece of text.
type TokenCounter interface {
	Count(text string) int
}

// toTranscript drops system entries; the system context is attached separately.
func toTranscript(messages []ChatMessage) []Turn {
	turns := make([]Turn, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			turns = append(turns, Turn{Role: RoleUser, Text: msg.Content})
		case RoleAssistant:
			turns = append(turns, Turn{Role: RoleAssistant, Text: msg.Content})
		}
	}
	return turns
}

// trimHistory keeps the newest turns that fit in budget tokens. The last turn
// is always kept. A non-positive budget disables trimming.
func trimHistory(turns []Turn, budget int, counter TokenCounter) []Turn {
	if budget <= 0 || counter == nil || len(turns) <= 1 {
		return turns
	}
	used := counter.Count(turns[len(turns)-1].Text)
	start := len(turns) - 1
	for i := len(turns) - 2; i >= 0; i-- {
		cost := counter.Count(turns[i].Text)
		if used+cost > budget {
			break
		}
		used += cost
		start = i
	}
	return turns[start:]
}
