package agent

import "github.com/rebecaborsan/code-editing-agent/internal/llm"

// Session holds the conversation history for one interactive run.
//
// The history is strictly append-only and is resent in full on every request
// leg; no truncation or windowing is performed, so message position doubles
// as sequence number. History lives only as long as the process.
type Session struct {
	Messages []llm.Message

	// Token usage tracking
	TotalInputTokens  int
	TotalOutputTokens int
	TotalTokens       int

	// Per-turn token tracking (reset at start of each Run)
	TurnInputTokens  int
	TurnOutputTokens int
	TurnTokens       int
	TurnLLMCalls     int
}

// NewSession creates a new session with empty conversation history.
func NewSession() *Session {
	return &Session{
		Messages: make([]llm.Message, 0),
	}
}

// AddMessage appends a message to the conversation history.
func (s *Session) AddMessage(message llm.Message) {
	s.Messages = append(s.Messages, message)
}

// Clear clears the conversation history.
func (s *Session) Clear() {
	s.Messages = make([]llm.Message, 0)
}

// ResetTurnStats resets per-turn token tracking (called at start of each Run).
func (s *Session) ResetTurnStats() {
	s.TurnInputTokens = 0
	s.TurnOutputTokens = 0
	s.TurnTokens = 0
	s.TurnLLMCalls = 0
}

// AddTokenUsage adds token usage from an LLM response.
func (s *Session) AddTokenUsage(usage llm.TokenUsage) {
	s.TurnInputTokens += usage.InputTokens
	s.TurnOutputTokens += usage.OutputTokens
	s.TurnTokens += usage.TotalTokens
	s.TurnLLMCalls++

	s.TotalInputTokens += usage.InputTokens
	s.TotalOutputTokens += usage.OutputTokens
	s.TotalTokens += usage.TotalTokens
}
