package llm

// Role identifies who produced a message. The chat protocol only knows two
// roles: tool results travel inside a user message, never as a third role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentBlock is one element of a message's content. It is a closed union:
// only TextBlock, ToolUseBlock and ToolResultBlock implement it.
type ContentBlock interface {
	contentBlock()
}

// TextBlock is plain assistant or user text.
type TextBlock struct {
	Text string
}

// ToolUseBlock is a model-issued request to invoke a named tool.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input map[string]any
}

// ToolResultBlock carries the outcome of executing a prior ToolUseBlock,
// correlated by ToolUseID. ToolName is kept alongside because the Gemini
// adapter needs it to build a FunctionResponse.
type ToolResultBlock struct {
	ToolUseID string
	ToolName  string
	Content   string
	IsError   bool
}

func (TextBlock) contentBlock()       {}
func (ToolUseBlock) contentBlock()    {}
func (ToolResultBlock) contentBlock() {}

// Message is one turn in the conversation. Messages are append-only: once
// added to a session they are never mutated.
type Message struct {
	Role   Role
	Blocks []ContentBlock
}

// UserText builds a plain-text user message.
func UserText(text string) Message {
	return Message{Role: RoleUser, Blocks: []ContentBlock{TextBlock{Text: text}}}
}

// AssistantText builds a plain-text assistant message.
func AssistantText(text string) Message {
	return Message{Role: RoleAssistant, Blocks: []ContentBlock{TextBlock{Text: text}}}
}

// Text concatenates the message's text blocks. Tool blocks are skipped.
func (m Message) Text() string {
	var out string
	for _, b := range m.Blocks {
		if t, ok := b.(TextBlock); ok {
			out += t.Text
		}
	}
	return out
}
