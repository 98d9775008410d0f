package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/rebecaborsan/code-editing-agent/internal/llm"
	"github.com/rebecaborsan/code-editing-agent/internal/tools"
)

// mockAdapter replays scripted responses and records requests.
type mockAdapter struct {
	responses []*llm.ChatResponse
	err       error
	callCount int
	requests  []llm.ChatRequest
}

func (m *mockAdapter) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if m.callCount >= len(m.responses) {
		return nil, errors.New("no more mock responses")
	}
	resp := m.responses[m.callCount]
	m.callCount++
	return resp, nil
}

// countingTool records how many times it executed.
type countingTool struct {
	name     string
	calls    int
	lastArgs map[string]any
	result   string
}

func (c *countingTool) Name() string        { return c.name }
func (c *countingTool) Description() string { return "test tool" }
func (c *countingTool) Parameters() llm.ParameterSchema {
	return llm.ParameterSchema{Type: "object"}
}
func (c *countingTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	c.calls++
	c.lastArgs = args
	return c.result, nil
}

func newTestAgent(t *testing.T, adapter llm.Adapter, toolList ...tools.Tool) *Agent {
	t.Helper()
	registry := tools.NewRegistry()
	for _, tool := range toolList {
		if err := registry.Register(tool); err != nil {
			t.Fatalf("Register() error: %v", err)
		}
	}
	executor := tools.NewExecutor(registry, nil)
	return New(adapter, executor, registry, "You are a helpful assistant")
}

func textResponse(texts ...string) *llm.ChatResponse {
	resp := &llm.ChatResponse{
		Usage: llm.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}
	for _, text := range texts {
		resp.Blocks = append(resp.Blocks, llm.TextBlock{Text: text})
	}
	return resp
}

func TestRun_NoToolCall(t *testing.T) {
	adapter := &mockAdapter{
		responses: []*llm.ChatResponse{
			textResponse("Hello! How can I help you?"),
		},
	}
	agent := newTestAgent(t, adapter)

	session := NewSession()
	response, err := agent.Run(context.Background(), session, "Hello")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if response != "Hello! How can I help you?" {
		t.Errorf("Run() = %q", response)
	}

	// A plain turn appends exactly user + assistant.
	if len(session.Messages) != 2 {
		t.Fatalf("session has %d messages, want 2", len(session.Messages))
	}
	if session.Messages[0].Role != llm.RoleUser || session.Messages[0].Text() != "Hello" {
		t.Errorf("first message = %+v", session.Messages[0])
	}
	if session.Messages[1].Role != llm.RoleAssistant {
		t.Errorf("second message role = %s, want assistant", session.Messages[1].Role)
	}

	if adapter.requests[0].SystemPrompt != "You are a helpful assistant" {
		t.Errorf("request system prompt = %q", adapter.requests[0].SystemPrompt)
	}
}

func TestRun_JoinsTextBlocks(t *testing.T) {
	adapter := &mockAdapter{
		responses: []*llm.ChatResponse{
			textResponse("first part", "second part"),
		},
	}
	agent := newTestAgent(t, adapter)

	response, err := agent.Run(context.Background(), NewSession(), "hi")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if response != "first part\n\nsecond part" {
		t.Errorf("Run() = %q, want blank-line joined text", response)
	}
}

func TestRun_ToolRoundTrip(t *testing.T) {
	adapter := &mockAdapter{
		responses: []*llm.ChatResponse{
			{
				Blocks: []llm.ContentBlock{
					llm.TextBlock{Text: "Let me read that."},
					llm.ToolUseBlock{
						ID:    "toolu_1",
						Name:  "read_file",
						Input: map[string]any{"path": "config.txt"},
					},
				},
				Usage: llm.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
			},
			textResponse("The port is 8080."),
		},
	}
	tool := &countingTool{name: "read_file", result: "port=8080"}
	agent := newTestAgent(t, adapter, tool)

	session := NewSession()
	response, err := agent.Run(context.Background(), session, "read main config")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if response != "The port is 8080." {
		t.Errorf("Run() = %q, want %q", response, "The port is 8080.")
	}
	if tool.calls != 1 {
		t.Errorf("tool executed %d times, want 1", tool.calls)
	}
	if tool.lastArgs["path"] != "config.txt" {
		t.Errorf("tool args = %v", tool.lastArgs)
	}

	// A tool turn appends user, assistant(+tool_use), user(tool_result),
	// assistant — in that order.
	if len(session.Messages) != 4 {
		t.Fatalf("session has %d messages, want 4", len(session.Messages))
	}

	wantRoles := []llm.Role{llm.RoleUser, llm.RoleAssistant, llm.RoleUser, llm.RoleAssistant}
	for i, want := range wantRoles {
		if session.Messages[i].Role != want {
			t.Errorf("message[%d].Role = %s, want %s", i, session.Messages[i].Role, want)
		}
	}

	// The assistant turn preserves both the text and the tool_use block.
	assistant := session.Messages[1]
	if len(assistant.Blocks) != 2 {
		t.Fatalf("assistant message has %d blocks, want 2", len(assistant.Blocks))
	}
	use, ok := assistant.Blocks[1].(llm.ToolUseBlock)
	if !ok {
		t.Fatalf("assistant block[1] = %T, want ToolUseBlock", assistant.Blocks[1])
	}
	if use.ID != "toolu_1" || use.Name != "read_file" {
		t.Errorf("tool_use = %+v", use)
	}

	// The tool result correlates to the tool_use id and precedes the
	// follow-up request.
	resultMsg := session.Messages[2]
	if len(resultMsg.Blocks) != 1 {
		t.Fatalf("tool result message has %d blocks, want 1", len(resultMsg.Blocks))
	}
	result, ok := resultMsg.Blocks[0].(llm.ToolResultBlock)
	if !ok {
		t.Fatalf("result block = %T, want ToolResultBlock", resultMsg.Blocks[0])
	}
	if result.ToolUseID != "toolu_1" {
		t.Errorf("result.ToolUseID = %s, want toolu_1", result.ToolUseID)
	}
	if result.Content != "port=8080" {
		t.Errorf("result.Content = %q, want port=8080", result.Content)
	}
	if result.IsError {
		t.Error("result.IsError = true")
	}

	// The follow-up leg saw the tool round-trip.
	if len(adapter.requests) != 2 {
		t.Fatalf("adapter received %d requests, want 2", len(adapter.requests))
	}
	if len(adapter.requests[1].Messages) != 3 {
		t.Errorf("follow-up request carried %d messages, want 3", len(adapter.requests[1].Messages))
	}
}

func TestRun_OnlyFirstToolUseExecutes(t *testing.T) {
	adapter := &mockAdapter{
		responses: []*llm.ChatResponse{
			{
				Blocks: []llm.ContentBlock{
					llm.ToolUseBlock{ID: "toolu_1", Name: "first", Input: map[string]any{}},
					llm.ToolUseBlock{ID: "toolu_2", Name: "second", Input: map[string]any{}},
				},
			},
			textResponse("done"),
		},
	}
	first := &countingTool{name: "first", result: "a"}
	second := &countingTool{name: "second", result: "b"}
	agent := newTestAgent(t, adapter, first, second)

	session := NewSession()
	response, err := agent.Run(context.Background(), session, "go")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if response != "done" {
		t.Errorf("Run() = %q", response)
	}
	if first.calls != 1 {
		t.Errorf("first tool executed %d times, want 1", first.calls)
	}
	if second.calls != 0 {
		t.Errorf("second tool executed %d times, want 0", second.calls)
	}
}

func TestRun_UnknownToolSurfacesAsResult(t *testing.T) {
	adapter := &mockAdapter{
		responses: []*llm.ChatResponse{
			{
				Blocks: []llm.ContentBlock{
					llm.ToolUseBlock{ID: "toolu_1", Name: "nonexistent", Input: map[string]any{}},
				},
			},
			textResponse("I could not run that tool."),
		},
	}
	agent := newTestAgent(t, adapter)

	session := NewSession()
	response, err := agent.Run(context.Background(), session, "go")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if response != "I could not run that tool." {
		t.Errorf("Run() = %q", response)
	}

	result, ok := session.Messages[2].Blocks[0].(llm.ToolResultBlock)
	if !ok {
		t.Fatalf("result block = %T", session.Messages[2].Blocks[0])
	}
	if !result.IsError {
		t.Error("unknown tool result should be flagged as error")
	}
}

func TestRun_ChatErrorAbortsTurn(t *testing.T) {
	wantErr := &llm.APIError{StatusCode: 429, Message: "rate limited"}
	adapter := &mockAdapter{err: wantErr}
	agent := newTestAgent(t, adapter)

	session := NewSession()
	_, err := agent.Run(context.Background(), session, "hello")
	if err == nil {
		t.Fatal("Run() should propagate chat errors")
	}

	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("Run() error = %v, want APIError", err)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	adapter := &mockAdapter{responses: []*llm.ChatResponse{textResponse("hi")}}
	agent := newTestAgent(t, adapter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := agent.Run(ctx, NewSession(), "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_TokenAccounting(t *testing.T) {
	adapter := &mockAdapter{
		responses: []*llm.ChatResponse{
			{
				Blocks: []llm.ContentBlock{
					llm.ToolUseBlock{ID: "toolu_1", Name: "t", Input: map[string]any{}},
				},
				Usage: llm.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
			},
			{
				Blocks: []llm.ContentBlock{llm.TextBlock{Text: "done"}},
				Usage:  llm.TokenUsage{InputTokens: 20, OutputTokens: 10, TotalTokens: 30},
			},
		},
	}
	agent := newTestAgent(t, adapter, &countingTool{name: "t", result: "ok"})

	session := NewSession()
	if _, err := agent.Run(context.Background(), session, "go"); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if session.TurnLLMCalls != 2 {
		t.Errorf("TurnLLMCalls = %d, want 2", session.TurnLLMCalls)
	}
	if session.TurnInputTokens != 30 || session.TurnOutputTokens != 15 {
		t.Errorf("turn tokens = %d/%d, want 30/15", session.TurnInputTokens, session.TurnOutputTokens)
	}
	if session.TotalTokens != 45 {
		t.Errorf("TotalTokens = %d, want 45", session.TotalTokens)
	}
}

func TestSwitchModel(t *testing.T) {
	adapter := &mockAdapter{responses: []*llm.ChatResponse{textResponse("from new adapter")}}
	replacement := &mockAdapter{responses: []*llm.ChatResponse{textResponse("swapped")}}

	agent := newTestAgent(t, adapter)
	if err := agent.SwitchModel(context.Background(), "claude", "m", "new-model"); err == nil {
		t.Error("SwitchModel() without factory should fail")
	}

	agent = New(adapter, tools.NewExecutor(tools.NewRegistry(), nil), tools.NewRegistry(), "",
		WithAdapterFactory(func(ctx context.Context, provider, model string) (llm.Adapter, error) {
			return replacement, nil
		}),
		WithCurrentModelName("old-model"),
	)

	if err := agent.SwitchModel(context.Background(), "claude", "m", "new-model"); err != nil {
		t.Fatalf("SwitchModel() error: %v", err)
	}
	if agent.CurrentModelName() != "new-model" {
		t.Errorf("CurrentModelName() = %s, want new-model", agent.CurrentModelName())
	}

	response, err := agent.Run(context.Background(), NewSession(), "hi")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if response != "swapped" {
		t.Errorf("Run() = %q, want response from swapped adapter", response)
	}
}
