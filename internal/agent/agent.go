// Package agent drives the tool-use orchestration loop: one request leg to
// the model, at most one local tool invocation per assistant turn, and one
// follow-up leg to obtain the final text answer.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rebecaborsan/code-editing-agent/internal/llm"
	"github.com/rebecaborsan/code-editing-agent/internal/tools"
)

// AdapterFactory creates a new LLM adapter for the given provider and model.
// Used by SwitchModel to hot-swap the underlying LLM without restarting.
type AdapterFactory func(ctx context.Context, provider, model string) (llm.Adapter, error)

// Option configures optional Agent settings.
type Option func(*Agent)

// WithAdapterFactory sets the adapter factory for hot-swapping models.
func WithAdapterFactory(f AdapterFactory) Option {
	return func(a *Agent) { a.adapterFactory = f }
}

// WithCurrentModelName sets the display name of the active model.
func WithCurrentModelName(name string) Option {
	return func(a *Agent) { a.currentModel = name }
}

// WithMaxTokens sets the maximum-output-token budget per request leg.
func WithMaxTokens(n int) Option {
	return func(a *Agent) { a.maxTokens = n }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// Agent runs the orchestration loop for one user turn at a time.
type Agent struct {
	mu             sync.RWMutex // protects llm and currentModel
	llm            llm.Adapter
	executor       *tools.Executor
	registry       *tools.Registry
	systemPrompt   string
	maxTokens      int
	logger         *slog.Logger
	adapterFactory AdapterFactory // optional, for hot-swap
	currentModel   string         // display name of active model
}

// New creates a new agent. Options are applied after defaults.
func New(adapter llm.Adapter, executor *tools.Executor, registry *tools.Registry, systemPrompt string, opts ...Option) *Agent {
	a := &Agent{
		llm:          adapter,
		executor:     executor,
		registry:     registry,
		systemPrompt: systemPrompt,
		maxTokens:    2000,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SwitchModel hot-swaps the LLM adapter to a different provider/model.
// Requires an AdapterFactory to have been set via WithAdapterFactory.
func (a *Agent) SwitchModel(ctx context.Context, provider, model, displayName string) error {
	if a.adapterFactory == nil {
		return fmt.Errorf("no adapter factory configured; cannot switch models")
	}
	newAdapter, err := a.adapterFactory(ctx, provider, model)
	if err != nil {
		return fmt.Errorf("failed to create adapter for %s/%s: %w", provider, model, err)
	}
	a.mu.Lock()
	a.llm = newAdapter
	a.currentModel = displayName
	a.mu.Unlock()
	return nil
}

// CurrentModelName returns the display name of the active model.
func (a *Agent) CurrentModelName() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.currentModel
}

// Run executes one conversational turn:
//
//  1. Append the user message and send the conversation plus tool
//     declarations to the model.
//  2. If the response carries no tool_use, its text is the answer.
//  3. Otherwise execute the first tool_use locally, append the assistant
//     turn and the tool_result, and send a follow-up request whose text
//     is the answer. Additional tool_use blocks in either response are
//     ignored: the loop supports exactly one tool invocation per turn.
//
// Transport/API errors from either leg abort the turn and propagate to the
// caller; messages appended before the failure stay in the session.
func (a *Agent) Run(ctx context.Context, session *Session, userMessage string) (string, error) {
	session.ResetTurnStats()
	session.AddMessage(llm.UserText(userMessage))

	toolDefs := a.registry.ToDefinitions()

	resp, err := a.chat(ctx, session, toolDefs)
	if err != nil {
		return "", err
	}

	pendingText, toolUse := splitResponse(resp.Blocks)

	if toolUse == nil {
		if pendingText != "" {
			session.AddMessage(llm.AssistantText(pendingText))
		}
		return pendingText, nil
	}

	// The assistant turn must preserve both the reasoning text and the
	// tool_use block exactly as received, or the follow-up request loses
	// the context of why the tool ran.
	var blocks []llm.ContentBlock
	if pendingText != "" {
		blocks = append(blocks, llm.TextBlock{Text: pendingText})
	}
	blocks = append(blocks, *toolUse)
	session.AddMessage(llm.Message{Role: llm.RoleAssistant, Blocks: blocks})

	result := a.executor.Execute(ctx, *toolUse)
	session.AddMessage(llm.Message{Role: llm.RoleUser, Blocks: []llm.ContentBlock{result}})

	a.logger.Debug("tool round-trip complete",
		"tool", toolUse.Name,
		"tool_use_id", toolUse.ID,
		"is_error", result.IsError,
	)

	followUp, err := a.chat(ctx, session, toolDefs)
	if err != nil {
		return "", err
	}

	// A second tool request in the follow-up is not handled; only the text
	// blocks are kept.
	finalText, _ := splitResponse(followUp.Blocks)
	if finalText != "" {
		session.AddMessage(llm.AssistantText(finalText))
	}
	return finalText, nil
}

// chat performs one blocking request leg.
func (a *Agent) chat(ctx context.Context, session *Session, toolDefs []llm.ToolDefinition) (*llm.ChatResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	req := llm.ChatRequest{
		SystemPrompt: a.systemPrompt,
		Messages:     session.Messages,
		Tools:        toolDefs,
		MaxTokens:    a.maxTokens,
	}

	// Read lock so SwitchModel can't swap the adapter mid-call.
	a.mu.RLock()
	resp, err := a.llm.Chat(ctx, req)
	a.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("llm chat failed: %w", err)
	}

	session.AddTokenUsage(resp.Usage)
	return resp, nil
}

// splitResponse joins the response's text blocks (blank-line separated, in
// order) and picks out the first tool_use block. Any further tool_use blocks
// are dropped.
func splitResponse(blocks []llm.ContentBlock) (string, *llm.ToolUseBlock) {
	var parts []string
	var toolUse *llm.ToolUseBlock

	for _, block := range blocks {
		switch b := block.(type) {
		case llm.TextBlock:
			parts = append(parts, b.Text)
		case llm.ToolUseBlock:
			if toolUse == nil {
				use := b
				toolUse = &use
			}
		}
	}

	return strings.Join(parts, "\n\n"), toolUse
}
