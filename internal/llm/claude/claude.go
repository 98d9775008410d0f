// Package claude implements the llm.Adapter interface using Anthropic's
// Messages API.
package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/rebecaborsan/code-editing-agent/internal/llm"
)

const defaultModel = "claude-3-7-sonnet-latest"

// Client implements the llm.Adapter interface using Anthropic's Claude API.
type Client struct {
	client anthropic.Client
	model  string
}

// NewClient creates a new Claude client.
// API key is read from the ANTHROPIC_API_KEY environment variable.
func NewClient(model string) (*Client, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	if model == "" {
		model = defaultModel
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Chat sends a chat request and returns a response.
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, convertMessage(msg))
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}

	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{
				Text: req.SystemPrompt,
			},
		}
	}

	if len(req.Tools) > 0 {
		tools := make([]anthropic.ToolUnionParam, 0, len(req.Tools))
		for _, tool := range req.Tools {
			tools = append(tools, convertToolDefinition(tool))
		}
		params.Tools = tools
	}

	response, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}

	return convertResponse(response), nil
}

// classifyError maps SDK errors onto the adapter error taxonomy: a rejected
// request becomes an APIError, anything else is a TransportError.
func classifyError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &llm.APIError{
			StatusCode: apierr.StatusCode,
			Message:    apierr.Error(),
			Err:        err,
		}
	}
	return &llm.TransportError{Err: err}
}

// convertMessage converts one of our messages to an Anthropic message param.
func convertMessage(msg llm.Message) anthropic.MessageParam {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Blocks))
	for _, block := range msg.Blocks {
		switch b := block.(type) {
		case llm.TextBlock:
			if b.Text == "" {
				// The API rejects empty text blocks.
				continue
			}
			blocks = append(blocks, anthropic.NewTextBlock(b.Text))
		case llm.ToolUseBlock:
			blocks = append(blocks, anthropic.ContentBlockParamUnion{
				OfToolUse: &anthropic.ToolUseBlockParam{
					ID:    b.ID,
					Name:  b.Name,
					Input: b.Input,
				},
			})
		case llm.ToolResultBlock:
			blocks = append(blocks, anthropic.ContentBlockParamUnion{
				OfToolResult: &anthropic.ToolResultBlockParam{
					ToolUseID: b.ToolUseID,
					IsError:   anthropic.Bool(b.IsError),
					Content: []anthropic.ToolResultBlockParamContentUnion{
						{OfText: &anthropic.TextBlockParam{Text: b.Content}},
					},
				},
			})
		}
	}

	if msg.Role == llm.RoleAssistant {
		return anthropic.NewAssistantMessage(blocks...)
	}
	return anthropic.NewUserMessage(blocks...)
}

// convertToolDefinition converts our tool definition to Anthropic format.
func convertToolDefinition(tool llm.ToolDefinition) anthropic.ToolUnionParam {
	properties := make(map[string]interface{})
	for name, prop := range tool.Parameters.Properties {
		properties[name] = map[string]interface{}{
			"type":        prop.Type,
			"description": prop.Description,
		}
	}

	inputSchema := anthropic.ToolInputSchemaParam{
		Properties: properties,
	}

	if len(tool.Parameters.Required) > 0 {
		inputSchema.Required = tool.Parameters.Required
	}

	return anthropic.ToolUnionParamOfTool(inputSchema, tool.Name)
}

// convertResponse converts an Anthropic response to our block union.
func convertResponse(response *anthropic.Message) *llm.ChatResponse {
	result := &llm.ChatResponse{
		Usage: llm.TokenUsage{
			InputTokens:  int(response.Usage.InputTokens),
			OutputTokens: int(response.Usage.OutputTokens),
			TotalTokens:  int(response.Usage.InputTokens + response.Usage.OutputTokens),
		},
	}

	for _, block := range response.Content {
		switch block.Type {
		case "text":
			textBlock := block.AsText()
			result.Blocks = append(result.Blocks, llm.TextBlock{Text: textBlock.Text})
		case "tool_use":
			toolBlock := block.AsToolUse()
			input := make(map[string]any)
			if err := json.Unmarshal(toolBlock.Input, &input); err != nil {
				// Malformed input is dropped rather than crashing the turn.
				continue
			}
			result.Blocks = append(result.Blocks, llm.ToolUseBlock{
				ID:    toolBlock.ID,
				Name:  toolBlock.Name,
				Input: input,
			})
		}
	}

	return result
}
