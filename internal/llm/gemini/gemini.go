// Package gemini implements the llm.Adapter interface using Google's
// Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/rebecaborsan/code-editing-agent/internal/llm"
)

const defaultModel = "gemini-1.5-flash"

// Client implements the llm.Adapter interface using Google's Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a new Gemini client.
// API key is read from GEMINI_API_KEY or GOOGLE_API_KEY environment variable.
func NewClient(ctx context.Context, model string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY or GOOGLE_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

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
	model := c.client.GenerativeModel(c.model)

	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{
				genai.Text(req.SystemPrompt),
			},
		}
	}

	if len(req.Tools) > 0 {
		tools := make([]*genai.Tool, 0, len(req.Tools))
		for _, tool := range req.Tools {
			tools = append(tools, convertToolDefinition(tool))
		}
		model.Tools = tools
	}

	// Gemini wants the last user message passed to SendMessage and the rest
	// as chat history.
	var history []*genai.Content
	var lastParts []genai.Part

	for i, msg := range req.Messages {
		content := convertMessage(msg)
		if content == nil {
			continue
		}

		if i == len(req.Messages)-1 && content.Role == "user" {
			lastParts = content.Parts
			break
		}
		history = append(history, content)
	}

	chat := model.StartChat()
	chat.History = history

	if lastParts == nil {
		lastParts = []genai.Part{genai.Text("")}
	}

	resp, err := chat.SendMessage(ctx, lastParts...)
	if err != nil {
		return nil, classifyError(err)
	}

	return convertResponse(resp), nil
}

// convertMessage maps our block union onto Gemini content parts. Returns nil
// when the message carries nothing Gemini can represent.
func convertMessage(msg llm.Message) *genai.Content {
	var parts []genai.Part
	role := "user"
	if msg.Role == llm.RoleAssistant {
		role = "model"
	}

	for _, block := range msg.Blocks {
		switch b := block.(type) {
		case llm.TextBlock:
			if b.Text != "" {
				parts = append(parts, genai.Text(b.Text))
			}
		case llm.ToolUseBlock:
			// Include FunctionCall parts so Gemini sees its own tool calls
			// in history.
			parts = append(parts, genai.FunctionCall{
				Name: b.Name,
				Args: b.Input,
			})
		case llm.ToolResultBlock:
			parts = append(parts, genai.FunctionResponse{
				Name: b.ToolName,
				Response: map[string]any{
					"result": b.Content,
				},
			})
		}
	}

	if len(parts) == 0 {
		return nil
	}
	return &genai.Content{Parts: parts, Role: role}
}

// convertToolDefinition converts our tool definition to Gemini format.
func convertToolDefinition(tool llm.ToolDefinition) *genai.Tool {
	properties := make(map[string]*genai.Schema)
	for name, prop := range tool.Parameters.Properties {
		schemaType := genai.TypeString
		switch prop.Type {
		case "string":
			schemaType = genai.TypeString
		case "number":
			schemaType = genai.TypeNumber
		case "integer":
			schemaType = genai.TypeInteger
		case "boolean":
			schemaType = genai.TypeBoolean
		case "array":
			schemaType = genai.TypeArray
		case "object":
			schemaType = genai.TypeObject
		}

		properties[name] = &genai.Schema{
			Type:        schemaType,
			Description: prop.Description,
		}
	}

	return &genai.Tool{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters: &genai.Schema{
					Type:       genai.TypeObject,
					Properties: properties,
					Required:   tool.Parameters.Required,
				},
			},
		},
	}
}

// convertResponse converts a Gemini response to our block union.
func convertResponse(resp *genai.GenerateContentResponse) *llm.ChatResponse {
	result := &llm.ChatResponse{}

	if resp.UsageMetadata != nil {
		result.Usage = llm.TokenUsage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}

		for _, part := range candidate.Content.Parts {
			switch v := part.(type) {
			case genai.Text:
				result.Blocks = append(result.Blocks, llm.TextBlock{Text: string(v)})
			case genai.FunctionCall:
				args := make(map[string]any)
				for k, val := range v.Args {
					args[k] = val
				}
				result.Blocks = append(result.Blocks, llm.ToolUseBlock{
					// Gemini doesn't issue a separate call ID, use the name.
					ID:    v.Name,
					Name:  v.Name,
					Input: args,
				})
			}
		}
	}

	return result
}

// classifyError maps Google API errors onto the adapter error taxonomy.
func classifyError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &llm.APIError{
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return &llm.TransportError{Err: err}
}
