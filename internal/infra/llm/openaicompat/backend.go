package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/skymind/internal/domain/assistant"
	"github.com/yanqian/skymind/pkg/metrics"
)

const analysisSystemPrompt = "You are a helpful weather assistant that outputs strictly valid JSON."

// ChatClient is the transport used by Backend.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, vendor, apiKey string, req ChatCompletionRequest) (ChatCompletionResponse, error)
}

// Backend adapts the assistant transcript to the OpenAI chat-completions wire format.
type Backend struct {
	client ChatClient
	logger *slog.Logger
}

// NewBackend builds the compatible adapter.
func NewBackend(client ChatClient, logger *slog.Logger) *Backend {
	return &Backend{client: client, logger: logger.With("component", "openaicompat.backend")}
}

var _ assistant.Backend = (*Backend)(nil)

// GenerateStructured runs a JSON-mode completion and decodes the analysis.
func (b *Backend) GenerateStructured(ctx context.Context, req assistant.StructuredRequest) (assistant.AnalysisResult, error) {
	completion, err := b.client.CreateChatCompletion(ctx, string(req.Provider), req.APIKey, ChatCompletionRequest{
		Model: req.Model,
		Messages: []Message{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		Temperature:    req.Temperature,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return assistant.AnalysisResult{}, translateError(req.Provider, err)
	}
	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return assistant.AnalysisResult{}, assistant.ErrEmptyResponse
	}
	return assistant.DecodeAnalysis(completion.Choices[0].Message.Content)
}

// Converse sends the system context plus the whole transcript and returns the next turn.
func (b *Backend) Converse(ctx context.Context, req assistant.TurnRequest) (assistant.TurnReply, error) {
	messages, err := toMessages(req.SystemContext, req.Transcript)
	if err != nil {
		return assistant.TurnReply{}, err
	}
	payload := ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	if len(req.Tools) > 0 {
		payload.Tools = toTools(req.Tools)
		payload.ToolChoice = "auto"
	}

	completion, err := b.client.CreateChatCompletion(ctx, string(req.Provider), req.APIKey, payload)
	if err != nil {
		return assistant.TurnReply{}, translateError(req.Provider, err)
	}
	if len(completion.Choices) == 0 {
		return assistant.TurnReply{}, assistant.ErrEmptyResponse
	}

	msg := completion.Choices[0].Message
	turn := assistant.Turn{Role: assistant.RoleAssistant, Text: msg.Content}
	for _, call := range msg.ToolCalls {
		turn.ToolCalls = append(turn.ToolCalls, fromToolCall(call))
	}
	if len(turn.ToolCalls) > 0 {
		b.logger.Debug("compatible provider requested tools", "provider", req.Provider, "count", len(turn.ToolCalls))
	}

	reply := assistant.TurnReply{Turn: turn}
	if completion.Usage != nil {
		reply.Usage = metrics.TokenUsage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		}
	}
	return reply, nil
}

func toMessages(system string, transcript []assistant.Turn) ([]Message, error) {
	messages := make([]Message, 0, len(transcript)+1)
	if strings.TrimSpace(system) != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	for _, turn := range transcript {
		switch turn.Role {
		case assistant.RoleUser:
			messages = append(messages, Message{Role: "user", Content: turn.Text})
		case assistant.RoleAssistant:
			msg := Message{Role: "assistant", Content: turn.Text}
			for _, call := range turn.ToolCalls {
				msg.ToolCalls = append(msg.ToolCalls, ToolCall{
					ID:       call.ID,
					Type:     "function",
					Function: ToolCallDefinition{Name: call.Name, Arguments: call.RawArguments},
				})
			}
			messages = append(messages, msg)
		case assistant.RoleTool:
			for _, result := range turn.ToolResults {
				content, err := json.Marshal(result.Content)
				if err != nil {
					return nil, fmt.Errorf("encode tool result %s: %w", result.CallID, err)
				}
				messages = append(messages, Message{
					Role:       "tool",
					Name:       result.Name,
					Content:    string(content),
					ToolCallID: result.CallID,
				})
			}
		}
	}
	return messages, nil
}

func toTools(specs []assistant.ToolSpec) []Tool {
	tools := make([]Tool, 0, len(specs))
	for _, spec := range specs {
		tools = append(tools, Tool{
			Type: "function",
			Function: ToolFunction{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Parameters,
			},
		})
	}
	return tools
}

func fromToolCall(call ToolCall) assistant.ToolCall {
	out := assistant.ToolCall{
		ID:           call.ID,
		Name:         call.Function.Name,
		RawArguments: call.Function.Arguments,
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err == nil {
		out.Arguments = args
	}
	return out
}

func translateError(provider assistant.Provider, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &assistant.HTTPError{Provider: provider, Status: apiErr.Status, Body: apiErr.Body}
	}
	return err
}
