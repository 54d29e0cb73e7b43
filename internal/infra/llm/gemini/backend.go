package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/option"

	"github.com/yanqian/skymind/internal/domain/assistant"
	"github.com/yanqian/skymind/pkg/metrics"
)

// generation is everything needed for one SDK round-trip.
type generation struct {
	apiKey      string
	model       string
	temperature float32
	system      *genai.Content
	tools       []*genai.Tool
	schema      *genai.Schema
	history     []*genai.Content
	parts       []genai.Part
}

type generator interface {
	generate(ctx context.Context, g generation) (*genai.GenerateContentResponse, error)
}

// Backend is the native Gemini adapter.
type Backend struct {
	gen    generator
	logger *slog.Logger
}

// NewBackend builds the adapter on top of the Google Generative AI SDK.
func NewBackend(logger *slog.Logger) *Backend {
	return &Backend{gen: sdkGenerator{}, logger: logger.With("component", "gemini.backend")}
}

var _ assistant.Backend = (*Backend)(nil)

// GenerateStructured issues a JSON-schema constrained generation.
func (b *Backend) GenerateStructured(ctx context.Context, req assistant.StructuredRequest) (assistant.AnalysisResult, error) {
	resp, err := b.gen.generate(ctx, generation{
		apiKey:      req.APIKey,
		model:       req.Model,
		temperature: req.Temperature,
		schema:      toSchema(assistant.AnalysisSchema()),
		parts:       []genai.Part{genai.Text(req.Prompt)},
	})
	if err != nil {
		return assistant.AnalysisResult{}, translateError(err)
	}
	text, _ := readCandidate(resp)
	if strings.TrimSpace(text) == "" {
		return assistant.AnalysisResult{}, assistant.ErrEmptyResponse
	}
	return assistant.DecodeAnalysis(text)
}

// Converse replays the transcript as chat history and sends the newest turn.
func (b *Backend) Converse(ctx context.Context, req assistant.TurnRequest) (assistant.TurnReply, error) {
	if n := len(req.Transcript); n > 0 {
		if role := req.Transcript[n-1].Role; role != assistant.RoleUser && role != assistant.RoleTool {
			return assistant.TurnReply{}, assistant.ErrNoPendingTurn
		}
	}
	contents, err := toContents(req.Transcript)
	if err != nil {
		return assistant.TurnReply{}, err
	}
	if len(contents) == 0 {
		return assistant.TurnReply{}, assistant.ErrEmptyConversation
	}
	last := contents[len(contents)-1]

	g := generation{
		apiKey:      req.APIKey,
		model:       req.Model,
		temperature: req.Temperature,
		history:     contents[:len(contents)-1],
		parts:       last.Parts,
	}
	if strings.TrimSpace(req.SystemContext) != "" {
		g.system = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemContext)}}
	}
	if len(req.Tools) > 0 {
		g.tools = toTools(req.Tools)
	}

	resp, err := b.gen.generate(ctx, g)
	if err != nil {
		return assistant.TurnReply{}, translateError(err)
	}
	text, calls := readCandidate(resp)
	if len(calls) > 0 {
		b.logger.Debug("gemini requested tools", "model", req.Model, "count", len(calls))
	}
	return assistant.TurnReply{
		Turn:  assistant.Turn{Role: assistant.RoleAssistant, Text: text, ToolCalls: calls},
		Usage: toUsage(resp),
	}, nil
}

type sdkGenerator struct{}

func (sdkGenerator) generate(ctx context.Context, g generation) (*genai.GenerateContentResponse, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)
	model.SystemInstruction = g.system
	model.Tools = g.tools
	if g.schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = g.schema
	}

	session := model.StartChat()
	session.History = g.history
	return session.SendMessage(ctx, g.parts...)
}

func toContents(transcript []assistant.Turn) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(transcript))
	for _, turn := range transcript {
		switch turn.Role {
		case assistant.RoleUser:
			contents = append(contents, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(turn.Text)}})
		case assistant.RoleAssistant:
			var parts []genai.Part
			if turn.Text != "" {
				parts = append(parts, genai.Text(turn.Text))
			}
			for _, call := range turn.ToolCalls {
				parts = append(parts, genai.FunctionCall{Name: call.Name, Args: call.Arguments})
			}
			if len(parts) == 0 {
				continue
			}
			contents = append(contents, &genai.Content{Role: "model", Parts: parts})
		case assistant.RoleTool:
			parts := make([]genai.Part, 0, len(turn.ToolResults))
			for _, result := range turn.ToolResults {
				payload, err := toResponseMap(result.Content)
				if err != nil {
					return nil, fmt.Errorf("encode tool result %s: %w", result.CallID, err)
				}
				parts = append(parts, genai.FunctionResponse{Name: result.Name, Response: payload})
			}
			contents = append(contents, &genai.Content{Role: "user", Parts: parts})
		}
	}
	return contents, nil
}

// toResponseMap normalizes a tool payload into the JSON object shape the SDK expects.
func toResponseMap(content any) (map[string]any, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	return map[string]any{"result": decoded}, nil
}

func readCandidate(resp *genai.GenerateContentResponse) (string, []assistant.ToolCall) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", nil
	}

	var text strings.Builder
	var calls []assistant.ToolCall
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			raw, _ := json.Marshal(p.Args)
			calls = append(calls, assistant.ToolCall{
				ID:           fmt.Sprintf("%s-%d", p.Name, len(calls)),
				Name:         p.Name,
				Arguments:    p.Args,
				RawArguments: string(raw),
			})
		}
	}
	return text.String(), calls
}

func toUsage(resp *genai.GenerateContentResponse) metrics.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return metrics.TokenUsage{}
	}
	return metrics.TokenUsage{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
}

func toTools(specs []assistant.ToolSpec) []*genai.Tool {
	declarations := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, spec := range specs {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  toSchema(spec.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

func toSchema(s *assistant.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        toType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}
	return out
}

func toType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

func translateError(err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return &assistant.HTTPError{Provider: assistant.ProviderGemini, Status: apiErr.HTTPCode(), Body: apiErr.Error()}
	}
	return err
}
