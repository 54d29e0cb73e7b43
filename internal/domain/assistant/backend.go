package assistant

import (
	"context"

	"github.com/yanqian/skymind/pkg/metrics"
)

// Backend is implemented once per adapter family. Implementations hold no
// conversation state; everything they need arrives in the request.
type Backend interface {
	GenerateStructured(ctx context.Context, req StructuredRequest) (AnalysisResult, error)
	Converse(ctx context.Context, req TurnRequest) (TurnReply, error)
}

// Backends pairs the adapter for each RouteKind.
type Backends struct {
	Native     Backend
	Compatible Backend
}

// StructuredRequest is a one-shot JSON analysis call.
type StructuredRequest struct {
	Provider    Provider
	Model       string
	APIKey      string
	Prompt      string
	Temperature float32
}

// TurnRequest sends the whole transcript and expects the next assistant turn.
type TurnRequest struct {
	Provider      Provider
	Model         string
	APIKey        string
	SystemContext string
	Transcript    []Turn
	Tools         []ToolSpec
	Temperature   float32
}

// TurnReply is the assistant turn produced by the provider.
type TurnReply struct {
	Turn  Turn
	Usage metrics.TokenUsage
}

// Turn is one entry of the explicit conversation transcript.
type Turn struct {
	Role        Role
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// ToolCall is a model request to run a declared function.
type ToolCall struct {
	ID   string
	Name string
	// Arguments is nil when RawArguments could not be decoded.
	Arguments    map[string]any
	RawArguments string
}

// ToolResult answers one ToolCall.
type ToolResult struct {
	CallID  string
	Name    string
	Content any
}

// ToolError is the payload fed back to the model when a tool could not run.
type ToolError struct {
	Error string `json:"error"`
}

// Schema is a vendor-neutral JSON schema subset.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// ToolSpec declares a callable function.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  *Schema
}

// WeatherToolName is the single function exposed to every provider.
const WeatherToolName = "get_current_weather"

// WeatherTool returns the get_current_weather declaration.
func WeatherTool() ToolSpec {
	return ToolSpec{
		Name:        WeatherToolName,
		Description: "Get real-time weather data for a specific city name.",
		Parameters: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"city": {
					Type:        "string",
					Description: "The name of the city (e.g. London, Tokyo, Jakarta)",
				},
			},
			Required: []string{"city"},
		},
	}
}

// AnalysisSchema is the output schema for structured generation.
func AnalysisSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"summary":              {Type: "string", Description: "A general weather summary in the requested persona voice."},
			"outfitRecommendation": {Type: "string", Description: "Specific clothing advice based on temp and conditions."},
			"activitySuggestion":   {Type: "string", Description: "Best things to do given the weather."},
			"hazards":              {Type: "string", Description: "Any warnings like high UV, storm, or high wind. Leave empty if none."},
		},
		Required: []string{"summary", "outfitRecommendation", "activitySuggestion"},
	}
}
