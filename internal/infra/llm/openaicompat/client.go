package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Message mirrors the OpenAI chat message structure.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ResponseFormat forces JSON mode on vendors that support it.
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatCompletionRequest is the payload sent to every compatible vendor.
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float32         `json:"temperature,omitempty"`
	Tools          []Tool          `json:"tools,omitempty"`
	ToolChoice     string          `json:"tool_choice,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Choice is one completion candidate.
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage reports the vendor token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse captures the response for non streaming calls.
type ChatCompletionResponse struct {
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Tool represents a callable function exposed to the model.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction defines the shape of a callable tool.
type ToolFunction struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
}

// ToolCall is returned when the model wants to call a function.
type ToolCall struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Function ToolCallDefinition `json:"function"`
}

// ToolCallDefinition contains the function payload.
type ToolCallDefinition struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Endpoint is the chat-completions URL of a vendor plus any extra headers it expects.
type Endpoint struct {
	URL     string
	Headers map[string]string
}

// DefaultEndpoints returns the production endpoints for groq, mistral and openrouter.
func DefaultEndpoints(referer, title string) map[string]Endpoint {
	openRouterHeaders := map[string]string{}
	if referer != "" {
		openRouterHeaders["HTTP-Referer"] = referer
	}
	if title != "" {
		openRouterHeaders["X-Title"] = title
	}
	return map[string]Endpoint{
		"groq":       {URL: "https://api.groq.com/openai/v1/chat/completions"},
		"mistral":    {URL: "https://api.mistral.ai/v1/chat/completions"},
		"openrouter": {URL: "https://openrouter.ai/api/v1/chat/completions", Headers: openRouterHeaders},
	}
}

// APIError is returned for non-2xx replies.
type APIError struct {
	Vendor string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s request failed: status=%d body=%s", e.Vendor, e.Status, e.Body)
}

// Client performs chat-completion calls against any configured vendor.
type Client struct {
	endpoints  map[string]Endpoint
	httpClient *http.Client
}

// NewClient constructs a client. A zero timeout keeps the 60s default.
func NewClient(endpoints map[string]Endpoint, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoints: endpoints,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateChatCompletion triggers a sync call against vendor.
func (c *Client) CreateChatCompletion(ctx context.Context, vendor, apiKey string, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	var out ChatCompletionResponse
	endpoint, ok := c.endpoints[vendor]
	if !ok {
		return out, fmt.Errorf("no endpoint configured for %q", vendor)
	}

	httpReq, err := c.newHTTPRequest(ctx, endpoint, apiKey, req)
	if err != nil {
		return out, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return out, fmt.Errorf("request chat completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return out, &APIError{Vendor: vendor, Status: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("read chat completion: %w", err)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode chat completion: %w", err)
	}
	return out, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, endpoint Endpoint, apiKey string, req ChatCompletionRequest) (*http.Request, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat completion request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range endpoint.Headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}
