package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yanqian/skymind/internal/domain/weather"
	"github.com/yanqian/skymind/pkg/metrics"
)

func (s *service) Chat(ctx context.Context, req ChatRequest) ChatResponse {
	lang := ParseLanguage(string(req.Language))
	resp, err := s.chat(ctx, req, lang)
	if err != nil {
		s.logger.Error("assistant chat failed", "provider", req.Config.Provider, "model", req.Config.ModelID, "error", err)
		return ChatResponse{Reply: chatFailureMessage(lang, err), Degraded: true}
	}
	return resp
}

func (s *service) chat(ctx context.Context, req ChatRequest, lang Language) (ChatResponse, error) {
	if !req.Persona.Valid() {
		return ChatResponse{}, fmt.Errorf("%w: %q", ErrUnknownPersona, req.Persona)
	}
	tgt, err := s.resolve(req.Config)
	if err != nil {
		return ChatResponse{}, err
	}
	transcript := toTranscript(req.Messages)
	if len(transcript) == 0 {
		return ChatResponse{}, ErrEmptyConversation
	}
	transcript = trimHistory(transcript, s.cfg.HistoryTokenBudget, s.counter)

	turnReq := TurnRequest{
		Provider:      tgt.route.Provider,
		Model:         tgt.model,
		APIKey:        tgt.apiKey,
		SystemContext: buildChatSystemContext(req.Weather, req.Persona, lang),
		Tools:         []ToolSpec{WeatherTool()},
		Temperature:   s.cfg.Temperature,
	}

	var usage metrics.TokenUsage
	rounds := 0
	for {
		turnReq.Transcript = transcript
		reply, err := s.converse(ctx, tgt.backend, turnReq)
		if err != nil {
			return ChatResponse{}, err
		}
		usage = usage.Add(reply.Usage)
		transcript = append(transcript, reply.Turn)

		if len(reply.Turn.ToolCalls) == 0 {
			return newChatResponse(reply.Turn.Text, rounds, usage), nil
		}
		if rounds >= s.cfg.MaxToolRounds {
			s.logger.Warn("assistant tool loop exhausted", "provider", tgt.route.Provider, "max_rounds", s.cfg.MaxToolRounds)
			return newChatResponse(reply.Turn.Text, rounds, usage), nil
		}
		rounds++
		transcript = append(transcript, Turn{
			Role:        RoleTool,
			ToolResults: s.runTools(ctx, reply.Turn.ToolCalls, rounds),
		})
	}
}

func (s *service) converse(ctx context.Context, backend Backend, req TurnRequest) (TurnReply, error) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return backend.Converse(callCtx, req)
}

// runTools answers every call of the batch, in order.
func (s *service) runTools(ctx context.Context, calls []ToolCall, round int) []ToolResult {
	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, ToolResult{
			CallID:  call.ID,
			Name:    call.Name,
			Content: s.runTool(ctx, call, round),
		})
	}
	return results
}

func (s *service) runTool(ctx context.Context, call ToolCall, round int) any {
	if call.Name != WeatherToolName {
		s.logger.Warn("assistant requested unknown tool", "tool", call.Name, "round", round)
		return ToolError{Error: fmt.Sprintf("unknown tool %q", call.Name)}
	}
	city, _ := call.Arguments["city"].(string)
	city = strings.TrimSpace(city)
	if city == "" {
		return ToolError{Error: "missing required argument: city"}
	}

	s.logger.Info("assistant tool call", "tool", call.Name, "city", city, "round", round)
	report, err := s.lookup.LookupCity(ctx, city)
	if err != nil {
		s.logger.Warn("assistant tool failed", "city", city, "error", err)
		return ToolError{Error: toolErrorReason(city, err)}
	}
	return report
}

func toolErrorReason(city string, err error) string {
	if errors.Is(err, weather.ErrCityNotFound) {
		return fmt.Sprintf("City '%s' not found", city)
	}
	return err.Error()
}

func newChatResponse(text string, rounds int, usage metrics.TokenUsage) ChatResponse {
	resp := ChatResponse{Reply: text, ToolRounds: rounds}
	if !usage.IsZero() {
		resp.Usage = &usage
	}
	return resp
}
