package assistant

import (
	"context"
	"fmt"
)

func (s *service) Analyze(ctx context.Context, req AnalysisRequest) AnalysisResult {
	lang := ParseLanguage(string(req.Language))
	result, err := s.analyze(ctx, req, lang)
	if err != nil {
		s.logger.Error("assistant analysis failed", "provider", req.Config.Provider, "model", req.Config.ModelID, "error", err)
		return analysisFallback(lang, req.Config.Provider)
	}
	return result
}

func (s *service) analyze(ctx context.Context, req AnalysisRequest, lang Language) (AnalysisResult, error) {
	if !req.Persona.Valid() {
		return AnalysisResult{}, fmt.Errorf("%w: %q", ErrUnknownPersona, req.Persona)
	}
	tgt, err := s.resolve(req.Config)
	if err != nil {
		return AnalysisResult{}, err
	}

	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	result, err := tgt.backend.GenerateStructured(callCtx, StructuredRequest{
		Provider:    tgt.route.Provider,
		Model:       tgt.model,
		APIKey:      tgt.apiKey,
		Prompt:      buildAnalysisPrompt(req.Weather, req.Persona, lang),
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return AnalysisResult{}, err
	}
	s.logger.Info("assistant analysis generated", "provider", tgt.route.Provider, "model", tgt.model, "location", req.Weather.LocationName)
	return result, nil
}
