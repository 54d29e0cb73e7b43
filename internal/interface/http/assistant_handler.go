package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/skymind/internal/domain/assistant"
	"github.com/yanqian/skymind/internal/domain/weather"
)

type analysisRequest struct {
	Weather  weather.Snapshot   `json:"weather"`
	Persona  string             `json:"persona"`
	Language string             `json:"language"`
	Config   assistant.AIConfig `json:"config"`
}

type chatRequest struct {
	Messages []assistant.ChatMessage `json:"messages"`
	Weather  weather.Snapshot        `json:"weather"`
	Persona  string                  `json:"persona"`
	Language string                  `json:"language"`
	Config   assistant.AIConfig      `json:"config"`
}

// Providers lists the provider catalog and personas for the settings panel.
func (h *Handler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers": assistant.Catalog(),
		"personas":  assistant.Personas(),
		"languages": []assistant.Language{assistant.LanguageEnglish, assistant.LanguageIndonesian},
	})
}

// Analyze renders the AI insight card. Provider failures still answer 200 with the fallback text.
func (h *Handler) Analyze(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	persona, cfg, err := parseSelection(req.Persona, req.Config)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result := h.assistantSvc.Analyze(c.Request.Context(), assistant.AnalysisRequest{
		Weather:  req.Weather,
		Persona:  persona,
		Language: assistant.ParseLanguage(req.Language),
		Config:   cfg,
	})
	c.JSON(http.StatusOK, result)
}

// Chat runs one assistant turn including any weather tool calls.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if len(req.Messages) == 0 {
		err := errors.New("messages cannot be empty")
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err))
		return
	}
	persona, cfg, err := parseSelection(req.Persona, req.Config)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp := h.assistantSvc.Chat(c.Request.Context(), assistant.ChatRequest{
		Messages: req.Messages,
		Weather:  req.Weather,
		Persona:  persona,
		Language: assistant.ParseLanguage(req.Language),
		Config:   cfg,
	})
	h.logger.Debug("assistant chat handled", "provider", cfg.Provider, "tool_rounds", resp.ToolRounds, "degraded", resp.Degraded)
	c.JSON(http.StatusOK, resp)
}

func parseSelection(rawPersona string, cfg assistant.AIConfig) (assistant.Persona, assistant.AIConfig, error) {
	persona, err := assistant.ParsePersona(rawPersona)
	if err != nil {
		return "", assistant.AIConfig{}, err
	}
	provider, err := assistant.ParseProvider(string(cfg.Provider))
	if err != nil {
		return "", assistant.AIConfig{}, err
	}
	cfg.Provider = provider
	return persona, cfg, nil
}
