package assistant

import (
	"time"

	"github.com/yanqian/skymind/internal/domain/weather"
	"github.com/yanqian/skymind/pkg/metrics"
)

// Provider identifies an LLM vendor.
type Provider string

const (
	ProviderGemini     Provider = "gemini"
	ProviderGroq       Provider = "groq"
	ProviderMistral    Provider = "mistral"
	ProviderOpenRouter Provider = "openrouter"
)

// Persona parameterizes the tone of generated text.
type Persona string

const (
	PersonaMeteorologist Persona = "Professional Meteorologist"
	PersonaComedian      Persona = "Sarcastic Comedian"
	PersonaPoet          Persona = "Nature Poet"
	PersonaScientist     Persona = "Data Scientist"
	PersonaMom           Persona = "Caring Mom"
)

// Language selects the reply language.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageIndonesian Language = "id"
)

// AIConfig is the per-request provider selection coming from the settings form.
type AIConfig struct {
	Provider Provider `json:"provider"`
	ModelID  string   `json:"modelId"`
	APIKey   string   `json:"apiKey,omitempty"`
}

// AnalysisResult is the structured insight rendered by the dashboard card.
type AnalysisResult struct {
	Summary              string `json:"summary"`
	OutfitRecommendation string `json:"outfitRecommendation"`
	ActivitySuggestion   string `json:"activitySuggestion"`
	Hazards              string `json:"hazards,omitempty"`
}

// Role of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ChatMessage is one entry of the UI conversation history.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AnalysisRequest bundles the inputs of Analyze.
type AnalysisRequest struct {
	Weather  weather.Snapshot
	Persona  Persona
	Language Language
	Config   AIConfig
}

// ChatRequest bundles the inputs of Chat.
type ChatRequest struct {
	Messages []ChatMessage
	Weather  weather.Snapshot
	Persona  Persona
	Language Language
	Config   AIConfig
}

// ChatResponse carries the assistant text plus loop bookkeeping.
type ChatResponse struct {
	Reply      string              `json:"reply"`
	ToolRounds int                 `json:"toolRounds"`
	Usage      *metrics.TokenUsage `json:"usage,omitempty"`
	Degraded   bool                `json:"degraded,omitempty"`
}

// Config holds runtime knobs for the assistant domain.
type Config struct {
	Temperature        float32
	MaxToolRounds      int
	RequestTimeout     time.Duration
	HistoryTokenBudget int
	// Credentials are process-wide fallbacks used when a request carries no key.
	Credentials map[Provider]string
}

// DefaultMaxToolRounds bounds tool-call round-trips per chat invocation.
const DefaultMaxToolRounds = 5
