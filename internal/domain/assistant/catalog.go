package assistant

import (
	"fmt"
	"strings"
)

// Model is a selectable model of a provider.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProviderInfo describes a provider in the settings catalog.
type ProviderInfo struct {
	ID     Provider `json:"id"`
	Name   string   `json:"name"`
	Models []Model  `json:"models"`
}

var catalog = []ProviderInfo{
	{ID: ProviderGemini, Name: "Google Gemini", Models: []Model{
		{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash"},
		{ID: "gemini-3-pro-preview", Name: "Gemini 3 Pro"},
	}},
	{ID: ProviderGroq, Name: "Groq", Models: []Model{
		{ID: "llama3-8b-8192", Name: "Llama 3 8B"},
		{ID: "llama3-70b-8192", Name: "Llama 3 70B"},
		{ID: "mixtral-8x7b-32768", Name: "Mixtral 8x7b"},
	}},
	{ID: ProviderMistral, Name: "Mistral AI", Models: []Model{
		{ID: "mistral-tiny", Name: "Mistral Tiny"},
		{ID: "mistral-small", Name: "Mistral Small"},
		{ID: "mistral-medium", Name: "Mistral Medium"},
	}},
	{ID: ProviderOpenRouter, Name: "OpenRouter", Models: []Model{
		{ID: "openai/gpt-3.5-turbo", Name: "GPT-3.5 Turbo (via OR)"},
		{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku (via OR)"},
		{ID: "google/gemini-flash-1.5", Name: "Gemini Flash 1.5 (via OR)"},
	}},
}

var personas = []Persona{PersonaMeteorologist, PersonaComedian, PersonaPoet, PersonaScientist, PersonaMom}

var personaKeys = map[string]Persona{
	"METEOROLOGIST": PersonaMeteorologist,
	"COMEDIAN":      PersonaComedian,
	"POET":          PersonaPoet,
	"SCIENTIST":     PersonaScientist,
	"MOM":           PersonaMom,
}

// Catalog returns the providers with their selectable models.
func Catalog() []ProviderInfo {
	out := make([]ProviderInfo, len(catalog))
	for i, p := range catalog {
		out[i] = p
		out[i].Models = append([]Model(nil), p.Models...)
	}
	return out
}

// Personas lists every supported persona.
func Personas() []Persona {
	return append([]Persona(nil), personas...)
}

// ParseProvider validates a provider id.
func ParseProvider(raw string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := lookupProvider(p); ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, raw)
}

// ParsePersona accepts either the display value or the enum key (e.g. METEOROLOGIST).
func ParsePersona(raw string) (Persona, error) {
	trimmed := strings.TrimSpace(raw)
	for _, p := range personas {
		if strings.EqualFold(string(p), trimmed) {
			return p, nil
		}
	}
	if p, ok := personaKeys[strings.ToUpper(trimmed)]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPersona, raw)
}

// ParseLanguage maps anything other than Indonesian to English.
func ParseLanguage(raw string) Language {
	if strings.EqualFold(strings.TrimSpace(raw), string(LanguageIndonesian)) {
		return LanguageIndonesian
	}
	return LanguageEnglish
}

// Valid reports whether the persona is one of the enumerated variants.
func (p Persona) Valid() bool {
	for _, candidate := range personas {
		if candidate == p {
			return true
		}
	}
	return false
}

// DefaultModel is the first catalog model of a provider.
func (p Provider) DefaultModel() string {
	info, ok := lookupProvider(p)
	if !ok || len(info.Models) == 0 {
		return ""
	}
	return info.Models[0].ID
}

func lookupProvider(p Provider) (ProviderInfo, bool) {
	for _, info := range catalog {
		if info.ID == p {
			return info, true
		}
	}
	return ProviderInfo{}, false
}
