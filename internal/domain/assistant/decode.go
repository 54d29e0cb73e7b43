package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeAnalysis parses provider text into an AnalysisResult. Markdown fences
// are tolerated; a missing required key is treated as malformed output.
func DecodeAnalysis(raw string) (AnalysisResult, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimPrefix(sanitized, "```")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.TrimSpace(sanitized)
	if sanitized == "" {
		return AnalysisResult{}, ErrEmptyResponse
	}

	var wire struct {
		Summary              *string `json:"summary"`
		OutfitRecommendation *string `json:"outfitRecommendation"`
		ActivitySuggestion   *string `json:"activitySuggestion"`
		Hazards              *string `json:"hazards"`
	}
	if err := json.Unmarshal([]byte(sanitized), &wire); err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	var missing []string
	if wire.Summary == nil {
		missing = append(missing, "summary")
	}
	if wire.OutfitRecommendation == nil {
		missing = append(missing, "outfitRecommendation")
	}
	if wire.ActivitySuggestion == nil {
		missing = append(missing, "activitySuggestion")
	}
	if len(missing) > 0 {
		return AnalysisResult{}, fmt.Errorf("%w: missing %s", ErrMalformedJSON, strings.Join(missing, ", "))
	}

	result := AnalysisResult{
		Summary:              *wire.Summary,
		OutfitRecommendation: *wire.OutfitRecommendation,
		ActivitySuggestion:   *wire.ActivitySuggestion,
	}
	if wire.Hazards != nil {
		result.Hazards = *wire.Hazards
	}
	return result, nil
}
