package assistant

import (
	"fmt"
	"strings"

	"github.com/yanqian/skymind/internal/domain/weather"
)

func languageName(lang Language) string {
	if lang == LanguageIndonesian {
		return "Indonesian (Bahasa Indonesia)"
	}
	return "English"
}

func conditionLabel(code int, lang Language) string {
	condition := weather.DescribeCode(code)
	if lang == LanguageIndonesian {
		return condition.LabelID
	}
	return condition.Label
}

func buildAnalysisPrompt(snap weather.Snapshot, persona Persona, lang Language) string {
	todayMax, todayMin, _ := snap.Daily.Today()

	var b strings.Builder
	fmt.Fprintf(&b, "You are a %s.\n", persona)
	fmt.Fprintf(&b, "Analyze the following weather data for %s:\n", snap.LocationName)
	fmt.Fprintf(&b, "- Current Temp: %g°C\n", snap.Current.Temperature)
	fmt.Fprintf(&b, "- Humidity: %g%%\n", snap.Current.Humidity)
	fmt.Fprintf(&b, "- Wind: %g km/h\n", snap.Current.WindSpeed)
	fmt.Fprintf(&b, "- Condition: %s (Code %d)\n", conditionLabel(snap.Current.WeatherCode, lang), snap.Current.WeatherCode)
	fmt.Fprintf(&b, "- Daily Max/Min: %g°C / %g°C\n\n", todayMax, todayMin)
	b.WriteString("Instructions:\n")
	b.WriteString("1. Provide a valid JSON response ONLY. Do not add markdown code blocks.\n")
	b.WriteString("2. Keep it short, engaging, and strictly adhering to the persona.\n")
	fmt.Fprintf(&b, "3. IMPORTANT: The output content MUST be in %s.\n\n", languageName(lang))
	b.WriteString("JSON Structure:\n")
	b.WriteString(`{"summary": "string", "outfitRecommendation": "string", "activitySuggestion": "string", "hazards": "string (optional)"}`)
	return b.String()
}

func buildChatSystemContext(snap weather.Snapshot, persona Persona, lang Language) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are SkyMind Assistant, a helpful AI weather assistant with the persona: %s.\n", persona)
	b.WriteString("You were created by the SkyMind Team, founded by Rofikul Huda (Engineering) and Rizky Agil (Design).\n\n")
	b.WriteString("CURRENT CONTEXT (User's current location):\n")
	fmt.Fprintf(&b, "- Location: %s\n", snap.LocationName)
	fmt.Fprintf(&b, "- Temperature: %g°C\n", snap.Current.Temperature)
	fmt.Fprintf(&b, "- Condition: %s (Code %d)\n\n", conditionLabel(snap.Current.WeatherCode, lang), snap.Current.WeatherCode)
	b.WriteString("Guidelines:\n")
	b.WriteString("1. Answer questions about the current location using the context above.\n")
	fmt.Fprintf(&b, "2. IF the user asks about a DIFFERENT city (e.g. \"What's the weather in Tokyo?\"), USE THE PROVIDED TOOL '%s' to fetch data. Do not guess.\n", WeatherToolName)
	fmt.Fprintf(&b, "3. Respond in %s.\n", languageName(lang))
	b.WriteString("4. Be conversational and helpful.\n")
	b.WriteString("5. If asked about your identity or creators, mention you are SkyMind Assistant created by Rofikul Huda and Rizky Agil.\n")
	return b.String()
}
