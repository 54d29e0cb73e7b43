package assistant

import "fmt"

func analysisFallback(lang Language, provider Provider) AnalysisResult {
	if lang == LanguageIndonesian {
		return AnalysisResult{
			Summary:              fmt.Sprintf("Maaf, koneksi ke %s gagal. Coba periksa API Key.", provider),
			OutfitRecommendation: "Gunakan pakaian standar.",
			ActivitySuggestion:   "Cek aplikasi cuaca lain.",
		}
	}
	return AnalysisResult{
		Summary:              fmt.Sprintf("Sorry, connection to %s failed. Please check API Key.", provider),
		OutfitRecommendation: "Wear standard clothing.",
		ActivitySuggestion:   "Check another weather app.",
	}
}

func chatFailureMessage(lang Language, err error) string {
	if lang == LanguageIndonesian {
		return fmt.Sprintf("Maaf, terjadi error: %v. Coba periksa API Key di pengaturan.", err)
	}
	return fmt.Sprintf("I apologize, an error occurred: %v. Please check your API Key in settings.", err)
}
