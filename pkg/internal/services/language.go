package services

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	languageDetector     lingua.LanguageDetector
	languageDetectorOnce sync.Once
)

// DetectLanguage guesses the language of a post body, returning an ISO 639-1
// code or an empty string when nothing can be told.
func DetectLanguage(content string) string {
	if len(strings.TrimSpace(content)) == 0 {
		return ""
	}

	languageDetectorOnce.Do(func() {
		languageDetector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English,
				lingua.German,
				lingua.French,
				lingua.Spanish,
				lingua.Portuguese,
				lingua.Japanese,
				lingua.Chinese,
			).
			WithLowAccuracyMode().
			Build()
	})

	if language, exists := languageDetector.DetectLanguageOf(content); exists {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return ""
}
