package lang

import (
	"regexp"
	"strings"

	"github.com/amal-assist/amal/pkg/model"
)

// punctRe strips everything that is neither a letter, a digit nor
// whitespace. Letters cover the Arabic script, which must survive
// normalization for Arabic greeting matching.
var punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// Normalize lowercases text and removes punctuation for prefix matching.
func Normalize(text string) string {
	return strings.TrimSpace(punctRe.ReplaceAllString(strings.ToLower(text), ""))
}

// DetectGreeting reports whether the text opens with a known salutation
// and, if so, in which language. Languages are checked in declaration
// order (French, English, Arabic); the first match wins.
func DetectGreeting(text string) (model.Language, bool) {
	cleaned := Normalize(text)

	for _, l := range model.Languages {
		for _, g := range greetings[l] {
			if strings.HasPrefix(cleaned, g) {
				return l, true
			}
		}
	}

	return "", false
}

// IsHealthRelated reports whether the text touches the breast-cancer /
// health domain. The language-specific keyword set is checked first,
// then the French and English sets regardless of language, so mixed-
// language queries still pass the gate.
func IsHealthRelated(text string, language model.Language) bool {
	txt := strings.ToLower(text)

	for _, kw := range keywordsFor(language) {
		if strings.Contains(txt, kw) {
			return true
		}
	}

	for _, l := range []model.Language{model.French, model.English} {
		if l == language {
			continue
		}
		for _, kw := range healthKeywords[l] {
			if strings.Contains(txt, kw) {
				return true
			}
		}
	}

	return false
}

func keywordsFor(language model.Language) []string {
	if kws, ok := healthKeywords[language]; ok {
		return kws
	}
	return healthKeywords[model.French]
}
