package knowledge

import (
	"regexp"
	"strings"

	"github.com/amal-assist/amal/pkg/model"
)

const (
	// A knowledge base shorter than this is returned verbatim.
	verbatimLimit = 1000
	// Upper bound of the returned excerpt; longer text is truncated
	// with an ellipsis marker.
	excerptLimit = 1500
)

var paragraphRe = regexp.MustCompile(`\n\s*\n`)

// bucket ties query trigger words to the keywords used to filter
// knowledge paragraphs when the query matches.
type bucket struct {
	triggers []string
	keywords []string
}

var topicBuckets = map[model.Language][]bucket{
	model.French: {
		{
			triggers: []string{"symptome", "symptôme", "signe"},
			keywords: []string{"symptôme", "signe", "caractéristique", "manifestation", "indication"},
		},
		{
			triggers: []string{"traitement", "soigner", "guérir"},
			keywords: []string{"traitement", "thérapie", "soin", "guérison", "chirurgie", "radiothérapie", "chimiothérapie"},
		},
		{
			triggers: []string{"risque", "facteur", "prévention"},
			keywords: []string{"risque", "facteur", "prévention", "dépistage", "prédisposition"},
		},
		{
			triggers: []string{"diagnostic", "détection", "test"},
			keywords: []string{"diagnostic", "détection", "test", "examen", "mammographie", "biopsie"},
		},
	},
	model.English: {
		{
			triggers: []string{"symptom", "sign"},
			keywords: []string{"symptom", "sign", "characteristic", "manifestation", "indication"},
		},
		{
			triggers: []string{"treatment", "cure", "heal"},
			keywords: []string{"treatment", "therapy", "care", "healing", "surgery", "radiation", "chemotherapy"},
		},
		{
			triggers: []string{"risk", "factor", "prevention"},
			keywords: []string{"risk", "factor", "prevention", "screening", "predisposition"},
		},
		{
			triggers: []string{"diagnosis", "detection", "test"},
			keywords: []string{"diagnosis", "detection", "test", "examination", "mammography", "biopsy"},
		},
	},
	model.Arabic: {
		{
			triggers: []string{"عرض", "علامة", "أعراض"},
			keywords: []string{"عرض", "علامة", "خصائص", "أعراض", "مؤشر"},
		},
		{
			triggers: []string{"علاج", "شفاء"},
			keywords: []string{"علاج", "شفاء", "رعاية", "جراحة", "إشعاع", "كيماوي"},
		},
		{
			triggers: []string{"خطر", "عامل", "وقاية"},
			keywords: []string{"خطر", "عامل", "وقاية", "فحص", "استعداد"},
		},
		{
			triggers: []string{"تشخيص", "كشف", "فحص"},
			keywords: []string{"تشخيص", "كشف", "فحص", "تصوير", "خزعة"},
		},
	},
}

// genericKeywords is the fallback filter when no topical bucket matches
// the query.
var genericKeywords = map[model.Language][]string{
	model.French:  {"cancer", "sein", "tumeur", "maligne", "bénigne"},
	model.English: {"cancer", "breast", "tumor", "malignant", "benign"},
	model.Arabic:  {"سرطان", "ثدي", "ورم", "خبيث", "حميد"},
}

var mixedKeywords = []string{"cancer", "sein", "breast", "tumor", "tumeur"}

// Extract returns the part of the knowledge base relevant to the query.
// Short bases are returned verbatim; otherwise paragraphs are filtered
// by the keyword set the query maps to and the result is capped at
// excerptLimit characters.
func Extract(query, base string, language model.Language) string {
	if len([]rune(base)) < verbatimLimit {
		return base
	}

	keywords := selectKeywords(query, language)

	paragraphs := paragraphRe.Split(base, -1)

	var kept []string
	for _, p := range paragraphs {
		lower := strings.ToLower(p)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				kept = append(kept, p)
				break
			}
		}
	}

	if len(kept) == 0 && len(paragraphs) > 0 {
		if len(paragraphs) > 3 {
			kept = paragraphs[:3]
		} else {
			kept = paragraphs
		}
	}

	combined := strings.Join(kept, "\n\n")
	if runes := []rune(combined); len(runes) > excerptLimit {
		return string(runes[:excerptLimit]) + "..."
	}
	return combined
}

// selectKeywords maps the query onto a topical bucket of the detected
// language, falling back to the generic domain keywords.
func selectKeywords(query string, language model.Language) []string {
	lower := strings.ToLower(query)

	for _, b := range topicBuckets[language] {
		for _, trigger := range b.triggers {
			if strings.Contains(lower, trigger) {
				return b.keywords
			}
		}
	}

	if kws, ok := genericKeywords[language]; ok {
		return kws
	}
	return mixedKeywords
}
