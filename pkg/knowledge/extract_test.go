package knowledge_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/amal-assist/amal/pkg/knowledge"
	"github.com/amal-assist/amal/pkg/model"
)

// filler paragraphs contain none of the domain keywords.
func filler(n int) string {
	return strings.TrimSpace(strings.Repeat("Lorem ipsum dolor sit amet elit. ", n))
}

func TestExtractShortBaseVerbatim(t *testing.T) {
	base := "Le cancer du sein est une maladie fréquente.\n\nLe dépistage est recommandé."
	got := knowledge.Extract("Quels sont les traitements ?", base, model.French)
	gt.Equal(t, got, base)
}

func TestExtractTopicBucket(t *testing.T) {
	treatment := "Le traitement repose sur plusieurs approches. " + filler(5)
	surgery := "La chirurgie est souvent la première étape. " + filler(5)
	base := strings.Join([]string{
		"Introduction générale. " + filler(10),
		treatment,
		"Contexte historique. " + filler(10),
		surgery,
	}, "\n\n")
	gt.True(t, len([]rune(base)) > 1000)

	got := knowledge.Extract("Quel est le traitement recommandé ?", base, model.French)

	gt.S(t, got).Contains("Le traitement repose")
	gt.S(t, got).Contains("La chirurgie est souvent")
	gt.S(t, got).NotContains("Introduction générale")
	gt.S(t, got).NotContains("Contexte historique")
}

func TestExtractNoMatchKeepsFirstParagraphs(t *testing.T) {
	paragraphs := []string{
		"Premier paragraphe. " + filler(8),
		"Deuxième paragraphe. " + filler(8),
		"Troisième paragraphe. " + filler(8),
		"Quatrième paragraphe. " + filler(8),
	}
	base := strings.Join(paragraphs, "\n\n")
	gt.True(t, len([]rune(base)) > 1000)

	got := knowledge.Extract("question sans vocabulaire connu", base, model.French)

	gt.S(t, got).Contains("Premier paragraphe")
	gt.S(t, got).Contains("Troisième paragraphe")
	gt.S(t, got).NotContains("Quatrième paragraphe")
}

func TestExtractCapsExcerpt(t *testing.T) {
	long := "Le traitement du cancer. " + filler(80)
	base := long + "\n\n" + filler(10)
	gt.True(t, len([]rune(long)) > 1500)

	got := knowledge.Extract("Parlez-moi du traitement", base, model.French)

	runes := []rune(got)
	gt.Equal(t, len(runes), 1503)
	gt.Equal(t, string(runes[1500:]), "...")
}
