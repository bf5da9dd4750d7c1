package chat_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/amal-assist/amal/pkg/model"
	"github.com/amal-assist/amal/pkg/usecase/chat"
)

func TestBuildPromptShape(t *testing.T) {
	query := "Quels sont les symptômes du cancer du sein ?"
	prompt := chat.BuildPrompt(query, model.French, "Le cancer du sein est fréquent.")

	gt.True(t, strings.HasPrefix(prompt, "<s>[INST] "))
	gt.True(t, strings.HasSuffix(prompt, " [/INST]"))
	gt.S(t, prompt).Contains("Tu es un assistant médical spécialisé dans le cancer du sein.")
	gt.S(t, prompt).Contains("Le cancer du sein est fréquent.")
	gt.Equal(t, strings.Count(prompt, query), 2)
}

func TestBuildPromptDeterministic(t *testing.T) {
	query := "What are the risk factors for breast cancer?"
	a := chat.BuildPrompt(query, model.English, "Risk factors include age.")
	b := chat.BuildPrompt(query, model.English, "Risk factors include age.")
	gt.Equal(t, a, b)
}

func TestBuildPromptImportantWords(t *testing.T) {
	// "Quels", "sont" are stopwords, "les"/"du" too short; the remaining
	// tokens become the key concepts, in query order.
	prompt := chat.BuildPrompt("Quels sont les symptômes du cancer du sein ?", model.French, "")
	gt.S(t, prompt).Contains("Concentre-toi sur ces concepts clés: symptômes, cancer, sein")
}

func TestBuildPromptImportantWordsCapped(t *testing.T) {
	prompt := chat.BuildPrompt("cancer tumeur mammographie radiothérapie chimiothérapie chirurgie", model.French, "")
	gt.S(t, prompt).Contains("cancer, tumeur, mammographie, radiothérapie, chimiothérapie")
	gt.S(t, prompt).NotContains("chimiothérapie, chirurgie")
}

func TestBuildPromptUnknownLanguageFallsBackToFrench(t *testing.T) {
	prompt := chat.BuildPrompt("question", model.Language("xx"), "")
	gt.S(t, prompt).Contains("Tu es un assistant médical")
}
