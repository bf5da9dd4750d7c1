package chat

import (
	"regexp"
	"sort"
	"strings"
)

// shortAnswerNotice replaces answers too short to be meaningful.
const shortAnswerNotice = "Je ne peux pas générer une réponse complète pour le moment."

// Leaked instruction regions: anything between an instruction header
// and the question marker, per supported language.
var instructionLeakRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)INSTRUCTION (?:CRITIQUE|INTERNE|CRITICAL).*?Question:`),
	regexp.MustCompile(`(?is)INTERNAL INSTRUCTION.*?Question:`),
	regexp.MustCompile(`(?is)تعليمات (?:مهمة|داخلية).*?السؤال:`),
	regexp.MustCompile(`(?is)Question corrigée et reformulée\s*:.*?\n`),
	regexp.MustCompile(`(?is)Corrected and rephrased question\s*:.*?\n`),
	regexp.MustCompile(`(?is)السؤال المصحح والمعاد صياغته\s*:.*?\n`),
}

// Meta commentary about query correction, per language.
var correctionNoticeRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)J'ai corrigé et reformulé votre question\.`),
	regexp.MustCompile(`(?i)I have corrected and rephrased your question\.`),
	regexp.MustCompile(`لقد قمت بتصحيح وإعادة صياغة سؤالك\.`),
}

var (
	htmlTagRe  = regexp.MustCompile(`<[^>]*>`)
	markdownRe = regexp.MustCompile("[*_~`|]+")
)

// Known hallucinated medical terms; removed by plain replacement.
var incorrectTerms = []string{
	"glandes salivaires", "cancéro-breast", "Léucodésques de Kallmann", "Mélancoloma",
	"tissue mammary", "moustacelles", "cancérisation", "tumor anaplastique",
	"lécithines", "cellules moustacelles", "anaplastique intraépithéliale",
	"tumors anaplastiques",
}

var politenessRe = regexp.MustCompile(`n'hésitez pas|je suis là|en espérant|j'espère|pour toute question`)

// Closing, politeness, summary and referral phrases stripped after
// paragraph selection. Sentence-bounded, non-greedy.
var closingPhraseRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)N'hésitez[^.\n]*?à me poser[^.\n]*?\.`),
	regexp.MustCompile(`(?is)Nous sommes là pour t'aider[^.\n]*?\.`),
	regexp.MustCompile(`(?is)Si tu n'obtiens pas[^.\n]*?\.`),
	regexp.MustCompile(`(?is)Vous pouvez aussi contacter[^.\n]*?\.`),
	regexp.MustCompile(`(?is)Si j'avais des réponses[^.\n]*?\.`),
	regexp.MustCompile(`(?is)Je suis[^.\n]*?à votre service[^.\n]*?\.`),
	regexp.MustCompile(`(?is)N'hésitez pas à me demander[^.\n]*?\.`),
	regexp.MustCompile(`(?is)Je suis disponible[^.\n]*?\.`),
	regexp.MustCompile(`(?is)J'espère que cette [^.\n]*? vous a aidé[^.\n]*?\.`),
	regexp.MustCompile(`(?is)En espérant avoir répondu à votre question[^.\n]*?\.`),
	regexp.MustCompile(`(?is)Avez-vous d'autres questions[^.\n]*?\.`),
	regexp.MustCompile(`(?is)Il est (?:donc )?important que vous consultiez un médecin[^.]*?\.`),
	regexp.MustCompile(`(?is)vous devriez consulter un médecin[^.]*?\.`),
	regexp.MustCompile(`(?is)consultez un professionnel de santé[^.]*?\.`),
	regexp.MustCompile(`(?is)Il est (?:aussi |également )?important de noter[^.]*?\.`),
	regexp.MustCompile(`(?is)il s'agit (?:donc )?d'un sujet (?:très )?vaste et complexe[^.]*?\.`),
	regexp.MustCompile(`(?is)Il n'est pas possible dans ce contexte[^.]*?\.`),
}

// Conclusion openers run until the next sentence start or the end of
// text. RE2 has no lookahead, so the boundary is captured and restored.
var conclusionRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)En résumé,[^.]*?(\. [A-Z]|\z)`),
	regexp.MustCompile(`(?is)En conclusion,[^.]*?(\. [A-Z]|\z)`),
}

var (
	newlineRunRe = regexp.MustCompile(`\n{3,}`)
	spaceRunRe   = regexp.MustCompile(` {2,}`)
	answerTagRe  = regexp.MustCompile(`(?i)^(?:Réponse|Answer|إجابة)\s*:\s*`)
	wordRe       = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	blankLineRe  = regexp.MustCompile(`\n\s*\n`)
)

// Clean strips instruction leakage, boilerplate and low-relevance
// paragraphs from raw generator output. The transform is order
// sensitive and idempotent on already-clean text, and it never fails:
// it is a best-effort textual filter.
func Clean(raw, query string) (out string) {
	defer func() {
		if recover() != nil {
			out = strings.TrimSpace(raw)
		}
	}()

	if len([]rune(strings.TrimSpace(raw))) < 10 {
		return shortAnswerNotice
	}

	answer := raw

	for _, re := range instructionLeakRes {
		answer = re.ReplaceAllString(answer, "")
	}
	for _, re := range correctionNoticeRes {
		answer = re.ReplaceAllString(answer, "")
	}

	answer = htmlTagRe.ReplaceAllString(answer, "")
	answer = markdownRe.ReplaceAllString(answer, "")

	for _, term := range incorrectTerms {
		answer = strings.ReplaceAll(answer, term, "")
	}

	if query != "" {
		answer = selectRelevantParagraphs(answer, query)
	}

	for _, re := range closingPhraseRes {
		answer = re.ReplaceAllString(answer, "")
	}
	for _, re := range conclusionRes {
		answer = re.ReplaceAllString(answer, "$1")
	}

	answer = newlineRunRe.ReplaceAllString(answer, "\n\n")
	answer = spaceRunRe.ReplaceAllString(answer, " ")
	answer = answerTagRe.ReplaceAllString(answer, "")

	return strings.TrimSpace(answer)
}

const (
	keptParagraphs  = 4
	minParagraphLen = 20
)

// selectRelevantParagraphs scores each paragraph against the query and
// keeps the best four, restored to their original relative order. The
// score is twice the overlap with significant query words, plus an
// early-position bonus, minus a flat penalty for politeness boilerplate.
func selectRelevantParagraphs(answer, query string) string {
	significant := make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(query), -1) {
		if len([]rune(w)) > 3 {
			significant[w] = true
		}
	}

	var paragraphs []string
	for _, p := range blankLineRe.Split(answer, -1) {
		p = strings.TrimSpace(p)
		if len([]rune(p)) > minParagraphLen {
			paragraphs = append(paragraphs, p)
		}
	}

	type scored struct {
		index int
		score int
	}
	ranked := make([]scored, 0, len(paragraphs))
	for i, para := range paragraphs {
		lower := strings.ToLower(para)

		matches := 0
		seen := make(map[string]bool)
		for _, w := range wordRe.FindAllString(lower, -1) {
			if significant[w] && !seen[w] {
				matches++
				seen[w] = true
			}
		}
		score := matches * 2

		if bonus := 3 - i; bonus > 0 {
			score += bonus * 2
		}

		if politenessRe.MatchString(lower) {
			score -= 10
		}

		ranked = append(ranked, scored{index: i, score: score})
	}

	// Stable by score so equal-score paragraphs keep document order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	best := make(map[int]bool)
	for i, r := range ranked {
		if i == keptParagraphs {
			break
		}
		best[r.index] = true
	}

	var kept []string
	for i, para := range paragraphs {
		if best[i] {
			kept = append(kept, para)
		}
	}

	if len(kept) == 0 && len(paragraphs) > 0 {
		kept = paragraphs[:1]
	}

	return strings.Join(kept, "\n\n")
}
