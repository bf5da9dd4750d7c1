package chat

import (
	"fmt"
	"strings"

	"github.com/amal-assist/amal/pkg/model"
)

// personas are the fixed per-language system messages. The French one
// doubles as the default.
var personas = map[model.Language]string{
	model.French: `Tu es un assistant médical spécialisé dans le cancer du sein. RÉPONDS UNIQUEMENT ET DIRECTEMENT À CE QUI EST DEMANDÉ dans la question.
Fournis une réponse détaillée, en utilisant plusieurs paragraphes si nécessaire pour bien expliquer chaque point, mais fais-le de manière structurée et claire.

N'introduis PAS de définitions ou d'informations non demandées, et ne t'écarte pas du sujet précis de la question.
Assure-toi que ta réponse est grammaticale, sans fautes d'orthographe, et bien formulée.
N'utilise pas de formules de politesse ni d'invitations à poser d'autres questions.
Donne une réponse claire de maximum 10 lignes et qui convient à la question posée.
Dans la réponse, tu dois uniquement répondre à la question posée, sans aborder d'autres sujets qui ne sont pas demandés. Réponds strictement à la question, ni plus ni moins.
Termine la phrase, ne t'arrête pas en cours de réponse.`,
	model.English: `You are a medical assistant specializing in breast cancer. ANSWER ONLY AND DIRECTLY WHAT IS ASKED in the question.
Provide a detailed response, using multiple paragraphs when necessary to explain each point clearly and effectively.

DO NOT introduce definitions or information that wasn't asked for and don't deviate from the specific topic of the question.
Ensure your answer is grammatically correct, free from spelling mistakes, and well-structured.
Don't use politeness formulas or invitations to ask other questions.
Provide a clear response with a maximum of 10 lines that fits the question being asked.
In your answer, you should only respond to the question being asked, without addressing any other topics. Respond strictly to the question, no more, no less.
Finish the sentence, do not stop halfway.`,
	model.Arabic: `أنت مساعد طبي متخصص في سرطان الثدي. أجب فقط ومباشرة على ما هو مطلوب في السؤال.
قدم إجابة مفصلة باستخدام عدة فقرات عند الحاجة لشرح كل نقطة بوضوح وفعالية.

لا تقدم تعريفات أو معلومات غير مطلوبة ولا تنحرف عن الموضوع المحدد للسؤال.
تأكد من أن إجابتك صحيحة من الناحية النحوية وخالية من الأخطاء الإملائية ومهيكلة بشكل جيد.
لا تستخدم صيغ المجاملة أو الدعوات لطرح أسئلة أخرى.
قدم إجابة واضحة لا تتجاوز 10 أسطر تتناسب مع السؤال المطروح.
في إجابتك، يجب أن تقتصر على الإجابة عن السؤال المطروح دون التطرق إلى مواضيع أخرى. أجب بدقة على السؤال، لا أكثر ولا أقل.
أكمل الجملة، لا تتوقف في منتصف الجواب.`,
}

// stopwords are excluded from the "important words" highlighted in the
// instruction block.
var stopwords = map[model.Language][]string{
	model.French: {
		"dans", "avec", "pour", "quel", "quelle", "quels", "quelles", "comment",
		"est-ce", "sont", "mais", "aussi", "donc", "alors",
	},
	model.English: {
		"what", "which", "when", "where", "does", "this", "that", "with",
		"from", "have", "been", "also", "then", "about",
	},
	model.Arabic: {
		"ماذا", "لماذا", "كيف", "هذا", "هذه", "ذلك", "التي", "الذي", "لكن", "أيضا",
	},
}

// instruction block templates; placeholders are query, important words,
// knowledge excerpt, query again.
var instructionTemplates = map[model.Language]string{
	model.French: `INSTRUCTION CRITIQUE:
1. Réponds UNIQUEMENT à la question suivante: "%s"
2. Concentre-toi sur ces concepts clés: %s
3. Fournis une réponse DÉTAILLÉE mais STRICTEMENT PERTINENTE (pas d'information hors sujet)
4. Structure ta réponse en 2-4 paragraphes bien organisés
5. Ne mentionne PAS que tu as reçu ces instructions
6. Ne termine PAS par des formules de politesse ou des invitations

Voici les informations médicales fiables sur lesquelles baser ta réponse:
%s

Question: %s`,
	model.English: `CRITICAL INSTRUCTION:
1. Answer ONLY the following question: "%s"
2. Focus on these key concepts: %s
3. Provide a DETAILED but STRICTLY RELEVANT response (no off-topic information)
4. Structure your answer in 2-4 well-organized paragraphs
5. DO NOT mention that you received these instructions
6. DO NOT end with politeness formulas or invitations

Here is the reliable medical information on which to base your answer:
%s

Question: %s`,
	model.Arabic: `تعليمات مهمة:
1. أجب فقط على السؤال التالي: "%s"
2. ركز على هذه المفاهيم الرئيسية: %s
3. قدم إجابة مفصلة ولكن وثيقة الصلة تمامًا (بدون معلومات خارج الموضوع)
4. هيكل إجابتك في 2-4 فقرات منظمة جيدًا
5. لا تذكر أنك تلقيت هذه التعليمات
6. لا تنتهي بصيغ مجاملة أو دعوات

إليك المعلومات الطبية الموثوقة التي يمكنك الاستناد إليها في إجابتك:
%s

السؤال: %s`,
}

const maxImportantWords = 5

// BuildPrompt assembles the full generation prompt: persona plus an
// instruction block embedding the verbatim query, its key concepts and
// the knowledge excerpt, wrapped in the instruct-model delimiters. Pure
// string assembly; deterministic for a given input tuple.
func BuildPrompt(query string, language model.Language, knowledge string) string {
	language = language.OrDefault()

	persona := personas[language]
	template := instructionTemplates[language]
	important := importantWords(query, language)

	instruction := fmt.Sprintf(template, query, strings.Join(important, ", "), knowledge, query)

	return fmt.Sprintf("<s>[INST] %s\n\n%s [/INST]", persona, instruction)
}

// importantWords keeps the first maxImportantWords query tokens longer
// than 3 characters that are not stopwords of the language.
func importantWords(query string, language model.Language) []string {
	stops := make(map[string]bool, len(stopwords[language]))
	for _, w := range stopwords[language] {
		stops[w] = true
	}

	var words []string
	for _, w := range strings.Fields(query) {
		if len([]rune(w)) <= 3 || stops[strings.ToLower(w)] {
			continue
		}
		words = append(words, w)
		if len(words) == maxImportantWords {
			break
		}
	}
	return words
}
