package chat

import (
	"strings"

	"github.com/amal-assist/amal/pkg/model"
)

// offTopicMessages is returned verbatim when the query fails the
// health gate.
var offTopicMessages = map[model.Language]string{
	model.French:  "Je suis spécialisé dans les questions relatives au cancer du sein et à la santé. Je ne peux pas répondre à cette question qui semble en dehors de mon domaine d'expertise. Si vous avez des questions sur le cancer du sein, ses symptômes, traitements ou prévention, je serai ravi de vous aider.",
	model.English: "I specialize in questions related to breast cancer and health. I cannot answer this question as it appears to be outside my area of expertise. If you have questions about breast cancer, its symptoms, treatments, or prevention, I would be happy to help.",
	model.Arabic:  "أنا متخصص في الأسئلة المتعلقة بسرطان الثدي والصحة. لا يمكنني الإجابة على هذا السؤال لأنه يبدو خارج مجال خبرتي. إذا كان لديك أسئلة حول سرطان الثدي وأعراضه وعلاجاته أو الوقاية منه، فسأكون سعيدًا بمساعدتك.",
}

// greetingResponses answer recognized salutations without touching
// retrieval or generation.
var greetingResponses = map[model.Language]string{
	model.French:  "Bonjour ! Comment puis-je vous aider concernant le cancer du sein ?",
	model.English: "Hello! How can I assist you regarding breast cancer?",
	model.Arabic:  "مرحبًا! كيف يمكنني مساعدتك بشأن سرطان الثدي؟",
}

// conditionResponses answer health questions asked after an image
// analysis, keyed by the detected condition.
var conditionResponses = map[model.Condition]map[model.Language]string{
	model.ConditionBenign: {
		model.French:  "D'après l'analyse de votre image, une tumeur bénigne a été détectée. Les tumeurs bénignes ne sont généralement pas cancéreuses, mais un suivi médical est recommandé.",
		model.English: "Based on the analysis of your image, a benign tumor has been detected. Benign tumors are generally not cancerous, but medical follow-up is recommended.",
		model.Arabic:  "بناءً على تحليل صورتك، تم اكتشاف ورم حميد. الأورام الحميدة ليست سرطانية عمومًا، ولكن يوصى بالمتابعة الطبية.",
	},
	model.ConditionMalignant: {
		model.French:  "D'après l'analyse de votre image, une tumeur maligne a été détectée. Veuillez consulter un médecin dès que possible pour une évaluation professionnelle.",
		model.English: "Based on the analysis of your image, a malignant tumor has been detected. Please consult a doctor as soon as possible for a professional evaluation.",
		model.Arabic:  "بناءً على تحليل صورتك، تم اكتشاف ورم خبيث. يرجى استشارة الطبيب في أقرب وقت ممكن للحصول على تقييم مهني.",
	},
}

// fallbackKind buckets a query for the canned answers used when the
// generation backend is unavailable or fails.
type fallbackKind string

const (
	fallbackCancerInfo    fallbackKind = "cancer_info"
	fallbackBenignInfo    fallbackKind = "benign_info"
	fallbackMalignantInfo fallbackKind = "malignant_info"
	fallbackTreatment     fallbackKind = "treatment"
	fallbackDefault       fallbackKind = "default"
)

// fallbackTriggers map bucket to the words that select it, across all
// supported languages. Order matters: first matching bucket wins.
var fallbackTriggers = []struct {
	kind  fallbackKind
	words []string
}{
	{fallbackCancerInfo, []string{"cancer", "sein", "mammaire", "breast", "سرطان", "ثدي"}},
	{fallbackBenignInfo, []string{"bénin", "benin", "bénigne", "benign", "حميد"}},
	{fallbackMalignantInfo, []string{"malin", "maligne", "malignes", "malignant", "خبيث"}},
	{fallbackTreatment, []string{"traitement", "soigner", "guérir", "guérison", "treatment", "therapy", "علاج"}},
}

var fallbackResponses = map[model.Language]map[fallbackKind]string{
	model.French: {
		fallbackCancerInfo:    "Le cancer du sein est une maladie où les cellules mammaires se multiplient de façon anormale. Un dépistage précoce augmente significativement les chances de guérison.",
		fallbackBenignInfo:    "Une tumeur bénigne n'est pas cancéreuse. Elle ne se propage pas aux tissus environnants et n'est généralement pas dangereuse pour la santé.",
		fallbackMalignantInfo: "Une tumeur maligne est cancéreuse et peut envahir les tissus environnants. Un traitement médical rapide est essentiel.",
		fallbackTreatment:     "Les traitements courants du cancer du sein incluent la chirurgie, la radiothérapie, la chimiothérapie, l'hormonothérapie et les thérapies ciblées.",
		fallbackDefault:       "Je n'ai pas d'information spécifique sur ce sujet. Consultez un professionnel de santé pour des conseils médicaux personnalisés.",
	},
	model.English: {
		fallbackCancerInfo:    "Breast cancer is a disease where breast cells multiply abnormally. Early detection significantly increases chances of recovery.",
		fallbackBenignInfo:    "A benign tumor is not cancerous. It does not spread to surrounding tissues and is generally not dangerous to health.",
		fallbackMalignantInfo: "A malignant tumor is cancerous and can invade surrounding tissues. Prompt medical treatment is essential.",
		fallbackTreatment:     "Common breast cancer treatments include surgery, radiation therapy, chemotherapy, hormone therapy, and targeted therapies.",
		fallbackDefault:       "I don't have specific information on this topic. Please consult a healthcare professional for personalized medical advice.",
	},
	model.Arabic: {
		fallbackCancerInfo:    "سرطان الثدي هو مرض تتكاثر فيه خلايا الثدي بشكل غير طبيعي. يزيد الكشف المبكر بشكل كبير من فرص الشفاء.",
		fallbackBenignInfo:    "الورم الحميد ليس سرطانيًا. لا ينتشر إلى الأنسجة المحيطة وعادة لا يشكل خطرًا على الصحة.",
		fallbackMalignantInfo: "الورم الخبيث سرطاني ويمكن أن يغزو الأنسجة المحيطة. العلاج الطبي السريع ضروري.",
		fallbackTreatment:     "تشمل علاجات سرطان الثدي الشائعة الجراحة والعلاج الإشعاعي والعلاج الكيميائي والعلاج الهرموني والعلاجات المستهدفة.",
		fallbackDefault:       "ليس لدي معلومات محددة حول هذا الموضوع. يرجى استشارة أخصائي رعاية صحية للحصول على نصائح طبية مخصصة.",
	},
}

// FallbackResponse returns the canned answer for the query's topical
// bucket. Used when no generation backend is configured or generation
// fails; deterministic for a given query and language.
func FallbackResponse(query string, language model.Language) string {
	language = language.OrDefault()
	lower := strings.ToLower(query)

	for _, t := range fallbackTriggers {
		for _, w := range t.words {
			if strings.Contains(lower, w) {
				return fallbackResponses[language][t.kind]
			}
		}
	}

	return fallbackResponses[language][fallbackDefault]
}

// OffTopicMessage returns the refusal text for non-domain queries.
func OffTopicMessage(language model.Language) string {
	if msg, ok := offTopicMessages[language]; ok {
		return msg
	}
	return offTopicMessages[model.French]
}

// GreetingResponse returns the salutation reply for the language.
func GreetingResponse(language model.Language) string {
	if msg, ok := greetingResponses[language]; ok {
		return msg
	}
	return greetingResponses[model.French]
}
