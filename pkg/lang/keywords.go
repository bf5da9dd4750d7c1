package lang

import "github.com/amal-assist/amal/pkg/model"

// healthKeywords lists the domain vocabulary per language. A query is
// in-domain when any entry appears as a substring of the lowercased text.
var healthKeywords = map[model.Language][]string{
	model.French: {
		"cancer", "sein", "tumeur", "mammaire", "santé", "médecin", "médical", "hôpital",
		"maladie", "traitement", "symptôme", "douleur", "dépistage", "diagnostic",
		"médicament", "chirurgie", "thérapie", "radiothérapie", "chimiothérapie",
		"bénin", "malin", "métastase", "cellule", "biopsie", "mammographie", "échographie",
		"prévention", "risque", "hormonal", "récidive", "guérison", "consulter",
	},
	model.English: {
		"cancer", "breast", "tumor", "health", "doctor", "medical", "hospital",
		"disease", "treatment", "symptom", "pain", "screening", "diagnosis",
		"medicine", "surgery", "therapy", "radiotherapy", "chemotherapy",
		"benign", "malignant", "metastasis", "cell", "biopsy", "mammography", "ultrasound",
		"prevention", "risk", "hormonal", "recurrence", "recovery", "consult",
	},
	model.Arabic: {
		"سرطان", "ثدي", "ورم", "صحة", "طبيب", "طبي", "مستشفى",
		"مرض", "علاج", "عرض", "ألم", "فحص", "تشخيص",
		"دواء", "جراحة", "معالجة", "علاج إشعاعي", "علاج كيميائي",
		"حميد", "خبيث", "نقيلة", "خلية", "خزعة", "تصوير الثدي", "تصوير بالموجات فوق الصوتية",
		"وقاية", "خطر", "هرموني", "انتكاس", "شفاء", "استشارة",
	},
}

// greetings lists recognized salutation prefixes per language.
var greetings = map[model.Language][]string{
	model.French:  {"bonjour", "salut", "bonsoir", "coucou", "hello"},
	model.English: {"hi", "hello", "hey", "good morning", "good evening"},
	model.Arabic:  {"مرحبا", "أهلا", "السلام عليكم", "السلام عليكم ورحمة الله"},
}
