package lang

import (
	"github.com/pemistahl/lingua-go"

	"github.com/amal-assist/amal/pkg/model"
)

// Detector identifies the language of free-text input. Detection is
// best-effort: any miss falls back to French rather than reporting an
// error.
type Detector struct {
	detector lingua.LanguageDetector
}

func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.French, lingua.English, lingua.Arabic).
			Build(),
	}
}

// Detect returns the most likely supported language of text. Empty or
// undecidable input yields French.
func (d *Detector) Detect(text string) model.Language {
	detected, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return model.French
	}

	switch detected {
	case lingua.French:
		return model.French
	case lingua.English:
		return model.English
	case lingua.Arabic:
		return model.Arabic
	default:
		return model.French
	}
}
