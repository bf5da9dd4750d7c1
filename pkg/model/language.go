package model

import "github.com/m-mizutani/goerr/v2"

var ErrInvalidLanguage = goerr.New("invalid language")

// Language is a supported conversation language. The assistant serves
// French, English and Arabic; French is the default when identification
// fails or yields an unsupported tag.
type Language string

const (
	French  Language = "fr"
	English Language = "en"
	Arabic  Language = "ar"
)

// Languages lists supported languages in priority order. Greeting
// detection and keyword fallback iterate in this order.
var Languages = []Language{French, English, Arabic}

// Validate checks if the language is supported
func (l Language) Validate() error {
	switch l {
	case French, English, Arabic:
		return nil
	default:
		return goerr.Wrap(ErrInvalidLanguage, "unsupported language", goerr.V("language", l))
	}
}

// OrDefault returns the language itself when supported, French otherwise.
func (l Language) OrDefault() Language {
	if l.Validate() != nil {
		return French
	}
	return l
}
