package chat

import (
	"context"

	"github.com/amal-assist/amal/pkg/adapter"
	"github.com/amal-assist/amal/pkg/eventbus"
	"github.com/amal-assist/amal/pkg/knowledge"
	"github.com/amal-assist/amal/pkg/lang"
	"github.com/amal-assist/amal/pkg/model"
	"github.com/amal-assist/amal/pkg/utils/logging"
)

const (
	// A prompt longer than this is rebuilt with a truncated knowledge
	// excerpt before hitting the backend.
	maxPromptLen      = 100000
	truncatedExcerpt  = 2000
	minGeneratedRunes = 10
)

// Responder runs the full response pipeline: greeting check, language
// identification, topic gate, knowledge retrieval, prompt assembly,
// generation and curation. It never fails user-visibly; every failure
// degrades to a canned answer and is reported on the event bus.
type Responder struct {
	gen       adapter.Generator // nil when the backend failed to load
	bus       *eventbus.Bus
	detector  *lang.Detector
	knowledge string
}

// NewInput contains dependencies for creating a Responder
type NewInput struct {
	Generator     adapter.Generator
	Bus           *eventbus.Bus
	Detector      *lang.Detector
	KnowledgeBase string
}

func New(input NewInput) *Responder {
	return &Responder{
		gen:       input.Generator,
		bus:       input.Bus,
		detector:  input.Detector,
		knowledge: input.KnowledgeBase,
	}
}

// Respond answers one user query within the session. The reply is
// appended to the session log and a message event is published. At most
// one sink may be attached per outstanding request; once generation has
// started it runs to completion.
func (r *Responder) Respond(ctx context.Context, s *model.Session, query string, sink adapter.StreamSink) string {
	s.Append(model.RoleUser, query)

	reply, language := r.answer(ctx, s, query, sink)

	s.Append(model.RoleAssistant, reply)
	r.bus.Publish(ctx, model.EventMessage, map[string]any{
		"session_id":        string(s.ID),
		"user_message":      query,
		"bot_response":      reply,
		"detected_language": string(language),
	})

	return reply
}

func (r *Responder) answer(ctx context.Context, s *model.Session, query string, sink adapter.StreamSink) (string, model.Language) {
	if greetLang, ok := lang.DetectGreeting(query); ok {
		return GreetingResponse(greetLang), greetLang
	}

	language := r.detector.Detect(query)

	if !lang.IsHealthRelated(query, language) {
		return OffTopicMessage(language), language
	}

	if replies, ok := conditionResponses[s.Condition]; ok {
		if reply, ok := replies[language]; ok {
			return reply, language
		}
		return replies[model.French], language
	}

	if r.gen == nil {
		return FallbackResponse(query, language), language
	}

	return r.generate(ctx, query, language, sink), language
}

// generate runs retrieval, prompt assembly and the backend call,
// degrading to the topical fallback on any failure or on output too
// short to be useful.
func (r *Responder) generate(ctx context.Context, query string, language model.Language, sink adapter.StreamSink) string {
	know := knowledge.Extract(query, r.knowledge, language)

	prompt := BuildPrompt(query, language, know)
	if len(prompt) > maxPromptLen {
		logging.From(ctx).Warn("prompt too long, truncating knowledge excerpt", "len", len(prompt))
		runes := []rune(know)
		if len(runes) > truncatedExcerpt {
			know = string(runes[:truncatedExcerpt]) + "…"
		}
		prompt = BuildPrompt(query, language, know)
	}

	text, err := r.gen.Complete(ctx, prompt, sink)
	if err != nil {
		logging.From(ctx).Warn("generation failed, using fallback response", "error", err)
		r.bus.Publish(ctx, model.EventError, map[string]any{
			"error_type":    "generation_error",
			"error_message": err.Error(),
			"module":        "chat",
		})
		return FallbackResponse(query, language)
	}

	if len([]rune(text)) < minGeneratedRunes {
		return FallbackResponse(query, language)
	}

	return Clean(text, query)
}
