package adapter

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	openai "github.com/sashabaranov/go-openai"
)

// StreamSink receives each increment of generated text, synchronously
// and in order, before Complete returns. At most one sink is attached
// per outstanding request; generation cannot be cancelled once started.
type StreamSink func(chunk string)

// Generator is the interface for the text-generation backend.
type Generator interface {
	// Complete runs the prompt to completion and returns the full
	// generated text. When sink is non-nil every produced chunk is
	// forwarded to it as it arrives.
	Complete(ctx context.Context, prompt string, sink StreamSink) (string, error)
}

// Decoding parameters are fixed; they mirror the settings the llama
// instruct model was tuned with.
const (
	maxTokens        = 1024
	temperature      = 0.7
	topP             = 0.9
	frequencyPenalty = 1.2 // llama.cpp servers map this onto repeat penalty
)

// stopSequences end generation at any chat-template control token.
var stopSequences = []string{"<|user|>", "<|system|>", "<|assistant|>", "[INST]", "[/INST]", "</s>", "<s>"}

// llamaClient implements Generator against an OpenAI-compatible
// completion endpoint, such as the one llama.cpp's llama-server exposes.
type llamaClient struct {
	client *openai.Client
	model  string
}

type GeneratorOption func(*llamaClient)

func WithModel(model string) GeneratorOption {
	return func(c *llamaClient) {
		c.model = model
	}
}

// NewGenerator creates a generation backend client. baseURL points at
// the OpenAI-compatible server; apiKey may be empty for local servers.
func NewGenerator(baseURL, apiKey string, opts ...GeneratorOption) Generator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	c := &llamaClient{
		client: openai.NewClientWithConfig(cfg),
		model:  "llama-3.2-3b-instruct",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *llamaClient) Complete(ctx context.Context, prompt string, sink StreamSink) (string, error) {
	req := openai.CompletionRequest{
		Model:            c.model,
		Prompt:           prompt,
		MaxTokens:        maxTokens,
		Temperature:      temperature,
		TopP:             topP,
		FrequencyPenalty: frequencyPenalty,
		Stop:             stopSequences,
	}

	if sink == nil {
		resp, err := c.client.CreateCompletion(ctx, req)
		if err != nil {
			return "", goerr.Wrap(err, "failed to create completion")
		}
		if len(resp.Choices) == 0 {
			return "", goerr.New("completion returned no choices")
		}
		return strings.TrimSpace(resp.Choices[0].Text), nil
	}

	req.Stream = true
	stream, err := c.client.CreateCompletionStream(ctx, req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create completion stream")
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", goerr.Wrap(err, "failed to receive completion chunk")
		}
		if len(resp.Choices) == 0 {
			continue
		}
		chunk := resp.Choices[0].Text
		if chunk == "" {
			continue
		}
		sb.WriteString(chunk)
		sink(chunk)
	}

	return strings.TrimSpace(sb.String()), nil
}
