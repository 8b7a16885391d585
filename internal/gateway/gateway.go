// Package gateway wraps the hosted model provider behind a small interface
// the relay handlers depend on.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// Fixed sampling parameters for every completion. Not configurable; the
// persona prompt is tuned against them.
const (
	Temperature = 0.5
	TopP        = 0.9
	MaxTokens   = 512
)

// Completion is one non-streaming model answer.
type Completion struct {
	Answer    string
	Reasoning string
}

// Client is the remote-model surface the relay consumes. Exactly one
// outbound call per method invocation.
type Client interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (Completion, error)
	Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error)
}

// NIMClient talks to an OpenAI-compatible completion endpoint (NVIDIA NIM by
// default) through the go-openai client with a custom base URL.
type NIMClient struct {
	client   *openai.Client
	model    string
	sttModel string
}

func NewNIMClient(apiKey, baseURL, model, sttModel string) *NIMClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &NIMClient{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		sttModel: sttModel,
	}
}

func (c *NIMClient) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (Completion, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: Temperature,
		TopP:        TopP,
		MaxTokens:   MaxTokens,
		Stream:      false,
	})
	if err != nil {
		return Completion{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, errors.New("completion response has no choices")
	}
	msg := resp.Choices[0].Message
	return Completion{Answer: msg.Content, Reasoning: msg.ReasoningContent}, nil
}

// Transcribe sends one captured utterance to the speech-to-text model.
// language is an ISO-639-1 code or empty for auto-detection.
func (c *NIMClient) Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error) {
	tr, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.sttModel,
		Reader:   audio,
		FilePath: filename,
		Language: language,
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return tr.Text, nil
}
