package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ChatClient captures the subset of the OpenAI SDK used by OpenAIProvider,
// so tests can substitute a fake instead of issuing a real API call.
type ChatClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIProvider implements Provider on top of the Chat Completions API.
type OpenAIProvider struct {
	chat         ChatClient
	defaultModel string
}

// NewOpenAIProvider builds a provider from a chat-completions client and a
// default model identifier.
func NewOpenAIProvider(chat ChatClient, defaultModel string) (*OpenAIProvider, error) {
	if chat == nil {
		return nil, errors.New("openai: chat client is required")
	}
	if defaultModel == "" {
		return nil, errors.New("openai: default model is required")
	}
	return &OpenAIProvider{chat: chat, defaultModel: defaultModel}, nil
}

// NewOpenAIProviderFromAPIKey constructs a provider using the SDK's default
// HTTP client.
func NewOpenAIProviderFromAPIKey(apiKey, defaultModel string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("openai: api key is required")
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return NewOpenAIProvider(&client.Chat.Completions, defaultModel)
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	prompt, err := enhancementPrompt(req)
	if err != nil {
		return Response{}, fmt.Errorf("openai: building prompt: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	resp, err := p.chat.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("openai: chat.completions.new: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, errors.New("openai: response contained no choices")
	}
	text := resp.Choices[0].Message.Content
	if text == "" {
		return Response{}, errors.New("openai: response message had no content")
	}
	payload, err := decodeJSONObject(text)
	if err != nil {
		return Response{}, fmt.Errorf("openai: decoding candidate payload: %w", err)
	}
	return Response{Payload: payload}, nil
}

var _ Provider = (*OpenAIProvider)(nil)
