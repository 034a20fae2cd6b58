package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// MessagesClient captures the subset of the Anthropic SDK used by
// AnthropicProvider, so tests can substitute a fake instead of issuing a
// real API call.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// AnthropicProvider implements Provider on top of the Anthropic Messages
// API. The payload-enhancement prompt asks the model to return the
// candidate payload as a single fenced JSON object; the response's first
// text block is parsed as that object.
type AnthropicProvider struct {
	msg          MessagesClient
	defaultModel string
	maxTokens    int64
}

// NewAnthropicProvider builds a provider from a Messages client and a
// default model identifier, used when a Request leaves Model empty.
func NewAnthropicProvider(msg MessagesClient, defaultModel string) (*AnthropicProvider, error) {
	if msg == nil {
		return nil, errors.New("anthropic: messages client is required")
	}
	if defaultModel == "" {
		return nil, errors.New("anthropic: default model is required")
	}
	return &AnthropicProvider{msg: msg, defaultModel: defaultModel, maxTokens: 1024}, nil
}

// NewAnthropicProviderFromAPIKey constructs a provider using the SDK's
// default HTTP client, reading ANTHROPIC_API_KEY conventions via
// option.WithAPIKey.
func NewAnthropicProviderFromAPIKey(apiKey, defaultModel string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic: api key is required")
	}
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return NewAnthropicProvider(&client.Messages, defaultModel)
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	prompt, err := enhancementPrompt(req)
	if err != nil {
		return Response{}, fmt.Errorf("anthropic: building prompt: %w", err)
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: p.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	}

	msg, err := p.msg.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("anthropic: messages.new: %w", err)
	}

	text := firstTextBlock(msg)
	if text == "" {
		return Response{}, errors.New("anthropic: response contained no text content")
	}
	payload, err := decodeJSONObject(text)
	if err != nil {
		return Response{}, fmt.Errorf("anthropic: decoding candidate payload: %w", err)
	}
	return Response{Payload: payload}, nil
}

func firstTextBlock(msg *sdk.Message) string {
	if msg == nil {
		return ""
	}
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text
		}
	}
	return ""
}

// decodeJSONObject extracts the first top-level JSON object from text,
// tolerating a model wrapping it in prose or a markdown code fence.
func decodeJSONObject(text string) (map[string]any, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < 0 || end < start {
		return nil, errors.New("no JSON object found in response")
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, err
	}
	return out, nil
}

var _ Provider = (*AnthropicProvider)(nil)
