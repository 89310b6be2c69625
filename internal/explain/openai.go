package explain

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tiktoken-go/tokenizer"

	"github.com/codalotl/segdiff/internal/simplelogger"
)

// OpenAIConfig configures an OpenAI explainer.
type OpenAIConfig struct {
	APIKey          string // Required.
	BaseURL         string // Optional. Any OpenAI-compatible chat completions endpoint.
	Model           string
	MaxPromptTokens int // Prompts counted above this use CompactPrompt. 0 disables the check.
	MaxRetries      int
}

// OpenAI explains segments with an OpenAI chat completion.
type OpenAI struct {
	client    openai.Client
	model     string
	maxTokens int
	codec     tokenizer.Codec
}

// NewOpenAI returns an OpenAI explainer, or ErrNoAPIKey if cfg has no key.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		return nil, errors.New("explain: no model configured")
	}
	codec, err := tokenizer.Get(tokenizer.O200kBase)
	if err != nil {
		return nil, fmt.Errorf("explain: load tokenizer: %w", err)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxPromptTokens,
		codec:     codec,
	}, nil
}

// prompt picks the full prompt when it fits the token budget and the compact one otherwise.
func (o *OpenAI) prompt(req Request) string {
	full := Prompt(req)
	if o.maxTokens <= 0 {
		return full
	}
	n, err := o.codec.Count(full)
	if err != nil {
		n = len(full) / 4
	}
	if n <= o.maxTokens {
		return full
	}
	simplelogger.Log("explain: prompt for %s is %d tokens (budget %d), compacting", req.Left.ID, n, o.maxTokens)
	return CompactPrompt(req)
}

func (o *OpenAI) Explain(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(o.prompt(req)),
		},
	}
	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai: status %d: %s", apiErr.StatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("openai: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("openai: response has no choices")
	}
	msg := resp.Choices[0].Message
	if msg.Content == "" {
		return msg.Refusal, nil
	}
	return msg.Content, nil
}
