package oracle

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
)

const DefaultModel = "gpt-4o-mini"

var _ Generator = (*OpenAI)(nil)

// OpenAI generates answers with the chat completions API of OpenAI or any
// compatible endpoint.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI returns nil when apiKey is empty, leaving the oracle silent.
func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = DefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (g *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(g.model),
	})
	if err != nil {
		return "", errors.Wrap(err, "[OpenAI.Generate] chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Wrapf(apperrors.ErrUnavailable, "[OpenAI.Generate] no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
