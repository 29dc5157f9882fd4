package oracle

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const openAISystemPrompt = "You grade student essays. Reply with a single decimal number " +
	"between 0 and 1 expressing how well the text meets the instruction. No other text."

// chatCompleter is the part of *openai.Client the oracle uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIOracle asks a chat model for a confidence number and parses it.
type OpenAIOracle struct {
	client chatCompleter
	model  string
}

// NewOpenAIOracle targets the OpenAI API, or any compatible server when
// baseURL is not empty.
func NewOpenAIOracle(apiKey, model, baseURL string) *OpenAIOracle {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIOracle{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAIOracle) Score(ctx context.Context, text string) (float64, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens: 8,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("OpenAI returned no choices")
	}

	return parseConfidence(resp.Choices[0].Message.Content)
}

func parseConfidence(s string) (float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty oracle answer")
	}
	v, err := strconv.ParseFloat(strings.TrimRight(fields[0], ".,;"), 64)
	if err != nil {
		return 0, fmt.Errorf("oracle answer %q is not a number", s)
	}
	return v, nil
}
