package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	answer string
	err    error
	got    openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.got = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.answer == "" {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.answer}}},
	}, nil
}

func TestOpenAIOracle_Score(t *testing.T) {
	fc := &fakeCompleter{answer: " 0.85\n"}
	o := &OpenAIOracle{client: fc, model: "gpt-4o-mini"}

	v, err := o.Score(context.Background(), "Rate the logic (1-5): essay")
	require.NoError(t, err)
	assert.Equal(t, 0.85, v)

	assert.Equal(t, "gpt-4o-mini", fc.got.Model)
	require.Len(t, fc.got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, fc.got.Messages[0].Role)
	assert.Equal(t, "Rate the logic (1-5): essay", fc.got.Messages[1].Content)
}

func TestOpenAIOracle_Failures(t *testing.T) {
	_, err := (&OpenAIOracle{client: &fakeCompleter{err: errors.New("quota")}}).Score(context.Background(), "x")
	require.ErrorContains(t, err, "OpenAI API call failed: quota")

	_, err = (&OpenAIOracle{client: &fakeCompleter{}}).Score(context.Background(), "x")
	require.ErrorContains(t, err, "no choices")

	_, err = (&OpenAIOracle{client: &fakeCompleter{answer: "great essay"}}).Score(context.Background(), "x")
	require.ErrorContains(t, err, "is not a number")
}

func TestParseConfidence(t *testing.T) {
	v, err := parseConfidence("0.7.")
	require.NoError(t, err)
	assert.Equal(t, 0.7, v)

	v, err = parseConfidence("1 (very good)")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	_, err = parseConfidence("   ")
	require.Error(t, err)
}

func TestNewOpenAIOracle_BaseURL(t *testing.T) {
	o := NewOpenAIOracle("sk", "m", "http://localhost:11434/v1")
	assert.Equal(t, "m", o.model)
	assert.NotNil(t, o.client)
}
