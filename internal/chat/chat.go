// Package chat is the secondary fast-answer path: a stateless
// prompt-and-return call with no document, no citations and no session state.
package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// ChatClient mirrors the subset we need from the OpenAI client for testability.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const systemPrompt = "You are a concise finance education-only chatbot. " +
	"Provide short, clear, non-prescriptive answers. Do not give allocations, " +
	"buy/sell instructions, or product recommendations; explain concepts in " +
	"general terms. Always append this disclaimer at the end of your answer: " +
	"'This information is for educational purposes only and not financial " +
	"advice. Please consult a licensed financial professional before making " +
	"any investment decisions.'"

const failureReply = "Sorry, I hit an issue talking to the model. Please try again."

// Client answers one-off prompts. The zero MaxTokens and empty Model fall
// back to conservative defaults.
type Client struct {
	Inner     ChatClient
	Model     string
	MaxTokens int
}

// Reply returns the model's answer, or a fixed apology when the call fails.
// It never returns an error: the fast path has nothing useful to do with one.
func (c *Client) Reply(ctx context.Context, prompt, userID string) string {
	model := c.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 400
	}
	resp, err := c.Inner.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: 0.4,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		User: userID,
	})
	if err != nil || len(resp.Choices) == 0 {
		log.Warn().Err(err).Msg("fast chat call failed")
		return failureReply
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}
