package session

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/go-go-golems/parlance/pkg/conversation"
	"github.com/go-go-golems/parlance/pkg/usage"
)

// OpenAICompleter implements the completion boundary against the OpenAI
// chat-completions API.
type OpenAICompleter struct {
	client *go_openai.Client
}

type OpenAIOption func(*go_openai.ClientConfig)

func WithBaseURL(baseURL string) OpenAIOption {
	return func(cfg *go_openai.ClientConfig) {
		cfg.BaseURL = baseURL
	}
}

func WithOrgID(orgID string) OpenAIOption {
	return func(cfg *go_openai.ClientConfig) {
		cfg.OrgID = orgID
	}
}

// NewOpenAICompleter creates the boundary client. An empty apiKey falls back
// to the OPENAI_API_KEY environment variable.
func NewOpenAICompleter(apiKey string, options ...OpenAIOption) *OpenAICompleter {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg := go_openai.DefaultConfig(apiKey)
	for _, option := range options {
		option(&cfg)
	}
	return &OpenAICompleter{
		client: go_openai.NewClientWithConfig(cfg),
	}
}

func (c *OpenAICompleter) Complete(
	ctx context.Context,
	model string,
	messages []conversation.Message,
) (*Reply, error) {
	msgs, err := makeCompletionMessages(messages)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("model", model).Int("messages", len(msgs)).Msg("sending chat completion request")

	resp, err := c.client.CreateChatCompletion(ctx, go_openai.ChatCompletionRequest{
		Model:    model,
		Messages: msgs,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices returned")
	}

	return &Reply{
		Text:  resp.Choices[0].Message.Content,
		Usage: usageReport(resp.Usage),
	}, nil
}

var _ Completer = (*OpenAICompleter)(nil)

func makeCompletionMessages(messages []conversation.Message) ([]go_openai.ChatCompletionMessage, error) {
	var msgs []go_openai.ChatCompletionMessage
	for _, message := range messages {
		if !message.Content.IsParts() {
			msgs = append(msgs, go_openai.ChatCompletionMessage{
				Role:    string(message.Role),
				Content: message.Content.Text,
			})
			continue
		}

		var parts []go_openai.ChatMessagePart
		for _, fragment := range message.Content.Parts {
			part, err := makeMessagePart(fragment)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		msgs = append(msgs, go_openai.ChatCompletionMessage{
			Role:         string(message.Role),
			MultiContent: parts,
		})
	}
	return msgs, nil
}

func makeMessagePart(fragment conversation.Fragment) (go_openai.ChatMessagePart, error) {
	switch fragment["type"] {
	case "text":
		text, _ := fragment["text"].(string)
		return go_openai.ChatMessagePart{
			Type: go_openai.ChatMessagePartTypeText,
			Text: text,
		}, nil
	case "image_url":
		imageURL, ok := fragment["image_url"].(map[string]interface{})
		if !ok {
			return go_openai.ChatMessagePart{}, errors.New("image_url fragment missing image_url mapping")
		}
		url, _ := imageURL["url"].(string)
		detail, _ := imageURL["detail"].(string)
		if detail == "" {
			detail = string(go_openai.ImageURLDetailAuto)
		}
		return go_openai.ChatMessagePart{
			Type: go_openai.ChatMessagePartTypeImageURL,
			ImageURL: &go_openai.ChatMessageImageURL{
				URL:    url,
				Detail: go_openai.ImageURLDetail(detail),
			},
		}, nil
	default:
		return go_openai.ChatMessagePart{}, errors.Errorf("unknown fragment type %v", fragment["type"])
	}
}

func usageReport(u go_openai.Usage) usage.Report {
	if u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0 {
		return nil
	}
	return usage.Report{
		"prompt_tokens":     usage.Number(float64(u.PromptTokens)),
		"completion_tokens": usage.Number(float64(u.CompletionTokens)),
		"total_tokens":      usage.Number(float64(u.TotalTokens)),
	}
}
