package openai

import (
	"context"
	"errors"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"snaptext/internal/infrastructure/metrics"
	"snaptext/pkg/logger"
)

const (
	DefaultModel               = goopenai.GPT4oMini
	DefaultMaxCompletionTokens = 2048
)

type Config struct {
	APIKey              string
	BaseURL             string
	Model               string
	MaxCompletionTokens int
	Timeout             time.Duration
}

type DescriptionGenerator struct {
	client    *goopenai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

func NewDescriptionGenerator(cfg Config) *DescriptionGenerator {
	clientConfig := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxCompletionTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxCompletionTokens
	}

	return &DescriptionGenerator{
		client:    goopenai.NewClientWithConfig(clientConfig),
		model:     model,
		maxTokens: maxTokens,
		timeout:   cfg.Timeout,
	}
}

func (g *DescriptionGenerator) Generate(ctx context.Context, folderName string, imageURLs []string) (string, bool) {
	logger.Info("Generating description for %s from %d image(s)", folderName, len(imageURLs))

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, g.buildRequest(imageURLs))
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			logger.Error("API error generating description for %s: status=%d type=%s code=%v message=%s",
				folderName, apiErr.HTTPStatusCode, apiErr.Type, apiErr.Code, apiErr.Message)
		} else {
			logger.Error("Error communicating with OpenAI API for %s: %v", folderName, err)
		}
		metrics.DescriptionGenerations.WithLabelValues("error").Inc()
		return "", false
	}

	if len(resp.Choices) == 0 {
		logger.Error("Unexpected response format for %s: no choices in completion %s", folderName, resp.ID)
		metrics.DescriptionGenerations.WithLabelValues("empty").Inc()
		return "", false
	}

	metrics.DescriptionGenerations.WithLabelValues("success").Inc()
	logger.Debug("Generated description for %s (%d completion tokens)", folderName, resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, true
}

func (g *DescriptionGenerator) buildRequest(imageURLs []string) goopenai.ChatCompletionRequest {
	images := make([]goopenai.ChatMessagePart, 0, len(imageURLs))
	for _, url := range imageURLs {
		images = append(images, goopenai.ChatMessagePart{
			Type:     goopenai.ChatMessagePartTypeImageURL,
			ImageURL: &goopenai.ChatMessageImageURL{URL: url},
		})
	}

	return goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role: goopenai.ChatMessageRoleSystem,
				MultiContent: []goopenai.ChatMessagePart{
					{Type: goopenai.ChatMessagePartTypeText, Text: listingPrompt},
				},
			},
			{
				Role:         goopenai.ChatMessageRoleUser,
				MultiContent: images,
			},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeText,
		},
		Temperature:         1,
		TopP:                1,
		FrequencyPenalty:    0,
		PresencePenalty:     0,
		MaxCompletionTokens: g.maxTokens,
	}
}
