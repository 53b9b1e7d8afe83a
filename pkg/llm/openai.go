package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithMiddleware(func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
			return logAttempt("openai", req, next)
		}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := openai.ChatModelGPT4oMini
	if cfg.Model != "" {
		model = openai.ChatModel(cfg.Model)
	}

	client := openai.NewClient(opts...)
	return &OpenAIClient{
		client:    &client,
		model:     model,
		modelName: string(model),
	}
}

func (c *OpenAIClient) Name() string {
	return "openai"
}

func (c *OpenAIClient) Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error) {
	userPrompt := buildUserPrompt(input)

	slog.Debug("openai request",
		"organization", input.Organization,
		"model", c.modelName,
		"prompt_version", promptVersion,
		"prompt", userPrompt,
	)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        toolName,
					Description: openai.String(toolDescription),
					Schema:      goalSchema,
				},
			},
		},
	})

	if err != nil {
		slog.Error("openai request failed", "organization", input.Organization, "error", err)
		return nil, &ExtractionError{
			Organization: input.Organization,
			Provider:     c.Name(),
			Err:          fmt.Errorf("openai API error: %w", err),
		}
	}

	slog.Debug("openai response", "organization", input.Organization, "body", resp.RawJSON())

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &ExtractionError{
			Organization: input.Organization,
			Provider:     c.Name(),
			Err:          fmt.Errorf("no response from openai"),
		}
	}

	raw := resp.Choices[0].Message.Content
	fields, ok := ParseFields(raw)
	if !ok {
		slog.Warn("could not parse openai output", "organization", input.Organization, "content", raw)
	}

	return &ExtractResult{
		Fields:    fields,
		RawOutput: raw,
		Parsed:    ok,
		ModelUsed: c.modelName,
	}, nil
}
