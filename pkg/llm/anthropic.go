package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithMiddleware(func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
			return logAttempt("anthropic", req, next)
		}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := anthropic.ModelClaudeHaiku4_5
	if cfg.Model != "" {
		model = anthropic.Model(cfg.Model)
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client:    &client,
		model:     model,
		modelName: string(model),
	}
}

func (c *AnthropicClient) Name() string {
	return "anthropic"
}

func (c *AnthropicClient) Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error) {
	userPrompt := buildUserPrompt(input)

	slog.Debug("anthropic request",
		"organization", input.Organization,
		"model", c.modelName,
		"prompt_version", promptVersion,
		"prompt", userPrompt,
	)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
		Tools: []anthropic.ToolUnionParam{
			{OfTool: &anthropic.ToolParam{
				Name:        toolName,
				Description: anthropic.String(toolDescription),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: goalToolSchema.Properties,
					Required:   goalToolSchema.Required,
				},
			}},
		},
		ToolChoice: anthropic.ToolChoiceParamOfTool(toolName),
	})

	if err != nil {
		slog.Error("anthropic request failed", "organization", input.Organization, "error", err)
		return nil, &ExtractionError{
			Organization: input.Organization,
			Provider:     c.Name(),
			Err:          fmt.Errorf("anthropic API error: %w", err),
		}
	}

	slog.Debug("anthropic response", "organization", input.Organization, "stop_reason", resp.StopReason, "body", resp.RawJSON())

	raw := anthropicOutput(resp)
	if raw == "" {
		return nil, &ExtractionError{
			Organization: input.Organization,
			Provider:     c.Name(),
			Err:          fmt.Errorf("no response from anthropic"),
		}
	}

	fields, ok := ParseFields(raw)
	if !ok {
		slog.Warn("could not parse anthropic output", "organization", input.Organization, "content", raw)
	}

	return &ExtractResult{
		Fields:    fields,
		RawOutput: raw,
		Parsed:    ok,
		ModelUsed: c.modelName,
	}, nil
}

// anthropicOutput prefers the forced tool call input and falls back to any
// text blocks the model produced instead.
func anthropicOutput(resp *anthropic.Message) string {
	var texts []string
	for _, block := range resp.Content {
		switch block.Type {
		case "tool_use":
			if block.Name == toolName && len(block.Input) > 0 {
				return string(block.Input)
			}
		case "text":
			if block.Text != "" {
				texts = append(texts, block.Text)
			}
		}
	}
	return strings.Join(texts, "\n")
}
