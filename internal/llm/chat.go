package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wanderai-backend/internal/config"
	"wanderai-backend/internal/models"
)

// Chat providers
const (
	ProviderGoogleAI  = "googleai"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// ChatModel answers chat turns through a langchaingo model.
type ChatModel struct {
	llm       llms.Model
	modelName string
	timeout   time.Duration
}

// NewChatModel creates the chat model for the configured provider.
func NewChatModel(ctx context.Context, cfg config.AIConfig) (*ChatModel, error) {
	var model llms.Model
	var err error

	switch cfg.ChatProvider {
	case ProviderGoogleAI, "":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("Gemini API key required")
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.ChatModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create googleai model: %w", err)
		}

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.ChatModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.ChatModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.ChatModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported chat provider: %s", cfg.ChatProvider)
	}

	return newChatModel(model, cfg.ChatModel, cfg.Timeout), nil
}

func newChatModel(model llms.Model, name string, timeout time.Duration) *ChatModel {
	return &ChatModel{llm: model, modelName: name, timeout: timeout}
}

// Reply sends the prior turns followed by message. Assistant turns are sent as
// AI messages, everything else as human messages.
func (m *ChatModel) Reply(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ChatReply", trace.WithAttributes(
		attribute.String("llm.model", m.modelName),
		attribute.Int("history.length", len(history)),
	))
	defer span.End()

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	resp, err := m.llm.GenerateContent(ctx, buildMessages(history, message))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		return "", fmt.Errorf("chat generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		span.SetStatus(codes.Error, "no choices")
		return "", fmt.Errorf("no response choices")
	}

	text := resp.Choices[0].Content
	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "")
	return text, nil
}

func buildMessages(history []models.ChatMessage, message string) []llms.MessageContent {
	msgs := make([]llms.MessageContent, 0, len(history)+1)
	for _, h := range history {
		role := llms.ChatMessageTypeHuman
		if h.Role == models.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, h.Content))
	}
	return append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, message))
}
