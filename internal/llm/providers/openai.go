package providers

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"postguard/internal/config"
	"postguard/internal/llm"
	"postguard/internal/logging"
	"postguard/pkg/models"
	"postguard/pkg/utils"
)

const openaiDefaultModel = "gpt-4o-mini"

// OpenAIProvider implements the LLM provider interface using the OpenAI API
type OpenAIProvider struct {
	client *openai.Client
	config *config.Config
	logger logging.Logger
}

// NewOpenAIProvider creates a new OpenAI provider instance
func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(cfg.LLM.APIKey),
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

func (op *OpenAIProvider) model() string {
	if op.config.LLM.Model != "" {
		return op.config.LLM.Model
	}
	return openaiDefaultModel
}

// ExtractFields pulls structured posting fields out of raw posting text
func (op *OpenAIProvider) ExtractFields(ctx context.Context, posting string) (*models.ExtractionResult, error) {
	model := op.model()

	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You extract structured information from job postings and return valid JSON."},
			{Role: openai.ChatMessageRoleUser, Content: llm.BuildExtractionPrompt(posting)},
		},
		Temperature: op.config.LLM.Temperature,
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = op.config.LLM.MaxTokens
		req.Temperature = 0
	} else {
		req.MaxTokens = op.config.LLM.MaxTokens
	}

	resp, err := op.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, utils.NewLLMError(fmt.Sprintf("failed to create chat completion: %v", err))
	}
	if len(resp.Choices) == 0 {
		return nil, &llm.MalformedResponseError{Err: fmt.Errorf("no choices in response")}
	}

	return llm.ParseExtractionResponse(resp.Choices[0].Message.Content)
}

// IsHealthy checks if the OpenAI provider is healthy and available
func (op *OpenAIProvider) IsHealthy(ctx context.Context) error {
	if op.config.LLM.APIKey == "" {
		return fmt.Errorf("OpenAI API key not configured - set LLM_API_KEY environment variable")
	}

	if _, err := op.client.ListModels(ctx); err != nil {
		return fmt.Errorf("OpenAI API health check failed: %w", err)
	}
	return nil
}

// GetProviderName returns the name of the LLM provider
func (op *OpenAIProvider) GetProviderName() string {
	return "openai"
}
