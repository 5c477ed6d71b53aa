package providers

import (
	"postguard/internal/config"
	"postguard/internal/llm"
)

func init() {
	llm.RegisterProvider("claude", func(cfg *config.Config) llm.LLMProvider {
		return NewClaudeProvider(cfg)
	})
	llm.RegisterProvider("openai", func(cfg *config.Config) llm.LLMProvider {
		return NewOpenAIProvider(cfg)
	})
}
