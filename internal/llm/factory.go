package llm

import (
	"fmt"

	"postguard/internal/config"
)

// ProviderConstructor builds a provider from configuration. Providers
// register here so the factory stays free of provider imports (the
// providers package imports llm for the shared prompt).
type ProviderConstructor func(cfg *config.Config) LLMProvider

var providerConstructors = map[string]ProviderConstructor{}

// RegisterProvider makes a provider available to the factory by name
func RegisterProvider(name string, constructor ProviderConstructor) {
	providerConstructors[name] = constructor
}

// LLMFactory creates LLM provider instances
type LLMFactory struct {
	config *config.Config
}

// NewLLMFactory creates a new LLM factory instance
func NewLLMFactory(cfg *config.Config) *LLMFactory {
	return &LLMFactory{
		config: cfg,
	}
}

// CreateProvider creates an LLM provider based on the configuration
func (f *LLMFactory) CreateProvider() (LLMProvider, error) {
	return f.CreateNamedProvider(f.config.LLM.Provider)
}

// CreateNamedProvider creates a specific provider regardless of the default
func (f *LLMFactory) CreateNamedProvider(name string) (LLMProvider, error) {
	constructor, ok := providerConstructors[name]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider: %s", name)
	}
	return constructor(f.config), nil
}

// GetSupportedProviders returns a list of supported LLM providers
func (f *LLMFactory) GetSupportedProviders() []string {
	names := make([]string, 0, len(providerConstructors))
	for name := range providerConstructors {
		names = append(names, name)
	}
	return names
}
