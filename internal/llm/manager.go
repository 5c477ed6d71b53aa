package llm

import (
	"context"
	"fmt"
	"sync"

	"postguard/internal/config"
	"postguard/internal/logging"
	"postguard/pkg/models"
)

// Manager manages LLM providers and their lifecycle
type Manager struct {
	config   *config.Config
	factory  *LLMFactory
	provider LLMProvider
	named    map[string]LLMProvider
	logger   logging.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new LLM manager instance
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewLLMFactory(cfg),
		named:   make(map[string]LLMProvider),
		logger:  logging.GetGlobalLogger(),
	}
}

// Start initializes the LLM manager and creates the provider
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting LLM manager", map[string]interface{}{
		"provider": m.config.LLM.Provider,
	})

	provider, err := m.factory.CreateProvider()
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	m.provider = provider

	// Test provider health
	ctx, cancel := context.WithTimeout(context.Background(), m.config.LLM.Timeout)
	defer cancel()

	if err := m.provider.IsHealthy(ctx); err != nil {
		m.logger.Warn("LLM provider health check failed - extraction will use the regex fallback", map[string]interface{}{
			"error": err.Error(),
		})
		m.healthy = false
		// Don't return error - the pipeline degrades to fallback extraction
	} else {
		m.healthy = true
		m.logger.Info("LLM manager started successfully", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
		})
	}

	return nil
}

// Stop shuts down the LLM manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping LLM manager")
	m.provider = nil
	m.named = make(map[string]LLMProvider)
	m.healthy = false
	return nil
}

// ExtractFields extracts posting fields using the configured provider
func (m *Manager) ExtractFields(ctx context.Context, posting string) (*models.ExtractionResult, error) {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return nil, fmt.Errorf("LLM manager not started or provider not available")
	}

	return provider.ExtractFields(ctx, posting)
}

// ExtractFieldsWith extracts posting fields using a specific provider by
// name. An empty name or the configured provider's name routes to the
// default provider; other providers are created on first use and cached.
func (m *Manager) ExtractFieldsWith(ctx context.Context, posting, providerName string) (*models.ExtractionResult, error) {
	if providerName == "" || providerName == m.config.LLM.Provider {
		return m.ExtractFields(ctx, posting)
	}

	m.mu.Lock()
	provider, ok := m.named[providerName]
	if !ok {
		var err error
		provider, err = m.factory.CreateNamedProvider(providerName)
		if err != nil {
			m.mu.Unlock()
			return nil, err
		}
		m.named[providerName] = provider
	}
	m.mu.Unlock()

	return provider.ExtractFields(ctx, posting)
}

// IsHealthy checks if the LLM manager and provider are healthy
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current LLM provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth performs a health check on the LLM provider
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return fmt.Errorf("LLM provider not available")
	}

	err := provider.IsHealthy(ctx)

	m.mu.Lock()
	m.healthy = (err == nil)
	m.mu.Unlock()

	return err
}
