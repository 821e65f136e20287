package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (PULSEDESK_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: PULSEDESK_PROVIDER -> provider,
	// PULSEDESK_SERVER__PORT -> server.port, etc.
	if err := k.Load(env.Provider("PULSEDESK_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "PULSEDESK_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI:    true,
	ProviderAnthropic: true,
	ProviderOllama:    true,
	ProviderNone:      true,
}

// Validate checks that the configuration contains valid values. Errors
// returned here are fatal: a misconfigured router must refuse to start
// rather than fail per request.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required (use \"none\" to run fallback-only)")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, anthropic, ollama, none", c.Provider)
	}
	if c.Provider != ProviderNone && c.Model == "" {
		return fmt.Errorf("model is required for provider %q", c.Provider)
	}

	if c.LLMTimeoutSeconds <= 0 {
		return fmt.Errorf("llm_timeout_seconds must be positive")
	}
	if c.LLMRequestsPerMin < 0 {
		return fmt.Errorf("llm_requests_per_min must be non-negative (0 disables the limiter)")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	r := c.Routing
	if r.KeywordWeight < 0 || r.PerformanceWeight < 0 || r.ExperienceWeight < 0 {
		return fmt.Errorf("routing weights must be non-negative")
	}
	if r.KeywordWeight == 0 && r.PerformanceWeight == 0 && r.ExperienceWeight == 0 {
		return fmt.Errorf("at least one routing weight must be positive")
	}
	if r.ExperienceSaturation <= 0 {
		return fmt.Errorf("routing.experience_saturation must be positive")
	}

	if c.Memory.HistoryCap <= 0 {
		return fmt.Errorf("memory.history_cap must be positive")
	}
	if c.Memory.ContextWindow <= 0 {
		return fmt.Errorf("memory.context_window must be positive")
	}
	if c.Memory.ContextWindow > c.Memory.HistoryCap {
		return fmt.Errorf("memory.context_window cannot exceed memory.history_cap")
	}

	if c.Dispatch.BulkConcurrency <= 0 {
		return fmt.Errorf("dispatch.bulk_concurrency must be positive")
	}
	if c.Dispatch.RecipientPreview <= 0 {
		return fmt.Errorf("dispatch.recipient_preview must be positive")
	}
	if c.Dispatch.GatewayTimeoutSeconds <= 0 {
		return fmt.Errorf("dispatch.gateway_timeout_seconds must be positive")
	}

	if len(c.Specialists) == 0 {
		return fmt.Errorf("at least one specialist must be configured")
	}
	seen := make(map[string]bool, len(c.Specialists))
	for i, s := range c.Specialists {
		if s.ID == "" {
			return fmt.Errorf("specialists[%d]: id is required", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate specialist id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Style != "" && s.Style != "formal" && s.Style != "casual" {
			return fmt.Errorf("specialist %q: style must be formal or casual", s.ID)
		}
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}
