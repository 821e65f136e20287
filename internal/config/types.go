package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
	// ProviderNone disables the hosted LLM entirely; every response is
	// produced by the deterministic fallback path.
	ProviderNone ProviderType = "none"
)

// Config is the top-level pulsedesk configuration, corresponding to pulsedesk.yml.
type Config struct {
	Provider          ProviderType       `yaml:"provider" koanf:"provider"`
	Model             string             `yaml:"model" koanf:"model"`
	LLMTimeoutSeconds int                `yaml:"llm_timeout_seconds" koanf:"llm_timeout_seconds"`
	LLMRequestsPerMin int                `yaml:"llm_requests_per_min" koanf:"llm_requests_per_min"`
	DataDir           string             `yaml:"data_dir" koanf:"data_dir"`
	Server            ServerConfig       `yaml:"server" koanf:"server"`
	Routing           RoutingConfig      `yaml:"routing" koanf:"routing"`
	Memory            MemoryConfig       `yaml:"memory" koanf:"memory"`
	Dispatch          DispatchConfig     `yaml:"dispatch" koanf:"dispatch"`
	Telephony         GatewayConfig      `yaml:"telephony" koanf:"telephony"`
	Messaging         GatewayConfig      `yaml:"messaging" koanf:"messaging"`
	Specialists       []SpecialistConfig `yaml:"specialists" koanf:"specialists"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// RoutingConfig holds the specialist scoring weights. The exact ratios are
// tunable; selection only relies on higher affinity and higher performance
// scoring higher.
type RoutingConfig struct {
	KeywordWeight        float64 `yaml:"keyword_weight" koanf:"keyword_weight"`
	PerformanceWeight    float64 `yaml:"performance_weight" koanf:"performance_weight"`
	ExperienceWeight     float64 `yaml:"experience_weight" koanf:"experience_weight"`
	ExperienceSaturation int     `yaml:"experience_saturation" koanf:"experience_saturation"`
}

// MemoryConfig holds conversation memory settings.
type MemoryConfig struct {
	HistoryCap    int `yaml:"history_cap" koanf:"history_cap"`
	ContextWindow int `yaml:"context_window" koanf:"context_window"`
}

// DispatchConfig holds command execution settings.
type DispatchConfig struct {
	BulkConcurrency       int `yaml:"bulk_concurrency" koanf:"bulk_concurrency"`
	RecipientPreview      int `yaml:"recipient_preview" koanf:"recipient_preview"`
	GatewayTimeoutSeconds int `yaml:"gateway_timeout_seconds" koanf:"gateway_timeout_seconds"`
}

// GatewayConfig holds connection settings for an external gateway provider.
// VerifyToken is only used by providers with a webhook subscription
// handshake, such as WhatsApp Business.
type GatewayConfig struct {
	BaseURL     string `yaml:"base_url" koanf:"base_url"`
	Token       string `yaml:"token" koanf:"token"`
	From        string `yaml:"from" koanf:"from"`
	VerifyToken string `yaml:"verify_token" koanf:"verify_token"`
}

// SpecialistConfig declares one responder profile in the roster.
type SpecialistConfig struct {
	ID       string   `yaml:"id" koanf:"id"`
	Name     string   `yaml:"name" koanf:"name"`
	Role     string   `yaml:"role" koanf:"role"`
	Keywords []string `yaml:"keywords" koanf:"keywords"`
	Style    string   `yaml:"style" koanf:"style"` // "formal" or "casual"
}
