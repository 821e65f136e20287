package config

// defaultModels maps each provider to its default completion model.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-haiku-4-5-20251001",
	ProviderOllama:    "llama3",
}

// DefaultSpecialists is the roster shipped out of the box. Deployments
// override it in pulsedesk.yml; the order here is the tie-break order.
var DefaultSpecialists = []SpecialistConfig{
	{
		ID:       "sales",
		Name:     "Sara",
		Role:     "Sales Consultant",
		Keywords: []string{"price", "cost", "quote", "discount", "buy", "سعر", "تكلفة", "عرض", "خصم", "شراء"},
		Style:    "casual",
	},
	{
		ID:       "support",
		Name:     "Omar",
		Role:     "Customer Support Agent",
		Keywords: []string{"problem", "issue", "help", "complaint", "مشكلة", "مساعدة", "شكوى", "عطل"},
		Style:    "formal",
	},
	{
		ID:       "technical",
		Name:     "Khalid",
		Role:     "Technical Specialist",
		Keywords: []string{"error", "bug", "install", "setup", "integration", "api", "خطأ", "تركيب", "ربط"},
		Style:    "formal",
	},
	{
		ID:       "general",
		Name:     "Noura",
		Role:     "Account Manager",
		Keywords: []string{"hello", "hi", "info", "question", "مرحبا", "اهلا", "استفسار", "سؤال"},
		Style:    "casual",
	},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderNone,
		Model:             "",
		LLMTimeoutSeconds: 8,
		DataDir:           "data",
		Server: ServerConfig{
			Port: 8088,
		},
		Routing: RoutingConfig{
			KeywordWeight:        2.0,
			PerformanceWeight:    1.0,
			ExperienceWeight:     0.5,
			ExperienceSaturation: 100,
		},
		Memory: MemoryConfig{
			HistoryCap:    50,
			ContextWindow: 5,
		},
		Dispatch: DispatchConfig{
			BulkConcurrency:       4,
			RecipientPreview:      5,
			GatewayTimeoutSeconds: 10,
		},
		Specialists: DefaultSpecialists,
	}
}

// DefaultModel returns the default completion model for the given provider.
func DefaultModel(provider ProviderType) string {
	return defaultModels[provider]
}
