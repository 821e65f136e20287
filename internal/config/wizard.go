package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to pulsedesk! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider (none = deterministic templates only)",
		Items: []string{"openai", "anthropic", "ollama", "none"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.Model = DefaultModel(cfg.Provider)

	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" {
		fmt.Printf("Remember to export %s before starting the server.\n\n", envVar)
	}

	// 2. HTTP port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port selection: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (SQLite database)",
		Default: cfg.DataDir,
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	cfg.DataDir = dataDir

	// 4. Gateway endpoints (optional; empty leaves dispatch in report-only mode).
	telPrompt := promptui.Prompt{
		Label:   "Telephony gateway base URL (empty to skip)",
		Default: "",
	}
	if telURL, err := telPrompt.Run(); err == nil && telURL != "" {
		cfg.Telephony.BaseURL = telURL
	}

	msgPrompt := promptui.Prompt{
		Label:   "Messaging gateway base URL (empty to skip)",
		Default: "",
	}
	if msgURL, err := msgPrompt.Run(); err == nil && msgURL != "" {
		cfg.Messaging.BaseURL = msgURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)

	return cfg, nil
}
