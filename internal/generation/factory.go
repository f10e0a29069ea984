package generation

import (
	"fmt"
	"sort"

	"resumeflow/internal/config"
	"resumeflow/internal/port"
)

// ProviderFactory creates a Generator from a provider config.
type ProviderFactory func(cfg *config.GenerationProviderConfig) (port.Generator, error)

// registry of provider factories, populated by init() in each provider package.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewGenerator creates a Generator from a provider config using the registered factory.
func NewGenerator(cfg *config.GenerationProviderConfig) (port.Generator, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown generation provider: %s (registered: %v)", cfg.Provider, registered())
	}
	return factory(cfg)
}

func registered() []string {
	names := make([]string, 0, len(providers))
	for n := range providers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
