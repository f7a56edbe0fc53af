package routerconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader loads and validates a RouterConfig from a YAML file. It follows the
// builder pattern the rest of this codebase uses for collaborator
// construction, even though the only option it currently needs is the file
// path — config data itself is never overridden from the environment (only
// the log output format is, via LOG_FORMAT in cmd/llmrouter, not here).
type Loader struct {
	configPath string
}

// NewLoader creates a Loader with no path set.
func NewLoader() *Loader {
	return &Loader{}
}

// WithConfigPath sets the YAML file to read.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// Load reads the YAML file, parses it, and validates it. A missing file,
// unparsable YAML, or a validation failure are all returned as errors —
// callers are expected to treat any of them as fatal at startup.
func (l *Loader) Load() (RouterConfig, error) {
	if l.configPath == "" {
		return RouterConfig{}, fmt.Errorf("config path is required")
	}

	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return RouterConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg RouterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RouterConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return RouterConfig{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the fields the gateway depends on: every policy needs a
// name, and every LLM needs an api_base, model, and api_key. Policy.URL is
// intentionally not validated here — a policy that's only ever used for
// manual routing has no need of a classifier endpoint.
func Validate(cfg RouterConfig) error {
	for _, p := range cfg.Policies {
		if p.Name == "" {
			return fmt.Errorf("policy missing required field: name")
		}
		for _, l := range p.Llms {
			if l.APIBase == "" {
				return fmt.Errorf("llm %q missing required field: api_base", l.Name)
			}
			if l.Model == "" {
				return fmt.Errorf("llm %q missing required field: model", l.Name)
			}
			if l.APIKey == "" {
				return fmt.Errorf("llm %q missing required field: api_key", l.Name)
			}
		}
	}
	return nil
}
