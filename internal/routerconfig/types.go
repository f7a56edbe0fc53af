// Package routerconfig is the gateway's read-only view over the policy
// catalog: the set of routing policies and the LLMs each one can dispatch
// to, loaded once at startup and never mutated.
package routerconfig

// Llm is one upstream model reachable through a policy.
type Llm struct {
	Name    string `yaml:"name" json:"name"`
	APIBase string `yaml:"api_base" json:"api_base"`
	APIKey  string `yaml:"api_key" json:"api_key"`
	Model   string `yaml:"model" json:"model"`
}

// Policy groups a Triton classifier endpoint with the LLMs it chooses among.
type Policy struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
	Llms []Llm  `yaml:"llms" json:"llms"`
}

// RouterConfig is the whole policy catalog, as loaded from YAML.
type RouterConfig struct {
	Policies []Policy `yaml:"policies" json:"policies"`
}

// Sanitized returns a deep copy with every APIKey replaced, safe to expose
// over /config.
func (c RouterConfig) Sanitized() RouterConfig {
	policies := make([]Policy, len(c.Policies))
	for i, p := range c.Policies {
		llms := make([]Llm, len(p.Llms))
		for j, l := range p.Llms {
			l.APIKey = "[REDACTED]"
			llms[j] = l
		}
		p.Llms = llms
		policies[i] = p
	}
	return RouterConfig{Policies: policies}
}
