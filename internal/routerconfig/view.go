package routerconfig

import "strings"

// View is the read-only accessor the rest of the gateway holds onto. It
// exposes no setters and every method returns a value. A returned Policy is
// a shallow copy: its Llms slice shares the backing array held by the View,
// so a write through it is visible to every other caller.
type View struct {
	cfg RouterConfig
}

// NewView wraps a loaded RouterConfig.
func NewView(cfg RouterConfig) *View {
	return &View{cfg: cfg}
}

// PolicyByName looks up a policy, trimming both the stored name and the
// lookup key before comparing. LLMIndexByName below deliberately does NOT
// trim — see DESIGN.md for why the two lookups are intentionally
// inconsistent.
func (v *View) PolicyByName(name string) (Policy, bool) {
	target := strings.TrimSpace(name)
	for _, p := range v.cfg.Policies {
		if strings.TrimSpace(p.Name) == target {
			return p, true
		}
	}
	return Policy{}, false
}

// PolicyByIndex returns the policy at index, if any.
func (v *View) PolicyByIndex(index int) (Policy, bool) {
	if index < 0 || index >= len(v.cfg.Policies) {
		return Policy{}, false
	}
	return v.cfg.Policies[index], true
}

// LLMIndexByName returns the index of the LLM within policy whose name
// equals name exactly (no trimming). Manual routing selects a model this
// way.
func LLMIndexByName(policy Policy, name string) (int, bool) {
	for i, l := range policy.Llms {
		if l.Name == name {
			return i, true
		}
	}
	return 0, false
}

// LLMByIndex returns the LLM at index within policy.
func LLMByIndex(policy Policy, index int) (Llm, bool) {
	if index < 0 || index >= len(policy.Llms) {
		return Llm{}, false
	}
	return policy.Llms[index], true
}

// Sanitized returns the redacted config for the /config endpoint.
func (v *View) Sanitized() RouterConfig {
	return v.cfg.Sanitized()
}
