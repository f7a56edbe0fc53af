package routerconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func sampleConfig() RouterConfig {
	return RouterConfig{Policies: []Policy{
		{
			Name: "default",
			URL:  "http://classifier",
			Llms: []Llm{
				{Name: "fast", APIBase: "https://fast.example", APIKey: "k1", Model: "fast-v1"},
				{Name: "slow", APIBase: "https://slow.example", APIKey: "k2", Model: "slow-v1"},
			},
		},
		{Name: "  spaced  ", URL: "http://classifier2"},
	}}
}

func TestPolicyByNameTrimsBothSides(t *testing.T) {
	v := NewView(sampleConfig())

	p, ok := v.PolicyByName("default")
	assert.True(t, ok)
	assert.Equal(t, "default", p.Name)

	p, ok = v.PolicyByName("  default  ")
	assert.True(t, ok)
	assert.Equal(t, "default", p.Name)

	p, ok = v.PolicyByName("spaced")
	assert.True(t, ok)
	assert.Equal(t, "  spaced  ", p.Name)

	_, ok = v.PolicyByName("missing")
	assert.False(t, ok)
}

func TestLLMIndexByNameIsExact(t *testing.T) {
	p := sampleConfig().Policies[0]

	idx, ok := LLMIndexByName(p, "fast")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	// No trimming: padded input does not match "fast".
	_, ok = LLMIndexByName(p, " fast ")
	assert.False(t, ok)
}

func TestSanitizedRedactsAPIKeys(t *testing.T) {
	cfg := sampleConfig()
	v := NewView(cfg)
	s := v.Sanitized()
	for _, p := range s.Policies {
		for _, l := range p.Llms {
			assert.Equal(t, "[REDACTED]", l.APIKey)
		}
	}
	// Original is untouched.
	assert.Equal(t, "k1", cfg.Policies[0].Llms[0].APIKey)
}

// PolicyByName always finds a policy by its own stored name, whatever
// spaces surround it, and returns that policy with its name unchanged.
func TestPolicyByNameProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[a-zA-Z0-9 ]{0,20}`).Draw(t, "name")
		cfg := RouterConfig{Policies: []Policy{{Name: name}}}
		v := NewView(cfg)

		p, ok := v.PolicyByName(name)
		assert.True(t, ok)
		assert.Equal(t, name, p.Name)
	})
}
