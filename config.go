package wfconsole

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/viant/wfconsole/i18n"
	"github.com/viant/wfconsole/internal/expand"
	"github.com/viant/wfconsole/policy"
	"github.com/viant/wfconsole/service/identity"
)

// EnvEngineURL overrides the engine base URL.
const EnvEngineURL = "WFCONSOLE_ENGINE_URL"

// Config is a serialisable console configuration, loadable from YAML or JSON.
type Config struct {
	Engine   EngineConfig      `json:"engine" yaml:"engine"`
	Identity IdentityConfig    `json:"identity" yaml:"identity"`
	Personas identity.Personas `json:"personas,omitempty" yaml:"personas,omitempty"`
	Locale   string            `json:"locale,omitempty" yaml:"locale,omitempty"`
	Tracing  TracingConfig     `json:"tracing" yaml:"tracing"`
	Activity ActivityConfig    `json:"activity" yaml:"activity"`
	Decision *policy.Config    `json:"decision,omitempty" yaml:"decision,omitempty"`
}

// EngineConfig points at the workflow engine.
type EngineConfig struct {
	BaseURL     string        `json:"baseURL" yaml:"baseURL"`
	TokenSecret *SecretConfig `json:"tokenSecret,omitempty" yaml:"tokenSecret,omitempty"`
}

// SecretConfig locates an optionally encrypted secret.
type SecretConfig struct {
	URL string `json:"url" yaml:"url"`
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
}

// IdentityConfig selects the initial persona.
type IdentityConfig struct {
	Persona string `json:"persona" yaml:"persona"`
}

// TracingConfig enables span export.
type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Service string `json:"service,omitempty" yaml:"service,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty"`
}

// ActivityConfig controls activity log fan-out.
type ActivityConfig struct {
	FanOut bool `json:"fanOut" yaml:"fanOut"`
	Buffer int  `json:"buffer,omitempty" yaml:"buffer,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is supplied.
func DefaultConfig() *Config {
	return &Config{
		Engine:   EngineConfig{BaseURL: "http://localhost:8080"},
		Identity: IdentityConfig{Persona: "initiator"},
		Personas: identity.DefaultPersonas(),
		Locale:   i18n.DefaultLocale,
		Tracing:  TracingConfig{Service: "wfconsole", Version: "dev"},
		Activity: ActivityConfig{Buffer: 100},
	}
}

// Validate returns an aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Engine.BaseURL == "" {
		errs = append(errs, fmt.Errorf("engine.baseURL is required"))
	} else if u, err := url.Parse(c.Engine.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("engine.baseURL %q is not an absolute URL", c.Engine.BaseURL))
	}
	if c.Engine.TokenSecret != nil && c.Engine.TokenSecret.URL == "" {
		errs = append(errs, fmt.Errorf("engine.tokenSecret.url is required"))
	}
	if len(c.Personas) == 0 {
		errs = append(errs, fmt.Errorf("personas must not be empty"))
	}
	seen := map[string]bool{}
	for i, persona := range c.Personas {
		if persona == nil || persona.Key == "" || persona.UserID == "" {
			errs = append(errs, fmt.Errorf("personas[%d]: key and userId are required", i))
			continue
		}
		key := strings.ToLower(persona.Key)
		if seen[key] {
			errs = append(errs, fmt.Errorf("personas[%d]: duplicate key %q", i, persona.Key))
		}
		seen[key] = true
	}
	if c.Identity.Persona != "" && len(c.Personas) > 0 && c.Personas.Lookup(c.Identity.Persona) == nil {
		errs = append(errs, fmt.Errorf("identity.persona %q is not defined", c.Identity.Persona))
	}
	if c.Activity.Buffer < 0 {
		errs = append(errs, fmt.Errorf("activity.buffer must be >= 0"))
	}
	if err := c.Decision.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("decision: %w", err))
	}
	return errors.Join(errs...)
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if value := strings.TrimSpace(os.Getenv(EnvEngineURL)); value != "" {
		c.Engine.BaseURL = value
	}
}

// DecodeConfig decodes YAML (or JSON) over the defaults. ${env.NAME}
// references are replaced with environment values first.
func DecodeConfig(data []byte) (*Config, error) {
	ret := DefaultConfig()
	personas := ret.Personas
	ret.Personas = nil
	if err := yaml.Unmarshal([]byte(expand.Env(string(data))), ret); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(ret.Personas) == 0 {
		ret.Personas = personas
	}
	return ret, nil
}

// LoadConfig reads the configuration at URL (file path, file://, mem:// or
// any afs supported scheme), applies env overrides and validates it.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	ret, err := DecodeConfig(data)
	if err != nil {
		return nil, err
	}
	ret.ApplyEnv()
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}
