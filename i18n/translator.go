// Package i18n renders user facing strings from a message catalog.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

//go:embed catalog/*.yaml
var catalogFS embed.FS

// Params are named substitutions, referenced as {{name}} in messages.
type Params map[string]string

// Translator resolves a message key with params. Unknown keys render as the key.
type Translator func(key string, params Params) string

// Catalog maps message keys to templates.
type Catalog map[string]string

// Translate renders key with params.
func (c Catalog) Translate(key string, params Params) string {
	text, ok := c[key]
	if !ok {
		text = key
	}
	return Interpolate(text, params)
}

// Translator returns the catalog as a Translator.
func (c Catalog) Translator() Translator {
	return c.Translate
}

// Interpolate replaces {{name}} placeholders with params values.
// Placeholders without a value are left as they are.
func Interpolate(text string, params Params) string {
	if len(params) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	pairs := make([]string, 0, 2*len(params))
	for name, value := range params {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// DecodeCatalog parses a flat YAML key/value document.
func DecodeCatalog(data []byte) (Catalog, error) {
	ret := Catalog{}
	if err := yaml.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return ret, nil
}

// LoadCatalog loads an embedded catalog for locale.
func LoadCatalog(locale string) (Catalog, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	data, err := catalogFS.ReadFile("catalog/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unsupported locale %q: %w", locale, err)
	}
	return DecodeCatalog(data)
}

// New returns a translator for locale.
func New(locale string) (Translator, error) {
	catalog, err := LoadCatalog(locale)
	if err != nil {
		return nil, err
	}
	return catalog.Translator(), nil
}

// Default returns the English translator. It panics only if the embedded
// catalog is corrupt, which the tests guard.
func Default() Translator {
	translator, err := New(DefaultLocale)
	if err != nil {
		panic(err)
	}
	return translator
}
