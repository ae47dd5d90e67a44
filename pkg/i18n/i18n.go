// Package i18n provides a small YAML-backed message catalog implementing
// api.Localizer. Bundles are loaded once at startup and read-only after.
package i18n

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/petrijr/convo/pkg/api"
)

// Bundle resolves message keys per locale, falling back to a default
// locale and finally to the key itself, so a missing translation never
// breaks a conversation.
type Bundle struct {
	fallback string
	messages map[string]map[string]string
}

var _ api.Localizer = (*Bundle)(nil)

// NewBundle creates an empty bundle with the given fallback locale.
func NewBundle(fallback string) *Bundle {
	return &Bundle{
		fallback: fallback,
		messages: make(map[string]map[string]string),
	}
}

// Default returns a bundle preloaded with the built-in English messages.
func Default() *Bundle {
	b := NewBundle("en")
	b.Add("en", defaultEnglish)
	return b
}

// Add merges messages into a locale. Later additions win on key clashes.
func (b *Bundle) Add(locale string, messages map[string]string) {
	m := b.messages[locale]
	if m == nil {
		m = make(map[string]string, len(messages))
		b.messages[locale] = m
	}
	for k, v := range messages {
		m[k] = v
	}
}

// LoadFile merges a YAML file of the form:
//
//	en:
//	  rent.title.prompt: "..."
//	de:
//	  rent.title.prompt: "..."
func (b *Bundle) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("i18n: read %s: %w", path, err)
	}
	return b.Load(data)
}

// Load merges YAML-encoded messages, see LoadFile for the format.
func (b *Bundle) Load(data []byte) error {
	var parsed map[string]map[string]string
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("i18n: parse: %w", err)
	}
	for locale, messages := range parsed {
		b.Add(locale, messages)
	}
	return nil
}

// Localize resolves key for locale, formatting args with fmt.Sprintf
// when present. Unknown keys come back as the key itself.
func (b *Bundle) Localize(locale, key string, args ...any) string {
	msg, ok := b.messages[locale][key]
	if !ok {
		msg, ok = b.messages[b.fallback][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
