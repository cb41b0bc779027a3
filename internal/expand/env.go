// Package expand resolves ${env.NAME} references in configuration text.
package expand

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// Env replaces every ${env.NAME} with the value of NAME, or "" when unset.
// A reference without a closing brace, or with a name holding anything but
// letters, digits and underscores, is kept literally.
func Env(text string) string {
	return EnvWith(text, os.Getenv)
}

// EnvWith is Env with a custom lookup.
func EnvWith(text string, lookup func(string) string) string {
	if !strings.Contains(text, envPrefix) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for {
		start := strings.Index(text, envPrefix)
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:start])
		rest := text[start+len(envPrefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(text[start:])
			return b.String()
		}
		name := rest[:end]
		if !validName(name) {
			// rescan after the prefix so a nested reference still resolves
			b.WriteString(envPrefix)
			text = rest
			continue
		}
		b.WriteString(lookup(name))
		text = rest[end+1:]
	}
}

func validName(name string) bool {
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
