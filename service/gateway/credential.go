package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/scy"
)

// LoadToken reads a bearer token from a (possibly encrypted) secret resource,
// e.g. file:///home/me/.secret/engine.enc with key blowfish://default.
func LoadToken(ctx context.Context, URL, key string) (string, error) {
	if URL == "" {
		return "", nil
	}
	resource := scy.NewResource(nil, URL, key)
	secret, err := scy.New().Load(ctx, resource)
	if err != nil {
		return "", fmt.Errorf("failed to load engine token from %s: %w", URL, err)
	}
	return strings.TrimSpace(secret.String()), nil
}
