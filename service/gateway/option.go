package gateway

import "net/http"

// Option configures a Gateway.
type Option func(g *Gateway)

// WithHTTPClient overrides the HTTP client (http.DefaultClient by default).
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		if client != nil {
			g.client = client
		}
	}
}

// WithToken sets a bearer token attached to every request.
func WithToken(token string) Option {
	return func(g *Gateway) { g.token = token }
}
