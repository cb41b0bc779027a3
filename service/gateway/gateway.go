// Package gateway is the single outbound path to the workflow engine. It
// attaches the acting identity to every request and turns responses into
// typed results.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/tracing"
)

// Identity headers understood by the engine.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserRoles = "X-User-Roles"
)

// IdentitySource supplies the identity read at call time.
type IdentitySource interface {
	Get() model.Identity
}

// Gateway issues JSON requests against the engine base URL. It holds no
// mutable state: no retries, no caching, and the client's default timeout.
type Gateway struct {
	baseURL  string
	identity IdentitySource
	client   *http.Client
	token    string
}

// New creates a gateway for baseURL reading identity from source.
func New(baseURL string, source IdentitySource, options ...Option) *Gateway {
	ret := &Gateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		identity: source,
		client:   http.DefaultClient,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// BaseURL returns the engine base URL.
func (g *Gateway) BaseURL() string { return g.baseURL }

// Call sends body (JSON encoded when non-nil) and decodes a non-empty success
// response into out. Every failure is returned as *Error.
func (g *Gateway) Call(ctx context.Context, method, path string, body, out interface{}) (err error) {
	ctx, span := tracing.StartSpan(ctx, method+" "+path, tracing.KindClient)
	defer func() { tracing.EndSpan(span, err) }()

	var reader io.Reader
	if body != nil {
		data, mErr := json.Marshal(body)
		if mErr != nil {
			return g.newError(method, path, 0, fmt.Sprintf("failed to encode request: %v", mErr), mErr)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return g.newError(method, path, 0, err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	g.attachIdentity(req, span)
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("gateway: %s %s failed: %v", method, path, err)
		return g.newError(method, path, 0, err.Error(), err)
	}
	defer resp.Body.Close()
	span.SetStatusFromHTTPCode(resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return g.newError(method, path, resp.StatusCode, err.Error(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return g.newError(method, path, resp.StatusCode, failureMessage(resp.StatusCode, data), nil)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return g.newError(method, path, resp.StatusCode, fmt.Sprintf("failed to decode response: %v", err), err)
	}
	return nil
}

func (g *Gateway) attachIdentity(req *http.Request, span *tracing.Span) {
	if g.identity == nil {
		return
	}
	identity := g.identity.Get()
	if identity.UserID != "" {
		req.Header.Set(HeaderUserID, identity.UserID)
		span.WithAttributes(map[string]string{"user.id": identity.UserID})
	}
	if len(identity.Roles) > 0 {
		req.Header.Set(HeaderUserRoles, identity.Roles.Join())
	}
}

func (g *Gateway) newError(method, path string, status int, message string, cause error) *Error {
	return &Error{Method: method, Path: path, Status: status, Message: message, Cause: cause}
}

// failureMessage prefers the engine supplied error field over the status text.
func failureMessage(status int, data []byte) string {
	var body errorBody
	if len(bytes.TrimSpace(data)) > 0 && json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
