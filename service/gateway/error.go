package gateway

import (
	"fmt"

	"github.com/viant/wfconsole/model"
)

// Error is returned for any failed round trip. Status is zero when the
// request never produced an HTTP response.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrorKind implements model.Kinded.
func (e *Error) ErrorKind() model.Kind { return model.KindGateway }

// Detail returns a diagnostic description including the request line.
func (e *Error) Detail() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// errorBody is the engine's failure envelope.
type errorBody struct {
	Error string `json:"error"`
}
