package launcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/viant/wfconsole/model"
)

// Form is the editable start request.
type Form struct {
	ApproverID  string `json:"approverId" yaml:"approverId"`
	ExecutorID  string `json:"executorId" yaml:"executorId"`
	PayloadText string `json:"payload" yaml:"payload"`
}

// DefaultForm returns the form a session starts with.
func DefaultForm() Form {
	return Form{
		ApproverID:  "approver-1",
		ExecutorID:  "executor-1",
		PayloadText: "{\n  \"amount\": 1000,\n  \"title\": \"Sample request\"\n}",
	}
}

// BlankField returns the first required participant left blank.
func (f *Form) BlankField() string {
	switch {
	case strings.TrimSpace(f.ApproverID) == "":
		return "approverId"
	case strings.TrimSpace(f.ExecutorID) == "":
		return "executorId"
	}
	return ""
}

// ParsePayload decodes a JSON object. Blank text is an empty object.
func ParsePayload(text string) (map[string]interface{}, error) {
	if strings.TrimSpace(text) == "" {
		return map[string]interface{}{}, nil
	}
	decoder := json.NewDecoder(bytes.NewReader([]byte(text)))
	decoder.UseNumber()
	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return nil, model.NewParseError(err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected data after payload")
		}
		return nil, model.NewParseError(err)
	}
	payload, ok := value.(map[string]interface{})
	if !ok {
		return nil, model.NewParseError(fmt.Errorf("payload must be a JSON object, got %T", value))
	}
	return payload, nil
}
