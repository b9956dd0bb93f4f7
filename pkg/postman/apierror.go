package postman

import (
	"encoding/json"
	"strings"
)

// APIError is the error information found in a failed response body.
type APIError struct {
	Name    string
	Message string
	// Details are per-field messages from validation failures.
	Details []string
}

// String returns "name: message", or whichever of the two is set.
func (e *APIError) String() string {
	var sb strings.Builder
	sb.WriteString(e.Name)
	if e.Name != "" && e.Message != "" {
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if len(e.Details) > 0 {
		sb.WriteString(" (" + strings.Join(e.Details, "; ") + ")")
	}
	return sb.String()
}

// ParseAPIError extracts error information from a response body. The API
// answers with {"error": {"name": ..., "message": ..., "details": ...}};
// other JSON shapes and plain text are searched for common message fields.
// It returns nil when nothing useful is found.
func ParseAPIError(body string) *APIError {
	e := &APIError{}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(body), &data); err == nil {
		e.fromJSON(data)
	} else {
		e.fromText(body)
	}

	if e.Name == "" && e.Message == "" {
		return nil
	}
	return e
}

func (e *APIError) fromJSON(data map[string]interface{}) {
	for _, field := range []string{"message", "error", "msg", "detail", "error_description"} {
		switch v := data[field].(type) {
		case string:
			if e.Message == "" {
				e.Message = v
			}
		case map[string]interface{}:
			// nested error object
			e.fromJSON(v)
		}
	}

	for _, field := range []string{"name", "type", "code", "error_code"} {
		if s, ok := data[field].(string); ok && e.Name == "" {
			e.Name = s
			break
		}
	}

	switch d := data["details"].(type) {
	case []interface{}:
		for _, item := range d {
			if s, ok := item.(string); ok {
				e.Details = append(e.Details, s)
			}
		}
	case map[string]interface{}:
		for _, field := range []string{"message", "model", "id"} {
			if s, ok := d[field].(string); ok {
				e.Details = append(e.Details, field+"="+s)
			}
		}
	}
}

func (e *APIError) fromText(text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToLower(line), "error") {
			e.Message = line
			return
		}
	}
}
