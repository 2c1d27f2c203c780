package rest

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type Kind uint8

const (
	// KindNetwork means the request never completed
	KindNetwork Kind = iota + 1
	// KindBackend means the backend answered with a non-2xx status
	KindBackend
	// KindDecode means a 2xx response carried a body we could not parse
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindBackend:
		return "backend"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// ErrNotFound matches (errors.Is) any RequestError with status 404
var ErrNotFound = errors.New("not found")

type RequestError struct {
	Op      string
	Method  string
	Path    string
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	sb := strings.Builder{}
	sb.WriteString(e.Op)
	sb.WriteString(" (")
	sb.WriteString(e.Method)
	sb.WriteString(" ")
	sb.WriteString(e.Path)
	sb.WriteString("): ")

	switch e.Kind {
	case KindBackend:
		sb.WriteString(fmt.Sprintf("backend responded %d", e.Status))
		if e.Message != "" {
			sb.WriteString(": ")
			sb.WriteString(e.Message)
		}
	case KindNetwork:
		sb.WriteString("request failed")
	case KindDecode:
		sb.WriteString("invalid response body")
	}

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindBackend && e.Status == http.StatusNotFound
}

// BackendMessage returns the message the backend put into an error response, if err carries one
func BackendMessage(err error) string {
	var re *RequestError
	if errors.As(err, &re) && re.Kind == KindBackend {
		return re.Message
	}

	return ""
}

// extractMessage understands the two error bodies of the catalog backend: {"status", "message",
// "timestamp"} and a flat {"field": "message"} map produced by request validation.
func extractMessage(bs []byte) string {
	if len(bs) == 0 {
		return ""
	}

	var fields map[string]any
	if err := json.Unmarshal(bs, &fields); err != nil || len(fields) == 0 {
		return ""
	}

	if msg, ok := fields["message"]; ok {
		s, _ := msg.(string)
		return s
	}

	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if _, ok := v.(string); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k].(string))
	}

	return strings.Join(parts, ", ")
}
