package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalDetail converts event detail to JSON TEXT for storage.
// Keys come out sorted and HTML escaping is off, so the same detail always
// stores as the same text.
func marshalDetail(detail map[string]any) (string, error) {
	if len(detail) == 0 {
		return "{}", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(detail); err != nil {
		return "", fmt.Errorf("marshal detail: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalDetail parses stored detail JSON. Empty detail decodes to nil.
func unmarshalDetail(data string) (map[string]any, error) {
	if data == "" || data == "{}" {
		return nil, nil
	}
	var detail map[string]any
	if err := json.Unmarshal([]byte(data), &detail); err != nil {
		return nil, fmt.Errorf("unmarshal detail: %w", err)
	}
	if len(detail) == 0 {
		return nil, nil
	}
	return detail, nil
}
