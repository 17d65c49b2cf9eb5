package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedResponse is returned when the model reply is not the JSON
// document the prompt asks for.
var ErrMalformedResponse = errors.New("malformed extraction response")

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// cleanMarkdownWrapper returns the body of the first fenced code block in
// content, or content itself when there is none.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if m := fencePattern.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return content
}

// parseTransactions decodes a reply of the form {"transactions": [...]}.
// A bare array is accepted too. Entries that are not objects are dropped;
// a reply without a transactions key means nothing was found.
func parseTransactions(content string) ([]map[string]any, error) {
	items, err := decodeItems(content)
	if err != nil {
		cleaned := cleanMarkdownWrapper(content)
		if cleaned == strings.TrimSpace(content) {
			return nil, err
		}
		if items, err = decodeItems(cleaned); err != nil {
			return nil, err
		}
	}

	objects := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	return objects, nil
}

func decodeItems(content string) ([]any, error) {
	var payload any
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	switch v := payload.(type) {
	case []any:
		return v, nil
	case map[string]any:
		raw, ok := v["transactions"]
		if !ok || raw == nil {
			return nil, nil
		}
		items, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: transactions is %T, not a list", ErrMalformedResponse, raw)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %T", ErrMalformedResponse, payload)
	}
}
