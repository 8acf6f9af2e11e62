package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSONObject is returned when the text holds no balanced JSON object.
var ErrNoJSONObject = errors.New("no JSON object found")

// ExtractJSONObject returns the first balanced {...} span in text that is
// valid JSON. Braces inside string literals are ignored and escapes are
// honoured, so prose such as "{candidate}" before the object is skipped.
// Markdown fences around the object are skipped naturally since only the
// object itself is returned.
func ExtractJSONObject(text string) (string, error) {
	for start := strings.IndexByte(text, '{'); start != -1; {
		if end, ok := matchObject(text, start); ok && json.Valid([]byte(text[start:end+1])) {
			return text[start : end+1], nil
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next == -1 {
			break
		}
		start += next + 1
	}
	return "", ErrNoJSONObject
}

// matchObject scans from an opening brace and returns the index of the
// closing brace that balances it.
func matchObject(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// decodeAIObject locates the JSON object in a completion reply and decodes it
// into a generic map. Every failure is reported as ErrMalformedAIResponse.
func decodeAIObject(raw string) (map[string]any, error) {
	candidate, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAIResponse, err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(candidate), &data); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal JSON: %v", ErrMalformedAIResponse, err)
	}
	return data, nil
}
