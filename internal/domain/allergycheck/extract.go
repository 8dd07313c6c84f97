package allergycheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// errNoStructuredPayload signals that a generation response carried no JSON
// document at all.
var errNoStructuredPayload = errors.New("no structured payload in generation output")

// extractStructured isolates the JSON document inside a chat response. The
// model is told to answer with pure JSON but routinely wraps it in code
// fences or commentary, so the payload is taken between the first structural
// opener and the last matching closer.
func extractStructured(raw string) ([]byte, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return nil, errNoStructuredPayload
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return nil, errNoStructuredPayload
	}
	return []byte(s[start : end+1]), nil
}

// parseStructured extracts the payload and decodes it into out, folding every
// failure mode into a single error kind so callers can apply one uniform
// fallback policy.
func parseStructured(raw string, out any) error {
	payload, err := extractStructured(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode structured payload: %w", err)
	}
	return nil
}
