package event

import (
	"fmt"
	"strings"
)

// ErrNoJSON is returned when no JSON-shaped payload can be located in a
// generation-service reply. This is terminal for the submission.
var ErrNoJSON = fmt.Errorf("no JSON found in response")

// ExtractJSON pulls a JSON payload out of arbitrary reply text. The
// service is instructed to answer with bare JSON, but in practice replies
// arrive wrapped in prose or markdown fences. Strategies, first match wins:
//
//  1. a triple-backtick fenced block, optionally tagged "json"
//  2. the substring from the first '{' to the last '}'
//  3. the substring from the first '[' to the last ']'
func ExtractJSON(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("empty response")
	}

	if inner, ok := extractFenced(raw); ok {
		return inner, nil
	}
	if inner, ok := extractDelimited(raw, '{', '}'); ok {
		return inner, nil
	}
	if inner, ok := extractDelimited(raw, '[', ']'); ok {
		return inner, nil
	}
	return "", ErrNoJSON
}

func extractFenced(raw string) (string, bool) {
	start := strings.Index(raw, "```")
	if start < 0 {
		return "", false
	}
	rest := raw[start+3:]
	// Skip an optional language tag on the fence line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		tag := strings.TrimSpace(rest[:nl])
		if tag == "" || strings.EqualFold(tag, "json") {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	inner := strings.TrimSpace(rest[:end])
	if inner == "" {
		return "", false
	}
	return inner, true
}

func extractDelimited(raw string, open, close byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start < 0 || end <= start {
		return "", false
	}
	return strings.TrimSpace(raw[start : end+1]), true
}
