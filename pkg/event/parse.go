package event

import (
	"encoding/json"
	"fmt"

	"github.com/shelterline/shelter-engine/pkg/item"
)

// wrapperKeys are object keys the generation service has been observed to
// nest the real payload under when it ignores the bare-JSON instruction.
var wrapperKeys = []string{"event", "story_event", "storyEvent", "result", "response", "data"}

// Parse deserializes extracted JSON into a StoryEvent. It tries the
// payload directly, then falls back to known wrapper keys, then to the
// first element of a top-level array. A payload that never yields an
// event with a title and description is a terminal parse failure.
func Parse(jsonText string) (*StoryEvent, error) {
	if ev, err := parseDirect(jsonText); err == nil {
		return ev, nil
	}

	// Wrapper fallback: {"event": {...}} and friends.
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &wrapper); err == nil {
		for _, key := range wrapperKeys {
			nested, ok := wrapper[key]
			if !ok {
				continue
			}
			if ev, err := parseDirect(string(nested)); err == nil {
				return ev, nil
			}
		}
	}

	// Array fallback: the service sometimes wraps the event in a list.
	var list []json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &list); err == nil && len(list) > 0 {
		if ev, err := parseDirect(string(list[0])); err == nil {
			return ev, nil
		}
	}

	return nil, fmt.Errorf("failed to parse event")
}

// ParseResponse runs extraction and parsing on a raw reply in one step.
func ParseResponse(raw string) (*StoryEvent, error) {
	jsonText, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	return Parse(jsonText)
}

func parseDirect(jsonText string) (*StoryEvent, error) {
	var ev StoryEvent
	if err := json.Unmarshal([]byte(jsonText), &ev); err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	normalize(&ev)
	return &ev, nil
}

// normalize fills absent arrays, clamps intensities, and resolves
// free-form item-type strings to the canonical set.
func normalize(ev *StoryEvent) {
	if ev.Effects == nil {
		ev.Effects = []Effect{}
	}
	if ev.Choices == nil {
		ev.Choices = []Choice{}
	}
	for i := range ev.Effects {
		ev.Effects[i].ClampIntensity()
	}
	for c := range ev.Choices {
		if ev.Choices[c].Effects == nil {
			ev.Choices[c].Effects = []Effect{}
		}
		for i := range ev.Choices[c].Effects {
			ev.Choices[c].Effects[i].ClampIntensity()
		}
	}
	for i := range ev.Items {
		ev.Items[i].Type = item.NormalizeType(string(ev.Items[i].Type))
	}
}
