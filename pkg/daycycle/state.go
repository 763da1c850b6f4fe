package daycycle

import (
	"github.com/shelterline/shelter-engine/pkg/event"
	"github.com/shelterline/shelter-engine/pkg/item"
	"github.com/shelterline/shelter-engine/pkg/survivor"
)

// Challenge is one prompt seed drawn from the pool for a category.
type Challenge struct {
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// CategoryState is the per-category slice of a day: activation, the
// drawn challenge, and the player's pending input. Input and items stay
// mutable until the category is submitted.
type CategoryState struct {
	Active    bool        `json:"active"`
	Challenge Challenge   `json:"challenge,omitempty"`
	Input     string      `json:"input,omitempty"`
	Items     []item.Item `json:"items,omitempty"`
	Submitted bool        `json:"submitted"`
}

// DailyActionState is the orchestrator-owned state for one day. It is
// created by PrepareDay, mutated by Save and Submit, and replaced
// wholesale by the next PrepareDay.
type DailyActionState struct {
	Day        int                         `json:"day"`
	Categories map[Category]*CategoryState `json:"categories"`

	// FamilyTarget is resolved once at prepare time and stable for the
	// day. Empty unless CategoryFamilyRequest is active.
	FamilyTarget string `json:"family_target,omitempty"`
}

func newDailyActionState(day int) *DailyActionState {
	cats := make(map[Category]*CategoryState, len(Categories()))
	for _, c := range Categories() {
		cats[c] = &CategoryState{}
	}
	return &DailyActionState{Day: day, Categories: cats}
}

// ActiveCategories returns the categories rolled active for this day,
// in the stable category order.
func (s *DailyActionState) ActiveCategories() []Category {
	var out []Category
	for _, c := range Categories() {
		if s.Categories[c].Active {
			out = append(out, c)
		}
	}
	return out
}

// clone returns a deep copy safe to hand to observers.
func (s *DailyActionState) clone() *DailyActionState {
	if s == nil {
		return nil
	}
	out := &DailyActionState{
		Day:          s.Day,
		FamilyTarget: s.FamilyTarget,
		Categories:   make(map[Category]*CategoryState, len(s.Categories)),
	}
	for c, cs := range s.Categories {
		cp := *cs
		cp.Items = append([]item.Item(nil), cs.Items...)
		out.Categories[c] = &cp
	}
	return out
}

// PlayerActionResult is the immutable outcome of one submitted category:
// either a story event or a terminal error string, never both.
type PlayerActionResult struct {
	Category Category          `json:"category"`
	Input    string            `json:"input"`
	Items    []item.Item       `json:"items,omitempty"`
	Event    *event.StoryEvent `json:"event,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Failed reports whether the submission ended in a terminal error.
func (r *PlayerActionResult) Failed() bool {
	return r.Error != ""
}

// ComposeRequest carries everything the prompt composer needs for one
// submission. It is a pure-data snapshot taken at submit time.
type ComposeRequest struct {
	Category    Category
	Day         int
	Challenge   Challenge
	TargetName  string
	Survivors   []*survivor.Survivor
	Resources   map[string]int
	Items       []item.Item
	PlayerInput string
}
