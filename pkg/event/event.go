package event

import (
	"fmt"

	"github.com/shelterline/shelter-engine/pkg/item"
)

// EffectType is the symbolic vocabulary the generation service is allowed
// to use. Unrecognized types are skipped at interpretation time, so the
// set can grow without breaking older replies.
type EffectType string

const (
	AddHP        EffectType = "AddHP"
	ReduceHP     EffectType = "ReduceHP"
	AddSanity    EffectType = "AddSanity"
	ReduceSanity EffectType = "ReduceSanity"
	AddHunger    EffectType = "AddHunger"
	ReduceHunger EffectType = "ReduceHunger"
	AddThirst    EffectType = "AddThirst"
	ReduceThirst EffectType = "ReduceThirst"

	AddFood        EffectType = "AddFood"
	ReduceFood     EffectType = "ReduceFood"
	AddWater       EffectType = "AddWater"
	ReduceWater    EffectType = "ReduceWater"
	AddSupplies    EffectType = "AddSupplies"
	ReduceSupplies EffectType = "ReduceSupplies"

	InjureCharacter EffectType = "InjureCharacter"
	HealCharacter   EffectType = "HealCharacter"
	KillCharacter   EffectType = "KillCharacter"
	InfectCharacter EffectType = "InfectCharacter"
	CureCharacter   EffectType = "CureCharacter"
)

// Intensity bounds for effects as specified to the generation service.
const (
	IntensityMin = 1
	IntensityMax = 10
)

// Effect is one atomic symbolic state change reported by the generation
// service. An empty Target routes the effect to a shared resource pool.
type Effect struct {
	EffectType EffectType `json:"effectType"`
	Intensity  int        `json:"intensity"`
	Target     string     `json:"target,omitempty"`
}

// ClampIntensity forces the intensity into [IntensityMin, IntensityMax].
// The service occasionally reports 0 or out-of-band values.
func (e *Effect) ClampIntensity() {
	if e.Intensity < IntensityMin {
		e.Intensity = IntensityMin
	}
	if e.Intensity > IntensityMax {
		e.Intensity = IntensityMax
	}
}

// Choice is a player-selectable follow-up. Its effects are not applied
// until the player picks the choice.
type Choice struct {
	Text    string   `json:"text"`
	Effects []Effect `json:"effects"`
}

// StoryEvent is the typed form of a generation-service reply: a narrative
// beat with immediate effects, optional deferred choices, and any items
// the event awarded to the shelter.
type StoryEvent struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Effects     []Effect    `json:"effects"`
	Choices     []Choice    `json:"choices"`
	Items       []item.Item `json:"items,omitempty"`
}

// Validate checks the minimum structure a usable event needs.
// Effects and choices may legally be empty.
func (ev *StoryEvent) Validate() error {
	if ev.Title == "" {
		return fmt.Errorf("event is missing a title")
	}
	if ev.Description == "" {
		return fmt.Errorf("event is missing a description")
	}
	return nil
}
