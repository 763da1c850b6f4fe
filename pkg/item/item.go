package item

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Type is the closed set of item categories a player can reference in a
// submission. The generation service reports item types as free text, so
// NormalizeType maps its output back into this set.
type Type string

const (
	TypeFood   Type = "Food"
	TypeWater  Type = "Water"
	TypeMeds   Type = "Meds"
	TypeTools  Type = "Tools"
	TypeWeapon Type = "Weapon"
	TypeJunk   Type = "Junk"
)

// Item is a player-held object referenced in a submission. Items influence
// the generated outcome but are not consumed by the engine itself.
type Item struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// typeAliases maps loosely-reported type strings (already title-cased)
// to canonical types.
var typeAliases = map[string]Type{
	"Food":      TypeFood,
	"Water":     TypeWater,
	"Drink":     TypeWater,
	"Meds":      TypeMeds,
	"Med":       TypeMeds,
	"Medicine":  TypeMeds,
	"Medkit":    TypeMeds,
	"Tools":     TypeTools,
	"Tool":      TypeTools,
	"Weapon":    TypeWeapon,
	"Weapons":   TypeWeapon,
	"Junk":      TypeJunk,
	"Misc":      TypeJunk,
	"Valuables": TypeJunk,
}

var titleCaser = cases.Title(language.English)

// NormalizeType resolves a free-form type string to a canonical Type.
// Unrecognized or empty input falls back to TypeJunk.
func NormalizeType(raw string) Type {
	key := titleCaser.String(strings.TrimSpace(raw))
	if t, ok := typeAliases[key]; ok {
		return t
	}
	return TypeJunk
}

// Describe renders an item list for prompt composition.
func Describe(items []Item) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.Name + " (" + string(it.Type) + ")"
	}
	return strings.Join(parts, ", ")
}
