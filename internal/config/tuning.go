package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shelterline/shelter-engine/pkg/event"
)

const tuningFile = "tuning.json"

// fileTuning is the JSON shape of the optional data-dir tuning file.
// Every field is optional; absent fields keep the environment defaults.
type fileTuning struct {
	TotalDays            *int                       `json:"total_days,omitempty"`
	DilemmaChance        *float64                   `json:"dilemma_chance,omitempty"`
	FamilyRequestChance  *float64                   `json:"family_request_chance,omitempty"`
	NeedySanityThreshold *int                       `json:"needy_sanity_threshold,omitempty"`
	RequestTimeoutSec    *int                       `json:"request_timeout_seconds,omitempty"`
	PacingThresholds     *[4]int                    `json:"pacing_thresholds,omitempty"`
	Magnitudes           map[string]json.RawMessage `json:"magnitudes,omitempty"`
}

type magnitudeBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// GameTuning is the fully resolved game-number configuration: the env
// Tuning plus the file-only knobs hidden from environment variables.
type GameTuning struct {
	Tuning
	PacingThresholds [4]int
	Magnitudes       event.MagnitudeTable
}

// defaultPacingThresholds are the day-band boundaries used when no
// tuning file overrides them.
var defaultPacingThresholds = [4]int{5, 12, 20, 27}

// LoadTuning resolves the game tuning: base comes from the environment,
// dataDir/tuning.json overrides field by field when present. A missing
// file is not an error.
func LoadTuning(dataDir string, base Tuning) (GameTuning, error) {
	out := GameTuning{
		Tuning:           base,
		PacingThresholds: defaultPacingThresholds,
	}

	path := filepath.Join(dataDir, tuningFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, fmt.Errorf("failed to read tuning file: %w", err)
	}

	var ft fileTuning
	if err := json.Unmarshal(data, &ft); err != nil {
		return out, fmt.Errorf("failed to parse tuning file: %w", err)
	}

	if ft.TotalDays != nil {
		out.TotalDays = *ft.TotalDays
	}
	if ft.DilemmaChance != nil {
		out.DilemmaChance = *ft.DilemmaChance
	}
	if ft.FamilyRequestChance != nil {
		out.FamilyRequestChance = *ft.FamilyRequestChance
	}
	if ft.NeedySanityThreshold != nil {
		out.NeedySanityThreshold = *ft.NeedySanityThreshold
	}
	if ft.RequestTimeoutSec != nil {
		out.RequestTimeout = time.Duration(*ft.RequestTimeoutSec) * time.Second
	}
	if ft.PacingThresholds != nil {
		out.PacingThresholds = *ft.PacingThresholds
	}

	if len(ft.Magnitudes) > 0 {
		table := event.DefaultMagnitudes()
		for bucket, raw := range ft.Magnitudes {
			var band magnitudeBand
			if err := json.Unmarshal(raw, &band); err != nil {
				return out, fmt.Errorf("failed to parse magnitude band %q: %w", bucket, err)
			}
			if band.Min < 0 || band.Max < band.Min {
				return out, fmt.Errorf("magnitude band %q must satisfy 0 <= min <= max", bucket)
			}
			table[event.Bucket(bucket)] = event.MagnitudeBand{Min: band.Min, Max: band.Max}
		}
		out.Magnitudes = table
	}

	return out, nil
}
