package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shelterline/shelter-engine/pkg/daycycle"
)

const challengesFile = "challenges.json"

// LoadChallenges reads the challenge set from dataDir/challenges.json.
// A missing file is not an error; the built-in defaults apply.
func LoadChallenges(dataDir string) ([]daycycle.Challenge, error) {
	path := filepath.Join(dataDir, challengesFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read challenges file: %w", err)
	}

	var challenges []daycycle.Challenge
	if err := json.Unmarshal(data, &challenges); err != nil {
		return nil, fmt.Errorf("failed to parse challenges file: %w", err)
	}

	for i, ch := range challenges {
		if !ch.Category.Valid() {
			return nil, fmt.Errorf("challenge %d has unknown category %q", i, ch.Category)
		}
		if ch.Title == "" || ch.Description == "" {
			return nil, fmt.Errorf("challenge %d is missing a title or description", i)
		}
	}
	return challenges, nil
}
