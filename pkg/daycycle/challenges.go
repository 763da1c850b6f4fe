package daycycle

import "math/rand/v2"

// ChallengePool holds the challenge seeds available per category and
// tracks which have been drawn this run. Draws avoid repeats until a
// category's pool is exhausted, then the category's used set resets.
type ChallengePool struct {
	byCategory map[Category][]Challenge
	used       map[string]bool
}

// NewChallengePool builds a pool from the given challenges. Passing nil
// or an empty slice yields the built-in defaults.
func NewChallengePool(challenges []Challenge) *ChallengePool {
	if len(challenges) == 0 {
		challenges = DefaultChallenges()
	}
	p := &ChallengePool{
		byCategory: make(map[Category][]Challenge),
		used:       make(map[string]bool),
	}
	for _, ch := range challenges {
		p.byCategory[ch.Category] = append(p.byCategory[ch.Category], ch)
	}
	return p
}

// Draw picks a random unused challenge for the category. When every
// challenge has been used the pool resets for that category.
func (p *ChallengePool) Draw(category Category, rng *rand.Rand) Challenge {
	all := p.byCategory[category]
	if len(all) == 0 {
		return Challenge{Category: category}
	}

	fresh := make([]Challenge, 0, len(all))
	for _, ch := range all {
		if !p.used[challengeKey(ch)] {
			fresh = append(fresh, ch)
		}
	}
	if len(fresh) == 0 {
		for _, ch := range all {
			delete(p.used, challengeKey(ch))
		}
		fresh = all
	}

	picked := fresh[rng.IntN(len(fresh))]
	p.used[challengeKey(picked)] = true
	return picked
}

func challengeKey(ch Challenge) string {
	return string(ch.Category) + "/" + ch.Title
}

// DefaultChallenges is the built-in challenge set. Deployments can
// replace it with a JSON file in the data directory.
func DefaultChallenges() []Challenge {
	return []Challenge{
		{CategoryExploration, "The Flooded Metro", "The metro tunnels below the shelter flooded last night. Something metallic glints under the dark water."},
		{CategoryExploration, "The Pharmacy District", "The old pharmacy district is four blocks out, past a collapsed overpass crawling with loose rubble."},
		{CategoryExploration, "Rooftop Gardens", "A ruined apartment block is rumored to have rooftop planters that survived the bombardment."},
		{CategoryExploration, "The Silent Supermarket", "The supermarket on Krantz street has been picked over twice, but its basement loading dock stayed sealed."},
		{CategoryExploration, "Rail Yard Salvage", "Derailed freight cars sit in the rail yard. Some are still sealed; some are clearly already opened."},

		{CategoryDilemma, "The Stranger at the Door", "A gaunt stranger knocks after curfew, begging shelter for the night. He carries a sealed crate he refuses to open."},
		{CategoryDilemma, "The Neighbors' Offer", "The fortified cellar across the street offers to trade clean water for medicine. They will not say who is sick."},
		{CategoryDilemma, "Smoke on the Horizon", "A signal fire burns two streets over. It could be survivors calling for help, or a lure."},
		{CategoryDilemma, "The Ration Ledger", "The ration count is short again. Someone in the shelter has been taking more than their share."},

		{CategoryFamilyRequest, "A Small Comfort", "asks quietly for one small comfort from the world before the war."},
		{CategoryFamilyRequest, "Restless Night", "has stopped sleeping, and wants someone to sit up through the night with them."},
		{CategoryFamilyRequest, "The Old Photograph", "keeps staring at a water-stained photograph and finally asks for help framing it."},
		{CategoryFamilyRequest, "A Proper Meal", "begs for one real cooked meal instead of cold rations."},
	}
}
