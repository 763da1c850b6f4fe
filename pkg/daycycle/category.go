package daycycle

// Category is one of the fixed action types offered to the player each
// day. The set is closed; activation rules differ per category.
type Category string

const (
	// CategoryExploration is active every day.
	CategoryExploration Category = "exploration"
	// CategoryDilemma activates with a configured probability.
	CategoryDilemma Category = "dilemma"
	// CategoryFamilyRequest activates with a configured probability, and
	// only when at least one living survivor is needy.
	CategoryFamilyRequest Category = "family_request"
)

// Categories returns the closed category set in a stable order.
func Categories() []Category {
	return []Category{CategoryExploration, CategoryDilemma, CategoryFamilyRequest}
}

// Valid reports whether c is a member of the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryExploration, CategoryDilemma, CategoryFamilyRequest:
		return true
	}
	return false
}

// DisplayName is the human-readable form used in prompts and the console.
func (c Category) DisplayName() string {
	switch c {
	case CategoryExploration:
		return "Exploration"
	case CategoryDilemma:
		return "Dilemma"
	case CategoryFamilyRequest:
		return "Family Request"
	}
	return string(c)
}
