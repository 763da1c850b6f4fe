package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shelterline/shelter-engine/pkg/daycycle"
	"github.com/shelterline/shelter-engine/pkg/item"
	"github.com/shelterline/shelter-engine/pkg/survivor"
)

// Composer builds the system and user prompt blocks for one submission.
// Composition is pure text construction: same request, same output.
type Composer struct {
	pacing [4]int
}

// NewComposer creates a composer with the default pacing bands
// (day <=5, <=12, <=20, <=27, else final).
func NewComposer() *Composer {
	return &Composer{pacing: [4]int{5, 12, 20, 27}}
}

// WithPacingThresholds overrides the four pacing band boundaries.
// Returns the Composer for chaining.
func (c *Composer) WithPacingThresholds(t1, t2, t3, t4 int) *Composer {
	c.pacing = [4]int{t1, t2, t3, t4}
	return c
}

// Compose implements daycycle.Composer.
func (c *Composer) Compose(req daycycle.ComposeRequest) (string, string, error) {
	if !req.Category.Valid() {
		return "", "", fmt.Errorf("unknown category %q", req.Category)
	}
	return c.systemBlock(req), c.userBlock(req), nil
}

func (c *Composer) systemBlock(req daycycle.ComposeRequest) string {
	var sb strings.Builder

	sb.WriteString(SystemIntro)
	sb.WriteString("\n\n")
	sb.WriteString(c.categoryGuidance(req))
	sb.WriteString("\n\n")
	sb.WriteString(c.pacingDirective(req.Day))
	sb.WriteString("\n\n")

	sb.WriteString("### Family members\n")
	sb.WriteString("The living family members are exactly: ")
	sb.WriteString(strings.Join(aliveNames(req), ", "))
	sb.WriteString(".\nEffect targets MUST be one of these names, spelled exactly, or empty for stockpile effects.\n\n")

	sb.WriteString(effectVocabulary)
	sb.WriteString("\n\n")
	sb.WriteString(responseShape)

	return sb.String()
}

func (c *Composer) userBlock(req daycycle.ComposeRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Day %d.\n\n", req.Day))

	sb.WriteString("### Family condition\n")
	for _, s := range sortedSurvivors(req) {
		sb.WriteString(s.StatLine())
		sb.WriteString("\n")
	}
	sb.WriteString("\n### Shelter stockpiles\n")
	for _, name := range sortedKeys(req.Resources) {
		sb.WriteString(fmt.Sprintf("%s: %d\n", name, req.Resources[name]))
	}

	sb.WriteString("\n### Today's situation\n")
	sb.WriteString(c.challengeText(req))
	sb.WriteString("\n")

	if len(req.Items) > 0 {
		sb.WriteString("\n### Items brought\n")
		sb.WriteString(item.Describe(req.Items))
		sb.WriteString("\nThese items are available and should influence the outcome.\n")
	}

	sb.WriteString("\n### Player's plan\n")
	sb.WriteString(req.PlayerInput)
	sb.WriteString("\n\n")
	sb.WriteString(c.categoryDirective(req.Category))

	return sb.String()
}

func (c *Composer) categoryGuidance(req daycycle.ComposeRequest) string {
	switch req.Category {
	case daycycle.CategoryDilemma:
		return dilemmaGuidance
	case daycycle.CategoryFamilyRequest:
		return fmt.Sprintf(familyGuidance, req.TargetName)
	default:
		return explorationGuidance
	}
}

func (c *Composer) categoryDirective(category daycycle.Category) string {
	switch category {
	case daycycle.CategoryDilemma:
		return dilemmaDirective
	case daycycle.CategoryFamilyRequest:
		return familyDirective
	default:
		return explorationDirective
	}
}

// pacingDirective selects one of the five band texts by day number.
func (c *Composer) pacingDirective(day int) string {
	for i, threshold := range c.pacing {
		if day <= threshold {
			return pacingDirectives[i]
		}
	}
	return pacingDirectives[4]
}

// challengeText renders the drawn challenge, specializing the family
// request wording around its target.
func (c *Composer) challengeText(req daycycle.ComposeRequest) string {
	ch := req.Challenge
	if req.Category == daycycle.CategoryFamilyRequest && req.TargetName != "" {
		return fmt.Sprintf("%s: %s %s", ch.Title, req.TargetName, ch.Description)
	}
	return fmt.Sprintf("%s: %s", ch.Title, ch.Description)
}

func aliveNames(req daycycle.ComposeRequest) []string {
	names := make([]string, 0, len(req.Survivors))
	for _, s := range req.Survivors {
		if s.IsAlive() {
			names = append(names, s.Name)
		}
	}
	sort.Strings(names)
	return names
}

func sortedSurvivors(req daycycle.ComposeRequest) []*survivor.Survivor {
	out := append([]*survivor.Survivor(nil), req.Survivors...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
