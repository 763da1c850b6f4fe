package survivor

import "fmt"

// Stat bounds for all four meters. Every mutation saturates at these.
const (
	StatMin = 0
	StatMax = 100
)

// CriticalThreshold is the health level at or below which a living
// survivor counts as critical.
const CriticalThreshold = 20

// DefaultNeedySanity is the sanity level below which a survivor counts
// as needy even when otherwise healthy. Tunable via config.
const DefaultNeedySanity = 30

// Severity grades a sickness or injury.
type Severity string

const (
	SeverityNone     Severity = ""
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// SeverityForIntensity buckets a generation-service intensity (1-10)
// into a severity grade: 1-3 mild, 4-7 moderate, 8-10 severe.
func SeverityForIntensity(intensity int) Severity {
	switch {
	case intensity <= 3:
		return SeverityMild
	case intensity <= 7:
		return SeverityModerate
	default:
		return SeveritySevere
	}
}

// Survivor is one member of the shelter. All four meters live in
// [StatMin, StatMax]; the flag fields track non-numeric conditions.
type Survivor struct {
	Name   string `json:"name"`
	Health int    `json:"health"`
	Hunger int    `json:"hunger"`
	Thirst int    `json:"thirst"`
	Sanity int    `json:"sanity"`

	Sick             bool     `json:"sick,omitempty"`
	SicknessSeverity Severity `json:"sickness_severity,omitempty"`
	Injured          bool     `json:"injured,omitempty"`
	InjurySeverity   Severity `json:"injury_severity,omitempty"`
	Dead             bool     `json:"dead,omitempty"`
}

// New creates a survivor with full meters.
func New(name string) *Survivor {
	return &Survivor{
		Name:   name,
		Health: StatMax,
		Hunger: StatMax,
		Thirst: StatMax,
		Sanity: StatMax,
	}
}

func clamp(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

// IsAlive reports whether the survivor is still alive. Health reaching
// zero is fatal regardless of the Dead flag.
func (s *Survivor) IsAlive() bool {
	return !s.Dead && s.Health > StatMin
}

// IsCritical reports whether a living survivor is at dangerously low health.
func (s *Survivor) IsCritical() bool {
	return s.IsAlive() && s.Health <= CriticalThreshold
}

// IsSick reports an active sickness.
func (s *Survivor) IsSick() bool {
	return s.IsAlive() && s.Sick
}

// IsInjured reports an active injury.
func (s *Survivor) IsInjured() bool {
	return s.IsAlive() && s.Injured
}

// IsNeedy reports whether the survivor qualifies for a family request:
// sick, injured, critical, or sanity below the given threshold.
func (s *Survivor) IsNeedy(sanityThreshold int) bool {
	if !s.IsAlive() {
		return false
	}
	return s.Sick || s.Injured || s.IsCritical() || s.Sanity < sanityThreshold
}

// AdjustHealth adds delta to health, saturating at the stat bounds.
// Health hitting zero marks the survivor dead.
func (s *Survivor) AdjustHealth(delta int) {
	s.Health = clamp(s.Health + delta)
	if s.Health == StatMin {
		s.Dead = true
	}
}

// AdjustHunger adds delta to hunger, saturating at the stat bounds.
func (s *Survivor) AdjustHunger(delta int) {
	s.Hunger = clamp(s.Hunger + delta)
}

// AdjustThirst adds delta to thirst, saturating at the stat bounds.
func (s *Survivor) AdjustThirst(delta int) {
	s.Thirst = clamp(s.Thirst + delta)
}

// AdjustSanity adds delta to sanity, saturating at the stat bounds.
func (s *Survivor) AdjustSanity(delta int) {
	s.Sanity = clamp(s.Sanity + delta)
}

// Injure marks the survivor injured at the given severity and costs
// health proportional to the numeric magnitude supplied by the caller.
func (s *Survivor) Injure(severity Severity, healthLoss int) {
	if !s.IsAlive() {
		return
	}
	s.Injured = true
	s.InjurySeverity = severity
	if healthLoss > 0 {
		s.AdjustHealth(-healthLoss)
	}
}

// Heal clears any injury and restores health by the given amount.
func (s *Survivor) Heal(healthGain int) {
	if !s.IsAlive() {
		return
	}
	s.Injured = false
	s.InjurySeverity = SeverityNone
	if healthGain > 0 {
		s.AdjustHealth(healthGain)
	}
}

// Kill marks the survivor dead and zeroes health.
func (s *Survivor) Kill() {
	s.Dead = true
	s.Health = StatMin
}

// Infect marks the survivor sick at the given severity. A re-infection
// only upgrades severity, never downgrades it.
func (s *Survivor) Infect(severity Severity) {
	if !s.IsAlive() {
		return
	}
	if s.Sick && severityRank(severity) <= severityRank(s.SicknessSeverity) {
		return
	}
	s.Sick = true
	s.SicknessSeverity = severity
}

// Cure clears any sickness.
func (s *Survivor) Cure() {
	s.Sick = false
	s.SicknessSeverity = SeverityNone
}

func severityRank(sev Severity) int {
	switch sev {
	case SeverityMild:
		return 1
	case SeverityModerate:
		return 2
	case SeveritySevere:
		return 3
	default:
		return 0
	}
}

// StatLine renders the survivor's meters for prompt snapshots and logs.
func (s *Survivor) StatLine() string {
	line := fmt.Sprintf("%s: health %d, hunger %d, thirst %d, sanity %d",
		s.Name, s.Health, s.Hunger, s.Thirst, s.Sanity)
	if s.Dead {
		return s.Name + ": dead"
	}
	if s.Sick {
		line += fmt.Sprintf(", sick (%s)", s.SicknessSeverity)
	}
	if s.Injured {
		line += fmt.Sprintf(", injured (%s)", s.InjurySeverity)
	}
	return line
}
