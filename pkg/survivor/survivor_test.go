package survivor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustHealth_Clamping(t *testing.T) {
	s := New("Mother")
	s.Health = 5

	s.AdjustHealth(-50)
	assert.Equal(t, 0, s.Health, "health must saturate at zero")
	assert.True(t, s.Dead, "zero health is fatal")

	s = New("Father")
	s.AdjustHealth(40)
	assert.Equal(t, 100, s.Health, "health must saturate at 100")
}

func TestAdjustSanity_Saturating(t *testing.T) {
	s := New("Daughter")
	assert.Equal(t, 100, s.Sanity)
	s.AdjustSanity(10)
	assert.Equal(t, 100, s.Sanity)

	s.AdjustSanity(-130)
	assert.Equal(t, 0, s.Sanity)
	assert.True(t, s.IsAlive(), "sanity floor does not kill")
}

func TestIsNeedy(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Survivor)
		needy bool
	}{
		{"healthy", func(s *Survivor) {}, false},
		{"sick", func(s *Survivor) { s.Infect(SeverityMild) }, true},
		{"injured", func(s *Survivor) { s.Injure(SeverityModerate, 10) }, true},
		{"critical", func(s *Survivor) { s.Health = 15 }, true},
		{"low sanity", func(s *Survivor) { s.Sanity = 20 }, true},
		{"sanity at threshold", func(s *Survivor) { s.Sanity = 30 }, false},
		{"dead", func(s *Survivor) { s.Kill() }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("Son")
			tt.setup(s)
			assert.Equal(t, tt.needy, s.IsNeedy(DefaultNeedySanity))
		})
	}
}

func TestInfect_NeverDowngrades(t *testing.T) {
	s := New("Mother")
	s.Infect(SeveritySevere)
	s.Infect(SeverityMild)
	assert.Equal(t, SeveritySevere, s.SicknessSeverity)

	s.Cure()
	assert.False(t, s.Sick)
	assert.Equal(t, SeverityNone, s.SicknessSeverity)
}

func TestHeal_ClearsInjury(t *testing.T) {
	s := New("Father")
	s.Injure(SeveritySevere, 30)
	assert.True(t, s.Injured)
	assert.Equal(t, 70, s.Health)

	s.Heal(20)
	assert.False(t, s.Injured)
	assert.Equal(t, 90, s.Health)
}

func TestKill(t *testing.T) {
	s := New("Son")
	s.Kill()
	assert.False(t, s.IsAlive())
	assert.Equal(t, 0, s.Health)
	assert.False(t, s.IsCritical(), "the dead are not critical")

	// Mutations on the dead are inert.
	s.Injure(SeverityMild, 5)
	s.Infect(SeverityMild)
	assert.False(t, s.Injured)
	assert.False(t, s.Sick)
}

func TestSeverityForIntensity(t *testing.T) {
	assert.Equal(t, SeverityMild, SeverityForIntensity(1))
	assert.Equal(t, SeverityMild, SeverityForIntensity(3))
	assert.Equal(t, SeverityModerate, SeverityForIntensity(4))
	assert.Equal(t, SeverityModerate, SeverityForIntensity(7))
	assert.Equal(t, SeveritySevere, SeverityForIntensity(8))
	assert.Equal(t, SeveritySevere, SeverityForIntensity(10))
}
