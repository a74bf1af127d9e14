package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaceCategoryForPace(t *testing.T) {
	tests := []struct {
		name string
		pace float64
		want string
	}{
		{"slow pace is beginner", 9.5, PaceBeginner},
		{"exactly eight is beginner", 8.0, PaceBeginner},
		{"just under eight is intermediate", 7.99, PaceIntermediate},
		{"exactly six is intermediate", 6.0, PaceIntermediate},
		{"just under six is advanced", 5.99, PaceAdvanced},
		{"fast pace is advanced", 3.5, PaceAdvanced},
		{"zero is advanced", 0, PaceAdvanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PaceCategoryForPace(tt.pace))
		})
	}
}

func TestRunEvent_RemainingSpots(t *testing.T) {
	t.Run("unlimited event reports unbounded", func(t *testing.T) {
		ev := &RunEvent{CurrentParticipants: 42}
		remaining, bounded := ev.RemainingSpots()
		assert.False(t, bounded)
		assert.Equal(t, 0, remaining)
		assert.True(t, ev.Unlimited())
	})

	t.Run("counts open spots", func(t *testing.T) {
		max := 20
		ev := &RunEvent{MaxParticipants: &max, CurrentParticipants: 15}
		remaining, bounded := ev.RemainingSpots()
		assert.True(t, bounded)
		assert.Equal(t, 5, remaining)
		assert.False(t, ev.Unlimited())
	})

	t.Run("overbooked event clamps at zero", func(t *testing.T) {
		max := 10
		ev := &RunEvent{MaxParticipants: &max, CurrentParticipants: 12}
		remaining, bounded := ev.RemainingSpots()
		assert.True(t, bounded)
		assert.Equal(t, 0, remaining)
	})
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleRunner))
	assert.True(t, IsValidRole(RoleBusiness))
	assert.False(t, IsValidRole("admin"))
	assert.False(t, IsValidRole(""))
}
