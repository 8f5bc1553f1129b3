package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowsOverlap(t *testing.T) {
	tests := []struct {
		name       string
		s1, e1     string
		overnight1 bool
		s2, e2     string
		overnight2 bool
		want       bool
	}{
		{"disjoint day windows", "11:00", "14:00", false, "17:00", "22:00", false, false},
		{"touching edges", "11:00", "14:00", false, "14:00", "17:00", false, false},
		{"nested", "11:00", "22:00", false, "12:00", "13:00", false, true},
		{"overnight tail hits early slot", "22:00", "02:00", true, "01:00", "03:00", false, true},
		{"overnight clear of lunch", "22:00", "02:00", true, "11:00", "14:00", false, false},
		{"early slot hits overnight tail", "00:30", "01:30", false, "23:00", "01:00", true, true},
		{"two overnights", "22:00", "02:00", true, "23:30", "04:00", true, true},
		{"overnight ends as next starts", "22:00", "02:00", true, "02:00", "06:00", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowsOverlap(tt.s1, tt.e1, tt.overnight1, tt.s2, tt.e2, tt.overnight2))
			assert.Equal(t, tt.want, WindowsOverlap(tt.s2, tt.e2, tt.overnight2, tt.s1, tt.e1, tt.overnight1), "symmetric")
		})
	}
}

func TestClockMinutes(t *testing.T) {
	assert.Equal(t, 0, ClockMinutes("00:00"))
	assert.Equal(t, 22*60+15, ClockMinutes("22:15"))
	assert.Equal(t, 0, ClockMinutes("bad"))
}
