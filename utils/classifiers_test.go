package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
		{"trims and lowercases", "  Hello World  ", "hello world"},
		{"collapses runs", "book   an\t\tappointment", "book an appointment"},
		{"already normal", "hi", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeTimeSlot(t *testing.T) {
	// Different spacings of the same slot must normalize identically.
	assert.Equal(t, NormalizeTimeSlot("2:00   PM"), NormalizeTimeSlot("2:00PM"))
	assert.Equal(t, NormalizeTimeSlot("2:00 pm"), NormalizeTimeSlot("2:00 PM"))
	assert.Equal(t, "2:00PM", NormalizeTimeSlot("2:00 PM"))
	assert.Equal(t, "10:00AM", NormalizeTimeSlot("  10:00 a.m. "))
	assert.Equal(t, "", NormalizeTimeSlot(""))
	// Noise characters are stripped.
	assert.Equal(t, "3:00PM", NormalizeTimeSlot("[3:00 PM]"))
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"john@x.com", true},
		{"a@b.co", true},
		{"not-an-email", false},
		{"missing@tld", false},
		{"@no.user", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.input))
		})
	}
}

func TestIsGreeting(t *testing.T) {
	assert.True(t, IsGreeting("hi"))
	assert.True(t, IsGreeting("  Good Morning  "))
	assert.True(t, IsGreeting("hello there"))
	assert.False(t, IsGreeting("book appointment"))
	assert.False(t, IsGreeting(""))
}

func TestIsAppointmentRelated(t *testing.T) {
	assert.True(t, IsAppointmentRelated("book appointment"))
	assert.True(t, IsAppointmentRelated("I need to see a doctor please"))
	assert.True(t, IsAppointmentRelated("can I SCHEDULE A VISIT"))
	assert.False(t, IsAppointmentRelated("what causes fever"))
}

func TestIsMedicalRelated(t *testing.T) {
	assert.True(t, IsMedicalRelated("What causes leg pain?"))
	assert.True(t, IsMedicalRelated("is fever dangerous"))
	assert.False(t, IsMedicalRelated("what is the weather like"))
}

func TestIsMedicalRelatedOverMatches(t *testing.T) {
	// Substring containment is the documented behavior: "cold" matches even
	// when the sentence is not about illness. This is intended over-matching,
	// not a defect.
	assert.True(t, IsMedicalRelated("I have a cold"))
	assert.True(t, IsMedicalRelated("it is cold outside"))
}
