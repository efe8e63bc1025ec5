package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommandControlTokens(t *testing.T) {
	tests := []struct {
		input string
		want  CommandKind
	}{
		{"start", CommandStart},
		{"end", CommandEnd},
		{"return_back", CommandReturnBack},
		{"  Return_Back  ", CommandReturnBack},
		{"confirm_appointment", CommandConfirm},
		{"cancel_appointment", CommandCancel},
		{"medical_inquiry", CommandMedicalInquiry},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := ParseCommand(tt.input)
			assert.Equal(t, tt.want, cmd.Kind)
		})
	}
}

func TestParseCommandFreeText(t *testing.T) {
	for _, input := range []string{"", "hello", "book appointment", "What causes leg pain?"} {
		cmd := ParseCommand(input)
		assert.Equal(t, CommandNone, cmd.Kind, "input %q", input)
	}
}

func TestParseCommandSelectSpecialty(t *testing.T) {
	cmd := ParseCommand("select_specialty:Cardiology")
	assert.Equal(t, CommandSelectSpecialty, cmd.Kind)
	assert.Equal(t, "Cardiology", cmd.Specialty)
}

func TestParseCommandSelectDoctor(t *testing.T) {
	cmd := ParseCommand("select_doctor:Dr. Anjali Sharma:Neurology")
	assert.Equal(t, CommandSelectDoctor, cmd.Kind)
	assert.Equal(t, "Dr. Anjali Sharma", cmd.Doctor)
	assert.Equal(t, "Neurology", cmd.Specialty)
}

func TestParseCommandSelectTimeSlot(t *testing.T) {
	// The slot itself contains a colon; the last two fields are doctor and
	// specialty, everything before them is the slot.
	cmd := ParseCommand("select_timeslot:10:00 AM:Dr. Somasekar:Cardiology")
	assert.Equal(t, CommandSelectTimeSlot, cmd.Kind)
	assert.Equal(t, "10:00 AM", cmd.TimeSlot)
	assert.Equal(t, "Dr. Somasekar", cmd.Doctor)
	assert.Equal(t, "Cardiology", cmd.Specialty)
}

func TestParseCommandIsControl(t *testing.T) {
	assert.True(t, ParseCommand("start").IsControl())
	assert.True(t, ParseCommand("end").IsControl())
	assert.True(t, ParseCommand("return_back").IsControl())
	assert.False(t, ParseCommand("confirm_appointment").IsControl())
	assert.False(t, ParseCommand("hello").IsControl())
}
