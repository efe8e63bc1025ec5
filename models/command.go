package models

import "strings"

// CommandKind tags the structured chat commands a client can send. Everything
// that is not a command is free text and goes through the classifiers.
type CommandKind string

const (
	CommandNone           CommandKind = ""
	CommandStart          CommandKind = "start"
	CommandEnd            CommandKind = "end"
	CommandReturnBack     CommandKind = "return_back"
	CommandSelectSpecialty CommandKind = "select_specialty"
	CommandSelectDoctor   CommandKind = "select_doctor"
	CommandSelectTimeSlot CommandKind = "select_timeslot"
	CommandConfirm        CommandKind = "confirm_appointment"
	CommandCancel         CommandKind = "cancel_appointment"
	CommandMedicalInquiry CommandKind = "medical_inquiry"
)

// Command is a chat command decoded at the transport boundary. The selection
// commands carry their colon-delimited parameters as typed fields.
type Command struct {
	Kind      CommandKind
	Specialty string
	Doctor    string
	TimeSlot  string
}

// IsControl reports whether the command bypasses intent classification.
func (c Command) IsControl() bool {
	return c.Kind == CommandStart || c.Kind == CommandEnd || c.Kind == CommandReturnBack
}

// ParseCommand decodes a raw chat message into a Command. Time slots contain
// colons ("10:00 AM"), so select_timeslot is split from the right: the last
// field is the specialty, the one before it the doctor, and everything left
// is the slot.
func ParseCommand(message string) Command {
	switch normalizeToken(message) {
	case "start":
		return Command{Kind: CommandStart}
	case "end":
		return Command{Kind: CommandEnd}
	case "return_back":
		return Command{Kind: CommandReturnBack}
	case "confirm_appointment":
		return Command{Kind: CommandConfirm}
	case "cancel_appointment":
		return Command{Kind: CommandCancel}
	case "medical_inquiry":
		return Command{Kind: CommandMedicalInquiry}
	}

	msg := strings.TrimSpace(message)
	switch {
	case strings.HasPrefix(msg, "select_specialty:"):
		return Command{
			Kind:      CommandSelectSpecialty,
			Specialty: strings.TrimSpace(strings.TrimPrefix(msg, "select_specialty:")),
		}
	case strings.HasPrefix(msg, "select_doctor:"):
		rest := strings.TrimPrefix(msg, "select_doctor:")
		doctor, specialty := splitLast(rest)
		return Command{
			Kind:      CommandSelectDoctor,
			Doctor:    strings.TrimSpace(doctor),
			Specialty: strings.TrimSpace(specialty),
		}
	case strings.HasPrefix(msg, "select_timeslot:"):
		rest := strings.TrimPrefix(msg, "select_timeslot:")
		head, specialty := splitLast(rest)
		slot, doctor := splitLast(head)
		return Command{
			Kind:      CommandSelectTimeSlot,
			TimeSlot:  strings.TrimSpace(slot),
			Doctor:    strings.TrimSpace(doctor),
			Specialty: strings.TrimSpace(specialty),
		}
	}

	return Command{Kind: CommandNone}
}

// splitLast splits s at its final colon. When s has no colon the whole string
// is returned as head and the tail is empty.
func splitLast(s string) (head, tail string) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+1:]
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
