package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageIntent string

const (
	IntentGreeting      MessageIntent = "greeting"
	IntentAppointment   MessageIntent = "appointment"
	IntentMedicalQuery  MessageIntent = "medical_query"
	IntentControl       MessageIntent = "control"
	IntentStageInput    MessageIntent = "stage_input"
)

// MessageChannel represents the communication channel
type MessageChannel string

const (
	ChannelWeb       MessageChannel = "web"
	ChannelWebSocket MessageChannel = "websocket"
)

// ChatRequest is the body of POST /api/v1/chat and of each websocket frame.
// SessionID is optional; the session cookie middleware supplies one when absent.
type ChatRequest struct {
	Message   string         `json:"message"`
	SessionID string         `json:"session_id,omitempty"`
	Channel   MessageChannel `json:"channel,omitempty"`
}

// ChatReply is the reply envelope returned for every chat turn.
// Field names mirror what the web client renders: reply text, suggested-action
// buttons and the input-box hints.
type ChatReply struct {
	Reply            string   `json:"reply"`
	Buttons          []Button `json:"buttons"`
	DisableInput     bool     `json:"disableInput"`
	HideInput        bool     `json:"hideInput"`
	IsMedicalInquiry bool     `json:"isMedicalInquiry"`
	Silent           bool     `json:"silent,omitempty"`
}

// Button is a suggested action. Message carries the literal chat message the
// client sends back when the button is chosen; Payload repeats the parameters
// as typed fields so clients don't have to parse the command string.
type Button struct {
	Label   string            `json:"label"`
	Action  string            `json:"action"`
	Message string            `json:"message,omitempty"`
	Payload map[string]string `json:"payload,omitempty"`
}

// BookingRequest is the body of POST /api/v1/book-appointment.
type BookingRequest struct {
	PatientEmail string `json:"patientEmail"`
	DoctorEmail  string `json:"doctorEmail"`
	DoctorName   string `json:"doctorName"`
	TimeSlot     string `json:"timeSlot"`
	BookingRef   string `json:"bookingRef,omitempty"`
}

// MissingFields lists the required booking fields that are empty.
func (r BookingRequest) MissingFields() []string {
	var missing []string
	if r.PatientEmail == "" {
		missing = append(missing, "patientEmail")
	}
	if r.DoctorEmail == "" {
		missing = append(missing, "doctorEmail")
	}
	if r.DoctorName == "" {
		missing = append(missing, "doctorName")
	}
	if r.TimeSlot == "" {
		missing = append(missing, "timeSlot")
	}
	return missing
}

// Message is one persisted transcript entry (user message + bot reply).
type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID   string             `bson:"session_id" json:"session_id"`
	UserMessage string             `bson:"user_message" json:"user_message"`
	BotResponse string             `bson:"bot_response" json:"bot_response"`
	Intent      MessageIntent      `bson:"intent" json:"intent"`
	Stage       int                `bson:"stage" json:"stage"`
	Channel     MessageChannel     `bson:"channel,omitempty" json:"channel,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}
