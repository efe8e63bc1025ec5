package services

import (
	"context"
	"fmt"
	"strings"

	"clinic-booking-backend/logging"
	"clinic-booking-backend/models"
	"clinic-booking-backend/utils"
)

// MedicalAnswerer answers free-text medical questions. The production
// implementation is AIService; tests inject fakes.
type MedicalAnswerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// ConversationService is the stage-indexed controller for the booking dialog.
// Given the current per-session state and one inbound message it decides the
// next state, the reply text and the suggested-action buttons.
//
// Message processing order:
//  1. start/end control messages (reset, end is silent)
//  2. greeting and appointment-intent overrides for free text
//  3. the stage switch
//
// Recognized structured commands (return_back, select_*, confirm/cancel,
// medical_inquiry) skip the classifiers entirely so a doctor whose name
// happens to contain a greeting substring ("Dr. Rohan Joshi" contains "hi")
// still books normally.
type ConversationService struct {
	directory *DirectoryService
	medical   MedicalAnswerer
	logger    *logging.Logger
}

func NewConversationService(directory *DirectoryService, medical MedicalAnswerer, logger *logging.Logger) *ConversationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ConversationService{
		directory: directory,
		medical:   medical,
		logger:    logger,
	}
}

// HandleMessage advances the conversation by one turn, mutating state in
// place. It never returns an error: malformed input becomes a re-prompt, and
// an internal fault is recovered into a "Return Back" reply at the main menu.
func (s *ConversationService) HandleMessage(ctx context.Context, state *models.ConversationState, message string) (reply *models.ChatReply) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("chat processing panicked", "panic", r, "stage", state.Stage)
			state.Stage = models.StageMainMenu
			state.IsMedicalInquiry = false
			reply = &models.ChatReply{
				Reply:        "Server error. Please try again.",
				Buttons:      []models.Button{returnBackButton()},
				DisableInput: true,
				HideInput:    true,
			}
		}
		// The stored flag is authoritative for the envelope.
		reply.IsMedicalInquiry = state.IsMedicalInquiry
		if reply.Buttons == nil {
			reply.Buttons = []models.Button{}
		}
	}()

	cmd := models.ParseCommand(message)

	switch cmd.Kind {
	case models.CommandStart:
		state.Reset()
		// proceeds into the stage-0 logic with the fresh state
	case models.CommandEnd:
		state.Reset()
		return &models.ChatReply{Silent: true}
	}

	// Cross-cutting intents apply to free text only; structured commands are
	// handled literally by the stage switch.
	if cmd.Kind == models.CommandNone {
		if utils.IsGreeting(message) {
			return s.handleGreeting(state)
		}
		if utils.IsAppointmentRelated(message) {
			return s.handleAppointmentIntent(state)
		}
	}

	return s.handleStage(ctx, state, message, cmd)
}

// DetectIntent tags a message for transcript logging.
func (s *ConversationService) DetectIntent(message string) models.MessageIntent {
	cmd := models.ParseCommand(message)
	switch cmd.Kind {
	case models.CommandStart, models.CommandEnd, models.CommandReturnBack:
		return models.IntentControl
	case models.CommandSelectSpecialty, models.CommandSelectDoctor,
		models.CommandSelectTimeSlot, models.CommandConfirm, models.CommandCancel:
		return models.IntentAppointment
	case models.CommandMedicalInquiry:
		return models.IntentMedicalQuery
	}
	switch {
	case utils.IsGreeting(message):
		return models.IntentGreeting
	case utils.IsAppointmentRelated(message):
		return models.IntentAppointment
	case utils.IsMedicalRelated(message):
		return models.IntentMedicalQuery
	}
	return models.IntentStageInput
}

// handleGreeting produces a stage-appropriate greeting reply. Captured name
// and email are never touched; stages that show a menu reissue it unchanged.
func (s *ConversationService) handleGreeting(state *models.ConversationState) *models.ChatReply {
	switch state.Stage {
	case models.StageEntry, models.StageWarmup:
		state.Stage = models.StageAskName
		return textReply("Hi there! May I know your name?")
	case models.StageAskName:
		return textReply("Hello! Please provide your name.")
	case models.StageAskEmail:
		return textReply(fmt.Sprintf("Hi %s! Please share your email ID.", state.UserName))
	case models.StageMainMenu:
		return s.mainMenuReply("Greetings! Do you want to book an appointment or ask a medical-related question?")
	case models.StageSpecialty:
		return s.specialtyMenuReply("Hi! Please select a specialty or return back:")
	case models.StageDoctor:
		return s.doctorMenuReply(state, fmt.Sprintf("Hello! Please select a doctor for %s or return back:", state.SelectedSpecialty))
	case models.StageTimeSlot:
		return s.timeSlotMenuReply(state, fmt.Sprintf("Hi! Please select a time slot for %s or return back:", state.DoctorName()))
	case models.StageConfirm:
		return &models.ChatReply{
			Reply:        "Hello! Your appointment is confirmed. To book another or ask a question, please start over.",
			DisableInput: true,
			HideInput:    true,
		}
	case models.StageMedicalQnA:
		state.IsMedicalInquiry = true
		return &models.ChatReply{
			Reply:   "Hello! I'm here to help with your medical questions. Please ask something like 'What causes leg pain?' or select 'Return Back'.",
			Buttons: []models.Button{returnBackButton()},
		}
	}
	return textReply("Hello! How can I assist you today?")
}

// handleAppointmentIntent short-circuits to the furthest stage the captured
// details allow: name, then email, then the specialty menu.
func (s *ConversationService) handleAppointmentIntent(state *models.ConversationState) *models.ChatReply {
	if state.UserName == "" {
		state.Stage = models.StageAskName
		return textReply("May I know your name?")
	}
	if state.UserEmail == "" {
		state.Stage = models.StageAskEmail
		return textReply(fmt.Sprintf("Hi %s! Can you please send your email ID for communication?", state.UserName))
	}
	state.Stage = models.StageSpecialty
	state.IsMedicalInquiry = false
	return s.specialtyMenuReply("Please select a specialty or return back:")
}

func (s *ConversationService) handleStage(ctx context.Context, state *models.ConversationState, message string, cmd models.Command) *models.ChatReply {
	switch state.Stage {
	case models.StageEntry:
		state.Stage = models.StageWarmup
		return textReply("How can I assist you today?")

	case models.StageWarmup:
		state.Stage = models.StageAskName
		return textReply("May I know your name?")

	case models.StageAskName:
		name := strings.TrimSpace(message)
		if len(name) < 2 {
			return textReply("Please provide a valid name.")
		}
		state.UserName = name
		state.Stage = models.StageAskEmail
		return textReply(fmt.Sprintf("Hi %s! Can you please send your email ID for communication?", state.UserName))

	case models.StageAskEmail:
		if !utils.IsValidEmail(message) {
			return textReply("Please enter a valid email address.")
		}
		state.UserEmail = strings.TrimSpace(message)
		state.Stage = models.StageMainMenu
		return s.mainMenuReply("Thanks! Do you want to book an appointment or ask a medical-related question?")

	case models.StageMainMenu:
		return s.handleMainMenu(state, message, cmd)

	case models.StageSpecialty:
		return s.handleSpecialtySelection(state, cmd)

	case models.StageDoctor:
		return s.handleDoctorSelection(state, cmd)

	case models.StageTimeSlot:
		return s.handleTimeSlotSelection(state, cmd)

	case models.StageConfirm:
		return s.handleConfirmation(state, cmd)

	case models.StageMedicalQnA:
		return s.handleMedicalInquiry(ctx, state, message, cmd)

	default:
		// Unreachable stages collapse onto the main menu.
		s.logger.Error("invalid conversation stage", "stage", state.Stage)
		state.Stage = models.StageMainMenu
		state.IsMedicalInquiry = false
		return s.mainMenuReply("Do you want to book an appointment or ask a medical-related question?")
	}
}

func (s *ConversationService) handleMainMenu(state *models.ConversationState, message string, cmd models.Command) *models.ChatReply {
	normalized := utils.NormalizeText(message)
	switch {
	case normalized == "yes" || utils.IsAppointmentRelated(message):
		state.Stage = models.StageSpecialty
		state.IsMedicalInquiry = false
		return s.specialtyMenuReply("Please select a specialty or return back:")

	case normalized == "no":
		return s.mainMenuReply("Okay, if you change your mind, just say 'hello' or 'book appointment'.")

	case cmd.Kind == models.CommandMedicalInquiry || utils.IsMedicalRelated(message):
		state.Stage = models.StageMedicalQnA
		state.IsMedicalInquiry = true
		return &models.ChatReply{
			Reply:   "Please ask your medical-related question:",
			Buttons: []models.Button{returnBackButton()},
		}

	default:
		return s.mainMenuReply("I didn't understand. Do you want to book an appointment or ask a medical-related question?")
	}
}

func (s *ConversationService) handleSpecialtySelection(state *models.ConversationState, cmd models.Command) *models.ChatReply {
	switch cmd.Kind {
	case models.CommandSelectSpecialty:
		specialty, ok := s.directory.MatchSpecialty(cmd.Specialty)
		if !ok {
			return s.specialtyMenuReply("Invalid specialty selected. Please choose from the list or return back:")
		}
		state.SelectedSpecialty = specialty
		if len(s.directory.Doctors(specialty)) == 0 {
			return s.specialtyMenuReply(fmt.Sprintf("No doctors found for %s. Please select another specialty or return back:", specialty))
		}
		state.Stage = models.StageDoctor
		return s.doctorMenuReply(state, fmt.Sprintf("Great! Here are the doctors available for %s:", specialty))

	case models.CommandReturnBack:
		state.Stage = models.StageMainMenu
		return s.mainMenuReply("Do you want to book an appointment or ask a medical-related question?")

	default:
		return s.specialtyMenuReply("Please select a specialty from the list or return back:")
	}
}

func (s *ConversationService) handleDoctorSelection(state *models.ConversationState, cmd models.Command) *models.ChatReply {
	switch cmd.Kind {
	case models.CommandSelectDoctor:
		if state.SelectedSpecialty == "" || len(s.directory.Doctors(state.SelectedSpecialty)) == 0 {
			return &models.ChatReply{
				Reply:        "It seems like the specialty was not properly selected. Please return back and try again.",
				Buttons:      []models.Button{returnBackButton()},
				DisableInput: true,
				HideInput:    true,
			}
		}
		doctor, ok := s.directory.FindDoctor(state.SelectedSpecialty, cmd.Doctor)
		if !ok {
			return s.doctorMenuReply(state, fmt.Sprintf("Doctor %q not found for %s. Please select a doctor from the list or return back:", cmd.Doctor, state.SelectedSpecialty))
		}
		state.SelectedDoctor = doctor
		state.Stage = models.StageTimeSlot
		return s.timeSlotMenuReply(state, fmt.Sprintf("You selected %s. Now, please choose an available time slot:", doctor.Name))

	case models.CommandReturnBack:
		state.Stage = models.StageSpecialty
		return s.specialtyMenuReply("Please select a specialty or return back:")

	default:
		return s.doctorMenuReply(state, "Please select a doctor from the list or return back:")
	}
}

func (s *ConversationService) handleTimeSlotSelection(state *models.ConversationState, cmd models.Command) *models.ChatReply {
	switch cmd.Kind {
	case models.CommandSelectTimeSlot:
		slot, ok := s.directory.MatchTimeSlot(cmd.TimeSlot)
		if !ok {
			return s.timeSlotMenuReply(state, "Invalid time slot selected. Please choose from the list or return back:")
		}
		state.SelectedTimeSlot = slot
		state.Stage = models.StageConfirm
		return s.confirmReply(state, fmt.Sprintf(
			"Okay, you want to book an appointment with %s for %s at %s. Please confirm to finalize.",
			state.DoctorName(), state.SelectedSpecialty, slot,
		))

	case models.CommandReturnBack:
		state.Stage = models.StageDoctor
		return s.doctorMenuReply(state, fmt.Sprintf("Please select a doctor for %s or return back:", state.SelectedSpecialty))

	default:
		return s.timeSlotMenuReply(state, "Please select a time slot or return back:")
	}
}

func (s *ConversationService) handleConfirmation(state *models.ConversationState, cmd models.Command) *models.ChatReply {
	switch cmd.Kind {
	case models.CommandConfirm:
		// The actual notification send happens through the separate booking
		// endpoint; the chat only acknowledges and starts over.
		state.Stage = models.StageEntry
		return &models.ChatReply{
			Reply:        "Booking your appointment...",
			DisableInput: true,
			HideInput:    true,
		}

	case models.CommandCancel:
		state.Stage = models.StageMainMenu
		return s.mainMenuReply("Appointment cancelled. How else can I help?")

	default:
		return s.confirmReply(state, "Please confirm or cancel your appointment.")
	}
}

func (s *ConversationService) handleMedicalInquiry(ctx context.Context, state *models.ConversationState, message string, cmd models.Command) *models.ChatReply {
	if cmd.Kind == models.CommandReturnBack {
		state.Stage = models.StageMainMenu
		state.IsMedicalInquiry = false
		return s.mainMenuReply("Do you want to book an appointment or ask a medical-related question?")
	}

	state.IsMedicalInquiry = true

	if strings.TrimSpace(message) == "" {
		return &models.ChatReply{
			Reply:   "I'm not sure how to respond. Please ask a medical-related question or select 'Return Back'.",
			Buttons: []models.Button{returnBackButton()},
		}
	}

	answer, err := s.medical.Answer(ctx, message)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			s.logger.Error("medical Q&A gateway failed", "error", err)
		}
		answer = MedicalFallbackReply
	}
	return &models.ChatReply{
		Reply:   answer,
		Buttons: []models.Button{returnBackButton()},
	}
}

// Reply builders. Every menu is rebuilt from the directory on each turn so a
// re-shown menu is always identical to the first one.

func textReply(text string) *models.ChatReply {
	return &models.ChatReply{Reply: text}
}

func returnBackButton() models.Button {
	return models.Button{
		Label:   "Return Back",
		Action:  string(models.CommandReturnBack),
		Message: "return_back",
	}
}

func (s *ConversationService) mainMenuReply(text string) *models.ChatReply {
	return &models.ChatReply{
		Reply: text,
		Buttons: []models.Button{
			{Label: "Yes", Action: "answer", Message: "yes"},
			{Label: "No", Action: "answer", Message: "no"},
			{Label: "Ask Medical Related", Action: string(models.CommandMedicalInquiry), Message: "medical_inquiry"},
		},
		HideInput: true,
	}
}

func (s *ConversationService) specialtyMenuReply(text string) *models.ChatReply {
	specialties := s.directory.Specialties()
	buttons := make([]models.Button, 0, len(specialties)+1)
	for _, specialty := range specialties {
		buttons = append(buttons, models.Button{
			Label:   specialty,
			Action:  string(models.CommandSelectSpecialty),
			Message: "select_specialty:" + specialty,
			Payload: map[string]string{"specialty": specialty},
		})
	}
	buttons = append(buttons, returnBackButton())
	return &models.ChatReply{
		Reply:        text,
		Buttons:      buttons,
		DisableInput: true,
		HideInput:    true,
	}
}

func (s *ConversationService) doctorMenuReply(state *models.ConversationState, text string) *models.ChatReply {
	doctors := s.directory.Doctors(state.SelectedSpecialty)
	buttons := make([]models.Button, 0, len(doctors)+1)
	for _, doctor := range doctors {
		buttons = append(buttons, models.Button{
			Label:   doctor.Name,
			Action:  string(models.CommandSelectDoctor),
			Message: fmt.Sprintf("select_doctor:%s:%s", doctor.Name, state.SelectedSpecialty),
			Payload: map[string]string{
				"doctor":    doctor.Name,
				"specialty": state.SelectedSpecialty,
			},
		})
	}
	buttons = append(buttons, returnBackButton())
	return &models.ChatReply{
		Reply:        text,
		Buttons:      buttons,
		DisableInput: true,
		HideInput:    true,
	}
}

func (s *ConversationService) timeSlotMenuReply(state *models.ConversationState, text string) *models.ChatReply {
	slots := s.directory.TimeSlots()
	buttons := make([]models.Button, 0, len(slots)+1)
	for _, slot := range slots {
		buttons = append(buttons, models.Button{
			Label:   slot,
			Action:  string(models.CommandSelectTimeSlot),
			Message: fmt.Sprintf("select_timeslot:%s:%s:%s", slot, state.DoctorName(), state.SelectedSpecialty),
			Payload: map[string]string{
				"timeSlot":  slot,
				"doctor":    state.DoctorName(),
				"specialty": state.SelectedSpecialty,
			},
		})
	}
	buttons = append(buttons, returnBackButton())
	return &models.ChatReply{
		Reply:        text,
		Buttons:      buttons,
		DisableInput: true,
		HideInput:    true,
	}
}

func (s *ConversationService) confirmReply(state *models.ConversationState, text string) *models.ChatReply {
	return &models.ChatReply{
		Reply: text,
		Buttons: []models.Button{
			{
				Label:   "Confirm",
				Action:  string(models.CommandConfirm),
				Message: "confirm_appointment",
				Payload: map[string]string{
					"patientEmail": state.UserEmail,
					"doctorEmail":  state.DoctorEmail(),
					"doctorName":   state.DoctorName(),
					"timeSlot":     state.SelectedTimeSlot,
				},
			},
			{
				Label:   "Cancel",
				Action:  string(models.CommandCancel),
				Message: "cancel_appointment",
			},
		},
		DisableInput: true,
		HideInput:    true,
	}
}
