package models

// Conversation stages. The dialog is linear; the stage is the only determinant
// of how free text is interpreted once the cross-cutting intent checks pass.
const (
	StageEntry      = 0 // nothing said yet
	StageWarmup     = 1 // greeted, about to ask for the name
	StageAskName    = 2 // collecting the patient's name
	StageAskEmail   = 3 // collecting the patient's email
	StageMainMenu   = 4 // book appointment / medical question / neither
	StageSpecialty  = 5 // choosing a specialty
	StageDoctor     = 6 // choosing a doctor within the specialty
	StageTimeSlot   = 7 // choosing a time slot
	StageConfirm    = 8 // confirm or cancel the pending booking
	StageMedicalQnA = 9 // free-form medical Q&A
)

// Doctor is one entry of the clinic directory.
type Doctor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ConversationState is the per-session dialog state. Name and email are set
// once validated and survive greetings, menu navigation and return_back; only
// Reset (the start/end control messages or session expiry) clears them.
type ConversationState struct {
	Stage             int     `json:"stage"`
	UserName          string  `json:"user_name,omitempty"`
	UserEmail         string  `json:"user_email,omitempty"`
	SelectedSpecialty string  `json:"selected_specialty,omitempty"`
	SelectedDoctor    *Doctor `json:"selected_doctor,omitempty"`
	SelectedTimeSlot  string  `json:"selected_time_slot,omitempty"`
	IsMedicalInquiry  bool    `json:"is_medical_inquiry"`
}

// NewConversationState returns a fresh state at the entry stage.
func NewConversationState() *ConversationState {
	return &ConversationState{Stage: StageEntry}
}

// Reset restores the initial values in place.
func (s *ConversationState) Reset() {
	*s = ConversationState{Stage: StageEntry}
}

// DoctorName returns the selected doctor's name, or "" when none is selected.
func (s *ConversationState) DoctorName() string {
	if s.SelectedDoctor == nil {
		return ""
	}
	return s.SelectedDoctor.Name
}

// DoctorEmail returns the selected doctor's contact address, or "".
func (s *ConversationState) DoctorEmail() string {
	if s.SelectedDoctor == nil {
		return ""
	}
	return s.SelectedDoctor.Email
}
