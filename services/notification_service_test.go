package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking-backend/logging"
)

type recordingSender struct {
	mu     sync.Mutex
	sent   []EmailMessage
	failTo map[string]error
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failTo[msg.To]; ok {
		return err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) byRecipient() map[string]EmailMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]EmailMessage, len(r.sent))
	for _, msg := range r.sent {
		out[msg.To] = msg
	}
	return out
}

func TestSendBookingConfirmationNotifiesBothParties(t *testing.T) {
	sender := &recordingSender{}
	svc := NewNotificationService(sender, logging.New("error"))

	err := svc.SendBookingConfirmation(context.Background(),
		"ref-1", "john@x.com", "somasekar@example.com", "Dr. Somasekar", "2:00 PM")
	require.NoError(t, err)

	sent := sender.byRecipient()
	require.Len(t, sent, 2)

	patient := sent["john@x.com"]
	assert.Equal(t, "Appointment Confirmation", patient.Subject)
	assert.Equal(t, "Your appointment with Dr. Somasekar at 2:00 PM has been confirmed.", patient.Body)

	doctor := sent["somasekar@example.com"]
	assert.Equal(t, "New Appointment Booking", doctor.Subject)
	assert.Equal(t, "You have a new appointment at 2:00 PM with patient john@x.com.", doctor.Body)
}

func TestSendBookingConfirmationPatientFailure(t *testing.T) {
	sender := &recordingSender{failTo: map[string]error{
		"john@x.com": errors.New("mailbox full"),
	}}
	svc := NewNotificationService(sender, logging.New("error"))

	err := svc.SendBookingConfirmation(context.Background(),
		"ref-2", "john@x.com", "somasekar@example.com", "Dr. Somasekar", "2:00 PM")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "patient confirmation email failed")
	// The doctor send is not withheld by the patient failure.
	assert.Len(t, sender.byRecipient(), 1)
}

func TestSendBookingConfirmationDoctorFailure(t *testing.T) {
	sender := &recordingSender{failTo: map[string]error{
		"somasekar@example.com": errors.New("rejected"),
	}}
	svc := NewNotificationService(sender, logging.New("error"))

	err := svc.SendBookingConfirmation(context.Background(),
		"ref-3", "john@x.com", "somasekar@example.com", "Dr. Somasekar", "2:00 PM")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "doctor confirmation email failed")
}

func TestSendBookingConfirmationBothFail(t *testing.T) {
	sender := &recordingSender{failTo: map[string]error{
		"john@x.com":            errors.New("mailbox full"),
		"somasekar@example.com": errors.New("rejected"),
	}}
	svc := NewNotificationService(sender, logging.New("error"))

	err := svc.SendBookingConfirmation(context.Background(),
		"ref-4", "john@x.com", "somasekar@example.com", "Dr. Somasekar", "2:00 PM")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "both confirmation emails failed")
}
