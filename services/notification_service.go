package services

import (
	"context"
	"fmt"
	"sync"

	"clinic-booking-backend/logging"
)

// NotificationService sends the booking confirmation emails. The patient and
// the doctor are notified concurrently and the booking only counts as sent
// when both deliveries succeed; a failure of either surfaces as one aggregate
// error and the caller retries the whole booking call.
type NotificationService struct {
	sender EmailSender
	logger *logging.Logger
}

func NewNotificationService(sender EmailSender, logger *logging.Logger) *NotificationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &NotificationService{sender: sender, logger: logger}
}

// SendBookingConfirmation notifies patient and doctor about a confirmed
// appointment. bookingRef ties retries of the same booking together in logs.
func (s *NotificationService) SendBookingConfirmation(ctx context.Context, bookingRef, patientEmail, doctorEmail, doctorName, timeSlot string) error {
	patientMsg := EmailMessage{
		To:      patientEmail,
		Subject: "Appointment Confirmation",
		Body:    fmt.Sprintf("Your appointment with %s at %s has been confirmed.", doctorName, timeSlot),
	}
	doctorMsg := EmailMessage{
		To:      doctorEmail,
		Subject: "New Appointment Booking",
		Body:    fmt.Sprintf("You have a new appointment at %s with patient %s.", timeSlot, patientEmail),
	}

	var wg sync.WaitGroup
	var patientErr, doctorErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		patientErr = s.sender.Send(ctx, patientMsg)
	}()
	go func() {
		defer wg.Done()
		doctorErr = s.sender.Send(ctx, doctorMsg)
	}()
	wg.Wait()

	if patientErr != nil || doctorErr != nil {
		s.logger.Error("booking confirmation failed",
			"booking_ref", bookingRef,
			"patient_error", patientErr,
			"doctor_error", doctorErr,
		)
		if patientErr != nil && doctorErr != nil {
			return fmt.Errorf("both confirmation emails failed: patient: %v; doctor: %v", patientErr, doctorErr)
		}
		if patientErr != nil {
			return fmt.Errorf("patient confirmation email failed: %w", patientErr)
		}
		return fmt.Errorf("doctor confirmation email failed: %w", doctorErr)
	}

	s.logger.Info("booking confirmation sent",
		"booking_ref", bookingRef,
		"doctor", doctorName,
		"time_slot", timeSlot,
	)
	return nil
}
