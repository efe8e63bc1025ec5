package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking-backend/logging"
	"clinic-booking-backend/models"
	"clinic-booking-backend/services"
)

type stubSender struct {
	mu   sync.Mutex
	err  error
	sent int
}

func (s *stubSender) Send(context.Context, services.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent++
	return s.err
}

func (s *stubSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

func newBookingTestRouter(t *testing.T, sender services.EmailSender) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.New("error")
	notifications := services.NewNotificationService(sender, logger)
	controller := NewBookingController(notifications, logger)

	router := gin.New()
	router.POST("/api/v1/book-appointment", controller.HandleBooking)
	return router
}

func postBooking(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/book-appointment", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validBooking() models.BookingRequest {
	return models.BookingRequest{
		PatientEmail: "john@x.com",
		DoctorEmail:  "somasekar@example.com",
		DoctorName:   "Dr. Somasekar",
		TimeSlot:     "2:00 PM",
	}
}

func TestHandleBookingSuccess(t *testing.T) {
	sender := &stubSender{}
	router := newBookingTestRouter(t, sender)

	w := postBooking(t, router, validBooking())
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success    bool   `json:"success"`
		Message    string `json:"message"`
		BookingRef string `json:"bookingRef"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Appointment booked successfully", body.Message)
	assert.NotEmpty(t, body.BookingRef, "a booking reference is generated when the client sends none")
	assert.Equal(t, 2, sender.sentCount())
}

func TestHandleBookingEchoesClientBookingRef(t *testing.T) {
	router := newBookingTestRouter(t, &stubSender{})

	booking := validBooking()
	booking.BookingRef = "ref-42"
	w := postBooking(t, router, booking)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		BookingRef string `json:"bookingRef"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ref-42", body.BookingRef)
}

func TestHandleBookingMissingFields(t *testing.T) {
	router := newBookingTestRouter(t, &stubSender{})

	booking := validBooking()
	booking.PatientEmail = ""
	booking.TimeSlot = ""
	w := postBooking(t, router, booking)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Missing required fields", body.Error)
	assert.ElementsMatch(t, []string{"patientEmail", "timeSlot"}, body.Fields)
}

func TestHandleBookingMalformedBody(t *testing.T) {
	router := newBookingTestRouter(t, &stubSender{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/book-appointment", bytes.NewReader([]byte("{oops")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request format")
}

func TestHandleBookingSenderFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("smtp down")}
	router := newBookingTestRouter(t, sender)

	w := postBooking(t, router, validBooking())

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Failed to send confirmation emails", body.Error)
}
