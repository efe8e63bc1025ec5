package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clinic-booking-backend/logging"
	"clinic-booking-backend/models"
	"clinic-booking-backend/services"
)

type BookingController struct {
	notifications *services.NotificationService
	logger        *logging.Logger
}

func NewBookingController(notifications *services.NotificationService, logger *logging.Logger) *BookingController {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingController{
		notifications: notifications,
		logger:        logger,
	}
}

// HandleBooking performs the booking commit: both confirmation emails are
// sent and the booking only succeeds when both go through. The chat flow has
// already collected and confirmed the details; this endpoint is the separate
// side-effecting call the client issues afterwards, retryable with the same
// bookingRef.
func (bc *BookingController) HandleBooking(c *gin.Context) {
	var req models.BookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		bc.logger.Warn("booking request missing fields", "fields", missing)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Missing required fields",
			"fields": missing,
		})
		return
	}

	bookingRef := req.BookingRef
	if bookingRef == "" {
		bookingRef = uuid.NewString()
	}

	err := bc.notifications.SendBookingConfirmation(
		c.Request.Context(),
		bookingRef,
		req.PatientEmail,
		req.DoctorEmail,
		req.DoctorName,
		req.TimeSlot,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send confirmation emails",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Appointment booked successfully",
		"bookingRef": bookingRef,
	})
}
