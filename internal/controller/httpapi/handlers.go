package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fitbook/booking/internal/model"
	"github.com/fitbook/booking/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type handler struct {
	bookings *service.BookingService
	logger   *zap.Logger
}

type createBookingRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	Client    struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
		Phone string `json:"phone"`
		Notes string `json:"notes"`
	} `json:"client" binding:"required"`
}

type bookingResponse struct {
	Reference string    `json:"reference"`
	TrainerID int64     `json:"trainer_id"`
	OfferID   int64     `json:"offer_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	Client    struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"client"`
}

func (h *handler) listDates(c *gin.Context) {
	trainerID, offerID, ok := pathIDs(c)
	if !ok {
		return
	}

	dates, err := h.bookings.ListAvailableDates(c.Request.Context(), trainerID, offerID)
	if err != nil {
		h.fail(c, err)
		return
	}

	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format("2006-01-02"))
	}
	c.JSON(http.StatusOK, gin.H{"dates": formatted})
}

func (h *handler) listSlots(c *gin.Context) {
	trainerID, offerID, ok := pathIDs(c)
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required (YYYY-MM-DD)"})
		return
	}

	slots, err := h.bookings.ListAvailableSlots(c.Request.Context(), trainerID, offerID, date)
	if err != nil {
		h.fail(c, err)
		return
	}

	// на границе наружу моменты всегда уходят в UTC
	formatted := make([]string, 0, len(slots))
	for _, s := range slots {
		formatted = append(formatted, s.UTC().Format(time.RFC3339))
	}
	c.JSON(http.StatusOK, gin.H{"slots": formatted})
}

func (h *handler) createBooking(c *gin.Context) {
	trainerID, offerID, ok := pathIDs(c)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), trainerID, offerID, req.StartTime, service.ClientInfo{
		Name:  req.Client.Name,
		Email: req.Client.Email,
		Phone: req.Client.Phone,
		Notes: req.Client.Notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

// cancelBooking отменяет бронирование по коду подтверждения из письма клиента
func (h *handler) cancelBooking(c *gin.Context) {
	reference, err := uuid.Parse(c.Param("reference"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reference"})
		return
	}

	booking, err := h.bookings.CancelBooking(c.Request.Context(), reference)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func pathIDs(c *gin.Context) (trainerID, offerID int64, ok bool) {
	trainerID, err := strconv.ParseInt(c.Param("trainerID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trainer id"})
		return 0, 0, false
	}
	offerID, err = strconv.ParseInt(c.Param("offerID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return 0, 0, false
	}
	return trainerID, offerID, true
}

// fail переводит ошибки сервиса в HTTP-статусы.
// ErrSlotUnavailable - ожидаемый исход гонки, клиенту предлагается выбрать
// другое время; остальные ошибки хранилища - "попробуйте ещё раз".
func (h *handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTrainerNotFound), errors.Is(err, service.ErrOfferNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrSlotUnavailable):
		c.JSON(http.StatusConflict, gin.H{"error": "slot_unavailable"})
	case errors.Is(err, service.ErrBookingNotCancellable):
		c.JSON(http.StatusConflict, gin.H{"error": "booking_not_cancellable"})
	case errors.Is(err, service.ErrClientCreation):
		h.logger.Error("Client creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "client_creation_failed"})
	case errors.Is(err, service.ErrBookingCreation):
		h.logger.Error("Booking creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "booking_creation_failed"})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func toBookingResponse(booking *model.Booking) bookingResponse {
	resp := bookingResponse{
		Reference: booking.Reference.String(),
		TrainerID: booking.TrainerID,
		OfferID:   booking.OfferID,
		StartTime: booking.StartTime.UTC(),
		EndTime:   booking.EndTime.UTC(),
		Status:    string(booking.Status),
	}
	if booking.Client != nil {
		resp.Client.Name = booking.Client.Name
		resp.Client.Email = booking.Client.Email
	}
	return resp
}
