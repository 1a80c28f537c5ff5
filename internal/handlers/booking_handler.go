package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httpresp"
	ucBooking "github.com/balzampsilo-sys/tg-bot-10-02/internal/usecase/booking"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

// BookingHandler fronts the bot backend: the caller is a trusted process
// that passes the end user's id explicitly.
type BookingHandler struct {
	createUC     *ucBooking.CreateBooking
	cancelUC     *ucBooking.CancelBooking
	rescheduleUC *ucBooking.RescheduleBooking
	availability *ucBooking.Availability
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	cancelUC *ucBooking.CancelBooking,
	rescheduleUC *ucBooking.RescheduleBooking,
	availability *ucBooking.Availability,
) *BookingHandler {
	return &BookingHandler{
		createUC:     createUC,
		cancelUC:     cancelUC,
		rescheduleUC: rescheduleUC,
		availability: availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	UserID    int64  `json:"user_id" binding:"required"`
	Username  string `json:"username"`
	ServiceID *uint  `json:"service_id"`
}

type CancelBookingRequest struct {
	Date   string `json:"date" binding:"required"`
	Time   string `json:"time" binding:"required"`
	UserID int64  `json:"user_id" binding:"required"`
}

type RescheduleBookingRequest struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	UserID    int64  `json:"user_id" binding:"required"`
	NewDate   string `json:"new_date" binding:"required"`
	NewTime   string `json:"new_time" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные данные.")
		return
	}
	if !validators.IsValidSlot(req.Date, req.Time) {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные дата или время.")
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateInput{
		Date:      req.Date,
		Time:      req.Time,
		UserID:    req.UserID,
		Username:  req.Username,
		ServiceID: req.ServiceID,
	})
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные данные.")
		return
	}
	if !validators.IsValidSlot(req.Date, req.Time) {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные дата или время.")
		return
	}

	ok, hoursLeft, err := h.cancelUC.CanCancel(req.Date, req.Time)
	if err != nil {
		writeBusiness(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{
			"error_code": "CANCELLATION_WINDOW_CLOSED",
			"message":    "Отмена невозможна: до записи осталось слишком мало времени.",
			"hours_left": math.Round(hoursLeft*10) / 10,
		})
		return
	}

	id, err := h.cancelUC.Execute(c.Request.Context(), req.Date, req.Time, req.UserID, nil)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{"booking_id": id, "cancelled": true})
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *BookingHandler) Reschedule(c *gin.Context) {
	var req RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные данные.")
		return
	}
	if !validators.IsValidSlot(req.NewDate, req.NewTime) {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные дата или время.")
		return
	}

	b, err := h.rescheduleUC.Execute(c.Request.Context(), ucBooking.RescheduleInput{
		BookingID: req.BookingID,
		UserID:    req.UserID,
		NewDate:   req.NewDate,
		NewTime:   req.NewTime,
	})
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// LIST MINE
// ======================================================

func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректный user_id.")
		return
	}

	bookings, err := h.availability.UserBookings(c.Request.Context(), userID)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.List(c, bookings)
}
