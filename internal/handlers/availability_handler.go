package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httpresp"
	ucBooking "github.com/balzampsilo-sys/tg-bot-10-02/internal/usecase/booking"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/validators"
)

type AvailabilityHandler struct {
	availability *ucBooking.Availability
}

func NewAvailabilityHandler(availability *ucBooking.Availability) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// DaySlots returns free start times for one date. An optional duration
// query reflects the chosen service length.
func (h *AvailabilityHandler) DaySlots(c *gin.Context) {
	date := c.Query("date")
	if !validators.IsValidDate(date) {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректная дата.")
		return
	}

	duration := 0
	if d := c.Query("duration"); d != "" {
		v, err := strconv.Atoi(d)
		if err != nil || v <= 0 || v > 24*60 {
			httperr.BadRequest(c, httperr.CodeValidation, "Некорректная длительность.")
			return
		}
		duration = v
	}

	slots, err := h.availability.DaySlots(c.Request.Context(), date, duration)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{"date": date, "slots": slots})
}

// Month colors every day of a month for the calendar view.
func (h *AvailabilityHandler) Month(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректный год.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректный месяц.")
		return
	}

	days, err := h.availability.MonthStatuses(c.Request.Context(), year, time.Month(month))
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{"year": year, "month": month, "days": days})
}
