package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httpresp"
	ucFeedback "github.com/balzampsilo-sys/tg-bot-10-02/internal/usecase/feedback"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/validators"
)

type FeedbackHandler struct {
	feedback *ucFeedback.Service
}

func NewFeedbackHandler(feedback *ucFeedback.Service) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

type SaveFeedbackRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	BookingID uint  `json:"booking_id" binding:"required"`
	Rating    int   `json:"rating" binding:"required"`
}

func (h *FeedbackHandler) Save(c *gin.Context) {
	var req SaveFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные данные.")
		return
	}
	if !validators.IsValidRating(req.Rating) {
		httperr.BadRequest(c, httperr.CodeValidation, "Оценка должна быть от 1 до 5.")
		return
	}

	if err := h.feedback.Save(c.Request.Context(), req.UserID, req.BookingID, req.Rating); err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.Created(c, gin.H{"saved": true})
}

func (h *FeedbackHandler) Summary(c *gin.Context) {
	avg, count, err := h.feedback.AverageRating(c.Request.Context())
	if err != nil {
		httperr.Internal(c, httperr.CodeDatabase, "Внутренняя ошибка.")
		return
	}

	httpresp.OK(c, gin.H{"average": avg, "count": count})
}
