package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/history"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httpresp"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/middleware"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/scheduler"
	ucAdmin "github.com/balzampsilo-sys/tg-bot-10-02/internal/usecase/admin"
	ucBooking "github.com/balzampsilo-sys/tg-bot-10-02/internal/usecase/booking"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	admins       *ucAdmin.Service
	blockUC      *ucBooking.BlockSlot
	cancelUC     *ucBooking.CancelBooking
	availability *ucBooking.Availability
	history      *history.Recorder
	jobs         *scheduler.Scheduler
}

func NewAdminHandler(
	admins *ucAdmin.Service,
	blockUC *ucBooking.BlockSlot,
	cancelUC *ucBooking.CancelBooking,
	availability *ucBooking.Availability,
	historyRec *history.Recorder,
	jobs *scheduler.Scheduler,
) *AdminHandler {
	return &AdminHandler{
		admins:       admins,
		blockUC:      blockUC,
		cancelUC:     cancelUC,
		availability: availability,
		history:      historyRec,
		jobs:         jobs,
	}
}

// ======================================================
// AUTH
// ======================================================

type LoginRequest struct {
	UserID   int64  `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные данные.")
		return
	}

	token, err := h.admins.Login(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{"token": token})
}

// ======================================================
// SLOT BLOCKING
// ======================================================

type BlockSlotRequest struct {
	Date   string `json:"date" binding:"required"`
	Time   string `json:"time" binding:"required"`
	Reason string `json:"reason"`
}

func (h *AdminHandler) BlockSlot(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(int64)

	var req BlockSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные данные.")
		return
	}
	if !validators.IsValidSlot(req.Date, req.Time) {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные дата или время.")
		return
	}

	displaced, err := h.blockUC.Execute(c.Request.Context(), req.Date, req.Time, adminID, req.Reason)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"blocked":   req.Date + " " + req.Time,
		"displaced": displaced,
	})
}

func (h *AdminHandler) UnblockSlot(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(int64)

	date := c.Query("date")
	timeStr := c.Query("time")
	if !validators.IsValidSlot(date, timeStr) {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные дата или время.")
		return
	}

	if err := h.blockUC.Unblock(c.Request.Context(), date, timeStr, adminID); err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{"unblocked": date + " " + timeStr})
}

func (h *AdminHandler) ListBlocks(c *gin.Context) {
	blocks, err := h.availability.Blocks(c.Request.Context())
	if err != nil {
		writeBusiness(c, err)
		return
	}
	httpresp.List(c, blocks)
}

// ======================================================
// FORCED CANCELLATION
// ======================================================

type ForceCancelRequest struct {
	Date   string `json:"date" binding:"required"`
	Time   string `json:"time" binding:"required"`
	UserID int64  `json:"user_id" binding:"required"`
}

// ForceCancel bypasses the self-service window.
func (h *AdminHandler) ForceCancel(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextAdminID).(int64)

	var req ForceCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные данные.")
		return
	}
	if !validators.IsValidSlot(req.Date, req.Time) {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные дата или время.")
		return
	}

	id, err := h.cancelUC.Execute(c.Request.Context(), req.Date, req.Time, req.UserID, &adminID)
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{"booking_id": id, "cancelled": true})
}

// ======================================================
// HISTORY
// ======================================================

func (h *AdminHandler) BookingHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректный id.")
		return
	}

	entries, err := h.history.ListByBooking(c.Request.Context(), uint(id))
	if err != nil {
		httperr.Internal(c, httperr.CodeDatabase, "Внутренняя ошибка.")
		return
	}
	httpresp.List(c, entries)
}

func (h *AdminHandler) UserHistory(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректный id.")
		return
	}

	limit := 50
	if l := c.Query("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v <= 0 || v > 500 {
			httperr.BadRequest(c, httperr.CodeValidation, "Некорректный limit.")
			return
		}
		limit = v
	}

	entries, err := h.history.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		httperr.Internal(c, httperr.CodeDatabase, "Внутренняя ошибка.")
		return
	}
	httpresp.List(c, entries)
}

// ======================================================
// HOUSEKEEPING
// ======================================================

// RunHousekeeping triggers the sweep that otherwise runs nightly.
func (h *AdminHandler) RunHousekeeping(c *gin.Context) {
	role, _ := c.Get(middleware.ContextAdminRole)
	if r, ok := role.(string); !ok || !ucAdmin.HasPermission(r, ucAdmin.PermRunHousekeeping) {
		httperr.Forbidden(c, httperr.CodeForbidden, "Недостаточно прав.")
		return
	}

	if err := h.jobs.RunHousekeeping(c.Request.Context()); err != nil {
		httperr.Internal(c, httperr.CodeDatabase, "Внутренняя ошибка.")
		return
	}
	httpresp.OK(c, gin.H{"enqueued": true})
}

// ======================================================
// ROSTER
// ======================================================

type AddAdminRequest struct {
	UserID   int64  `json:"user_id" binding:"required"`
	Username string `json:"username"`
	Role     string `json:"role" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) AddAdmin(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextAdminID).(int64)

	var req AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректные данные.")
		return
	}

	a, err := h.admins.Add(c.Request.Context(), ucAdmin.AddInput{
		ActorID:  actorID,
		UserID:   req.UserID,
		Username: req.Username,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.Created(c, a)
}

func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextAdminID).(int64)

	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidation, "Некорректный id.")
		return
	}

	if err := h.admins.Remove(c.Request.Context(), actorID, targetID); err != nil {
		writeBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{"removed": targetID})
}

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		writeBusiness(c, err)
		return
	}
	httpresp.List(c, admins)
}
