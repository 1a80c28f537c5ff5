package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/audit"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/config"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/db"
	domainBooking "github.com/balzampsilo-sys/tg-bot-10-02/internal/domain/booking"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/handlers"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/history"
	infraRepo "github.com/balzampsilo-sys/tg-bot-10-02/internal/infra/repository"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/middleware"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/ratelimit"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/scheduler"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/timezone"
	ucAdmin "github.com/balzampsilo-sys/tg-bot-10-02/internal/usecase/admin"
	ucBooking "github.com/balzampsilo-sys/tg-bot-10-02/internal/usecase/booking"
	ucFeedback "github.com/balzampsilo-sys/tg-bot-10-02/internal/usecase/feedback"
)

type Deps struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Logger    *zap.Logger
	Redis     *redis.Client
	Scheduler *scheduler.Scheduler
	History   *history.Recorder
	Audit     *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, deps Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(deps.DB)
	adminRepo := infraRepo.NewAdminGormRepository(deps.DB)

	loc := timezone.Location(deps.Cfg.Timezone)
	workHours := domainBooking.NewWorkHours(deps.Cfg.WorkHoursStart, deps.Cfg.WorkHoursEnd)
	retry := db.PolicyFromConfig(deps.Cfg)

	adminAddLimiter := ratelimit.New(
		deps.Redis,
		deps.Cfg.MaxAdminAdditionsPerHour,
		time.Hour,
		"rl",
	)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createUC := ucBooking.NewCreateBooking(
		bookingRepo,
		deps.Scheduler,
		deps.History,
		deps.Audit,
		deps.Logger,
		workHours,
		deps.Cfg.MaxBookingsPerUser,
		retry,
		loc,
	)

	cancelUC := ucBooking.NewCancelBooking(
		bookingRepo,
		deps.Scheduler,
		deps.History,
		deps.Audit,
		deps.Logger,
		deps.Cfg.CancellationHours,
		retry,
		loc,
	)

	rescheduleUC := ucBooking.NewRescheduleBooking(
		bookingRepo,
		deps.Scheduler,
		deps.History,
		deps.Audit,
		deps.Logger,
		workHours,
		retry,
		loc,
	)

	blockUC := ucBooking.NewBlockSlot(
		bookingRepo,
		deps.Scheduler,
		deps.History,
		deps.Audit,
		deps.Logger,
		retry,
		loc,
	)

	availabilityUC := ucBooking.NewAvailability(
		bookingRepo,
		deps.Logger,
		workHours,
		loc,
	)

	// ======================================================
	// USE CASES — ADMIN / FEEDBACK
	// ======================================================
	adminService := ucAdmin.NewService(
		adminRepo,
		adminAddLimiter,
		deps.Audit,
		deps.Logger,
		deps.Cfg.JWTSecret,
	)

	feedbackService := ucFeedback.NewService(deps.DB, deps.Audit, deps.Logger)

	// ======================================================
	// HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(createUC, cancelUC, rescheduleUC, availabilityUC)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityUC)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	adminHandler := handlers.NewAdminHandler(adminService, blockUC, cancelUC, availabilityUC, deps.History, deps.Scheduler)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// BOOKINGS (trusted bot backend)
		// ------------------------------
		api.POST("/bookings", bookingHandler.Create)
		api.POST("/bookings/cancel", bookingHandler.Cancel)
		api.POST("/bookings/reschedule", bookingHandler.Reschedule)
		api.GET("/bookings", bookingHandler.ListMine)

		api.GET("/availability/day", availabilityHandler.DaySlots)
		api.GET("/availability/month", availabilityHandler.Month)

		api.POST("/feedback", feedbackHandler.Save)
		api.GET("/feedback/summary", feedbackHandler.Summary)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/admin/login", adminHandler.Login)

		// ------------------------------
		// ADMIN (JWT)
		// ------------------------------
		secured := api.Group("/admin")
		secured.Use(middleware.AuthMiddleware(deps.Cfg))
		{
			secured.POST("/blocks", adminHandler.BlockSlot)
			secured.DELETE("/blocks", adminHandler.UnblockSlot)
			secured.GET("/blocks", adminHandler.ListBlocks)

			secured.POST("/bookings/cancel", adminHandler.ForceCancel)

			secured.GET("/history/bookings/:id", adminHandler.BookingHistory)
			secured.GET("/history/users/:id", adminHandler.UserHistory)

			secured.POST("/housekeeping", adminHandler.RunHousekeeping)

			roster := secured.Group("/admins")
			roster.GET("", adminHandler.ListAdmins)
			roster.Use(middleware.RequireSuperAdmin())
			{
				roster.POST("", adminHandler.AddAdmin)
				roster.DELETE("/:id", adminHandler.RemoveAdmin)
			}
		}
	}
}
