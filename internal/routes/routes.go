package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-recurrence/internal/audit"
	"github.com/BruksfildServices01/barber-recurrence/internal/config"
	recdomain "github.com/BruksfildServices01/barber-recurrence/internal/domain/recurrence"
	"github.com/BruksfildServices01/barber-recurrence/internal/handlers"
	infraAssigner "github.com/BruksfildServices01/barber-recurrence/internal/infra/assigner"
	infraRepo "github.com/BruksfildServices01/barber-recurrence/internal/infra/repository"
	"github.com/BruksfildServices01/barber-recurrence/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-recurrence/internal/usecase/appointment"
	ucRecurrence "github.com/BruksfildServices01/barber-recurrence/internal/usecase/recurrence"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, log zerolog.Logger) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	recurrenceRepo := infraRepo.NewRecurrenceGormRepository(db)
	barberAssigner := infraAssigner.NewLeastLoaded(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	dayLayoutUC := ucAppointment.NewGetDayLayout(appointmentRepo)

	// ======================================================
	// 🧠 USE CASES — RECORRÊNCIA
	// ======================================================
	guard := recdomain.NewGuard(recurrenceRepo)

	materializeUC := ucRecurrence.NewMaterializeOccurrence(
		recurrenceRepo,
		barberAssigner,
		auditDispatcher,
	)

	runBatchUC := ucRecurrence.NewRunBatch(
		recurrenceRepo,
		guard,
		materializeUC,
		log,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
	)

	calendarHandler := handlers.NewCalendarHandler(db, dayLayoutUC)

	templateHandler := handlers.NewRecurringTemplateHandler(db, auditDispatcher)

	recurrenceHandler := handlers.NewRecurrenceHandler(runBatchUC)

	// ======================================================
	// 🚦 ROTAS
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg))
	{
		api.POST("/appointments", appointmentHandler.Create)
		api.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
		api.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

		api.GET("/calendar/day", calendarHandler.Day)

		api.POST("/recurring-templates", templateHandler.Create)
		api.GET("/recurring-templates", templateHandler.List)
		api.PUT("/recurring-templates/:id", templateHandler.Update)
		api.PATCH("/recurring-templates/:id/active", templateHandler.Toggle)

		api.POST("/recurrence/run", recurrenceHandler.Run)
	}
}
