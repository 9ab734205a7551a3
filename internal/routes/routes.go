package routes

import (
	"medbook-server/internal/config"
	"medbook-server/internal/handlers"
	"medbook-server/internal/middleware"
	"medbook-server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	specialtyHandler := handlers.NewSpecialtyHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	availabilityHandler := handlers.NewAvailabilityHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	medicalReportHandler := handlers.NewMedicalReportHandler(db)
	reportHandler := handlers.NewReportHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// Browsing doctors and specialties does not require an account.
		public.GET("/specialties", specialtyHandler.GetSpecialties)
		public.GET("/specialties/:id", specialtyHandler.GetSpecialtyByID)
		public.GET("/doctors", doctorHandler.GetActiveDoctors)
		public.GET("/doctors/:id", doctorHandler.GetDoctorByID)
		public.GET("/doctors/specialty/:specialtyId", doctorHandler.GetDoctorsBySpecialty)
		public.GET("/doctors/:id/availability", availabilityHandler.GetAvailabilitiesForDoctor)
		public.GET("/doctors/:id/slots", availabilityHandler.GetSlotsForDate)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Patients list for doctors building reports
			userRoutes.GET("/patients", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), userHandler.GetPatients)

			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Specialty management (admin); reads are public above
		specialtyRoutes := private.Group("/specialties")
		specialtyRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			specialtyRoutes.POST("", specialtyHandler.CreateSpecialty)
			specialtyRoutes.PUT("/:id", specialtyHandler.UpdateSpecialty)
			specialtyRoutes.DELETE("/:id", specialtyHandler.DeleteSpecialty)
		}

		// Doctor profile management (admin); reads are public above
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("/all", middleware.RoleAuthMiddleware(models.RoleAdmin), doctorHandler.GetDoctors)

			adminDoctorRoutes := doctorRoutes.Group("")
			adminDoctorRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminDoctorRoutes.POST("", doctorHandler.CreateDoctor)
				adminDoctorRoutes.PUT("/:id", doctorHandler.UpdateDoctor)
				adminDoctorRoutes.PATCH("/:id/status", doctorHandler.ToggleDoctorStatus)
				adminDoctorRoutes.DELETE("/:id", doctorHandler.DeleteDoctor)
			}
		}

		// Availability rule management; doctors are limited to their own
		// profile inside the handlers, admins manage any
		availabilityRoutes := private.Group("/availability")
		availabilityRoutes.Use(middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin))
		{
			availabilityRoutes.POST("", availabilityHandler.CreateAvailability)
			availabilityRoutes.POST("/batch", availabilityHandler.BatchCreateAvailability)
			availabilityRoutes.GET("", availabilityHandler.GetAvailabilities)
			availabilityRoutes.GET("/:id", availabilityHandler.GetAvailabilityByID)
			availabilityRoutes.PUT("/:id", availabilityHandler.UpdateAvailability)
			availabilityRoutes.PATCH("/:id/status", availabilityHandler.ToggleAvailabilityStatus)
			availabilityRoutes.DELETE("/:id", availabilityHandler.DeleteAvailability)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)

			appointmentRoutes.GET("", middleware.RoleAuthMiddleware(models.RoleAdmin), appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/patient/:patientId", appointmentHandler.GetAppointmentsForPatient) // Auth in handler
			appointmentRoutes.GET("/doctor/:doctorId", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), appointmentHandler.GetAppointmentsForDoctor)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID) // Auth in handler

			// Lifecycle actions; transition guards live in the handler
			appointmentRoutes.PATCH("/:id/confirm", appointmentHandler.ConfirmAppointment)
			appointmentRoutes.PATCH("/:id/reject", appointmentHandler.RejectAppointment)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.PATCH("/:id/complete", appointmentHandler.CompleteAppointment)
			appointmentRoutes.PATCH("/:id/pending", appointmentHandler.MarkAppointmentPending)
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)

			appointmentRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), appointmentHandler.UpdateAppointment)
			appointmentRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), appointmentHandler.DeleteAppointment)
		}

		// Medical report routes
		medicalReportRoutes := private.Group("/medical-reports")
		{
			medicalReportRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), medicalReportHandler.CreateMedicalReport)

			medicalReportRoutes.GET("/:id", medicalReportHandler.GetMedicalReportByID)                                  // Auth in handler
			medicalReportRoutes.GET("/appointment/:appointmentId", medicalReportHandler.GetMedicalReportForAppointment) // Auth in handler
			medicalReportRoutes.GET("/patient/:patientId", medicalReportHandler.GetMedicalReportsForPatient)            // Auth in handler
			medicalReportRoutes.GET("/doctor/:doctorId", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), medicalReportHandler.GetMedicalReportsForDoctor)

			medicalReportRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), medicalReportHandler.UpdateMedicalReport)
			medicalReportRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), medicalReportHandler.DeleteMedicalReport)
		}

		// Administrative reporting
		reportRoutes := private.Group("/reports")
		reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			reportRoutes.GET("/monthly/:year/:month", reportHandler.GetMonthlyReport)
			reportRoutes.GET("/overview", reportHandler.GetOverview)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
