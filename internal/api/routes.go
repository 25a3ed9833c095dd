package api

import (
	"net/http"

	"fitpoint/gym-app/internal/domain"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Auth        *AuthHandler
	Appointment *AppointmentHandler
	Client      *ClientHandler
	Trainer     *TrainerHandler
	Membership  *MembershipHandler
	Payment     *PaymentHandler
	Report      *ReportHandler
	Events      *EventsHandler
}

func SetupRoutes(router *gin.Engine, jwtSecret string, h Handlers) {
	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	// Stripe calls this; it authenticates with its signature header, not a
	// bearer token.
	apiV1.POST("/payments/webhook", h.Payment.Webhook)

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.PUT("/users/device-token", h.Auth.SetDeviceToken)
		protected.GET("/events", h.Events.Subscribe)

		apptGroup := protected.Group("/appointments")
		{
			apptGroup.POST("", RoleMiddleware(domain.RoleClient), h.Appointment.Create)
			apptGroup.PUT("/:id/confirm", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), h.Appointment.Confirm)
			apptGroup.PUT("/:id/reject", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), h.Appointment.Reject)
			apptGroup.POST("/cancel", RoleMiddleware(domain.RoleClient), h.Appointment.Cancel)
			apptGroup.POST("/validate", RoleMiddleware(domain.RoleTrainer), h.Appointment.Validate)
			apptGroup.GET("", RoleMiddleware(domain.RoleAdmin), h.Appointment.GetAll)
			apptGroup.GET("/trainer/:trainerId", h.Appointment.GetByTrainer)
			apptGroup.PUT("/:id/status", RoleMiddleware(domain.RoleAdmin), h.Appointment.OverrideStatus)
		}

		clientGroup := protected.Group("/clients")
		{
			clientGroup.GET("/:uid", h.Client.GetProfile)
			clientGroup.PUT("/:uid", h.Client.UpdateProfile)
		}

		trainerGroup := protected.Group("/trainers")
		{
			trainerGroup.GET("", h.Trainer.GetAll)
			trainerGroup.GET("/:uid", h.Trainer.GetProfile)
			trainerGroup.PUT("/:uid", RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin), h.Trainer.UpdateProfile)
			trainerGroup.GET("/:uid/timeslots", h.Trainer.GetTimeslots)
			trainerGroup.PUT("/:uid/timeslots", RoleMiddleware(domain.RoleTrainer), h.Trainer.SetTimeslotAvailability)
		}

		packageGroup := protected.Group("/packages")
		{
			packageGroup.GET("", h.Membership.GetPackages)
			packageGroup.POST("", RoleMiddleware(domain.RoleAdmin), h.Membership.CreatePackage)
			packageGroup.PUT("/:name", RoleMiddleware(domain.RoleAdmin), h.Membership.UpdatePackage)
			packageGroup.DELETE("/:id", RoleMiddleware(domain.RoleAdmin), h.Membership.DeletePackage)
		}

		protected.GET("/service-types", h.Membership.GetServiceTypes)

		membershipGroup := protected.Group("/memberships")
		membershipGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			membershipGroup.GET("/eligibility", h.Membership.GetEligibility)
			membershipGroup.GET("/history", h.Membership.GetPurchaseHistory)
		}

		protected.POST("/payments/intent", RoleMiddleware(domain.RoleClient), h.Payment.CreateIntent)

		reportGroup := protected.Group("/reports")
		{
			reportGroup.POST("", RoleMiddleware(domain.RoleTrainer), h.Report.CreateDraft)
			reportGroup.PUT("/:id", RoleMiddleware(domain.RoleTrainer), h.Report.Update)
			reportGroup.PUT("/:id/complete", RoleMiddleware(domain.RoleTrainer), h.Report.Complete)
			reportGroup.PUT("/:id/review", RoleMiddleware(domain.RoleAdmin), h.Report.Review)
			reportGroup.GET("/appointment/:appointmentId", h.Report.GetByAppointment)
		}
	}
}
