package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	flutterwaveControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/flutterwave"
	orderControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/order"
	"github.com/AaronTech112/Soft-Boy-Crowm/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, gateway *flutterwaveControllers.Client, pipeline *orderControllers.Pipeline) {
	payment := r.Group("/payment")
	{
		payment.POST("/initiate/:txRef",
			middleware.ValidateToken,
			middleware.RequireUser,
			flutterwaveControllers.InitiatePaymentHandler(db, gateway, cfg.Payment),
		)

		// Webhook endpoint: middleware checks the signature header
		payment.POST("/webhook",
			middleware.WebhookAuth(),
			flutterwaveControllers.WebhookHandler(pipeline),
		)

		// Browser redirect back from the hosted payment page
		payment.GET("/callback", flutterwaveControllers.CallbackHandler(pipeline))
	}
}
