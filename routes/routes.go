package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	flutterwaveControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/flutterwave"
	orderControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/order"
)

// SetupRoutes wires every route group onto the engine.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, gateway *flutterwaveControllers.Client, pipeline *orderControllers.Pipeline) {
	SetupAuthRoutes(r, db)
	SetupCatalogRoutes(r, db)
	SetupUserRoutes(r, db, cfg)
	SetupOrderRoutes(r, db, cfg)
	SetupPaymentRoutes(r, db, cfg, gateway, pipeline)
	SetupAdminRoutes(r, db)
}
