package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	checkoutControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/checkout"
	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

type addressInput struct {
	FullName   string `json:"full_name"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country" binding:"required"`
	Phone      string `json:"phone"`
}

// GetProfile returns the user with their address and orders split
// into in-flight and settled.
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var user models.User
		if err := db.Preload("Address").First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var current, past []models.Transaction
		if err := db.Preload("OrderItems.Product").
			Where("user_id = ? AND transaction_status IN ?", user.ID,
				[]models.TransactionStatus{models.TransactionPending, models.TransactionProcessing}).
			Order("created_at desc").Find(&current).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		if err := db.Preload("OrderItems.Product").
			Where("user_id = ? AND transaction_status IN ?", user.ID,
				[]models.TransactionStatus{models.TransactionApproved, models.TransactionDeclined}).
			Order("created_at desc").Find(&past).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user":           user,
			"current_orders": current,
			"past_orders":    past,
		})
	}
}

// SaveAddress creates or replaces the user's shipping address and
// returns the cart totals recomputed against it.
func SaveAddress(db *gorm.DB, ship config.Shipping) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		uid, _ := userID.(string)

		var input addressInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", uid).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		addr := models.Address{
			UserID:     uid,
			FullName:   input.FullName,
			Street:     input.Street,
			City:       input.City,
			State:      input.State,
			PostalCode: input.PostalCode,
			Country:    input.Country,
			Phone:      input.Phone,
		}

		var existing models.Address
		err := db.Where("user_id = ?", uid).First(&existing).Error
		switch {
		case err == nil:
			addr.ID = existing.ID
			if err := db.Save(&addr).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
				return
			}
		case err == gorm.ErrRecordNotFound:
			if err := db.Create(&addr).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
				return
			}
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
			return
		}

		totals, err := checkoutControllers.PriceForIdentity(db, models.UserIdentity(uid), ship)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute totals"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"address": addr, "totals": totals})
	}
}
