package adminController

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

type stockInput struct {
	InStock int `json:"in_stock" binding:"min=0"`
}

// SetStock replaces a product's stock level.
func SetStock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var input stockInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result := db.Model(&models.Product{}).
			Where("id = ?", uint(id)).
			Update("in_stock", input.InStock)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"product_id": uint(id), "in_stock": input.InStock})
	}
}

// LowStock lists active products at or below a threshold, newest
// first, for restock decisions.
func LowStock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		threshold := 5
		if t := c.Query("threshold"); t != "" {
			parsed, err := strconv.Atoi(t)
			if err != nil || parsed < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid threshold"})
				return
			}
			threshold = parsed
		}

		var products []models.Product
		if err := db.Preload("Category").
			Where("is_active = ? AND in_stock <= ?", true, threshold).
			Order("in_stock asc").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, products)
	}
}
