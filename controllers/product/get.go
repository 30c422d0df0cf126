package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

// GetProductByID returns a single active product with its sizes, colors
// and up to four related products from the same category.
// URL param: /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.Preload("Category").Preload("Sizes").Preload("Colors").
			Where("is_active = ?", true).
			First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		var related []models.Product
		db.Where("category_id = ? AND is_active = ? AND id <> ?", product.CategoryID, true, product.ID).
			Limit(4).
			Find(&related)

		c.JSON(http.StatusOK, gin.H{
			"product":          product,
			"related_products": related,
		})
	}
}
