package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

type productUpdateInput struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Price       *decimal.Decimal     `json:"price"`
	SlashPrice  *decimal.NullDecimal `json:"slash_price"`
	CategoryID  *uint                `json:"category_id"`
	InStock     *int                 `json:"in_stock"`
	IsActive    *bool                `json:"is_active"`
	Sizes       []string             `json:"sizes"`
	Colors      []string             `json:"colors"`
}

// UpdateProduct applies a partial update to a product. Omitted fields
// are left untouched; sizes and colors replace the existing sets when
// present.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var input productUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			if input.Price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be non-negative"})
				return
			}
			updates["price"] = *input.Price
		}
		if input.SlashPrice != nil {
			updates["slash_price"] = *input.SlashPrice
		}
		if input.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, *input.CategoryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
				return
			}
			updates["category_id"] = *input.CategoryID
		}
		if input.InStock != nil {
			if *input.InStock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Stock must be non-negative"})
				return
			}
			updates["in_stock"] = *input.InStock
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&product).Updates(updates).Error; err != nil {
					return err
				}
			}
			if input.Sizes != nil {
				sizes, err := resolveSizes(tx, input.Sizes)
				if err != nil {
					return err
				}
				if err := tx.Model(&product).Association("Sizes").Replace(sizes); err != nil {
					return err
				}
			}
			if input.Colors != nil {
				colors, err := resolveColors(tx, input.Colors)
				if err != nil {
					return err
				}
				if err := tx.Model(&product).Association("Colors").Replace(colors); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		db.Preload("Category").Preload("Sizes").Preload("Colors").First(&product, product.ID)
		c.JSON(http.StatusOK, product)
	}
}
