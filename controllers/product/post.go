package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

type productInput struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price" binding:"required"`
	SlashPrice  decimal.NullDecimal `json:"slash_price"`
	CategoryID  uint                `json:"category_id" binding:"required"`
	InStock     int                 `json:"in_stock"`
	IsActive    *bool               `json:"is_active"`
	Sizes       []string            `json:"sizes"`
	Colors      []string            `json:"colors"`
}

// CreateProduct adds a new product with its size and color options.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input productInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.Price.IsNegative() || input.InStock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price and stock must be non-negative"})
			return
		}

		var category models.Category
		if err := db.First(&category, input.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}

		sizes, err := resolveSizes(db, input.Sizes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve sizes"})
			return
		}
		colors, err := resolveColors(db, input.Colors)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve colors"})
			return
		}

		product := models.Product{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			SlashPrice:  input.SlashPrice,
			CategoryID:  input.CategoryID,
			InStock:     input.InStock,
			IsActive:    true,
			Sizes:       sizes,
			Colors:      colors,
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		db.Preload("Category").Preload("Sizes").Preload("Colors").First(&product, product.ID)
		c.JSON(http.StatusCreated, product)
	}
}

func resolveSizes(db *gorm.DB, names []string) ([]models.Size, error) {
	var sizes []models.Size
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var size models.Size
		if err := db.Where("name = ?", name).FirstOrCreate(&size, models.Size{Name: name}).Error; err != nil {
			return nil, err
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func resolveColors(db *gorm.DB, names []string) ([]models.Color, error) {
	var colors []models.Color
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var color models.Color
		if err := db.Where("name = ?", name).FirstOrCreate(&color, models.Color{Name: name}).Error; err != nil {
			return nil, err
		}
		colors = append(colors, color)
	}
	return colors, nil
}
