package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	checkoutControllers "github.com/AaronTech112/Soft-Boy-Crowm/controllers/checkout"
	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

// POST /cart
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c)
		if !ok {
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		count, err := AddItem(db, id, input)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Item added to cart",
			"cart_count": count,
		})
	}
}

// PUT /cart/items/:itemID
func UpdateItemHandler(db *gorm.DB, ship config.Shipping) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c)
		if !ok {
			return
		}

		itemID, err := parseItemID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
			return
		}

		var input struct {
			Quantity int `json:"quantity" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := UpdateItem(db, id, itemID, input.Quantity)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		respondWithTotals(c, db, id, ship, gin.H{
			"message":  "Cart item updated",
			"quantity": item.Quantity,
		})
	}
}

// DELETE /cart/items/:itemID
func RemoveItemHandler(db *gorm.DB, ship config.Shipping) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c)
		if !ok {
			return
		}

		itemID, err := parseItemID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
			return
		}

		if err := RemoveItem(db, id, itemID); err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		respondWithTotals(c, db, id, ship, gin.H{
			"message": "Cart item removed",
		})
	}
}

// GET /cart
func GetCartHandler(db *gorm.DB, ship config.Shipping) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c)
		if !ok {
			return
		}

		items, err := Items(db, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		respondWithTotals(c, db, id, ship, gin.H{"items": items})
	}
}

// GET /cart/count
func CountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFromContext(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart_count": Count(db, id)})
	}
}

func respondWithTotals(c *gin.Context, db *gorm.DB, id models.Identity, ship config.Shipping, payload gin.H) {
	totals, err := checkoutControllers.PriceForIdentity(db, id, ship)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price cart"})
		return
	}
	payload["subtotal"] = totals.Subtotal
	payload["shipping_fee"] = totals.ShippingFee
	payload["total_price"] = totals.Total
	payload["cart_count"] = Count(db, id)
	c.JSON(http.StatusOK, payload)
}

func identityFromContext(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.Identity{}, false
	}
	uid, _ := v.(string)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.Identity{}, false
	}
	if role, _ := c.Get("role"); role == "guest" {
		return models.GuestIdentity(uid), true
	}
	return models.UserIdentity(uid), true
}

func parseItemID(c *gin.Context) (uint, error) {
	raw, err := strconv.ParseUint(c.Param("itemID"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(raw), nil
}
