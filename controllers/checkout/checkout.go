package checkoutControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	"github.com/AaronTech112/Soft-Boy-Crowm/logging"
	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

type CheckoutRequest struct {
	OrderNote string `json:"order_note"`
}

// NewTxRef generates the client reference correlating a transaction with
// gateway events. Uniqueness is enforced by the DB index; a collision is
// a configuration fault, not something to retry.
func NewTxRef() string {
	return "txn-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// CreateTransaction turns the user's cart and stored address into a
// pending Transaction: the amount (subtotal + shipping) is frozen, the
// distinct products are associated for future reference, and the address
// fields are copied so later edits cannot rewrite this order. Stock is
// not touched and the cart is not cleared until reconciliation approves
// the payment.
func CreateTransaction(db *gorm.DB, userID, orderNote string, ship config.Shipping) (models.Transaction, error) {
	items, err := cartItems(db, models.UserIdentity(userID))
	if err != nil {
		return models.Transaction{}, err
	}
	if len(items) == 0 {
		return models.Transaction{}, models.ErrEmptyCart
	}

	addr, err := addressForUser(db, userID)
	if err != nil {
		return models.Transaction{}, err
	}
	if !addr.Complete() {
		return models.Transaction{}, models.ErrNoAddress
	}

	totals := Price(items, addr, ship)

	trn := models.Transaction{
		UserID:         userID,
		Amount:         totals.Total,
		TxRef:          NewTxRef(),
		OrderNote:      orderNote,
		Status:         models.TransactionPending,
		ShipFullName:   addr.FullName,
		ShipStreet:     addr.Street,
		ShipCity:       addr.City,
		ShipState:      addr.State,
		ShipPostalCode: addr.PostalCode,
		ShipCountry:    addr.Country,
		ShipPhone:      addr.Phone,
	}

	seen := make(map[uint]bool)
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			trn.Products = append(trn.Products, item.Product)
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// Omit() keeps the association writer from upserting product rows.
		return tx.Omit("Products.*").Create(&trn).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Transaction{}, fmt.Errorf("%w: %s", models.ErrRefCollision, trn.TxRef)
		}
		return models.Transaction{}, err
	}

	return trn, nil
}

// POST /checkout
func CheckoutHandler(db *gorm.DB, ship config.Shipping) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var req CheckoutRequest
		_ = c.ShouldBindJSON(&req) // body is optional

		trn, err := CreateTransaction(db, userID, req.OrderNote, ship)
		if err != nil {
			if models.ClassOf(err) == models.ClassConfiguration {
				logging.From(c).Error("tx_ref collision", "error", err)
			}
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"tx_ref":             trn.TxRef,
			"amount":             trn.Amount,
			"transaction_status": trn.Status,
		})
	}
}

// GET /checkout/preview returns the priced cart plus address state.
func PreviewHandler(db *gorm.DB, ship config.Shipping) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		totals, err := PriceForIdentity(db, models.UserIdentity(userID), ship)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price cart"})
			return
		}

		addr, err := addressForUser(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch address"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"subtotal":     totals.Subtotal,
			"shipping_fee": totals.ShippingFee,
			"total_price":  totals.Total,
			"has_address":  addr.Complete(),
			"address":      addr,
		})
	}
}

func currentUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	userID, _ := v.(string)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
