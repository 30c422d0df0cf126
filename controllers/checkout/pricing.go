package checkoutControllers

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/config"
	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

// Totals is the priced view of a cart against a destination.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Total       decimal.Decimal `json:"total_price"`
}

// Subtotal sums line price times quantity using each product's current
// price. Prices are only frozen later, at order finalization.
func Subtotal(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// Price computes subtotal, shipping and total for a cart/address pair.
// A missing or incomplete address gets the international (default) tier.
func Price(items []models.CartItem, addr *models.Address, ship config.Shipping) Totals {
	subtotal := Subtotal(items)

	fee := ship.DefaultFee()
	if addr.Complete() {
		fee = ship.Fee(addr.Country, addr.State)
	}

	return Totals{
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       subtotal.Add(fee),
	}
}

// PriceForIdentity loads the identity's cart and, for users, their
// stored address, and prices them. Guests always get the default tier.
func PriceForIdentity(db *gorm.DB, id models.Identity, ship config.Shipping) (Totals, error) {
	items, err := cartItems(db, id)
	if err != nil {
		return Totals{}, err
	}

	var addr *models.Address
	if !id.Guest() {
		addr, err = addressForUser(db, id.UserID)
		if err != nil {
			return Totals{}, err
		}
	}

	return Price(items, addr, ship), nil
}

func cartItems(db *gorm.DB, id models.Identity) ([]models.CartItem, error) {
	var cart models.Cart
	var err error
	if id.Guest() {
		err = db.Where("session_key = ?", id.SessionKey).First(&cart).Error
	} else {
		err = db.Where("user_id = ?", id.UserID).First(&cart).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := db.Preload("Product").Where("cart_id = ?", cart.CartID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func addressForUser(db *gorm.DB, userID string) (*models.Address, error) {
	var addr models.Address
	err := db.Where("user_id = ?", userID).First(&addr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}
