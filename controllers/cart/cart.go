package cartControllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/AaronTech112/Soft-Boy-Crowm/models"
)

type AddItemInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// AddItem validates the product and selection, then creates or
// increments the matching cart line. The cart itself is created lazily
// on the identity's first add. Returns the updated cart count.
func AddItem(db *gorm.DB, id models.Identity, in AddItemInput) (int, error) {
	if in.Quantity < 1 {
		return 0, models.ErrInvalidQuantity
	}

	var product models.Product
	if err := db.Preload("Sizes").Preload("Colors").First(&product, "id = ?", in.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.ErrProductNotFound
		}
		return 0, err
	}

	if !product.IsActive {
		return 0, fmt.Errorf("%w: %s", models.ErrProductUnavailable, product.Name)
	}
	if product.InStock <= 0 {
		return 0, fmt.Errorf("%w: %s", models.ErrOutOfStock, product.Name)
	}

	size, ok := canonicalName(in.Size, sizeNames(product.Sizes))
	if !ok {
		return 0, fmt.Errorf("%w: size %q", models.ErrInvalidSelection, in.Size)
	}
	color, ok := canonicalName(in.Color, colorNames(product.Colors))
	if !ok {
		return 0, fmt.Errorf("%w: color %q", models.ErrInvalidSelection, in.Color)
	}

	cart, err := getOrCreateCart(db, id)
	if err != nil {
		return 0, err
	}

	var item models.CartItem
	err = db.Where("cart_id = ? AND product_id = ? AND size = ? AND color = ?",
		cart.CartID, product.ID, size, color).First(&item).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if in.Quantity > product.InStock {
			return 0, insufficientStock(product)
		}
		item = models.CartItem{
			CartID:    cart.CartID,
			ProductID: product.ID,
			Size:      size,
			Color:     color,
			Quantity:  in.Quantity,
			AddedAt:   time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		if item.Quantity+in.Quantity > product.InStock {
			return 0, insufficientStock(product)
		}
		item.Quantity += in.Quantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			return 0, err
		}
	}

	return Count(db, id), nil
}

// UpdateItem sets a line's quantity, re-checking current stock. The
// line must belong to the identity's own cart; anything else reads as
// not found.
func UpdateItem(db *gorm.DB, id models.Identity, itemID uint, quantity int) (models.CartItem, error) {
	if quantity < 1 {
		return models.CartItem{}, models.ErrInvalidQuantity
	}

	cart, err := findCart(db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CartItem{}, models.ErrCartItemNotFound
	}
	if err != nil {
		return models.CartItem{}, err
	}

	var item models.CartItem
	if err := db.Preload("Product").
		First(&item, "id = ? AND cart_id = ?", itemID, cart.CartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, models.ErrCartItemNotFound
		}
		return models.CartItem{}, err
	}

	if quantity > item.Product.InStock {
		return models.CartItem{}, insufficientStock(item.Product)
	}

	item.Quantity = quantity
	item.AddedAt = time.Now()
	if err := db.Save(&item).Error; err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

// RemoveItem deletes a line from the identity's own cart.
func RemoveItem(db *gorm.DB, id models.Identity, itemID uint) error {
	cart, err := findCart(db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrCartItemNotFound
	}
	if err != nil {
		return err
	}

	result := db.Delete(&models.CartItem{}, "id = ? AND cart_id = ?", itemID, cart.CartID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrCartItemNotFound
	}
	return nil
}

// Count returns the sum of quantities across the identity's cart, or 0
// when no cart exists. It never fails.
func Count(db *gorm.DB, id models.Identity) int {
	cart, err := findCart(db, id)
	if err != nil {
		return 0
	}
	var items []models.CartItem
	if err := db.Where("cart_id = ?", cart.CartID).Find(&items).Error; err != nil {
		return 0
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// Items returns the identity's cart lines with products preloaded.
// A missing cart is an empty cart.
func Items(db *gorm.DB, id models.Identity) ([]models.CartItem, error) {
	cart, err := findCart(db, id)
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

func findCart(db *gorm.DB, id models.Identity) (models.Cart, error) {
	var cart models.Cart
	var err error
	if id.Guest() {
		err = db.Where("session_key = ?", id.SessionKey).First(&cart).Error
	} else {
		err = db.Where("user_id = ?", id.UserID).First(&cart).Error
	}
	return cart, err
}

func getOrCreateCart(db *gorm.DB, id models.Identity) (models.Cart, error) {
	cart, err := findCart(db, id)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Cart{}, err
	}
	if id.Guest() {
		cart = models.Cart{SessionKey: &id.SessionKey}
	} else {
		cart = models.Cart{UserID: &id.UserID}
	}
	if err := db.Create(&cart).Error; err != nil {
		return models.Cart{}, err
	}
	return cart, nil
}

func insufficientStock(p models.Product) error {
	return fmt.Errorf("%w: only %d units of %s available", models.ErrInsufficientStock, p.InStock, p.Name)
}

// canonicalName matches the selection against allowed names
// case-insensitively and returns the canonical spelling.
func canonicalName(selected string, allowed []string) (string, bool) {
	if selected == "" {
		return "", true
	}
	for _, name := range allowed {
		if strings.EqualFold(name, selected) {
			return name, true
		}
	}
	return "", false
}

func sizeNames(sizes []models.Size) []string {
	names := make([]string, 0, len(sizes))
	for _, s := range sizes {
		names = append(names, s.Name)
	}
	return names
}

func colorNames(colors []models.Color) []string {
	names := make([]string, 0, len(colors))
	for _, c := range colors {
		names = append(names, c.Name)
	}
	return names
}
