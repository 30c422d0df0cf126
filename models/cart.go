package models

import "time"

// Cart belongs to exactly one identity: an authenticated user or an
// anonymous guest session. It is created lazily on the first add-to-cart
// and emptied (items deleted) when an order is finalized.
type Cart struct {
	CartID     uint       `gorm:"primaryKey" json:"cart_id"`
	UserID     *string    `gorm:"uniqueIndex" json:"user_id,omitempty"`
	SessionKey *string    `gorm:"uniqueIndex" json:"session_key,omitempty"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartItem is one line in a cart. The (cart, product, size, color)
// combination is unique; adding the same selection again increments the
// existing line instead of creating a new one.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index;uniqueIndex:idx_cart_selection" json:"cart_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_selection" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	Size      string    `gorm:"uniqueIndex:idx_cart_selection" json:"size"`
	Color     string    `gorm:"uniqueIndex:idx_cart_selection" json:"color"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}
