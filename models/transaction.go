package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionPending    TransactionStatus = "pending"    // created, awaiting gateway
	TransactionProcessing TransactionStatus = "processing" // redirect return seen, finalizing
	TransactionApproved   TransactionStatus = "approved"   // settled, order items exist
	TransactionDeclined   TransactionStatus = "declined"   // failed, cancelled or mismatched
)

// Transaction is the order record. Amount is frozen at creation
// (subtotal + shipping) and the delivery address is copied in, so
// neither price nor address edits can alter a settled order.
type Transaction struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	UserID           string            `gorm:"not null;index" json:"user_id"`
	User             User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount           decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"amount"`
	Products         []Product         `gorm:"many2many:transaction_products" json:"products,omitempty"`
	TxRef            string            `gorm:"size:100;uniqueIndex;not null" json:"tx_ref"`
	FlwTransactionID string            `gorm:"size:100" json:"flw_transaction_id"`
	OrderNote        string            `json:"order_note"`
	Status           TransactionStatus `gorm:"column:transaction_status;type:VARCHAR(20);default:'pending'" json:"transaction_status"`
	OrderItems       []OrderItem       `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`

	// Delivery address snapshot, copied from the user's address at checkout.
	ShipFullName   string `json:"ship_full_name"`
	ShipStreet     string `json:"ship_street"`
	ShipCity       string `json:"ship_city"`
	ShipState      string `json:"ship_state"`
	ShipPostalCode string `json:"ship_postal_code"`
	ShipCountry    string `json:"ship_country"`
	ShipPhone      string `json:"ship_phone"`

	CreatedAt time.Time `json:"transaction_date"`
}

// Settled reports whether the transaction has reached a terminal state.
func (t *Transaction) Settled() bool {
	return t.Status == TransactionApproved || t.Status == TransactionDeclined
}

// OrderItem is an immutable line-item snapshot, created exactly once when
// a transaction is approved. Price is the product price at purchase time.
type OrderItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID uint            `gorm:"index;not null" json:"transaction_id"`
	ProductID     uint            `gorm:"not null" json:"product_id"`
	Product       Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int             `gorm:"not null;default:1" json:"quantity"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
}

// TotalPrice is price at purchase times quantity.
func (oi *OrderItem) TotalPrice() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
