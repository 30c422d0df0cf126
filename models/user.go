package models

import "time"

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Phone        string    `json:"phone"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Address      *Address  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Address is the user's single delivery address. Transactions copy its
// fields at checkout time, so editing it never rewrites past orders.
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"uniqueIndex;not null" json:"-"`
	FullName   string    `json:"full_name"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Complete reports whether every field required for checkout is present.
// FullName is display-only and deliberately not required.
func (a *Address) Complete() bool {
	if a == nil {
		return false
	}
	return a.Street != "" && a.City != "" && a.State != "" &&
		a.PostalCode != "" && a.Country != "" && a.Phone != ""
}
