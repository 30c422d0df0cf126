package models

import (
	"errors"
	"net/http"
)

// ErrorClass buckets domain failures so handlers can map them to HTTP
// statuses without inspecting individual sentinels.
type ErrorClass int

const (
	ClassUnknown ErrorClass = iota
	ClassValidation
	ClassNotFound
	ClassStock
	ClassGateway
	ClassConfiguration
)

// DomainError is a sentinel-style error carrying its class. Wrap with
// fmt.Errorf("%w: detail", ...) to attach context; errors.Is still matches.
type DomainError struct {
	Class   ErrorClass
	Message string
}

func (e *DomainError) Error() string { return e.Message }

var (
	// Validation
	ErrInvalidQuantity  = &DomainError{ClassValidation, "quantity must be at least 1"}
	ErrInvalidSelection = &DomainError{ClassValidation, "selected size or color is not available for this product"}
	ErrEmptyCart        = &DomainError{ClassValidation, "cart is empty"}
	ErrNoAddress        = &DomainError{ClassValidation, "a complete delivery address is required"}

	// Not found
	ErrProductNotFound     = &DomainError{ClassNotFound, "product not found"}
	ErrCartItemNotFound    = &DomainError{ClassNotFound, "cart item not found"}
	ErrTransactionNotFound = &DomainError{ClassNotFound, "transaction not found"}
	ErrAddressNotFound     = &DomainError{ClassNotFound, "address not found"}

	// Stock
	ErrProductUnavailable = &DomainError{ClassStock, "product is currently not available"}
	ErrOutOfStock         = &DomainError{ClassStock, "product is out of stock"}
	ErrInsufficientStock  = &DomainError{ClassStock, "insufficient stock"}

	// Gateway
	ErrVerificationFailed = &DomainError{ClassGateway, "payment verification failed"}
	ErrAmountMismatch     = &DomainError{ClassGateway, "verified amount does not match transaction amount"}
	ErrCurrencyMismatch   = &DomainError{ClassGateway, "verified currency does not match settlement currency"}

	// Configuration
	ErrRefCollision = &DomainError{ClassConfiguration, "transaction reference collision"}
)

// ClassOf walks the error chain for a DomainError and returns its class.
func ClassOf(err error) ErrorClass {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Class
	}
	return ClassUnknown
}

// HTTPStatus maps a domain error to the status its handler should return.
func HTTPStatus(err error) int {
	switch ClassOf(err) {
	case ClassValidation, ClassStock:
		return http.StatusBadRequest
	case ClassNotFound:
		return http.StatusNotFound
	case ClassGateway:
		return http.StatusBadGateway
	case ClassConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
