package service

import (
	"errors"
	"fmt"

	"go-inventory-api/pkg/validator"
)

// Kind classifies a domain failure; the HTTP layer maps kinds to status codes
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidInput
	KindBusinessRule
	KindUnauthorized
)

const (
	CodeProductNotFound    = "PRODUCT_NOT_FOUND"
	CodeSupplierNotFound   = "SUPPLIER_NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeOrderNotFound      = "ORDER_NOT_FOUND"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeOutOfStock         = "OUT_OF_STOCK"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// Error is a domain failure carrying a stable code and a user-facing message
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func ErrProductNotFound(id uint) *Error {
	return newError(KindNotFound, CodeProductNotFound, "Product not found with id %d", id)
}

func ErrSupplierNotFound(id uint) *Error {
	return newError(KindNotFound, CodeSupplierNotFound, "Supplier not found with id %d", id)
}

func ErrUserNotFound(id uint) *Error {
	return newError(KindNotFound, CodeUserNotFound, "User not found with id %d", id)
}

func ErrOrderNotFound(id uint) *Error {
	return newError(KindNotFound, CodeOrderNotFound, "Order not found with id %d", id)
}

func ErrOutOfStock(productName string) *Error {
	return newError(KindBusinessRule, CodeOutOfStock, "Product %s is out of stock.", productName)
}

func ErrValidation(field, tag string) *Error {
	return newError(KindInvalidInput, CodeValidationFailed, "Validation failed: Field '%s' failed on tag '%s'", field, tag)
}

var (
	ErrEmailExists        = &Error{Kind: KindBusinessRule, Code: CodeEmailExists, Message: "Email already exists"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Code: CodeInvalidCredentials, Message: "Invalid email or password"}
)

// Sale flow messages differ from the CRUD ones
func errSaleProductNotFound(id uint) *Error {
	return newError(KindNotFound, CodeProductNotFound, "Product not found: id=%d", id)
}

func errSaleInsufficientStock(productName string) *Error {
	return newError(KindBusinessRule, CodeInsufficientStock, "Insufficient stock for product: %s", productName)
}

func errSaleInvalid(reason string) *Error {
	return newError(KindInvalidInput, CodeInvalidRequest, "Invalid sale request: %s", reason)
}

// AsError extracts the domain error from err, if any
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is a domain error of the given kind
func IsKind(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

// validateRequest reports the first failed rule of req as a VALIDATION_FAILED error
func validateRequest(req any) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return ErrValidation(errs[0].FailedField, errs[0].Tag)
	}
	return nil
}
