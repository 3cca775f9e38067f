// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow handlers to distinguish between
// failure scenarios without inspecting driver errors: ErrNotFound covers
// rows that are absent or soft-deleted, ErrEmailExists a unique-email
// violation, and so on.
package repository

import "errors"

// ErrNotFound is returned when a row is absent or soft-deleted
// (is_active=false). Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when user creation hits the unique email
// constraint. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrInsufficientStock is returned when checkout would drive a product's
// stock negative. Handlers translate this into HTTP 409.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrEmptyCart is returned when checkout is attempted with no cart items.
// Handlers translate this into HTTP 400.
var ErrEmptyCart = errors.New("cart is empty")
