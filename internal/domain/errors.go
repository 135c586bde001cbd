package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrDateConflict      = errors.New("dates conflict with an existing booking")
	ErrOutOfStock        = errors.New("not enough stock")
	ErrHasBookings       = errors.New("camp has active bookings")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrEmailTaken        = errors.New("email already registered")
	ErrBadCredentials    = errors.New("invalid email or password")
	ErrAlreadyReviewed   = errors.New("camp already reviewed by this user")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrDuplicateCheckout = errors.New("checkout already processed")
)
