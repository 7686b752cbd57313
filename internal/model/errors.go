package model

import "errors"

var (
	// Token related errors
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")

	// Session cookie related errors
	ErrNoSessionCookie = errors.New("no session cookie")
	ErrCookieNotFound  = errors.New("cookie not found")

	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Event related errors
	ErrEventNotFound = errors.New("event not found")

	// Reservation related errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAlreadyReserved     = errors.New("already reserved")
	ErrEventFull           = errors.New("event full")
	ErrOwnEventReservation = errors.New("cannot reserve own event")
	ErrAlreadyCheckedIn    = errors.New("already checked in")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
