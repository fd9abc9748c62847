package domain

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrNoSeatsAvailable    = errors.New("no seats available")
	ErrAlreadyProcessed    = errors.New("transaction already processed")
	ErrProofRequired       = errors.New("payment proof required")
	ErrTicketNotReady      = errors.New("ticket not available until payment is confirmed")
	ErrInvalidDecision     = errors.New("invalid decision")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailRequired       = errors.New("email required")
	ErrPasswordRequired    = errors.New("password required")
	ErrInvalidRole         = errors.New("invalid role")
	ErrEventNameRequired   = errors.New("event name required")
	ErrInvalidPrice        = errors.New("price must not be negative")
	ErrInvalidSeats        = errors.New("available seats must not be negative")
	ErrInvalidSchedule     = errors.New("event must end after it starts")
	ErrPayoutRequired      = errors.New("payout account required")
	ErrInvalidID           = errors.New("invalid id")
)
