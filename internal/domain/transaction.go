package domain

import "time"

type TransactionStatus string

const (
	StatusWaitingForPayment      TransactionStatus = "WAITING_FOR_PAYMENT"
	StatusWaitingForConfirmation TransactionStatus = "WAITING_FOR_CONFIRMATION"
	StatusDone                   TransactionStatus = "DONE"
	StatusRejected               TransactionStatus = "REJECTED"
)

// Terminal reports whether no further status transition is permitted.
func (s TransactionStatus) Terminal() bool {
	return s == StatusDone || s == StatusRejected
}

type Decision string

const (
	DecisionAccept Decision = "DONE"
	DecisionReject Decision = "REJECTED"
)

// Transaction is one customer's reservation-to-resolution record for one
// seat of one event. Only Status and ProofURL ever change after creation.
type Transaction struct {
	ID        string
	EventID   string
	UserID    string
	Status    TransactionStatus
	ProofURL  string
	CreatedAt time.Time
}

// TransactionDetail is a transaction joined with the display fields the
// listings need. Buyer fields are only populated for organizer views.
type TransactionDetail struct {
	Transaction
	EventName     string
	EventStartsAt time.Time
	PayoutAccount string
	BuyerName     string
	BuyerEmail    string
}
