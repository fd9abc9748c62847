package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeUnauthorized        = "unauthorized"
	codeForbidden           = "forbidden"
	codeEmailRequired       = "email_required"
	codePasswordRequired    = "password_required"
	codeInvalidRole         = "invalid_role"
	codeEmailTaken          = "email_taken"
	codeInvalidCredentials  = "invalid_credentials"
	codeEventNameRequired   = "event_name_required"
	codeInvalidPrice        = "invalid_price"
	codeInvalidSeats        = "invalid_seats"
	codeInvalidSchedule     = "invalid_schedule"
	codePayoutRequired      = "payout_account_required"
	codeInvalidTimestamp    = "invalid_timestamp"
	codeEventNotFound       = "event_not_found"
	codeEventIDRequired     = "event_id_required"
	codeTransactionNotFound = "transaction_not_found"
	codeNoSeatsAvailable    = "no_seats_available"
	codeAlreadyProcessed    = "already_processed"
	codeProofRequired       = "proof_required"
	codeTicketNotReady      = "ticket_not_ready"
	codeInvalidDecision     = "invalid_decision"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
