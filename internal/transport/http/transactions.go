package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cimillas/gatepass/internal/app"
	"github.com/cimillas/gatepass/internal/auth"
	"github.com/cimillas/gatepass/internal/domain"
)

// maxProofSize bounds payment-proof uploads (multipart memory + body).
const maxProofSize = 10 << 20

// TicketEngine is the minimal interface the transaction endpoints need.
type TicketEngine interface {
	Reserve(ctx context.Context, in app.ReserveInput) (domain.Transaction, error)
	SubmitProof(ctx context.Context, in app.SubmitProofInput) (domain.Transaction, error)
	Decide(ctx context.Context, in app.DecideInput) (domain.Transaction, error)
	ListMine(ctx context.Context, userID string) ([]domain.TransactionDetail, error)
	ListForOrganizer(ctx context.Context, organizerID string) ([]domain.TransactionDetail, error)
	IssueTicket(ctx context.Context, transactionID, userID string) ([]byte, error)
}

// HandleReserve serves POST /transactions: a customer consumes one seat.
func HandleReserve(svc TicketEngine, verifier TokenVerifier) http.Handler {
	return RequireOperation(verifier, auth.OpReserve, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		identity, _ := IdentityFromContext(r.Context())

		var req reserveRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.EventID == "" {
			writeError(w, http.StatusBadRequest, codeEventIDRequired, "event_id is required")
			return
		}

		t, err := svc.Reserve(r.Context(), app.ReserveInput{
			EventID: req.EventID,
			UserID:  identity.UserID,
		})
		if err != nil {
			writeTransactionError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toTransactionResponse(t))
	}))
}

// HandleTransactions serves the /transactions/ subtree: the caller's own
// listing, the organizer listing, proof upload, decisions and e-tickets.
func HandleTransactions(svc TicketEngine, verifier TokenVerifier) http.HandlerFunc {
	listMine := RequireOperation(verifier, auth.OpListOwnTransactions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		details, err := svc.ListMine(r.Context(), identity.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toTransactionDetailResponses(details))
	}))

	listForOrganizer := RequireOperation(verifier, auth.OpListOrganizerTransactions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		details, err := svc.ListForOrganizer(r.Context(), identity.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, toTransactionDetailResponses(details))
	}))

	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) < 2 || parts[0] != "transactions" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if len(parts) == 2 {
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			switch parts[1] {
			case "my":
				listMine.ServeHTTP(w, r)
			case "organizer":
				listForOrganizer.ServeHTTP(w, r)
			default:
				writeError(w, http.StatusNotFound, codeNotFound, "not found")
			}
			return
		}

		if len(parts) != 3 || parts[1] == "" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		transactionID := parts[1]

		switch parts[2] {
		case "proof":
			if r.Method != http.MethodPatch {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			RequireOperation(verifier, auth.OpSubmitProof, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handleSubmitProof(svc, transactionID, w, r)
			})).ServeHTTP(w, r)
		case "decision":
			if r.Method != http.MethodPatch {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			RequireOperation(verifier, auth.OpDecide, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handleDecide(svc, transactionID, w, r)
			})).ServeHTTP(w, r)
		case "ticket":
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			RequireOperation(verifier, auth.OpDownloadTicket, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handleDownloadTicket(svc, transactionID, w, r)
			})).ServeHTTP(w, r)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func handleSubmitProof(svc TicketEngine, transactionID string, w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxProofSize)
	if err := r.ParseMultipartForm(maxProofSize); err != nil {
		writeError(w, http.StatusBadRequest, codeProofRequired, domain.ErrProofRequired.Error())
		return
	}
	file, header, err := r.FormFile("proof")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeProofRequired, domain.ErrProofRequired.Error())
		return
	}
	defer file.Close()

	t, err := svc.SubmitProof(r.Context(), app.SubmitProofInput{
		TransactionID: transactionID,
		UserID:        identity.UserID,
		ContentType:   header.Header.Get("Content-Type"),
		Body:          file,
	})
	if err != nil {
		writeTransactionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func handleDecide(svc TicketEngine, transactionID string, w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req decideRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	t, err := svc.Decide(r.Context(), app.DecideInput{
		TransactionID: transactionID,
		OrganizerID:   identity.UserID,
		Decision:      domain.Decision(req.Status),
	})
	if err != nil {
		writeTransactionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func handleDownloadTicket(svc TicketEngine, transactionID string, w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	pdf, err := svc.IssueTicket(r.Context(), transactionID, identity.UserID)
	if err != nil {
		writeTransactionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="ticket.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func writeTransactionError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case domain.ErrTransactionNotFound:
		writeError(w, http.StatusNotFound, codeTransactionNotFound, err.Error())
	case domain.ErrNoSeatsAvailable:
		writeError(w, http.StatusConflict, codeNoSeatsAvailable, err.Error())
	case domain.ErrAlreadyProcessed:
		writeError(w, http.StatusConflict, codeAlreadyProcessed, err.Error())
	case domain.ErrProofRequired:
		writeError(w, http.StatusBadRequest, codeProofRequired, err.Error())
	case domain.ErrTicketNotReady:
		writeError(w, http.StatusConflict, codeTicketNotReady, err.Error())
	case domain.ErrInvalidDecision:
		writeError(w, http.StatusBadRequest, codeInvalidDecision, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

type reserveRequest struct {
	EventID string `json:"event_id"`
}

type decideRequest struct {
	Status string `json:"status"`
}

type transactionResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	ProofURL  string    `json:"proof_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type transactionDetailResponse struct {
	transactionResponse
	EventName     string    `json:"event_name"`
	EventStartsAt time.Time `json:"event_starts_at"`
	PayoutAccount string    `json:"payout_account"`
	BuyerName     string    `json:"buyer_name,omitempty"`
	BuyerEmail    string    `json:"buyer_email,omitempty"`
}

func toTransactionResponse(t domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:        t.ID,
		EventID:   t.EventID,
		UserID:    t.UserID,
		Status:    string(t.Status),
		ProofURL:  t.ProofURL,
		CreatedAt: t.CreatedAt,
	}
}

func toTransactionDetailResponses(details []domain.TransactionDetail) []transactionDetailResponse {
	resp := make([]transactionDetailResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, transactionDetailResponse{
			transactionResponse: toTransactionResponse(d.Transaction),
			EventName:           d.EventName,
			EventStartsAt:       d.EventStartsAt,
			PayoutAccount:       d.PayoutAccount,
			BuyerName:           d.BuyerName,
			BuyerEmail:          d.BuyerEmail,
		})
	}
	return resp
}
