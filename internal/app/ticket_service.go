package app

import (
	"context"
	"fmt"
	"io"

	"github.com/cimillas/gatepass/internal/clock"
	"github.com/cimillas/gatepass/internal/domain"
)

type TicketRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	DecrementSeats(ctx context.Context, eventID string) error
	IncrementSeats(ctx context.Context, eventID string) error
	CreateTransaction(ctx context.Context, t domain.Transaction) error
	GetOwned(ctx context.Context, id, userID string) (domain.Transaction, error)
	GetForOrganizerForUpdate(ctx context.Context, id, organizerID string) (domain.Transaction, error)
	SetProofOwned(ctx context.Context, id, userID, proofURL string, status domain.TransactionStatus) error
	UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error
	ListByUser(ctx context.Context, userID string) ([]domain.TransactionDetail, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]domain.TransactionDetail, error)
	GetDetailOwned(ctx context.Context, id, userID string) (domain.TransactionDetail, error)
}

// ProofStore is the object-storage collaborator holding payment proofs.
type ProofStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// TicketRenderer produces the downloadable e-ticket for a confirmed purchase.
type TicketRenderer interface {
	Render(detail domain.TransactionDetail) ([]byte, error)
}

// TicketService owns the seat ledger and the transaction state machine.
// Every path that touches available_seats pairs the counter write with the
// corresponding transaction write inside one unit of work.
type TicketService struct {
	repo     TicketRepository
	proofs   ProofStore
	renderer TicketRenderer
	clock    clock.Clock
}

func NewTicketService(repo TicketRepository, proofs ProofStore, renderer TicketRenderer, clk clock.Clock) *TicketService {
	return &TicketService{
		repo:     repo,
		proofs:   proofs,
		renderer: renderer,
		clock:    clk,
	}
}

type ReserveInput struct {
	EventID string
	UserID  string
}

// Reserve consumes one seat and opens a transaction in WAITING_FOR_PAYMENT.
// The conditional decrement and the insert commit together or not at all, so
// two concurrent reserves on a one-seat event can never both succeed.
func (s *TicketService) Reserve(ctx context.Context, in ReserveInput) (domain.Transaction, error) {
	t := domain.Transaction{
		ID:        newID(),
		EventID:   in.EventID,
		UserID:    in.UserID,
		Status:    domain.StatusWaitingForPayment,
		CreatedAt: s.clock.Now(),
	}

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.DecrementSeats(txCtx, in.EventID); err != nil {
			return err
		}
		return s.repo.CreateTransaction(txCtx, t)
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return t, nil
}

type SubmitProofInput struct {
	TransactionID string
	UserID        string
	ContentType   string
	Body          io.Reader
}

// SubmitProof uploads the payment proof and moves the transaction to
// WAITING_FOR_CONFIRMATION. Re-upload is allowed as long as the caller owns
// the transaction; the new proof replaces the previous one.
func (s *TicketService) SubmitProof(ctx context.Context, in SubmitProofInput) (domain.Transaction, error) {
	if in.Body == nil {
		return domain.Transaction{}, domain.ErrProofRequired
	}

	t, err := s.repo.GetOwned(ctx, in.TransactionID, in.UserID)
	if err != nil {
		return domain.Transaction{}, err
	}

	key := proofKey(in.UserID, in.TransactionID, in.ContentType, s.clock.Now().Unix())
	url, err := s.proofs.Put(ctx, key, in.ContentType, in.Body)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("store proof: %w", err)
	}

	if err := s.repo.SetProofOwned(ctx, in.TransactionID, in.UserID, url, domain.StatusWaitingForConfirmation); err != nil {
		return domain.Transaction{}, err
	}

	t.ProofURL = url
	t.Status = domain.StatusWaitingForConfirmation
	return t, nil
}

type DecideInput struct {
	TransactionID string
	OrganizerID   string
	Decision      domain.Decision
}

// Decide finalizes a transaction on behalf of the event's organizer. ACCEPT
// marks it DONE (the seat was consumed at reservation time); REJECT marks it
// REJECTED and releases the seat back to the pool in the same unit of work.
func (s *TicketService) Decide(ctx context.Context, in DecideInput) (domain.Transaction, error) {
	if in.Decision != domain.DecisionAccept && in.Decision != domain.DecisionReject {
		return domain.Transaction{}, domain.ErrInvalidDecision
	}

	var result domain.Transaction
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		t, err := s.repo.GetForOrganizerForUpdate(txCtx, in.TransactionID, in.OrganizerID)
		if err != nil {
			return err
		}
		if t.Status.Terminal() {
			return domain.ErrAlreadyProcessed
		}

		switch in.Decision {
		case domain.DecisionAccept:
			if err := s.repo.UpdateStatus(txCtx, t.ID, domain.StatusDone); err != nil {
				return err
			}
			t.Status = domain.StatusDone
		case domain.DecisionReject:
			if err := s.repo.UpdateStatus(txCtx, t.ID, domain.StatusRejected); err != nil {
				return err
			}
			if err := s.repo.IncrementSeats(txCtx, t.EventID); err != nil {
				return err
			}
			t.Status = domain.StatusRejected
		}

		result = t
		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return result, nil
}

// ListMine returns the caller's transactions, newest first.
func (s *TicketService) ListMine(ctx context.Context, userID string) ([]domain.TransactionDetail, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListForOrganizer returns every transaction on the organizer's events,
// joined with buyer display fields, newest first.
func (s *TicketService) ListForOrganizer(ctx context.Context, organizerID string) ([]domain.TransactionDetail, error) {
	return s.repo.ListByOrganizer(ctx, organizerID)
}

// IssueTicket renders the e-ticket PDF for a confirmed transaction.
func (s *TicketService) IssueTicket(ctx context.Context, transactionID, userID string) ([]byte, error) {
	detail, err := s.repo.GetDetailOwned(ctx, transactionID, userID)
	if err != nil {
		return nil, err
	}
	if detail.Status != domain.StatusDone {
		return nil, domain.ErrTicketNotReady
	}
	return s.renderer.Render(detail)
}

func proofKey(userID, transactionID, contentType string, unix int64) string {
	ext := "bin"
	switch contentType {
	case "image/png":
		ext = "png"
	case "image/jpeg", "image/jpg":
		ext = "jpg"
	case "image/webp":
		ext = "webp"
	case "application/pdf":
		ext = "pdf"
	}
	return fmt.Sprintf("proofs/%s/%s-%d.%s", userID, transactionID, unix, ext)
}
