package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/cimillas/gatepass/internal/app"
	"github.com/cimillas/gatepass/internal/auth"
	"github.com/cimillas/gatepass/internal/domain"
)

// stubVerifier maps raw bearer tokens straight to identities.
type stubVerifier struct {
	identities map[string]auth.Identity
}

func (s *stubVerifier) Verify(tokenString string) (auth.Identity, error) {
	identity, ok := s.identities[tokenString]
	if !ok {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return identity, nil
}

func newStubVerifier() *stubVerifier {
	return &stubVerifier{identities: map[string]auth.Identity{
		"customer-token":  {UserID: "cust-1", Email: "c@example.com", Role: domain.RoleCustomer},
		"organizer-token": {UserID: "org-1", Email: "o@example.com", Role: domain.RoleOrganizer},
	}}
}

type stubTicketEngine struct {
	reserveFn          func(ctx context.Context, in app.ReserveInput) (domain.Transaction, error)
	submitProofFn      func(ctx context.Context, in app.SubmitProofInput) (domain.Transaction, error)
	decideFn           func(ctx context.Context, in app.DecideInput) (domain.Transaction, error)
	listMineFn         func(ctx context.Context, userID string) ([]domain.TransactionDetail, error)
	listForOrganizerFn func(ctx context.Context, organizerID string) ([]domain.TransactionDetail, error)
	issueTicketFn      func(ctx context.Context, transactionID, userID string) ([]byte, error)
}

func (s *stubTicketEngine) Reserve(ctx context.Context, in app.ReserveInput) (domain.Transaction, error) {
	return s.reserveFn(ctx, in)
}

func (s *stubTicketEngine) SubmitProof(ctx context.Context, in app.SubmitProofInput) (domain.Transaction, error) {
	return s.submitProofFn(ctx, in)
}

func (s *stubTicketEngine) Decide(ctx context.Context, in app.DecideInput) (domain.Transaction, error) {
	return s.decideFn(ctx, in)
}

func (s *stubTicketEngine) ListMine(ctx context.Context, userID string) ([]domain.TransactionDetail, error) {
	return s.listMineFn(ctx, userID)
}

func (s *stubTicketEngine) ListForOrganizer(ctx context.Context, organizerID string) ([]domain.TransactionDetail, error) {
	return s.listForOrganizerFn(ctx, organizerID)
}

func (s *stubTicketEngine) IssueTicket(ctx context.Context, transactionID, userID string) ([]byte, error) {
	return s.issueTicketFn(ctx, transactionID, userID)
}

type stubEventCatalog struct {
	createFn   func(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	getFn      func(ctx context.Context, id string) (domain.EventDetail, error)
	listFn     func(ctx context.Context) ([]domain.EventDetail, error)
	listMineFn func(ctx context.Context, organizerID string) ([]domain.Event, error)
	updateFn   func(ctx context.Context, in app.UpdateEventInput) (domain.Event, error)
}

func (s *stubEventCatalog) CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error) {
	return s.createFn(ctx, in)
}

func (s *stubEventCatalog) GetEvent(ctx context.Context, id string) (domain.EventDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubEventCatalog) ListEvents(ctx context.Context) ([]domain.EventDetail, error) {
	return s.listFn(ctx)
}

func (s *stubEventCatalog) ListMyEvents(ctx context.Context, organizerID string) ([]domain.Event, error) {
	return s.listMineFn(ctx, organizerID)
}

func (s *stubEventCatalog) UpdateEvent(ctx context.Context, in app.UpdateEventInput) (domain.Event, error) {
	return s.updateFn(ctx, in)
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in app.RegisterInput) (domain.User, error)
	loginFn    func(ctx context.Context, in app.LoginInput) (app.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in app.RegisterInput) (domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in app.LoginInput) (app.LoginResult, error) {
	return s.loginFn(ctx, in)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d (body %s)", want, rec.Code, rec.Body.String())
	}
}
