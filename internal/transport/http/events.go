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

// EventCatalog is the minimal interface the event endpoints need.
type EventCatalog interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (domain.Event, error)
	GetEvent(ctx context.Context, id string) (domain.EventDetail, error)
	ListEvents(ctx context.Context) ([]domain.EventDetail, error)
	ListMyEvents(ctx context.Context, organizerID string) ([]domain.Event, error)
	UpdateEvent(ctx context.Context, in app.UpdateEventInput) (domain.Event, error)
}

// HandleEvents serves the /events collection: public listing and
// organizer-only creation.
func HandleEvents(svc EventCatalog, verifier TokenVerifier) http.HandlerFunc {
	create := RequireOperation(verifier, auth.OpCreateEvent, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCreateEvent(svc, w, r)
	}))

	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListEvents(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}
			resp := make([]eventDetailResponse, 0, len(events))
			for _, event := range events {
				resp = append(resp, toEventDetailResponse(event))
			}
			writeJSON(w, http.StatusOK, resp)
		case http.MethodPost:
			create.ServeHTTP(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleEventByID serves /events/{id} (public detail, organizer patch) and
// /events/organizer (the caller's own events).
func HandleEventByID(svc EventCatalog, verifier TokenVerifier) http.HandlerFunc {
	listMine := RequireOperation(verifier, auth.OpListOwnEvents, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		events, err := svc.ListMyEvents(r.Context(), identity.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		resp := make([]eventResponse, 0, len(events))
		for _, event := range events {
			resp = append(resp, toEventResponse(event))
		}
		writeJSON(w, http.StatusOK, resp)
	}))

	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := parseEventPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if eventID == "organizer" {
			if r.Method != http.MethodGet {
				writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
				return
			}
			listMine.ServeHTTP(w, r)
			return
		}

		switch r.Method {
		case http.MethodGet:
			event, err := svc.GetEvent(r.Context(), eventID)
			if err != nil {
				switch err {
				case domain.ErrEventNotFound:
					writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
				default:
					writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				}
				return
			}
			writeJSON(w, http.StatusOK, toEventDetailResponse(event))
		case http.MethodPatch:
			RequireOperation(verifier, auth.OpUpdateEvent, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handleUpdateEvent(svc, eventID, w, r)
			})).ServeHTTP(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

func handleCreateEvent(svc EventCatalog, w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req createEventRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidTimestamp, "invalid starts_at format")
		return
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidTimestamp, "invalid ends_at format")
		return
	}

	event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
		OrganizerID:    identity.UserID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		AvailableSeats: req.AvailableSeats,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		PayoutAccount:  req.PayoutAccount,
	})
	if err != nil {
		writeEventValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func handleUpdateEvent(svc EventCatalog, eventID string, w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req updateEventRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	in := app.UpdateEventInput{
		EventID:        eventID,
		OrganizerID:    identity.UserID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		AvailableSeats: req.AvailableSeats,
		PayoutAccount:  req.PayoutAccount,
	}
	if req.StartsAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTimestamp, "invalid starts_at format")
			return
		}
		in.StartsAt = &parsed
	}
	if req.EndsAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.EndsAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTimestamp, "invalid ends_at format")
			return
		}
		in.EndsAt = &parsed
	}

	event, err := svc.UpdateEvent(r.Context(), in)
	if err != nil {
		writeEventValidationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func writeEventValidationError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrEventNameRequired:
		writeError(w, http.StatusBadRequest, codeEventNameRequired, err.Error())
	case domain.ErrInvalidPrice:
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case domain.ErrInvalidSeats:
		writeError(w, http.StatusBadRequest, codeInvalidSeats, err.Error())
	case domain.ErrInvalidSchedule:
		writeError(w, http.StatusBadRequest, codeInvalidSchedule, err.Error())
	case domain.ErrPayoutRequired:
		writeError(w, http.StatusBadRequest, codePayoutRequired, err.Error())
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case domain.ErrUserNotFound:
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func parseEventPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] != "events" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type createEventRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Price          int64  `json:"price"`
	AvailableSeats int    `json:"available_seats"`
	StartsAt       string `json:"starts_at"`
	EndsAt         string `json:"ends_at"`
	PayoutAccount  string `json:"payout_account"`
}

type updateEventRequest struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Price          *int64  `json:"price,omitempty"`
	AvailableSeats *int    `json:"available_seats,omitempty"`
	StartsAt       *string `json:"starts_at,omitempty"`
	EndsAt         *string `json:"ends_at,omitempty"`
	PayoutAccount  *string `json:"payout_account,omitempty"`
}

type eventResponse struct {
	ID             string    `json:"id"`
	OrganizerID    string    `json:"organizer_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          int64     `json:"price"`
	AvailableSeats int       `json:"available_seats"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	PayoutAccount  string    `json:"payout_account"`
	CreatedAt      time.Time `json:"created_at"`
}

type eventDetailResponse struct {
	eventResponse
	OrganizerName string `json:"organizer_name"`
}

func toEventResponse(event domain.Event) eventResponse {
	return eventResponse{
		ID:             event.ID,
		OrganizerID:    event.OrganizerID,
		Name:           event.Name,
		Description:    event.Description,
		Price:          event.Price,
		AvailableSeats: event.AvailableSeats,
		StartsAt:       event.StartsAt,
		EndsAt:         event.EndsAt,
		PayoutAccount:  event.PayoutAccount,
		CreatedAt:      event.CreatedAt,
	}
}

func toEventDetailResponse(detail domain.EventDetail) eventDetailResponse {
	return eventDetailResponse{
		eventResponse: toEventResponse(detail.Event),
		OrganizerName: detail.OrganizerName,
	}
}
