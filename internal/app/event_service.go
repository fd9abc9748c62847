package app

import (
	"context"
	"time"

	"github.com/cimillas/gatepass/internal/clock"
	"github.com/cimillas/gatepass/internal/domain"
)

type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEvent(ctx context.Context, event domain.Event) error
	GetEventDetail(ctx context.Context, id string) (domain.EventDetail, error)
	GetEventOwnedForUpdate(ctx context.Context, id, organizerID string) (domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	ListEvents(ctx context.Context) ([]domain.EventDetail, error)
	ListEventsByOrganizer(ctx context.Context, organizerID string) ([]domain.Event, error)
}

// EventService handles the organizer-facing event catalog. It never touches
// the seat counter outside of a full-row update by the owning organizer.
type EventService struct {
	repo  EventRepository
	clock clock.Clock
}

func NewEventService(repo EventRepository, clk clock.Clock) *EventService {
	return &EventService{repo: repo, clock: clk}
}

type CreateEventInput struct {
	OrganizerID    string
	Name           string
	Description    string
	Price          int64
	AvailableSeats int
	StartsAt       time.Time
	EndsAt         time.Time
	PayoutAccount  string
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	if err := validateEventFields(in.Name, in.Price, in.AvailableSeats, in.StartsAt, in.EndsAt, in.PayoutAccount); err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		ID:             newID(),
		OrganizerID:    in.OrganizerID,
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		AvailableSeats: in.AvailableSeats,
		StartsAt:       in.StartsAt,
		EndsAt:         in.EndsAt,
		PayoutAccount:  in.PayoutAccount,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// GetEvent returns the public detail view of one event.
func (s *EventService) GetEvent(ctx context.Context, id string) (domain.EventDetail, error) {
	return s.repo.GetEventDetail(ctx, id)
}

// ListEvents returns every event ordered by start date.
func (s *EventService) ListEvents(ctx context.Context) ([]domain.EventDetail, error) {
	return s.repo.ListEvents(ctx)
}

// ListMyEvents returns the organizer's own events.
func (s *EventService) ListMyEvents(ctx context.Context, organizerID string) ([]domain.Event, error) {
	return s.repo.ListEventsByOrganizer(ctx, organizerID)
}

type UpdateEventInput struct {
	EventID        string
	OrganizerID    string
	Name           *string
	Description    *string
	Price          *int64
	AvailableSeats *int
	StartsAt       *time.Time
	EndsAt         *time.Time
	PayoutAccount  *string
}

// UpdateEvent applies a partial update to an event the caller organizes.
// The row is locked for the read-patch-write so a concurrent reserve cannot
// interleave with a seat-count overwrite.
func (s *EventService) UpdateEvent(ctx context.Context, in UpdateEventInput) (domain.Event, error) {
	var result domain.Event
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventOwnedForUpdate(txCtx, in.EventID, in.OrganizerID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			event.Name = *in.Name
		}
		if in.Description != nil {
			event.Description = *in.Description
		}
		if in.Price != nil {
			event.Price = *in.Price
		}
		if in.AvailableSeats != nil {
			event.AvailableSeats = *in.AvailableSeats
		}
		if in.StartsAt != nil {
			event.StartsAt = *in.StartsAt
		}
		if in.EndsAt != nil {
			event.EndsAt = *in.EndsAt
		}
		if in.PayoutAccount != nil {
			event.PayoutAccount = *in.PayoutAccount
		}

		if err := validateEventFields(event.Name, event.Price, event.AvailableSeats, event.StartsAt, event.EndsAt, event.PayoutAccount); err != nil {
			return err
		}
		if err := s.repo.UpdateEvent(txCtx, event); err != nil {
			return err
		}
		result = event
		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}
	return result, nil
}

func validateEventFields(name string, price int64, seats int, startsAt, endsAt time.Time, payoutAccount string) error {
	if name == "" {
		return domain.ErrEventNameRequired
	}
	if price < 0 {
		return domain.ErrInvalidPrice
	}
	if seats < 0 {
		return domain.ErrInvalidSeats
	}
	if !endsAt.After(startsAt) {
		return domain.ErrInvalidSchedule
	}
	if payoutAccount == "" {
		return domain.ErrPayoutRequired
	}
	return nil
}
