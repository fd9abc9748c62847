package domain

import "time"

// Event is a ticketed occurrence selling a finite number of seats.
// AvailableSeats is the remaining purchasable capacity; it is only ever
// changed together with a transaction write and never goes below zero.
type Event struct {
	ID             string
	OrganizerID    string
	Name           string
	Description    string
	Price          int64 // smallest currency unit
	AvailableSeats int
	StartsAt       time.Time
	EndsAt         time.Time
	PayoutAccount  string
	CreatedAt      time.Time
}

// EventDetail is an event joined with the organizer's display name for
// public listings.
type EventDetail struct {
	Event
	OrganizerName string
}
