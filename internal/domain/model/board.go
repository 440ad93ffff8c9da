package model

import (
	"slices"
	"time"
)

// Board is the per-session view state of the trip list: the last-known
// server collection patched by optimistic local edits, the identifiers of
// deletes still in flight, and the single user-visible error message.
// It is display state only and never reconciles against the server.
type Board struct {
	Trips       []Trip    `json:"trips"`
	Pending     []TripID  `json:"pending,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Loaded      bool      `json:"loaded"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// ReplaceTrips swaps in a freshly fetched collection wholesale.
func (b *Board) ReplaceTrips(trips []Trip, now time.Time) {
	if trips == nil {
		trips = []Trip{}
	}
	b.Trips = trips
	b.Loaded = true
	b.RefreshedAt = now
}

// Prepend puts a newly created trip at the head of the list.
func (b *Board) Prepend(t Trip) {
	b.Trips = append([]Trip{t}, b.Trips...)
}

// RemoveTrip removes the trip with the given identifier. It reports whether
// a record was removed; an unknown identifier leaves the list unchanged.
func (b *Board) RemoveTrip(id TripID) bool {
	for i, t := range b.Trips {
		if t.ID == id {
			b.Trips = append(b.Trips[:i], b.Trips[i+1:]...)
			return true
		}
	}
	return false
}

// MarkPending records a delete in flight for the given identifier so its
// action control can be disabled while the request is outstanding.
func (b *Board) MarkPending(id TripID) {
	if !slices.Contains(b.Pending, id) {
		b.Pending = append(b.Pending, id)
	}
}

// ClearPending removes the identifier from the in-flight set.
func (b *Board) ClearPending(id TripID) {
	b.Pending = slices.DeleteFunc(b.Pending, func(p TripID) bool { return p == id })
}

// IsPending reports whether a delete is in flight for the identifier.
func (b *Board) IsPending(id TripID) bool {
	return slices.Contains(b.Pending, id)
}

// SetError replaces any prior user-visible error message.
func (b *Board) SetError(msg string) {
	b.LastError = msg
}

// ClearError discards the user-visible error message.
func (b *Board) ClearError() {
	b.LastError = ""
}
