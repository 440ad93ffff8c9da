package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TripID identifies a trip record owned by the remote viagens API.
// The contract does not pin the JSON type of "id", so decoding accepts both
// strings and numbers and keeps the canonical text form for URL paths.
type TripID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *TripID) UnmarshalJSON(data []byte) error {
	b := bytes.TrimSpace(data)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode trip id: %w", err)
		}
		*id = TripID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("trip id must be a string or number")
	}
	*id = TripID(n.String())
	return nil
}

func (id TripID) String() string { return string(id) }

// Trip is the remote API's trip record. Field names on the wire follow the
// viagens contract; "descricao" is null when the trip has no description.
type Trip struct {
	ID            TripID  `json:"id"`
	Origin        string  `json:"origemNome"`
	Destination   string  `json:"destinoNome"`
	Description   *string `json:"descricao"`
	TransportMode string  `json:"modoTransporte"`
}

// CreateTripRequest is the POST body for creating a trip.
type CreateTripRequest struct {
	Origin        string  `json:"origemNome"`
	Destination   string  `json:"destinoNome"`
	Description   *string `json:"descricao"`
	TransportMode string  `json:"modoTransporte"`
}

// NewCreateTripRequest builds a create request from raw user input.
// The description is trimmed and omitted entirely when empty; the remaining
// fields are passed through as entered.
func NewCreateTripRequest(origin, destination, description, transportMode string) CreateTripRequest {
	req := CreateTripRequest{
		Origin:        origin,
		Destination:   destination,
		TransportMode: transportMode,
	}
	if d := strings.TrimSpace(description); d != "" {
		req.Description = &d
	}
	return req
}

// Validate validates CreateTripRequest. Origin, destination, and transport
// mode must be non-empty; no further format checks are applied.
func (r *CreateTripRequest) Validate() error {
	if strings.TrimSpace(r.Origin) == "" {
		return errors.New("origin is required and cannot be empty")
	}
	if strings.TrimSpace(r.Destination) == "" {
		return errors.New("destination is required and cannot be empty")
	}
	if strings.TrimSpace(r.TransportMode) == "" {
		return errors.New("transport mode is required and cannot be empty")
	}
	return nil
}
