package ports

import (
	"context"

	"github.com/rotalabs/viagens-ui/internal/domain/model"
)

// TripAPI is the client-side port for the remote viagens REST API. The token
// is the session's bearer credential, forwarded verbatim.
type TripAPI interface {
	// List fetches the trip collection. A response body that is not a JSON
	// array yields an empty slice, not an error.
	List(ctx context.Context, token string) ([]model.Trip, error)

	// Create submits a new trip and returns the record the server created.
	Create(ctx context.Context, token string, req model.CreateTripRequest) (model.Trip, error)

	// Delete removes the trip with the given identifier.
	Delete(ctx context.Context, token string, id model.TripID) error
}
