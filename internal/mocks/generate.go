// Package mocks provides mock implementations for testing the viagens UI.
//
// Hand-written test doubles live in the auth and trips subpackages; the
// go:generate directives below produce gomock-based mocks for suites that
// prefer expectation-style assertions.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockAPI := mocks.NewMockTripAPI(ctrl)
//	mockAPI.EXPECT().List(gomock.Any(), gomock.Any()).Return(trips, nil)
package mocks

// Generate mock for TripAPI interface from internal/ports package.
// This creates MockTripAPI with List, Create, and Delete methods.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=trip_api_mock.go github.com/rotalabs/viagens-ui/internal/ports TripAPI

// Generate mock for AuthProvider interface from internal/ports package.
// This creates MockAuthProvider with Begin, Exchange, and Refresh methods.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=auth_provider_mock.go github.com/rotalabs/viagens-ui/internal/ports AuthProvider

// Generate mock for SessionStore interface from internal/ports package.
// This creates MockSessionStore with Save, Get, and Delete methods.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=session_store_mock.go github.com/rotalabs/viagens-ui/internal/ports SessionStore

// Generate mock for CacheRepository interface from internal/core package.
// This creates MockCacheRepository with Set, Get, Delete, Exists, and Health methods.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=cache_repository_mock.go github.com/rotalabs/viagens-ui/internal/core CacheRepository
