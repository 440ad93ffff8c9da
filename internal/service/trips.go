package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rotalabs/viagens-ui/internal/core"
	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
	"github.com/rotalabs/viagens-ui/internal/domain/model"
	"github.com/rotalabs/viagens-ui/internal/ports"
)

// TripBoardServiceOptions groups dependencies for TripBoardService.
type TripBoardServiceOptions struct {
	API    ports.TripAPI
	Boards *core.BoardCacheService
	Logger *slog.Logger
}

// TripBoardService orchestrates the per-session trip board: the last-known
// server list patched by optimistic local edits. The board never reconciles
// against the server on its own; only an explicit refresh replaces the list
// wholesale. Remote failures become the board's single user-visible error
// message and leave the list as it was.
type TripBoardService struct {
	api    ports.TripAPI
	boards *core.BoardCacheService
	logger *slog.Logger
}

// NewTripBoardService constructs a new TripBoardService.
func NewTripBoardService(opts TripBoardServiceOptions) *TripBoardService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TripBoardService{
		api:    opts.API,
		boards: opts.Boards,
		logger: logger,
	}
}

// Board returns the session's board, fetching the trip list first when no
// loaded board is cached.
func (s *TripBoardService) Board(ctx context.Context, session *domainauth.Session) (*model.Board, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}

	board := s.load(ctx, session.ID)
	if board.Loaded {
		return board, nil
	}
	return s.refresh(ctx, session, board)
}

// Refresh replaces the board's trip list with a fresh fetch. On failure the
// previous list is kept and the failure becomes the board's error message.
func (s *TripBoardService) Refresh(ctx context.Context, session *domainauth.Session) (*model.Board, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	return s.refresh(ctx, session, s.load(ctx, session.ID))
}

func (s *TripBoardService) refresh(ctx context.Context, session *domainauth.Session, board *model.Board) (*model.Board, error) {
	if !session.HasToken() {
		// Nothing to fetch with; leave the board as display state.
		return board, nil
	}

	trips, err := s.api.List(ctx, session.Tokens.AccessToken)
	if err != nil {
		s.logger.Warn("trip list fetch failed", "user_id", session.UserID, "error", err)
		board.SetError(err.Error())
	} else {
		board.ReplaceTrips(trips, time.Now())
		board.ClearError()
	}

	s.save(ctx, session.ID, board)
	return board, nil
}

// Create validates and submits a new trip. Validation failures are returned
// to the caller without touching the remote API or the board; remote
// failures become the board's error message. On success the created record
// is prepended so it appears immediately.
func (s *TripBoardService) Create(ctx context.Context, session *domainauth.Session, req model.CreateTripRequest) (*model.Board, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	board := s.load(ctx, session.ID)
	if !session.HasToken() {
		return board, nil
	}

	trip, err := s.api.Create(ctx, session.Tokens.AccessToken, req)
	if err != nil {
		s.logger.Warn("trip create failed", "user_id", session.UserID, "error", err)
		board.SetError(err.Error())
	} else {
		board.Prepend(trip)
		board.ClearError()
	}

	s.save(ctx, session.ID, board)
	return board, nil
}

// ErrDeleteForbidden is returned when a non-admin session attempts a delete.
var ErrDeleteForbidden = errors.New("deleting trips requires the admin role")

// Delete removes a trip. Only admin sessions may delete; the handler hides
// the control from non-admins but the service enforces it regardless. The
// record is removed from the board only after the remote API confirms; a
// failure leaves the list unchanged and sets the board's error message.
func (s *TripBoardService) Delete(ctx context.Context, session *domainauth.Session, id model.TripID) (*model.Board, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	if id == "" {
		return nil, errors.New("trip id is required")
	}
	if session.Role != domainauth.RoleAdmin {
		return nil, ErrDeleteForbidden
	}

	board := s.load(ctx, session.ID)
	if !session.HasToken() {
		return board, nil
	}

	// Persist the in-flight mark so a concurrent page render disables the
	// record's delete control.
	board.MarkPending(id)
	s.save(ctx, session.ID, board)

	err := s.api.Delete(ctx, session.Tokens.AccessToken, id)
	board.ClearPending(id)
	if err != nil {
		s.logger.Warn("trip delete failed", "user_id", session.UserID, "trip_id", id, "error", err)
		board.SetError(err.Error())
	} else {
		board.RemoveTrip(id)
		board.ClearError()
	}

	s.save(ctx, session.ID, board)
	return board, nil
}

// Invalidate drops the session's cached board. Called on logout.
func (s *TripBoardService) Invalidate(ctx context.Context, sessionID string) error {
	if s.boards == nil {
		return nil
	}
	if err := s.boards.Invalidate(ctx, sessionID); err != nil {
		return fmt.Errorf("invalidate board: %w", err)
	}
	return nil
}

// load returns the cached board or a fresh empty one. Cache failures are
// logged and degrade to an empty board; the board is display state and a
// refetch restores it.
func (s *TripBoardService) load(ctx context.Context, sessionID string) *model.Board {
	if s.boards != nil {
		board, err := s.boards.Get(ctx, sessionID)
		if err != nil {
			s.logger.Warn("board cache read failed", "error", err)
		} else if board != nil {
			return board
		}
	}
	return &model.Board{Trips: []model.Trip{}}
}

func (s *TripBoardService) save(ctx context.Context, sessionID string, board *model.Board) {
	if s.boards == nil {
		return
	}
	if err := s.boards.Save(ctx, sessionID, board); err != nil {
		s.logger.Warn("board cache write failed", "error", err)
	}
}
