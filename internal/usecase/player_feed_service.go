package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/courtsidehq/roster-api/internal/domain/player"
	"github.com/courtsidehq/roster-api/internal/platform/cache"
	"github.com/courtsidehq/roster-api/internal/platform/logging"
)

// FeedState is a point-in-time view of the accumulated player listing.
type FeedState struct {
	Players []player.Player
	// Cursor is where the next page starts; nil either before the first load
	// (Exhausted false) or after the provider reported the end (Exhausted true).
	Cursor    *int64
	Exhausted bool
	// Loaded is true once at least one page has been merged.
	Loaded   bool
	InFlight bool
	// LastError holds the most recent fetch failure, cleared by any success.
	LastError error
}

// HasMore reports whether another page can still be requested.
func (s FeedState) HasMore() bool {
	return !s.Exhausted
}

// PlayerFeedService accumulates provider pages into one ordered, deduplicated
// sequence. It is the only owner of accumulated player state; callers render
// from Snapshot and never keep their own copy. Pages pass through a TTL cache
// so re-requesting recently seen parameters skips the provider.
type PlayerFeedService struct {
	source  PlayerSource
	pages   *cache.Store
	perPage int
	logger  *logging.Logger

	// inFlight gates overlapping LoadNext calls: the feed does not serialize
	// them, it turns the late ones into no-ops.
	inFlight atomic.Bool

	mu        sync.Mutex
	players   []player.Player
	seen      map[int64]struct{}
	cursor    *int64
	exhausted bool
	loaded    bool
	lastErr   error
}

func NewPlayerFeedService(source PlayerSource, pages *cache.Store, perPage int, logger *logging.Logger) *PlayerFeedService {
	if perPage <= 0 {
		perPage = 10
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerFeedService{
		source:  source,
		pages:   pages,
		perPage: perPage,
		logger:  logger,
		seen:    make(map[int64]struct{}),
	}
}

// LoadNext fetches the page at the current cursor and merges it. It is a
// no-op when the listing is exhausted or another load is already in flight.
// Merge and cursor advance happen atomically with respect to readers; players
// already accumulated are dropped silently, so an out-of-order late response
// can only be redundant, never corrupting.
func (s *PlayerFeedService) LoadNext(ctx context.Context) (FeedState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerFeedService.LoadNext")
	defer span.End()

	if !s.inFlight.CompareAndSwap(false, true) {
		return s.Snapshot(ctx), nil
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	if s.exhausted {
		s.mu.Unlock()
		s.inFlight.Store(false)
		return s.Snapshot(ctx), nil
	}
	query := PlayerPageQuery{PerPage: s.perPage}
	if s.cursor != nil {
		cursor := *s.cursor
		query.Cursor = &cursor
	}
	s.mu.Unlock()

	page, err := s.fetchPage(ctx, query)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "load players page failed", "cursor", cursorString(query.Cursor), "error", err)
		s.inFlight.Store(false)
		return s.Snapshot(ctx), fmt.Errorf("%w: load players page: %v", ErrDependencyUnavailable, err)
	}

	s.mu.Lock()
	appended := 0
	for _, p := range page.Players {
		if _, ok := s.seen[p.ID]; ok {
			continue
		}
		s.seen[p.ID] = struct{}{}
		s.players = append(s.players, p)
		appended++
	}
	if page.NextCursor != nil {
		next := *page.NextCursor
		s.cursor = &next
		s.exhausted = false
	} else {
		s.cursor = nil
		s.exhausted = true
	}
	s.loaded = true
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "players page merged",
		"cursor", cursorString(query.Cursor),
		"received", len(page.Players),
		"appended", appended,
		"has_more", page.NextCursor != nil,
	)

	// Clear the gate before snapshotting so the returned state reflects the
	// completed load. The deferred store is then a no-op.
	s.inFlight.Store(false)
	return s.Snapshot(ctx), nil
}

// Snapshot returns a copy of the accumulated state.
func (s *PlayerFeedService) Snapshot(ctx context.Context) FeedState {
	_, span := startUsecaseSpan(ctx, "usecase.PlayerFeedService.Snapshot")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	state := FeedState{
		Players:   append([]player.Player(nil), s.players...),
		Exhausted: s.exhausted,
		Loaded:    s.loaded,
		InFlight:  s.inFlight.Load(),
		LastError: s.lastErr,
	}
	if s.cursor != nil {
		cursor := *s.cursor
		state.Cursor = &cursor
	}

	return state
}

// Reset drops accumulated state and cached pages. Called on logout; the feed
// is session-scoped and never persisted.
func (s *PlayerFeedService) Reset(ctx context.Context) {
	_, span := startUsecaseSpan(ctx, "usecase.PlayerFeedService.Reset")
	defer span.End()

	s.mu.Lock()
	s.players = nil
	s.seen = make(map[int64]struct{})
	s.cursor = nil
	s.exhausted = false
	s.loaded = false
	s.lastErr = nil
	s.mu.Unlock()

	if s.pages != nil {
		s.pages.Purge(ctx)
	}
}

func (s *PlayerFeedService) fetchPage(ctx context.Context, query PlayerPageQuery) (player.Page, error) {
	if s.pages == nil {
		return s.source.ListPlayers(ctx, query)
	}

	key := fmt.Sprintf("players?cursor=%s&per_page=%d", cursorString(query.Cursor), query.PerPage)
	loaded, err := s.pages.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.source.ListPlayers(ctx, query)
	})
	if err != nil {
		return player.Page{}, err
	}

	page, ok := loaded.(player.Page)
	if !ok {
		return player.Page{}, fmt.Errorf("unexpected cached page type %T", loaded)
	}

	return page, nil
}

func cursorString(cursor *int64) string {
	if cursor == nil {
		return "start"
	}
	return fmt.Sprintf("%d", *cursor)
}
