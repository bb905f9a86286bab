package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/courtsidehq/roster-api/internal/domain/identity"
	"github.com/courtsidehq/roster-api/internal/domain/team"
	"github.com/courtsidehq/roster-api/internal/platform/logging"
)

// IdentityService owns the local user's session state. Login is by username
// only; there is no credential check by design.
type IdentityService struct {
	identityRepo identity.Repository
	registry     team.Registry
	feed         *PlayerFeedService
	snapshots    SnapshotWriter
	logger       *logging.Logger
}

func NewIdentityService(
	identityRepo identity.Repository,
	registry team.Registry,
	feed *PlayerFeedService,
	snapshots SnapshotWriter,
	logger *logging.Logger,
) *IdentityService {
	if logger == nil {
		logger = logging.Default()
	}

	return &IdentityService{
		identityRepo: identityRepo,
		registry:     registry,
		feed:         feed,
		snapshots:    snapshots,
		logger:       logger,
	}
}

func (s *IdentityService) Login(ctx context.Context, username string) (identity.Identity, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.Login")
	defer span.End()

	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < identity.MinUsernameRunes {
		return identity.Identity{}, fmt.Errorf("%w: username must be at least %d characters", ErrInvalidInput, identity.MinUsernameRunes)
	}

	current := identity.Identity{Username: username, Authenticated: true}
	if err := s.identityRepo.Set(ctx, current); err != nil {
		return identity.Identity{}, fmt.Errorf("set identity: %w", err)
	}

	s.snapshots.Enqueue(SnapshotPartitionIdentity, current)
	s.logger.InfoContext(ctx, "user logged in", "username", username)

	return current, nil
}

// Logout clears the session and purges everything persisted for it. The
// purge failure path is non-fatal: in-memory state is already cleared and the
// next login overwrites whatever was left behind.
func (s *IdentityService) Logout(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.Logout")
	defer span.End()

	if err := s.identityRepo.Clear(ctx); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	if err := s.registry.ReplaceAll(ctx, nil); err != nil {
		return fmt.Errorf("reset team registry: %w", err)
	}
	if s.feed != nil {
		s.feed.Reset(ctx)
	}

	if err := s.snapshots.Purge(ctx, SnapshotPartitions()...); err != nil {
		s.logger.WarnContext(ctx, "purge persisted state failed", "error", err)
	}

	s.logger.InfoContext(ctx, "user logged out")
	return nil
}

func (s *IdentityService) Current(ctx context.Context) (identity.Identity, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.Current")
	defer span.End()

	current, err := s.identityRepo.Current(ctx)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("get identity: %w", err)
	}

	return current, nil
}
