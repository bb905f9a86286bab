package usecase

import (
	"errors"
	"testing"

	"github.com/courtsidehq/roster-api/internal/domain/identity"
	"github.com/courtsidehq/roster-api/internal/domain/player"
	"github.com/courtsidehq/roster-api/internal/infrastructure/repository/memory"
	"github.com/courtsidehq/roster-api/internal/platform/logging"
)

func newIdentityFixture() (*IdentityService, *RosterService, *PlayerFeedService, *recordingSnapshots) {
	registry := memory.NewTeamRegistry(nil)
	identityRepo := memory.NewIdentityRepository(identity.Identity{})
	snapshots := newRecordingSnapshots()
	logger := logging.NewNop()

	source := &scriptedPlayerSource{pages: []player.Page{
		{Players: []player.Player{{ID: 1}}},
	}}
	feed := NewPlayerFeedService(source, nil, 10, logger)
	roster := NewRosterService(registry, &sequenceIDGenerator{}, snapshots, logger)
	service := NewIdentityService(identityRepo, registry, feed, snapshots, logger)
	return service, roster, feed, snapshots
}

func TestIdentityService_Login_TrimsAndPersists(t *testing.T) {
	service, _, _, snapshots := newIdentityFixture()

	current, err := service.Login(t.Context(), "  coach  ")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if current.Username != "coach" || !current.Authenticated {
		t.Fatalf("unexpected identity: %+v", current)
	}

	if snapshots.writeCount(SnapshotPartitionIdentity) != 1 {
		t.Fatalf("expected identity snapshot write")
	}

	stored, err := service.Current(t.Context())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if stored != current {
		t.Fatalf("expected stored identity %+v, got %+v", current, stored)
	}
}

func TestIdentityService_Login_RejectsShortUsername(t *testing.T) {
	service, _, _, _ := newIdentityFixture()

	for _, username := range []string{"", "a", "ab", "  ab  "} {
		if _, err := service.Login(t.Context(), username); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", username, err)
		}
	}
}

func TestIdentityService_Login_AcceptsThreeRuneUsername(t *testing.T) {
	service, _, _, _ := newIdentityFixture()

	// Rune count, not byte count.
	if _, err := service.Login(t.Context(), "日本語"); err != nil {
		t.Fatalf("expected multibyte username accepted, got %v", err)
	}
}

func TestIdentityService_Logout_ClearsEverything(t *testing.T) {
	service, roster, feed, snapshots := newIdentityFixture()

	if _, err := service.Login(t.Context(), "coach"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := roster.SaveRoster(t.Context(), SaveRosterInput{
		Name: "Bulls", Region: "Midwest", Country: "USA", PlayerIDs: []int64{1},
	}); err != nil {
		t.Fatalf("save roster: %v", err)
	}
	if _, err := feed.LoadNext(t.Context()); err != nil {
		t.Fatalf("load feed: %v", err)
	}

	if err := service.Logout(t.Context()); err != nil {
		t.Fatalf("logout: %v", err)
	}

	current, err := service.Current(t.Context())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.Authenticated || current.Username != "" {
		t.Fatalf("expected cleared identity, got %+v", current)
	}

	if state := feed.Snapshot(t.Context()); state.Loaded || len(state.Players) != 0 {
		t.Fatalf("expected feed reset on logout, got %+v", state)
	}

	if len(snapshots.purged) != len(SnapshotPartitions()) {
		t.Fatalf("expected all partitions purged, got %v", snapshots.purged)
	}
}
