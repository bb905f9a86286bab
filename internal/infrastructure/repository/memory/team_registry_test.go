package memory

import (
	"testing"

	"github.com/courtsidehq/roster-api/internal/domain/team"
)

func TestTeamRegistry_ListPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	registry := NewTeamRegistry([]team.Team{
		{ID: "t1", Name: "Alpha", Region: "West", Country: "USA"},
		{ID: "t2", Name: "Beta", Region: "East", Country: "USA"},
	})

	listed, err := registry.List(t.Context())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "t1" || listed[1].ID != "t2" {
		t.Fatalf("unexpected order: %+v", listed)
	}
}

func TestTeamRegistry_FindByNameIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	registry := NewTeamRegistry([]team.Team{
		{ID: "t1", Name: "Bulls", Region: "Midwest", Country: "USA"},
	})

	found, ok, err := registry.FindByName(t.Context(), "  BULLS ")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if !ok || found.ID != "t1" {
		t.Fatalf("expected t1, got ok=%t team=%+v", ok, found)
	}

	_, ok, err = registry.FindByName(t.Context(), "Lakers")
	if err != nil || ok {
		t.Fatalf("expected no match for Lakers, ok=%t err=%v", ok, err)
	}
}

func TestTeamRegistry_OwnerIndexFollowsChangesets(t *testing.T) {
	t.Parallel()

	registry := NewTeamRegistry(nil)
	if err := registry.Apply(t.Context(), team.Changeset{Upserts: []team.Team{
		{ID: "t1", Name: "Alpha", Region: "West", Country: "USA", PlayerIDs: []int64{1, 2}, PlayerCount: 2},
	}}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	owner, ok, err := registry.OwnerOf(t.Context(), 1)
	if err != nil || !ok {
		t.Fatalf("expected player 1 owned, ok=%t err=%v", ok, err)
	}
	if owner.TeamID != "t1" || owner.TeamName != "Alpha" {
		t.Fatalf("unexpected owner: %+v", owner)
	}

	// Moving player 1 to a new team in one changeset must atomically update
	// the index for both sides.
	if err := registry.Apply(t.Context(), team.Changeset{Upserts: []team.Team{
		{ID: "t1", Name: "Alpha", Region: "West", Country: "USA", PlayerIDs: []int64{2}, PlayerCount: 1},
		{ID: "t2", Name: "Beta", Region: "East", Country: "USA", PlayerIDs: []int64{1}, PlayerCount: 1},
	}}); err != nil {
		t.Fatalf("apply move: %v", err)
	}

	owner, ok, _ = registry.OwnerOf(t.Context(), 1)
	if !ok || owner.TeamID != "t2" {
		t.Fatalf("expected player 1 on t2, got %+v ok=%t", owner, ok)
	}
	owner, ok, _ = registry.OwnerOf(t.Context(), 2)
	if !ok || owner.TeamID != "t1" {
		t.Fatalf("expected player 2 still on t1, got %+v ok=%t", owner, ok)
	}
}

func TestTeamRegistry_DeleteFreesOwnedPlayers(t *testing.T) {
	t.Parallel()

	registry := NewTeamRegistry([]team.Team{
		{ID: "t1", Name: "Alpha", Region: "West", Country: "USA", PlayerIDs: []int64{1}, PlayerCount: 1},
	})

	if err := registry.Apply(t.Context(), team.Changeset{DeleteIDs: []string{"t1"}}); err != nil {
		t.Fatalf("apply delete: %v", err)
	}

	if _, ok, _ := registry.OwnerOf(t.Context(), 1); ok {
		t.Fatalf("expected player 1 freed after delete")
	}
	if listed, _ := registry.List(t.Context()); len(listed) != 0 {
		t.Fatalf("expected empty registry, got %+v", listed)
	}
}

func TestTeamRegistry_ReplaceAllResets(t *testing.T) {
	t.Parallel()

	registry := NewTeamRegistry([]team.Team{
		{ID: "t1", Name: "Alpha", Region: "West", Country: "USA", PlayerIDs: []int64{1}, PlayerCount: 1},
	})

	if err := registry.ReplaceAll(t.Context(), nil); err != nil {
		t.Fatalf("replace all: %v", err)
	}
	if listed, _ := registry.List(t.Context()); len(listed) != 0 {
		t.Fatalf("expected empty registry after reset, got %+v", listed)
	}
	if _, ok, _ := registry.OwnerOf(t.Context(), 1); ok {
		t.Fatalf("expected owner index cleared")
	}
}

func TestTeamRegistry_ReturnsCopies(t *testing.T) {
	t.Parallel()

	registry := NewTeamRegistry([]team.Team{
		{ID: "t1", Name: "Alpha", Region: "West", Country: "USA", PlayerIDs: []int64{1}, PlayerCount: 1},
	})

	got, ok, err := registry.GetByID(t.Context(), "t1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%t err=%v", ok, err)
	}
	got.PlayerIDs[0] = 999

	again, _, _ := registry.GetByID(t.Context(), "t1")
	if again.PlayerIDs[0] != 1 {
		t.Fatalf("mutation leaked into registry state")
	}
}
