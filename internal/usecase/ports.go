package usecase

import (
	"context"

	"github.com/courtsidehq/roster-api/internal/domain/player"
)

// PlayerPageQuery addresses one page of the external player listing. A nil
// cursor asks for the first page.
type PlayerPageQuery struct {
	Cursor  *int64
	PerPage int
}

// PlayerSource is the external player-listing provider as seen from use
// cases. Implementations surface any transport or non-2xx failure as a single
// error; there are no partial pages.
type PlayerSource interface {
	ListPlayers(ctx context.Context, query PlayerPageQuery) (player.Page, error)
}

// SnapshotPartition names a persisted slice of state. Only the identity and
// team partitions exist; the player feed is deliberately never persisted.
type SnapshotPartition string

const (
	SnapshotPartitionIdentity SnapshotPartition = "identity"
	SnapshotPartitionTeams    SnapshotPartition = "teams"
)

// SnapshotPartitions lists every partition the durable store may hold.
func SnapshotPartitions() []SnapshotPartition {
	return []SnapshotPartition{SnapshotPartitionIdentity, SnapshotPartitionTeams}
}

// SnapshotWriter persists state after committed mutations. Enqueue must not
// block the caller and must not fail the triggering transition; write errors
// are logged by the implementation. Purge clears the given partitions and is
// synchronous so logout can report it.
type SnapshotWriter interface {
	Enqueue(partition SnapshotPartition, payload any)
	Purge(ctx context.Context, partitions ...SnapshotPartition) error
}
