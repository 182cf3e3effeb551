package permissionevents

import sharedevents "github.com/guildops/permsync/events/shared"

const (
	PreviewRequested = "permission.preview.requested"
	SyncRequested    = "permission.sync.requested"
	PruneRequested   = "permission.prune.requested"
)

// ReconcileRequestPayload is shared by preview, sync and prune: they all
// operate on the whole guild and carry no arguments of their own.
type ReconcileRequestPayload struct {
	sharedevents.Invocation
}
