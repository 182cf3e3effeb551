package rolesevents

import sharedevents "github.com/guildops/permsync/events/shared"

const (
	BundleAssignRequested = "roles.bundle.assign.requested"
	BundleRemoveRequested = "roles.bundle.remove.requested"
)

// BundleRequestPayload asks for a bundle to be applied to or removed
// from one or more members.
type BundleRequestPayload struct {
	sharedevents.Invocation
	BundleName string   `json:"bundle_name"`
	MemberIDs  []string `json:"member_ids"`
}
