package policyevents

import sharedevents "github.com/guildops/permsync/events/shared"

const (
	LevelCommand     = "policy.level.command"
	BundleCommand    = "policy.bundle.command"
	GroupCommand     = "policy.group.command"
	RuleCommand      = "policy.rule.command"
	CategoryCommand  = "policy.category.command"
	BotAccessCommand = "policy.botaccess.command"
	StatusRequested  = "policy.status.requested"
)

// CommandPayload is a policy-editing subcommand with its flattened
// option values. Options are already validated strings by the time the
// gateway publishes them; handlers re-validate anything that crosses
// into the store.
type CommandPayload struct {
	sharedevents.Invocation
	Subcommand string            `json:"subcommand"`
	Options    map[string]string `json:"options"`
}
