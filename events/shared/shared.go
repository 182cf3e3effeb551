package sharedevents

// Invocation carries the slash-command context every handler needs: who
// ran the command, where, and the interaction token used to deliver the
// deferred response. Executor roles and the admin bit ride along so
// scope checks do not need another API round trip.
type Invocation struct {
	GuildID          string   `json:"guild_id"`
	InteractionToken string   `json:"interaction_token"`
	ExecutorID       string   `json:"executor_id"`
	ExecutorRoleIDs  []string `json:"executor_role_ids"`
	ExecutorIsAdmin  bool     `json:"executor_is_admin"`
}
