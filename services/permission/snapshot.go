package permission

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// SnapshotClient is the slice of the Discord session the snapshot
// fetcher needs.
type SnapshotClient interface {
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
}

// Snapshot is a read-only view of a guild's hierarchy: roles, categories,
// channels and their currently applied permission overwrites. Plans are a
// pure function of a snapshot plus the stored policy.
type Snapshot struct {
	GuildID    string
	EveryoneID string

	Roles      map[string]*discordgo.Role
	Categories []*discordgo.Channel
	Channels   []*discordgo.Channel
}

// FetchSnapshot reads the guild's roles and channel hierarchy in two
// calls. Categories and channels come back sorted by ID so everything
// derived from the snapshot is deterministic.
func FetchSnapshot(client SnapshotClient, guildID string) (*Snapshot, error) {
	guild, err := client.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("fetch guild %s: %w", guildID, err)
	}
	channels, err := client.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("fetch channels for guild %s: %w", guildID, err)
	}

	snap := &Snapshot{
		GuildID: guildID,
		// Discord guarantees the @everyone role ID equals the guild ID.
		EveryoneID: guildID,
		Roles:      make(map[string]*discordgo.Role, len(guild.Roles)),
	}
	for _, role := range guild.Roles {
		snap.Roles[role.ID] = role
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory {
			snap.Categories = append(snap.Categories, ch)
		} else {
			snap.Channels = append(snap.Channels, ch)
		}
	}
	sort.Slice(snap.Categories, func(i, j int) bool { return snap.Categories[i].ID < snap.Categories[j].ID })
	sort.Slice(snap.Channels, func(i, j int) bool { return snap.Channels[i].ID < snap.Channels[j].ID })
	return snap, nil
}

// Targets returns every permission-bearing object in diff order:
// categories first, then channels, each sorted by ID.
func (s *Snapshot) Targets() []*discordgo.Channel {
	targets := make([]*discordgo.Channel, 0, len(s.Categories)+len(s.Channels))
	targets = append(targets, s.Categories...)
	targets = append(targets, s.Channels...)
	return targets
}

// ValidRoles returns the set of live role IDs, used for stale-reference
// detection and pruning.
func (s *Snapshot) ValidRoles() map[string]bool {
	valid := make(map[string]bool, len(s.Roles))
	for id := range s.Roles {
		valid[id] = true
	}
	return valid
}

// ValidTargets returns the set of live category and channel IDs.
func (s *Snapshot) ValidTargets() map[string]bool {
	valid := make(map[string]bool, len(s.Categories)+len(s.Channels))
	for _, c := range s.Categories {
		valid[c.ID] = true
	}
	for _, c := range s.Channels {
		valid[c.ID] = true
	}
	return valid
}

// RoleLabel resolves a role ID to a display name for reports.
func (s *Snapshot) RoleLabel(roleID string) string {
	if roleID == s.EveryoneID {
		return "@everyone"
	}
	if role, ok := s.Roles[roleID]; ok {
		return role.Name
	}
	return roleID
}
