package permission

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// OpKind classifies a single planned change.
type OpKind string

const (
	OpSet   OpKind = "set"   // create or replace a role overwrite
	OpClear OpKind = "clear" // remove a managed role overwrite
)

// ChannelChange is one planned overwrite change on one channel for one
// role.
type ChannelChange struct {
	ChannelID   string
	ChannelName string
	RoleID      string
	RoleLabel   string
	Kind        OpKind
	Desired     Overwrite
	Source      string
}

// ChannelOps groups a channel's changes together with the complete
// overwrite list the channel should end up with. The applier issues the
// final list as one batched edit per channel, so a partially applied
// per-role state is never visible.
type ChannelOps struct {
	ChannelID   string
	ChannelName string
	Changes     []ChannelChange
	Final       []*discordgo.PermissionOverwrite
}

// Plan is the ordered diff between desired and current state for a
// guild. It is derived per invocation and never persisted; re-running
// the builder on an identical snapshot yields an identical plan.
type Plan struct {
	GuildID   string
	Channels  []ChannelOps
	Unchanged int
	Warnings  []string
}

// Empty reports whether the plan contains no operations.
func (p *Plan) Empty() bool { return len(p.Channels) == 0 }

// Operations returns every change in plan order.
func (p *Plan) Operations() []ChannelChange {
	var ops []ChannelChange
	for _, ch := range p.Channels {
		ops = append(ops, ch.Changes...)
	}
	return ops
}

// Summary renders the plan as human-readable report lines for preview.
func (p *Plan) Summary() []string {
	var lines []string
	for _, w := range p.Warnings {
		lines = append(lines, "⚠️ "+w)
	}
	for _, ch := range p.Channels {
		for _, op := range ch.Changes {
			switch op.Kind {
			case OpSet:
				lines = append(lines, fmt.Sprintf("📝 #%s  |  %s  →  %s", op.ChannelName, op.RoleLabel, op.Source))
			case OpClear:
				lines = append(lines, fmt.Sprintf("🗑️ #%s  |  %s  →  (removed, no longer in policy)", op.ChannelName, op.RoleLabel))
			}
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "✅ No permission changes detected.")
	}
	return lines
}

// BuildPlan diffs the compiled desired state against the snapshot's
// current overwrites. Only managed roles are ever cleared: overwrites an
// admin configured by hand for roles outside the policy are preserved.
func BuildPlan(snap *Snapshot, compiler *Compiler) *Plan {
	plan := &Plan{GuildID: snap.GuildID}
	managed := compiler.ManagedRoles(snap.EveryoneID)
	validRoles := snap.ValidRoles()

	seenWarnings := make(map[string]bool)
	for _, w := range compiler.StaleTargetWarnings(snap.ValidTargets()) {
		if !seenWarnings[w] {
			seenWarnings[w] = true
			plan.Warnings = append(plan.Warnings, w)
		}
	}

	for _, target := range snap.Targets() {
		desired, warnings := compiler.CompileTarget(target, snap.EveryoneID, validRoles)
		for _, w := range warnings {
			// The same stale rule warns on every channel it touches;
			// report it once.
			if !seenWarnings[w] {
				seenWarnings[w] = true
				plan.Warnings = append(plan.Warnings, w)
			}
		}

		ops := diffTarget(target, desired, managed, snap)
		if len(ops.Changes) == 0 {
			plan.Unchanged++
			continue
		}
		plan.Channels = append(plan.Channels, ops)
	}

	sort.Strings(plan.Warnings)
	return plan
}

func diffTarget(target *discordgo.Channel, desired map[string]Entry, managed map[string]bool, snap *Snapshot) ChannelOps {
	ops := ChannelOps{ChannelID: target.ID, ChannelName: target.Name}

	current := make(map[string]*discordgo.PermissionOverwrite)
	for _, ow := range target.PermissionOverwrites {
		if ow.Type == discordgo.PermissionOverwriteTypeRole {
			current[ow.ID] = ow
		}
	}

	roleIDs := make([]string, 0, len(desired))
	for roleID := range desired {
		roleIDs = append(roleIDs, roleID)
	}
	sort.Strings(roleIDs)

	for _, roleID := range roleIDs {
		entry := desired[roleID]
		cur, exists := current[roleID]
		if exists && cur.Allow == entry.Overwrite.Allow && cur.Deny == entry.Overwrite.Deny {
			continue
		}
		ops.Changes = append(ops.Changes, ChannelChange{
			ChannelID:   target.ID,
			ChannelName: target.Name,
			RoleID:      roleID,
			RoleLabel:   snap.RoleLabel(roleID),
			Kind:        OpSet,
			Desired:     entry.Overwrite,
			Source:      entry.Source,
		})
	}

	clearIDs := make([]string, 0)
	for roleID := range current {
		if _, wanted := desired[roleID]; !wanted && managed[roleID] {
			clearIDs = append(clearIDs, roleID)
		}
	}
	sort.Strings(clearIDs)
	for _, roleID := range clearIDs {
		ops.Changes = append(ops.Changes, ChannelChange{
			ChannelID:   target.ID,
			ChannelName: target.Name,
			RoleID:      roleID,
			RoleLabel:   snap.RoleLabel(roleID),
			Kind:        OpClear,
		})
	}

	if len(ops.Changes) > 0 {
		ops.Final = finalOverwrites(target, desired, managed)
	}
	return ops
}

// finalOverwrites computes the complete overwrite list the channel
// should carry after the plan applies: desired managed-role overwrites
// plus every member overwrite and unmanaged role overwrite as-is.
func finalOverwrites(target *discordgo.Channel, desired map[string]Entry, managed map[string]bool) []*discordgo.PermissionOverwrite {
	var final []*discordgo.PermissionOverwrite

	for _, ow := range target.PermissionOverwrites {
		if ow.Type == discordgo.PermissionOverwriteTypeRole {
			if _, replaced := desired[ow.ID]; replaced {
				continue
			}
			if managed[ow.ID] {
				continue // cleared
			}
		}
		final = append(final, ow)
	}
	for roleID, entry := range desired {
		final = append(final, &discordgo.PermissionOverwrite{
			ID:    roleID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: entry.Overwrite.Allow,
			Deny:  entry.Overwrite.Deny,
		})
	}

	sort.Slice(final, func(i, j int) bool {
		if final[i].Type != final[j].Type {
			return final[i].Type < final[j].Type
		}
		return final[i].ID < final[j].ID
	})
	return final
}
