// Package roles applies role bundles to guild members. Assigning a
// bundle grants every role in it; roles that belong to an exclusive
// group push out whatever other group members the member currently
// holds, so a member never ends up in two seats of the same group.
package roles

import "sort"

// Delta is the set of role changes needed to bring one member in line
// with a bundle operation.
type Delta struct {
	Add    []string
	Remove []string
}

// Empty reports whether the delta changes nothing.
func (d Delta) Empty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}

// ResolveAssign computes the delta for assigning bundleRoles to a member
// who currently holds memberRoles. For every bundle role in an exclusive
// group, the member's other roles from that group are removed. The
// result is deterministic: both slices come back sorted and deduplicated.
func ResolveAssign(memberRoles, bundleRoles []string, groups map[string][]string) Delta {
	held := make(map[string]bool, len(memberRoles))
	for _, id := range memberRoles {
		held[id] = true
	}
	wanted := make(map[string]bool, len(bundleRoles))
	for _, id := range bundleRoles {
		wanted[id] = true
	}

	add := map[string]bool{}
	remove := map[string]bool{}
	for _, roleID := range bundleRoles {
		if !held[roleID] {
			add[roleID] = true
		}
		for _, groupRoles := range groups {
			if !contains(groupRoles, roleID) {
				continue
			}
			for _, other := range groupRoles {
				if other != roleID && held[other] && !wanted[other] {
					remove[other] = true
				}
			}
		}
	}
	return Delta{Add: sortedKeys(add), Remove: sortedKeys(remove)}
}

// ResolveRemove computes the delta for removing bundleRoles from a
// member: only the roles the member actually holds are removed.
func ResolveRemove(memberRoles, bundleRoles []string) Delta {
	held := make(map[string]bool, len(memberRoles))
	for _, id := range memberRoles {
		held[id] = true
	}
	remove := map[string]bool{}
	for _, roleID := range bundleRoles {
		if held[roleID] {
			remove[roleID] = true
		}
	}
	return Delta{Remove: sortedKeys(remove)}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
