package permission

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
	"github.com/guildops/permsync/storage"
)

// Overwrite is a compiled role overwrite: allow and deny bitmasks in the
// discordgo representation. A flag in neither mask is neutral (inherits).
type Overwrite struct {
	Allow int64
	Deny  int64
}

// IsZero reports whether the overwrite carries no explicit flag at all.
// A zero overwrite is never emitted; the role is omitted instead so the
// channel falls back to pure inheritance.
func (o Overwrite) IsZero() bool {
	return o.Allow == 0 && o.Deny == 0
}

// Entry is one compiled role overwrite together with a human-readable
// provenance label for the preview report.
type Entry struct {
	Overwrite Overwrite
	Source    string
}

// Compiler turns the stored policy for one guild into desired overwrite
// sets per channel. It is a pure read-side component: stale references
// produce warnings, never errors, so one bad rule cannot block the rest
// of the guild.
type Compiler struct {
	resolver  *Resolver
	baselines map[string]string
	rules     []storage.AccessRule
}

// NewCompiler builds a compiler over a guild's stored policy.
func NewCompiler(resolver *Resolver, baselines map[string]string, rules []storage.AccessRule) *Compiler {
	return &Compiler{resolver: resolver, baselines: baselines, rules: rules}
}

// compileLevel resolves a level into an Overwrite under the given rule
// mode. Deny mode inverts grants into a block: every explicit flag in
// the level becomes a deny, neutral flags stay neutral.
func (c *Compiler) compileLevel(levelName string, mode storage.RuleMode) (Overwrite, error) {
	resolved, err := c.resolver.Resolve(levelName)
	if err != nil {
		return Overwrite{}, err
	}

	var o Overwrite
	for flag, state := range resolved {
		if state == Neutral {
			continue
		}
		bit := flag.Bit()
		if mode == storage.ModeDeny || state == Deny {
			o.Deny |= bit
		} else {
			o.Allow |= bit
		}
	}
	return o, nil
}

// ruleTier orders rule specificity: channel-scope rules beat
// category-scope rules for the same role.
const (
	tierCategory = 1
	tierChannel  = 2
)

type candidate struct {
	rule storage.AccessRule
	tier int
}

// betterThan implements the precedence policy: higher tier wins, and
// within a tier the higher rule ID wins (last-write-wins, a deliberate
// tie-break inherited from the stored rule ordering).
func (a candidate) betterThan(b candidate) bool {
	if a.tier != b.tier {
		return a.tier > b.tier
	}
	return a.rule.ID > b.rule.ID
}

// CompileTarget computes the desired role→overwrite mapping for one
// category or channel. categoryID is the target's own ID when the target
// is a category, or the parent category ID (possibly empty) for a
// channel. everyoneID is the guild's @everyone role ID.
func (c *Compiler) CompileTarget(target *discordgo.Channel, everyoneID string, validRoles map[string]bool) (map[string]Entry, []string) {
	desired := make(map[string]Entry)
	var warnings []string

	isCategory := target.Type == discordgo.ChannelTypeGuildCategory
	categoryID := target.ParentID
	if isCategory {
		categoryID = target.ID
	}

	// @everyone baseline from the category. No baseline means no entry:
	// the channel inherits the server default.
	if levelName, ok := c.baselines[categoryID]; ok {
		o, err := c.compileLevel(levelName, storage.ModeAllow)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("baseline for category %s: unknown level %q", categoryID, levelName))
		} else if !o.IsZero() {
			desired[everyoneID] = Entry{
				Overwrite: o,
				Source:    fmt.Sprintf("@everyone baseline → %s", levelName),
			}
		}
	}

	// Pick the winning rule per role.
	winners := make(map[string]candidate)
	for _, rule := range c.rules {
		var tier int
		switch {
		case !isCategory && rule.TargetKind == storage.TargetChannel && rule.TargetID == target.ID:
			tier = tierChannel
		case rule.TargetKind == storage.TargetCategory && rule.TargetID == categoryID && categoryID != "":
			tier = tierCategory
		default:
			continue
		}
		cand := candidate{rule: rule, tier: tier}
		if prev, ok := winners[rule.RoleID]; !ok || cand.betterThan(prev) {
			winners[rule.RoleID] = cand
		}
	}

	for roleID, cand := range winners {
		if !validRoles[roleID] {
			warnings = append(warnings, fmt.Sprintf("rule #%d: role %s no longer exists", cand.rule.ID, roleID))
			continue
		}
		o, err := c.compileLevel(cand.rule.Level, cand.rule.Mode)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("rule #%d: unknown level %q", cand.rule.ID, cand.rule.Level))
			continue
		}
		if o.IsZero() {
			continue
		}
		source := fmt.Sprintf("rule #%d → %s", cand.rule.ID, cand.rule.Level)
		if cand.rule.Mode == storage.ModeDeny {
			source += " (deny)"
		}
		desired[roleID] = Entry{Overwrite: o, Source: source}
	}

	sort.Strings(warnings)
	return desired, warnings
}

// StaleTargetWarnings reports rules whose target category or channel no
// longer exists. Such rules can never match any compile pass, so the
// plan builder surfaces them once instead of letting them drop out of
// the diff silently.
func (c *Compiler) StaleTargetWarnings(validTargets map[string]bool) []string {
	var warnings []string
	for _, rule := range c.rules {
		if !validTargets[rule.TargetID] {
			warnings = append(warnings, fmt.Sprintf("rule #%d: target %s no longer exists", rule.ID, rule.TargetID))
		}
	}
	sort.Strings(warnings)
	return warnings
}

// ManagedRoles returns the set of role IDs this guild's policy claims
// ownership of: the @everyone role when any baseline exists, plus every
// role named by an access rule. Only overwrites for managed roles are
// ever cleared during reconciliation; anything an admin configured by
// hand outside the policy is left alone.
func (c *Compiler) ManagedRoles(everyoneID string) map[string]bool {
	managed := make(map[string]bool)
	if len(c.baselines) > 0 {
		managed[everyoneID] = true
	}
	for _, rule := range c.rules {
		managed[rule.RoleID] = true
	}
	return managed
}
