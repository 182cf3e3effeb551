// Package policyhandlers consumes the policy-editing command topics:
// levels, bundles, exclusive groups, category baselines, access rules,
// bot access grants and the status summary. These handlers write the
// store directly; nothing here talks to the Discord REST API except to
// deliver the follow-up response.
package policyhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/guildops/permsync/discord"
	policyevents "github.com/guildops/permsync/events/policy"
	"github.com/guildops/permsync/services/access"
	"github.com/guildops/permsync/services/permission"
	"github.com/guildops/permsync/storage"
)

// AccessChecker authorizes executors against stored scope grants.
type AccessChecker interface {
	Allowed(ctx context.Context, guildID string, executorRoleIDs []string, isAdmin bool, scope string) (bool, error)
}

// PolicyHandlers handles policy-editing events.
type PolicyHandlers struct {
	store   storage.Store
	checker AccessChecker
	ops     discord.Operations
	logger  *slog.Logger
}

// NewPolicyHandlers creates a new PolicyHandlers.
func NewPolicyHandlers(store storage.Store, checker AccessChecker, ops discord.Operations, logger *slog.Logger) *PolicyHandlers {
	return &PolicyHandlers{
		store:   store,
		checker: checker,
		ops:     ops,
		logger:  logger,
	}
}

func (h *PolicyHandlers) decode(msg *message.Message) (policyevents.CommandPayload, error) {
	var payload policyevents.CommandPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal policy payload: %w", err)
	}
	if payload.Options == nil {
		payload.Options = map[string]string{}
	}
	return payload, nil
}

// run wraps the shared decode, scope check and reply plumbing. The
// inner function returns report lines, or a line starting with ❌ for
// user-facing validation failures.
func (h *PolicyHandlers) run(msg *message.Message, scope string, fn func(ctx context.Context, p policyevents.CommandPayload) ([]string, error)) error {
	ctx := msg.Context()
	payload, err := h.decode(msg)
	if err != nil {
		return err
	}

	allowed, err := h.checker.Allowed(ctx, payload.GuildID, payload.ExecutorRoleIDs, payload.ExecutorIsAdmin, scope)
	if err != nil {
		return err
	}
	if !allowed {
		return h.ops.FollowupSend(ctx, payload.InteractionToken, "⛔ You don't have access to this command.")
	}

	lines, err := fn(ctx, payload)
	if err != nil {
		if friendly := friendlyStoreError(err); friendly != "" {
			return h.ops.FollowupSend(ctx, payload.InteractionToken, friendly)
		}
		h.logger.ErrorContext(ctx, "policy command failed",
			slog.String("guild_id", payload.GuildID),
			slog.String("subcommand", payload.Subcommand),
			slog.Any("error", err))
		return h.ops.FollowupSend(ctx, payload.InteractionToken, "❌ Something went wrong running that command.")
	}
	return h.ops.FollowupSendLines(ctx, payload.InteractionToken, lines)
}

func friendlyStoreError(err error) string {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return "❌ Not found: " + err.Error()
	case errors.Is(err, storage.ErrAlreadyExists):
		return "❌ Already exists: " + err.Error()
	case errors.Is(err, storage.ErrDuplicateRole):
		return "❌ That role is already in there."
	case errors.Is(err, storage.ErrRoleInOtherGroup):
		return "❌ That role already belongs to another exclusive group. A role can only be in one."
	case errors.Is(err, permission.ErrUnknownLevel):
		return "❌ Unknown permission level. Use `/level list` to see what's defined."
	case errors.Is(err, permission.ErrUnknownFlag):
		return "❌ Unknown permission flag. Use `/level show` to see flag names."
	}
	return ""
}

// HandleLevelCommand handles /level subcommands.
func (h *PolicyHandlers) HandleLevelCommand(msg *message.Message) error {
	return h.run(msg, access.ScopeLevels, func(ctx context.Context, p policyevents.CommandPayload) ([]string, error) {
		switch p.Subcommand {
		case "create":
			name := p.Options["name"]
			if err := h.store.CreateLevel(p.GuildID, name, p.Options["copy-from"]); err != nil {
				return nil, err
			}
			return []string{fmt.Sprintf("✅ Level `%s` created. Use `/level set` to configure its flags.", name)}, nil
		case "delete":
			name := p.Options["name"]
			if err := h.store.DeleteLevel(p.GuildID, name); err != nil {
				return nil, err
			}
			return []string{fmt.Sprintf("✅ Level `%s` deleted. Rules still referencing it will be skipped until you update or prune them.", name)}, nil
		case "set":
			return h.levelSet(p)
		case "show":
			return h.levelShow(p)
		case "reset":
			if err := h.store.ResetLevels(p.GuildID); err != nil {
				return nil, err
			}
			return []string{"✅ All levels reset to the factory defaults."}, nil
		case "list":
			return h.levelList(p)
		}
		return nil, fmt.Errorf("unknown /level subcommand %q", p.Subcommand)
	})
}

func (h *PolicyHandlers) levelSet(p policyevents.CommandPayload) ([]string, error) {
	flag, err := permission.ParseFlag(p.Options["flag"])
	if err != nil {
		return nil, err
	}
	var value *bool
	switch p.Options["value"] {
	case "allow":
		v := true
		value = &v
	case "deny":
		v := false
		value = &v
	case "neutral":
		value = nil
	default:
		return nil, fmt.Errorf("bad value %q", p.Options["value"])
	}
	name := p.Options["name"]
	if err := h.store.SetLevelFlag(p.GuildID, name, string(flag), value); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("✅ `%s` on level `%s` is now %s.", flag, name, p.Options["value"])}, nil
}

func (h *PolicyHandlers) levelShow(p policyevents.CommandPayload) ([]string, error) {
	stored, err := h.store.Levels(p.GuildID)
	if err != nil {
		return nil, err
	}
	name := p.Options["name"]
	levels, err := permission.NewResolver(stored).Resolve(name)
	if err != nil {
		return nil, err
	}

	groupNames := make([]string, 0, len(permission.FlagGroups))
	for groupName := range permission.FlagGroups {
		groupNames = append(groupNames, groupName)
	}
	sort.Strings(groupNames)

	lines := []string{fmt.Sprintf("**Level `%s`:**", name)}
	for _, groupName := range groupNames {
		var entries []string
		for _, flag := range permission.FlagGroups[groupName] {
			switch levels[flag] {
			case permission.Allow:
				entries = append(entries, "✅ "+string(flag))
			case permission.Deny:
				entries = append(entries, "❌ "+string(flag))
			}
		}
		if len(entries) == 0 {
			continue
		}
		lines = append(lines, "__"+groupName+"__")
		lines = append(lines, entries...)
	}
	if len(lines) == 1 {
		lines = append(lines, "All flags neutral (inherit).")
	}
	return lines, nil
}

func (h *PolicyHandlers) levelList(p policyevents.CommandPayload) ([]string, error) {
	stored, err := h.store.Levels(p.GuildID)
	if err != nil {
		return nil, err
	}
	lines := []string{"**Permission levels:**"}
	for _, name := range permission.NewResolver(stored).Names() {
		lines = append(lines, "• "+name)
	}
	return lines, nil
}

// HandleBundleCommand handles /bundle subcommands.
func (h *PolicyHandlers) HandleBundleCommand(msg *message.Message) error {
	return h.run(msg, access.ScopeBundles, func(ctx context.Context, p policyevents.CommandPayload) ([]string, error) {
		return h.namedRoleSet(p, "Bundle", roleSetOps{
			create:     h.store.CreateBundle,
			delete:     h.store.DeleteBundle,
			addRole:    h.store.AddBundleRole,
			removeRole: h.store.RemoveBundleRole,
			list:       h.store.Bundles,
		})
	})
}

// HandleGroupCommand handles /exclusive-group subcommands.
func (h *PolicyHandlers) HandleGroupCommand(msg *message.Message) error {
	return h.run(msg, access.ScopeGroups, func(ctx context.Context, p policyevents.CommandPayload) ([]string, error) {
		return h.namedRoleSet(p, "Exclusive group", roleSetOps{
			create:     h.store.CreateExclusiveGroup,
			delete:     h.store.DeleteExclusiveGroup,
			addRole:    h.store.AddGroupRole,
			removeRole: h.store.RemoveGroupRole,
			list:       h.store.ExclusiveGroups,
		})
	})
}

// roleSetOps abstracts the store surface bundles and exclusive groups
// share: named sets of role IDs with identical CRUD shapes.
type roleSetOps struct {
	create     func(guildID, name string) error
	delete     func(guildID, name string) error
	addRole    func(guildID, name, roleID string) error
	removeRole func(guildID, name, roleID string) error
	list       func(guildID string) (map[string][]string, error)
}

func (h *PolicyHandlers) namedRoleSet(p policyevents.CommandPayload, label string, ops roleSetOps) ([]string, error) {
	name := p.Options["name"]
	roleID := p.Options["role"]
	switch p.Subcommand {
	case "create":
		if err := ops.create(p.GuildID, name); err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("✅ %s `%s` created.", label, name)}, nil
	case "delete":
		if err := ops.delete(p.GuildID, name); err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("✅ %s `%s` deleted.", label, name)}, nil
	case "add-role":
		if err := ops.addRole(p.GuildID, name, roleID); err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("✅ <@&%s> added to `%s`.", roleID, name)}, nil
	case "remove-role":
		if err := ops.removeRole(p.GuildID, name, roleID); err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("✅ <@&%s> removed from `%s`.", roleID, name)}, nil
	case "list":
		sets, err := ops.list(p.GuildID)
		if err != nil {
			return nil, err
		}
		if len(sets) == 0 {
			return []string{fmt.Sprintf("No %ss defined yet.", strings.ToLower(label))}, nil
		}
		names := make([]string, 0, len(sets))
		for n := range sets {
			names = append(names, n)
		}
		sort.Strings(names)
		lines := []string{fmt.Sprintf("**%ss:**", label)}
		for _, n := range names {
			lines = append(lines, fmt.Sprintf("• `%s`: %s", n, roleMentions(sets[n])))
		}
		return lines, nil
	}
	return nil, fmt.Errorf("unknown subcommand %q", p.Subcommand)
}

// HandleCategoryCommand handles /category subcommands.
func (h *PolicyHandlers) HandleCategoryCommand(msg *message.Message) error {
	return h.run(msg, access.ScopeAccessRules, func(ctx context.Context, p policyevents.CommandPayload) ([]string, error) {
		switch p.Subcommand {
		case "set-baseline":
			level := p.Options["level"]
			if err := h.validateLevel(p.GuildID, level); err != nil {
				return nil, err
			}
			categoryID := p.Options["category"]
			if err := h.store.SetCategoryBaseline(p.GuildID, categoryID, level); err != nil {
				return nil, err
			}
			return []string{fmt.Sprintf("✅ Baseline for <#%s> set to `%s`. Run `/sync-permissions` to apply.", categoryID, level)}, nil
		case "clear-baseline":
			categoryID := p.Options["category"]
			if err := h.store.ClearCategoryBaseline(p.GuildID, categoryID); err != nil {
				return nil, err
			}
			return []string{fmt.Sprintf("✅ Baseline for <#%s> cleared. Run `/sync-permissions` to apply.", categoryID)}, nil
		case "list":
			baselines, err := h.store.CategoryBaselines(p.GuildID)
			if err != nil {
				return nil, err
			}
			if len(baselines) == 0 {
				return []string{"No category baselines configured."}, nil
			}
			ids := make([]string, 0, len(baselines))
			for id := range baselines {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			lines := []string{"**Category baselines:**"}
			for _, id := range ids {
				lines = append(lines, fmt.Sprintf("• <#%s> → `%s`", id, baselines[id]))
			}
			return lines, nil
		}
		return nil, fmt.Errorf("unknown /category subcommand %q", p.Subcommand)
	})
}

// HandleRuleCommand handles /access-rule subcommands.
func (h *PolicyHandlers) HandleRuleCommand(msg *message.Message) error {
	return h.run(msg, access.ScopeAccessRules, func(ctx context.Context, p policyevents.CommandPayload) ([]string, error) {
		switch p.Subcommand {
		case "add":
			return h.ruleAdd(p)
		case "remove":
			id, err := strconv.Atoi(p.Options["id"])
			if err != nil {
				return nil, fmt.Errorf("bad rule id %q", p.Options["id"])
			}
			if err := h.store.RemoveAccessRule(p.GuildID, id); err != nil {
				return nil, err
			}
			return []string{fmt.Sprintf("✅ Rule #%d removed. Run `/sync-permissions` to apply.", id)}, nil
		case "update":
			return h.ruleUpdate(p)
		case "list":
			return h.ruleList(p)
		}
		return nil, fmt.Errorf("unknown /access-rule subcommand %q", p.Subcommand)
	})
}

func (h *PolicyHandlers) ruleAdd(p policyevents.CommandPayload) ([]string, error) {
	level := p.Options["level"]
	if err := h.validateLevel(p.GuildID, level); err != nil {
		return nil, err
	}
	mode, err := parseMode(p.Options["mode"])
	if err != nil {
		return nil, err
	}
	rule := storage.AccessRule{
		RoleID:     p.Options["role"],
		TargetID:   p.Options["target"],
		TargetKind: storage.TargetChannel,
		Level:      level,
		Mode:       mode,
	}
	if p.Options["target_kind"] == "category" {
		rule.TargetKind = storage.TargetCategory
	}
	id, err := h.store.AddAccessRule(p.GuildID, rule)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("✅ Rule #%d added: %s `%s` for <@&%s> on <#%s>. Run `/sync-permissions` to apply.",
		id, rule.Mode, rule.Level, rule.RoleID, rule.TargetID)}, nil
}

func (h *PolicyHandlers) ruleUpdate(p policyevents.CommandPayload) ([]string, error) {
	id, err := strconv.Atoi(p.Options["id"])
	if err != nil {
		return nil, fmt.Errorf("bad rule id %q", p.Options["id"])
	}
	var level *string
	if v, ok := p.Options["level"]; ok && v != "" {
		if err := h.validateLevel(p.GuildID, v); err != nil {
			return nil, err
		}
		level = &v
	}
	var mode *storage.RuleMode
	if v, ok := p.Options["mode"]; ok && v != "" {
		parsed, err := parseMode(v)
		if err != nil {
			return nil, err
		}
		mode = &parsed
	}
	if level == nil && mode == nil {
		return []string{"❌ Nothing to update: pass a new level, a new mode, or both."}, nil
	}
	rule, err := h.store.UpdateAccessRule(p.GuildID, id, level, mode)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("✅ Rule #%d is now: %s", rule.ID, ruleLine(rule))}, nil
}

func (h *PolicyHandlers) ruleList(p policyevents.CommandPayload) ([]string, error) {
	doc, err := h.store.AccessRules(p.GuildID)
	if err != nil {
		return nil, err
	}
	if len(doc.Rules) == 0 {
		return []string{"No access rules defined."}, nil
	}
	lines := []string{"**Access rules:**"}
	for _, rule := range doc.Rules {
		lines = append(lines, fmt.Sprintf("`#%d` %s", rule.ID, ruleLine(rule)))
	}
	return lines, nil
}

// HandleBotAccessCommand handles /bot-access subcommands. Scope grants
// cannot authorize this command: only administrators manage grants.
func (h *PolicyHandlers) HandleBotAccessCommand(msg *message.Message) error {
	ctx := msg.Context()
	p, err := h.decode(msg)
	if err != nil {
		return err
	}
	if !p.ExecutorIsAdmin {
		return h.ops.FollowupSend(ctx, p.InteractionToken, "⛔ Only administrators can manage bot access.")
	}

	lines, err := h.botAccess(p)
	if err != nil {
		if friendly := friendlyStoreError(err); friendly != "" {
			return h.ops.FollowupSend(ctx, p.InteractionToken, friendly)
		}
		h.logger.ErrorContext(ctx, "bot-access command failed",
			slog.String("guild_id", p.GuildID), slog.Any("error", err))
		return h.ops.FollowupSend(ctx, p.InteractionToken, "❌ Something went wrong running that command.")
	}
	return h.ops.FollowupSendLines(ctx, p.InteractionToken, lines)
}

func (h *PolicyHandlers) botAccess(p policyevents.CommandPayload) ([]string, error) {
	roleID := p.Options["role"]
	scope := p.Options["scope"]
	switch p.Subcommand {
	case "grant":
		if !access.ValidScope(scope) {
			return nil, fmt.Errorf("unknown scope %q", scope)
		}
		if err := h.store.GrantScope(p.GuildID, roleID, scope); err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("✅ <@&%s> can now use: %s.", roleID, access.ScopeLabels[scope])}, nil
	case "revoke":
		if err := h.store.RevokeScope(p.GuildID, roleID, scope); err != nil {
			return nil, err
		}
		return []string{fmt.Sprintf("✅ Revoked %s from <@&%s>.", access.ScopeLabels[scope], roleID)}, nil
	case "list":
		grants, err := h.store.BotAccess(p.GuildID)
		if err != nil {
			return nil, err
		}
		if len(grants) == 0 {
			return []string{"No scope grants. Only administrators can use the bot."}, nil
		}
		roleIDs := make([]string, 0, len(grants))
		for id := range grants {
			roleIDs = append(roleIDs, id)
		}
		sort.Strings(roleIDs)
		lines := []string{"**Bot access grants:**"}
		for _, id := range roleIDs {
			scopes := append([]string(nil), grants[id]...)
			sort.Strings(scopes)
			lines = append(lines, fmt.Sprintf("• <@&%s>: %v", id, scopes))
		}
		return lines, nil
	}
	return nil, fmt.Errorf("unknown /bot-access subcommand %q", p.Subcommand)
}

// HandleStatusRequested summarizes the stored policy.
func (h *PolicyHandlers) HandleStatusRequested(msg *message.Message) error {
	return h.run(msg, access.ScopeStatus, func(ctx context.Context, p policyevents.CommandPayload) ([]string, error) {
		levels, err := h.store.Levels(p.GuildID)
		if err != nil {
			return nil, err
		}
		baselines, err := h.store.CategoryBaselines(p.GuildID)
		if err != nil {
			return nil, err
		}
		doc, err := h.store.AccessRules(p.GuildID)
		if err != nil {
			return nil, err
		}
		bundles, err := h.store.Bundles(p.GuildID)
		if err != nil {
			return nil, err
		}
		groups, err := h.store.ExclusiveGroups(p.GuildID)
		if err != nil {
			return nil, err
		}
		grants, err := h.store.BotAccess(p.GuildID)
		if err != nil {
			return nil, err
		}
		return []string{
			"**Policy status:**",
			fmt.Sprintf("• Permission levels: %d defined (%d total with defaults)", len(levels), len(permission.NewResolver(levels).Names())),
			fmt.Sprintf("• Category baselines: %d", len(baselines)),
			fmt.Sprintf("• Access rules: %d", len(doc.Rules)),
			fmt.Sprintf("• Bundles: %d", len(bundles)),
			fmt.Sprintf("• Exclusive groups: %d", len(groups)),
			fmt.Sprintf("• Roles with bot access: %d", len(grants)),
			"Run `/preview-permissions` to see what a sync would change.",
		}, nil
	})
}

// validateLevel rejects level names that neither the guild nor the
// defaults define, so bad names are caught at edit time instead of
// surfacing as sync warnings later.
func (h *PolicyHandlers) validateLevel(guildID, level string) error {
	stored, err := h.store.Levels(guildID)
	if err != nil {
		return err
	}
	_, err = permission.NewResolver(stored).Resolve(level)
	return err
}

func parseMode(raw string) (storage.RuleMode, error) {
	switch raw {
	case "", string(storage.ModeAllow):
		return storage.ModeAllow, nil
	case string(storage.ModeDeny):
		return storage.ModeDeny, nil
	}
	return "", fmt.Errorf("bad mode %q", raw)
}

func ruleLine(rule storage.AccessRule) string {
	target := fmt.Sprintf("<#%s>", rule.TargetID)
	if rule.TargetKind == storage.TargetCategory {
		target = fmt.Sprintf("category <#%s>", rule.TargetID)
	}
	return fmt.Sprintf("%s `%s` for <@&%s> on %s", rule.Mode, rule.Level, rule.RoleID, target)
}

func roleMentions(roleIDs []string) string {
	if len(roleIDs) == 0 {
		return "(empty)"
	}
	out := ""
	for i, id := range roleIDs {
		if i > 0 {
			out += ", "
		}
		out += "<@&" + id + ">"
	}
	return out
}
