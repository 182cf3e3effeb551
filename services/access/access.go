// Package access decides which roles may use which bot commands. Guild
// administrators always pass; everyone else needs a scope grant stored
// under bot_access for at least one of their roles.
package access

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guildops/permsync/storage"
)

const (
	ScopeAssign      = "assign"
	ScopeBundles     = "bundles"
	ScopeGroups      = "groups"
	ScopeAccessRules = "access_rules"
	ScopeLevels      = "levels"
	ScopeSync        = "sync"
	ScopeStatus      = "status"
)

// Scopes lists every grantable scope in display order.
var Scopes = []string{
	ScopeAssign,
	ScopeBundles,
	ScopeGroups,
	ScopeAccessRules,
	ScopeLevels,
	ScopeSync,
	ScopeStatus,
}

// ScopeLabels maps scopes to the names shown in command choices.
var ScopeLabels = map[string]string{
	ScopeAssign:      "Assign bundles",
	ScopeBundles:     "Manage bundles",
	ScopeGroups:      "Manage exclusive groups",
	ScopeAccessRules: "Manage access rules",
	ScopeLevels:      "Manage permission levels",
	ScopeSync:        "Preview and sync permissions",
	ScopeStatus:      "View status",
}

// CommandScopes maps each top-level command to the scope it requires.
var CommandScopes = map[string]string{
	"assign":              ScopeAssign,
	"remove":              ScopeAssign,
	"bundle":              ScopeBundles,
	"exclusive-group":     ScopeGroups,
	"access-rule":         ScopeAccessRules,
	"category":            ScopeAccessRules,
	"level":               ScopeLevels,
	"preview-permissions": ScopeSync,
	"sync-permissions":    ScopeSync,
	"prune":               ScopeSync,
	"status":              ScopeStatus,
}

// ValidScope reports whether name is a known scope.
func ValidScope(name string) bool {
	for _, s := range Scopes {
		if s == name {
			return true
		}
	}
	return false
}

// Checker answers authorization questions against the stored grants.
type Checker struct {
	store  storage.Store
	logger *slog.Logger
}

func NewChecker(store storage.Store, logger *slog.Logger) *Checker {
	return &Checker{store: store, logger: logger}
}

// Allowed reports whether an executor with the given roles may use scope.
// Administrators bypass grants entirely; bot-access management itself is
// administrator-only and never reaches here.
func (c *Checker) Allowed(ctx context.Context, guildID string, executorRoleIDs []string, isAdmin bool, scope string) (bool, error) {
	if isAdmin {
		return true, nil
	}
	grants, err := c.store.BotAccess(guildID)
	if err != nil {
		return false, fmt.Errorf("failed to load bot access grants: %w", err)
	}
	for _, roleID := range executorRoleIDs {
		for _, granted := range grants[roleID] {
			if granted == scope {
				return true, nil
			}
		}
	}
	c.logger.InfoContext(ctx, "command denied by scope check",
		slog.String("guild_id", guildID), slog.String("scope", scope))
	return false, nil
}
