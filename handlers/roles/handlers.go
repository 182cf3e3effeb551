// Package roleshandlers consumes the bundle assign/remove topics.
package roleshandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/guildops/permsync/discord"
	rolesevents "github.com/guildops/permsync/events/roles"
	"github.com/guildops/permsync/services/access"
	"github.com/guildops/permsync/services/roles"
	"github.com/guildops/permsync/storage"
)

// Service is the slice of the roles service the handlers call.
type Service interface {
	AssignBundle(ctx context.Context, guildID, bundleName string, memberIDs []string) ([]roles.MemberResult, error)
	RemoveBundle(ctx context.Context, guildID, bundleName string, memberIDs []string) ([]roles.MemberResult, error)
}

// AccessChecker authorizes executors against stored scope grants.
type AccessChecker interface {
	Allowed(ctx context.Context, guildID string, executorRoleIDs []string, isAdmin bool, scope string) (bool, error)
}

// RoleHandlers handles bundle assignment events.
type RoleHandlers struct {
	service Service
	checker AccessChecker
	ops     discord.Operations
	logger  *slog.Logger
}

// NewRoleHandlers creates a new RoleHandlers.
func NewRoleHandlers(service Service, checker AccessChecker, ops discord.Operations, logger *slog.Logger) *RoleHandlers {
	return &RoleHandlers{
		service: service,
		checker: checker,
		ops:     ops,
		logger:  logger,
	}
}

// HandleBundleAssignRequested assigns a bundle to the requested members.
func (h *RoleHandlers) HandleBundleAssignRequested(msg *message.Message) error {
	return h.handle(msg, "assigned", h.service.AssignBundle)
}

// HandleBundleRemoveRequested removes a bundle from the requested members.
func (h *RoleHandlers) HandleBundleRemoveRequested(msg *message.Message) error {
	return h.handle(msg, "removed", h.service.RemoveBundle)
}

func (h *RoleHandlers) handle(msg *message.Message, verb string, run func(context.Context, string, string, []string) ([]roles.MemberResult, error)) error {
	ctx := msg.Context()
	var payload rolesevents.BundleRequestPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal bundle payload: %w", err)
	}

	allowed, err := h.checker.Allowed(ctx, payload.GuildID, payload.ExecutorRoleIDs, payload.ExecutorIsAdmin, access.ScopeAssign)
	if err != nil {
		return err
	}
	if !allowed {
		return h.ops.FollowupSend(ctx, payload.InteractionToken, "⛔ You don't have access to bundle commands.")
	}

	results, err := run(ctx, payload.GuildID, payload.BundleName, payload.MemberIDs)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return h.ops.FollowupSend(ctx, payload.InteractionToken,
				fmt.Sprintf("❌ Bundle `%s` does not exist.", payload.BundleName))
		}
		h.logger.ErrorContext(ctx, "bundle operation failed",
			slog.String("guild_id", payload.GuildID),
			slog.String("bundle", payload.BundleName),
			slog.Any("error", err))
		return h.ops.FollowupSend(ctx, payload.InteractionToken, "❌ Bundle operation failed. Check the bot's role position and try again.")
	}

	lines := []string{fmt.Sprintf("**Bundle `%s` %s:**", payload.BundleName, verb)}
	for _, r := range results {
		lines = append(lines, memberLine(r))
	}
	return h.ops.FollowupSendLines(ctx, payload.InteractionToken, lines)
}

func memberLine(r roles.MemberResult) string {
	if r.Err != nil {
		return fmt.Sprintf("❌ <@%s>: %v", r.MemberID, r.Err)
	}
	line := fmt.Sprintf("✅ <@%s>: %d role(s) added, %d removed", r.MemberID, len(r.Added), len(r.Removed))
	if len(r.Skipped) > 0 {
		line += fmt.Sprintf(" (%d skipped, above the bot's highest role)", len(r.Skipped))
	}
	return line
}
