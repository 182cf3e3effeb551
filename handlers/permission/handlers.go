// Package permissionhandlers consumes the reconciliation topics:
// preview, sync and prune. Each handler re-checks the executor's scope,
// runs the permission service and delivers the report through the
// interaction token the gateway stashed in the payload.
package permissionhandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/guildops/permsync/discord"
	permissionevents "github.com/guildops/permsync/events/permission"
	"github.com/guildops/permsync/services/access"
	"github.com/guildops/permsync/services/permission"
)

// Service is the slice of the permission service the handlers call.
type Service interface {
	Preview(ctx context.Context, guildID string) (*permission.Plan, error)
	Sync(ctx context.Context, guildID string) (*permission.Plan, *permission.ApplyResult, error)
	Prune(ctx context.Context, guildID string) (permission.PruneReport, error)
}

// AccessChecker authorizes executors against stored scope grants.
type AccessChecker interface {
	Allowed(ctx context.Context, guildID string, executorRoleIDs []string, isAdmin bool, scope string) (bool, error)
}

// PermissionHandlers handles reconciliation events.
type PermissionHandlers struct {
	service Service
	checker AccessChecker
	ops     discord.Operations
	logger  *slog.Logger
}

// NewPermissionHandlers creates a new PermissionHandlers.
func NewPermissionHandlers(service Service, checker AccessChecker, ops discord.Operations, logger *slog.Logger) *PermissionHandlers {
	return &PermissionHandlers{
		service: service,
		checker: checker,
		ops:     ops,
		logger:  logger,
	}
}

func (h *PermissionHandlers) decode(msg *message.Message) (permissionevents.ReconcileRequestPayload, error) {
	var payload permissionevents.ReconcileRequestPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal reconcile payload: %w", err)
	}
	return payload, nil
}

// authorize runs the scope check and notifies the executor on denial.
// It returns false when the handler should stop without error.
func (h *PermissionHandlers) authorize(ctx context.Context, payload permissionevents.ReconcileRequestPayload) (bool, error) {
	allowed, err := h.checker.Allowed(ctx, payload.GuildID, payload.ExecutorRoleIDs, payload.ExecutorIsAdmin, access.ScopeSync)
	if err != nil {
		return false, err
	}
	if !allowed {
		return false, h.ops.FollowupSend(ctx, payload.InteractionToken, "⛔ You don't have access to permission sync commands.")
	}
	return true, nil
}

// HandlePreviewRequested builds a plan and reports it without applying.
func (h *PermissionHandlers) HandlePreviewRequested(msg *message.Message) error {
	ctx := msg.Context()
	payload, err := h.decode(msg)
	if err != nil {
		return err
	}
	ok, err := h.authorize(ctx, payload)
	if err != nil || !ok {
		return err
	}

	plan, err := h.service.Preview(ctx, payload.GuildID)
	if err != nil {
		h.logger.ErrorContext(ctx, "preview failed",
			slog.String("guild_id", payload.GuildID), slog.Any("error", err))
		return h.ops.FollowupSend(ctx, payload.InteractionToken, "❌ Preview failed. Check the bot's permissions and try again.")
	}

	lines := append([]string{"**Permission preview** (nothing has been changed):"}, plan.Summary()...)
	if !plan.Empty() {
		lines = append(lines, fmt.Sprintf("%d channel(s) would change, %d already in sync. Run `/sync-permissions` to apply.", len(plan.Channels), plan.Unchanged))
	}
	return h.ops.FollowupSendLines(ctx, payload.InteractionToken, lines)
}

// HandleSyncRequested builds a plan, applies it and reports the result.
func (h *PermissionHandlers) HandleSyncRequested(msg *message.Message) error {
	ctx := msg.Context()
	payload, err := h.decode(msg)
	if err != nil {
		return err
	}
	ok, err := h.authorize(ctx, payload)
	if err != nil || !ok {
		return err
	}

	plan, result, err := h.service.Sync(ctx, payload.GuildID)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync failed",
			slog.String("guild_id", payload.GuildID), slog.Any("error", err))
		return h.ops.FollowupSend(ctx, payload.InteractionToken, "❌ Sync failed. Check the bot's permissions and try again.")
	}

	if plan.Empty() {
		lines := append(plan.Summary(), "Nothing to apply.")
		return h.ops.FollowupSendLines(ctx, payload.InteractionToken, lines)
	}

	lines := []string{fmt.Sprintf("**Sync complete**: %d change(s) applied across %d channel(s).", len(result.Applied), len(plan.Channels)-len(result.Failed))}
	for _, w := range plan.Warnings {
		lines = append(lines, "⚠️ "+w)
	}
	for _, failed := range result.Failed {
		lines = append(lines, fmt.Sprintf("❌ #%s could not be updated: %s", failed.ChannelName, failed.Err))
	}
	return h.ops.FollowupSendLines(ctx, payload.InteractionToken, lines)
}

// HandlePruneRequested drops stale policy references and reports counts.
func (h *PermissionHandlers) HandlePruneRequested(msg *message.Message) error {
	ctx := msg.Context()
	payload, err := h.decode(msg)
	if err != nil {
		return err
	}
	ok, err := h.authorize(ctx, payload)
	if err != nil || !ok {
		return err
	}

	report, err := h.service.Prune(ctx, payload.GuildID)
	if err != nil {
		h.logger.ErrorContext(ctx, "prune failed",
			slog.String("guild_id", payload.GuildID), slog.Any("error", err))
		return h.ops.FollowupSend(ctx, payload.InteractionToken, "❌ Prune failed.")
	}

	if report.Total() == 0 {
		return h.ops.FollowupSend(ctx, payload.InteractionToken, "✅ No stale references found.")
	}
	lines := []string{
		fmt.Sprintf("**Pruned %d stale reference(s):**", report.Total()),
		fmt.Sprintf("• Access rules: %d", report.Rules),
		fmt.Sprintf("• Category baselines: %d", report.Baselines),
		fmt.Sprintf("• Bundle roles: %d", report.BundleRoles),
		fmt.Sprintf("• Exclusive group roles: %d", report.GroupRoles),
	}
	return h.ops.FollowupSendLines(ctx, payload.InteractionToken, lines)
}
