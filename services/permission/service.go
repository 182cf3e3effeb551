package permission

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/guildops/permsync/storage"
)

// Client combines the session operations the permission service uses.
type Client interface {
	SnapshotClient
	ChannelEditor
}

// Service is the reconciliation entry point the command layer talks to:
// Preview builds a plan with no side effects, Sync builds and applies
// one, Prune drops stale policy references.
type Service struct {
	session Client
	store   storage.Store
	logger  *slog.Logger
}

func NewService(session Client, store storage.Store, logger *slog.Logger) *Service {
	return &Service{session: session, store: store, logger: logger}
}

// compiler loads the guild's stored policy into a Compiler.
func (s *Service) compiler(guildID string) (*Compiler, error) {
	levels, err := s.store.Levels(guildID)
	if err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}
	baselines, err := s.store.CategoryBaselines(guildID)
	if err != nil {
		return nil, fmt.Errorf("load baselines: %w", err)
	}
	rules, err := s.store.AccessRules(guildID)
	if err != nil {
		return nil, fmt.Errorf("load access rules: %w", err)
	}
	return NewCompiler(NewResolver(levels), baselines, rules.Rules), nil
}

// Preview computes the plan for a guild without applying anything.
// Calling it twice without intervening changes yields identical plans.
func (s *Service) Preview(ctx context.Context, guildID string) (*Plan, error) {
	compiler, err := s.compiler(guildID)
	if err != nil {
		return nil, err
	}
	snap, err := FetchSnapshot(s.session, guildID)
	if err != nil {
		return nil, err
	}
	plan := BuildPlan(snap, compiler)
	s.logger.InfoContext(ctx, "built permission plan",
		slog.String("guild_id", guildID),
		slog.Int("channels_changed", len(plan.Channels)),
		slog.Int("channels_unchanged", plan.Unchanged),
		slog.Int("warnings", len(plan.Warnings)),
	)
	return plan, nil
}

// Sync builds a fresh plan and applies it. The returned result always
// describes both successes and failures; a partial failure is not an
// error at this level.
func (s *Service) Sync(ctx context.Context, guildID string) (*Plan, *ApplyResult, error) {
	plan, err := s.Preview(ctx, guildID)
	if err != nil {
		return nil, nil, err
	}
	applier := NewApplier(s.session, s.logger)
	result := applier.Apply(ctx, plan)
	s.logger.InfoContext(ctx, "applied permission plan",
		slog.String("guild_id", guildID),
		slog.Int("applied", len(result.Applied)),
		slog.Int("failed", len(result.Failed)),
	)
	return plan, result, nil
}

// PruneReport counts the stale references removed per document.
type PruneReport struct {
	Rules       int
	Baselines   int
	BundleRoles int
	GroupRoles  int
}

// Total returns the number of removed entries across all documents.
func (r PruneReport) Total() int {
	return r.Rules + r.Baselines + r.BundleRoles + r.GroupRoles
}

// Prune removes policy references to Discord objects that no longer
// exist. It is the only write the permission service ever performs on
// the store, and it runs only on explicit admin request.
func (s *Service) Prune(ctx context.Context, guildID string) (PruneReport, error) {
	snap, err := FetchSnapshot(s.session, guildID)
	if err != nil {
		return PruneReport{}, err
	}
	validRoles := snap.ValidRoles()
	validTargets := snap.ValidTargets()
	validCategories := make(map[string]bool, len(snap.Categories))
	for _, c := range snap.Categories {
		validCategories[c.ID] = true
	}

	var report PruneReport
	if report.Rules, err = s.store.PruneAccessRules(guildID, validRoles, validTargets); err != nil {
		return report, fmt.Errorf("prune access rules: %w", err)
	}
	if report.Baselines, err = s.store.PruneCategoryBaselines(guildID, validCategories); err != nil {
		return report, fmt.Errorf("prune baselines: %w", err)
	}
	if report.BundleRoles, err = s.store.PruneBundleRoles(guildID, validRoles); err != nil {
		return report, fmt.Errorf("prune bundle roles: %w", err)
	}
	if report.GroupRoles, err = s.store.PruneGroupRoles(guildID, validRoles); err != nil {
		return report, fmt.Errorf("prune group roles: %w", err)
	}

	s.logger.InfoContext(ctx, "pruned stale policy references",
		slog.String("guild_id", guildID),
		slog.Int("removed", report.Total()),
	)
	return report, nil
}
