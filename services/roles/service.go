package roles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/permsync/discord"
	"github.com/guildops/permsync/storage"
)

// Client is the slice of the Discord session the roles service needs.
type Client interface {
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberEdit(guildID, userID string, data *discordgo.GuildMemberParams, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GetBotUser() (*discordgo.User, error)
}

// MemberResult reports what happened to one member during a bundle
// operation. Err is set when the member could not be processed at all;
// Skipped lists roles the bot was not allowed to touch.
type MemberResult struct {
	MemberID string
	Added    []string
	Removed  []string
	Skipped  []string
	Err      error
}

// Service assigns and removes role bundles.
type Service struct {
	session Client
	store   storage.Store
	logger  *slog.Logger
}

func NewService(session Client, store storage.Store, logger *slog.Logger) *Service {
	return &Service{session: session, store: store, logger: logger}
}

// guardInfo captures the role hierarchy facts needed to decide which
// roles the bot may manage in this guild.
type guardInfo struct {
	positions map[string]int
	managed   map[string]bool
	botTop    int
}

func (s *Service) loadGuard(ctx context.Context, guildID string) (*guardInfo, error) {
	var guild *discordgo.Guild
	err := discord.RetryDiscordAPI(s.logger, "guild_fetch", func() error {
		var apiErr error
		guild, apiErr = s.session.Guild(guildID)
		return apiErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
	}

	botUser, err := s.session.GetBotUser()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bot user: %w", err)
	}
	var botMember *discordgo.Member
	err = discord.RetryDiscordAPI(s.logger, "bot_member_fetch", func() error {
		var apiErr error
		botMember, apiErr = s.session.GuildMember(guildID, botUser.ID)
		return apiErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot member: %w", err)
	}

	info := &guardInfo{
		positions: make(map[string]int, len(guild.Roles)),
		managed:   make(map[string]bool, len(guild.Roles)),
	}
	for _, role := range guild.Roles {
		info.positions[role.ID] = role.Position
		info.managed[role.ID] = role.Managed
	}
	for _, roleID := range botMember.Roles {
		if pos, ok := info.positions[roleID]; ok && pos > info.botTop {
			info.botTop = pos
		}
	}
	return info, nil
}

// manageable reports whether the bot may add or remove roleID. Roles at
// or above the bot's highest role are out of reach, as are
// integration-managed roles.
func (g *guardInfo) manageable(roleID string) bool {
	if g.managed[roleID] {
		return false
	}
	return g.positions[roleID] < g.botTop
}

// AssignBundle grants a bundle's roles to each member, evicting
// conflicting exclusive-group roles. Failures on one member do not stop
// the others.
func (s *Service) AssignBundle(ctx context.Context, guildID, bundleName string, memberIDs []string) ([]MemberResult, error) {
	bundles, err := s.store.Bundles(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bundles: %w", err)
	}
	bundleRoles, ok := bundles[bundleName]
	if !ok {
		return nil, fmt.Errorf("bundle %q: %w", bundleName, storage.ErrNotFound)
	}
	groups, err := s.store.ExclusiveGroups(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusive groups: %w", err)
	}
	guard, err := s.loadGuard(ctx, guildID)
	if err != nil {
		return nil, err
	}

	results := make([]MemberResult, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.applyToMember(guildID, memberID, guard, func(member *discordgo.Member) Delta {
			return ResolveAssign(member.Roles, bundleRoles, groups)
		}))
	}
	return results, nil
}

// RemoveBundle removes a bundle's roles from each member.
func (s *Service) RemoveBundle(ctx context.Context, guildID, bundleName string, memberIDs []string) ([]MemberResult, error) {
	bundles, err := s.store.Bundles(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bundles: %w", err)
	}
	bundleRoles, ok := bundles[bundleName]
	if !ok {
		return nil, fmt.Errorf("bundle %q: %w", bundleName, storage.ErrNotFound)
	}
	guard, err := s.loadGuard(ctx, guildID)
	if err != nil {
		return nil, err
	}

	results := make([]MemberResult, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.applyToMember(guildID, memberID, guard, func(member *discordgo.Member) Delta {
			return ResolveRemove(member.Roles, bundleRoles)
		}))
	}
	return results, nil
}

func (s *Service) applyToMember(guildID, memberID string, guard *guardInfo, resolve func(*discordgo.Member) Delta) MemberResult {
	result := MemberResult{MemberID: memberID}

	var member *discordgo.Member
	err := discord.RetryDiscordAPI(s.logger, "member_fetch", func() error {
		var apiErr error
		member, apiErr = s.session.GuildMember(guildID, memberID)
		return apiErr
	})
	if err != nil {
		result.Err = fmt.Errorf("failed to fetch member: %w", err)
		return result
	}

	// Build the member's final role list and write it back in one edit,
	// so a transient failure never leaves the member half-modified.
	delta := resolve(member)
	dropping := make(map[string]bool, len(delta.Remove))
	for _, roleID := range delta.Remove {
		if !guard.manageable(roleID) {
			result.Skipped = append(result.Skipped, roleID)
			continue
		}
		dropping[roleID] = true
		result.Removed = append(result.Removed, roleID)
	}

	final := make([]string, 0, len(member.Roles)+len(delta.Add))
	for _, roleID := range member.Roles {
		if !dropping[roleID] {
			final = append(final, roleID)
		}
	}
	for _, roleID := range delta.Add {
		if !guard.manageable(roleID) {
			result.Skipped = append(result.Skipped, roleID)
			continue
		}
		final = append(final, roleID)
		result.Added = append(result.Added, roleID)
	}

	if len(result.Added) == 0 && len(result.Removed) == 0 {
		return result
	}

	err = discord.RetryDiscordAPI(s.logger, "member_roles_edit", func() error {
		_, editErr := s.session.GuildMemberEdit(guildID, memberID, &discordgo.GuildMemberParams{Roles: &final})
		return editErr
	})
	if err != nil {
		result.Added, result.Removed = nil, nil
		result.Err = fmt.Errorf("failed to update roles: %w", err)
		return result
	}

	s.logger.Info("bundle applied to member",
		slog.String("guild_id", guildID),
		slog.String("member_id", memberID),
		slog.Int("added", len(result.Added)),
		slog.Int("removed", len(result.Removed)),
		slog.Int("skipped", len(result.Skipped)))
	return result
}
