package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/permsync/services/access"
)

var (
	adminOnly       = int64(discordgo.PermissionAdministrator)
	manageRolesOnly = int64(discordgo.PermissionManageRoles)
	noDM            = false
)

func levelNameOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func modeChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Allow", Value: "Allow"},
		{Name: "Deny", Value: "Deny"},
	}
}

func scopeChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(access.Scopes))
	for _, scope := range access.Scopes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  access.ScopeLabels[scope],
			Value: scope,
		})
	}
	return choices
}

func memberOptions() []*discordgo.ApplicationCommandOption {
	opts := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "member",
			Description: "Member to modify",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "bundle",
			Description: "Name of the bundle",
			Required:    true,
		},
	}
	for i := 2; i <= 5; i++ {
		opts = append(opts, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        fmt.Sprintf("member%d", i),
			Description: "Additional member",
		})
	}
	return opts
}

// Commands returns every slash command the bot registers.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     "preview-permissions",
			Description:              "Show what /sync-permissions would change without applying anything.",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &noDM,
		},
		{
			Name:                     "sync-permissions",
			Description:              "Apply all configured permission levels and access rules to the server.",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &noDM,
		},
		{
			Name:                     "prune",
			Description:              "Remove policy references to deleted roles, categories and channels.",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &noDM,
		},
		{
			Name:                     "status",
			Description:              "Show a summary of the stored permission policy.",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &noDM,
		},
		{
			Name:                     "assign",
			Description:              "Assign a role bundle to one or more members.",
			DefaultMemberPermissions: &manageRolesOnly,
			DMPermission:             &noDM,
			Options:                  memberOptions(),
		},
		{
			Name:                     "remove",
			Description:              "Remove a role bundle from one or more members.",
			DefaultMemberPermissions: &manageRolesOnly,
			DMPermission:             &noDM,
			Options:                  memberOptions(),
		},
		{
			Name:                     "bundle",
			Description:              "Manage role bundles.",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a new bundle.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Bundle name", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a bundle.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Bundle name", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add-role",
					Description: "Add a role to a bundle.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Bundle name", true),
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to add",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove-role",
					Description: "Remove a role from a bundle.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Bundle name", true),
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all bundles.",
				},
			},
		},
		{
			Name:                     "exclusive-group",
			Description:              "Manage exclusive role groups.",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a new exclusive group.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Group name", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete an exclusive group.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Group name", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add-role",
					Description: "Add a role to an exclusive group.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Group name", true),
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to add",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove-role",
					Description: "Remove a role from an exclusive group.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Group name", true),
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all exclusive groups.",
				},
			},
		},
		{
			Name:                     "category",
			Description:              "Manage category baseline permissions.",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set-baseline",
					Description: "Set the @everyone baseline level for a category.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "category",
							Description: "Category to configure",
							Required:    true,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildCategory,
							},
						},
						levelNameOption("level", "Permission level name", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clear-baseline",
					Description: "Clear a category's baseline.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "category",
							Description: "Category to clear",
							Required:    true,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildCategory,
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List configured baselines.",
				},
			},
		},
		{
			Name:                     "access-rule",
			Description:              "Manage role access rules.",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Grant a role a permission level on a category or channel.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role the rule applies to",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "target",
							Description: "Category or channel the rule targets",
							Required:    true,
						},
						levelNameOption("level", "Permission level name", true),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "Allow grants the level; Deny blocks it",
							Choices:     modeChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove an access rule by ID.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Rule ID",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "update",
					Description: "Update an access rule's level or mode.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Rule ID",
							Required:    true,
						},
						levelNameOption("level", "New permission level", false),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "mode",
							Description: "New overwrite mode",
							Choices:     modeChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all access rules.",
				},
			},
		},
		{
			Name:                     "level",
			Description:              "Manage permission level definitions.",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create a new permission level.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Level name", true),
						levelNameOption("copy-from", "Existing level to clone", false),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a permission level.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Level name", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Set a single permission flag on a level.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Level name", true),
						levelNameOption("flag", "Permission flag name", true),
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "value",
							Description: "allow, deny, or neutral (inherit)",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Allow", Value: "allow"},
								{Name: "Deny", Value: "deny"},
								{Name: "Neutral", Value: "neutral"},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "show",
					Description: "Show a level's flags.",
					Options: []*discordgo.ApplicationCommandOption{
						levelNameOption("name", "Level name", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reset",
					Description: "Reset all levels to the factory defaults.",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List all permission levels.",
				},
			},
		},
		{
			Name:                     "bot-access",
			Description:              "Grant or revoke command scopes for roles.",
			DefaultMemberPermissions: &adminOnly,
			DMPermission:             &noDM,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "grant",
					Description: "Grant a scope to a role.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to grant the scope to",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "scope",
							Description: "Command scope",
							Required:    true,
							Choices:     scopeChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "revoke",
					Description: "Revoke a scope from a role.",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "Role to revoke the scope from",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "scope",
							Description: "Command scope",
							Required:    true,
							Choices:     scopeChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List scope grants.",
				},
			},
		},
	}
}

// RegisterCommands registers the bot's slash commands with Discord. When
// guildID is set the commands register guild-scoped for instant updates
// (dev mode); otherwise they register globally.
func RegisterCommands(s Session, appID, guildID string, logger *slog.Logger) error {
	for _, cmd := range Commands() {
		if _, err := s.ApplicationCommandCreate(appID, guildID, cmd); err != nil {
			logger.Error("Failed to create command",
				slog.String("command", cmd.Name), slog.Any("error", err))
			return fmt.Errorf("failed to create '/%s' command: %w", cmd.Name, err)
		}
		logger.Info("registered command", slog.String("command", "/"+cmd.Name))
	}
	return nil
}
