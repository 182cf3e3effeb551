package discord

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"

	permissionevents "github.com/guildops/permsync/events/permission"
	policyevents "github.com/guildops/permsync/events/policy"
	rolesevents "github.com/guildops/permsync/events/roles"
	sharedevents "github.com/guildops/permsync/events/shared"
	"github.com/guildops/permsync/helpers"
)

// GatewayEventHandler turns Discord interactions into bus events. It
// never touches the store or the services directly: every command is
// acknowledged with a deferred ephemeral response and the work happens
// in a router handler, which delivers the result through the
// interaction token.
type GatewayEventHandler struct {
	session   Session
	publisher message.Publisher
	logger    *slog.Logger
}

func NewGatewayEventHandler(session Session, publisher message.Publisher, logger *slog.Logger) *GatewayEventHandler {
	return &GatewayEventHandler{
		session:   session,
		publisher: publisher,
		logger:    logger,
	}
}

// Register attaches the handler to the session's event stream.
func (g *GatewayEventHandler) Register() {
	g.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		g.HandleInteractionCreate(i)
	})
}

// HandleInteractionCreate routes a slash command to its bus topic.
func (g *GatewayEventHandler) HandleInteractionCreate(i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.GuildID == "" || i.Member == nil || i.Member.User == nil {
		g.respondNow(i, "❌ This command can only be used in a server.")
		return
	}

	data := i.ApplicationCommandData()
	inv := sharedevents.Invocation{
		GuildID:          i.GuildID,
		InteractionToken: i.Token,
		ExecutorID:       i.Member.User.ID,
		ExecutorRoleIDs:  i.Member.Roles,
		ExecutorIsAdmin:  i.Member.Permissions&discordgo.PermissionAdministrator != 0,
	}

	topic, payload := g.routeCommand(data, inv)
	if topic == "" {
		g.respondNow(i, fmt.Sprintf("❌ Unknown command `/%s`.", data.Name))
		return
	}

	if err := g.deferEphemeral(i); err != nil {
		g.logger.Error("Failed to acknowledge interaction",
			slog.String("command", data.Name), slog.Any("error", err))
		return
	}

	correlationID, err := helpers.PublishEvent(g.publisher, topic, payload)
	if err != nil {
		g.logger.Error("Failed to publish command event",
			slog.String("topic", topic), slog.Any("error", err))
		return
	}

	g.logger.Info("command dispatched",
		slog.String("command", data.Name),
		slog.String("topic", topic),
		slog.String("guild_id", i.GuildID),
		slog.String("correlation_id", correlationID))
}

func (g *GatewayEventHandler) routeCommand(data discordgo.ApplicationCommandInteractionData, inv sharedevents.Invocation) (string, interface{}) {
	switch data.Name {
	case "preview-permissions":
		return permissionevents.PreviewRequested, permissionevents.ReconcileRequestPayload{Invocation: inv}
	case "sync-permissions":
		return permissionevents.SyncRequested, permissionevents.ReconcileRequestPayload{Invocation: inv}
	case "prune":
		return permissionevents.PruneRequested, permissionevents.ReconcileRequestPayload{Invocation: inv}

	case "assign":
		return rolesevents.BundleAssignRequested, bundlePayload(data, inv)
	case "remove":
		return rolesevents.BundleRemoveRequested, bundlePayload(data, inv)

	case "status":
		return policyevents.StatusRequested, policyevents.CommandPayload{Invocation: inv}
	case "bundle":
		return policyevents.BundleCommand, policyPayload(data, inv)
	case "exclusive-group":
		return policyevents.GroupCommand, policyPayload(data, inv)
	case "category":
		return policyevents.CategoryCommand, policyPayload(data, inv)
	case "access-rule":
		return policyevents.RuleCommand, policyPayload(data, inv)
	case "level":
		return policyevents.LevelCommand, policyPayload(data, inv)
	case "bot-access":
		return policyevents.BotAccessCommand, policyPayload(data, inv)
	}
	return "", nil
}

func bundlePayload(data discordgo.ApplicationCommandInteractionData, inv sharedevents.Invocation) rolesevents.BundleRequestPayload {
	payload := rolesevents.BundleRequestPayload{Invocation: inv}
	for _, opt := range data.Options {
		switch opt.Name {
		case "bundle":
			payload.BundleName = opt.StringValue()
		case "member", "member2", "member3", "member4", "member5":
			if id, ok := opt.Value.(string); ok && id != "" {
				payload.MemberIDs = append(payload.MemberIDs, id)
			}
		}
	}
	return payload
}

func policyPayload(data discordgo.ApplicationCommandInteractionData, inv sharedevents.Invocation) policyevents.CommandPayload {
	payload := policyevents.CommandPayload{
		Invocation: inv,
		Options:    map[string]string{},
	}
	if len(data.Options) == 0 {
		return payload
	}
	sub := data.Options[0]
	payload.Subcommand = sub.Name
	for _, opt := range sub.Options {
		payload.Options[opt.Name] = optionString(opt)
		if opt.Type == discordgo.ApplicationCommandOptionChannel {
			payload.Options[opt.Name+"_kind"] = channelKind(data, optionString(opt))
		}
	}
	return payload
}

// channelKind resolves a channel option to "category" or "channel" via
// the interaction's resolved data.
func channelKind(data discordgo.ApplicationCommandInteractionData, channelID string) string {
	if data.Resolved != nil {
		if ch, ok := data.Resolved.Channels[channelID]; ok && ch.Type == discordgo.ChannelTypeGuildCategory {
			return "category"
		}
	}
	return "channel"
}

// optionString flattens one option to its wire string. Snowflake-typed
// options (user, role, channel) carry the ID as their value already.
func optionString(opt *discordgo.ApplicationCommandInteractionDataOption) string {
	switch v := opt.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (g *GatewayEventHandler) deferEphemeral(i *discordgo.InteractionCreate) error {
	return g.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func (g *GatewayEventHandler) respondNow(i *discordgo.InteractionCreate, content string) {
	err := g.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		g.logger.Error("Failed to respond to interaction", slog.Any("error", err))
	}
}
