package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/permsync/helpers"
)

// Operations defines higher-level Discord operations handlers use to
// deliver command results after the gateway's deferred acknowledgement.
type Operations interface {
	FollowupSend(ctx context.Context, interactionToken, content string) error
	FollowupSendLines(ctx context.Context, interactionToken string, lines []string) error
}

type discordOperations struct {
	session Session
	appID   string
	logger  *slog.Logger
}

// NewOperations creates a new Operations instance bound to the bot's
// application ID.
func NewOperations(session Session, appID string, logger *slog.Logger) Operations {
	return &discordOperations{session: session, appID: appID, logger: logger}
}

func (o *discordOperations) followup(token string) *discordgo.Interaction {
	return &discordgo.Interaction{AppID: o.appID, Token: token}
}

// FollowupSend posts one ephemeral follow-up message on a deferred
// interaction, retrying transient failures.
func (o *discordOperations) FollowupSend(ctx context.Context, interactionToken, content string) error {
	return RetryDiscordAPI(o.logger, "followup_message_create", func() error {
		_, err := o.session.FollowupMessageCreate(o.followup(interactionToken), true, &discordgo.WebhookParams{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		return err
	})
}

// FollowupSendLines chunks report lines under Discord's message length
// limit and posts each chunk as its own follow-up.
func (o *discordOperations) FollowupSendLines(ctx context.Context, interactionToken string, lines []string) error {
	for _, chunk := range helpers.ChunkLines(lines, helpers.DiscordMaxMessageLen) {
		if err := o.FollowupSend(ctx, interactionToken, chunk); err != nil {
			return err
		}
	}
	return nil
}
