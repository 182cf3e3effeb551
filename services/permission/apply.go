package permission

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/guildops/permsync/discord"
)

// ChannelEditor is the slice of the Discord session the applier needs.
type ChannelEditor interface {
	ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// FailedChannel records a channel whose batched edit could not be
// applied, with every change that was part of it.
type FailedChannel struct {
	ChannelID   string
	ChannelName string
	Changes     []ChannelChange
	Err         string
}

// ApplyResult describes what an apply run did. Failures are isolated per
// channel; a failed channel never aborts the rest of the plan.
type ApplyResult struct {
	Applied []ChannelChange
	Failed  []FailedChannel
}

// Applier executes plans against Discord, one batched channel edit at a
// time. Re-applying is safe: the plan is rebuilt from a fresh snapshot
// on every sync, so already-applied channels diff to nothing.
type Applier struct {
	session ChannelEditor
	logger  *slog.Logger
}

func NewApplier(session ChannelEditor, logger *slog.Logger) *Applier {
	return &Applier{session: session, logger: logger}
}

// Apply walks the plan in order. All of a channel's overwrites go out as
// one ChannelEdit carrying the full final overwrite list, so Discord
// never observes a partial per-role state for that channel. Transient
// failures are retried with backoff before the channel is recorded as
// failed.
func (a *Applier) Apply(ctx context.Context, plan *Plan) *ApplyResult {
	result := &ApplyResult{}

	for _, ch := range plan.Channels {
		if ctx.Err() != nil {
			result.Failed = append(result.Failed, FailedChannel{
				ChannelID:   ch.ChannelID,
				ChannelName: ch.ChannelName,
				Changes:     ch.Changes,
				Err:         ctx.Err().Error(),
			})
			continue
		}

		overwrites := ch.Final
		if overwrites == nil {
			overwrites = []*discordgo.PermissionOverwrite{}
		}
		err := discord.RetryDiscordAPI(a.logger, "channel_edit_overwrites", func() error {
			_, editErr := a.session.ChannelEdit(ch.ChannelID, &discordgo.ChannelEdit{
				PermissionOverwrites: overwrites,
			})
			return editErr
		})
		if err != nil {
			a.logger.Error("failed to apply channel overwrites",
				slog.String("channel_id", ch.ChannelID),
				slog.String("channel_name", ch.ChannelName),
				slog.Any("error", err),
			)
			result.Failed = append(result.Failed, FailedChannel{
				ChannelID:   ch.ChannelID,
				ChannelName: ch.ChannelName,
				Changes:     ch.Changes,
				Err:         err.Error(),
			})
			continue
		}

		a.logger.Info("applied channel overwrites",
			slog.String("channel_id", ch.ChannelID),
			slog.String("channel_name", ch.ChannelName),
			slog.Int("changes", len(ch.Changes)),
		)
		result.Applied = append(result.Applied, ch.Changes...)
	}

	return result
}
