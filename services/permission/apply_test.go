package permission

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/permsync/discord"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoChannelPlan() *Plan {
	return &Plan{
		GuildID: testEveryoneID,
		Channels: []ChannelOps{
			{
				ChannelID:   "chan-1",
				ChannelName: "general",
				Changes:     []ChannelChange{{ChannelID: "chan-1", RoleID: "role-a", Kind: OpSet}},
				Final:       []*discordgo.PermissionOverwrite{{ID: "role-a", Type: discordgo.PermissionOverwriteTypeRole, Allow: 1}},
			},
			{
				ChannelID:   "chan-2",
				ChannelName: "random",
				Changes:     []ChannelChange{{ChannelID: "chan-2", RoleID: "role-a", Kind: OpClear}},
				Final:       []*discordgo.PermissionOverwrite{},
			},
		},
	}
}

func TestApplyBatchesPerChannel(t *testing.T) {
	fs := discord.NewFakeSession()
	var edited []string
	fs.ChannelEditFunc = func(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
		edited = append(edited, channelID)
		if data.PermissionOverwrites == nil {
			t.Errorf("edit for %s carried no overwrite list", channelID)
		}
		return &discordgo.Channel{ID: channelID}, nil
	}

	result := NewApplier(fs, testLogger()).Apply(context.Background(), twoChannelPlan())

	if len(edited) != 2 || edited[0] != "chan-1" || edited[1] != "chan-2" {
		t.Fatalf("expected one edit per channel in plan order, got %v", edited)
	}
	if len(result.Applied) != 2 || len(result.Failed) != 0 {
		t.Fatalf("applied=%d failed=%d, want 2/0", len(result.Applied), len(result.Failed))
	}
}

func TestApplyIsolatesChannelFailures(t *testing.T) {
	fs := discord.NewFakeSession()
	fs.ChannelEditFunc = func(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
		if channelID == "chan-1" {
			// Permanent error, not retried.
			return nil, errors.New("missing permissions")
		}
		return &discordgo.Channel{ID: channelID}, nil
	}

	result := NewApplier(fs, testLogger()).Apply(context.Background(), twoChannelPlan())

	if len(result.Failed) != 1 {
		t.Fatalf("expected 1 failed channel, got %d", len(result.Failed))
	}
	failed := result.Failed[0]
	if failed.ChannelID != "chan-1" || failed.Err == "" {
		t.Fatalf("unexpected failure record: %+v", failed)
	}
	if len(result.Applied) != 1 || result.Applied[0].ChannelID != "chan-2" {
		t.Fatalf("the second channel should still apply, got %+v", result.Applied)
	}
}

func TestApplyStopsOnCancelledContext(t *testing.T) {
	fs := discord.NewFakeSession()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewApplier(fs, testLogger()).Apply(ctx, twoChannelPlan())

	if len(result.Applied) != 0 {
		t.Fatalf("nothing should apply after cancellation, got %+v", result.Applied)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("both channels should be recorded as failed, got %d", len(result.Failed))
	}
	if len(fs.Trace()) != 0 {
		t.Fatalf("no API calls expected after cancellation, got %v", fs.Trace())
	}
}
