package permission

import (
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// Flag identifies a single Discord channel permission. The set of flags is
// a closed enumeration: policy documents may only reference flags listed
// here, and unknown names are rejected before they reach the store.
type Flag string

const (
	// General
	FlagAdministrator     Flag = "administrator"
	FlagViewAuditLog      Flag = "view_audit_log"
	FlagManageGuild       Flag = "manage_guild"
	FlagManageRoles       Flag = "manage_roles"
	FlagManageChannels    Flag = "manage_channels"
	FlagKickMembers       Flag = "kick_members"
	FlagBanMembers        Flag = "ban_members"
	FlagCreateInvite      Flag = "create_instant_invite"
	FlagChangeNickname    Flag = "change_nickname"
	FlagManageNicknames   Flag = "manage_nicknames"
	FlagManageExpressions Flag = "manage_emojis_and_stickers"
	FlagManageWebhooks    Flag = "manage_webhooks"
	FlagManageEvents      Flag = "manage_events"
	FlagViewChannel       Flag = "view_channel"
	FlagModerateMembers   Flag = "moderate_members"
	FlagViewGuildInsights Flag = "view_guild_insights"

	// Text
	FlagSendMessages          Flag = "send_messages"
	FlagSendMessagesInThreads Flag = "send_messages_in_threads"
	FlagCreatePublicThreads   Flag = "create_public_threads"
	FlagCreatePrivateThreads  Flag = "create_private_threads"
	FlagEmbedLinks            Flag = "embed_links"
	FlagAttachFiles           Flag = "attach_files"
	FlagAddReactions          Flag = "add_reactions"
	FlagUseExternalEmojis     Flag = "use_external_emojis"
	FlagUseExternalStickers   Flag = "use_external_stickers"
	FlagMentionEveryone       Flag = "mention_everyone"
	FlagManageMessages        Flag = "manage_messages"
	FlagManageThreads         Flag = "manage_threads"
	FlagReadMessageHistory    Flag = "read_message_history"
	FlagSendTTSMessages       Flag = "send_tts_messages"
	FlagUseAppCommands        Flag = "use_application_commands"

	// Voice
	FlagConnect            Flag = "connect"
	FlagSpeak              Flag = "speak"
	FlagStream             Flag = "stream"
	FlagMuteMembers        Flag = "mute_members"
	FlagDeafenMembers      Flag = "deafen_members"
	FlagMoveMembers        Flag = "move_members"
	FlagUseVoiceActivation Flag = "use_voice_activation"
	FlagPrioritySpeaker    Flag = "priority_speaker"
	FlagRequestToSpeak     Flag = "request_to_speak"
	FlagUseActivities      Flag = "use_embedded_activities"
)

// flagBits maps every flag to its discordgo permission bit.
var flagBits = map[Flag]int64{
	FlagAdministrator:     discordgo.PermissionAdministrator,
	FlagViewAuditLog:      discordgo.PermissionViewAuditLogs,
	FlagManageGuild:       discordgo.PermissionManageServer,
	FlagManageRoles:       discordgo.PermissionManageRoles,
	FlagManageChannels:    discordgo.PermissionManageChannels,
	FlagKickMembers:       discordgo.PermissionKickMembers,
	FlagBanMembers:        discordgo.PermissionBanMembers,
	FlagCreateInvite:      discordgo.PermissionCreateInstantInvite,
	FlagChangeNickname:    discordgo.PermissionChangeNickname,
	FlagManageNicknames:   discordgo.PermissionManageNicknames,
	FlagManageExpressions: discordgo.PermissionManageEmojis,
	FlagManageWebhooks:    discordgo.PermissionManageWebhooks,
	FlagManageEvents:      discordgo.PermissionManageEvents,
	FlagViewChannel:       discordgo.PermissionViewChannel,
	FlagModerateMembers:   discordgo.PermissionModerateMembers,
	FlagViewGuildInsights: discordgo.PermissionViewGuildInsights,

	FlagSendMessages:          discordgo.PermissionSendMessages,
	FlagSendMessagesInThreads: discordgo.PermissionSendMessagesInThreads,
	FlagCreatePublicThreads:   discordgo.PermissionCreatePublicThreads,
	FlagCreatePrivateThreads:  discordgo.PermissionCreatePrivateThreads,
	FlagEmbedLinks:            discordgo.PermissionEmbedLinks,
	FlagAttachFiles:           discordgo.PermissionAttachFiles,
	FlagAddReactions:          discordgo.PermissionAddReactions,
	FlagUseExternalEmojis:     discordgo.PermissionUseExternalEmojis,
	FlagUseExternalStickers:   discordgo.PermissionUseExternalStickers,
	FlagMentionEveryone:       discordgo.PermissionMentionEveryone,
	FlagManageMessages:        discordgo.PermissionManageMessages,
	FlagManageThreads:         discordgo.PermissionManageThreads,
	FlagReadMessageHistory:    discordgo.PermissionReadMessageHistory,
	FlagSendTTSMessages:       discordgo.PermissionSendTTSMessages,
	FlagUseAppCommands:        discordgo.PermissionUseSlashCommands,

	FlagConnect:            discordgo.PermissionVoiceConnect,
	FlagSpeak:              discordgo.PermissionVoiceSpeak,
	FlagStream:             discordgo.PermissionVoiceStreamVideo,
	FlagMuteMembers:        discordgo.PermissionVoiceMuteMembers,
	FlagDeafenMembers:      discordgo.PermissionVoiceDeafenMembers,
	FlagMoveMembers:        discordgo.PermissionVoiceMoveMembers,
	FlagUseVoiceActivation: discordgo.PermissionVoiceUseVAD,
	FlagPrioritySpeaker:    discordgo.PermissionVoicePrioritySpeaker,
	FlagRequestToSpeak:     discordgo.PermissionVoiceRequestToSpeak,
	FlagUseActivities:      discordgo.PermissionUseActivities,
}

// FlagGroups drives the /level edit menu: pick a group, then a flag.
var FlagGroups = map[string][]Flag{
	"General": {
		FlagAdministrator, FlagViewAuditLog, FlagManageGuild, FlagManageRoles,
		FlagManageChannels, FlagKickMembers, FlagBanMembers, FlagCreateInvite,
		FlagChangeNickname, FlagManageNicknames, FlagManageExpressions,
		FlagManageWebhooks, FlagManageEvents, FlagViewChannel,
		FlagModerateMembers, FlagViewGuildInsights,
	},
	"Text": {
		FlagSendMessages, FlagSendMessagesInThreads, FlagCreatePublicThreads,
		FlagCreatePrivateThreads, FlagEmbedLinks, FlagAttachFiles,
		FlagAddReactions, FlagUseExternalEmojis, FlagUseExternalStickers,
		FlagMentionEveryone, FlagManageMessages, FlagManageThreads,
		FlagReadMessageHistory, FlagSendTTSMessages, FlagUseAppCommands,
	},
	"Voice": {
		FlagConnect, FlagSpeak, FlagStream, FlagMuteMembers, FlagDeafenMembers,
		FlagMoveMembers, FlagUseVoiceActivation, FlagPrioritySpeaker,
		FlagRequestToSpeak, FlagUseActivities,
	},
}

// ParseFlag validates a flag name coming from user input or a stored
// document. Unknown names are rejected here so they never reach the store.
func ParseFlag(name string) (Flag, error) {
	f := Flag(name)
	if _, ok := flagBits[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	return f, nil
}

// Bit returns the discordgo permission bit for the flag, or 0 for an
// unknown flag.
func (f Flag) Bit() int64 {
	return flagBits[f]
}

// AllFlags returns every known flag in a stable sorted order.
func AllFlags() []Flag {
	flags := make([]Flag, 0, len(flagBits))
	for f := range flagBits {
		flags = append(flags, f)
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i] < flags[j] })
	return flags
}
