package permission

import (
	"fmt"
	"sort"
)

// Tri is the three-valued state of a single flag inside a level.
type Tri int

const (
	Neutral Tri = iota // inherit, contributes no overwrite
	Allow
	Deny
)

func (t Tri) String() string {
	switch t {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "neutral"
	}
}

// LevelMap is a resolved permission level: every flag not present is
// Neutral.
type LevelMap map[Flag]Tri

// defaultLevels are the factory level definitions. A guild's stored
// levels override these by name; a guild that never edited a built-in
// level gets the default unchanged.
var defaultLevels = map[string]map[Flag]bool{
	"None": {
		FlagViewChannel: false,
	},
	"View": {
		FlagViewChannel:           true,
		FlagReadMessageHistory:    true,
		FlagSendMessages:          false,
		FlagSendMessagesInThreads: false,
		FlagAddReactions:          false,
		FlagConnect:               false,
		FlagSpeak:                 false,
		FlagStream:                false,
	},
	"Chat": {
		FlagChangeNickname:        true,
		FlagViewChannel:           true,
		FlagReadMessageHistory:    true,
		FlagSendMessages:          true,
		FlagSendMessagesInThreads: true,
		FlagEmbedLinks:            true,
		FlagAttachFiles:           true,
		FlagAddReactions:          true,
		FlagUseExternalEmojis:     true,
		FlagUseExternalStickers:   true,
		FlagUseAppCommands:        true,
		FlagConnect:               true,
		FlagSpeak:                 true,
		FlagUseVoiceActivation:    true,
		FlagStream:                true,
		FlagUseActivities:         true,
	},
	"Mod": {
		FlagViewChannel:           true,
		FlagReadMessageHistory:    true,
		FlagSendMessages:          true,
		FlagSendMessagesInThreads: true,
		FlagCreatePublicThreads:   true,
		FlagCreatePrivateThreads:  true,
		FlagEmbedLinks:            true,
		FlagAttachFiles:           true,
		FlagAddReactions:          true,
		FlagUseExternalEmojis:     true,
		FlagUseExternalStickers:   true,
		FlagUseAppCommands:        true,
		FlagConnect:               true,
		FlagSpeak:                 true,
		FlagUseVoiceActivation:    true,
		FlagStream:                true,
		FlagUseActivities:         true,
		FlagManageMessages:        true,
		FlagManageThreads:         true,
		FlagMuteMembers:           true,
		FlagDeafenMembers:         true,
		FlagMoveMembers:           true,
		FlagManageChannels:        true,
		FlagModerateMembers:       true,
		FlagKickMembers:           true,
		FlagManageNicknames:       true,
		FlagMentionEveryone:       true,
	},
	"Admin": {
		FlagAdministrator: true,
	},
}

// DefaultLevelNames lists the built-in levels in their display order.
var DefaultLevelNames = []string{"None", "View", "Chat", "Mod", "Admin"}

// DefaultLevels returns a deep copy of the factory level definitions in
// the flag-name/bool shape used by the store documents.
func DefaultLevels() map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(defaultLevels))
	for name, flags := range defaultLevels {
		m := make(map[string]bool, len(flags))
		for f, v := range flags {
			m[string(f)] = v
		}
		out[name] = m
	}
	return out
}

// Resolver turns level names into flag maps. Stored guild definitions
// take precedence over the built-in defaults of the same name.
type Resolver struct {
	stored map[string]map[string]bool
}

// NewResolver builds a resolver over a guild's stored level document.
// stored may be nil, in which case only the defaults resolve.
func NewResolver(stored map[string]map[string]bool) *Resolver {
	return &Resolver{stored: stored}
}

// Resolve maps a level name to its flag states. Flags absent from the
// definition are Neutral and therefore absent from the result. Flag
// names that fail to parse are skipped: stored documents are validated
// on write, so a bad name can only come from hand-edited data.
func (r *Resolver) Resolve(levelName string) (LevelMap, error) {
	if def, ok := r.stored[levelName]; ok {
		resolved := make(LevelMap, len(def))
		for name, allowed := range def {
			flag, err := ParseFlag(name)
			if err != nil {
				continue
			}
			resolved[flag] = triFromBool(allowed)
		}
		return resolved, nil
	}

	def, ok := defaultLevels[levelName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, levelName)
	}
	resolved := make(LevelMap, len(def))
	for flag, allowed := range def {
		resolved[flag] = triFromBool(allowed)
	}
	return resolved, nil
}

func triFromBool(allowed bool) Tri {
	if allowed {
		return Allow
	}
	return Deny
}

// Names returns every resolvable level name, stored definitions sorted
// first, then any built-in level the guild never edited.
func (r *Resolver) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for name := range r.stored {
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range DefaultLevelNames {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}
