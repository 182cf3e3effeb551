package permission

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/permsync/storage"
)

const (
	testEveryoneID = "guild-1"
	testCategoryID = "cat-1"
	testChannelID  = "chan-1"
)

func testChannel() *discordgo.Channel {
	return &discordgo.Channel{
		ID:       testChannelID,
		Name:     "general",
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: testCategoryID,
	}
}

func testCategory() *discordgo.Channel {
	return &discordgo.Channel{
		ID:   testCategoryID,
		Name: "Public",
		Type: discordgo.ChannelTypeGuildCategory,
	}
}

func compilerWith(baselines map[string]string, rules ...storage.AccessRule) *Compiler {
	return NewCompiler(NewResolver(nil), baselines, rules)
}

func TestCompileBaselineNone(t *testing.T) {
	c := compilerWith(map[string]string{testCategoryID: "None"})

	desired, warnings := c.CompileTarget(testChannel(), testEveryoneID, map[string]bool{})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	entry, ok := desired[testEveryoneID]
	if !ok {
		t.Fatal("expected an @everyone entry from the baseline")
	}
	if entry.Overwrite.Deny&FlagViewChannel.Bit() == 0 {
		t.Error("None baseline should deny view_channel")
	}
	if entry.Overwrite.Allow != 0 {
		t.Errorf("None baseline should allow nothing, got %b", entry.Overwrite.Allow)
	}
}

func TestCompileNoBaselineNoEveryoneEntry(t *testing.T) {
	c := compilerWith(nil)
	desired, _ := c.CompileTarget(testChannel(), testEveryoneID, map[string]bool{})
	if _, ok := desired[testEveryoneID]; ok {
		t.Fatal("channel without a category baseline must not get an @everyone entry")
	}
}

func TestCompileDenyModeInvertsLevel(t *testing.T) {
	// View allows view_channel and denies send_messages. In Deny mode
	// every explicit flag becomes a deny.
	rule := storage.AccessRule{
		ID: 1, RoleID: "role-a", TargetKind: storage.TargetChannel,
		TargetID: testChannelID, Level: "View", Mode: storage.ModeDeny,
	}
	c := compilerWith(nil, rule)

	desired, _ := c.CompileTarget(testChannel(), testEveryoneID, map[string]bool{"role-a": true})
	entry := desired["role-a"]
	if entry.Overwrite.Allow != 0 {
		t.Errorf("deny-mode rule should allow nothing, got %b", entry.Overwrite.Allow)
	}
	if entry.Overwrite.Deny&FlagViewChannel.Bit() == 0 {
		t.Error("deny-mode rule should deny view_channel")
	}
	if entry.Overwrite.Deny&FlagSendMessages.Bit() == 0 {
		t.Error("deny-mode rule should keep the level's own denies")
	}
}

func TestCompileChannelRuleBeatsCategoryRule(t *testing.T) {
	categoryRule := storage.AccessRule{
		ID: 5, RoleID: "role-a", TargetKind: storage.TargetCategory,
		TargetID: testCategoryID, Level: "Chat", Mode: storage.ModeAllow,
	}
	channelRule := storage.AccessRule{
		ID: 1, RoleID: "role-a", TargetKind: storage.TargetChannel,
		TargetID: testChannelID, Level: "None", Mode: storage.ModeAllow,
	}
	c := compilerWith(nil, categoryRule, channelRule)

	desired, _ := c.CompileTarget(testChannel(), testEveryoneID, map[string]bool{"role-a": true})
	entry := desired["role-a"]
	// The channel-scope rule wins despite its lower ID.
	if !strings.Contains(entry.Source, "rule #1") {
		t.Fatalf("expected channel rule #1 to win, got source %q", entry.Source)
	}
	if entry.Overwrite.Deny&FlagViewChannel.Bit() == 0 {
		t.Error("winning None rule should deny view_channel")
	}
}

func TestCompileHigherIDWinsWithinTier(t *testing.T) {
	older := storage.AccessRule{
		ID: 3, RoleID: "role-a", TargetKind: storage.TargetChannel,
		TargetID: testChannelID, Level: "None", Mode: storage.ModeAllow,
	}
	newer := storage.AccessRule{
		ID: 7, RoleID: "role-a", TargetKind: storage.TargetChannel,
		TargetID: testChannelID, Level: "Chat", Mode: storage.ModeAllow,
	}
	c := compilerWith(nil, older, newer)

	desired, _ := c.CompileTarget(testChannel(), testEveryoneID, map[string]bool{"role-a": true})
	if got := desired["role-a"].Source; !strings.Contains(got, "rule #7") {
		t.Fatalf("expected the newer rule #7 to win, got source %q", got)
	}
}

func TestCompileCategoryTargetUsesOwnRules(t *testing.T) {
	rule := storage.AccessRule{
		ID: 1, RoleID: "role-a", TargetKind: storage.TargetCategory,
		TargetID: testCategoryID, Level: "Chat", Mode: storage.ModeAllow,
	}
	c := compilerWith(map[string]string{testCategoryID: "None"}, rule)

	desired, _ := c.CompileTarget(testCategory(), testEveryoneID, map[string]bool{"role-a": true})
	if _, ok := desired[testEveryoneID]; !ok {
		t.Error("category should get its own baseline entry")
	}
	if _, ok := desired["role-a"]; !ok {
		t.Error("category should get entries from its category-scope rules")
	}
}

func TestCompileStaleRoleWarnsAndSkips(t *testing.T) {
	rule := storage.AccessRule{
		ID: 9, RoleID: "gone", TargetKind: storage.TargetChannel,
		TargetID: testChannelID, Level: "Chat", Mode: storage.ModeAllow,
	}
	c := compilerWith(nil, rule)

	desired, warnings := c.CompileTarget(testChannel(), testEveryoneID, map[string]bool{})
	if _, ok := desired["gone"]; ok {
		t.Fatal("stale role must not produce an entry")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "rule #9") {
		t.Fatalf("expected one stale-role warning, got %v", warnings)
	}
}

func TestStaleTargetWarnings(t *testing.T) {
	live := storage.AccessRule{
		ID: 3, RoleID: "role-a", TargetKind: storage.TargetChannel,
		TargetID: testChannelID, Level: "Chat", Mode: storage.ModeAllow,
	}
	stale := storage.AccessRule{
		ID: 11, RoleID: "role-a", TargetKind: storage.TargetChannel,
		TargetID: "deleted-channel", Level: "Chat", Mode: storage.ModeAllow,
	}
	c := compilerWith(nil, live, stale)

	warnings := c.StaleTargetWarnings(map[string]bool{testChannelID: true})
	if len(warnings) != 1 {
		t.Fatalf("expected one stale-target warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "rule #11") || !strings.Contains(warnings[0], "deleted-channel") {
		t.Errorf("warning should name the rule and target, got %q", warnings[0])
	}
}

func TestCompileUnknownLevelWarnsAndSkips(t *testing.T) {
	rule := storage.AccessRule{
		ID: 2, RoleID: "role-a", TargetKind: storage.TargetChannel,
		TargetID: testChannelID, Level: "Ghost", Mode: storage.ModeAllow,
	}
	c := compilerWith(map[string]string{testCategoryID: "Ghost"}, rule)

	desired, warnings := c.CompileTarget(testChannel(), testEveryoneID, map[string]bool{"role-a": true})
	if len(desired) != 0 {
		t.Fatalf("unknown levels must not produce entries, got %v", desired)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected warnings for both the baseline and the rule, got %v", warnings)
	}
}

func TestManagedRoles(t *testing.T) {
	rule := storage.AccessRule{ID: 1, RoleID: "role-a", TargetKind: storage.TargetChannel, TargetID: testChannelID, Level: "Chat", Mode: storage.ModeAllow}

	withBaseline := compilerWith(map[string]string{testCategoryID: "View"}, rule)
	managed := withBaseline.ManagedRoles(testEveryoneID)
	if !managed[testEveryoneID] || !managed["role-a"] {
		t.Fatalf("expected both @everyone and role-a managed, got %v", managed)
	}

	// Without baselines the policy does not own @everyone overwrites.
	withoutBaseline := compilerWith(nil, rule)
	managed = withoutBaseline.ManagedRoles(testEveryoneID)
	if managed[testEveryoneID] {
		t.Fatal("@everyone must not be managed when no baseline exists")
	}
}
