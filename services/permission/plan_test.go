package permission

import (
	"reflect"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/permsync/storage"
)

func testSnapshot(channels ...*discordgo.Channel) *Snapshot {
	snap := &Snapshot{
		GuildID:    testEveryoneID,
		EveryoneID: testEveryoneID,
		Roles: map[string]*discordgo.Role{
			testEveryoneID: {ID: testEveryoneID, Name: "@everyone"},
			"role-a":       {ID: "role-a", Name: "Members"},
			"role-b":       {ID: "role-b", Name: "Mods"},
		},
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory {
			snap.Categories = append(snap.Categories, ch)
		} else {
			snap.Channels = append(snap.Channels, ch)
		}
	}
	return snap
}

func TestBuildPlanSetsAndClears(t *testing.T) {
	ch := testChannel()
	// role-b has a managed overwrite no rule wants anymore; role-x is an
	// admin's hand-made overwrite the plan must leave alone.
	ch.PermissionOverwrites = []*discordgo.PermissionOverwrite{
		{ID: "role-b", Type: discordgo.PermissionOverwriteTypeRole, Allow: 1},
		{ID: "role-x", Type: discordgo.PermissionOverwriteTypeRole, Allow: 2},
		{ID: "user-1", Type: discordgo.PermissionOverwriteTypeMember, Allow: 4},
	}
	snap := testSnapshot(ch)

	rules := []storage.AccessRule{
		{ID: 1, RoleID: "role-a", TargetKind: storage.TargetChannel, TargetID: testChannelID, Level: "Chat", Mode: storage.ModeAllow},
		{ID: 2, RoleID: "role-b", TargetKind: storage.TargetChannel, TargetID: "elsewhere", Level: "Chat", Mode: storage.ModeAllow},
	}
	plan := BuildPlan(snap, compilerWith(nil, rules...))

	if len(plan.Channels) != 1 {
		t.Fatalf("expected 1 changed channel, got %d", len(plan.Channels))
	}
	ops := plan.Channels[0]

	var set, clear int
	for _, op := range ops.Changes {
		switch op.Kind {
		case OpSet:
			set++
			if op.RoleID != "role-a" {
				t.Errorf("unexpected set for role %s", op.RoleID)
			}
		case OpClear:
			clear++
			if op.RoleID != "role-b" {
				t.Errorf("unexpected clear for role %s", op.RoleID)
			}
		}
	}
	if set != 1 || clear != 1 {
		t.Fatalf("expected 1 set and 1 clear, got %d/%d", set, clear)
	}

	// Final list: member overwrite and unmanaged role-x preserved,
	// role-b gone, role-a added.
	var ids []string
	for _, ow := range ops.Final {
		ids = append(ids, ow.ID)
	}
	want := []string{"role-a", "role-x", "user-1"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("final overwrite IDs = %v, want %v", ids, want)
	}
}

func TestBuildPlanIdempotent(t *testing.T) {
	rules := []storage.AccessRule{
		{ID: 1, RoleID: "role-a", TargetKind: storage.TargetChannel, TargetID: testChannelID, Level: "Chat", Mode: storage.ModeAllow},
	}
	compiler := compilerWith(map[string]string{testCategoryID: "None"}, rules...)

	first := BuildPlan(testSnapshot(testCategory(), testChannel()), compiler)
	if first.Empty() {
		t.Fatal("expected changes on the first build")
	}

	// Simulate the apply: give each channel its computed final state.
	applied := map[string][]*discordgo.PermissionOverwrite{}
	for _, ops := range first.Channels {
		applied[ops.ChannelID] = ops.Final
	}
	cat, ch := testCategory(), testChannel()
	cat.PermissionOverwrites = applied[cat.ID]
	ch.PermissionOverwrites = applied[ch.ID]

	second := BuildPlan(testSnapshot(cat, ch), compiler)
	if !second.Empty() {
		t.Fatalf("plan after apply should be empty, got %v", second.Operations())
	}
	if second.Unchanged != 2 {
		t.Errorf("expected 2 unchanged targets, got %d", second.Unchanged)
	}
}

func TestBuildPlanDeterministicOrder(t *testing.T) {
	rules := []storage.AccessRule{
		{ID: 1, RoleID: "role-b", TargetKind: storage.TargetChannel, TargetID: testChannelID, Level: "Chat", Mode: storage.ModeAllow},
		{ID: 2, RoleID: "role-a", TargetKind: storage.TargetChannel, TargetID: testChannelID, Level: "View", Mode: storage.ModeAllow},
	}
	compiler := compilerWith(nil, rules...)

	first := BuildPlan(testSnapshot(testChannel()), compiler)
	second := BuildPlan(testSnapshot(testChannel()), compiler)
	if !reflect.DeepEqual(first.Operations(), second.Operations()) {
		t.Fatal("identical snapshots must produce identical plans")
	}

	ops := first.Operations()
	if len(ops) != 2 || ops[0].RoleID != "role-a" || ops[1].RoleID != "role-b" {
		t.Fatalf("changes must be sorted by role ID, got %v", ops)
	}
}

func TestBuildPlanDeduplicatesWarnings(t *testing.T) {
	// A stale category rule touches both channels under the category but
	// must warn only once.
	second := testChannel()
	second.ID = "chan-2"
	second.Name = "random"
	rules := []storage.AccessRule{
		{ID: 4, RoleID: "gone", TargetKind: storage.TargetCategory, TargetID: testCategoryID, Level: "Chat", Mode: storage.ModeAllow},
	}
	plan := BuildPlan(testSnapshot(testCategory(), testChannel(), second), compilerWith(nil, rules...))

	if len(plan.Warnings) != 1 {
		t.Fatalf("expected 1 deduplicated warning, got %v", plan.Warnings)
	}
}

func TestBuildPlanWarnsOnStaleRuleTarget(t *testing.T) {
	rules := []storage.AccessRule{
		{ID: 11, RoleID: "role-a", TargetKind: storage.TargetChannel, TargetID: "deleted-channel", Level: "Chat", Mode: storage.ModeAllow},
	}
	plan := BuildPlan(testSnapshot(testChannel()), compilerWith(nil, rules...))

	if !plan.Empty() {
		t.Fatalf("a rule on a deleted channel must produce no operations, got %v", plan.Operations())
	}
	if len(plan.Warnings) != 1 {
		t.Fatalf("expected a stale-target warning, got %v", plan.Warnings)
	}
	if !strings.Contains(plan.Warnings[0], "rule #11") || !strings.Contains(plan.Warnings[0], "deleted-channel") {
		t.Errorf("warning should name the rule and target, got %q", plan.Warnings[0])
	}
}

func TestSummaryEmptyPlan(t *testing.T) {
	plan := &Plan{}
	lines := plan.Summary()
	if len(lines) != 1 || lines[0] != "✅ No permission changes detected." {
		t.Fatalf("unexpected summary for empty plan: %v", lines)
	}
}
