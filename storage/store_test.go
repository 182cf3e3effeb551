package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testDefaults = map[string]map[string]bool{
	"None": {"view_channel": false},
	"View": {"view_channel": true},
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFileStore(t.TempDir(), testDefaults, nil, logger)
}

func TestLevelsDefaultsWhenEmpty(t *testing.T) {
	s := newTestStore(t)

	levels, err := s.Levels("g1")
	require.NoError(t, err)
	require.Equal(t, testDefaults, levels)

	// The returned map is a copy; mutating it must not leak back.
	levels["None"]["view_channel"] = true
	again, err := s.Levels("g1")
	require.NoError(t, err)
	require.False(t, again["None"]["view_channel"])
}

func TestCreateLevelAndRoundTrip(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateLevel("g1", "Custom", "View"))
	require.ErrorIs(t, s.CreateLevel("g1", "Custom", ""), ErrAlreadyExists)
	require.ErrorIs(t, s.CreateLevel("g1", "Other", "Ghost"), ErrNotFound)

	levels, err := s.Levels("g1")
	require.NoError(t, err)
	require.True(t, levels["Custom"]["view_channel"], "copy-from should clone the source flags")

	// Creating a level materializes the document: defaults are now frozen
	// into the guild's own copy.
	require.Contains(t, levels, "None")
}

func TestSetLevelFlagTriState(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateLevel("g1", "Custom", ""))

	allow := true
	require.NoError(t, s.SetLevelFlag("g1", "Custom", "send_messages", &allow))
	deny := false
	require.NoError(t, s.SetLevelFlag("g1", "Custom", "connect", &deny))
	require.NoError(t, s.SetLevelFlag("g1", "Custom", "send_messages", nil))

	levels, err := s.Levels("g1")
	require.NoError(t, err)
	_, present := levels["Custom"]["send_messages"]
	require.False(t, present, "nil value should return the flag to neutral")
	require.False(t, levels["Custom"]["connect"])

	require.ErrorIs(t, s.SetLevelFlag("g1", "Ghost", "connect", &allow), ErrNotFound)
}

func TestResetLevels(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateLevel("g1", "Custom", ""))
	require.NoError(t, s.ResetLevels("g1"))

	levels, err := s.Levels("g1")
	require.NoError(t, err)
	require.NotContains(t, levels, "Custom")
	require.Contains(t, levels, "View")
}

func TestAccessRuleIDsIncrease(t *testing.T) {
	s := newTestStore(t)
	rule := AccessRule{RoleID: "r1", TargetKind: TargetChannel, TargetID: "c1", Level: "View", Mode: ModeAllow}

	id1, err := s.AddAccessRule("g1", rule)
	require.NoError(t, err)
	id2, err := s.AddAccessRule("g1", rule)
	require.NoError(t, err)
	require.Greater(t, id2, id1)

	// Removing a rule must not recycle its ID.
	require.NoError(t, s.RemoveAccessRule("g1", id2))
	id3, err := s.AddAccessRule("g1", rule)
	require.NoError(t, err)
	require.Greater(t, id3, id2)

	require.ErrorIs(t, s.RemoveAccessRule("g1", 999), ErrNotFound)
}

func TestUpdateAccessRulePartial(t *testing.T) {
	s := newTestStore(t)
	id, err := s.AddAccessRule("g1", AccessRule{RoleID: "r1", TargetKind: TargetChannel, TargetID: "c1", Level: "View", Mode: ModeAllow})
	require.NoError(t, err)

	mode := ModeDeny
	updated, err := s.UpdateAccessRule("g1", id, nil, &mode)
	require.NoError(t, err)
	require.Equal(t, ModeDeny, updated.Mode)
	require.Equal(t, "View", updated.Level, "nil level should leave the level alone")

	_, err = s.UpdateAccessRule("g1", 999, nil, &mode)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBundleSetSemantics(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateBundle("g1", "crew"))
	require.NoError(t, s.AddBundleRole("g1", "crew", "r1"))
	require.ErrorIs(t, s.AddBundleRole("g1", "crew", "r1"), ErrDuplicateRole)
	require.ErrorIs(t, s.AddBundleRole("g1", "ghost", "r1"), ErrNotFound)

	require.NoError(t, s.RemoveBundleRole("g1", "crew", "r1"))
	bundles, err := s.Bundles("g1")
	require.NoError(t, err)
	require.Empty(t, bundles["crew"])
}

func TestGroupRoleExclusivity(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateExclusiveGroup("g1", "team"))
	require.NoError(t, s.CreateExclusiveGroup("g1", "rank"))
	require.NoError(t, s.AddGroupRole("g1", "team", "red"))

	require.ErrorIs(t, s.AddGroupRole("g1", "team", "red"), ErrDuplicateRole)
	require.ErrorIs(t, s.AddGroupRole("g1", "rank", "red"), ErrRoleInOtherGroup)

	// After removal the role may join another group.
	require.NoError(t, s.RemoveGroupRole("g1", "team", "red"))
	require.NoError(t, s.AddGroupRole("g1", "rank", "red"))
}

func TestBotAccessGrantRevoke(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.GrantScope("g1", "r1", "sync"))
	require.NoError(t, s.GrantScope("g1", "r1", "sync")) // idempotent
	require.NoError(t, s.GrantScope("g1", "r1", "levels"))

	grants, err := s.BotAccess("g1")
	require.NoError(t, err)
	require.Equal(t, []string{"levels", "sync"}, grants["r1"])

	require.NoError(t, s.RevokeScope("g1", "r1", "sync"))
	require.NoError(t, s.RevokeScope("g1", "r1", "levels"))
	grants, err = s.BotAccess("g1")
	require.NoError(t, err)
	require.NotContains(t, grants, "r1")
}

func TestPruneCounts(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddAccessRule("g1", AccessRule{RoleID: "live", TargetKind: TargetChannel, TargetID: "c1", Level: "View", Mode: ModeAllow})
	require.NoError(t, err)
	_, err = s.AddAccessRule("g1", AccessRule{RoleID: "dead", TargetKind: TargetChannel, TargetID: "c1", Level: "View", Mode: ModeAllow})
	require.NoError(t, err)
	_, err = s.AddAccessRule("g1", AccessRule{RoleID: "live", TargetKind: TargetChannel, TargetID: "gone", Level: "View", Mode: ModeAllow})
	require.NoError(t, err)

	require.NoError(t, s.SetCategoryBaseline("g1", "cat-live", "View"))
	require.NoError(t, s.SetCategoryBaseline("g1", "cat-dead", "View"))

	require.NoError(t, s.CreateBundle("g1", "crew"))
	require.NoError(t, s.AddBundleRole("g1", "crew", "live"))
	require.NoError(t, s.AddBundleRole("g1", "crew", "dead"))
	require.NoError(t, s.CreateExclusiveGroup("g1", "team"))
	require.NoError(t, s.AddGroupRole("g1", "team", "dead"))

	validRoles := map[string]bool{"live": true}
	validChannels := map[string]bool{"c1": true}

	n, err := s.PruneAccessRules("g1", validRoles, validChannels)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = s.PruneCategoryBaselines("g1", map[string]bool{"cat-live": true})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = s.PruneBundleRoles("g1", validRoles)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = s.PruneGroupRoles("g1", validRoles)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	doc, err := s.AccessRules("g1")
	require.NoError(t, err)
	require.Len(t, doc.Rules, 1)
}

func TestGuildsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateBundle("g1", "crew"))

	bundles, err := s.Bundles("g2")
	require.NoError(t, err)
	require.Empty(t, bundles)
}

func TestSaveIsAtomicOnDisk(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()
	s := NewFileStore(dir, testDefaults, nil, logger)
	require.NoError(t, s.SetCategoryBaseline("g1", "c1", "View"))

	// No temp files left behind after a successful save.
	entries, err := os.ReadDir(filepath.Join(dir, "g1"))
	require.NoError(t, err)
	for _, e := range entries {
		require.Equal(t, ".json", filepath.Ext(e.Name()), "unexpected leftover file %s", e.Name())
	}
}

func TestCachedReadsSeeWrites(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache, err := NewDocumentCache(context.Background(), time.Minute)
	require.NoError(t, err)
	s := NewFileStore(t.TempDir(), testDefaults, cache, logger)

	require.NoError(t, s.SetCategoryBaseline("g1", "c1", "View"))
	baselines, err := s.CategoryBaselines("g1")
	require.NoError(t, err)
	require.Equal(t, "View", baselines["c1"])

	require.NoError(t, s.ClearCategoryBaseline("g1", "c1"))
	baselines, err = s.CategoryBaselines("g1")
	require.NoError(t, err)
	require.Empty(t, baselines)
}
