package policyhandlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/mock/gomock"

	policyevents "github.com/guildops/permsync/events/policy"
	sharedevents "github.com/guildops/permsync/events/shared"
	"github.com/guildops/permsync/mocks"
	"github.com/guildops/permsync/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// captureOps records follow-up messages instead of calling Discord.
type captureOps struct {
	messages []string
}

func (c *captureOps) FollowupSend(_ context.Context, _ string, content string) error {
	c.messages = append(c.messages, content)
	return nil
}

func (c *captureOps) FollowupSendLines(_ context.Context, _ string, lines []string) error {
	c.messages = append(c.messages, strings.Join(lines, "\n"))
	return nil
}

func (c *captureOps) last(t *testing.T) string {
	t.Helper()
	if len(c.messages) == 0 {
		t.Fatal("no follow-up was sent")
	}
	return c.messages[len(c.messages)-1]
}

// allowAll satisfies AccessChecker for tests that are not about scopes.
type allowAll struct{}

func (allowAll) Allowed(context.Context, string, []string, bool, string) (bool, error) {
	return true, nil
}

type denyAll struct{}

func (denyAll) Allowed(context.Context, string, []string, bool, string) (bool, error) {
	return false, nil
}

func policyMsg(t *testing.T, sub string, opts map[string]string, admin bool) *message.Message {
	t.Helper()
	payload := policyevents.CommandPayload{
		Invocation: sharedevents.Invocation{
			GuildID:          "g1",
			InteractionToken: "tok",
			ExecutorID:       "u1",
			ExecutorIsAdmin:  admin,
		},
		Subcommand: sub,
		Options:    opts,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return message.NewMessage("test-id", data)
}

func newHandlers(t *testing.T, store storage.Store, checker AccessChecker) (*PolicyHandlers, *captureOps) {
	t.Helper()
	ops := &captureOps{}
	return NewPolicyHandlers(store, checker, ops, testLogger()), ops
}

func TestLevelSetValidFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().SetLevelFlag("g1", "Custom", "send_messages", gomock.Not(gomock.Nil())).Return(nil)

	h, ops := newHandlers(t, store, allowAll{})
	msg := policyMsg(t, "set", map[string]string{"name": "Custom", "flag": "send_messages", "value": "allow"}, true)
	if err := h.HandleLevelCommand(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ops.last(t), "✅") {
		t.Errorf("expected a success reply, got %q", ops.last(t))
	}
}

func TestGroupListEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().ExclusiveGroups("g1").Return(map[string][]string{}, nil)

	h, ops := newHandlers(t, store, allowAll{})
	msg := policyMsg(t, "list", map[string]string{}, true)
	if err := h.HandleGroupCommand(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ops.last(t); got != "No exclusive groups defined yet." {
		t.Errorf("unexpected reply %q", got)
	}
}

func TestLevelSetUnknownFlagRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	// SetLevelFlag must never be called with a bad flag.

	h, ops := newHandlers(t, store, allowAll{})
	msg := policyMsg(t, "set", map[string]string{"name": "Custom", "flag": "fly", "value": "allow"}, true)
	if err := h.HandleLevelCommand(msg); err != nil {
		t.Fatalf("handler should reply, not fail: %v", err)
	}
	if !strings.Contains(ops.last(t), "Unknown permission flag") {
		t.Errorf("expected unknown-flag reply, got %q", ops.last(t))
	}
}

func TestLevelSetNeutralClearsFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().SetLevelFlag("g1", "Custom", "connect", gomock.Nil()).Return(nil)

	h, _ := newHandlers(t, store, allowAll{})
	msg := policyMsg(t, "set", map[string]string{"name": "Custom", "flag": "connect", "value": "neutral"}, true)
	if err := h.HandleLevelCommand(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScopeDenialShortCircuits(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	h, ops := newHandlers(t, store, denyAll{})
	msg := policyMsg(t, "list", nil, false)
	if err := h.HandleBundleCommand(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ops.last(t), "⛔") {
		t.Errorf("expected a denial reply, got %q", ops.last(t))
	}
}

func TestRuleAddUsesResolvedTargetKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Levels("g1").Return(map[string]map[string]bool{}, nil)
	store.EXPECT().AddAccessRule("g1", storage.AccessRule{
		RoleID:     "r1",
		TargetID:   "cat-1",
		TargetKind: storage.TargetCategory,
		Level:      "View",
		Mode:       storage.ModeAllow,
	}).Return(7, nil)

	h, ops := newHandlers(t, store, allowAll{})
	msg := policyMsg(t, "add", map[string]string{
		"role": "r1", "target": "cat-1", "target_kind": "category", "level": "View",
	}, true)
	if err := h.HandleRuleCommand(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ops.last(t), "#7") {
		t.Errorf("expected the new rule ID in the reply, got %q", ops.last(t))
	}
}

func TestRuleAddUnknownLevelRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Levels("g1").Return(map[string]map[string]bool{}, nil)

	h, ops := newHandlers(t, store, allowAll{})
	msg := policyMsg(t, "add", map[string]string{
		"role": "r1", "target": "c1", "target_kind": "channel", "level": "Ghost",
	}, true)
	if err := h.HandleRuleCommand(msg); err != nil {
		t.Fatalf("handler should reply, not fail: %v", err)
	}
	if !strings.Contains(ops.last(t), "Unknown permission level") {
		t.Errorf("expected unknown-level reply, got %q", ops.last(t))
	}
}

func TestRuleUpdateNothingToDo(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	h, ops := newHandlers(t, store, allowAll{})
	msg := policyMsg(t, "update", map[string]string{"id": "3"}, true)
	if err := h.HandleRuleCommand(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ops.last(t), "Nothing to update") {
		t.Errorf("expected nothing-to-update reply, got %q", ops.last(t))
	}
}

func TestBotAccessRequiresAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	h, ops := newHandlers(t, store, allowAll{})
	msg := policyMsg(t, "grant", map[string]string{"role": "r1", "scope": "sync"}, false)
	if err := h.HandleBotAccessCommand(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ops.last(t), "Only administrators") {
		t.Errorf("expected the admin gate, got %q", ops.last(t))
	}
}

func TestBotAccessGrant(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().GrantScope("g1", "r1", "sync").Return(nil)

	h, _ := newHandlers(t, store, allowAll{})
	msg := policyMsg(t, "grant", map[string]string{"role": "r1", "scope": "sync"}, true)
	if err := h.HandleBotAccessCommand(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBotAccessGrantUnknownScope(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	h, ops := newHandlers(t, store, allowAll{})
	msg := policyMsg(t, "grant", map[string]string{"role": "r1", "scope": "root"}, true)
	if err := h.HandleBotAccessCommand(msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(ops.last(t), "❌") {
		t.Errorf("expected an error reply, got %q", ops.last(t))
	}
}

func TestStatusSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Levels("g1").Return(map[string]map[string]bool{"Custom": {}}, nil)
	store.EXPECT().CategoryBaselines("g1").Return(map[string]string{"c1": "View"}, nil)
	store.EXPECT().AccessRules("g1").Return(storage.AccessRulesDoc{NextID: 3, Rules: []storage.AccessRule{{ID: 1}, {ID: 2}}}, nil)
	store.EXPECT().Bundles("g1").Return(map[string][]string{"crew": {"r1"}}, nil)
	store.EXPECT().ExclusiveGroups("g1").Return(map[string][]string{}, nil)
	store.EXPECT().BotAccess("g1").Return(map[string][]string{}, nil)

	h, ops := newHandlers(t, store, allowAll{})
	if err := h.HandleStatusRequested(policyMsg(t, "", nil, true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reply := ops.last(t)
	if !strings.Contains(reply, "Access rules: 2") {
		t.Errorf("expected rule count in status, got %q", reply)
	}
	if !strings.Contains(reply, "Bundles: 1") {
		t.Errorf("expected bundle count in status, got %q", reply)
	}
}
