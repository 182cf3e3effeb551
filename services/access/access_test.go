package access

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/guildops/permsync/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAdminBypassesGrants(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	// No BotAccess call expected.

	c := NewChecker(store, testLogger())
	allowed, err := c.Allowed(context.Background(), "g1", nil, true, ScopeSync)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatal("administrators must always be allowed")
	}
}

func TestGrantedRolePasses(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().BotAccess("g1").Return(map[string][]string{
		"mod-role": {ScopeLevels, ScopeSync},
	}, nil)

	c := NewChecker(store, testLogger())
	allowed, err := c.Allowed(context.Background(), "g1", []string{"other", "mod-role"}, false, ScopeSync)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatal("a role holding the scope grant must pass")
	}
}

func TestUngrantedRoleDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().BotAccess("g1").Return(map[string][]string{
		"mod-role": {ScopeLevels},
	}, nil)

	c := NewChecker(store, testLogger())
	allowed, err := c.Allowed(context.Background(), "g1", []string{"mod-role"}, false, ScopeSync)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("a scope the role does not hold must be denied")
	}
}

func TestStoreErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().BotAccess("g1").Return(nil, errors.New("disk gone"))

	c := NewChecker(store, testLogger())
	if _, err := c.Allowed(context.Background(), "g1", []string{"r"}, false, ScopeSync); err == nil {
		t.Fatal("expected the store error to propagate")
	}
}

func TestCommandScopesCoverEveryScope(t *testing.T) {
	for cmd, scope := range CommandScopes {
		if !ValidScope(scope) {
			t.Errorf("command %q maps to unknown scope %q", cmd, scope)
		}
	}
	for _, scope := range Scopes {
		if _, ok := ScopeLabels[scope]; !ok {
			t.Errorf("scope %q has no label", scope)
		}
	}
}
