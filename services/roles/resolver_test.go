package roles

import (
	"reflect"
	"testing"
)

func TestResolveAssignAddsMissingRoles(t *testing.T) {
	delta := ResolveAssign([]string{"r1"}, []string{"r1", "r2", "r3"}, nil)
	if !reflect.DeepEqual(delta.Add, []string{"r2", "r3"}) {
		t.Fatalf("add = %v, want [r2 r3]", delta.Add)
	}
	if len(delta.Remove) != 0 {
		t.Fatalf("remove = %v, want none", delta.Remove)
	}
}

func TestResolveAssignEvictsExclusiveGroupConflicts(t *testing.T) {
	groups := map[string][]string{
		"team": {"red", "blue", "green"},
	}
	delta := ResolveAssign([]string{"blue", "other"}, []string{"red"}, groups)

	if !reflect.DeepEqual(delta.Add, []string{"red"}) {
		t.Fatalf("add = %v, want [red]", delta.Add)
	}
	if !reflect.DeepEqual(delta.Remove, []string{"blue"}) {
		t.Fatalf("remove = %v, want [blue]", delta.Remove)
	}
}

func TestResolveAssignKeepsBundleRolesInSameGroup(t *testing.T) {
	// A bundle may itself contain two roles of one group; assigning it
	// must not evict roles the bundle is about to grant.
	groups := map[string][]string{
		"team": {"red", "blue"},
	}
	delta := ResolveAssign([]string{"blue"}, []string{"red", "blue"}, groups)

	if !reflect.DeepEqual(delta.Add, []string{"red"}) {
		t.Fatalf("add = %v, want [red]", delta.Add)
	}
	if len(delta.Remove) != 0 {
		t.Fatalf("remove = %v, want none", delta.Remove)
	}
}

func TestResolveAssignIdempotent(t *testing.T) {
	groups := map[string][]string{"team": {"red", "blue"}}
	if delta := ResolveAssign([]string{"red"}, []string{"red"}, groups); !delta.Empty() {
		t.Fatalf("assigning an already-held bundle should change nothing, got %+v", delta)
	}
}

func TestResolveRemoveOnlyHeldRoles(t *testing.T) {
	delta := ResolveRemove([]string{"r1", "r3"}, []string{"r1", "r2"})
	if !reflect.DeepEqual(delta.Remove, []string{"r1"}) {
		t.Fatalf("remove = %v, want [r1]", delta.Remove)
	}
	if len(delta.Add) != 0 {
		t.Fatalf("add = %v, want none", delta.Add)
	}
}
