package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rowin21/splitledger/internal/storage"
)

func TestCreateGroup(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	if env.group.CreatedBy != env.alice.ID {
		t.Errorf("CreatedBy = %s, want %s", env.group.CreatedBy, env.alice.ID)
	}
	if len(env.group.Members) != 3 {
		t.Errorf("got %d members, want 3", len(env.group.Members))
	}
	if !env.group.HasMember(env.alice.ID) {
		t.Error("creator is not a member")
	}

	// Duplicated IDs, including the creator's own, collapse to one entry.
	group, err := env.groups.CreateGroup(ctx, env.alice.ID, "Dupes", []string{env.alice.ID, env.bob.ID, env.bob.ID})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if len(group.Members) != 2 {
		t.Errorf("got %d members, want 2", len(group.Members))
	}
}

func TestCreateGroupUnknownMember(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.groups.CreateGroup(context.Background(), env.alice.ID, "Ghost", []string{"no-such-user"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("CreateGroup error = %v, want ErrNotFound", err)
	}
}

func TestGetGroupMembersOnly(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	outsider := env.newUser(t, "+15551230020", "Mallory")

	if _, err := env.groups.GetGroup(ctx, env.bob.ID, env.group.ID); err != nil {
		t.Errorf("member GetGroup failed: %v", err)
	}
	if _, err := env.groups.GetGroup(ctx, outsider.ID, env.group.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider GetGroup error = %v, want ErrForbidden", err)
	}
}

func TestAddMembers(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	dave := env.newUser(t, "+15551230021", "Dave")
	outsider := env.newUser(t, "+15551230022", "Mallory")

	// Outsiders cannot add themselves.
	if _, err := env.groups.AddMembers(ctx, outsider.ID, env.group.ID, []string{outsider.ID}); !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider AddMembers error = %v, want ErrForbidden", err)
	}

	// Any member may add; not just the creator.
	group, err := env.groups.AddMembers(ctx, env.bob.ID, env.group.ID, []string{dave.ID})
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}
	if !group.HasMember(dave.ID) {
		t.Error("Dave was not added")
	}

	if _, err := env.groups.AddMembers(ctx, env.bob.ID, env.group.ID, []string{"no-such-user"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown member error = %v, want ErrNotFound", err)
	}
}

func TestDeactivateGroup(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	// Only the creator may deactivate.
	if err := env.groups.DeactivateGroup(ctx, env.bob.ID, env.group.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("member deactivate error = %v, want ErrForbidden", err)
	}

	if err := env.groups.DeactivateGroup(ctx, env.alice.ID, env.group.ID); err != nil {
		t.Fatalf("DeactivateGroup failed: %v", err)
	}

	groups, err := env.groups.ListGroups(ctx, env.alice.ID)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	for _, g := range groups {
		if g.ID == env.group.ID {
			t.Error("deactivated group still listed")
		}
	}

	// Adding members to a dead group is rejected.
	if _, err := env.groups.AddMembers(ctx, env.alice.ID, env.group.ID, []string{env.bob.ID}); !errors.Is(err, ErrGroupInactive) {
		t.Errorf("AddMembers error = %v, want ErrGroupInactive", err)
	}
}

func TestListGroups(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	second, err := env.groups.CreateGroup(ctx, env.bob.ID, "Dinner", []string{env.alice.ID})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	groups, err := env.groups.ListGroups(ctx, env.alice.ID)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 2 {
		t.Errorf("Alice has %d groups, want 2", len(groups))
	}

	groups, err = env.groups.ListGroups(ctx, env.carol.ID)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID == second.ID {
		t.Errorf("Carol's groups = %d, want only the trip group", len(groups))
	}
}
