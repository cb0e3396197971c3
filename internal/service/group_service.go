package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rowin21/splitledger/internal/models"
	"github.com/rowin21/splitledger/internal/storage"
)

// GroupService manages expense-sharing groups.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group. The creator is always added as a
// member; every supplied member ID must refer to an existing user.
func (s *GroupService) CreateGroup(ctx context.Context, creatorID, name string, memberIDs []string) (*models.Group, error) {
	members := append([]string{creatorID}, memberIDs...)

	if err := s.verifyUsersExist(ctx, members); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:      name,
		CreatedBy: creatorID,
		Members:   dedupe(members),
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "members", len(group.Members))
	return group, nil
}

// GetGroup retrieves a group. The acting user must be a member.
func (s *GroupService) GetGroup(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, ErrForbidden
	}
	return group, nil
}

// ListGroups returns all active groups the acting user belongs to.
func (s *GroupService) ListGroups(ctx context.Context, actorID string) ([]*models.Group, error) {
	return s.store.ListGroupsForUser(ctx, actorID)
}

// AddMembers adds users to a group. Any existing member may add new ones.
func (s *GroupService) AddMembers(ctx context.Context, actorID, groupID string, userIDs []string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsActive {
		return nil, ErrGroupInactive
	}
	if !group.HasMember(actorID) {
		return nil, ErrForbidden
	}

	if err := s.verifyUsersExist(ctx, userIDs); err != nil {
		return nil, err
	}

	if err := s.store.AddGroupMembers(ctx, groupID, userIDs); err != nil {
		slog.Error("AddMembers failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Group members added", "group_id", groupID, "added", len(userIDs))
	return s.store.GetGroup(ctx, groupID)
}

// DeactivateGroup soft-deletes a group. Only the creator may do this.
func (s *GroupService) DeactivateGroup(ctx context.Context, actorID, groupID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if group.CreatedBy != actorID {
		return ErrForbidden
	}

	if err := s.store.DeactivateGroup(ctx, groupID); err != nil {
		slog.Error("DeactivateGroup failed", "group_id", groupID, "error", err)
		return err
	}

	slog.Info("Group deactivated", "group_id", groupID)
	return nil
}

func (s *GroupService) verifyUsersExist(ctx context.Context, userIDs []string) error {
	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	for _, id := range userIDs {
		if _, ok := users[id]; !ok {
			return fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
