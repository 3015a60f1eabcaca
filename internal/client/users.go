package client

import (
	"context"

	"github.com/jroosing/mmws/internal/entity"
	"github.com/jroosing/mmws/internal/resources"
	"github.com/jroosing/mmws/internal/service"
	"github.com/jroosing/mmws/internal/transport"
)

// GroupService manages groups and their role and user memberships.
// Every group, role or user argument is a reference or an entity.
type GroupService struct {
	*service.Service
}

// Roles lists the roles granted to group.
func (s *GroupService) Roles(ctx context.Context, group entity.Referent, q transport.Query) ([]*entity.Entity, error) {
	return s.Related(ctx, group, "Roles", "roles", resources.Role, q)
}

// AddRole grants role to group.
func (s *GroupService) AddRole(ctx context.Context, group, role entity.Referent, saveComment string) error {
	return s.Link(ctx, group, role, saveComment)
}

// DeleteRole revokes role from group.
func (s *GroupService) DeleteRole(ctx context.Context, group, role entity.Referent, saveComment string) error {
	return s.Unlink(ctx, group, role, saveComment)
}

// Users lists the members of group.
func (s *GroupService) Users(ctx context.Context, group entity.Referent, q transport.Query) ([]*entity.Entity, error) {
	return s.Related(ctx, group, "Users", "users", resources.User, q)
}

// AddUser makes user a member of group.
func (s *GroupService) AddUser(ctx context.Context, group, user entity.Referent, saveComment string) error {
	return s.Link(ctx, group, user, saveComment)
}

// DeleteUser removes user from group.
func (s *GroupService) DeleteUser(ctx context.Context, group, user entity.Referent, saveComment string) error {
	return s.Unlink(ctx, group, user, saveComment)
}

// UserService manages users and their group and role memberships.
type UserService struct {
	*service.Service
}

// Groups lists the groups user belongs to.
func (s *UserService) Groups(ctx context.Context, user entity.Referent, q transport.Query) ([]*entity.Entity, error) {
	return s.Related(ctx, user, "Groups", "groups", resources.Group, q)
}

// Roles lists the roles granted directly to user.
func (s *UserService) Roles(ctx context.Context, user entity.Referent, q transport.Query) ([]*entity.Entity, error) {
	return s.Related(ctx, user, "Roles", "roles", resources.Role, q)
}

// AddRole grants role to user.
func (s *UserService) AddRole(ctx context.Context, user, role entity.Referent, saveComment string) error {
	return s.Link(ctx, user, role, saveComment)
}

// DeleteRole revokes role from user.
func (s *UserService) DeleteRole(ctx context.Context, user, role entity.Referent, saveComment string) error {
	return s.Unlink(ctx, user, role, saveComment)
}

// RoleService lists roles and who holds them.
type RoleService struct {
	*service.Service
}

// Groups lists the groups holding role.
func (s *RoleService) Groups(ctx context.Context, role entity.Referent, q transport.Query) ([]*entity.Entity, error) {
	return s.Related(ctx, role, "Groups", "groups", resources.Group, q)
}

// Users lists the users holding role.
func (s *RoleService) Users(ctx context.Context, role entity.Referent, q transport.Query) ([]*entity.Entity, error) {
	return s.Related(ctx, role, "Users", "users", resources.User, q)
}
