package services

import (
	"fmt"
	"strings"

	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/cataloghq/catalog_service/internal/repository"
)

type PermissionService interface {
	List() ([]domain.Permission, error)
	Get(permissionID uint) (*domain.Permission, error)
	Create(input dto.PermissionCreate) (*domain.Permission, error)
	Update(permissionID uint, input dto.PermissionUpdate) (*domain.Permission, error)
	AssignToRole(input dto.AssignPermissionRequest) error
	ListRolePermissions(roleID uint) ([]domain.Permission, error)
	ListUserPermissions(userID uint) ([]domain.Permission, error)
}

type permissionService struct {
	repo     repository.PermissionRepository
	roleRepo repository.RoleRepository
}

func NewPermissionService(repo repository.PermissionRepository, roleRepo repository.RoleRepository) PermissionService {
	return &permissionService{repo: repo, roleRepo: roleRepo}
}

func (s *permissionService) List() ([]domain.Permission, error) {
	return s.repo.List()
}

func (s *permissionService) Get(permissionID uint) (*domain.Permission, error) {
	perm, err := s.repo.FindByID(permissionID)
	if err != nil {
		return nil, fmt.Errorf("permission %w", ErrNotFound)
	}
	return perm, nil
}

func (s *permissionService) Create(input dto.PermissionCreate) (*domain.Permission, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("permission name is required")
	}
	if existing, err := s.repo.FindByName(name); err == nil && existing != nil {
		return nil, fmt.Errorf("permission name %w", ErrConflict)
	}

	status := true
	if input.Status != nil {
		status = *input.Status
	}
	perm := &domain.Permission{
		Name:        name,
		Description: input.Description,
		Status:      status,
	}
	if err := s.repo.Create(perm); err != nil {
		return nil, err
	}
	return perm, nil
}

func (s *permissionService) Update(permissionID uint, input dto.PermissionUpdate) (*domain.Permission, error) {
	perm, err := s.repo.FindByID(permissionID)
	if err != nil {
		return nil, fmt.Errorf("permission %w", ErrNotFound)
	}

	if input.Name != nil && *input.Name != perm.Name {
		if existing, err := s.repo.FindByName(*input.Name); err == nil && existing != nil {
			return nil, fmt.Errorf("permission name %w", ErrConflict)
		}
		perm.Name = *input.Name
	}
	if input.Description != nil {
		perm.Description = *input.Description
	}
	if input.Status != nil {
		perm.Status = *input.Status
	}

	if err := s.repo.Save(perm); err != nil {
		return nil, err
	}
	return perm, nil
}

func (s *permissionService) AssignToRole(input dto.AssignPermissionRequest) error {
	if _, err := s.roleRepo.FindByID(input.RoleID); err != nil {
		return fmt.Errorf("role %w", ErrNotFound)
	}
	if _, err := s.repo.FindByID(input.PermissionID); err != nil {
		return fmt.Errorf("permission %w", ErrNotFound)
	}
	return s.repo.AssignToRole(input.RoleID, input.PermissionID)
}

func (s *permissionService) ListRolePermissions(roleID uint) ([]domain.Permission, error) {
	if _, err := s.roleRepo.FindByID(roleID); err != nil {
		return nil, fmt.Errorf("role %w", ErrNotFound)
	}
	return s.repo.ListByRoleID(roleID)
}

// ListUserPermissions resolves the user's single role and returns that
// role's permission set. A user without a role simply has none.
func (s *permissionService) ListUserPermissions(userID uint) ([]domain.Permission, error) {
	role, err := s.roleRepo.GetRoleByUserID(userID)
	if err != nil || role == nil {
		return []domain.Permission{}, nil
	}
	return s.repo.ListByRoleID(role.ID)
}
