package services

import (
	"fmt"
	"strings"

	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/cataloghq/catalog_service/internal/repository"
)

type RoleService interface {
	List() ([]domain.Role, error)
	Get(roleID uint) (*domain.Role, error)
	Create(input dto.RoleCreate) (*domain.Role, error)
	Update(roleID uint, input dto.RoleUpdate) (*domain.Role, error)
	SoftDelete(roleID uint) error
	Assign(input dto.AssignRoleRequest) error
	GetUserRole(userID uint) (*domain.Role, error)
}

type roleService struct {
	repo     repository.RoleRepository
	userRepo repository.UserRepository
}

func NewRoleService(repo repository.RoleRepository, userRepo repository.UserRepository) RoleService {
	return &roleService{repo: repo, userRepo: userRepo}
}

func (s *roleService) List() ([]domain.Role, error) {
	return s.repo.List()
}

func (s *roleService) Get(roleID uint) (*domain.Role, error) {
	role, err := s.repo.FindByID(roleID)
	if err != nil {
		return nil, fmt.Errorf("role %w", ErrNotFound)
	}
	return role, nil
}

func (s *roleService) Create(input dto.RoleCreate) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if existing, err := s.repo.FindByName(name); err == nil && existing != nil {
		return nil, fmt.Errorf("role name %w", ErrConflict)
	}

	status := true
	if input.Status != nil {
		status = *input.Status
	}
	role := &domain.Role{
		Name:        name,
		Description: input.Description,
		Status:      status,
	}
	if err := s.repo.Create(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) Update(roleID uint, input dto.RoleUpdate) (*domain.Role, error) {
	role, err := s.repo.FindByID(roleID)
	if err != nil {
		return nil, fmt.Errorf("role %w", ErrNotFound)
	}

	if input.Name != nil && *input.Name != role.Name {
		if existing, err := s.repo.FindByName(*input.Name); err == nil && existing != nil {
			return nil, fmt.Errorf("role name %w", ErrConflict)
		}
		role.Name = *input.Name
	}
	if input.Description != nil {
		role.Description = *input.Description
	}
	if input.Status != nil {
		role.Status = *input.Status
	}

	if err := s.repo.Save(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) SoftDelete(roleID uint) error {
	role, err := s.repo.FindByID(roleID)
	if err != nil {
		return fmt.Errorf("role %w", ErrNotFound)
	}
	role.Status = false
	return s.repo.Save(role)
}

func (s *roleService) Assign(input dto.AssignRoleRequest) error {
	if _, err := s.userRepo.FindUserById(input.UserID); err != nil {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	if _, err := s.repo.FindByID(input.RoleID); err != nil {
		return fmt.Errorf("role %w", ErrNotFound)
	}
	return s.repo.AssignRole(input.UserID, input.RoleID)
}

func (s *roleService) GetUserRole(userID uint) (*domain.Role, error) {
	if _, err := s.userRepo.FindUserById(userID); err != nil {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	role, err := s.repo.GetRoleByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("role assignment %w", ErrNotFound)
	}
	return role, nil
}
