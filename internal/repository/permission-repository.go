package repository

import (
	"errors"

	"github.com/cataloghq/catalog_service/internal/domain"
	"gorm.io/gorm"
)

type PermissionRepository interface {
	FindByID(permissionID uint) (*domain.Permission, error)
	FindByName(name string) (*domain.Permission, error)
	List() ([]domain.Permission, error)
	Create(perm *domain.Permission) error
	Save(perm *domain.Permission) error
	AssignToRole(roleID, permissionID uint) error
	ListByRoleID(roleID uint) ([]domain.Permission, error)
}

type permissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) FindByID(permissionID uint) (*domain.Permission, error) {
	var perm domain.Permission
	if err := r.db.First(&perm, permissionID).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *permissionRepository) FindByName(name string) (*domain.Permission, error) {
	var perm domain.Permission
	if err := r.db.Where("name = ?", name).First(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *permissionRepository) List() ([]domain.Permission, error) {
	var perms []domain.Permission
	if err := r.db.Order("id ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *permissionRepository) Create(perm *domain.Permission) error {
	if perm == nil {
		return errors.New("nil permission")
	}
	return r.db.Create(perm).Error
}

func (r *permissionRepository) Save(perm *domain.Permission) error {
	if perm == nil {
		return errors.New("nil permission")
	}
	return r.db.Save(perm).Error
}

// AssignToRole is idempotent; an existing link is left as is.
func (r *permissionRepository) AssignToRole(roleID, permissionID uint) error {
	var count int64
	err := r.db.
		Model(&domain.RolePermission{}).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.Create(&domain.RolePermission{RoleID: roleID, PermissionID: permissionID}).Error
}

func (r *permissionRepository) ListByRoleID(roleID uint) ([]domain.Permission, error) {
	var perms []domain.Permission
	err := r.db.
		Model(&domain.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Find(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}
