package repository

import (
	"errors"

	"github.com/cataloghq/catalog_service/internal/domain"
	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByID(roleID uint) (*domain.Role, error)
	FindByName(name string) (*domain.Role, error)
	List() ([]domain.Role, error)
	Create(role *domain.Role) error
	Save(role *domain.Role) error
	GetRoleByUserID(userID uint) (*domain.Role, error)
	AssignRole(userID, roleID uint) error
	FindActiveUsersByRoleName(roleName string) ([]domain.User, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByID(roleID uint) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.First(&role, roleID).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(name string) (*domain.Role, error) {
	var role domain.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List() ([]domain.Role, error) {
	var roles []domain.Role
	if err := r.db.Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) Create(role *domain.Role) error {
	if role == nil {
		return errors.New("nil role")
	}
	return r.db.Create(role).Error
}

func (r *roleRepository) Save(role *domain.Role) error {
	if role == nil {
		return errors.New("nil role")
	}
	return r.db.Save(role).Error
}

func (r *roleRepository) GetRoleByUserID(userID uint) (*domain.Role, error) {
	var link domain.UserRole
	if err := r.db.Where("user_id = ?", userID).First(&link).Error; err != nil {
		return nil, err
	}

	var role domain.Role
	if err := r.db.First(&role, link.RoleID).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// AssignRole replaces any existing role link for the user.
func (r *roleRepository) AssignRole(userID, roleID uint) error {
	if userID == 0 || roleID == 0 {
		return errors.New("invalid user_id or role_id")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Create(&domain.UserRole{UserID: userID, RoleID: roleID}).Error
	})
}

func (r *roleRepository) FindActiveUsersByRoleName(roleName string) ([]domain.User, error) {
	var users []domain.User
	err := r.db.
		Model(&domain.User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ? AND users.status = ?", roleName, true).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
