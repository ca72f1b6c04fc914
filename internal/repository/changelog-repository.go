package repository

import (
	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/helper"
	"gorm.io/gorm"
)

type ChangeLogRepository interface {
	GetOrCreateAction(name, description string) (*domain.Action, error)
	ListActions() ([]domain.Action, error)
	FindActionsByIds(ids []uint) ([]domain.Action, error)

	CreateProductLog(log *domain.ProductChangeLog) error
	ListProductLogs() ([]domain.ProductChangeLog, error)
	ListProductLogsByProduct(productID uint) ([]domain.ProductChangeLog, error)

	CreateUserLog(log *domain.UserChangeLog) error
	ListUserLogs() ([]domain.UserChangeLog, error)
	ListUserLogsByUser(userID uint) ([]domain.UserChangeLog, error)
}

type changeLogRepository struct {
	db *gorm.DB
}

func NewChangeLogRepository(db *gorm.DB) ChangeLogRepository {
	return &changeLogRepository{db: db}
}

// GetOrCreateAction resolves an action name to its stable identifier,
// creating the row on first use. A concurrent first use loses the
// unique-index race and re-fetches the winner.
func (r *changeLogRepository) GetOrCreateAction(name, description string) (*domain.Action, error) {
	var action domain.Action
	err := r.db.Where("name = ?", name).First(&action).Error
	if err == nil {
		return &action, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	if description == "" {
		description = name
	}
	action = domain.Action{Name: name, Description: description}
	if err := r.db.Create(&action).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			var existing domain.Action
			if err := r.db.Where("name = ?", name).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	return &action, nil
}

func (r *changeLogRepository) ListActions() ([]domain.Action, error) {
	var actions []domain.Action
	if err := r.db.Order("id ASC").Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *changeLogRepository) FindActionsByIds(ids []uint) ([]domain.Action, error) {
	var actions []domain.Action
	if len(ids) == 0 {
		return actions, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *changeLogRepository) CreateProductLog(log *domain.ProductChangeLog) error {
	return r.db.Create(log).Error
}

func (r *changeLogRepository) ListProductLogs() ([]domain.ProductChangeLog, error) {
	var logs []domain.ProductChangeLog
	if err := r.db.Order("changed_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *changeLogRepository) ListProductLogsByProduct(productID uint) ([]domain.ProductChangeLog, error) {
	var logs []domain.ProductChangeLog
	if err := r.db.Where("product_id = ?", productID).Order("changed_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *changeLogRepository) CreateUserLog(log *domain.UserChangeLog) error {
	return r.db.Create(log).Error
}

func (r *changeLogRepository) ListUserLogs() ([]domain.UserChangeLog, error) {
	var logs []domain.UserChangeLog
	if err := r.db.Order("changed_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *changeLogRepository) ListUserLogsByUser(userID uint) ([]domain.UserChangeLog, error) {
	var logs []domain.UserChangeLog
	if err := r.db.Where("user_id = ?", userID).Order("changed_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
