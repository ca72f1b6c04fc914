package repository

import (
	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/helper"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	GetOrCreateStatus(name string) (*domain.NotificationStatus, error)
	CreateBatch(notifications []domain.AdminNotification) ([]domain.AdminNotification, error)
	UpdateBatchStatus(ids []uint, statusID uint, errorMessage *string) error
	List() ([]domain.AdminNotification, error)
	ListByUser(userID uint) ([]domain.AdminNotification, error)
	FindStatusesByIds(ids []uint) ([]domain.NotificationStatus, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Same get-or-create contract as the action taxonomy, separate namespace.
func (r *notificationRepository) GetOrCreateStatus(name string) (*domain.NotificationStatus, error) {
	var status domain.NotificationStatus
	err := r.db.Where("name = ?", name).First(&status).Error
	if err == nil {
		return &status, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	status = domain.NotificationStatus{Name: name, Description: name}
	if err := r.db.Create(&status).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			var existing domain.NotificationStatus
			if err := r.db.Where("name = ?", name).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}
	return &status, nil
}

// CreateBatch writes all rows of one dispatch in a single commit so the
// PENDING set is visible before any delivery attempt.
func (r *notificationRepository) CreateBatch(notifications []domain.AdminNotification) ([]domain.AdminNotification, error) {
	if len(notifications) == 0 {
		return notifications, nil
	}
	if err := r.db.Create(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) UpdateBatchStatus(ids []uint, statusID uint, errorMessage *string) error {
	if len(ids) == 0 {
		return nil
	}
	updates := map[string]interface{}{
		"status_id":     statusID,
		"error_message": errorMessage,
	}
	return r.db.
		Model(&domain.AdminNotification{}).
		Where("id IN ?", ids).
		Updates(updates).Error
}

func (r *notificationRepository) List() ([]domain.AdminNotification, error) {
	var notifs []domain.AdminNotification
	if err := r.db.Order("sent_at DESC").Find(&notifs).Error; err != nil {
		return nil, err
	}
	return notifs, nil
}

func (r *notificationRepository) ListByUser(userID uint) ([]domain.AdminNotification, error) {
	var notifs []domain.AdminNotification
	if err := r.db.Where("sent_to = ?", userID).Order("sent_at DESC").Find(&notifs).Error; err != nil {
		return nil, err
	}
	return notifs, nil
}

func (r *notificationRepository) FindStatusesByIds(ids []uint) ([]domain.NotificationStatus, error) {
	var statuses []domain.NotificationStatus
	if len(ids) == 0 {
		return statuses, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}
