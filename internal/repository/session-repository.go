package repository

import (
	"time"

	"github.com/cataloghq/catalog_service/internal/domain"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *domain.UserSession) error
	CloseOpenSessions(userID uint, at time.Time) error
	FindByIDAndUser(sessionID, userID uint) (*domain.UserSession, error)
	Save(session *domain.UserSession) error
	ListByUser(userID uint) ([]domain.UserSession, error)
	FindActiveByUser(userID uint) (*domain.UserSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *domain.UserSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepository) CloseOpenSessions(userID uint, at time.Time) error {
	return r.db.
		Model(&domain.UserSession{}).
		Where("user_id = ? AND logout_at IS NULL", userID).
		Update("logout_at", at).Error
}

func (r *sessionRepository) FindByIDAndUser(sessionID, userID uint) (*domain.UserSession, error) {
	var session domain.UserSession
	if err := r.db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Save(session *domain.UserSession) error {
	return r.db.Save(session).Error
}

func (r *sessionRepository) ListByUser(userID uint) ([]domain.UserSession, error) {
	var sessions []domain.UserSession
	if err := r.db.Where("user_id = ?", userID).Order("login_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) FindActiveByUser(userID uint) (*domain.UserSession, error) {
	var session domain.UserSession
	err := r.db.
		Where("user_id = ? AND logout_at IS NULL", userID).
		Order("login_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
