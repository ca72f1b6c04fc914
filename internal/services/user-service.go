package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cataloghq/catalog_service/config"
	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/cataloghq/catalog_service/internal/helper"
	"github.com/cataloghq/catalog_service/internal/interfaces"
	"github.com/cataloghq/catalog_service/internal/repository"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	ActionUpdateUser     = "UPDATE_USER"
	ActionDeleteUser     = "DELETE_USER"
	ActionPasswordChange = "PASSWORD_CHANGE"
)

type UserService interface {
	Register(input dto.RegisterRequest) (*domain.User, error)
	Login(input dto.UserLogin) (dto.TokenResponse, error)
	AnonymousToken() (dto.TokenResponse, error)

	GetUsers() ([]domain.User, error)
	GetUser(userID uint) (*domain.User, error)
	UpdateUser(userID uint, input dto.UserUpdate, changedBy uint) (*domain.User, error)
	SoftDeleteUser(userID, changedBy uint) error
	ChangePassword(userID uint, input dto.PasswordChange) error

	IsAdmin(userID uint) bool
	GetRoleName(userID uint) (string, error)

	ListSessions(userID uint) ([]domain.UserSession, error)
	ActiveSession(userID uint) (*domain.UserSession, error)
	CloseSession(sessionID, userID uint) (*domain.UserSession, error)
}

type userService struct {
	repo        repository.UserRepository
	roleRepo    repository.RoleRepository
	sessionRepo repository.SessionRepository
	changeLog   ChangeLogService
	notifier    NotificationService
	producer    interfaces.ProducerHandler
	auth        helper.Auth
	seed        config.SeedConfig
}

func NewUserService(
	repo repository.UserRepository,
	roleRepo repository.RoleRepository,
	sessionRepo repository.SessionRepository,
	changeLog ChangeLogService,
	notifier NotificationService,
	producer interfaces.ProducerHandler,
	auth helper.Auth,
	seed config.SeedConfig,
) UserService {
	return &userService{
		repo:        repo,
		roleRepo:    roleRepo,
		sessionRepo: sessionRepo,
		changeLog:   changeLog,
		notifier:    notifier,
		producer:    producer,
		auth:        auth,
		seed:        seed,
	}
}

func (s *userService) Register(input dto.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if existing, err := s.repo.FindUserByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("user email %w", ErrConflict)
	}

	hashed, err := s.auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(&domain.User{
		Email:     email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Password:  hashed,
		Status:    true,
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, fmt.Errorf("user email %w", ErrConflict)
		}
		return nil, err
	}

	// new accounts start without elevated access
	if anon, err := s.roleRepo.FindByName(domain.RoleAnonymous); err == nil {
		if err := s.roleRepo.AssignRole(user.ID, anon.ID); err != nil {
			log.Warnf("assign default role to user %d: %v", user.ID, err)
		}
	}
	return user, nil
}

func (s *userService) Login(input dto.UserLogin) (dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("invalid email or password")
	}
	if !user.Status {
		return dto.TokenResponse{}, fmt.Errorf("user account is disabled")
	}
	if err := s.auth.VerifyPassword(input.Password, user.Password); err != nil {
		return dto.TokenResponse{}, fmt.Errorf("invalid email or password")
	}

	s.openSession(user.ID, false)
	return s.tokenFor(user)
}

// AnonymousToken signs a token for the shared read-only account so the
// public catalog endpoints can be browsed without registering.
func (s *userService) AnonymousToken() (dto.TokenResponse, error) {
	if s.seed.AnonEmail == "" {
		return dto.TokenResponse{}, fmt.Errorf("anonymous access is not configured")
	}
	user, err := s.repo.FindUserByEmail(s.seed.AnonEmail)
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("anonymous user %w", ErrNotFound)
	}

	s.openSession(user.ID, true)
	return s.tokenFor(user)
}

func (s *userService) tokenFor(user *domain.User) (dto.TokenResponse, error) {
	token, err := s.auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	return dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// openSession closes any lingering open session for the user before
// recording a fresh one. Session bookkeeping never blocks a login.
func (s *userService) openSession(userID uint, anonymous bool) {
	now := time.Now()
	if err := s.sessionRepo.CloseOpenSessions(userID, now); err != nil {
		log.Warnf("close open sessions for user %d: %v", userID, err)
	}
	err := s.sessionRepo.Create(&domain.UserSession{
		UserID:      userID,
		IsAnonymous: anonymous,
		LoginAt:     now,
	})
	if err != nil {
		log.Warnf("record session for user %d: %v", userID, err)
	}
}

func (s *userService) GetUsers() ([]domain.User, error) {
	return s.repo.ListUsers()
}

func (s *userService) GetUser(userID uint) (*domain.User, error) {
	user, err := s.repo.FindUserById(userID)
	if err != nil {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	return user, nil
}

func (s *userService) UpdateUser(userID uint, input dto.UserUpdate, changedBy uint) (*domain.User, error) {
	user, err := s.repo.FindUserById(userID)
	if err != nil {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}

	before := userSnapshot(user)

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			if existing, err := s.repo.FindUserByEmail(email); err == nil && existing != nil {
				return nil, fmt.Errorf("user email %w", ErrConflict)
			}
			user.Email = email
		}
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Status != nil {
		user.Status = *input.Status
	}

	if err := s.repo.SaveUser(user); err != nil {
		return nil, err
	}

	s.auditAndNotify(user.ID, before, userSnapshot(user), changedBy, ActionUpdateUser)
	return user, nil
}

func (s *userService) SoftDeleteUser(userID, changedBy uint) error {
	user, err := s.repo.FindUserById(userID)
	if err != nil {
		return fmt.Errorf("user %w", ErrNotFound)
	}

	before := domain.Snapshot{"status": strPtr(strconv.FormatBool(user.Status))}
	user.Status = false
	if err := s.repo.SaveUser(user); err != nil {
		return err
	}
	after := domain.Snapshot{"status": strPtr(strconv.FormatBool(user.Status))}

	s.auditAndNotify(user.ID, before, after, changedBy, ActionDeleteUser)
	return nil
}

func (s *userService) ChangePassword(userID uint, input dto.PasswordChange) error {
	user, err := s.repo.FindUserById(userID)
	if err != nil {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	if err := s.auth.VerifyPassword(input.CurrentPassword, user.Password); err != nil {
		return fmt.Errorf("current password is incorrect")
	}
	if input.NewPassword == "" || input.NewPassword != input.NewPasswordConfirm {
		return fmt.Errorf("new password and confirmation do not match")
	}

	hashed, err := s.auth.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	if err := s.repo.SaveUser(user); err != nil {
		return err
	}

	// the hash never goes into the audit trail, only a masked marker
	masked := "***"
	if _, err := s.changeLog.LogUserChange(user.ID, user.ID, ActionPasswordChange, "password", &masked, &masked); err != nil {
		log.Errorf("record password change for user %d: %v", user.ID, err)
	}
	return nil
}

func (s *userService) auditAndNotify(userID uint, before, after domain.Snapshot, changedBy uint, actionName string) {
	logs, err := s.changeLog.RecordUserChanges(userID, changedBy, actionName, before, after)
	if err != nil {
		log.Errorf("record user %d changes: %v", userID, err)
	}
	if len(logs) == 0 {
		return
	}

	s.notifier.NotifyUserChange(logs)

	if s.producer != nil {
		payload := fmt.Sprintf(
			`{"user_id":%d,"changed_by":%d,"action":"%s","fields":%d}`,
			userID, changedBy, actionName, len(logs),
		)
		if err := s.producer.PublishMessage([]byte("catalog.user_changed"), []byte(payload)); err != nil {
			log.Warnf("publish user change event: %v", err)
		}
	}
}

func (s *userService) IsAdmin(userID uint) bool {
	role, err := s.roleRepo.GetRoleByUserID(userID)
	if err != nil || role == nil {
		return false
	}
	return role.Name == domain.RoleAdmin
}

func (s *userService) GetRoleName(userID uint) (string, error) {
	role, err := s.roleRepo.GetRoleByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("role assignment %w", ErrNotFound)
		}
		return "", err
	}
	return role.Name, nil
}

func (s *userService) ListSessions(userID uint) ([]domain.UserSession, error) {
	return s.sessionRepo.ListByUser(userID)
}

func (s *userService) ActiveSession(userID uint) (*domain.UserSession, error) {
	session, err := s.sessionRepo.FindActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (s *userService) CloseSession(sessionID, userID uint) (*domain.UserSession, error) {
	session, err := s.sessionRepo.FindByIDAndUser(sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("session %w", ErrNotFound)
	}
	if session.LogoutAt != nil {
		return session, nil
	}

	now := time.Now()
	session.LogoutAt = &now
	if err := s.sessionRepo.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

func userSnapshot(u *domain.User) domain.Snapshot {
	return domain.Snapshot{
		"email":      strPtr(u.Email),
		"first_name": strPtr(u.FirstName),
		"last_name":  strPtr(u.LastName),
		"status":     strPtr(strconv.FormatBool(u.Status)),
	}
}
