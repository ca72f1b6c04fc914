package services

import (
	"fmt"
	"sort"

	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/cataloghq/catalog_service/internal/repository"
)

type ChangeLogService interface {
	// Diff-and-record: one row per changed field, none when nothing changed.
	RecordProductChanges(productID, changedBy uint, actionName string, before, after domain.Snapshot) ([]domain.ProductChangeLog, error)
	RecordUserChanges(userID, changedBy uint, actionName string, before, after domain.Snapshot) ([]domain.UserChangeLog, error)

	// Direct single-entry writes (password changes are recorded masked).
	LogProductChange(productID, changedBy uint, actionName, field string, oldValue, newValue *string) (*domain.ProductChangeLog, error)
	LogUserChange(userID, changedBy uint, actionName, field string, oldValue, newValue *string) (*domain.UserChangeLog, error)

	ListProductLogs() ([]dto.ProductChangeLogResponse, error)
	ListProductLogsByProduct(productID uint) ([]dto.ProductChangeLogResponse, error)
	ListUserLogs() ([]dto.UserChangeLogResponse, error)
	ListUserLogsByUser(userID uint) ([]dto.UserChangeLogResponse, error)
}

type changeLogService struct {
	repo        repository.ChangeLogRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewChangeLogService(
	repo repository.ChangeLogRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) ChangeLogService {
	return &changeLogService{
		repo:        repo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

func (s *changeLogService) RecordProductChanges(productID, changedBy uint, actionName string, before, after domain.Snapshot) ([]domain.ProductChangeLog, error) {
	// fail fast, before any row is written
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, fmt.Errorf("product %w", ErrNotFound)
	}
	if _, err := s.userRepo.FindUserById(changedBy); err != nil {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}

	logs := make([]domain.ProductChangeLog, 0)
	for _, field := range changedFields(before, after) {
		entry, err := s.LogProductChange(productID, changedBy, actionName, field, before[field], after[field])
		if err != nil {
			// rows written so far stay; the caller logs and moves on
			return logs, err
		}
		logs = append(logs, *entry)
	}
	return logs, nil
}

func (s *changeLogService) RecordUserChanges(userID, changedBy uint, actionName string, before, after domain.Snapshot) ([]domain.UserChangeLog, error) {
	for _, id := range []uint{userID, changedBy} {
		if _, err := s.userRepo.FindUserById(id); err != nil {
			return nil, fmt.Errorf("user %d %w", id, ErrNotFound)
		}
	}

	logs := make([]domain.UserChangeLog, 0)
	for _, field := range changedFields(before, after) {
		entry, err := s.LogUserChange(userID, changedBy, actionName, field, before[field], after[field])
		if err != nil {
			return logs, err
		}
		logs = append(logs, *entry)
	}
	return logs, nil
}

func (s *changeLogService) LogProductChange(productID, changedBy uint, actionName, field string, oldValue, newValue *string) (*domain.ProductChangeLog, error) {
	action, err := s.repo.GetOrCreateAction(actionName, actionName)
	if err != nil {
		return nil, err
	}

	entry := &domain.ProductChangeLog{
		ProductID:    productID,
		ChangedBy:    changedBy,
		ActionID:     action.ID,
		FieldChanged: field,
		OldValue:     oldValue,
		NewValue:     newValue,
	}
	if err := s.repo.CreateProductLog(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *changeLogService) LogUserChange(userID, changedBy uint, actionName, field string, oldValue, newValue *string) (*domain.UserChangeLog, error) {
	action, err := s.repo.GetOrCreateAction(actionName, actionName)
	if err != nil {
		return nil, err
	}

	entry := &domain.UserChangeLog{
		UserID:       userID,
		ChangedBy:    changedBy,
		ActionID:     action.ID,
		FieldChanged: field,
		OldValue:     oldValue,
		NewValue:     newValue,
	}
	if err := s.repo.CreateUserLog(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// changedFields compares the fields present in both snapshots and returns
// the differing ones in a stable order.
func changedFields(before, after domain.Snapshot) []string {
	fields := make([]string, 0, len(before))
	for field, oldVal := range before {
		newVal, ok := after[field]
		if !ok {
			continue
		}
		if !valueEqual(oldVal, newVal) {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

func valueEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *changeLogService) ListProductLogs() ([]dto.ProductChangeLogResponse, error) {
	logs, err := s.repo.ListProductLogs()
	if err != nil {
		return nil, err
	}
	return s.toProductResponses(logs)
}

func (s *changeLogService) ListProductLogsByProduct(productID uint) ([]dto.ProductChangeLogResponse, error) {
	logs, err := s.repo.ListProductLogsByProduct(productID)
	if err != nil {
		return nil, err
	}
	return s.toProductResponses(logs)
}

func (s *changeLogService) ListUserLogs() ([]dto.UserChangeLogResponse, error) {
	logs, err := s.repo.ListUserLogs()
	if err != nil {
		return nil, err
	}
	return s.toUserResponses(logs)
}

func (s *changeLogService) ListUserLogsByUser(userID uint) ([]dto.UserChangeLogResponse, error) {
	logs, err := s.repo.ListUserLogsByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.toUserResponses(logs)
}

func (s *changeLogService) actionNames(ids []uint) (map[uint]string, error) {
	actions, err := s.repo.FindActionsByIds(ids)
	if err != nil {
		return nil, err
	}
	lookup := make(map[uint]string, len(actions))
	for _, a := range actions {
		lookup[a.ID] = a.Name
	}
	return lookup, nil
}

func (s *changeLogService) toProductResponses(logs []domain.ProductChangeLog) ([]dto.ProductChangeLogResponse, error) {
	ids := make([]uint, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.ActionID)
	}
	lookup, err := s.actionNames(ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ProductChangeLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.ProductChangeLogResponse{
			ID:           l.ID,
			ProductID:    l.ProductID,
			ChangedBy:    l.ChangedBy,
			ActionID:     l.ActionID,
			ActionName:   lookup[l.ActionID],
			FieldChanged: l.FieldChanged,
			OldValue:     l.OldValue,
			NewValue:     l.NewValue,
			ChangedAt:    l.ChangedAt.String(),
		})
	}
	return out, nil
}

func (s *changeLogService) toUserResponses(logs []domain.UserChangeLog) ([]dto.UserChangeLogResponse, error) {
	ids := make([]uint, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.ActionID)
	}
	lookup, err := s.actionNames(ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserChangeLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.UserChangeLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			ChangedBy:    l.ChangedBy,
			ActionID:     l.ActionID,
			ActionName:   lookup[l.ActionID],
			FieldChanged: l.FieldChanged,
			OldValue:     l.OldValue,
			NewValue:     l.NewValue,
			ChangedAt:    l.ChangedAt.String(),
		})
	}
	return out, nil
}
