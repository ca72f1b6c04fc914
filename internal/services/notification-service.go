package services

import (
	"fmt"
	"strings"

	"github.com/cataloghq/catalog_service/config"
	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/cataloghq/catalog_service/internal/interfaces"
	"github.com/cataloghq/catalog_service/internal/repository"
	log "github.com/sirupsen/logrus"
)

// NotificationService emails the active admin roster about a batch of
// change-log entries and tracks per-recipient delivery rows. Dispatch is
// fire and forget: the triggering mutation has already committed, so no
// notification failure is ever returned to the caller.
type NotificationService interface {
	NotifyProductChange(logs []domain.ProductChangeLog)
	NotifyUserChange(logs []domain.UserChangeLog)

	List() ([]dto.AdminNotificationResponse, error)
	ListByUser(userID uint) ([]dto.AdminNotificationResponse, error)
}

type notificationService struct {
	cfg         config.NotifyConfig
	repo        repository.NotificationRepository
	roleRepo    repository.RoleRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	mailer      interfaces.Mailer
}

func NewNotificationService(
	cfg config.NotifyConfig,
	repo repository.NotificationRepository,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	mailer interfaces.Mailer,
) NotificationService {
	return &notificationService{
		cfg:         cfg,
		repo:        repo,
		roleRepo:    roleRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		mailer:      mailer,
	}
}

func (s *notificationService) NotifyProductChange(logs []domain.ProductChangeLog) {
	if len(logs) == 0 || !s.configValid() {
		return
	}

	admins := s.activeAdmins()
	if len(admins) == 0 {
		return
	}

	productID := logs[0].ProductID
	changerID := logs[0].ChangedBy

	name := fmt.Sprintf("#%d", productID)
	if product, err := s.productRepo.FindByID(productID); err == nil && product != nil {
		name = product.Name
	}
	changer := s.changerLabel(changerID)

	var subject string
	if len(logs) == 1 {
		subject = fmt.Sprintf("Product '%s' (#%d) field %s updated", name, productID, logs[0].FieldChanged)
	} else {
		subject = fmt.Sprintf("Product '%s' (#%d) updated (%d changes)", name, productID, len(logs))
	}

	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		lines = append(lines, fmt.Sprintf("- %s: %s -> %s", l.FieldChanged, renderValue(l.OldValue), renderValue(l.NewValue)))
	}
	body := fmt.Sprintf("Product '%s' (ID %d) updated by %s.\n\nChanges:\n%s",
		name, productID, changer, strings.Join(lines, "\n"))

	lastID := logs[len(logs)-1].ID
	s.deliver(admins, subject, body, &lastID, nil)
}

func (s *notificationService) NotifyUserChange(logs []domain.UserChangeLog) {
	if len(logs) == 0 || !s.configValid() {
		return
	}

	admins := s.activeAdmins()
	if len(admins) == 0 {
		return
	}

	userID := logs[0].UserID
	changerID := logs[0].ChangedBy

	name := fmt.Sprintf("#%d", userID)
	if user, err := s.userRepo.FindUserById(userID); err == nil && user != nil {
		name = user.Email
	}
	changer := s.changerLabel(changerID)

	var subject string
	if len(logs) == 1 {
		subject = fmt.Sprintf("User '%s' (#%d) field %s updated", name, userID, logs[0].FieldChanged)
	} else {
		subject = fmt.Sprintf("User '%s' (#%d) updated (%d changes)", name, userID, len(logs))
	}

	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		lines = append(lines, fmt.Sprintf("- %s: %s -> %s", l.FieldChanged, renderValue(l.OldValue), renderValue(l.NewValue)))
	}
	body := fmt.Sprintf("User '%s' (ID %d) updated by %s.\n\nChanges:\n%s",
		name, userID, changer, strings.Join(lines, "\n"))

	lastID := logs[len(logs)-1].ID
	s.deliver(admins, subject, body, nil, &lastID)
}

// deliver writes the PENDING rows, commits them, attempts one send to all
// recipients, then flips the whole batch to SENT or ERROR. The PENDING
// commit comes first so the attempt stays observable across a crash.
func (s *notificationService) deliver(admins []domain.User, subject, body string, changeLogID, userChangeLogID *uint) {
	pending, err := s.repo.GetOrCreateStatus(domain.NotifStatusPending)
	if err != nil {
		log.Errorf("resolve PENDING status: %v", err)
		return
	}
	sent, err := s.repo.GetOrCreateStatus(domain.NotifStatusSent)
	if err != nil {
		log.Errorf("resolve SENT status: %v", err)
		return
	}
	errStatus, err := s.repo.GetOrCreateStatus(domain.NotifStatusError)
	if err != nil {
		log.Errorf("resolve ERROR status: %v", err)
		return
	}

	batch := make([]domain.AdminNotification, 0, len(admins))
	for _, admin := range admins {
		batch = append(batch, domain.AdminNotification{
			ChangeLogID:     changeLogID,
			UserChangeLogID: userChangeLogID,
			SentTo:          admin.ID,
			StatusID:        pending.ID,
			Message:         body,
		})
	}
	batch, err = s.repo.CreateBatch(batch)
	if err != nil {
		log.Errorf("persist notification batch: %v", err)
		return
	}

	ids := make([]uint, 0, len(batch))
	for _, n := range batch {
		ids = append(ids, n.ID)
	}
	recipients := make([]string, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, admin.Email)
	}

	if sendErr := s.mailer.Send(recipients, subject, body); sendErr != nil {
		msg := sendErr.Error()
		log.Errorf("admin notification send failed: %v", sendErr)
		if err := s.repo.UpdateBatchStatus(ids, errStatus.ID, &msg); err != nil {
			log.Errorf("mark notification batch ERROR: %v", err)
		}
		return
	}

	if err := s.repo.UpdateBatchStatus(ids, sent.ID, nil); err != nil {
		log.Errorf("mark notification batch SENT: %v", err)
	}
}

func (s *notificationService) configValid() bool {
	if !s.cfg.Enabled {
		log.Debug("email notifications disabled by flag")
		return false
	}

	var missing []string
	if s.cfg.SMTPHost == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if s.cfg.SMTPUser == "" {
		missing = append(missing, "SMTP_USER")
	}
	if s.cfg.SMTPPassword == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if s.cfg.MailFrom == "" {
		missing = append(missing, "MAIL_FROM")
	}
	if len(missing) > 0 {
		log.Warnf("skipping email send, missing config: %s", strings.Join(missing, ", "))
		return false
	}
	return true
}

func (s *notificationService) activeAdmins() []domain.User {
	admins, err := s.roleRepo.FindActiveUsersByRoleName(domain.RoleAdmin)
	if err != nil {
		log.Errorf("resolve admin roster: %v", err)
		return nil
	}
	if len(admins) == 0 {
		log.Info("no active admin users to notify")
	}
	return admins
}

func (s *notificationService) changerLabel(changerID uint) string {
	if changer, err := s.userRepo.FindUserById(changerID); err == nil && changer != nil {
		return changer.Email
	}
	return fmt.Sprintf("user:%d", changerID)
}

func renderValue(v *string) string {
	if v == nil {
		return "no value"
	}
	return *v
}

func (s *notificationService) List() ([]dto.AdminNotificationResponse, error) {
	notifs, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	return s.enrich(notifs)
}

func (s *notificationService) ListByUser(userID uint) ([]dto.AdminNotificationResponse, error) {
	notifs, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(notifs)
}

func (s *notificationService) enrich(notifs []domain.AdminNotification) ([]dto.AdminNotificationResponse, error) {
	statusIds := make([]uint, 0, len(notifs))
	userIds := make([]uint, 0, len(notifs))
	for _, n := range notifs {
		statusIds = append(statusIds, n.StatusID)
		userIds = append(userIds, n.SentTo)
	}

	statuses, err := s.repo.FindStatusesByIds(statusIds)
	if err != nil {
		return nil, err
	}
	statusLookup := make(map[uint]string, len(statuses))
	for _, st := range statuses {
		statusLookup[st.ID] = st.Name
	}

	users, err := s.userRepo.FindUsersByIds(userIds)
	if err != nil {
		return nil, err
	}
	emailLookup := make(map[uint]string, len(users))
	for _, u := range users {
		emailLookup[u.ID] = u.Email
	}

	out := make([]dto.AdminNotificationResponse, 0, len(notifs))
	for _, n := range notifs {
		status, ok := statusLookup[n.StatusID]
		if !ok {
			status = "UNKNOWN"
		}
		out = append(out, dto.AdminNotificationResponse{
			ID:              n.ID,
			ChangeLogID:     n.ChangeLogID,
			UserChangeLogID: n.UserChangeLogID,
			SentTo:          n.SentTo,
			SentToEmail:     emailLookup[n.SentTo],
			Status:          status,
			Message:         n.Message,
			ErrorMessage:    n.ErrorMessage,
			SentAt:          n.SentAt.String(),
		})
	}
	return out, nil
}
