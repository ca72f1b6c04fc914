package services

import (
	"testing"

	"github.com/cataloghq/catalog_service/config"
	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNotifyConfig() config.NotifyConfig {
	return config.NotifyConfig{
		Enabled:      true,
		SMTPHost:     "smtp.example.com",
		SMTPPort:     "587",
		SMTPUser:     "mailer",
		SMTPPassword: "secret",
		MailFrom:     "noreply@example.com",
		MailFromName: "Catalog",
	}
}

type notifyFixture struct {
	svc      NotificationService
	repo     *fakeNotificationRepo
	roleRepo *fakeRoleRepo
	userRepo *fakeUserRepo
	mailer   *fakeMailer
}

func newNotifyFixture(cfg config.NotifyConfig, admins ...domain.User) *notifyFixture {
	repo := newFakeNotificationRepo()
	roleRepo := newFakeRoleRepo()
	roleRepo.activeUsers[domain.RoleAdmin] = admins

	users := []*domain.User{
		{ID: 10, Email: "editor@example.com", Status: true},
	}
	for i := range admins {
		users = append(users, &admins[i])
	}
	userRepo := newFakeUserRepo(users...)
	productRepo := newFakeProductRepo(&domain.Product{ID: 1, Name: "Widget", SKU: "W-1"})
	mailer := &fakeMailer{}

	return &notifyFixture{
		svc:      NewNotificationService(cfg, repo, roleRepo, userRepo, productRepo, mailer),
		repo:     repo,
		roleRepo: roleRepo,
		userRepo: userRepo,
		mailer:   mailer,
	}
}

func productLogs(n int) []domain.ProductChangeLog {
	logs := make([]domain.ProductChangeLog, 0, n)
	fields := []string{"name", "price", "status"}
	for i := 0; i < n; i++ {
		logs = append(logs, domain.ProductChangeLog{
			ID:           uint(i + 1),
			ProductID:    1,
			ChangedBy:    10,
			FieldChanged: fields[i%len(fields)],
			OldValue:     strp("old"),
			NewValue:     strp("new"),
		})
	}
	return logs
}

func TestNotifyProductChange_DisabledWritesNothing(t *testing.T) {
	cfg := validNotifyConfig()
	cfg.Enabled = false
	f := newNotifyFixture(cfg, domain.User{ID: 2, Email: "admin@example.com", Status: true})

	f.svc.NotifyProductChange(productLogs(1))

	assert.Empty(t, f.repo.notifications)
	assert.Zero(t, f.mailer.calls)
}

func TestNotifyProductChange_MissingSMTPConfigWritesNothing(t *testing.T) {
	cfg := validNotifyConfig()
	cfg.SMTPHost = ""
	f := newNotifyFixture(cfg, domain.User{ID: 2, Email: "admin@example.com", Status: true})

	f.svc.NotifyProductChange(productLogs(1))

	assert.Empty(t, f.repo.notifications)
	assert.Zero(t, f.mailer.calls)
}

func TestNotifyProductChange_EmptyBatchIsANoOp(t *testing.T) {
	f := newNotifyFixture(validNotifyConfig(), domain.User{ID: 2, Email: "admin@example.com", Status: true})

	f.svc.NotifyProductChange(nil)

	assert.Empty(t, f.repo.notifications)
	assert.Zero(t, f.mailer.calls)
}

func TestNotifyProductChange_NoAdminsNoRows(t *testing.T) {
	f := newNotifyFixture(validNotifyConfig())

	f.svc.NotifyProductChange(productLogs(2))

	assert.Empty(t, f.repo.notifications)
	assert.Zero(t, f.mailer.calls)
}

func TestNotifyProductChange_OneRowPerAdminAllSent(t *testing.T) {
	f := newNotifyFixture(validNotifyConfig(),
		domain.User{ID: 2, Email: "a@example.com", Status: true},
		domain.User{ID: 3, Email: "b@example.com", Status: true},
		domain.User{ID: 4, Email: "c@example.com", Status: true},
	)

	f.svc.NotifyProductChange(productLogs(2))

	require.Len(t, f.repo.notifications, 3)
	assert.Equal(t, 1, f.mailer.calls, "one send covers the whole roster")
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com", "c@example.com"}, f.mailer.lastTo)

	for _, n := range f.repo.notifications {
		assert.Equal(t, domain.NotifStatusSent, f.repo.statusName(n.StatusID))
		assert.Nil(t, n.ErrorMessage)
		require.NotNil(t, n.ChangeLogID)
		assert.Equal(t, uint(2), *n.ChangeLogID)
	}
}

func TestNotifyProductChange_SendFailureMarksWholeBatchError(t *testing.T) {
	f := newNotifyFixture(validNotifyConfig(),
		domain.User{ID: 2, Email: "a@example.com", Status: true},
		domain.User{ID: 3, Email: "b@example.com", Status: true},
	)
	f.mailer.sendErr = errBoom

	f.svc.NotifyProductChange(productLogs(1))

	require.Len(t, f.repo.notifications, 2)
	for _, n := range f.repo.notifications {
		assert.Equal(t, domain.NotifStatusError, f.repo.statusName(n.StatusID))
		require.NotNil(t, n.ErrorMessage)
		assert.Equal(t, "boom", *n.ErrorMessage)
	}
}

func TestNotifyProductChange_SubjectFormats(t *testing.T) {
	f := newNotifyFixture(validNotifyConfig(), domain.User{ID: 2, Email: "a@example.com", Status: true})

	f.svc.NotifyProductChange(productLogs(1))
	assert.Equal(t, "Product 'Widget' (#1) field name updated", f.mailer.lastSubj)

	f.svc.NotifyProductChange(productLogs(2))
	assert.Equal(t, "Product 'Widget' (#1) updated (2 changes)", f.mailer.lastSubj)
}

func TestNotifyProductChange_BodyContainsEveryChange(t *testing.T) {
	f := newNotifyFixture(validNotifyConfig(), domain.User{ID: 2, Email: "a@example.com", Status: true})

	logs := []domain.ProductChangeLog{
		{ID: 1, ProductID: 1, ChangedBy: 10, FieldChanged: "price", OldValue: strp("9.99"), NewValue: strp("19.99")},
		{ID: 2, ProductID: 1, ChangedBy: 10, FieldChanged: "description", OldValue: nil, NewValue: strp("shiny")},
	}
	f.svc.NotifyProductChange(logs)

	assert.Contains(t, f.mailer.lastBody, "Product 'Widget' (ID 1) updated by editor@example.com.")
	assert.Contains(t, f.mailer.lastBody, "- price: 9.99 -> 19.99")
	assert.Contains(t, f.mailer.lastBody, "- description: no value -> shiny")
}

func TestNotifyProductChange_UnknownProductFallsBackToID(t *testing.T) {
	f := newNotifyFixture(validNotifyConfig(), domain.User{ID: 2, Email: "a@example.com", Status: true})

	logs := productLogs(1)
	logs[0].ProductID = 42
	f.svc.NotifyProductChange(logs)

	assert.Equal(t, "Product '#42' (#42) field name updated", f.mailer.lastSubj)
}

func TestNotifyUserChange_RowsReferenceUserChangeLog(t *testing.T) {
	f := newNotifyFixture(validNotifyConfig(), domain.User{ID: 2, Email: "a@example.com", Status: true})

	logs := []domain.UserChangeLog{
		{ID: 7, UserID: 11, ChangedBy: 10, FieldChanged: "email", OldValue: strp("x"), NewValue: strp("y")},
	}
	f.svc.NotifyUserChange(logs)

	require.Len(t, f.repo.notifications, 1)
	n := f.repo.notifications[0]
	assert.Nil(t, n.ChangeLogID)
	require.NotNil(t, n.UserChangeLogID)
	assert.Equal(t, uint(7), *n.UserChangeLogID)
	assert.Equal(t, "User '#11' (#11) field email updated", f.mailer.lastSubj)
}

func TestList_EnrichesStatusAndEmail(t *testing.T) {
	f := newNotifyFixture(validNotifyConfig(), domain.User{ID: 2, Email: "a@example.com", Status: true})

	f.svc.NotifyProductChange(productLogs(1))

	out, err := f.svc.List()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.NotifStatusSent, out[0].Status)
	assert.Equal(t, "a@example.com", out[0].SentToEmail)
}
