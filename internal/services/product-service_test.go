package services

import (
	"errors"
	"testing"

	"github.com/cataloghq/catalog_service/internal/domain"
	"github.com/cataloghq/catalog_service/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	svc       ProductService
	repo      *fakeProductRepo
	logRepo   *fakeChangeLogRepo
	notifRepo *fakeNotificationRepo
	roleRepo  *fakeRoleRepo
	viewRepo  *fakeViewRepo
	mailer    *fakeMailer
	producer  *fakeProducer
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()

	repo := newFakeProductRepo(&domain.Product{
		ID: 1, SKU: "W-1", Name: "Widget", Description: "a widget",
		Price: 9.99, BrandID: 1, Status: true, CreatedBy: 10,
	})
	brandRepo := newFakeBrandRepo(&domain.Brand{ID: 1, Name: "Acme", Status: true})
	userRepo := newFakeUserRepo(
		&domain.User{ID: 10, Email: "editor@example.com", Status: true},
		&domain.User{ID: 2, Email: "admin@example.com", Status: true},
		&domain.User{ID: 5, Email: "anon@example.com", Status: true},
	)
	roleRepo := newFakeRoleRepo()
	roleRepo.addRole(&domain.Role{ID: 1, Name: domain.RoleAdmin, Status: true})
	roleRepo.addRole(&domain.Role{ID: 2, Name: domain.RoleAnonymous, Status: true})
	roleRepo.userRoles[10] = 1
	roleRepo.userRoles[2] = 1
	roleRepo.userRoles[5] = 2
	roleRepo.activeUsers[domain.RoleAdmin] = []domain.User{
		{ID: 2, Email: "admin@example.com", Status: true},
	}

	viewRepo := newFakeViewRepo()
	logRepo := newFakeChangeLogRepo()
	notifRepo := newFakeNotificationRepo()
	mailer := &fakeMailer{}
	producer := &fakeProducer{}

	changeLog := NewChangeLogService(logRepo, repo, userRepo)
	notifier := NewNotificationService(validNotifyConfig(), notifRepo, roleRepo, userRepo, repo, mailer)
	svc := NewProductService(repo, brandRepo, userRepo, roleRepo, viewRepo, changeLog, notifier, nil, producer)

	return &productFixture{
		svc:       svc,
		repo:      repo,
		logRepo:   logRepo,
		notifRepo: notifRepo,
		roleRepo:  roleRepo,
		viewRepo:  viewRepo,
		mailer:    mailer,
		producer:  producer,
	}
}

func TestProductUpdate_RecordsDiffAndNotifies(t *testing.T) {
	f := newProductFixture(t)

	newName := "Gadget"
	newPrice := 19.99
	product, err := f.svc.Update(1, dto.ProductUpdate{Name: &newName, Price: &newPrice}, 10)

	require.NoError(t, err)
	assert.Equal(t, "Gadget", product.Name)
	assert.InDelta(t, 19.99, product.Price, 0.001)

	require.Len(t, f.logRepo.productLogs, 2)
	assert.Equal(t, "name", f.logRepo.productLogs[0].FieldChanged)
	assert.Equal(t, "price", f.logRepo.productLogs[1].FieldChanged)
	assert.Equal(t, "9.99", *f.logRepo.productLogs[1].OldValue)
	assert.Equal(t, "19.99", *f.logRepo.productLogs[1].NewValue)

	assert.Len(t, f.notifRepo.notifications, 1)
	assert.Equal(t, 1, f.mailer.calls)
	require.Len(t, f.producer.keys, 1)
	assert.Equal(t, "catalog.product_changed", f.producer.keys[0])
}

func TestProductUpdate_NoChangesNoAuditNoMail(t *testing.T) {
	f := newProductFixture(t)

	sameName := "Widget"
	_, err := f.svc.Update(1, dto.ProductUpdate{Name: &sameName}, 10)

	require.NoError(t, err)
	assert.Empty(t, f.logRepo.productLogs)
	assert.Empty(t, f.notifRepo.notifications)
	assert.Zero(t, f.mailer.calls)
	assert.Empty(t, f.producer.keys)
}

func TestProductUpdate_UnknownProduct(t *testing.T) {
	f := newProductFixture(t)

	name := "x"
	_, err := f.svc.Update(999, dto.ProductUpdate{Name: &name}, 10)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProductUpdate_NameConflict(t *testing.T) {
	f := newProductFixture(t)
	require.NoError(t, f.repo.Create(&domain.Product{SKU: "G-1", Name: "Gadget", BrandID: 1, Status: true, CreatedBy: 10}))

	taken := "Gadget"
	_, err := f.svc.Update(1, dto.ProductUpdate{Name: &taken}, 10)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Empty(t, f.logRepo.productLogs)
}

func TestProductSoftDelete_AuditsStatusFlip(t *testing.T) {
	f := newProductFixture(t)

	require.NoError(t, f.svc.SoftDelete(1, 10))

	stored, err := f.repo.FindByID(1)
	require.NoError(t, err)
	assert.False(t, stored.Status)

	require.Len(t, f.logRepo.productLogs, 1)
	entry := f.logRepo.productLogs[0]
	assert.Equal(t, "status", entry.FieldChanged)
	assert.Equal(t, "true", *entry.OldValue)
	assert.Equal(t, "false", *entry.NewValue)
	assert.Len(t, f.notifRepo.notifications, 1)
}

func TestProductSoftDelete_AlreadyInactiveIsSilent(t *testing.T) {
	f := newProductFixture(t)
	require.NoError(t, f.svc.SoftDelete(1, 10))
	f.logRepo.productLogs = nil
	f.notifRepo.notifications = nil
	f.mailer.calls = 0

	require.NoError(t, f.svc.SoftDelete(1, 10))

	assert.Empty(t, f.logRepo.productLogs, "no diff means no audit rows")
	assert.Empty(t, f.notifRepo.notifications)
	assert.Zero(t, f.mailer.calls)
}

func TestProductCreate_Validations(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.svc.Create(dto.ProductCreate{SKU: "W-1", Name: "Another", Price: 1, BrandID: 1}, 10)
	assert.True(t, errors.Is(err, ErrConflict), "duplicate sku")

	_, err = f.svc.Create(dto.ProductCreate{SKU: "N-1", Name: "Widget", Price: 1, BrandID: 1}, 10)
	assert.True(t, errors.Is(err, ErrConflict), "duplicate name")

	_, err = f.svc.Create(dto.ProductCreate{SKU: "N-1", Name: "New", Price: 1, BrandID: 99}, 10)
	assert.True(t, errors.Is(err, ErrNotFound), "missing brand")

	product, err := f.svc.Create(dto.ProductCreate{SKU: "N-1", Name: "New", Price: 5, BrandID: 1}, 10)
	require.NoError(t, err)
	assert.Equal(t, uint(10), product.CreatedBy)
	assert.True(t, product.Status)
}

func TestProductGet_AnonymousViewerBumpsViewCount(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.svc.Get(1, 5)
	require.NoError(t, err)
	_, err = f.svc.Get(1, 5)
	require.NoError(t, err)

	view, err := f.svc.GetView(1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, view.ViewCount)
}

func TestProductGet_AdminViewerDoesNotCount(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.svc.Get(1, 10)
	require.NoError(t, err)

	_, err = f.svc.GetView(1)
	assert.True(t, errors.Is(err, ErrNotFound), "no view row should exist")
}

func TestProductList_AnonymousViewerCountsEveryProduct(t *testing.T) {
	f := newProductFixture(t)
	require.NoError(t, f.repo.Create(&domain.Product{SKU: "G-1", Name: "Gadget", BrandID: 1, Status: true, CreatedBy: 10}))

	products, err := f.svc.List(5)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	views, err := f.svc.ListViews()
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
