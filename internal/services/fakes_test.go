package services

import (
	"errors"
	"time"

	"github.com/cataloghq/catalog_service/internal/domain"
	"gorm.io/gorm"
)

// In-memory repository fakes shared by the service tests.

type fakeProductRepo struct {
	products map[uint]*domain.Product
	saveErr  error
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uint]*domain.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) FindByID(id uint) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) FindBySKU(sku string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindByName(name string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) List() ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) Create(p *domain.Product) error {
	p.ID = uint(len(r.products) + 1)
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Save(p *domain.Product) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

type fakeUserRepo struct {
	users map[uint]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(u *domain.User) (*domain.User, error) {
	u.ID = uint(len(r.users) + 1)
	cp := *u
	r.users[u.ID] = &cp
	return u, nil
}

func (r *fakeUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindUserById(id uint) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SaveUser(u *domain.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) ListUsers() ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) FindUsersByIds(ids []uint) ([]domain.User, error) {
	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeRoleRepo struct {
	roles       map[uint]*domain.Role
	userRoles   map[uint]uint // userID -> roleID
	activeUsers map[string][]domain.User
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		roles:       make(map[uint]*domain.Role),
		userRoles:   make(map[uint]uint),
		activeUsers: make(map[string][]domain.User),
	}
}

func (r *fakeRoleRepo) addRole(role *domain.Role) { r.roles[role.ID] = role }

func (r *fakeRoleRepo) FindByID(id uint) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *fakeRoleRepo) FindByName(name string) (*domain.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) List() ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(r.roles))
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *fakeRoleRepo) Create(role *domain.Role) error {
	role.ID = uint(len(r.roles) + 1)
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) Save(role *domain.Role) error {
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) GetRoleByUserID(userID uint) (*domain.Role, error) {
	roleID, ok := r.userRoles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(roleID)
}

func (r *fakeRoleRepo) AssignRole(userID, roleID uint) error {
	r.userRoles[userID] = roleID
	return nil
}

func (r *fakeRoleRepo) FindActiveUsersByRoleName(roleName string) ([]domain.User, error) {
	return r.activeUsers[roleName], nil
}

type fakeChangeLogRepo struct {
	actions     map[string]*domain.Action
	actionCalls int
	productLogs []domain.ProductChangeLog
	userLogs    []domain.UserChangeLog
	createErr   error
}

func newFakeChangeLogRepo() *fakeChangeLogRepo {
	return &fakeChangeLogRepo{actions: make(map[string]*domain.Action)}
}

func (r *fakeChangeLogRepo) GetOrCreateAction(name, description string) (*domain.Action, error) {
	r.actionCalls++
	if a, ok := r.actions[name]; ok {
		return a, nil
	}
	a := &domain.Action{ID: uint(len(r.actions) + 1), Name: name, Description: description}
	r.actions[name] = a
	return a, nil
}

func (r *fakeChangeLogRepo) ListActions() ([]domain.Action, error) {
	out := make([]domain.Action, 0, len(r.actions))
	for _, a := range r.actions {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeChangeLogRepo) FindActionsByIds(ids []uint) ([]domain.Action, error) {
	out := make([]domain.Action, 0, len(ids))
	for _, a := range r.actions {
		for _, id := range ids {
			if a.ID == id {
				out = append(out, *a)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeChangeLogRepo) CreateProductLog(entry *domain.ProductChangeLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	entry.ID = uint(len(r.productLogs) + 1)
	entry.ChangedAt = time.Now()
	r.productLogs = append(r.productLogs, *entry)
	return nil
}

func (r *fakeChangeLogRepo) ListProductLogs() ([]domain.ProductChangeLog, error) {
	return r.productLogs, nil
}

func (r *fakeChangeLogRepo) ListProductLogsByProduct(productID uint) ([]domain.ProductChangeLog, error) {
	out := make([]domain.ProductChangeLog, 0)
	for _, l := range r.productLogs {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeChangeLogRepo) CreateUserLog(entry *domain.UserChangeLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	entry.ID = uint(len(r.userLogs) + 1)
	entry.ChangedAt = time.Now()
	r.userLogs = append(r.userLogs, *entry)
	return nil
}

func (r *fakeChangeLogRepo) ListUserLogs() ([]domain.UserChangeLog, error) {
	return r.userLogs, nil
}

func (r *fakeChangeLogRepo) ListUserLogsByUser(userID uint) ([]domain.UserChangeLog, error) {
	out := make([]domain.UserChangeLog, 0)
	for _, l := range r.userLogs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	statuses      map[string]*domain.NotificationStatus
	notifications []domain.AdminNotification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{statuses: make(map[string]*domain.NotificationStatus)}
}

func (r *fakeNotificationRepo) GetOrCreateStatus(name string) (*domain.NotificationStatus, error) {
	if st, ok := r.statuses[name]; ok {
		return st, nil
	}
	st := &domain.NotificationStatus{ID: uint(len(r.statuses) + 1), Name: name}
	r.statuses[name] = st
	return st, nil
}

func (r *fakeNotificationRepo) CreateBatch(batch []domain.AdminNotification) ([]domain.AdminNotification, error) {
	for i := range batch {
		batch[i].ID = uint(len(r.notifications) + i + 1)
		batch[i].SentAt = time.Now()
	}
	r.notifications = append(r.notifications, batch...)
	return batch, nil
}

func (r *fakeNotificationRepo) UpdateBatchStatus(ids []uint, statusID uint, errorMessage *string) error {
	for _, id := range ids {
		for i := range r.notifications {
			if r.notifications[i].ID == id {
				r.notifications[i].StatusID = statusID
				r.notifications[i].ErrorMessage = errorMessage
			}
		}
	}
	return nil
}

func (r *fakeNotificationRepo) List() ([]domain.AdminNotification, error) {
	return r.notifications, nil
}

func (r *fakeNotificationRepo) ListByUser(userID uint) ([]domain.AdminNotification, error) {
	out := make([]domain.AdminNotification, 0)
	for _, n := range r.notifications {
		if n.SentTo == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) FindStatusesByIds(ids []uint) ([]domain.NotificationStatus, error) {
	out := make([]domain.NotificationStatus, 0)
	for _, st := range r.statuses {
		out = append(out, *st)
	}
	return out, nil
}

func (r *fakeNotificationRepo) statusName(id uint) string {
	for name, st := range r.statuses {
		if st.ID == id {
			return name
		}
	}
	return ""
}

type fakeBrandRepo struct {
	brands map[uint]*domain.Brand
}

func newFakeBrandRepo(brands ...*domain.Brand) *fakeBrandRepo {
	r := &fakeBrandRepo{brands: make(map[uint]*domain.Brand)}
	for _, b := range brands {
		r.brands[b.ID] = b
	}
	return r
}

func (r *fakeBrandRepo) FindByID(id uint) (*domain.Brand, error) {
	b, ok := r.brands[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *fakeBrandRepo) FindByName(name string) (*domain.Brand, error) {
	for _, b := range r.brands {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBrandRepo) List() ([]domain.Brand, error) {
	out := make([]domain.Brand, 0, len(r.brands))
	for _, b := range r.brands {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBrandRepo) Create(b *domain.Brand) error {
	b.ID = uint(len(r.brands) + 1)
	r.brands[b.ID] = b
	return nil
}

func (r *fakeBrandRepo) Save(b *domain.Brand) error {
	r.brands[b.ID] = b
	return nil
}

type fakeViewRepo struct {
	views map[uint]*domain.ProductView
}

func newFakeViewRepo() *fakeViewRepo {
	return &fakeViewRepo{views: make(map[uint]*domain.ProductView)}
}

func (r *fakeViewRepo) GetOrCreate(productID uint) (*domain.ProductView, error) {
	if v, ok := r.views[productID]; ok {
		return v, nil
	}
	v := &domain.ProductView{ProductID: productID}
	r.views[productID] = v
	return v, nil
}

func (r *fakeViewRepo) Increment(productID uint) error {
	v, _ := r.GetOrCreate(productID)
	v.ViewCount++
	v.LastViewedAt = time.Now()
	return nil
}

func (r *fakeViewRepo) FindByProductID(productID uint) (*domain.ProductView, error) {
	v, ok := r.views[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *fakeViewRepo) List() ([]domain.ProductView, error) {
	out := make([]domain.ProductView, 0, len(r.views))
	for _, v := range r.views {
		out = append(out, *v)
	}
	return out, nil
}

type fakeSessionRepo struct {
	sessions []domain.UserSession
}

func (r *fakeSessionRepo) Create(s *domain.UserSession) error {
	s.ID = uint(len(r.sessions) + 1)
	r.sessions = append(r.sessions, *s)
	return nil
}

func (r *fakeSessionRepo) CloseOpenSessions(userID uint, at time.Time) error {
	for i := range r.sessions {
		if r.sessions[i].UserID == userID && r.sessions[i].LogoutAt == nil {
			t := at
			r.sessions[i].LogoutAt = &t
		}
	}
	return nil
}

func (r *fakeSessionRepo) FindByIDAndUser(sessionID, userID uint) (*domain.UserSession, error) {
	for i := range r.sessions {
		if r.sessions[i].ID == sessionID && r.sessions[i].UserID == userID {
			cp := r.sessions[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) Save(s *domain.UserSession) error {
	for i := range r.sessions {
		if r.sessions[i].ID == s.ID {
			r.sessions[i] = *s
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) ListByUser(userID uint) ([]domain.UserSession, error) {
	out := make([]domain.UserSession, 0)
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) FindActiveByUser(userID uint) (*domain.UserSession, error) {
	for i := range r.sessions {
		if r.sessions[i].UserID == userID && r.sessions[i].LogoutAt == nil {
			cp := r.sessions[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeMailer struct {
	sendErr  error
	calls    int
	lastTo   []string
	lastSubj string
	lastBody string
}

func (m *fakeMailer) Send(to []string, subject, body string) error {
	m.calls++
	m.lastTo = to
	m.lastSubj = subject
	m.lastBody = body
	return m.sendErr
}

type fakeProducer struct {
	keys   []string
	values []string
}

func (p *fakeProducer) PublishMessage(key, value []byte) error {
	p.keys = append(p.keys, string(key))
	p.values = append(p.values, string(value))
	return nil
}

var errBoom = errors.New("boom")
