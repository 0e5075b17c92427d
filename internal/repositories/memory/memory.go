// Package memory - in-memory реализация репозиториев.
// Используется драйвером database.driver=memory и тестами сервисов.
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories"
)

// Store хранит все коллекции под одним мьютексом
type Store struct {
	mu sync.RWMutex

	applications  map[string]*models.Application
	appOrder      []string
	payments      map[string]*models.Payment
	paymentOrder  []string
	campaigns     map[string]*models.Campaign
	users         map[string]*models.User
	notifications map[string]*models.Notification
	notifOrder    []string

	// FailOn позволяет тестам сломать отдельную операцию: ключ "payments.create" и т.п.
	FailOn map[string]error
}

func NewStore() *Store {
	return &Store{
		applications:  make(map[string]*models.Application),
		payments:      make(map[string]*models.Payment),
		campaigns:     make(map[string]*models.Campaign),
		users:         make(map[string]*models.User),
		notifications: make(map[string]*models.Notification),
		FailOn:        make(map[string]error),
	}
}

// NewRepositories возвращает набор репозиториев поверх нового Store
func NewRepositories() (*repositories.Repositories, *Store) {
	s := NewStore()
	return s.Repositories(), s
}

func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Applications:  &applicationRepo{s},
		Payments:      &paymentRepo{s},
		Campaigns:     &campaignRepo{s},
		Users:         &userRepo{s},
		Notifications: &notificationRepo{s},
	}
}

func (s *Store) fail(op string) error {
	if s.FailOn == nil {
		return nil
	}
	return s.FailOn[op]
}

func touch(m *models.BaseModel) {
	m.EnsureID()
	m.UpdatedAt = time.Now().UTC()
}

// --- applications ---

type applicationRepo struct{ s *Store }

func (r *applicationRepo) Create(ctx context.Context, app *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("applications.create"); err != nil {
		return err
	}
	touch(&app.BaseModel)
	r.s.applications[app.ID] = app.Clone()
	r.s.appOrder = append(r.s.appOrder, app.ID)
	return nil
}

func (r *applicationRepo) FindByID(ctx context.Context, id string) (*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	app, ok := r.s.applications[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	return app.Clone(), nil
}

func (r *applicationRepo) FindByInfluencerAndCampaign(ctx context.Context, influencerID, campaignID string) (*models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := len(r.s.appOrder) - 1; i >= 0; i-- {
		app := r.s.applications[r.s.appOrder[i]]
		if app.InfluencerID == influencerID && app.CampaignID == campaignID {
			return app.Clone(), nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (r *applicationRepo) Update(ctx context.Context, app *models.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("applications.update"); err != nil {
		return err
	}
	if _, ok := r.s.applications[app.ID]; !ok {
		return repositories.ErrApplicationNotFound
	}
	app.UpdatedAt = time.Now().UTC()
	r.s.applications[app.ID] = app.Clone()
	return nil
}

func (r *applicationRepo) List(ctx context.Context, filter repositories.ApplicationFilter) ([]models.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Application
	for i := len(r.s.appOrder) - 1; i >= 0; i-- {
		app := r.s.applications[r.s.appOrder[i]]
		if filter.CampaignID != "" && app.CampaignID != filter.CampaignID {
			continue
		}
		if filter.InfluencerID != "" && app.InfluencerID != filter.InfluencerID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, app.Status) {
			continue
		}
		out = append(out, *app.Clone())
	}
	return out, nil
}

func containsStatus(list []models.ApplicationStatus, s models.ApplicationStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// --- payments ---

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("payments.create"); err != nil {
		return err
	}
	touch(&payment.BaseModel)
	r.s.payments[payment.ID] = payment.Clone()
	r.s.paymentOrder = append(r.s.paymentOrder, payment.ID)
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, repositories.ErrPaymentNotFound
	}
	return p.Clone(), nil
}

func (r *paymentRepo) FindByApplicationID(ctx context.Context, applicationID string) (*models.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for i := len(r.s.paymentOrder) - 1; i >= 0; i-- {
		p := r.s.payments[r.s.paymentOrder[i]]
		if p.ApplicationID == applicationID {
			return p.Clone(), nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (r *paymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("payments.update"); err != nil {
		return err
	}
	if _, ok := r.s.payments[payment.ID]; !ok {
		return repositories.ErrPaymentNotFound
	}
	payment.UpdatedAt = time.Now().UTC()
	r.s.payments[payment.ID] = payment.Clone()
	return nil
}

func (r *paymentRepo) List(ctx context.Context, filter repositories.PaymentFilter) ([]models.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Payment
	for i := len(r.s.paymentOrder) - 1; i >= 0; i-- {
		p := r.s.payments[r.s.paymentOrder[i]]
		if filter.CampaignID != "" && p.CampaignID != filter.CampaignID {
			continue
		}
		if filter.InfluencerID != "" && p.InfluencerID != filter.InfluencerID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, *p.Clone())
	}
	return out, nil
}

// --- campaigns ---

type campaignRepo struct{ s *Store }

func (r *campaignRepo) Create(ctx context.Context, campaign *models.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	touch(&campaign.BaseModel)
	r.s.campaigns[campaign.ID] = campaign.Clone()
	return nil
}

func (r *campaignRepo) FindByID(ctx context.Context, id string) (*models.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("campaigns.find"); err != nil {
		return nil, err
	}
	c, ok := r.s.campaigns[id]
	if !ok {
		return nil, repositories.ErrCampaignNotFound
	}
	return c.Clone(), nil
}

func (r *campaignRepo) FindByIDs(ctx context.Context, ids []string) ([]models.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Campaign
	for _, id := range ids {
		if c, ok := r.s.campaigns[id]; ok {
			out = append(out, *c.Clone())
		}
	}
	return out, nil
}

// --- users ---

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.s.users {
		if user.Email != "" && u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	touch(&user.BaseModel)
	r.s.users[user.ID] = user.Clone()
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if strings.ToLower(u.Email) == email {
			return u.Clone(), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *userRepo) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.fail("users.find_many"); err != nil {
		return nil, err
	}
	var out []models.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, *u.Clone())
		}
	}
	return out, nil
}

// --- notifications ---

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("notifications.create"); err != nil {
		return err
	}
	touch(&n.BaseModel)
	r.s.notifications[n.ID] = n.Clone()
	r.s.notifOrder = append(r.s.notifOrder, n.ID)
	return nil
}

func (r *notificationRepo) FindUserNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Notification
	for i := len(r.s.notifOrder) - 1; i >= 0; i-- {
		n, ok := r.s.notifications[r.s.notifOrder[i]]
		if !ok || n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, *n.Clone())
	}
	return out, nil
}

func (r *notificationRepo) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[notificationID]
	if !ok || n.UserID != userID {
		return repositories.ErrNotificationNotFound
	}
	now := time.Now().UTC()
	n.Read = true
	n.ReadAt = &now
	return nil
}

func (r *notificationRepo) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted int64
	for id, n := range r.s.notifications {
		if n.Read && n.CreatedAt.Before(before) {
			delete(r.s.notifications, id)
			deleted++
		}
	}
	return deleted, nil
}

// ErrInjected - удобная ошибка для FailOn в тестах
var ErrInjected = errors.New("injected failure")
