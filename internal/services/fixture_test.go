package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"campaignhub_backend/internal/email"
	"campaignhub_backend/internal/logger"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories"
	"campaignhub_backend/internal/repositories/memory"
	"campaignhub_backend/internal/workflow"

	"github.com/stretchr/testify/require"
)

var fixtureNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}

// recordingMailer запоминает отправленные шаблонные письма
type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *recordingMailer) Send(e *email.Email) error { return m.err }

func (m *recordingMailer) SendTemplate(to []string, subject, templateName string, data email.TemplateData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, templateName)
	return nil
}

func (m *recordingMailer) Validate() error { return nil }
func (m *recordingMailer) Close() error    { return nil }

type fixture struct {
	ctx    context.Context
	repos  *repositories.Repositories
	store  *memory.Store
	mailer *recordingMailer
	svc    *ServiceContainer

	admin      models.Actor
	influencer models.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repos, store := memory.NewRepositories()
	mailer := &recordingMailer{}
	svc := NewServiceContainer(repos, mailer, ServiceOptions{AppealFormName: "appeal form"})

	clock := func() time.Time { return fixtureNow }
	svc.ApplicationService.(*applicationService).now = clock
	svc.PaymentService.(*paymentService).now = clock
	svc.NotificationService.(*notificationService).now = clock

	f := &fixture{
		ctx:        context.Background(),
		repos:      repos,
		store:      store,
		mailer:     mailer,
		svc:        svc,
		admin:      models.Actor{ID: "admin-1", Role: models.UserRoleAdmin, Name: "Dana Admin"},
		influencer: models.Actor{ID: "inf-1", Role: models.UserRoleInfluencer, Name: "Aida"},
	}

	f.seedUser(t, f.admin.ID, "Dana Admin", "dana@example.com", models.UserRoleAdmin)
	f.seedUser(t, f.influencer.ID, "Aida", "Aida@Example.com", models.UserRoleInfluencer)
	return f
}

func (f *fixture) seedUser(t *testing.T, id, name, mail string, role models.UserRole) {
	t.Helper()
	user := &models.User{Name: name, Email: mail, Role: role}
	user.ID = id
	require.NoError(t, f.repos.Users.Create(f.ctx, user))
}

func (f *fixture) seedCampaign(t *testing.T, id string, release models.PayoutRelease, method models.FulfillmentMethod) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{
		Title:             "Spring Drop",
		BrandName:         "Acme",
		Budget:            120,
		FulfillmentMethod: method,
		PaymentType:       models.PaymentTypeFull,
		PayoutRelease:     release,
		OrderFormFields:   []string{"size", "shippingAddress.city"},
	}
	campaign.ID = id
	require.NoError(t, f.repos.Campaigns.Create(f.ctx, campaign))
	return campaign
}

func (f *fixture) seedApplication(t *testing.T, id, campaignID string, status models.ApplicationStatus) *models.Application {
	t.Helper()
	app := &models.Application{
		CampaignID:   campaignID,
		InfluencerID: f.influencer.ID,
		Status:       status,
	}
	app.ID = id
	require.NoError(t, f.repos.Applications.Create(f.ctx, app))
	return app
}

func (f *fixture) seedPayment(t *testing.T, id, applicationID string, status models.PaymentStatus, release models.PayoutRelease) *models.Payment {
	t.Helper()
	payment := &models.Payment{
		ApplicationID: applicationID,
		InfluencerID:  f.influencer.ID,
		CampaignID:    "camp-1",
		Amount:        80,
		TotalPayout:   80,
		Status:        status,
		PayoutRelease: release,
	}
	payment.ID = id
	require.NoError(t, f.repos.Payments.Create(f.ctx, payment))
	return payment
}

func (f *fixture) reloadApp(t *testing.T, id string) *models.Application {
	t.Helper()
	app, err := f.repos.Applications.FindByID(f.ctx, id)
	require.NoError(t, err)
	return app
}

func effectByName(t *testing.T, results []workflow.EffectResult, name string) workflow.EffectResult {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("effect %s not found in %v", name, results)
	return workflow.EffectResult{}
}
