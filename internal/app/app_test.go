package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"campaignhub_backend/internal/auth"
	"campaignhub_backend/internal/config"
	"campaignhub_backend/internal/logger"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories"
	"campaignhub_backend/internal/repositories/memory"
	"campaignhub_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	os.Exit(m.Run())
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	repos  *repositories.Repositories
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.Workflow.AppealFormName = "appeal form"

	repos, _ := memory.NewRepositories()
	container := services.NewServiceContainer(repos, &NoopEmailProvider{}, services.ServiceOptions{
		AppealFormName: cfg.Workflow.AppealFormName,
	})

	s := &testServer{t: t, router: SetupRouter(cfg, container), repos: repos}

	ctx := context.Background()
	for _, u := range []*models.User{
		{Name: "Aida", Email: "aida@example.com", Role: models.UserRoleInfluencer},
		{Name: "Dana", Email: "dana@example.com", Role: models.UserRoleAdmin},
	} {
		u.ID = strings.ToLower(u.Name)
		require.NoError(t, repos.Users.Create(ctx, u))
	}

	campaign := &models.Campaign{
		Title:             "Spring Drop",
		BrandName:         "Acme",
		Budget:            100,
		FulfillmentMethod: models.FulfillmentInfluencer,
		PaymentType:       models.PaymentTypeFull,
		PayoutRelease:     models.PayoutPayAfterDeliverables,
		OrderFormFields:   []string{"size"},
	}
	campaign.ID = "camp-1"
	require.NoError(t, repos.Campaigns.Create(ctx, campaign))
	return s
}

func (s *testServer) token(userID string, role models.UserRole, permissions ...string) string {
	s.t.Helper()
	tok, err := auth.SignToken(testSecret, auth.Claims{
		UserID:      userID,
		Role:        string(role),
		Name:        userID,
		Permissions: permissions,
	}, time.Hour)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(s.t, err)
	}
	return s.do(method, path, token, body, "application/json")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/applications/my", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/applications/my", "garbage", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", decode(t, w)["error"].(map[string]interface{})["code"])
}

func TestApplicationFlow_ApplyApproveAndViews(t *testing.T) {
	s := newTestServer(t)
	influencer := s.token("aida", models.UserRoleInfluencer)
	admin := s.token("dana", models.UserRoleAdmin, auth.PermApplicationsReview)

	// Отклик
	w := s.doJSON(http.MethodPost, "/api/v1/applications", influencer, map[string]interface{}{
		"campaign_id": "camp-1",
		"comment":     "hello",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	appID := created["id"].(string)
	assert.Equal(t, "applied", created["status"])

	// Повторный отклик
	w = s.doJSON(http.MethodPost, "/api/v1/applications", influencer, map[string]interface{}{"campaign_id": "camp-1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Инфлюенсер не может одобрять
	w = s.doJSON(http.MethodPost, "/api/v1/applications/"+appID+"/approve", influencer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Админ без разрешения
	noPerm := s.token("dana", models.UserRoleAdmin)
	w = s.doJSON(http.MethodPost, "/api/v1/applications/"+appID+"/approve", noPerm, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Одобрение без тела
	w = s.do(http.MethodPost, "/api/v1/applications/"+appID+"/approve", admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	approved := decode(t, w)["application"].(map[string]interface{})
	assert.Equal(t, "approved", approved["status"])

	// Список своих заявок
	w = s.do(http.MethodGet, "/api/v1/applications/my", influencer, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])
}

func TestApplicationFlow_RejectCreatesNotification(t *testing.T) {
	s := newTestServer(t)
	influencer := s.token("aida", models.UserRoleInfluencer)
	admin := s.token("dana", models.UserRoleAdmin, auth.PermApplicationsReview)

	w := s.doJSON(http.MethodPost, "/api/v1/applications", influencer, map[string]interface{}{"campaign_id": "camp-1"})
	require.Equal(t, http.StatusCreated, w.Code)
	appID := decode(t, w)["id"].(string)

	w = s.doJSON(http.MethodPost, "/api/v1/applications/"+appID+"/reject", admin, map[string]interface{}{
		"reason":  "not a fit",
		"comment": "internal note",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/notifications?unread_only=true", influencer, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["total"])
	notification := body["notifications"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "application_rejected", notification["type"])

	w = s.do(http.MethodPut, "/api/v1/notifications/"+notification["id"].(string)+"/read", influencer, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/notifications?unread_only=true", influencer, nil, "")
	assert.EqualValues(t, 0, decode(t, w)["total"])
}

func TestBulkReview_CSVAlwaysReturnsSummary(t *testing.T) {
	s := newTestServer(t)
	admin := s.token("dana", models.UserRoleAdmin, auth.PermApplicationsReview)

	app := &models.Application{CampaignID: "camp-1", InfluencerID: "aida", Status: models.ApplicationStatusApplied}
	require.NoError(t, s.repos.Applications.Create(context.Background(), app))

	csv := "Application ID,Status\n" + app.ID + ",approve\nghost,reject\n"
	w := s.do(http.MethodPost, "/api/v1/applications/bulk-review", admin, []byte(csv), "text/csv")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.EqualValues(t, 2, body["total"])
	assert.EqualValues(t, 1, body["updated"])
	assert.Len(t, body["notFound"], 1)
}

func TestBulkReview_EmptyBody(t *testing.T) {
	s := newTestServer(t)
	admin := s.token("dana", models.UserRoleAdmin, auth.PermApplicationsReview)

	w := s.do(http.MethodPost, "/api/v1/applications/bulk-review", admin, nil, "text/csv")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportOrders_CSVAttachment(t *testing.T) {
	s := newTestServer(t)
	admin := s.token("dana", models.UserRoleSuperAdmin)

	app := &models.Application{
		CampaignID:   "camp-1",
		InfluencerID: "aida",
		Status:       models.ApplicationStatusOrderSubmitted,
		OrderData:    map[string]interface{}{"size": "M"},
	}
	require.NoError(t, s.repos.Applications.Create(context.Background(), app))

	w := s.do(http.MethodGet, "/api/v1/applications/orders/export?campaign_id=camp-1", admin, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "\ufeff"))
	assert.Contains(t, body, "\r\n")
	assert.Contains(t, body, app.ID)
}

func TestPayments_ListRequiresPermission(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/payments", s.token("dana", models.UserRoleAdmin), nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/payments", s.token("dana", models.UserRoleAdmin, auth.PermPaymentsView), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["total"])

	w = s.do(http.MethodGet, "/api/v1/payments/my", s.token("aida", models.UserRoleInfluencer), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSeedFirstAdmin(t *testing.T) {
	repos, _ := memory.NewRepositories()
	cfg := &config.Config{FirstAdminEmail: "Root@Example.com", FirstAdminPassword: "supersecret"}
	ctx := context.Background()

	require.NoError(t, seedFirstAdmin(ctx, repos.Users, cfg))
	require.NoError(t, seedFirstAdmin(ctx, repos.Users, cfg))

	admin, err := repos.Users.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleSuperAdmin, admin.Role)
	assert.ElementsMatch(t, auth.AllPermissions, []string(admin.Permissions))
	assert.True(t, auth.CheckPasswordHash("supersecret", admin.PasswordHash))
}

func TestSeedFirstAdmin_SkipsWithoutCredentials(t *testing.T) {
	repos, _ := memory.NewRepositories()
	require.NoError(t, seedFirstAdmin(context.Background(), repos.Users, &config.Config{}))
}
