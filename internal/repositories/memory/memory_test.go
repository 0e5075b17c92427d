package memory

import (
	"context"
	"testing"
	"time"

	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplications_CopiesAreIsolated(t *testing.T) {
	repos, _ := NewRepositories()
	ctx := context.Background()

	app := &models.Application{CampaignID: "c1", InfluencerID: "u1", Status: models.ApplicationStatusApplied}
	require.NoError(t, repos.Applications.Create(ctx, app))
	require.NotEmpty(t, app.ID)

	loaded, err := repos.Applications.FindByID(ctx, app.ID)
	require.NoError(t, err)
	loaded.Status = models.ApplicationStatusApproved

	again, err := repos.Applications.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApplied, again.Status)
}

func TestApplications_FilterAndLatestFirst(t *testing.T) {
	repos, _ := NewRepositories()
	ctx := context.Background()

	for _, a := range []*models.Application{
		{CampaignID: "c1", InfluencerID: "u1", Status: models.ApplicationStatusRejected},
		{CampaignID: "c1", InfluencerID: "u1", Status: models.ApplicationStatusApplied},
		{CampaignID: "c2", InfluencerID: "u2", Status: models.ApplicationStatusOrderSubmitted},
	} {
		require.NoError(t, repos.Applications.Create(ctx, a))
	}

	latest, err := repos.Applications.FindByInfluencerAndCampaign(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApplied, latest.Status)

	orders, err := repos.Applications.List(ctx, repositories.ApplicationFilter{Statuses: models.OrderStageStatuses})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "c2", orders[0].CampaignID)

	_, err = repos.Applications.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrApplicationNotFound)
}

func TestStore_FailOn(t *testing.T) {
	repos, store := NewRepositories()
	store.FailOn["payments.create"] = ErrInjected

	err := repos.Payments.Create(context.Background(), &models.Payment{ApplicationID: "a1"})
	assert.ErrorIs(t, err, ErrInjected)
}

func TestUsers_EmailIsCaseInsensitive(t *testing.T) {
	repos, _ := NewRepositories()
	ctx := context.Background()

	require.NoError(t, repos.Users.Create(ctx, &models.User{Email: " Mixed@Example.com ", Role: models.UserRoleInfluencer}))
	assert.ErrorIs(t, repos.Users.Create(ctx, &models.User{Email: "mixed@example.com"}), repositories.ErrUserAlreadyExists)

	u, err := repos.Users.FindByEmail(ctx, "MIXED@example.com")
	require.NoError(t, err)
	assert.Equal(t, "mixed@example.com", u.Email)
}

func TestNotifications_ReadAndCleanup(t *testing.T) {
	repos, _ := NewRepositories()
	ctx := context.Background()

	old := &models.Notification{UserID: "u1", Type: "x", Message: "old"}
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	fresh := &models.Notification{UserID: "u1", Type: "x", Message: "fresh"}
	fresh.CreatedAt = time.Now()
	require.NoError(t, repos.Notifications.Create(ctx, old))
	require.NoError(t, repos.Notifications.Create(ctx, fresh))

	assert.ErrorIs(t, repos.Notifications.MarkAsRead(ctx, "someone-else", old.ID), repositories.ErrNotificationNotFound)
	require.NoError(t, repos.Notifications.MarkAsRead(ctx, "u1", old.ID))

	unread, err := repos.Notifications.FindUserNotifications(ctx, "u1", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "fresh", unread[0].Message)

	deleted, err := repos.Notifications.DeleteReadBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	all, err := repos.Notifications.FindUserNotifications(ctx, "u1", false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
