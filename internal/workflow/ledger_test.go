package workflow

import (
	"context"
	"errors"
	"testing"

	"campaignhub_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendComment_KeepsOrder(t *testing.T) {
	var ledger []models.CommentEntry

	ledger = AppendComment(ledger, models.StageApplication, "A", adminActor, testNow)
	ledger = AppendComment(ledger, models.StageOrder, "B", adminActor, testNow)
	ledger = AppendComment(ledger, models.StageOrder, "   ", adminActor, testNow)

	require.Len(t, ledger, 2)
	assert.Equal(t, "A", ledger[0].Comment)
	assert.Equal(t, "B", ledger[1].Comment)
	assert.Equal(t, adminActor.ID, ledger[1].By)
}

func TestLatestForStage(t *testing.T) {
	ledger := []models.CommentEntry{
		{Stage: models.StageApplication, Comment: "app-1"},
		{Stage: models.StageOrder, Comment: "order-1"},
		{Stage: models.StageApplication, Comment: "app-2"},
		{Stage: models.StageOrder, Comment: "order-2"},
	}

	latest := LatestForStage(ledger, models.StageApplication)
	require.NotNil(t, latest)
	assert.Equal(t, "app-2", latest.Comment)

	latest = LatestForStage(ledger, models.StageOrder)
	require.NotNil(t, latest)
	assert.Equal(t, "order-2", latest.Comment)

	assert.Nil(t, LatestForStage(ledger, models.StagePayment))
}

func TestAuthorNames(t *testing.T) {
	admin := []models.CommentEntry{{By: "a1"}, {By: "a2", ByName: "Kept"}, {By: "a1"}}
	inf := []models.CommentEntry{{By: "i1"}}

	assert.Equal(t, []string{"a1", "a2", "i1"}, AuthorIDs(admin, inf))

	named := WithAuthorNames(admin, map[string]string{"a1": "Alice", "a2": "Other"})
	assert.Equal(t, "Alice", named[0].ByName)
	assert.Equal(t, "Kept", named[1].ByName)
	assert.Empty(t, admin[0].ByName, "исходный журнал не меняется")
}

func TestRunEffects_BestEffortFailureDoesNotStop(t *testing.T) {
	var ran []string
	effects := []Effect{
		BestEffort("notify", func(ctx context.Context) error {
			ran = append(ran, "notify")
			return errors.New("smtp down")
		}),
		BestEffort("panics", func(ctx context.Context) error {
			panic("boom")
		}),
		BestEffort("mirror", func(ctx context.Context) error {
			ran = append(ran, "mirror")
			return nil
		}),
	}

	results, err := RunEffects(context.Background(), effects)

	require.NoError(t, err)
	assert.Equal(t, []string{"notify", "mirror"}, ran)
	require.Len(t, results, 3)
	assert.False(t, results[0].OK)
	assert.Equal(t, "smtp down", results[0].Error)
	assert.False(t, results[1].OK)
	assert.True(t, results[2].OK)
}

func TestRunEffects_RequiredFailureStops(t *testing.T) {
	ran := false
	effects := []Effect{
		Required("save", func(ctx context.Context) error { return errors.New("db down") }),
		BestEffort("after", func(ctx context.Context) error { ran = true; return nil }),
	}

	results, err := RunEffects(context.Background(), effects)

	require.Error(t, err)
	assert.False(t, ran)
	assert.Len(t, results, 1)
}
