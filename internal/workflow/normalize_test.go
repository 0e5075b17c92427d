package workflow

import (
	"testing"

	"campaignhub_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKey(t *testing.T) {
	cases := map[string]string{
		"Application ID":   KeyApplicationID,
		"app_id":           KeyApplicationID,
		"appid":            KeyApplicationID,
		"applicationId":    KeyApplicationID,
		"Influencer Email": KeyInfluencerEmail,
		"email":            KeyInfluencerEmail,
		"influencerId":     KeyInfluencerID,
		"Campaign-ID":      KeyCampaignID,
		"Approved Amount":  KeyApprovedAmount,
		"refund_amount":    KeyApprovedAmount,
		"amount":           "amount",
		"Decision":         KeyStatus,
		"Followers":        "Followers",
	}

	for in, want := range cases {
		assert.Equal(t, want, CanonicalKey(in), in)
	}
}

func TestNormalizeRow(t *testing.T) {
	row := NormalizeRow(map[string]string{
		"Application ID": " app-7 ",
		"Status":         "Yes",
		"Note":           "ok",
	}, "camp-9")

	assert.Equal(t, "app-7", row[KeyApplicationID])
	assert.Equal(t, "Yes", row[KeyStatus])
	assert.Equal(t, "ok", row[KeyComment])
	assert.Equal(t, "camp-9", row[KeyCampaignID])

	row = NormalizeRow(map[string]string{"campaign": "own"}, "camp-9")
	assert.Equal(t, "own", row[KeyCampaignID], "кампания из строки не перетирается")
}

// Повторная нормализация уже канонической строки ничего не меняет
func TestNormalizeRow_Idempotent(t *testing.T) {
	once := NormalizeRow(map[string]string{"App-Id": "x", "E-mail": "a@b.c", "Extra": "1"}, "")
	twice := NormalizeRow(once, "")
	assert.Equal(t, once, twice)
}

func TestNormalizeStatus(t *testing.T) {
	for _, v := range []string{"1", "Yes", "y", "TRUE", "approve", "Approved", "accept", "accepted"} {
		got, ok := NormalizeStatus(v)
		assert.True(t, ok, v)
		assert.Equal(t, models.ApplicationStatusApproved, got, v)
	}
	for _, v := range []string{"0", "no", "N", "false", "reject", "Rejected", "decline", "DECLINED"} {
		got, ok := NormalizeStatus(v)
		assert.True(t, ok, v)
		assert.Equal(t, models.ApplicationStatusRejected, got, v)
	}

	got, ok := NormalizeStatus(" Nope ")
	assert.False(t, ok)
	assert.Equal(t, models.ApplicationStatus("nope"), got)
}
