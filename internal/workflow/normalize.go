package workflow

import (
	"sort"
	"strings"

	"campaignhub_backend/internal/models"
)

// Канонические ключи строки bulk-импорта
const (
	KeyApplicationID   = "application_id"
	KeyInfluencerID    = "influencer_id"
	KeyInfluencerEmail = "influencer_email"
	KeyCampaignID      = "campaign_id"
	KeyStatus          = "status"
	KeyApprovedAmount  = "approved_amount"
	KeyReason          = "reason"
	KeyComment         = "comment"
	KeyAppealFormName  = "appeal_form_name"
)

// columnAliases: канонический ключ → допустимые заголовки.
// Сравнение идет после foldKey, поэтому "Application ID", "app_id" и "APP-ID" совпадают.
var columnAliases = map[string][]string{
	KeyApplicationID:   {"applicationid", "appid", "application"},
	KeyInfluencerID:    {"influencerid", "userid", "creatorid"},
	KeyInfluencerEmail: {"influenceremail", "email", "emailaddress", "useremail"},
	KeyCampaignID:      {"campaignid", "campaign"},
	KeyStatus:          {"status", "decision", "result", "reviewstatus", "approved"},
	// Голое "amount" не алиас: так называется поле формы заказа в выгрузке
	KeyApprovedAmount:  {"approvedamount", "payoutamount", "refundamount"},
	KeyReason:          {"reason", "rejectionreason"},
	KeyComment:         {"comment", "comments", "admincomment", "note", "notes"},
	KeyAppealFormName:  {"appealformname", "appealform"},
}

var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]string {
	idx := make(map[string]string)
	for canonical, aliases := range columnAliases {
		idx[foldKey(canonical)] = canonical
		for _, alias := range aliases {
			idx[foldKey(alias)] = canonical
		}
	}
	return idx
}

func foldKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(k)
}

// CanonicalKey возвращает канонический ключ или исходный ключ без изменений
func CanonicalKey(k string) string {
	if canonical, ok := aliasIndex[foldKey(k)]; ok {
		return canonical
	}
	return k
}

// NormalizeRow переименовывает колонки в канонические ключи и обрезает пробелы.
// Если несколько колонок дают один ключ, побеждает первая непустая по алфавиту заголовков.
func NormalizeRow(row map[string]string, defaultCampaignID string) map[string]string {
	headers := make([]string, 0, len(row))
	for k := range row {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	out := make(map[string]string, len(row))
	for _, k := range headers {
		key := CanonicalKey(k)
		v := strings.TrimSpace(row[k])
		if existing, ok := out[key]; ok && existing != "" {
			continue
		}
		out[key] = v
	}
	if defaultCampaignID != "" && out[KeyCampaignID] == "" {
		out[KeyCampaignID] = defaultCampaignID
	}
	return out
}

var (
	approvedWords = map[string]bool{
		"1": true, "yes": true, "y": true, "true": true,
		"approve": true, "approved": true, "accept": true, "accepted": true,
	}
	rejectedWords = map[string]bool{
		"0": true, "no": true, "n": true, "false": true,
		"reject": true, "rejected": true, "decline": true, "declined": true,
	}
)

// NormalizeStatus приводит значение статуса к approved/rejected.
// Для остальных значений возвращает строку в нижнем регистре и ok=false.
func NormalizeStatus(raw string) (models.ApplicationStatus, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case approvedWords[v]:
		return models.ApplicationStatusApproved, true
	case rejectedWords[v]:
		return models.ApplicationStatusRejected, true
	}
	return models.ApplicationStatus(v), false
}
