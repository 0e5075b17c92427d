package dto

import (
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/workflow"
)

// ---------------- Requests ----------------

type OrderProofRequest struct {
	OrderScreenshot     string   `json:"order_screenshot"`
	DeliveredScreenshot string   `json:"delivered_screenshot"`
	OrderAmount         *float64 `json:"order_amount" validate:"omitempty,gte=0"`
	Comment             string   `json:"comment" validate:"omitempty,max=2000"`
}

type DeliverablesRequest struct {
	Proof   string `json:"proof"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

type PartialApprovalRequest struct {
	Amount  *float64 `json:"amount"`
	PayNow  bool     `json:"pay_now"`
	Comment string   `json:"comment" validate:"omitempty,max=2000"`
}

type RemainingRequest struct {
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// UpdatePaymentRequest - ручная правка администратора вне таблицы переходов
type UpdatePaymentRequest struct {
	Status   string                 `json:"status" validate:"omitempty,is-payment-status"`
	Metadata map[string]interface{} `json:"metadata"`
	Comment  string                 `json:"comment" validate:"omitempty,max=2000"`
}

type PaymentListQuery struct {
	CampaignID string `form:"campaign_id" json:"campaign_id"`
	Status     string `form:"status" json:"status" validate:"omitempty,is-payment-status"`
}

// ---------------- Responses ----------------

type PaymentView struct {
	*models.Payment
	AdminComments      []models.CommentEntry `json:"admin_comments,omitempty"`
	InfluencerComments []models.CommentEntry `json:"influencer_comments"`
	LatestAdminComment *models.CommentEntry  `json:"latest_admin_comment,omitempty"`
}

type PaymentActionResponse struct {
	Payment     *PaymentView            `json:"payment"`
	Application *ApplicationView        `json:"application,omitempty"`
	Effects     []workflow.EffectResult `json:"effects,omitempty"`
}

type PaymentListResponse struct {
	Payments []*PaymentView `json:"payments"`
	Total    int            `json:"total"`
}
