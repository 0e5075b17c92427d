package dto

import (
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/workflow"
)

// ---------------- Requests ----------------

type ApplyRequest struct {
	CampaignID     string          `json:"campaign_id" validate:"required"`
	Answers        []models.Answer `json:"answers" validate:"omitempty,dive"`
	SampleMedia    []string        `json:"sample_media" validate:"omitempty,max=10,dive,url"`
	Comment        string          `json:"comment" validate:"omitempty,max=2000"`
	FollowersCount int             `json:"followers_count" validate:"omitempty,gte=0"`
}

// ReviewRequest - approve/reject заявки
type ReviewRequest struct {
	Comment string `json:"comment" validate:"omitempty,max=2000"`
	Reason  string `json:"reason" validate:"omitempty,max=1000"`
}

type SubmitOrderRequest struct {
	OrderID            string                  `json:"order_id" validate:"omitempty,max=200"`
	Amount             *float64                `json:"amount"`
	CampaignScreenshot string                  `json:"campaign_screenshot"`
	OrderData          map[string]interface{}  `json:"order_data"`
	ShippingAddress    *models.ShippingAddress `json:"shipping_address"`
	Comment            string                  `json:"comment" validate:"omitempty,max=2000"`
}

// OrderReviewRequest - approve/reject заказа.
// approved_amount не ограничивается здесь, его проверяет workflow.
type OrderReviewRequest struct {
	ApprovedAmount *float64 `json:"approved_amount"`
	Reason         string   `json:"reason" validate:"omitempty,max=1000"`
	Comment        string   `json:"comment" validate:"omitempty,max=2000"`
	AppealFormName string   `json:"appeal_form_name" validate:"omitempty,max=200"`
}

type ApplicationListQuery struct {
	CampaignID string `form:"campaign_id" json:"campaign_id"`
	Status     string `form:"status" json:"status" validate:"omitempty,is-application-status"`
}

// ---------------- Responses ----------------

// ApplicationView - заявка в проекции для конкретного зрителя.
// Поля комментариев перекрывают одноименные поля модели.
type ApplicationView struct {
	*models.Application
	AdminComments      []models.CommentEntry `json:"admin_comments,omitempty"`
	InfluencerComments []models.CommentEntry `json:"influencer_comments"`
	Stage              models.Stage          `json:"stage"`
	LatestAdminComment *models.CommentEntry  `json:"latest_admin_comment,omitempty"`
}

type ApplicationActionResponse struct {
	Application *ApplicationView        `json:"application"`
	Payment     *models.Payment         `json:"payment,omitempty"`
	Effects     []workflow.EffectResult `json:"effects,omitempty"`
}

type ApplicationListResponse struct {
	Applications []*ApplicationView `json:"applications"`
	Total        int                `json:"total"`
}
