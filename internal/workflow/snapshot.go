package workflow

import "campaignhub_backend/internal/models"

// ResolveSnapshot копирует настройки кампании в заявку.
// Копируются только непустые значения кампании, заполненные поля заявки не очищаются.
// nil-кампания - no-op.
func ResolveSnapshot(app *models.Application, campaign *models.Campaign) {
	if app == nil || campaign == nil {
		return
	}
	if campaign.FulfillmentMethod != "" {
		app.FulfillmentMethod = campaign.FulfillmentMethod
	}
	if len(campaign.OrderFormFields) > 0 {
		app.OrderFormFields = append(app.OrderFormFields[:0:0], campaign.OrderFormFields...)
	}
	if campaign.PaymentType != "" {
		app.PaymentType = campaign.PaymentType
	}
	if campaign.PayoutRelease != "" {
		app.PayoutRelease = campaign.PayoutRelease
	}
}
