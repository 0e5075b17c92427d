package workflow

import (
	"strings"
	"time"

	"campaignhub_backend/internal/models"
	"campaignhub_backend/pkg/apperrors"
)

// ReviewInput - параметры approve/reject на уровне заявки
type ReviewInput struct {
	Comment string
	Reason  string
}

// OrderInput - данные заказа от инфлюенсера
type OrderInput struct {
	OrderID            string
	Amount             *float64
	CampaignScreenshot string
	OrderData          map[string]interface{}
	ShippingAddress    *models.ShippingAddress
	Comment            string
}

// OrderReviewInput - параметры approve/reject заказа
type OrderReviewInput struct {
	ApprovedAmount *float64
	Reason         string
	Comment        string
	AppealFormName string
}

// Approve: заявка одобрена, сумма выплаты получает явный 0, если не задана
func Approve(app *models.Application, campaign *models.Campaign, actor models.Actor, in ReviewInput, now time.Time) error {
	next, err := NextApplicationStatus(app.Status, ActionApprove)
	if err != nil {
		return err
	}

	app.Status = next
	app.ReviewerID = actor.ID
	ResolveSnapshot(app, campaign)
	if app.Payout.Amount == nil {
		app.Payout.Amount = models.Float(0)
	}
	app.AdminComments = AppendComment(app.AdminComments, StageForStatus(string(next)), in.Comment, actor, now)
	return nil
}

func Reject(app *models.Application, actor models.Actor, in ReviewInput, now time.Time) error {
	next, err := NextApplicationStatus(app.Status, ActionReject)
	if err != nil {
		return err
	}

	app.Status = next
	app.ReviewerID = actor.ID
	app.RejectionReason = strings.TrimSpace(in.Reason)
	app.AdminComments = AppendComment(app.AdminComments, StageForStatus(string(next)), in.Comment, actor, now)
	return nil
}

// SubmitOrder проверяет данные заказа в зависимости от способа исполнения.
// При ошибке заявка не изменяется.
func SubmitOrder(app *models.Application, actor models.Actor, in OrderInput, now time.Time) error {
	if actor.ID != app.InfluencerID {
		return apperrors.ErrNotOwner
	}

	if app.FulfillmentMethod == models.FulfillmentBrand {
		addr := in.ShippingAddress
		if addr == nil || strings.TrimSpace(addr.Line1) == "" || strings.TrimSpace(addr.PostalCode) == "" {
			return apperrors.ErrMissingShippingAddress
		}
	} else if strings.TrimSpace(in.OrderID) == "" || in.Amount == nil || *in.Amount == 0 {
		return apperrors.ErrMissingFields
	}

	next, err := NextApplicationStatus(app.Status, ActionSubmitOrder)
	if err != nil {
		return err
	}

	app.OrderID = strings.TrimSpace(in.OrderID)
	app.CampaignScreenshot = in.CampaignScreenshot
	app.OrderData = in.OrderData
	if in.Amount != nil {
		if app.OrderData == nil {
			app.OrderData = map[string]interface{}{}
		}
		app.OrderData["amount"] = *in.Amount
	}
	if in.ShippingAddress != nil {
		addr := *in.ShippingAddress
		app.ShippingAddress = &addr
	}
	// Уже заданную сумму меняет только администратор через approved_amount
	if in.Amount != nil && !app.Payout.IsSet() {
		app.Payout.Amount = models.Float(*in.Amount)
	}
	app.Payout.Paid = false
	app.Status = next
	app.InfluencerComments = AppendComment(app.InfluencerComments, StageForStatus(string(next)), in.Comment, actor, now)
	return nil
}

// ApproveOrder заново снимает настройки кампании и фиксирует сумму выплаты.
// approved_amount принимается только для refund_on_delivery + influencer.
func ApproveOrder(app *models.Application, campaign *models.Campaign, actor models.Actor, in OrderReviewInput, now time.Time) error {
	next, err := NextApplicationStatus(app.Status, ActionApproveOrder)
	if err != nil {
		return err
	}

	snap := app.Clone()
	ResolveSnapshot(snap, campaign)

	if in.ApprovedAmount != nil {
		if snap.PayoutRelease != models.PayoutRefundOnDelivery || snap.FulfillmentMethod != models.FulfillmentInfluencer {
			return apperrors.ErrInvalidApprovedAmount
		}
		if *in.ApprovedAmount < 0 {
			return apperrors.ErrInvalidApprovedAmount
		}
	}

	ResolveSnapshot(app, campaign)
	if !app.Payout.IsSet() && campaign != nil {
		app.Payout.Amount = models.Float(campaign.Budget)
	}
	if in.ApprovedAmount != nil {
		app.Payout.Amount = models.Float(*in.ApprovedAmount)
	}
	if app.Payout.Amount == nil {
		app.Payout.Amount = models.Float(0)
	}
	app.Payout.Paid = false
	approvedAt := now
	app.Payout.ApprovedAt = &approvedAt
	app.Status = next
	app.ReviewerID = actor.ID
	app.AdminComments = AppendComment(app.AdminComments, StageForStatus(string(next)), in.Comment, actor, now)
	return nil
}

// RejectOrder: из order_submitted → order_form_rejected, иначе → rejected.
// Данные заказа очищаются всегда.
func RejectOrder(app *models.Application, actor models.Actor, in OrderReviewInput, defaultAppealForm string, now time.Time) error {
	next, err := NextApplicationStatus(app.Status, ActionRejectOrder)
	if err != nil {
		return err
	}

	appealForm := strings.TrimSpace(in.AppealFormName)
	if appealForm == "" {
		appealForm = defaultAppealForm
	}

	app.Status = next
	app.ReviewerID = actor.ID
	app.RejectionReason = strings.TrimSpace(in.Reason)
	app.NeedsAppeal = true
	app.AppealFormName = appealForm
	app.ClearOrder()
	app.AdminComments = AppendComment(app.AdminComments, StageForStatus(string(next)), in.Comment, actor, now)
	return nil
}

// NewPaymentFor строит запись выплаты для одобренного заказа
func NewPaymentFor(app *models.Application) *models.Payment {
	amount := app.Payout.Value()
	payment := &models.Payment{
		ApplicationID:     app.ID,
		InfluencerID:      app.InfluencerID,
		CampaignID:        app.CampaignID,
		Amount:            amount,
		TotalPayout:       amount,
		Status:            models.PaymentStatusPending,
		PaymentType:       app.PaymentType,
		PayoutRelease:     app.PayoutRelease,
		FulfillmentMethod: app.FulfillmentMethod,
	}
	if app.PayoutRelease == models.PayoutRefundOnDelivery && amount > 0 {
		payment.PartialApproval = &models.PartialApproval{Amount: amount, Paid: false}
	}
	return payment
}

// SyncPaymentAmount переносит сумму payout заявки в существующую выплату.
// Уже выплаченные части не трогаются. Возвращает true, если выплата изменилась.
func SyncPaymentAmount(p *models.Payment, app *models.Application) bool {
	amount := app.Payout.Value()
	if amount <= 0 || p.Status == models.PaymentStatusPaid || p.Amount == amount {
		return false
	}

	p.Amount = amount
	p.TotalPayout = amount
	if p.PayoutRelease == models.PayoutRefundOnDelivery {
		if p.PartialApproval == nil {
			p.PartialApproval = &models.PartialApproval{}
		}
		if !p.PartialApproval.Paid {
			p.PartialApproval.Amount = amount
		}
	}
	return true
}

// MirrorStatus переводит заявку по зеркальному действию, если переход допустим
func MirrorStatus(app *models.Application, action Action) bool {
	next, err := NextApplicationStatus(app.Status, action)
	if err != nil {
		return false
	}
	app.Status = next
	return true
}
