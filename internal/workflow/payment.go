package workflow

import (
	"strings"
	"time"

	"campaignhub_backend/internal/models"
	"campaignhub_backend/pkg/apperrors"
)

type OrderProofInput struct {
	OrderScreenshot     string
	DeliveredScreenshot string
	OrderAmount         *float64
	Comment             string
}

type DeliverablesInput struct {
	Proof   string
	Comment string
}

type PartialApprovalInput struct {
	Amount  *float64
	PayNow  bool
	Comment string
}

type RemainingInput struct {
	Comment string
}

// SubmitOrderProof сохраняет скриншоты заказа от инфлюенсера
func SubmitOrderProof(p *models.Payment, actor models.Actor, in OrderProofInput, now time.Time) error {
	if actor.ID != p.InfluencerID {
		return apperrors.ErrNotOwner
	}
	if strings.TrimSpace(in.OrderScreenshot) == "" && strings.TrimSpace(in.DeliveredScreenshot) == "" {
		return apperrors.ErrMissingFields
	}

	next, err := NextPaymentStatus(p.Status, ActionSubmitOrderProof)
	if err != nil {
		return err
	}

	if in.OrderScreenshot != "" {
		p.OrderProofs.OrderScreenshot = in.OrderScreenshot
	}
	if in.DeliveredScreenshot != "" {
		p.OrderProofs.DeliveredScreenshot = in.DeliveredScreenshot
	}
	if in.OrderAmount != nil {
		p.OrderProofs.OrderAmount = models.Float(*in.OrderAmount)
	}
	submittedAt := now
	p.OrderProofs.SubmittedAt = &submittedAt
	p.Status = next
	p.InfluencerComments = AppendComment(p.InfluencerComments, models.StagePayment, in.Comment, actor, now)
	return nil
}

func SubmitDeliverables(p *models.Payment, actor models.Actor, in DeliverablesInput, now time.Time) error {
	if actor.ID != p.InfluencerID {
		return apperrors.ErrNotOwner
	}
	if strings.TrimSpace(in.Proof) == "" {
		return apperrors.ErrMissingFields
	}

	next, err := NextPaymentStatus(p.Status, ActionSubmitDeliverables)
	if err != nil {
		return err
	}

	submittedAt := now
	p.DeliverablesProof = models.DeliverablesProof{
		Proof:       strings.TrimSpace(in.Proof),
		SubmittedAt: &submittedAt,
	}
	p.Status = next
	p.InfluencerComments = AppendComment(p.InfluencerComments, models.StagePayment, in.Comment, actor, now)
	return nil
}

// ApprovePartial доступен только при refund_on_delivery.
// Сумма: из запроса, иначе ранее заготовленная, иначе вся сумма выплаты.
func ApprovePartial(p *models.Payment, actor models.Actor, in PartialApprovalInput, now time.Time) error {
	if p.PayoutRelease != models.PayoutRefundOnDelivery {
		return apperrors.ErrInvalidPayoutFlow
	}
	if in.Amount != nil && *in.Amount < 0 {
		return apperrors.ErrInvalidApprovedAmount
	}

	next, err := NextPaymentStatus(p.Status, ActionApprovePartial)
	if err != nil {
		return err
	}

	approval := models.PartialApproval{Amount: p.Amount}
	if p.PartialApproval != nil {
		approval = *p.PartialApproval
	}
	if in.Amount != nil {
		approval.Amount = *in.Amount
	}
	approvedAt := now
	approval.ApprovedBy = actor.ID
	approval.ApprovedAt = &approvedAt
	if in.PayNow && !approval.Paid {
		paidAt := now
		approval.Paid = true
		approval.PaidAt = &paidAt
	}

	p.PartialApproval = &approval
	p.Status = next
	p.AdminComments = AppendComment(p.AdminComments, models.StagePayment, in.Comment, actor, now)
	return nil
}

// ApproveRemaining требует подтверждение выполнения (deliverables proof)
func ApproveRemaining(p *models.Payment, actor models.Actor, in RemainingInput, now time.Time) error {
	if strings.TrimSpace(p.DeliverablesProof.Proof) == "" {
		return apperrors.ErrDeliverablesMissing
	}

	next, err := NextPaymentStatus(p.Status, ActionApproveRemaining)
	if err != nil {
		return err
	}

	verifiedAt := now
	p.DeliverablesProof.Verified = true
	p.DeliverablesProof.VerifiedBy = actor.ID
	p.DeliverablesProof.VerifiedAt = &verifiedAt
	p.Status = next
	p.AdminComments = AppendComment(p.AdminComments, models.StagePayment, in.Comment, actor, now)
	return nil
}
