package services

import (
	"context"
	"time"

	"campaignhub_backend/internal/logger"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories"
	"campaignhub_backend/internal/services/dto"
	"campaignhub_backend/internal/workflow"
	"campaignhub_backend/pkg/apperrors"
)

// PaymentOutcome - сохраненная выплата и (если зеркалирование удалось) заявка
type PaymentOutcome struct {
	Payment     *models.Payment
	Application *models.Application
	Effects     []workflow.EffectResult
}

const notificationTypePaymentPaid = "payment_paid"

type PaymentService interface {
	GetPayment(ctx context.Context, actor models.Actor, id string) (*models.Payment, error)
	ListPayments(ctx context.Context, query dto.PaymentListQuery) ([]models.Payment, error)
	ListMyPayments(ctx context.Context, actor models.Actor) ([]models.Payment, error)

	SubmitOrderProof(ctx context.Context, actor models.Actor, id string, req *dto.OrderProofRequest) (*PaymentOutcome, error)
	SubmitDeliverables(ctx context.Context, actor models.Actor, id string, req *dto.DeliverablesRequest) (*PaymentOutcome, error)
	ApprovePartial(ctx context.Context, actor models.Actor, id string, req *dto.PartialApprovalRequest) (*PaymentOutcome, error)
	ApproveRemaining(ctx context.Context, actor models.Actor, id string, req *dto.RemainingRequest) (*PaymentOutcome, error)

	// UpdatePayment - ручная правка статуса/метаданных администратором
	UpdatePayment(ctx context.Context, actor models.Actor, id string, req *dto.UpdatePaymentRequest) (*PaymentOutcome, error)
}

type paymentService struct {
	repos    *repositories.Repositories
	notifier NotificationService
	now      func() time.Time
}

func NewPaymentService(repos *repositories.Repositories, notifier NotificationService) PaymentService {
	return &paymentService{
		repos:    repos,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ---------------- Чтение ----------------

func (s *paymentService) GetPayment(ctx context.Context, actor models.Actor, id string) (*models.Payment, error) {
	payment, err := loadPayment(ctx, s.repos.Payments, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, payment.InfluencerID) {
		return nil, apperrors.ErrNotOwner
	}
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, query dto.PaymentListQuery) ([]models.Payment, error) {
	payments, err := s.repos.Payments.List(ctx, repositories.PaymentFilter{
		CampaignID: query.CampaignID,
		Status:     models.PaymentStatus(query.Status),
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return payments, nil
}

func (s *paymentService) ListMyPayments(ctx context.Context, actor models.Actor) ([]models.Payment, error) {
	payments, err := s.repos.Payments.List(ctx, repositories.PaymentFilter{InfluencerID: actor.ID})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return payments, nil
}

// ---------------- Переходы ----------------

func (s *paymentService) SubmitOrderProof(ctx context.Context, actor models.Actor, id string, req *dto.OrderProofRequest) (*PaymentOutcome, error) {
	payment, err := loadPayment(ctx, s.repos.Payments, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	in := workflow.OrderProofInput{
		OrderScreenshot:     req.OrderScreenshot,
		DeliveredScreenshot: req.DeliveredScreenshot,
		OrderAmount:         req.OrderAmount,
		Comment:             req.Comment,
	}
	if err := workflow.SubmitOrderProof(payment, actor, in, now); err != nil {
		return nil, err
	}

	return s.commit(ctx, payment, func(app *models.Application) bool {
		changed := workflow.MirrorStatus(app, workflow.ActionMirrorOrderProof)
		return mirrorComment(app, actor, req.Comment, false, now) || changed
	})
}

func (s *paymentService) SubmitDeliverables(ctx context.Context, actor models.Actor, id string, req *dto.DeliverablesRequest) (*PaymentOutcome, error) {
	payment, err := loadPayment(ctx, s.repos.Payments, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := workflow.SubmitDeliverables(payment, actor, workflow.DeliverablesInput{Proof: req.Proof, Comment: req.Comment}, now); err != nil {
		return nil, err
	}

	// Статус заявки не меняется до окончательной выплаты
	return s.commit(ctx, payment, func(app *models.Application) bool {
		return mirrorComment(app, actor, req.Comment, false, now)
	})
}

func (s *paymentService) ApprovePartial(ctx context.Context, actor models.Actor, id string, req *dto.PartialApprovalRequest) (*PaymentOutcome, error) {
	payment, err := loadPayment(ctx, s.repos.Payments, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	in := workflow.PartialApprovalInput{Amount: req.Amount, PayNow: req.PayNow, Comment: req.Comment}
	if err := workflow.ApprovePartial(payment, actor, in, now); err != nil {
		return nil, err
	}

	partialPaid := payment.PartialApproval != nil && payment.PartialApproval.Paid
	return s.commit(ctx, payment, func(app *models.Application) bool {
		changed := false
		if partialPaid {
			changed = workflow.MirrorStatus(app, workflow.ActionMirrorPartialPayment)
			if !app.Payout.PartialPaid {
				app.Payout.PartialPaid = true
				changed = true
			}
		}
		return mirrorComment(app, actor, req.Comment, true, now) || changed
	})
}

func (s *paymentService) ApproveRemaining(ctx context.Context, actor models.Actor, id string, req *dto.RemainingRequest) (*PaymentOutcome, error) {
	payment, err := loadPayment(ctx, s.repos.Payments, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := workflow.ApproveRemaining(payment, actor, workflow.RemainingInput{Comment: req.Comment}, now); err != nil {
		return nil, err
	}

	return s.commit(ctx, payment, func(app *models.Application) bool {
		workflow.MirrorStatus(app, workflow.ActionMirrorFullPayment)
		markPaid(app, now)
		mirrorComment(app, actor, req.Comment, true, now)
		return true
	}, s.paidNotification(payment))
}

func (s *paymentService) UpdatePayment(ctx context.Context, actor models.Actor, id string, req *dto.UpdatePaymentRequest) (*PaymentOutcome, error) {
	payment, err := loadPayment(ctx, s.repos.Payments, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := models.PaymentStatus(req.Status)
	becamePaid := status == models.PaymentStatusPaid && payment.Status != models.PaymentStatusPaid
	if status != "" {
		payment.Status = status
	}
	if req.Metadata != nil {
		if payment.Metadata == nil {
			payment.Metadata = map[string]interface{}{}
		}
		for k, v := range req.Metadata {
			payment.Metadata[k] = v
		}
	}
	payment.AdminComments = workflow.AppendComment(payment.AdminComments, models.StagePayment, req.Comment, actor, now)

	if !becamePaid {
		return s.commit(ctx, payment, nil)
	}

	logger.CtxInfo(ctx, "Payment marked as paid manually", "payment_id", payment.ID, "admin_id", actor.ID)
	return s.commit(ctx, payment, func(app *models.Application) bool {
		markPaid(app, now)
		return true
	}, s.paidNotification(payment))
}

// commit: сохранение выплаты обязательно, зеркалирование в заявку best-effort
func (s *paymentService) commit(
	ctx context.Context,
	payment *models.Payment,
	mirror func(app *models.Application) bool,
	extra ...workflow.Effect,
) (*PaymentOutcome, error) {
	ctx = logger.WithCorrelationID(ctx, payment.ApplicationID)
	outcome := &PaymentOutcome{Payment: payment}

	effects := []workflow.Effect{
		workflow.Required("save_payment", func(ctx context.Context) error {
			return s.repos.Payments.Update(ctx, payment)
		}),
	}
	if mirror != nil {
		effects = append(effects, workflow.BestEffort("mirror_application", func(ctx context.Context) error {
			app, err := s.repos.Applications.FindByID(ctx, payment.ApplicationID)
			if err != nil {
				return err
			}
			if mirror(app) {
				if err := s.repos.Applications.Update(ctx, app); err != nil {
					return err
				}
			}
			outcome.Application = app
			return nil
		}))
	}
	effects = append(effects, extra...)

	results, err := workflow.RunEffects(ctx, effects)
	if err != nil {
		return nil, commitError(err)
	}
	outcome.Effects = results

	logger.CtxInfo(ctx, "Payment transitioned", "payment_id", payment.ID, "status", payment.Status)
	return outcome, nil
}

func (s *paymentService) paidNotification(payment *models.Payment) workflow.Effect {
	return workflow.BestEffort("notify_influencer", func(ctx context.Context) error {
		return s.notifier.Emit(ctx, payment.InfluencerID, notificationTypePaymentPaid,
			"Your payout has been released.", payment.ApplicationID)
	})
}

// mirrorComment дублирует комментарий выплаты в журнал заявки
func mirrorComment(app *models.Application, actor models.Actor, text string, admin bool, now time.Time) bool {
	stage := workflow.StageForStatus(string(app.Status))
	if admin {
		before := len(app.AdminComments)
		app.AdminComments = workflow.AppendComment(app.AdminComments, stage, text, actor, now)
		return len(app.AdminComments) != before
	}
	before := len(app.InfluencerComments)
	app.InfluencerComments = workflow.AppendComment(app.InfluencerComments, stage, text, actor, now)
	return len(app.InfluencerComments) != before
}

func markPaid(app *models.Application, now time.Time) {
	app.Payout.Paid = true
	paidAt := now
	app.Payout.PaidAt = &paidAt
}
