package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"campaignhub_backend/internal/email"
	"campaignhub_backend/internal/logger"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories"
	"campaignhub_backend/internal/services/dto"
	"campaignhub_backend/internal/tabular"
	"campaignhub_backend/internal/workflow"
	"campaignhub_backend/pkg/apperrors"
)

// ApplicationOutcome - результат перехода: сохраненная заявка,
// созданная выплата (если была) и итоги побочных эффектов
type ApplicationOutcome struct {
	Application *models.Application
	Payment     *models.Payment
	Effects     []workflow.EffectResult
}

type ApplicationService interface {
	Apply(ctx context.Context, actor models.Actor, req *dto.ApplyRequest) (*models.Application, error)
	GetApplication(ctx context.Context, actor models.Actor, id string) (*models.Application, error)
	ListApplications(ctx context.Context, query dto.ApplicationListQuery) ([]models.Application, error)
	ListMyApplications(ctx context.Context, actor models.Actor) ([]models.Application, error)

	Approve(ctx context.Context, actor models.Actor, id string, req *dto.ReviewRequest) (*ApplicationOutcome, error)
	Reject(ctx context.Context, actor models.Actor, id string, req *dto.ReviewRequest) (*ApplicationOutcome, error)
	SubmitOrder(ctx context.Context, actor models.Actor, id string, req *dto.SubmitOrderRequest) (*ApplicationOutcome, error)
	ApproveOrder(ctx context.Context, actor models.Actor, id string, req *dto.OrderReviewRequest) (*ApplicationOutcome, error)
	RejectOrder(ctx context.Context, actor models.Actor, id string, req *dto.OrderReviewRequest) (*ApplicationOutcome, error)

	ListOrders(ctx context.Context, campaignID string) ([]models.Application, error)
	ExportOrders(ctx context.Context, campaignID string, w io.Writer) error
}

type applicationService struct {
	repos          *repositories.Repositories
	notifier       NotificationService
	appealFormName string
	now            func() time.Time
}

func NewApplicationService(repos *repositories.Repositories, notifier NotificationService, appealFormName string) ApplicationService {
	return &applicationService{
		repos:          repos,
		notifier:       notifier,
		appealFormName: appealFormName,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// ---------------- Отклик и чтение ----------------

func (s *applicationService) Apply(ctx context.Context, actor models.Actor, req *dto.ApplyRequest) (*models.Application, error) {
	campaign, err := s.repos.Campaigns.FindByID(ctx, req.CampaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return nil, apperrors.ErrCampaignNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.repos.Users.FindByID(ctx, actor.ID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	// Повторный отклик разрешен только после отказа
	existing, err := s.repos.Applications.FindByInfluencerAndCampaign(ctx, actor.ID, campaign.ID)
	switch {
	case err == nil && existing.Status != models.ApplicationStatusRejected:
		return nil, apperrors.ErrAlreadyApplied
	case err != nil && !errors.Is(err, repositories.ErrApplicationNotFound):
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	app := &models.Application{
		CampaignID:       campaign.ID,
		InfluencerID:     actor.ID,
		Status:           models.ApplicationStatusApplied,
		Answers:          req.Answers,
		SampleMedia:      req.SampleMedia,
		ApplicantComment: strings.TrimSpace(req.Comment),
		FollowersAtApply: req.FollowersCount,
	}
	app.CreatedAt = now
	workflow.ResolveSnapshot(app, campaign)
	app.InfluencerComments = workflow.AppendComment(nil, models.StageApplication, req.Comment, actor, now)

	if err := s.repos.Applications.Create(ctx, app); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Application created", "application_id", app.ID, "campaign_id", app.CampaignID)
	return app, nil
}

func (s *applicationService) GetApplication(ctx context.Context, actor models.Actor, id string) (*models.Application, error) {
	app, err := loadApplication(ctx, s.repos.Applications, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, app.InfluencerID) {
		return nil, apperrors.ErrNotOwner
	}
	return app, nil
}

func (s *applicationService) ListApplications(ctx context.Context, query dto.ApplicationListQuery) ([]models.Application, error) {
	filter := repositories.ApplicationFilter{CampaignID: query.CampaignID}
	if query.Status != "" {
		filter.Statuses = []models.ApplicationStatus{models.ApplicationStatus(query.Status)}
	}
	apps, err := s.repos.Applications.List(ctx, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return apps, nil
}

func (s *applicationService) ListMyApplications(ctx context.Context, actor models.Actor) ([]models.Application, error) {
	apps, err := s.repos.Applications.List(ctx, repositories.ApplicationFilter{InfluencerID: actor.ID})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return apps, nil
}

// ---------------- Переходы ----------------

func (s *applicationService) Approve(ctx context.Context, actor models.Actor, id string, req *dto.ReviewRequest) (*ApplicationOutcome, error) {
	app, err := loadApplication(ctx, s.repos.Applications, id)
	if err != nil {
		return nil, err
	}

	campaign := snapshotFor(ctx, s.repos.Campaigns, app.CampaignID)
	if err := workflow.Approve(app, campaign, actor, workflow.ReviewInput{Comment: req.Comment}, s.now()); err != nil {
		return nil, err
	}
	return s.commit(ctx, app)
}

func (s *applicationService) Reject(ctx context.Context, actor models.Actor, id string, req *dto.ReviewRequest) (*ApplicationOutcome, error) {
	app, err := loadApplication(ctx, s.repos.Applications, id)
	if err != nil {
		return nil, err
	}

	in := workflow.ReviewInput{Comment: req.Comment, Reason: req.Reason}
	if err := workflow.Reject(app, actor, in, s.now()); err != nil {
		return nil, err
	}

	campaign := snapshotFor(ctx, s.repos.Campaigns, app.CampaignID)
	return s.commit(ctx, app, s.rejectionEffects(app, campaign, repositories.NotificationTypeApplicationRejected)...)
}

func (s *applicationService) SubmitOrder(ctx context.Context, actor models.Actor, id string, req *dto.SubmitOrderRequest) (*ApplicationOutcome, error) {
	app, err := loadApplication(ctx, s.repos.Applications, id)
	if err != nil {
		return nil, err
	}

	in := workflow.OrderInput{
		OrderID:            req.OrderID,
		Amount:             req.Amount,
		CampaignScreenshot: req.CampaignScreenshot,
		OrderData:          req.OrderData,
		ShippingAddress:    req.ShippingAddress,
		Comment:            req.Comment,
	}
	if err := workflow.SubmitOrder(app, actor, in, s.now()); err != nil {
		return nil, err
	}
	return s.commit(ctx, app)
}

func (s *applicationService) ApproveOrder(ctx context.Context, actor models.Actor, id string, req *dto.OrderReviewRequest) (*ApplicationOutcome, error) {
	app, err := loadApplication(ctx, s.repos.Applications, id)
	if err != nil {
		return nil, err
	}

	campaign := snapshotFor(ctx, s.repos.Campaigns, app.CampaignID)
	in := workflow.OrderReviewInput{ApprovedAmount: req.ApprovedAmount, Comment: req.Comment}
	if err := workflow.ApproveOrder(app, campaign, actor, in, s.now()); err != nil {
		return nil, err
	}

	outcome := &ApplicationOutcome{}
	createPayment := workflow.BestEffort("create_payment", func(ctx context.Context) error {
		existing, err := s.repos.Payments.FindByApplicationID(ctx, app.ID)
		if err == nil {
			outcome.Payment = existing
			if workflow.SyncPaymentAmount(existing, app) {
				logger.CtxInfo(ctx, "Payment amount synced on repeated order approval",
					"payment_id", existing.ID, "amount", existing.Amount)
				return s.repos.Payments.Update(ctx, existing)
			}
			return nil
		}
		if !errors.Is(err, repositories.ErrPaymentNotFound) {
			return err
		}

		payment := workflow.NewPaymentFor(app)
		if err := s.repos.Payments.Create(ctx, payment); err != nil {
			return err
		}
		outcome.Payment = payment
		return nil
	})

	result, err := s.commit(ctx, app, createPayment)
	if err != nil {
		return nil, err
	}
	result.Payment = outcome.Payment
	return result, nil
}

func (s *applicationService) RejectOrder(ctx context.Context, actor models.Actor, id string, req *dto.OrderReviewRequest) (*ApplicationOutcome, error) {
	app, err := loadApplication(ctx, s.repos.Applications, id)
	if err != nil {
		return nil, err
	}

	in := workflow.OrderReviewInput{Reason: req.Reason, Comment: req.Comment, AppealFormName: req.AppealFormName}
	if err := workflow.RejectOrder(app, actor, in, s.appealFormName, s.now()); err != nil {
		return nil, err
	}

	campaign := snapshotFor(ctx, s.repos.Campaigns, app.CampaignID)
	return s.commit(ctx, app, s.rejectionEffects(app, campaign, repositories.NotificationTypeOrderRejected)...)
}

// commit сохраняет заявку (обязательный эффект) и выполняет остальные эффекты
func (s *applicationService) commit(ctx context.Context, app *models.Application, extra ...workflow.Effect) (*ApplicationOutcome, error) {
	ctx = logger.WithCorrelationID(ctx, app.ID)

	effects := append([]workflow.Effect{
		workflow.Required("save_application", func(ctx context.Context) error {
			return s.repos.Applications.Update(ctx, app)
		}),
	}, extra...)

	results, err := workflow.RunEffects(ctx, effects)
	if err != nil {
		return nil, commitError(err)
	}

	logger.CtxInfo(ctx, "Application transitioned", "application_id", app.ID, "status", app.Status)
	return &ApplicationOutcome{Application: app, Effects: results}, nil
}

func (s *applicationService) rejectionEffects(app *models.Application, campaign *models.Campaign, notificationType string) []workflow.Effect {
	title := "your campaign"
	if campaign != nil && campaign.Title != "" {
		title = campaign.Title
	}

	var message, subject, templateName string
	if notificationType == repositories.NotificationTypeOrderRejected {
		message = fmt.Sprintf("Your order for %s was rejected. Please fill in the %s.", title, app.AppealFormName)
		subject = "Your order was rejected"
		templateName = email.TemplateOrderRejected
	} else {
		message = fmt.Sprintf("Your application to %s was not approved.", title)
		subject = "Your application was not approved"
		templateName = email.TemplateApplicationRejected
	}
	if app.RejectionReason != "" {
		message += " Reason: " + app.RejectionReason
	}

	return []workflow.Effect{
		workflow.BestEffort("notify_influencer", func(ctx context.Context) error {
			return s.notifier.Emit(ctx, app.InfluencerID, notificationType, message, app.ID)
		}),
		workflow.BestEffort("rejection_email", func(ctx context.Context) error {
			return s.notifier.SendTemplateEmail(ctx, app.InfluencerID, subject, templateName, email.TemplateData{
				"Campaign":   title,
				"Reason":     app.RejectionReason,
				"AppealForm": app.AppealFormName,
			})
		}),
	}
}

// ---------------- Заказы ----------------

func (s *applicationService) ListOrders(ctx context.Context, campaignID string) ([]models.Application, error) {
	apps, err := s.repos.Applications.List(ctx, repositories.ApplicationFilter{
		CampaignID: campaignID,
		Statuses:   models.OrderStageStatuses,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return apps, nil
}

var exportBaseHeader = []string{
	"applicationId", "campaignId", "campaignTitle", "brandName",
	"influencerId", "influencerName", "influencerEmail", "status",
}

const shippingPrefix = "shippingAddress."

// ExportOrders пишет очередь заказов в CSV (UTF-8 BOM, CRLF).
// Дополнительные колонки - order_form_fields кампаний в порядке появления.
func (s *applicationService) ExportOrders(ctx context.Context, campaignID string, w io.Writer) error {
	apps, err := s.ListOrders(ctx, campaignID)
	if err != nil {
		return err
	}

	campaignIDs := make([]string, 0)
	influencerIDs := make([]string, 0, len(apps))
	seenCampaign := make(map[string]bool)
	for _, app := range apps {
		if !seenCampaign[app.CampaignID] {
			seenCampaign[app.CampaignID] = true
			campaignIDs = append(campaignIDs, app.CampaignID)
		}
		influencerIDs = append(influencerIDs, app.InfluencerID)
	}

	campaigns := make(map[string]models.Campaign)
	if found, err := s.repos.Campaigns.FindByIDs(ctx, campaignIDs); err != nil {
		logger.CtxWarn(ctx, "Export: campaign lookup failed", "error", err)
	} else {
		for _, c := range found {
			campaigns[c.ID] = c
		}
	}

	users := make(map[string]models.User)
	if found, err := s.repos.Users.FindByIDs(ctx, influencerIDs); err != nil {
		logger.CtxWarn(ctx, "Export: influencer lookup failed", "error", err)
	} else {
		for _, u := range found {
			users[u.ID] = u
		}
	}

	var extra []string
	seenField := make(map[string]bool)
	for _, id := range campaignIDs {
		for _, field := range campaigns[id].OrderFormFields {
			if !seenField[field] {
				seenField[field] = true
				extra = append(extra, field)
			}
		}
	}

	header := append(append([]string{}, exportBaseHeader...), extra...)
	records := make([][]string, 0, len(apps))
	for _, app := range apps {
		campaign := campaigns[app.CampaignID]
		user := users[app.InfluencerID]
		record := []string{
			app.ID, app.CampaignID, campaign.Title, campaign.BrandName,
			app.InfluencerID, user.Name, user.Email, string(app.Status),
		}
		for _, field := range extra {
			record = append(record, orderFieldValue(&app, field))
		}
		records = append(records, record)
	}

	return tabular.WriteCSV(w, header, records)
}

func orderFieldValue(app *models.Application, field string) string {
	if strings.HasPrefix(field, shippingPrefix) {
		return app.ShippingAddress.Field(strings.TrimPrefix(field, shippingPrefix))
	}
	if app.OrderData == nil {
		return ""
	}
	return tabular.Stringify(app.OrderData[field])
}
