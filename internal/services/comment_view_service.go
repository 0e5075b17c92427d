package services

import (
	"context"

	"campaignhub_backend/internal/logger"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories"
	"campaignhub_backend/internal/services/dto"
	"campaignhub_backend/internal/workflow"
)

// CommentViewService строит проекции заявок и выплат для конкретного зрителя.
// Администратор видит полные журналы с именами авторов, инфлюенсер только
// последний комментарий администратора текущей стадии.
type CommentViewService interface {
	Application(ctx context.Context, viewer models.Actor, app *models.Application) *dto.ApplicationView
	Applications(ctx context.Context, viewer models.Actor, apps []models.Application) []*dto.ApplicationView
	Payment(ctx context.Context, viewer models.Actor, payment *models.Payment) *dto.PaymentView
	Payments(ctx context.Context, viewer models.Actor, payments []models.Payment) []*dto.PaymentView
}

type commentViewService struct {
	userRepo repositories.UserRepository
}

func NewCommentViewService(userRepo repositories.UserRepository) CommentViewService {
	return &commentViewService{userRepo: userRepo}
}

func seesFullLedger(viewer models.Actor) bool {
	return viewer.IsPrivileged() || viewer.Role == models.UserRoleBrand
}

func (s *commentViewService) Application(ctx context.Context, viewer models.Actor, app *models.Application) *dto.ApplicationView {
	if app == nil {
		return nil
	}
	views := s.Applications(ctx, viewer, []models.Application{*app})
	return views[0]
}

func (s *commentViewService) Applications(ctx context.Context, viewer models.Actor, apps []models.Application) []*dto.ApplicationView {
	full := seesFullLedger(viewer)

	var names map[string]string
	if full {
		ledgers := make([][]models.CommentEntry, 0, len(apps)*2)
		for i := range apps {
			ledgers = append(ledgers, apps[i].AdminComments, apps[i].InfluencerComments)
		}
		names = s.authorNames(ctx, workflow.AuthorIDs(ledgers...))
	}

	views := make([]*dto.ApplicationView, 0, len(apps))
	for i := range apps {
		app := apps[i].Clone()
		stage := workflow.StageForStatus(string(app.Status))
		view := &dto.ApplicationView{
			Application:        app,
			Stage:              stage,
			LatestAdminComment: workflow.LatestForStage(app.AdminComments, stage),
		}
		if full {
			view.AdminComments = workflow.WithAuthorNames(app.AdminComments, names)
			view.InfluencerComments = workflow.WithAuthorNames(app.InfluencerComments, names)
		} else {
			view.InfluencerComments = models.CloneComments(app.InfluencerComments)
		}
		if view.InfluencerComments == nil {
			view.InfluencerComments = []models.CommentEntry{}
		}
		views = append(views, view)
	}
	return views
}

func (s *commentViewService) Payment(ctx context.Context, viewer models.Actor, payment *models.Payment) *dto.PaymentView {
	if payment == nil {
		return nil
	}
	views := s.Payments(ctx, viewer, []models.Payment{*payment})
	return views[0]
}

func (s *commentViewService) Payments(ctx context.Context, viewer models.Actor, payments []models.Payment) []*dto.PaymentView {
	full := seesFullLedger(viewer)

	var names map[string]string
	if full {
		ledgers := make([][]models.CommentEntry, 0, len(payments)*2)
		for i := range payments {
			ledgers = append(ledgers, payments[i].AdminComments, payments[i].InfluencerComments)
		}
		names = s.authorNames(ctx, workflow.AuthorIDs(ledgers...))
	}

	views := make([]*dto.PaymentView, 0, len(payments))
	for i := range payments {
		p := payments[i].Clone()
		view := &dto.PaymentView{
			Payment:            p,
			LatestAdminComment: workflow.LatestForStage(p.AdminComments, models.StagePayment),
		}
		if full {
			view.AdminComments = workflow.WithAuthorNames(p.AdminComments, names)
			view.InfluencerComments = workflow.WithAuthorNames(p.InfluencerComments, names)
		} else {
			view.InfluencerComments = models.CloneComments(p.InfluencerComments)
		}
		if view.InfluencerComments == nil {
			view.InfluencerComments = []models.CommentEntry{}
		}
		views = append(views, view)
	}
	return views
}

// authorNames - один пакетный запрос; при сбое имена просто не заполняются
func (s *commentViewService) authorNames(ctx context.Context, ids []string) map[string]string {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to resolve comment authors", "error", err, "authors", len(ids))
		return names
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}
