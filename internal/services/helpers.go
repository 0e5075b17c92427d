package services

import (
	"context"
	"errors"

	"campaignhub_backend/internal/logger"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories"
	"campaignhub_backend/pkg/apperrors"
)

func loadApplication(ctx context.Context, repo repositories.ApplicationRepository, id string) (*models.Application, error) {
	app, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return app, nil
}

func loadPayment(ctx context.Context, repo repositories.PaymentRepository, id string) (*models.Payment, error) {
	payment, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return payment, nil
}

// snapshotFor загружает кампанию для снимка настроек.
// Ошибка чтения не прерывает переход: снимок просто не обновляется.
func snapshotFor(ctx context.Context, repo repositories.CampaignRepository, campaignID string) *models.Campaign {
	if campaignID == "" {
		return nil
	}
	campaign, err := repo.FindByID(ctx, campaignID)
	if err != nil {
		logger.CtxWarn(ctx, "Campaign snapshot lookup failed", "campaign_id", campaignID, "error", err)
		return nil
	}
	return campaign
}

// commitError переводит сбой обязательного эффекта в AppError
func commitError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case apperrors.As(err, &appErr):
		return appErr
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return apperrors.ErrApplicationNotFound
	case errors.Is(err, repositories.ErrPaymentNotFound):
		return apperrors.ErrPaymentNotFound
	default:
		return apperrors.InternalError(err)
	}
}

// canView: владелец или администратор/бренд
func canView(viewer models.Actor, ownerID string) bool {
	return seesFullLedger(viewer) || viewer.ID == ownerID
}
