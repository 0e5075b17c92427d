package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campaignhub_backend/internal/email"
	"campaignhub_backend/internal/logger"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories"
	"campaignhub_backend/internal/services/dto"
	"campaignhub_backend/pkg/apperrors"
)

type NotificationService interface {
	// Emit сохраняет уведомление и возвращает ошибку (для best-effort эффектов)
	Emit(ctx context.Context, userID, notificationType, message, applicationID string) error
	// Notify - то же самое, но сбой только логируется
	Notify(ctx context.Context, userID, notificationType, message, applicationID string)
	SendTemplateEmail(ctx context.Context, userID, subject, templateName string, data email.TemplateData) error

	ListForUser(ctx context.Context, userID string, unreadOnly bool) (*dto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
	CleanOldNotifications(ctx context.Context, retentionDays int) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	mailer           email.Provider
	now              func() time.Time
}

// NewNotificationService: mailer может быть nil, тогда письма не отправляются
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	mailer email.Provider,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		mailer:           mailer,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *notificationService) Emit(ctx context.Context, userID, notificationType, message, applicationID string) error {
	if userID == "" {
		return errors.New("notification recipient is empty")
	}

	notification := &models.Notification{
		UserID:        userID,
		Type:          notificationType,
		Message:       message,
		ApplicationID: applicationID,
		Read:          false,
	}
	notification.CreatedAt = s.now()

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *notificationService) Notify(ctx context.Context, userID, notificationType, message, applicationID string) {
	if err := s.Emit(ctx, userID, notificationType, message, applicationID); err != nil {
		logger.CtxWithError(ctx, "Notification dropped", err,
			"recipient", userID,
			"type", notificationType,
			"application_id", applicationID,
		)
	}
}

func (s *notificationService) SendTemplateEmail(ctx context.Context, userID, subject, templateName string, data email.TemplateData) error {
	if s.mailer == nil {
		return nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load recipient: %w", err)
	}
	if user.Email == "" {
		return errors.New("recipient has no email")
	}

	if data == nil {
		data = email.TemplateData{}
	}
	data["Name"] = user.Name

	return s.mailer.SendTemplate([]string{user.Email}, subject, templateName, data)
}

func (s *notificationService) ListForUser(ctx context.Context, userID string, unreadOnly bool) (*dto.NotificationListResponse, error) {
	notifications, err := s.notificationRepo.FindUserNotifications(ctx, userID, unreadOnly)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]*dto.NotificationResponse, 0, len(notifications)),
		Total:         len(notifications),
	}
	for i := range notifications {
		n := &notifications[i]
		if !n.Read {
			resp.Unread++
		}
		resp.Notifications = append(resp.Notifications, &dto.NotificationResponse{
			ID:            n.ID,
			Type:          n.Type,
			Message:       n.Message,
			ApplicationID: n.ApplicationID,
			Read:          n.Read,
			ReadAt:        n.ReadAt,
			CreatedAt:     n.CreatedAt,
		})
	}
	return resp, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// CleanOldNotifications удаляет прочитанные уведомления старше retentionDays
func (s *notificationService) CleanOldNotifications(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	before := s.now().AddDate(0, 0, -retentionDays)
	return s.notificationRepo.DeleteReadBefore(ctx, before)
}
