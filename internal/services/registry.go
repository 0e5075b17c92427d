package services

import (
	"campaignhub_backend/internal/email"
	"campaignhub_backend/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения
type ServiceContainer struct {
	ApplicationService  ApplicationService
	PaymentService      PaymentService
	BulkReviewService   BulkReviewService
	NotificationService NotificationService
	CommentViewService  CommentViewService
	EmailService        email.Provider
}

// ServiceOptions - настройки сервисов из конфигурации
type ServiceOptions struct {
	AppealFormName string
}

func NewServiceContainer(repos *repositories.Repositories, mailer email.Provider, opts ServiceOptions) *ServiceContainer {
	notificationService := NewNotificationService(repos.Notifications, repos.Users, mailer)
	applicationService := NewApplicationService(repos, notificationService, opts.AppealFormName)

	return &ServiceContainer{
		ApplicationService:  applicationService,
		PaymentService:      NewPaymentService(repos, notificationService),
		BulkReviewService:   NewBulkReviewService(repos, applicationService),
		NotificationService: notificationService,
		CommentViewService:  NewCommentViewService(repos.Users),
		EmailService:        mailer,
	}
}
