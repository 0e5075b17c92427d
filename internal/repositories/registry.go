package repositories

import "gorm.io/gorm"

// Repositories - набор репозиториев, с которыми работают сервисы
type Repositories struct {
	Applications  ApplicationRepository
	Payments      PaymentRepository
	Campaigns     CampaignRepository
	Users         UserRepository
	Notifications NotificationRepository
}

func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Applications:  NewApplicationRepository(db),
		Payments:      NewPaymentRepository(db),
		Campaigns:     NewCampaignRepository(db),
		Users:         NewUserRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
