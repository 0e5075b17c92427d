package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	ApplicationHandler  *ApplicationHandler
	PaymentHandler      *PaymentHandler
	BulkHandler         *BulkHandler
	NotificationHandler *NotificationHandler
}
