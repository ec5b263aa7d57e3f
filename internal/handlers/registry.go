package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ApplicationHandler  *ApplicationHandler
	AdminHandler        *AdminHandler
	PostHandler         *PostHandler
	PaymentHandler      *PaymentHandler
	UploadHandler       *UploadHandler
	NotificationHandler *NotificationHandler
}
