package services

// ServiceContainer собирает все сервисы приложения для передачи в хэндлеры
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	ApplicationService  ApplicationService
	ReviewService       ReviewService
	PostService         PostService
	PaymentService      PaymentService
	NotificationService NotificationService
	UploadService       UploadService
}
