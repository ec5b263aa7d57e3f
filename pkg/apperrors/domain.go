package apperrors

import "net/http"

/*
Фабрики и предопределенные переменные для доменных ошибок.
Переменные - для частых статичных ошибок, фабрики - когда нужно
обернуть ошибку нижнего слоя или добавить контекст.
*/

// --- Auth ---

// ErrInvalidCredentials - неверный email или пароль.
// Сообщение намеренно не уточняет, какое именно поле неверно.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrAccountLocked - аккаунт временно заблокирован после серии неудачных входов
var ErrAccountLocked = New(
	CodeAccountLocked,
	"auth",
	"Account temporarily locked due to repeated failed login attempts",
	http.StatusForbidden,
)

// ErrInvalidToken - refresh или access token невалиден/отозван
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or revoked token",
	http.StatusUnauthorized,
)

// ErrTokenExpired - срок действия токена истек
var ErrTokenExpired = New(
	CodeTokenExpired,
	"auth",
	"Token has expired",
	http.StatusUnauthorized,
)

// ErrEmailAlreadyExists - email уже занят
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already exists",
	http.StatusConflict,
)

// ErrWeakPassword - пароль не проходит требования сложности
var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

// ErrInsufficientPermissions - у роли нет права на действие
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Анкеты (application) ---

// ErrIncompleteApplication - попытка отправить анкету с незаполненными обязательными шагами
func ErrIncompleteApplication(missing []string) *AppError {
	return New(
		CodeIncompleteApplication,
		"application",
		"Application has incomplete required steps",
		http.StatusBadRequest,
	).WithDetails(map[string]interface{}{"missing_steps": missing})
}

// ErrInvalidTransition - недопустимый переход статуса
func ErrInvalidTransition(from, to string) *AppError {
	return New(
		CodeInvalidTransition,
		"application",
		"Status transition is not allowed",
		http.StatusConflict,
	).WithDetails(map[string]string{"from": from, "to": to})
}

// ErrApplicationReadOnly - анкета уже отправлена и недоступна заявителю для правок
var ErrApplicationReadOnly = New(
	CodeInvalidOperation,
	"application",
	"Application has been submitted and is read-only",
	http.StatusConflict,
)

// --- Общие ---

// ErrNotFound - фабрика "не найдено" (404), оборачивает ошибку репозитория
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - конфликт версий при конкурентном изменении (409)
func ErrConflict(domain, message string) *AppError {
	return New(CodeConflict, domain, message, http.StatusConflict)
}

// --- Платежи ---

// ErrAmountMismatch - сумма в callback не совпадает с ожидаемой
var ErrAmountMismatch = New(
	CodeAmountMismatch,
	"payment",
	"Callback amount does not match the invoice amount",
	http.StatusBadRequest,
)

// ErrInvalidSignature - подпись callback не прошла проверку
var ErrInvalidSignature = New(
	CodeInvalidSignature,
	"payment",
	"Callback signature verification failed",
	http.StatusForbidden,
)

// ErrUpstream - ошибка внешнего сервиса (шлюз, SMTP, telegram).
// Логируется, но не должна блокировать уже выполненную основную запись.
func ErrUpstream(err error, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, "upstream", message, http.StatusBadGateway)
}
