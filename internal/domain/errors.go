package domain

import "fmt"

// Коды доменных ошибок. Обработчик HTTP переводит их в статусы.
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeConflict            = "CONFLICT"
	CodeConcurrentUpdate    = "CONCURRENT_UPDATE"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidState        = "INVALID_STATE"
	CodeEmailDelivery       = "EMAIL_DELIVERY_FAILED"
	CodeUpstreamFailure     = "UPSTREAM_FAILURE"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
)

type DomainError struct {
	Code    string
	Message string
	// Err - исходная ошибка внешнего сервиса, если она есть
	Err error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Это позволяет использовать errors.Is()
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	// ErrInvalidInput - некорректные или отсутствующие поля запроса
	ErrInvalidInput = &DomainError{
		Code:    CodeInvalidInput,
		Message: "invalid input",
	}

	// ErrUnauthorized - токен отсутствует, просрочен или невалиден
	ErrUnauthorized = &DomainError{
		Code:    CodeUnauthorized,
		Message: "unauthorized",
	}

	// ErrConflict - участник уже приглашен и ожидает
	ErrConflict = &DomainError{
		Code:    CodeConflict,
		Message: "conflict",
	}

	// ErrConcurrentUpdate - баланс или участник изменился между чтением и записью
	ErrConcurrentUpdate = &DomainError{
		Code:    CodeConcurrentUpdate,
		Message: "record was modified concurrently, retry the request",
	}

	// ErrInsufficientCredits - недостаточно кредитов
	ErrInsufficientCredits = &DomainError{
		Code:    CodeInsufficientCredits,
		Message: "Not enough credits. Please buy credits first.",
	}

	// ErrNotFound - ресурс не найден
	ErrNotFound = &DomainError{
		Code:    CodeNotFound,
		Message: "resource not found",
	}

	// ErrInvalidState - операция недопустима для текущего статуса
	ErrInvalidState = &DomainError{
		Code:    CodeInvalidState,
		Message: "operation is not valid for the current status",
	}

	// ErrEmailDelivery - не удалось отправить письмо
	ErrEmailDelivery = &DomainError{
		Code:    CodeEmailDelivery,
		Message: "failed to send email",
	}

	// ErrUpstream - внешний сервис недоступен или вернул ошибку
	ErrUpstream = &DomainError{
		Code:    CodeUpstreamFailure,
		Message: "upstream call failed",
	}

	// ErrRateLimited - превышен лимит запросов
	ErrRateLimited = &DomainError{
		Code:    CodeRateLimited,
		Message: "rate limit exceeded",
	}
)

// NewNotFoundError создает ошибку NOT_FOUND с дополнительным контекстом
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInvalidInputError создает ошибку INVALID_INPUT с сообщением
func NewInvalidInputError(message string) *DomainError {
	return &DomainError{Code: CodeInvalidInput, Message: message}
}

func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

func NewInvalidStateError(message string) *DomainError {
	return &DomainError{Code: CodeInvalidState, Message: message}
}

func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{Code: CodeUnauthorized, Message: message}
}

// NewEmailDeliveryError оборачивает ошибку почтового провайдера
func NewEmailDeliveryError(err error) *DomainError {
	return &DomainError{
		Code:    CodeEmailDelivery,
		Message: fmt.Sprintf("Failed to send invitation email: %v", err),
		Err:     err,
	}
}

// NewUpstreamError описывает сбой внешнего сервиса: кто и на какой операции
func NewUpstreamError(collaborator, operation string, err error) *DomainError {
	return &DomainError{
		Code:    CodeUpstreamFailure,
		Message: fmt.Sprintf("%s: %s failed: %v", collaborator, operation, err),
		Err:     err,
	}
}
