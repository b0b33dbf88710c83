package service

import "fmt"

// коды ошибок бизнес-логики, хендлеры мапят их на HTTP-статусы
const (
	CodeNotFound           = "NOT_FOUND"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeAlreadyCompleted   = "ALREADY_COMPLETED"
	CodeInsufficientPoints = "INSUFFICIENT_POINTS"
	CodeNoAffordableSeries = "NO_AFFORDABLE_SERIES"
	CodeEmptySeries        = "EMPTY_SERIES"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidationError,
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewAlreadyCompleted(taskID string) *BusinessError {
	return &BusinessError{
		Code:    CodeAlreadyCompleted,
		Message: fmt.Sprintf("задача %s уже завершена", taskID),
		Details: map[string]any{
			"task_id": taskID,
		},
	}
}

func NewInsufficientPoints(have, need int) *BusinessError {
	return &BusinessError{
		Code:    CodeInsufficientPoints,
		Message: fmt.Sprintf("недостаточно очков: есть %d, нужно %d", have, need),
		Details: map[string]any{
			"have": have,
			"need": need,
		},
	}
}
