package handlers

import (
	"errors"
	"net/http"

	"studyPaw/internal/logger"
	"studyPaw/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidationError:
		return http.StatusBadRequest
	case service.CodeAlreadyCompleted, service.CodeEmptySeries:
		return http.StatusConflict
	case service.CodeInsufficientPoints, service.CodeNoAffordableSeries:
		return http.StatusPaymentRequired
	default:
		return http.StatusBadRequest
	}
}
