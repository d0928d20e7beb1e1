package middleware

import (
	"errors"
	"log"

	"jobfinder/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// AppError is a handler failure with the status and message the client should see.
// Cause is logged for 5xx responses and never sent.
type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = response.MessageFor(e.StatusCode)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

func BadRequest(message string, cause error) *AppError {
	return NewAppError(fiber.StatusBadRequest, message, nil, cause)
}

func NotFound(message string, cause error) *AppError {
	return NewAppError(fiber.StatusNotFound, message, nil, cause)
}

func Internal(cause error) *AppError {
	return NewAppError(fiber.StatusInternalServerError, "", nil, cause)
}

// ErrorMiddleware turns returned errors and panics into the JSON envelope. Details of
// server-side failures are logged and replaced by a generic message.
type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("[HTTP] panic recovered | rid=%s path=%s panic=%v", requestID(c), c.Path(), r)
				err = response.Error(c, fiber.StatusInternalServerError, "", nil)
			}
		}()

		if err = c.Next(); err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			m.logger.Printf("[HTTP] request failed | rid=%s method=%s path=%s error=%v", requestID(c), c.Method(), c.Path(), err)
			msg, data = "", nil
		}
		return response.Error(c, status, msg, data)
	}
}

func normalizeError(err error) (int, string, any) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return clampStatus(appErr.StatusCode), appErr.Message, appErr.Data
	}

	// Routing errors such as 404 and 405 come from fiber itself.
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return clampStatus(fiberErr.Code), fiberErr.Message, nil
	}
	return fiber.StatusInternalServerError, "", nil
}

func clampStatus(status int) int {
	if status < 400 || status > 599 {
		return fiber.StatusInternalServerError
	}
	if status >= 500 && status != fiber.StatusServiceUnavailable && status != fiber.StatusGatewayTimeout {
		return fiber.StatusInternalServerError
	}
	return status
}

func requestID(c fiber.Ctx) string {
	return string(c.Response().Header.Peek(RequestIDHeader))
}
