package response

import "github.com/gofiber/fiber/v3"

// Envelope is the body of every JSON API response.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageAccepted            = "accepted"
	MessageDegraded            = "degraded"
	MessageBadRequest          = "bad request"
	MessageNotFound            = "not found"
	MessageMethodNotAllowed    = "method not allowed"
	MessageGatewayTimeout      = "offline and not cached"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

func Success(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

// Error writes a failure envelope. Data may carry details such as a health report.
func Error(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data)
}

func write(c fiber.Ctx, status int, message string, data any) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = MessageFor(status)
	}
	return c.Status(status).JSON(Envelope{Status: status, Message: message, Data: data})
}

// MessageFor is the message used when a caller gives none.
func MessageFor(status int) string {
	switch {
	case status >= 200 && status < 300:
		if status == fiber.StatusAccepted {
			return MessageAccepted
		}
		return MessageOK
	case status == fiber.StatusBadRequest:
		return MessageBadRequest
	case status == fiber.StatusNotFound:
		return MessageNotFound
	case status == fiber.StatusMethodNotAllowed:
		return MessageMethodNotAllowed
	case status == fiber.StatusGatewayTimeout:
		return MessageGatewayTimeout
	case status == fiber.StatusServiceUnavailable:
		return MessageDegraded
	case status >= 500:
		return MessageInternalServerError
	default:
		return MessageError
	}
}
