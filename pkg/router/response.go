package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-webhook-gateway/pkg/log"
)

type Response struct {
	Status  bool        `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SendResult is the body of a successful POST /send.
type SendResult struct {
	Status string `json:"status"`
}

// SendError is the body of a failed POST /send.
type SendError struct {
	Error string `json:"error"`
}

func logSuccess(c *fiber.Ctx, code int, message string) {
	statusMessage := http.StatusText(code)

	if statusMessage == message || c.OriginalURL() == BaseURL {
		log.Print(c).Info(fmt.Sprintf("%d %v", code, statusMessage))
	} else {
		log.Print(c).Info(fmt.Sprintf("%d %v", code, message))
	}
}

func logError(c *fiber.Ctx, code int, message string) {
	statusMessage := http.StatusText(code)

	if statusMessage == message {
		log.Print(c).Error(fmt.Sprintf("%d %v", code, statusMessage))
	} else {
		log.Print(c).Error(fmt.Sprintf("%d %v", code, message))
	}
}

func ResponseSuccess(c *fiber.Ctx, message string) error {
	return ResponseSuccessWithData(c, message, nil)
}

func ResponseSuccessWithData(c *fiber.Ctx, message string, data interface{}) error {
	response := Response{
		Status: true,
		Code:   http.StatusOK,
		Data:   data,
	}

	if strings.TrimSpace(message) == "" {
		message = http.StatusText(response.Code)
	}
	response.Message = message

	logSuccess(c, response.Code, response.Message)
	return c.Status(response.Code).JSON(response)
}

func ResponseNoContent(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusNoContent)
}

func responseFailure(c *fiber.Ctx, code int, message string) error {
	response := Response{
		Status: false,
		Code:   code,
	}

	if strings.TrimSpace(message) == "" {
		message = http.StatusText(response.Code)
	}
	response.Message = message
	response.Error = message

	logError(c, response.Code, response.Message)
	return c.Status(response.Code).JSON(response)
}

func ResponseNotFound(c *fiber.Ctx, message string) error {
	return responseFailure(c, http.StatusNotFound, message)
}

func ResponseUnauthorized(c *fiber.Ctx, message string) error {
	return responseFailure(c, http.StatusUnauthorized, message)
}

func ResponseInternalError(c *fiber.Ctx, message string) error {
	return responseFailure(c, http.StatusInternalServerError, message)
}

// ResponseSent answers a delivered send request with {"status":"sent"}.
func ResponseSent(c *fiber.Ctx) error {
	logSuccess(c, http.StatusOK, "sent")
	return c.Status(http.StatusOK).JSON(SendResult{Status: "sent"})
}

// ResponseSendError answers a send request with {"error": message}.
func ResponseSendError(c *fiber.Ctx, code int, message string) error {
	logError(c, code, message)
	return c.Status(code).JSON(SendError{Error: message})
}
