package errors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/parsedu/payment-service/internal/constants"
	"github.com/parsedu/payment-service/internal/service"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Internal server error",
			"message": "Could not process the request",
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	statusMap := map[string]int{
		constants.ErrCodeUnauthorized:          fiber.StatusUnauthorized,
		constants.ErrCodeValidationFailed:      fiber.StatusUnprocessableEntity,
		constants.ErrCodeTransactionNotFound:   fiber.StatusNotFound,
		constants.ErrCodeTransactionExisted:    fiber.StatusConflict,
		constants.ErrCodeGatewayRejected:       fiber.StatusBadGateway,
		constants.ErrCodeGatewayUnreachable:    fiber.StatusGatewayTimeout,
		constants.ErrCodeOperationFailed:       fiber.StatusInternalServerError,
		constants.ErrCodeCriticalInconsistency: fiber.StatusInternalServerError,
	}

	status, ok := statusMap[err.Code]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	// Gateway rejections and validation failures carry caller-relevant
	// detail; everything else answers with the generic code message.
	message := constants.GetErrorMessage(err.Code)
	if err.Code == constants.ErrCodeGatewayRejected || err.Code == constants.ErrCodeValidationFailed {
		message = err.Error()
	}

	return c.Status(status).JSON(fiber.Map{
		"code":    err.Code,
		"message": message,
	})
}
