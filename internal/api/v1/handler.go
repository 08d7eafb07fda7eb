package v1

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/parsedu/payment-service/internal/api/contract"
	"github.com/parsedu/payment-service/internal/api/validator"
	"github.com/parsedu/payment-service/internal/api/v1/middleware"
	"github.com/parsedu/payment-service/internal/config"
	"github.com/parsedu/payment-service/internal/constants"
	"github.com/parsedu/payment-service/internal/metrics"
	"github.com/parsedu/payment-service/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	logger         *zap.Logger
	paymentService service.PaymentService
	XValidator     validator.IXValidator
	metrics        *metrics.Metrics
	cfg            *config.Config
}

func NewHandler(logger *zap.Logger, paymentService service.PaymentService,
	XValidator validator.IXValidator, metrics *metrics.Metrics, cfg *config.Config) *Handler {
	return &Handler{
		logger:         logger,
		paymentService: paymentService,
		XValidator:     XValidator,
		metrics:        metrics,
		cfg:            cfg,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) CreatePayment(c *fiber.Ctx) error {
	start := time.Now()

	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(contract.ResponseError{
			Code:    constants.ErrCodeUnauthorized,
			Message: constants.ErrMsgUnauthorized,
		})
	}

	var handlerRequest CreatePaymentRequest
	validationStart := time.Now()

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	h.metrics.RecordValidationDuration("create_payment", time.Since(validationStart))

	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		return c.JSON(responseError)
	}

	cmd := service.CreatePaymentCommand{
		UserID:       userID,
		OrderID:      handlerRequest.OrderID,
		PlanID:       handlerRequest.PlanID,
		Provider:     handlerRequest.Provider,
		Amount:       handlerRequest.Amount,
		DiscountCode: handlerRequest.DiscountCode,
	}

	result, err := h.paymentService.CreatePayment(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	h.logger.Info("Payment created",
		zap.String("user_id", userID),
		zap.String("order_id", cmd.OrderID),
		zap.String("provider", cmd.Provider),
		zap.Duration("duration", time.Since(start)),
	)

	return c.JSON(contract.Response{Code: "success", Message: "payment created", Result: result})
}

// Callback terminates a payment attempt. Browser redirects arrive as GET and
// answer with a redirect to the result page; server-to-server notifications
// arrive as POST and answer with JSON.
func (h *Handler) Callback(c *fiber.Ctx) error {
	cmd := service.VerifyPaymentCommand{
		Provider: c.Params("provider"),
		Params:   callbackParams(c),
	}

	result, err := h.paymentService.VerifyPayment(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	if c.Method() == fiber.MethodGet {
		return c.Redirect(h.resultURL(result), fiber.StatusFound)
	}

	return c.JSON(contract.Response{
		Code:    result.Status,
		Message: result.Message,
		Result:  fiber.Map{"order_id": result.OrderID},
	})
}

func (h *Handler) GetTransaction(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(contract.ResponseError{
			Code:    constants.ErrCodeUnauthorized,
			Message: constants.ErrMsgUnauthorized,
		})
	}

	tx, err := h.paymentService.GetTransaction(userID, c.Params("order_id"))
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: tx})
}

// RedirectForm serves the auto-submitting payment form for form-post
// providers. Unknown providers get an explanatory page, not an error.
func (h *Handler) RedirectForm(c *fiber.Ctx) error {
	orderID := c.Query("order_id")
	if orderID == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(contract.ResponseError{
			Code:    constants.ErrCodeValidationFailed,
			Message: fmt.Sprintf(constants.MessageErrorFormat, "order_id"),
		})
	}

	html, err := h.paymentService.RedirectForm(c.Params("provider"), orderID)
	if err != nil {
		return err
	}

	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (h *Handler) resultURL(result service.VerifyPaymentResult) string {
	q := url.Values{}
	q.Set("status", result.Status)
	q.Set("message", result.Message)
	q.Set("order_id", result.OrderID)
	return h.cfg.Payment.ResultURL + "?" + q.Encode()
}

// callbackParams folds the query string, a form body, or a JSON body into one
// flat parameter map; later sources win so POST bodies override query noise.
func callbackParams(c *fiber.Ctx) map[string]string {
	params := make(map[string]string)
	for key, value := range c.Queries() {
		params[key] = value
	}

	if c.Method() != fiber.MethodPost {
		return params
	}

	contentType := string(c.Request().Header.ContentType())
	if strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		var body map[string]interface{}
		if err := json.Unmarshal(c.Body(), &body); err == nil {
			for key, value := range body {
				params[key] = fmt.Sprint(value)
			}
		}
		return params
	}

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		params[string(key)] = string(value)
	})

	return params
}
