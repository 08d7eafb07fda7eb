package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parsedu/payment-service/internal/config"
	"github.com/parsedu/payment-service/internal/constants"
	"github.com/parsedu/payment-service/internal/gateway"
	"github.com/parsedu/payment-service/internal/metrics"
	"github.com/parsedu/payment-service/internal/model"
	"github.com/parsedu/payment-service/internal/repository"
	"go.uber.org/zap"
)

const (
	VerifyStatusSuccess = "success"
	VerifyStatusFailed  = "failed"

	MsgPaymentVerified    = "payment verified successfully"
	MsgPaymentCancelled   = "payment was cancelled"
	MsgPaymentFailed      = "payment failed"
	MsgGatewayUnreachable = "payment gateway did not respond, the transaction was not completed"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, cmd CreatePaymentCommand) (CreatePaymentResult, error)
	VerifyPayment(ctx context.Context, cmd VerifyPaymentCommand) (VerifyPaymentResult, error)
	GetTransaction(userID, orderID string) (*model.Transaction, error)
	RedirectForm(providerName, orderID string) (string, error)
}

type paymentService struct {
	registry    *gateway.Registry
	txManager   repository.TxManager
	txRepo      repository.TransactionRepository
	profileRepo repository.ProfileRepository
	cfg         *config.Config
	log         *zap.Logger
	metrics     *metrics.Metrics
}

func NewPaymentService(registry *gateway.Registry, txManager repository.TxManager,
	txRepo repository.TransactionRepository, profileRepo repository.ProfileRepository,
	cfg *config.Config, log *zap.Logger, metrics *metrics.Metrics) PaymentService {
	return &paymentService{
		registry:    registry,
		txManager:   txManager,
		txRepo:      txRepo,
		profileRepo: profileRepo,
		cfg:         cfg,
		log:         log,
		metrics:     metrics,
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, cmd CreatePaymentCommand) (CreatePaymentResult, error) {
	start := time.Now()

	plan, ok := s.cfg.Plan(cmd.PlanID)
	if !ok {
		return CreatePaymentResult{}, NewServiceError(constants.ErrCodeValidationFailed,
			fmt.Errorf("unknown plan %q", cmd.PlanID))
	}

	provider, err := s.registry.Get(cmd.Provider)
	if err != nil {
		return CreatePaymentResult{}, NewServiceError(constants.ErrCodeValidationFailed, err)
	}

	price := plan.Amount
	if cmd.DiscountCode != "" {
		discount, ok := s.cfg.Discount(cmd.DiscountCode)
		if !ok {
			return CreatePaymentResult{}, NewServiceError(constants.ErrCodeValidationFailed,
				fmt.Errorf("unknown discount code %q", cmd.DiscountCode))
		}
		price -= price * discount.Percent / 100
	}

	if cmd.Amount != price {
		return CreatePaymentResult{}, NewServiceError(constants.ErrCodeValidationFailed,
			fmt.Errorf("amount %d does not match plan price %d", cmd.Amount, price))
	}

	if price < provider.MinAmount() {
		return CreatePaymentResult{}, NewServiceError(constants.ErrCodeValidationFailed,
			fmt.Errorf("amount %d is below the gateway minimum %d", price, provider.MinAmount()))
	}

	tx := model.Transaction{
		ID:        uuid.NewString(),
		OrderID:   cmd.OrderID,
		UserID:    cmd.UserID,
		PlanID:    plan.ID,
		Provider:  provider.Name(),
		Amount:    price,
		Status:    model.TxStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.txRepo.Create(ctx, &tx); err != nil {
		s.log.Error("error create payment transaction",
			zap.String("order_id", cmd.OrderID), zap.Error(err))
		s.metrics.RecordPaymentCreateError(provider.Name(), "persistence")

		if errors.Is(err, repository.ErrTransactionExisted) {
			return CreatePaymentResult{}, NewServiceError(constants.ErrCodeTransactionExisted, err)
		}

		return CreatePaymentResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	gwStart := time.Now()
	created, err := provider.Create(ctx, gateway.CreateRequest{
		OrderID:  tx.OrderID,
		Amount:   tx.Amount,
		Callback: s.callbackURL(provider.Name()),
	})
	s.metrics.RecordGatewayRequest(provider.Name(), "create", gatewayCallStatus(err), time.Since(gwStart))

	if err != nil {
		return CreatePaymentResult{}, s.failCreate(ctx, &tx, provider.Name(), err)
	}

	if created.RefNum != "" {
		if err := s.txRepo.SetRefNum(ctx, tx.ID, created.RefNum); err != nil {
			s.log.Error("error persist gateway token",
				zap.String("order_id", tx.OrderID), zap.Error(err))
			return CreatePaymentResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
		}
	}

	s.metrics.RecordPaymentCreated(provider.Name())

	s.log.Info("Payment transaction created",
		zap.String("order_id", tx.OrderID),
		zap.String("provider", provider.Name()),
		zap.Int64("amount", tx.Amount),
		zap.Duration("duration", time.Since(start)),
	)

	return CreatePaymentResult{
		TransactionID: tx.ID,
		OrderID:       tx.OrderID,
		PaymentURL:    created.PaymentURL,
	}, nil
}

// failCreate marks the transaction failed before surfacing the gateway error,
// so no row is left pending after an unsuccessful create call.
func (s *paymentService) failCreate(ctx context.Context, tx *model.Transaction, provider string, cause error) error {
	if err := s.txRepo.MarkFailed(ctx, tx.ID); err != nil {
		s.log.Error("error mark transaction failed",
			zap.String("order_id", tx.OrderID), zap.Error(err))
	}

	var rejection *gateway.RejectionError
	if errors.As(cause, &rejection) {
		s.metrics.RecordPaymentCreateError(provider, "gateway_rejected")
		s.log.Warn("Gateway rejected payment creation",
			zap.String("order_id", tx.OrderID),
			zap.String("provider", provider),
			zap.String("gateway_message", rejection.Message))
		return NewServiceError(constants.ErrCodeGatewayRejected, cause)
	}

	if errors.Is(cause, gateway.ErrTimeout) || errors.Is(cause, gateway.ErrUnreachable) {
		s.metrics.RecordPaymentCreateError(provider, "gateway_unreachable")
		s.log.Error("Gateway unreachable during payment creation",
			zap.String("order_id", tx.OrderID),
			zap.String("provider", provider),
			zap.Error(cause))
		return NewServiceError(constants.ErrCodeGatewayUnreachable, cause)
	}

	s.metrics.RecordPaymentCreateError(provider, "operation")
	return NewServiceError(constants.ErrCodeOperationFailed, cause)
}

func (s *paymentService) VerifyPayment(ctx context.Context, cmd VerifyPaymentCommand) (VerifyPaymentResult, error) {
	provider, err := s.registry.Get(cmd.Provider)
	if err != nil {
		return VerifyPaymentResult{}, NewServiceError(constants.ErrCodeValidationFailed, err)
	}

	cb, err := provider.ParseCallback(cmd.Params)
	if err != nil {
		return VerifyPaymentResult{}, NewServiceError(constants.ErrCodeValidationFailed, err)
	}

	tx, err := s.lookupTransaction(provider, cb)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return VerifyPaymentResult{}, NewServiceError(constants.ErrCodeTransactionNotFound, err)
		}
		return VerifyPaymentResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	// Idempotency guard: a transaction already verified returns the same
	// success response without touching the gateway or the subscription.
	if tx.Status == model.TxStatusSuccess {
		s.metrics.RecordVerification(provider.Name(), "idempotent")
		return VerifyPaymentResult{
			Status:     VerifyStatusSuccess,
			Message:    MsgPaymentVerified,
			OrderID:    tx.OrderID,
			VerifiedAt: tx.VerifiedAt,
		}, nil
	}

	if tx.Status == model.TxStatusFailed {
		return VerifyPaymentResult{
			Status:  VerifyStatusFailed,
			Message: MsgPaymentFailed,
			OrderID: tx.OrderID,
		}, nil
	}

	if !cb.OK {
		return s.failVerify(ctx, tx, provider.Name(), "cancelled", messageOr(cb.Message, MsgPaymentCancelled)), nil
	}

	if tx.RefNum == nil && cb.RefNum != "" {
		if err := s.txRepo.SetRefNum(ctx, tx.ID, cb.RefNum); err != nil {
			return VerifyPaymentResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
		}
		tx.RefNum = &cb.RefNum
	}

	refNum := ""
	if tx.RefNum != nil {
		refNum = *tx.RefNum
	}

	gwStart := time.Now()
	err = provider.Verify(ctx, gateway.VerifyRequest{
		OrderID:      tx.OrderID,
		RefNum:       refNum,
		Amount:       tx.Amount,
		CardNumber:   cb.CardNumber,
		TrackingCode: cb.TrackingCode,
	})
	s.metrics.RecordGatewayRequest(provider.Name(), "verify", gatewayCallStatus(err), time.Since(gwStart))

	if err != nil {
		var rejection *gateway.RejectionError
		if errors.As(err, &rejection) {
			return s.failVerify(ctx, tx, provider.Name(), "rejected", messageOr(rejection.Message, MsgPaymentFailed)), nil
		}

		if errors.Is(err, gateway.ErrTimeout) || errors.Is(err, gateway.ErrUnreachable) {
			return s.failVerify(ctx, tx, provider.Name(), "unreachable", MsgGatewayUnreachable), nil
		}

		return VerifyPaymentResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	return s.settle(ctx, tx, provider.Name())
}

// settle applies the accepted verification: the conditional status transition
// and the subscription extension run as one database transaction. Any failure
// past this point means money was captured without granting the entitlement,
// which is reported as a critical inconsistency rather than a generic error.
func (s *paymentService) settle(ctx context.Context, tx *model.Transaction, provider string) (VerifyPaymentResult, error) {
	plan, ok := s.cfg.Plan(tx.PlanID)
	if !ok {
		return VerifyPaymentResult{}, s.critical(provider, tx,
			fmt.Errorf("plan %q no longer configured", tx.PlanID))
	}

	profile, err := s.profileRepo.FindByUserID(tx.UserID)
	if err != nil {
		return VerifyPaymentResult{}, s.critical(provider, tx, err)
	}

	now := time.Now()
	base := now
	if profile.SubscriptionExpiresAt != nil && profile.SubscriptionExpiresAt.After(now) {
		base = *profile.SubscriptionExpiresAt
	}
	expiresAt := base.AddDate(0, 0, plan.DurationDays)

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.txRepo.MarkSuccess(ctx, tx.ID, now); err != nil {
			return err
		}
		return s.profileRepo.ExtendSubscription(ctx, tx.UserID, expiresAt)
	})

	if errors.Is(err, repository.ErrAlreadyFinalized) {
		// A concurrent verify won the transition; report its outcome.
		return s.reportFinalized(tx.OrderID, provider)
	}

	if err != nil {
		return VerifyPaymentResult{}, s.critical(provider, tx, err)
	}

	s.metrics.RecordVerification(provider, "success")
	s.metrics.RecordSubscriptionExtended()

	s.log.Info("Payment verified and subscription extended",
		zap.String("order_id", tx.OrderID),
		zap.String("user_id", tx.UserID),
		zap.String("provider", provider),
		zap.Int64("amount", tx.Amount),
		zap.Time("subscription_expires_at", expiresAt),
	)

	return VerifyPaymentResult{
		Status:     VerifyStatusSuccess,
		Message:    MsgPaymentVerified,
		OrderID:    tx.OrderID,
		VerifiedAt: &now,
	}, nil
}

func (s *paymentService) reportFinalized(orderID, provider string) (VerifyPaymentResult, error) {
	current, err := s.txRepo.FindByOrderID(orderID)
	if err != nil {
		return VerifyPaymentResult{}, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	if current.Status == model.TxStatusSuccess {
		s.metrics.RecordVerification(provider, "idempotent")
		return VerifyPaymentResult{
			Status:     VerifyStatusSuccess,
			Message:    MsgPaymentVerified,
			OrderID:    current.OrderID,
			VerifiedAt: current.VerifiedAt,
		}, nil
	}

	return VerifyPaymentResult{
		Status:  VerifyStatusFailed,
		Message: MsgPaymentFailed,
		OrderID: current.OrderID,
	}, nil
}

// critical records the money-captured-but-not-credited condition: a distinct
// error code, a distinct log entry, and an alerting metric. The transaction
// stays pending so a later verify retry can complete the settlement.
func (s *paymentService) critical(provider string, tx *model.Transaction, cause error) error {
	s.metrics.RecordCriticalInconsistency(provider)

	s.log.Error("CRITICAL: payment captured but entitlement update failed",
		zap.String("order_id", tx.OrderID),
		zap.String("user_id", tx.UserID),
		zap.String("provider", provider),
		zap.Int64("amount", tx.Amount),
		zap.Error(cause),
	)

	return NewServiceError(constants.ErrCodeCriticalInconsistency, cause)
}

func (s *paymentService) failVerify(ctx context.Context, tx *model.Transaction, provider, reason, message string) VerifyPaymentResult {
	if err := s.txRepo.MarkFailed(ctx, tx.ID); err != nil {
		s.log.Error("error mark transaction failed",
			zap.String("order_id", tx.OrderID), zap.Error(err))
	}

	s.metrics.RecordVerification(provider, reason)

	s.log.Info("Payment verification failed",
		zap.String("order_id", tx.OrderID),
		zap.String("provider", provider),
		zap.String("reason", reason),
		zap.String("message", message),
	)

	return VerifyPaymentResult{
		Status:  VerifyStatusFailed,
		Message: message,
		OrderID: tx.OrderID,
	}
}

func (s *paymentService) GetTransaction(userID, orderID string) (*model.Transaction, error) {
	tx, err := s.txRepo.FindByOrderID(orderID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, NewServiceError(constants.ErrCodeTransactionNotFound, err)
		}
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	// Callers only ever see their own transactions.
	if tx.UserID != userID {
		return nil, NewServiceError(constants.ErrCodeTransactionNotFound, repository.ErrTransactionNotFound)
	}

	return tx, nil
}

// RedirectForm renders the auto-submit payment form for form-post providers.
// Unknown or non-form providers get the invalid-provider page instead.
func (s *paymentService) RedirectForm(providerName, orderID string) (string, error) {
	provider, err := s.registry.Get(providerName)
	if err != nil {
		return gateway.RenderInvalidProvider(providerName)
	}

	formProvider, ok := provider.(gateway.FormProvider)
	if !ok {
		return gateway.RenderInvalidProvider(providerName)
	}

	tx, err := s.txRepo.FindByOrderID(orderID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return "", NewServiceError(constants.ErrCodeTransactionNotFound, err)
		}
		return "", NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	if tx.Status != model.TxStatusPending {
		return "", NewServiceError(constants.ErrCodeValidationFailed,
			fmt.Errorf("transaction %q is already finalized", orderID))
	}

	spec := formProvider.FormSpec(gateway.CreateRequest{
		OrderID:  tx.OrderID,
		Amount:   tx.Amount,
		Callback: s.callbackURL(provider.Name()),
	})

	return gateway.RenderForm(spec)
}

func (s *paymentService) lookupTransaction(provider gateway.Provider, cb gateway.Callback) (*model.Transaction, error) {
	if provider.LookupKey() == gateway.LookupByRefNum {
		return s.txRepo.FindByRefNum(cb.RefNum)
	}
	return s.txRepo.FindByOrderID(cb.OrderID)
}

func (s *paymentService) callbackURL(provider string) string {
	return s.cfg.Payment.CallbackBaseURL + "/api/v1/payments/callback/" + provider
}

func gatewayCallStatus(err error) string {
	if err == nil {
		return "success"
	}
	return "error"
}

func messageOr(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
