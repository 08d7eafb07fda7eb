package constants

const MessageErrorFormat = "The '%s' format is invalid"

const (
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeValidationFailed      = "VALIDATION_FAILED"
	ErrCodeTransactionExisted    = "TRANSACTION_EXISTED"
	ErrCodeTransactionNotFound   = "TRANSACTION_NOT_FOUND"
	ErrCodeGatewayRejected       = "GATEWAY_REJECTED"
	ErrCodeGatewayUnreachable    = "GATEWAY_UNREACHABLE"
	ErrCodeOperationFailed       = "OPERATION_FAILED"
	ErrCodeCriticalInconsistency = "CRITICAL_INCONSISTENCY"
)

const (
	ErrMsgUnauthorized          = "authentication required"
	ErrMsgValidationFailed      = "request validation failed"
	ErrMsgTransactionExisted    = "a transaction with this order id already exists"
	ErrMsgTransactionNotFound   = "transaction not found"
	ErrMsgGatewayRejected       = "payment gateway rejected the request"
	ErrMsgGatewayUnreachable    = "payment gateway is unreachable"
	ErrMsgOperationFailed       = "operation failed"
	ErrMsgCriticalInconsistency = "payment captured but entitlement update failed"
)

var errorMessages = map[string]string{
	ErrCodeUnauthorized:          ErrMsgUnauthorized,
	ErrCodeValidationFailed:      ErrMsgValidationFailed,
	ErrCodeTransactionExisted:    ErrMsgTransactionExisted,
	ErrCodeTransactionNotFound:   ErrMsgTransactionNotFound,
	ErrCodeGatewayRejected:       ErrMsgGatewayRejected,
	ErrCodeGatewayUnreachable:    ErrMsgGatewayUnreachable,
	ErrCodeOperationFailed:       ErrMsgOperationFailed,
	ErrCodeCriticalInconsistency: ErrMsgCriticalInconsistency,
}

func GetErrorMessage(code string) string {
	msg, exists := errorMessages[code]
	if !exists {
		return ""
	}
	return msg
}
