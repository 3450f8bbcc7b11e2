package service

import (
	"github.com/abdesslemchebili/rebornBackend/internal/domain/apperror"
	"github.com/google/uuid"
)

// Códigos de erro dos módulos de entrega, pagamento e catálogo
const (
	CodeClientNotFound          = "CLIENT_NOT_FOUND"
	CodeProductNotFound         = "PRODUCT_NOT_FOUND"
	CodeDeliveryNotFound        = "DELIVERY_NOT_FOUND"
	CodePaymentNotFound         = "PAYMENT_NOT_FOUND"
	CodeCircuitNotFound         = "CIRCUIT_NOT_FOUND"
	CodePlanningNotFound        = "PLANNING_NOT_FOUND"
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeInvalidQuantity         = "INVALID_QUANTITY"
	CodeInvalidPrice            = "INVALID_PRICE"
	CodeInvalidStatus           = "INVALID_STATUS"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeInvalidPaymentType      = "INVALID_PAYMENT_TYPE"
	CodeInvalidMethod           = "INVALID_PAYMENT_METHOD"
	CodeNoProductLines          = "NO_PRODUCT_LINES"
	CodeInsufficientStock       = "INSUFFICIENT_STOCK"
	CodeDeliveryImmutable       = "DELIVERY_IMMUTABLE"
	CodeAmountExceedsDebt       = "AMOUNT_EXCEEDS_DEBT"
	CodePaymentCancelled        = "PAYMENT_CANCELLED"
	CodePaymentStatusChanged    = "PAYMENT_STATUS_CHANGED"
	CodeInvalidStock            = "INVALID_STOCK"
	CodeDuplicateSchedule       = "DUPLICATE_SCHEDULE"
	CodeInvalidRole             = "INVALID_ROLE"
	CodeWeakPassword            = "WEAK_PASSWORD"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeInactiveUser            = "USER_INACTIVE"
)

// validID rejeita ids malformados antes de chegar ao banco
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(code, message string) *apperror.Error {
	return apperror.NotFound(code, message)
}
