package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок workflow:
заявка (application) → заказ (order) → выплата (payment).
*/

// =========================================================================
// Фабричные ФУНКЦИИ
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidTransitionFrom описывает недопустимый переход состояния
func ErrInvalidTransitionFrom(domain, from, action string) *AppError {
	return New(CodeInvalidTransition, domain, "Action is not allowed in the current status", http.StatusConflict).
		WithDetails(map[string]string{"from": from, "action": action})
}

// ErrUnknownStatus сохраняет исходное значение статуса для диагностики
func ErrUnknownStatus(raw string) *AppError {
	return New(CodeUnknownStatus, "bulk", "Unknown status value", http.StatusBadRequest).
		WithDetails(map[string]string{"raw_status": raw})
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

// --- Application ---

var ErrApplicationNotFound = New(CodeNotFound, "application", "Application not found", http.StatusNotFound)

var ErrCampaignNotFound = New(CodeCampaignNotFound, "application", "Campaign not found", http.StatusNotFound)

var ErrUserNotFound = New(CodeUserNotFound, "application", "User not found", http.StatusNotFound)

var ErrAlreadyApplied = New(CodeAlreadyApplied, "application", "Already applied to this campaign", http.StatusConflict)

var ErrMissingFields = New(CodeMissingFields, "application", "Required fields are missing", http.StatusBadRequest)

// --- Order ---

var ErrMissingShippingAddress = New(
	CodeMissingShippingAddress,
	"order",
	"Shipping address with line1 and postal code is required",
	http.StatusBadRequest,
)

var ErrInvalidApprovedAmount = New(
	CodeInvalidApprovedAmount,
	"order",
	"Approved amount is only allowed for refund_on_delivery campaigns fulfilled by the influencer",
	http.StatusBadRequest,
)

// --- Payment ---

var ErrPaymentNotFound = New(CodeNotFound, "payment", "Payment not found", http.StatusNotFound)

var ErrDeliverablesMissing = New(CodeDeliverablesMissing, "payment", "Deliverables proof is missing", http.StatusBadRequest)

var ErrInvalidPayoutFlow = New(
	CodeInvalidPayoutFlow,
	"payment",
	"Partial approval is only available for refund_on_delivery payouts",
	http.StatusBadRequest,
)

// --- Bulk ---

var ErrMissingIdentifier = New(
	CodeMissingIdentifier,
	"bulk",
	"Row has no application id, influencer id + campaign id or influencer email + campaign id",
	http.StatusBadRequest,
)

// --- Auth ---

// ErrInsufficientPermissions - используется, когда не-админ пытается выполнить админ-действие.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrNotOwner - действие доступно только владельцу заявки или выплаты
var ErrNotOwner = New(CodeForbidden, "auth", "Only the owning influencer can perform this action", http.StatusForbidden)
