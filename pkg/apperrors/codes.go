package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Общие, не-доменные коды ошибок
const (
	// Системные и неизвестные ошибки
	CodeInternalError ErrorCode = "server_error"
	CodeDatabaseError ErrorCode = "database_error"

	// Общие ошибки бизнес-логики
	CodeNotFound         ErrorCode = "not_found"
	CodeAlreadyExists    ErrorCode = "already_exists"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeConflict         ErrorCode = "conflict"

	// Аутентификация и Авторизация
	CodeUnauthorized ErrorCode = "unauthorized"
	CodeForbidden    ErrorCode = "forbidden"
	CodeInvalidToken ErrorCode = "invalid_token"
)

// Коды workflow (заявка → заказ → выплата).
// Клиенты сравнивают их строково, менять значения нельзя.
const (
	CodeMissingFields          ErrorCode = "missing_fields"
	CodeMissingShippingAddress ErrorCode = "missing_shipping_address"
	CodeMissingIdentifier      ErrorCode = "missing_identifier"
	CodeInvalidApprovedAmount  ErrorCode = "invalid_approved_amount"
	CodeDeliverablesMissing    ErrorCode = "deliverables_missing"
	CodeInvalidPayoutFlow      ErrorCode = "invalid_payout_flow"
	CodeInvalidTransition      ErrorCode = "invalid_transition"
	CodeUnknownStatus          ErrorCode = "unknown_status"
	CodeApplicationNotFound    ErrorCode = "application_not_found"
	CodeCampaignNotFound       ErrorCode = "campaign_not_found"
	CodeUserNotFound           ErrorCode = "user_not_found"
	CodeAlreadyApplied         ErrorCode = "already_applied"
)
