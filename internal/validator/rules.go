package validator

import (
	"log"

	"campaignhub_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Варианты пакетной обработки
const (
	BulkVariantReview = "review"
	BulkVariantOrder  = "order"
)

// registerCustomRules регистрирует кастомные правила на основе statuses.go
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без правил приложение запускаться не должно
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-application-status", validateApplicationStatus)
	mustRegister("is-payment-status", validatePaymentStatus)
	mustRegister("is-fulfillment-method", validateFulfillmentMethod)
	mustRegister("is-bulk-variant", validateBulkVariant)
}

// --- Функции валидации ---
// Пустые значения пропускаются, для этого есть 'required'

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).Valid()
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.ApplicationStatus(value).Valid()
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.PaymentStatus(value).Valid()
}

func validateFulfillmentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.FulfillmentMethod(value).Valid()
}

func validateBulkVariant(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", BulkVariantReview, BulkVariantOrder:
		return true
	default:
		return false
	}
}
