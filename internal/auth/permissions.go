package auth

import (
	"errors"

	"campaignhub_backend/internal/models"
)

// Разрешения администраторов
const (
	PermApplicationsReview = "applications:review"
	PermOrdersReview       = "orders:review"
	PermPaymentsView       = "payments:view"
	PermPaymentsManage     = "payments:manage"
)

// AllPermissions - полный набор, выдается первому администратору
var AllPermissions = []string{
	PermApplicationsReview,
	PermOrdersReview,
	PermPaymentsView,
	PermPaymentsManage,
}

// HasPermission: superadmin и brand проходят всегда, admin - по списку из токена
func HasPermission(actor models.Actor, permission string) bool {
	switch actor.Role {
	case models.UserRoleSuperAdmin, models.UserRoleBrand:
		return true
	case models.UserRoleAdmin:
		for _, p := range actor.Permissions {
			if p == permission {
				return true
			}
		}
	}
	return false
}

// IsAdmin проверяет является ли пользователь администратором
func IsAdmin(actor models.Actor) bool {
	return actor.IsPrivileged()
}

// ValidateRole проверяет валидность роли
func ValidateRole(role string) error {
	if !models.UserRole(role).Valid() {
		return errors.New("invalid role")
	}
	return nil
}
